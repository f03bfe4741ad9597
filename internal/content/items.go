package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/inversoft/cleanspeak-go-client/internal/domain"
)

// itemsFile is the layout of an items file.
type itemsFile struct {
	Items []domain.Item `json:"items" yaml:"items"`
}

// LoadItems reads moderation items from a YAML or JSON file.
func LoadItems(path string) ([]domain.Item, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("items file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open items file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read items file: %w", err)
	}

	parsed, err := parseItems(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Items) == 0 {
		return nil, errors.New("items file contains no items entries")
	}

	seen := make(map[string]struct{}, len(parsed.Items))
	out := make([]domain.Item, 0, len(parsed.Items))
	for i := range parsed.Items {
		item := sanitizeItem(parsed.Items[i])
		if err := validateItem(item); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		if _, dup := seen[item.Key]; dup {
			return nil, fmt.Errorf("duplicate item key %q", item.Key)
		}
		seen[item.Key] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

type unmarshalFn func([]byte, any) error

func parseItems(data []byte, ext string) (itemsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var f itemsFile
		if err := d.fn(data, &f); err != nil {
			errs = append(errs, fmt.Errorf("decode %s items: %w", d.name, err))
			continue
		}
		return f, nil
	}
	if len(errs) > 0 {
		return itemsFile{}, errors.Join(errs...)
	}
	return itemsFile{}, errors.New("items file format not recognized (expected YAML or JSON)")
}

func sanitizeItem(it domain.Item) domain.Item {
	it.Key = strings.TrimSpace(it.Key)
	it.Location = strings.TrimSpace(it.Location)
	it.Text = strings.TrimSpace(it.Text)
	it.HTML = strings.TrimSpace(it.HTML)
	it.SourceURL = strings.TrimSpace(it.SourceURL)
	if it.Flag != nil {
		f := *it.Flag
		f.Comment = strings.TrimSpace(f.Comment)
		it.Flag = &f
	}
	return it
}

func validateItem(it domain.Item) error {
	if it.Key == "" {
		return errors.New("key is required")
	}
	if it.ApplicationID == uuid.Nil {
		return fmt.Errorf("application_id is required for item %q", it.Key)
	}
	if it.SenderID == uuid.Nil {
		return fmt.Errorf("sender_id is required for item %q", it.Key)
	}
	if it.Text == "" && it.HTML == "" && it.SourceURL == "" {
		return fmt.Errorf("one of text, html or source_url is required for item %q", it.Key)
	}
	if it.Flag != nil {
		if it.ContentID == nil {
			return fmt.Errorf("content_id is required to flag item %q", it.Key)
		}
		if it.Flag.ReporterID == uuid.Nil {
			return fmt.Errorf("flag.reporter_id is required for item %q", it.Key)
		}
	}
	return nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/inversoft/cleanspeak-go-client/internal/config"
	"github.com/inversoft/cleanspeak-go-client/internal/content"
	"github.com/inversoft/cleanspeak-go-client/internal/domain"
	"github.com/inversoft/cleanspeak-go-client/internal/logger"
	"github.com/inversoft/cleanspeak-go-client/pkg/cleanspeak"
	"github.com/inversoft/cleanspeak-go-client/pkg/httpclient"
	"github.com/inversoft/cleanspeak-go-client/pkg/optional"
	"github.com/inversoft/cleanspeak-go-client/pkg/publishers"
	"github.com/inversoft/cleanspeak-go-client/pkg/rest"
)

// Moderator sends a batch of items through CleanSpeak moderation and fans the
// decisions out to the configured publishers.
type Moderator struct {
	client    *cleanspeak.Client
	extractor *content.Extractor
	fanout    *publishers.Fanout
	items     []domain.Item
	log       logger.Logger
	now       func() time.Time
}

// Summary counts the outcomes of one Run.
type Summary struct {
	Total     int `json:"total"`
	Moderated int `json:"moderated"`
	Rejected  int `json:"rejected"`
	Flagged   int `json:"flagged"`
	Failed    int `json:"failed"`
}

// NewModerator builds a moderation runtime from config files.
func NewModerator(ctx context.Context, cfg *config.Config, log logger.Logger) (*Moderator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	items, err := content.LoadItems(cfg.ItemsFile)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	log.InfoObj("items loaded", "items_meta", map[string]any{
		"count": len(items),
		"file":  cfg.ItemsFile,
	})

	client, err := cleanspeak.New(cfg.CleanSpeakAPIKey, cfg.CleanSpeakURL,
		cleanspeak.WithTimeout(cfg.RequestTimeout),
		cleanspeak.WithLogger(log),
	)
	if err != nil {
		return nil, fmt.Errorf("create cleanspeak client: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	fetcher := httpclient.NewRestyFetcher(httpclient.New(cfg.RequestTimeout))
	return newModerator(client, content.NewExtractor(fetcher), fanout, items, log), nil
}

func newModerator(client *cleanspeak.Client, extractor *content.Extractor, fanout *publishers.Fanout, items []domain.Item, log logger.Logger) *Moderator {
	return &Moderator{
		client:    client,
		extractor: extractor,
		fanout:    fanout,
		items:     items,
		log:       log,
		now:       time.Now,
	}
}

// buildFanout loads the enabled publishers. An empty path disables publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		log.WarnObj("no publishers file configured; decisions are only logged", "publishers_file", path)
		return publishers.NewFanout(nil), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubClients), nil
}

// Run moderates every item once, in file order. A failed item is logged and
// published with its error; it does not stop the batch.
func (m *Moderator) Run(ctx context.Context) (Summary, error) {
	if m == nil || m.client == nil {
		return Summary{}, fmt.Errorf("moderator is not initialized")
	}
	defer m.closeFanout()

	start := m.now()
	m.log.InfoObj("moderation started", "moderation_meta", map[string]any{
		"items_count":      len(m.items),
		"publishers_count": m.fanout.Size(),
	})

	var sum Summary
	for _, item := range m.items {
		if err := ctx.Err(); err != nil {
			m.log.InfoObj("moderation interrupted", "reason", err.Error())
			return sum, err
		}

		evt, err := m.ModerateItem(ctx, item)
		if err != nil {
			return sum, err
		}

		sum.Total++
		switch {
		case evt.Error != "":
			sum.Failed++
		default:
			sum.Moderated++
			if evt.ContentAction == string(cleanspeak.ContentActionReject) {
				sum.Rejected++
			}
			if evt.Flagged {
				sum.Flagged++
			}
		}
	}

	m.log.InfoObj("moderation completed", "moderation_meta", map[string]any{
		"summary":    sum,
		"elapsed_ms": m.now().Sub(start).Milliseconds(),
	})
	return sum, nil
}

// ModerateItem moderates one item, flags it when asked to, and publishes the
// resulting event. API and transport failures are reported on the event; the
// error is reserved for misuse of the request builder.
func (m *Moderator) ModerateItem(ctx context.Context, item domain.Item) (publishers.Event, error) {
	evt := publishers.NewEvent(item.Key, item.ApplicationID, item.SenderID)
	evt.ContentID = item.ContentID

	if err := m.moderate(ctx, item, &evt); err != nil {
		if errors.Is(err, rest.ErrMethodNotSet) {
			return evt, err
		}
		evt.Error = err.Error()
		m.log.WarnObj("item moderation failed", "moderation_item", map[string]any{
			"item_key": item.Key,
			"status":   evt.Status,
			"error":    evt.Error,
		})
	} else {
		m.log.DebugObj("item moderated", "moderation_item", map[string]any{
			"item_key":       item.Key,
			"content_action": evt.ContentAction,
			"flagged":        evt.Flagged,
		})
	}

	if _, err := m.fanout.Publish(ctx, evt); err != nil {
		m.log.ErrorObj("publish decision failed", "error", err.Error())
	}
	return evt, nil
}

func (m *Moderator) moderate(ctx context.Context, item domain.Item, evt *publishers.Event) error {
	if item.Flag != nil && item.ContentID == nil {
		return fmt.Errorf("flag: content id is required")
	}
	parts, err := m.extractor.Parts(ctx, item)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}

	req := cleanspeak.ModerateRequest{Content: cleanspeak.Content{
		ApplicationID: item.ApplicationID,
		CreateInstant: cleanspeak.Instant(m.now()),
		Location:      item.Location,
		Parts:         parts,
		SenderID:      item.SenderID,
	}}

	resp, err := m.client.Moderate(ctx, optional.FromPtr(item.ContentID), req)
	if err != nil {
		return err
	}
	evt.Status = resp.Status
	if err := responseError("moderate", resp); err != nil {
		return err
	}

	var decision cleanspeak.ModerateResponse
	if err := resp.DecodeSuccess(&decision); err != nil {
		return fmt.Errorf("decode moderate response: %w", err)
	}
	evt.ContentAction = string(decision.ContentAction)
	evt.Stored = decision.Stored

	if item.Flag == nil {
		return nil
	}
	flag := cleanspeak.FlagRequest{Flag: cleanspeak.Flag{
		Comment:       item.Flag.Comment,
		CreateInstant: cleanspeak.Instant(m.now()),
		ReporterID:    item.Flag.ReporterID,
	}}
	resp, err = m.client.Flag(ctx, *item.ContentID, flag)
	if err != nil {
		return err
	}
	if err := responseError("flag", resp); err != nil {
		return err
	}
	evt.Flagged = true
	return nil
}

// responseError turns an unsuccessful response into an error describing it.
func responseError(call string, resp *rest.ClientResponse) error {
	switch {
	case resp.Exception != nil:
		return fmt.Errorf("%s: %w", call, resp.Exception)
	case resp.WasSuccessful():
		return nil
	case resp.Status == http.StatusNotFound:
		return fmt.Errorf("%s: not found", call)
	}

	var apiErrs cleanspeak.Errors
	if err := resp.DecodeError(&apiErrs); err == nil {
		return fmt.Errorf("%s: %w", call, &apiErrs)
	}
	return fmt.Errorf("%s: status %d", call, resp.Status)
}

func (m *Moderator) closeFanout() {
	if err := m.fanout.Close(); err != nil {
		m.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}

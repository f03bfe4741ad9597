package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inversoft/cleanspeak-go-client/internal/domain"
	"github.com/inversoft/cleanspeak-go-client/pkg/cleanspeak"
	"github.com/inversoft/cleanspeak-go-client/pkg/httpclient"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	textPartName = "content"
)

// Extractor turns an item's text, inline HTML or remote page into content
// parts.
type Extractor struct {
	fetcher httpclient.Fetcher
}

// NewExtractor builds an extractor; a nil fetcher gets the default resty one.
func NewExtractor(fetcher httpclient.Fetcher) *Extractor {
	if fetcher == nil {
		fetcher = httpclient.NewRestyFetcher(nil)
	}
	return &Extractor{fetcher: fetcher}
}

// Parts collects the parts for item: the plain text first, then anything
// found in the inline HTML, then anything found on the source page.
func (e *Extractor) Parts(ctx context.Context, item domain.Item) ([]cleanspeak.ContentPart, error) {
	var parts []cleanspeak.ContentPart
	if item.Text != "" {
		parts = append(parts, cleanspeak.ContentPart{
			Type:    cleanspeak.ContentPartText,
			Name:    textPartName,
			Content: item.Text,
		})
	}
	if item.HTML != "" {
		htmlParts, err := PartsFromHTML(strings.NewReader(item.HTML), nil)
		if err != nil {
			return nil, err
		}
		parts = append(parts, htmlParts...)
	}
	if item.SourceURL != "" {
		pageParts, err := e.fetchParts(ctx, item.SourceURL)
		if err != nil {
			return nil, err
		}
		parts = append(parts, pageParts...)
	}
	if len(parts) == 0 {
		return nil, errors.New("item has no content")
	}
	return parts, nil
}

func (e *Extractor) fetchParts(ctx context.Context, source string) ([]cleanspeak.ContentPart, error) {
	base, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}

	resp, err := e.fetcher.Get(ctx, source, map[string]string{"Accept": "text/html"})
	if err != nil {
		return nil, fmt.Errorf("http fetch: %w", err)
	}
	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return nil, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}
	return PartsFromHTML(bytes.NewReader(body), base)
}

// PartsFromHTML extracts the title, visible text, links and images of an HTML
// document. Relative links are resolved against base when it is non-nil.
func PartsFromHTML(r io.Reader, base *url.URL) ([]cleanspeak.ContentPart, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var parts []cleanspeak.ContentPart

	if title := collapse(doc.Find("title").First().Text()); title != "" {
		parts = append(parts, cleanspeak.ContentPart{Type: cleanspeak.ContentPartText, Name: "title", Content: title})
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	if text := collapse(body.Text()); text != "" {
		parts = append(parts, cleanspeak.ContentPart{Type: cleanspeak.ContentPartText, Name: textPartName, Content: text})
	}

	seen := map[string]struct{}{}
	add := func(typ cleanspeak.ContentPartType, raw string) {
		ref := resolve(base, raw)
		if ref == "" {
			return
		}
		if _, dup := seen[ref]; dup {
			return
		}
		seen[ref] = struct{}{}
		parts = append(parts, cleanspeak.ContentPart{Type: typ, Content: ref})
	}

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		add(cleanspeak.ContentPartHyperlink, href)
	})
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(cleanspeak.ContentPartImage, src)
	})
	doc.Find("video[src], video source[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		add(cleanspeak.ContentPartVideo, src)
	})

	return parts, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func resolve(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(strings.ToLower(raw), "javascript:") {
		return ""
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	return ref.String()
}

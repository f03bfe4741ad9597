package publishers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inversoft/cleanspeak-go-client/pkg/httpclient"
	"github.com/inversoft/cleanspeak-go-client/pkg/rest"
)

type httpPublisher struct {
	id      string
	method  string
	url     string
	headers map[string]string
	client  *resty.Client
	typ     string
	log     Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.New(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)

	return &httpPublisher{
		id:      cfg.ID,
		typ:     TypeHTTP,
		method:  cfg.HTTP.Method,
		url:     cfg.HTTP.URL,
		headers: cfg.HTTP.Headers,
		client:  client,
		log:     ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return h.typ }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	b := rest.NewBuilder(h.client).URL(h.url)
	for k, v := range h.headers {
		b.Header(k, v)
	}
	b.JSONBody(evt)
	if h.method == http.MethodPut {
		b.Put()
	} else {
		b.Post()
	}

	resp, err := b.Go(ctx)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	if resp.Exception != nil {
		return fmt.Errorf("http request: %w", resp.Exception)
	}
	if !resp.WasSuccessful() {
		return fmt.Errorf("http response status %d: %s", resp.Status, readBodySnippet(resp.Body()))
	}
	h.log.DebugObj("http publisher delivered event", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"status":       resp.Status,
	})
	return nil
}

func readBodySnippet(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	if len(body) > 512 {
		body = body[:512]
	}
	return strings.TrimSpace(string(body))
}

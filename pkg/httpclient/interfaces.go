package httpclient

import "context"

// Response is the subset of an HTTP response that page fetchers read.
type Response interface {
	Body() []byte
	StatusCode() int
	ContentType() string
}

// Fetcher performs plain GET requests, letting callers swap in fakes.
type Fetcher interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

package httpclient

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// UserAgent is sent on every request built by this package.
const UserAgent = "cleanspeak-go-client/1.0"

// DefaultTimeout applies when callers pass a non-positive timeout.
const DefaultTimeout = 30 * time.Second

// New returns a resty client with the SDK defaults applied. The client never
// retries; a failed call surfaces to the caller as-is.
//
// timeout bounds dialing, the TLS handshake and the wait for response
// headers. It does not bound reading the body, so streamed downloads run as
// long as the server keeps sending; cancel the request context to stop them.
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New()
	c.SetTransport(newTransport(timeout))
	c.SetRetryCount(0)
	c.SetHeader("User-Agent", UserAgent)
	return c
}

func newTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: time.Second,
	}
}

// RestyFetcher adapts resty.Client to the Fetcher interface.
type RestyFetcher struct {
	client *resty.Client
}

// NewRestyFetcher wraps client, building a default one when nil.
func NewRestyFetcher(client *resty.Client) *RestyFetcher {
	if client == nil {
		client = New(DefaultTimeout)
	}
	return &RestyFetcher{client: client}
}

// Get performs an HTTP GET with the given headers.
func (r *RestyFetcher) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte        { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int     { return r.resp.StatusCode() }
func (r *restyResponseAdapter) ContentType() string { return r.resp.Header().Get("Content-Type") }

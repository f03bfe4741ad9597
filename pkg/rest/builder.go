package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/inversoft/cleanspeak-go-client/pkg/httpclient"
	"github.com/inversoft/cleanspeak-go-client/pkg/optional"
)

const (
	// ContentTypeJSON is forced by JSONBody.
	ContentTypeJSON = "application/json"
	// ContentTypeOctetStream is the media type for binary uploads.
	ContentTypeOctetStream = "application/octet-stream"
)

type bodyKind uint8

const (
	bodyNone bodyKind = iota
	bodyJSON
	bodyBinary
)

// Builder accumulates a single API call. Each configuration method mutates
// the builder and returns it so calls can be chained; Go sends the request.
// A Builder is meant to be used for one call and then discarded.
type Builder struct {
	client  *resty.Client
	method  string
	url     string
	params  url.Values
	headers map[string]string

	kind     bodyKind
	jsonBody any
	reader   io.Reader
	filePath string

	stream bool
}

// NewBuilder starts a request on client. A nil client gets the SDK defaults
// from httpclient.New.
func NewBuilder(client *resty.Client) *Builder {
	if client == nil {
		client = httpclient.New(httpclient.DefaultTimeout)
	}
	return &Builder{
		client:  client,
		params:  url.Values{},
		headers: map[string]string{},
	}
}

// URL sets the scheme, host and optional base path.
func (b *Builder) URL(base string) *Builder {
	b.url = base
	return b
}

// URI appends a literal path. It is ignored until URL has been called.
func (b *Builder) URI(path string) *Builder {
	if b.url == "" {
		return b
	}
	if strings.HasSuffix(b.url, "/") && strings.HasPrefix(path, "/") {
		b.url += path[1:]
	} else {
		b.url += path
	}
	return b
}

// URLSegment appends "/segment". Absent segments are skipped, which is how a
// single call path addresses either a collection or one of its items.
func (b *Builder) URLSegment(segment optional.Optional[string]) *Builder {
	s, ok := segment.Get()
	if !ok || b.url == "" {
		return b
	}
	if !strings.HasSuffix(b.url, "/") {
		b.url += "/"
	}
	b.url += s
	return b
}

// URLParameter appends value to the query parameter name. Repeated calls
// accumulate; an absent value leaves the query untouched.
func (b *Builder) URLParameter(name string, value optional.Optional[string]) *Builder {
	if v, ok := value.Get(); ok {
		b.params.Add(name, v)
	}
	return b
}

// Header sets a request header, replacing any previous value.
func (b *Builder) Header(name, value string) *Builder {
	b.headers[name] = value
	return b
}

// Authorization sets the Authorization header to key verbatim.
func (b *Builder) Authorization(key string) *Builder {
	return b.Header("Authorization", key)
}

// ContentType sets the Content-Type header.
func (b *Builder) ContentType(contentType string) *Builder {
	return b.Header("Content-Type", contentType)
}

// JSONBody stores v for JSON encoding and forces the JSON content type.
func (b *Builder) JSONBody(v any) *Builder {
	b.clearBody()
	b.kind = bodyJSON
	b.jsonBody = v
	return b.ContentType(ContentTypeJSON)
}

// BodyFromReader streams r as the request body. The caller sets the
// Content-Type.
func (b *Builder) BodyFromReader(r io.Reader) *Builder {
	b.clearBody()
	b.kind = bodyBinary
	b.reader = r
	return b
}

// BodyFromFile streams the file at path as the request body. The file is
// opened by Go and closed before it returns.
func (b *Builder) BodyFromFile(path string) *Builder {
	b.clearBody()
	b.kind = bodyBinary
	b.filePath = path
	return b
}

func (b *Builder) clearBody() {
	b.kind = bodyNone
	b.jsonBody = nil
	b.reader = nil
	b.filePath = ""
}

// Get sets the method to GET.
func (b *Builder) Get() *Builder { return b.setMethod(http.MethodGet) }

// Post sets the method to POST.
func (b *Builder) Post() *Builder { return b.setMethod(http.MethodPost) }

// Put sets the method to PUT.
func (b *Builder) Put() *Builder { return b.setMethod(http.MethodPut) }

// Delete sets the method to DELETE.
func (b *Builder) Delete() *Builder { return b.setMethod(http.MethodDelete) }

func (b *Builder) setMethod(m string) *Builder {
	b.method = m
	return b
}

// StreamResponse leaves the response body unread so it can be consumed with
// ClientResponse.WriteResponseTo.
func (b *Builder) StreamResponse() *Builder {
	b.stream = true
	return b
}

// Method returns the configured method, empty when unset.
func (b *Builder) Method() string { return b.method }

// RequestURL returns the accumulated URL including the encoded query.
func (b *Builder) RequestURL() string {
	if len(b.params) == 0 {
		return b.url
	}
	sep := "?"
	if strings.Contains(b.url, "?") {
		sep = "&"
	}
	return b.url + sep + b.params.Encode()
}

// Go sends the request and classifies the response. The only error returned
// is ErrMethodNotSet; every network or API failure is reported on the
// ClientResponse.
func (b *Builder) Go(ctx context.Context) (*ClientResponse, error) {
	if b.method == "" {
		return nil, ErrMethodNotSet
	}
	if ctx == nil {
		ctx = context.Background()
	}

	req := b.client.R().
		SetContext(ctx).
		SetHeaders(b.headers).
		SetQueryParamsFromValues(b.params).
		SetDoNotParseResponse(b.stream)

	if b.method != http.MethodGet && b.method != http.MethodDelete {
		switch b.kind {
		case bodyJSON:
			if b.jsonBody != nil {
				data, err := json.Marshal(b.jsonBody)
				if err != nil {
					return failedResponse(fmt.Errorf("encode request body: %w", err), b.stream), nil
				}
				req.SetBody(data)
			}
		case bodyBinary:
			body, closeBody, err := b.binaryBody()
			if err != nil {
				return failedResponse(err, b.stream), nil
			}
			defer closeBody()
			req.SetBody(body)
		}
	}

	resp, err := req.Execute(b.method, b.url)
	if err != nil {
		if resp != nil && resp.RawResponse != nil && resp.RawResponse.Body != nil {
			resp.RawResponse.Body.Close()
		}
		return failedResponse(err, b.stream), nil
	}
	return newClientResponse(resp, b.stream), nil
}

func (b *Builder) binaryBody() (io.Reader, func(), error) {
	if b.filePath == "" {
		return b.reader, func() {}, nil
	}
	f, err := os.Open(b.filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open request body: %w", err)
	}
	return f, func() { f.Close() }, nil
}

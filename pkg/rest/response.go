package rest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/go-resty/resty/v2"
)

const copyChunkSize = 32 * 1024

// ClientResponse is the classified result of one call.
//
// At most one of SuccessResponse and ErrorResponse is set:
//   - 2xx: SuccessResponse holds the decoded JSON body, or nil when the body
//     is empty, not JSON, or streamed.
//   - 400: ErrorResponse holds the decoded JSON error body.
//   - 404: neither is set.
//   - any other status: ErrorResponse holds the *resty.Response.
//
// Exception records a failure to complete the exchange at all.
type ClientResponse struct {
	Status          int
	SuccessResponse any
	ErrorResponse   any
	Exception       error

	// Response is the underlying response, nil after a transport failure.
	Response *resty.Response

	streaming bool
	body      []byte
	drained   bool
}

func newClientResponse(resp *resty.Response, streaming bool) *ClientResponse {
	cr := &ClientResponse{
		Status:    resp.StatusCode(),
		Response:  resp,
		streaming: streaming,
	}

	if isSuccess(cr.Status) {
		if streaming {
			return cr
		}
		cr.body = resp.Body()
		if v, ok := decodeJSON(cr.body); ok {
			cr.SuccessResponse = v
		}
		return cr
	}

	switch cr.Status {
	case http.StatusNotFound:
		if streaming {
			cr.Close()
		}
	case http.StatusBadRequest:
		body := resp.Body()
		if streaming {
			body = cr.drain()
		}
		cr.body = body
		if v, ok := decodeJSON(body); ok {
			cr.ErrorResponse = v
		} else {
			cr.ErrorResponse = resp
		}
	default:
		cr.body = resp.Body()
		cr.ErrorResponse = resp
	}
	return cr
}

func failedResponse(err error, streaming bool) *ClientResponse {
	return &ClientResponse{Exception: err, streaming: streaming}
}

func isSuccess(status int) bool {
	return status >= 200 && status <= 299
}

func decodeJSON(body []byte) (any, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, false
	}
	return v, true
}

// WasSuccessful reports a 2xx status with no transport failure. It says
// nothing about whether a payload was decoded.
func (c *ClientResponse) WasSuccessful() bool {
	return isSuccess(c.Status) && c.Exception == nil
}

// IsStreaming reports whether the response body was left unread.
func (c *ClientResponse) IsStreaming() bool { return c.streaming }

// DecodeSuccess decodes the 2xx body into v.
func (c *ClientResponse) DecodeSuccess(v any) error {
	if c.SuccessResponse == nil {
		return ErrNoPayload
	}
	return c.decodeBody(v)
}

// DecodeError decodes a structured (400) error body into v.
func (c *ClientResponse) DecodeError(v any) error {
	if c.ErrorResponse == nil {
		return ErrNoPayload
	}
	if _, raw := c.ErrorResponse.(*resty.Response); raw {
		return ErrNoPayload
	}
	return c.decodeBody(v)
}

func (c *ClientResponse) decodeBody(v any) error {
	if err := json.Unmarshal(c.body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Body returns the buffered response body. It is nil for streamed 2xx
// responses and transport failures.
func (c *ClientResponse) Body() []byte { return c.body }

// WriteResponseTo copies a streamed body to w in fixed-size chunks and
// releases the connection, whatever the outcome.
func (c *ClientResponse) WriteResponseTo(w io.Writer) (int64, error) {
	if !c.streaming {
		return 0, ErrNotStreaming
	}
	rc := c.rawBody()
	if rc == nil {
		return 0, ErrNoStream
	}
	defer c.Close()

	n, err := io.CopyBuffer(w, rc, make([]byte, copyChunkSize))
	if err != nil {
		return n, fmt.Errorf("copy response stream: %w", err)
	}
	return n, nil
}

// WriteResponseToFile writes a streamed body to the file at path, creating
// or truncating it.
func (c *ClientResponse) WriteResponseToFile(path string) (int64, error) {
	if !c.streaming {
		return 0, ErrNotStreaming
	}
	if c.rawBody() == nil {
		return 0, ErrNoStream
	}

	f, err := os.Create(path)
	if err != nil {
		c.Close()
		return 0, fmt.Errorf("create %s: %w", path, err)
	}
	return c.writeAndClose(f, path)
}

type syncWriteCloser interface {
	io.WriteCloser
	Sync() error
}

// writeAndClose copies the stream into f and closes it. A close error is only
// reported when the copy and sync succeeded.
func (c *ClientResponse) writeAndClose(f syncWriteCloser, path string) (int64, error) {
	n, err := c.WriteResponseTo(f)
	if err == nil {
		if serr := f.Sync(); serr != nil {
			err = fmt.Errorf("sync %s: %w", path, serr)
		}
	}
	if err != nil {
		_ = f.Close()
		return n, err
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("close %s: %w", path, err)
	}
	return n, nil
}

// Close releases an unconsumed streamed body. It is safe to call more than
// once and on non-streaming responses.
func (c *ClientResponse) Close() error {
	rc := c.rawBody()
	c.drained = true
	if rc == nil {
		return nil
	}
	return rc.Close()
}

func (c *ClientResponse) rawBody() io.ReadCloser {
	if !c.streaming || c.drained || c.Response == nil || c.Response.RawResponse == nil {
		return nil
	}
	return c.Response.RawResponse.Body
}

// drain reads and releases a streamed body. Used for error bodies that must be
// decoded even though streaming was requested.
func (c *ClientResponse) drain() []byte {
	rc := c.rawBody()
	if rc == nil {
		return nil
	}
	defer c.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return nil
	}
	return body
}

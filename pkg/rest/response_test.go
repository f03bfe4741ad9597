package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, status int, body string, stream bool) *ClientResponse {
	t.Helper()
	srv, _ := newCaptureServer(t, status, body)
	b := NewBuilder(nil).URL(srv.URL).Get()
	if stream {
		b.StreamResponse()
	}
	resp, err := b.Go(context.Background())
	require.NoError(t, err)
	return resp
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSuccess any
		wantOK      bool
		wantRawErr  bool
		wantJSONErr any
	}{
		{name: "200 json", status: 200, body: `{"contentAction":"allow"}`, wantSuccess: map[string]any{"contentAction": "allow"}, wantOK: true},
		{name: "200 non json", status: 200, body: `<html>`, wantOK: true},
		{name: "204 empty", status: 204, body: ``, wantOK: true},
		{name: "404", status: 404, body: `{"ignored":true}`},
		{name: "400 json", status: 400, body: `{"code":"bad_request"}`, wantJSONErr: map[string]any{"code": "bad_request"}},
		{name: "400 non json", status: 400, body: `bad`, wantRawErr: true},
		{name: "401", status: 401, body: ``, wantRawErr: true},
		{name: "500", status: 500, body: `{"boom":1}`, wantRawErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := get(t, tt.status, tt.body, false)

			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.wantOK, resp.WasSuccessful())
			assert.Equal(t, tt.wantSuccess, resp.SuccessResponse)
			assert.NoError(t, resp.Exception)

			switch {
			case tt.wantRawErr:
				raw, ok := resp.ErrorResponse.(*resty.Response)
				require.True(t, ok, "expected raw response handle, got %T", resp.ErrorResponse)
				assert.Equal(t, tt.status, raw.StatusCode())
				assert.Equal(t, tt.body, string(raw.Body()))
			case tt.wantJSONErr != nil:
				assert.Equal(t, tt.wantJSONErr, resp.ErrorResponse)
			default:
				assert.Nil(t, resp.ErrorResponse)
			}

			if resp.SuccessResponse != nil {
				assert.Nil(t, resp.ErrorResponse)
			}
		})
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	resp, err := NewBuilder(nil).URL(url).Get().Go(context.Background())
	require.NoError(t, err)
	require.Error(t, resp.Exception)
	assert.False(t, resp.WasSuccessful())
	assert.Nil(t, resp.SuccessResponse)
	assert.Nil(t, resp.ErrorResponse)
	assert.Nil(t, resp.Response)
}

func TestDecodeHelpers(t *testing.T) {
	type match struct {
		Matched  string `json:"matched"`
		Severity string `json:"severity"`
	}

	ok := get(t, 200, `{"matched":"fuck","severity":"severe"}`, false)
	var m match
	require.NoError(t, ok.DecodeSuccess(&m))
	assert.Equal(t, match{Matched: "fuck", Severity: "severe"}, m)
	assert.ErrorIs(t, ok.DecodeError(&m), ErrNoPayload)

	bad := get(t, 400, `{"code":"bad_request"}`, false)
	var e struct {
		Code string `json:"code"`
	}
	require.NoError(t, bad.DecodeError(&e))
	assert.Equal(t, "bad_request", e.Code)
	assert.ErrorIs(t, bad.DecodeSuccess(&e), ErrNoPayload)

	raw := get(t, 500, `{"code":"x"}`, false)
	assert.ErrorIs(t, raw.DecodeError(&e), ErrNoPayload)
}

func TestStreamedBody(t *testing.T) {
	payload := bytes.Repeat([]byte("0123456789abcdef"), 8*1024)

	t.Run("write to file", func(t *testing.T) {
		resp := get(t, 200, string(payload), true)
		require.True(t, resp.WasSuccessful())
		assert.True(t, resp.IsStreaming())
		assert.Nil(t, resp.SuccessResponse)
		assert.Nil(t, resp.ErrorResponse)

		path := filepath.Join(t.TempDir(), "backup.zip")
		n, err := resp.WriteResponseToFile(path)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), n)

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, payload, written)

		_, err = resp.WriteResponseTo(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoStream)
	})

	t.Run("write failure releases stream", func(t *testing.T) {
		resp := get(t, 200, string(payload), true)
		_, err := resp.WriteResponseTo(failingWriter{})
		require.Error(t, err)

		_, err = resp.WriteResponseTo(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoStream)
	})

	t.Run("unwritable destination releases stream", func(t *testing.T) {
		resp := get(t, 200, string(payload), true)
		_, err := resp.WriteResponseToFile(filepath.Join(t.TempDir(), "missing", "backup.zip"))
		require.Error(t, err)

		_, err = resp.WriteResponseTo(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoStream)
	})

	t.Run("close error is reported", func(t *testing.T) {
		resp := get(t, 200, string(payload), true)
		f := &closeFailingFile{}
		n, err := resp.writeAndClose(f, "backup.zip")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "close backup.zip")
		assert.Equal(t, int64(len(payload)), n)
		assert.True(t, f.synced)
		assert.True(t, f.closed)
	})

	t.Run("copy error still closes file", func(t *testing.T) {
		resp := get(t, 200, string(payload), true)
		f := &closeFailingFile{failWrite: true}
		_, err := resp.writeAndClose(f, "backup.zip")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "copy response stream")
		assert.False(t, f.synced)
		assert.True(t, f.closed)
	})

	t.Run("not streaming", func(t *testing.T) {
		resp := get(t, 200, `{}`, false)
		_, err := resp.WriteResponseTo(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNotStreaming)
	})

	t.Run("404 has no stream", func(t *testing.T) {
		resp := get(t, 404, "missing", true)
		assert.False(t, resp.WasSuccessful())
		assert.Nil(t, resp.ErrorResponse)
		_, err := resp.WriteResponseTo(&bytes.Buffer{})
		assert.ErrorIs(t, err, ErrNoStream)
	})

	t.Run("400 is decoded", func(t *testing.T) {
		resp := get(t, 400, `{"code":"bad_request"}`, true)
		assert.Equal(t, map[string]any{"code": "bad_request"}, resp.ErrorResponse)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		resp := get(t, 200, "data", true)
		assert.NoError(t, resp.Close())
		assert.NoError(t, resp.Close())
	})
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

type closeFailingFile struct {
	buf       bytes.Buffer
	failWrite bool
	synced    bool
	closed    bool
}

func (f *closeFailingFile) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errors.New("disk full")
	}
	return f.buf.Write(p)
}

func (f *closeFailingFile) Sync() error {
	f.synced = true
	return nil
}

func (f *closeFailingFile) Close() error {
	f.closed = true
	return errors.New("quota exceeded")
}

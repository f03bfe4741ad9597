package rest

import "errors"

var (
	// ErrMethodNotSet is returned by Builder.Go when no HTTP method was chosen.
	ErrMethodNotSet = errors.New("the HTTP method must be set to POST, PUT, GET or DELETE prior to calling Go")

	// ErrNotStreaming is returned when a streamed body is requested from a
	// response that was not built with StreamResponse.
	ErrNotStreaming = errors.New("response streaming was not requested")
	// ErrNoStream is returned when there is no body left to stream, either
	// because the call failed or because it was already consumed.
	ErrNoStream = errors.New("no response stream available")
	// ErrNoPayload is returned by the Decode helpers when there is no JSON
	// body to decode.
	ErrNoPayload = errors.New("response has no JSON payload")
)

package cleanspeak

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrAPIKeyRequired  = errors.New("API key is required")
	ErrBaseURLRequired = errors.New("base URL is required")
)

// Error is a single validation or general error reported by CleanSpeak.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Errors is the JSON body CleanSpeak returns with a 400 status. Decode it
// with ClientResponse.DecodeError:
//
//	var apiErrs cleanspeak.Errors
//	if err := resp.DecodeError(&apiErrs); err == nil {
//		log.Printf("rejected: %v", &apiErrs)
//	}
type Errors struct {
	FieldErrors   map[string][]Error `json:"fieldErrors,omitempty"`
	GeneralErrors []Error            `json:"generalErrors,omitempty"`
}

// Error joins every code into one line, field errors ordered by field name.
func (e *Errors) Error() string {
	var parts []string
	for _, ge := range e.GeneralErrors {
		parts = append(parts, ge.Code)
	}

	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		for _, fe := range e.FieldErrors[f] {
			parts = append(parts, fmt.Sprintf("%s: %s", f, fe.Code))
		}
	}

	if len(parts) == 0 {
		return "cleanspeak: request rejected"
	}
	return "cleanspeak: " + strings.Join(parts, "; ")
}

// Has reports whether any general or field error carries code.
func (e *Errors) Has(code string) bool {
	for _, ge := range e.GeneralErrors {
		if ge.Code == code {
			return true
		}
	}
	for _, fes := range e.FieldErrors {
		for _, fe := range fes {
			if fe.Code == code {
				return true
			}
		}
	}
	return false
}

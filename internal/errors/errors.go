package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrNotConfigured    = errors.New("not configured")
	ErrNotPlaying       = errors.New("nothing is playing")
	ErrTrackNotFound    = errors.New("song not found")
	ErrAlbumNotFound    = errors.New("album not found")
	ErrSnapshotNotFound = errors.New("library snapshot not found")
	ErrSnapshotCorrupt  = errors.New("library snapshot corrupt")
	ErrProfileNotFound  = errors.New("taste profile not found")
	ErrRetriesExhausted = errors.New("retries exhausted")
	ErrRateLimited      = errors.New("rate limited")
	ErrNetworkError     = errors.New("network error")
	ErrTimeout          = errors.New("request timeout")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConfigNotFound   = errors.New("config file not found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrLibraryNotLoaded = errors.New("library not loaded")
)

// KodictlError wraps an error with a user-friendly suggestion.
type KodictlError struct {
	Err        error
	Suggestion string
}

func (e *KodictlError) Error() string {
	return e.Err.Error()
}

func (e *KodictlError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &KodictlError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// suggestionRule maps a class of failure to a next step. A rule matches when
// the error wraps one of its sentinels or its message contains one of its
// fragments.
type suggestionRule struct {
	sentinels []error
	fragments []string
	hint      string
}

// Rules are checked in order; the first match wins.
var suggestionRules = []suggestionRule{
	{sentinels: []error{ErrNotConfigured, ErrConfigNotFound},
		hint: "Run 'kodictl params' to set your Kodi and Echonest parameters"},
	{sentinels: []error{ErrUnauthorized}, fragments: []string{"401"},
		hint: "Check kodi.user and kodi.password in your configuration"},
	{sentinels: []error{ErrNotPlaying},
		hint: "Start something with play_album or play_party"},
	{sentinels: []error{ErrTrackNotFound, ErrAlbumNotFound},
		hint: "Use songs_search or albums_search to find a valid id"},
	{sentinels: []error{ErrSnapshotCorrupt},
		hint: "Run library_refresh to rebuild the local library"},
	{sentinels: []error{ErrProfileNotFound},
		hint: "Run echonest_sync to create and fill the taste profile"},
	{sentinels: []error{ErrRateLimited}, fragments: []string{"rate limit", "429"},
		hint: "Too many requests. Wait a moment and try again"},
	{sentinels: []error{ErrRetriesExhausted},
		hint: "Kodi did not answer in time. Check that the library is fully loaded on the server"},
	{sentinels: []error{ErrNetworkError, ErrTimeout}, fragments: []string{"timeout", "connection refused"},
		hint: "Check that Kodi is running and remote control is enabled"},
	{sentinels: []error{ErrInvalidConfig},
		hint: "Run 'kodictl config show' to review your configuration"},
}

func (r suggestionRule) matches(err error, msg string) bool {
	for _, s := range r.sentinels {
		if errors.Is(err, s) {
			return true
		}
	}
	for _, f := range r.fragments {
		if strings.Contains(msg, f) {
			return true
		}
	}
	return false
}

// GetSuggestion returns the next step for err. An explicit suggestion
// attached with WithSuggestion takes precedence over the rule table.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	var kErr *KodictlError
	if errors.As(err, &kErr) && kErr.Suggestion != "" {
		return kErr.Suggestion
	}

	msg := strings.ToLower(err.Error())
	for _, r := range suggestionRules {
		if r.matches(err, msg) {
			return r.hint
		}
	}
	return ""
}

// Format renders err for the terminal, followed by its suggestion when one
// applies.
func Format(err error) string {
	if err == nil {
		return ""
	}
	out := "Error: " + err.Error()
	if hint := GetSuggestion(err); hint != "" {
		out += "\n\nSuggestion: " + hint
	}
	return out
}

// PartialResult represents a result that may have partial failures.
type PartialResult[T any] struct {
	Data   T
	Errors []error
}

// HasErrors returns true if there were any errors.
func (p *PartialResult[T]) HasErrors() bool {
	return len(p.Errors) > 0
}

// AddError adds an error to the partial result.
func (p *PartialResult[T]) AddError(err error) {
	if err != nil {
		p.Errors = append(p.Errors, err)
	}
}

// Err joins all recorded errors, or returns nil.
func (p *PartialResult[T]) Err() error {
	return errors.Join(p.Errors...)
}

// ErrorSummary returns a summary of all errors.
func (p *PartialResult[T]) ErrorSummary() string {
	if len(p.Errors) == 0 {
		return ""
	}
	if len(p.Errors) == 1 {
		return p.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors occurred:\n", len(p.Errors))
	for i, err := range p.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err)
	}
	return sb.String()
}

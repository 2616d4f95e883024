// Package transport implements the WebSocket connection to the realtime
// speech-to-text endpoint: URL construction, the authenticated handshake,
// and the split read/write halves the session layer pumps messages through.
package transport

import (
	"net/url"
	"strconv"
)

const (
	// BaseURL is the realtime speech-to-text WebSocket endpoint.
	BaseURL = "wss://api.elevenlabs.io/v1/speech-to-text/realtime"

	// DefaultModelID is used when Config.ModelID is left empty.
	DefaultModelID = "scribe_v2_realtime"

	// DefaultTimeoutMs is used when Config.TimeoutMs is zero.
	DefaultTimeoutMs = 10000
)

// testBaseURL, when non-empty, overrides BaseURL for tests that need to
// point at a local fake server instead of the real endpoint.
var testBaseURL string

func baseURL() string {
	if testBaseURL != "" {
		return testBaseURL
	}
	return BaseURL
}

// OverrideBaseURLForTesting points every subsequent Connect at url instead
// of BaseURL, for tests elsewhere in the module that need a fake server.
// The returned restore func must be called (typically via t.Cleanup) to
// undo the override.
func OverrideBaseURLForTesting(url string) (restore func()) {
	old := testBaseURL
	testBaseURL = url
	return func() { testBaseURL = old }
}

// Config builds the query parameters and handshake timeout for one
// connection attempt.
type Config struct {
	SampleRate        int // mandatory
	ModelID           string
	LanguageCode      string
	IncludeTimestamps bool
	VadCommitStrategy string
	TimeoutMs         int
}

// modelID returns ModelID or DefaultModelID when unset.
func (c Config) modelID() string {
	if c.ModelID == "" {
		return DefaultModelID
	}
	return c.ModelID
}

// timeoutMs returns TimeoutMs or DefaultTimeoutMs when unset.
func (c Config) timeoutMs() int {
	if c.TimeoutMs == 0 {
		return DefaultTimeoutMs
	}
	return c.TimeoutMs
}

// URL builds the handshake URL. model_id and sample_rate are always
// present; language_code, include_timestamps, and vad_commit_strategy are
// present only when set. The resulting query string has exactly one '?'
// and contains no literal "&&".
func (c Config) URL() string {
	q := url.Values{}
	q.Set("model_id", c.modelID())
	q.Set("sample_rate", strconv.Itoa(c.SampleRate))
	if c.LanguageCode != "" {
		q.Set("language_code", c.LanguageCode)
	}
	if c.IncludeTimestamps {
		q.Set("include_timestamps", "true")
	}
	if c.VadCommitStrategy != "" {
		q.Set("vad_commit_strategy", c.VadCommitStrategy)
	}
	return baseURL() + "?" + q.Encode()
}

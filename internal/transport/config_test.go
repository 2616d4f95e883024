package transport

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestURLAlwaysIncludesModelIDAndSampleRate(t *testing.T) {
	cfg := Config{SampleRate: 16000}
	got := cfg.URL()

	require.True(t, strings.HasPrefix(got, BaseURL+"?"))
	require.Equal(t, 1, strings.Count(got, "?"))
	require.False(t, strings.Contains(got, "&&"))

	parsed, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, DefaultModelID, parsed.Query().Get("model_id"))
	require.Equal(t, "16000", parsed.Query().Get("sample_rate"))
}

func TestURLOmitsUnsetOptionalFields(t *testing.T) {
	cfg := Config{SampleRate: 16000}
	parsed, err := url.Parse(cfg.URL())
	require.NoError(t, err)

	require.False(t, parsed.Query().Has("language_code"))
	require.False(t, parsed.Query().Has("include_timestamps"))
	require.False(t, parsed.Query().Has("vad_commit_strategy"))
}

func TestURLIncludesOptionalFieldsWhenSet(t *testing.T) {
	cfg := Config{
		SampleRate:        16000,
		ModelID:           "custom_model",
		LanguageCode:      "en",
		IncludeTimestamps: true,
		VadCommitStrategy: "silence",
	}
	parsed, err := url.Parse(cfg.URL())
	require.NoError(t, err)

	require.Equal(t, "custom_model", parsed.Query().Get("model_id"))
	require.Equal(t, "en", parsed.Query().Get("language_code"))
	require.Equal(t, "true", parsed.Query().Get("include_timestamps"))
	require.Equal(t, "silence", parsed.Query().Get("vad_commit_strategy"))
}

func TestURLIsIdempotent(t *testing.T) {
	cfg := Config{SampleRate: 16000, LanguageCode: "en"}
	require.Equal(t, cfg.URL(), cfg.URL())
}

func TestTimeoutMsDefaultsWhenUnset(t *testing.T) {
	cfg := Config{SampleRate: 16000}
	require.Equal(t, DefaultTimeoutMs, cfg.timeoutMs())

	cfg.TimeoutMs = 5000
	require.Equal(t, 5000, cfg.timeoutMs())
}

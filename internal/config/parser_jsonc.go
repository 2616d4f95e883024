package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Session   *jsoncSession   `json:"session"`
	Hotkey    *jsoncHotkey    `json:"hotkey"`
	Injection *jsoncInjection `json:"injection"`
	Indicator *jsoncIndicator `json:"indicator"`
	Debug     *jsoncDebug     `json:"debug"`
}

type jsoncSession struct {
	APIKey             *string `json:"api_key"`
	ModelID            *string `json:"model_id"`
	LanguageCode       *string `json:"language_code"`
	IncludeTimestamps  *bool   `json:"include_timestamps"`
	VadCommitStrategy  *string `json:"vad_commit_strategy"`
	SampleRateOut      *int    `json:"sample_rate_out"`
	ConnectTimeoutMS   *int    `json:"connect_timeout_ms"`
	ProcessingTimeoutS *int    `json:"processing_timeout_secs"`
	AudioInput         *string `json:"audio_input"`
}

type jsoncHotkey struct {
	PushToTalk *string `json:"push_to_talk"`
	Cancel     *string `json:"cancel"`
}

type jsoncInjection struct {
	Strategy            *string `json:"strategy"`
	AutoThreshold       *int    `json:"auto_threshold"`
	PasteDelayMS        *int    `json:"paste_delay_ms"`
	PreInjectionDelayMS *int    `json:"pre_injection_delay_ms"`
	AutoInject          *bool   `json:"auto_inject"`
}

type jsoncIndicator struct {
	Enable         *bool   `json:"enable"`
	Backend        *string `json:"backend"`
	DesktopAppName *string `json:"desktop_app_name"`
	SoundEnable    *bool   `json:"sound_enable"`
	Height         *int    `json:"height"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
	GRPCDump  *bool `json:"grpc_dump"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	payload.applyTo(&cfg)

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) {
	if s := payload.Session; s != nil {
		if s.APIKey != nil {
			cfg.Session.APIKey = *s.APIKey
		}
		if s.ModelID != nil {
			cfg.Session.ModelID = *s.ModelID
		}
		if s.LanguageCode != nil {
			cfg.Session.LanguageCode = *s.LanguageCode
		}
		if s.IncludeTimestamps != nil {
			cfg.Session.IncludeTimestamps = *s.IncludeTimestamps
		}
		if s.VadCommitStrategy != nil {
			cfg.Session.VadCommitStrategy = *s.VadCommitStrategy
		}
		if s.SampleRateOut != nil {
			cfg.Session.SampleRateOut = *s.SampleRateOut
		}
		if s.ConnectTimeoutMS != nil {
			cfg.Session.ConnectTimeoutMS = *s.ConnectTimeoutMS
		}
		if s.ProcessingTimeoutS != nil {
			cfg.Session.ProcessingTimeoutS = *s.ProcessingTimeoutS
		}
		if s.AudioInput != nil {
			cfg.Session.AudioInput = strings.TrimSpace(*s.AudioInput)
		}
	}

	if h := payload.Hotkey; h != nil {
		if h.PushToTalk != nil {
			cfg.Hotkey.PushToTalk = strings.TrimSpace(*h.PushToTalk)
		}
		if h.Cancel != nil {
			cfg.Hotkey.Cancel = strings.TrimSpace(*h.Cancel)
		}
	}

	if i := payload.Injection; i != nil {
		if i.Strategy != nil {
			cfg.Injection.Strategy = strings.ToLower(strings.TrimSpace(*i.Strategy))
		}
		if i.AutoThreshold != nil {
			cfg.Injection.AutoThreshold = *i.AutoThreshold
		}
		if i.PasteDelayMS != nil {
			cfg.Injection.PasteDelayMS = *i.PasteDelayMS
		}
		if i.PreInjectionDelayMS != nil {
			cfg.Injection.PreInjectionDelayMS = *i.PreInjectionDelayMS
		}
		if i.AutoInject != nil {
			cfg.Injection.AutoInject = *i.AutoInject
		}
	}

	if ind := payload.Indicator; ind != nil {
		if ind.Enable != nil {
			cfg.Indicator.Enable = *ind.Enable
		}
		if ind.Backend != nil {
			cfg.Indicator.Backend = strings.TrimSpace(*ind.Backend)
		}
		if ind.DesktopAppName != nil {
			cfg.Indicator.DesktopAppName = strings.TrimSpace(*ind.DesktopAppName)
		}
		if ind.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *ind.SoundEnable
		}
		if ind.Height != nil {
			cfg.Indicator.Height = *ind.Height
		}
		if ind.ErrorTimeoutMS != nil {
			cfg.Indicator.ErrorTimeoutMS = *ind.ErrorTimeoutMS
		}
	}

	if d := payload.Debug; d != nil {
		if d.AudioDump != nil {
			cfg.Debug.EnableAudioDump = *d.AudioDump
		}
		if d.GRPCDump != nil {
			cfg.Debug.EnableGRPCDump = *d.GRPCDump
		}
	}
}

func normalizeJSONC(content string) (string, error) {
	withoutComments, err := stripJSONCComments(content)
	if err != nil {
		return "", err
	}
	return stripJSONCTrailingCommas(withoutComments), nil
}

func stripJSONCComments(content string) (string, error) {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false
	lineComment := false
	blockComment := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if lineComment {
			if ch == '\n' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			if ch == '\r' {
				lineComment = false
				out.WriteByte(ch)
				continue
			}
			out.WriteByte(' ')
			continue
		}

		if blockComment {
			if ch == '*' && i+1 < len(content) && content[i+1] == '/' {
				blockComment = false
				out.WriteString("  ")
				i++
				continue
			}
			if ch == '\n' || ch == '\r' || ch == '\t' {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
			continue
		}

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == '/' && i+1 < len(content) {
			next := content[i+1]
			if next == '/' {
				lineComment = true
				out.WriteString("  ")
				i++
				continue
			}
			if next == '*' {
				blockComment = true
				out.WriteString("  ")
				i++
				continue
			}
		}

		out.WriteByte(ch)
	}

	if blockComment {
		return "", fmt.Errorf("unterminated block comment in JSONC")
	}

	return out.String(), nil
}

func stripJSONCTrailingCommas(content string) string {
	var out strings.Builder
	out.Grow(len(content))

	inString := false
	escape := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			out.WriteByte(ch)
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}

		if ch == '"' {
			inString = true
			out.WriteByte(ch)
			continue
		}

		if ch == ',' {
			j := i + 1
			for j < len(content) && isJSONWhitespace(content[j]) {
				j++
			}
			if j < len(content) && (content[j] == '}' || content[j] == ']') {
				continue
			}
		}

		out.WriteByte(ch)
	}

	return out.String()
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(content, syntaxErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		line, col := offsetToLineCol(content, typeErr.Offset)
		return fmt.Errorf("line %d column %d: %w", line, col, err)
	}

	return err
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	line := 1
	col := 1
	for i := 0; i < limit-1; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

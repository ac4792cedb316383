package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/heartmarshall/wordlookup/internal/domain"
)

// Validate performs business-rule validation on the loaded server configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	for name, raw := range map[string]string{
		"providers.dictionary_url": c.Providers.DictionaryURL,
		"providers.urban_url":      c.Providers.UrbanURL,
		"providers.translate_url":  c.Providers.TranslateURL,
		"providers.tts_url":        c.Providers.TTSURL,
		"providers.whisper_url":    c.Providers.WhisperURL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be > 0 (got %v)", c.Providers.Timeout)
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return fmt.Errorf("cache.path is required when cache is enabled")
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("history.limit must be > 0 (got %d)", c.History.Limit)
	}
	if c.History.Retain < c.History.Limit {
		return fmt.Errorf("history.retain must be >= history.limit (got %d < %d)", c.History.Retain, c.History.Limit)
	}
	if c.Lookup.MaxTranslatedDefinitions < 0 {
		return fmt.Errorf("lookup.max_translated_definitions must be >= 0 (got %d)", c.Lookup.MaxTranslatedDefinitions)
	}
	if c.Lookup.MaxSlangDefinitions <= 0 {
		return fmt.Errorf("lookup.max_slang_definitions must be > 0 (got %d)", c.Lookup.MaxSlangDefinitions)
	}

	if _, err := domain.NewLanguageRegistry(c.Languages.List()); err != nil {
		return fmt.Errorf("languages.codes: %w", err)
	}

	return nil
}

// Validate performs validation on the loaded client configuration.
func (c *ClientConfig) Validate() error {
	if err := validateURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("api.base_url: %w", err)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0 (got %v)", c.API.Timeout)
	}
	if strings.TrimSpace(c.UI.DefaultLanguage) == "" {
		return fmt.Errorf("ui.default_language is required")
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be > 0 (got %d)", c.Audio.SampleRate)
	}
	if c.Audio.MaxRecord <= 0 {
		return fmt.Errorf("audio.max_record must be > 0 (got %v)", c.Audio.MaxRecord)
	}
	if c.Audio.Threshold <= 0 || c.Audio.Threshold >= 1 {
		return fmt.Errorf("audio.threshold must be in (0, 1) (got %v)", c.Audio.Threshold)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https (got %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

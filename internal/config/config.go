package config

import (
	"strings"
	"time"
)

// Config is the root configuration of the lookup server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Cache     CacheConfig     `yaml:"cache"`
	Lookup    LookupConfig    `yaml:"lookup"`
	History   HistoryConfig   `yaml:"history"`
	Languages LanguagesConfig `yaml:"languages"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ProvidersConfig holds the upstream services used for lookups.
type ProvidersConfig struct {
	DictionaryURL string        `yaml:"dictionary_url"  env:"PROVIDER_DICTIONARY_URL"  env-default:"https://api.dictionaryapi.dev/api/v2/entries/en"`
	UrbanURL      string        `yaml:"urban_url"       env:"PROVIDER_URBAN_URL"       env-default:"https://api.urbandictionary.com/v0/define"`
	TranslateURL  string        `yaml:"translate_url"   env:"PROVIDER_TRANSLATE_URL"   env-default:"https://translate.googleapis.com/translate_a/single"`
	TTSURL        string        `yaml:"tts_url"         env:"PROVIDER_TTS_URL"         env-default:"https://translate.google.com/translate_tts"`
	WhisperURL    string        `yaml:"whisper_url"     env:"PROVIDER_WHISPER_URL"     env-default:"https://api.openai.com/v1/audio/transcriptions"`
	WhisperAPIKey string        `yaml:"whisper_api_key" env:"PROVIDER_WHISPER_API_KEY"`
	WhisperModel  string        `yaml:"whisper_model"   env:"PROVIDER_WHISPER_MODEL"   env-default:"whisper-1"`
	Timeout       time.Duration `yaml:"timeout"         env:"PROVIDER_TIMEOUT"         env-default:"10s"`
}

// CacheConfig holds settings for the on-disk pronunciation cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"CACHE_ENABLED" env-default:"true"`
	Path    string        `yaml:"path"    env:"CACHE_PATH"    env-default:"./data/audio-cache"`
	TTL     time.Duration `yaml:"ttl"     env:"CACHE_TTL"     env-default:"720h"`
}

// LookupConfig tunes the search pipeline.
type LookupConfig struct {
	MaxTranslatedDefinitions int `yaml:"max_translated_definitions" env:"LOOKUP_MAX_TRANSLATED_DEFINITIONS" env-default:"5"`
	MaxSlangDefinitions      int `yaml:"max_slang_definitions"      env:"LOOKUP_MAX_SLANG_DEFINITIONS"      env-default:"3"`
}

// HistoryConfig holds search history settings. Limit bounds what is listed,
// Retain bounds what is stored.
type HistoryConfig struct {
	Limit  int `yaml:"limit"  env:"HISTORY_LIMIT"  env-default:"20"`
	Retain int `yaml:"retain" env:"HISTORY_RETAIN" env-default:"500"`
}

// LanguagesConfig restricts or extends the language registry.
// An empty Codes value keeps the built-in table.
type LanguagesConfig struct {
	Codes string `yaml:"codes" env:"LANGUAGES_CODES"`
}

// List splits Codes on commas.
func (c LanguagesConfig) List() []string {
	if strings.TrimSpace(c.Codes) == "" {
		return nil
	}
	return strings.Split(c.Codes, ",")
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ClientConfig is the root configuration of the terminal client.
type ClientConfig struct {
	API   APIConfig   `yaml:"api"`
	UI    UIConfig    `yaml:"ui"`
	Audio AudioConfig `yaml:"audio"`
	Log   LogConfig   `yaml:"log"`
}

// APIConfig points the client at a lookup server.
type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"LOOKUP_API_URL"     env-default:"http://localhost:8080"`
	Timeout time.Duration `yaml:"timeout"  env:"LOOKUP_API_TIMEOUT" env-default:"30s"`
}

// UIConfig holds terminal presentation settings.
type UIConfig struct {
	DefaultLanguage string `yaml:"default_language" env:"LOOKUP_DEFAULT_LANGUAGE" env-default:"en"`
	TimeFormat      string `yaml:"time_format"      env:"LOOKUP_TIME_FORMAT"      env-default:"15:04:05"`
	Color           bool   `yaml:"color"            env:"LOOKUP_COLOR"            env-default:"true"`
}

// AudioConfig holds playback and microphone settings.
type AudioConfig struct {
	Player     string        `yaml:"player"      env:"LOOKUP_AUDIO_PLAYER"      env-default:"ffplay -nodisp -autoexit -loglevel quiet"`
	MicEnabled bool          `yaml:"mic_enabled" env:"LOOKUP_MIC_ENABLED"       env-default:"true"`
	SampleRate int           `yaml:"sample_rate" env:"LOOKUP_MIC_SAMPLE_RATE"   env-default:"16000"`
	MaxRecord  time.Duration `yaml:"max_record"  env:"LOOKUP_MIC_MAX_RECORD"    env-default:"8s"`
	Silence    time.Duration `yaml:"silence"     env:"LOOKUP_MIC_SILENCE"       env-default:"1200ms"`
	Threshold  float64       `yaml:"threshold"   env:"LOOKUP_MIC_THRESHOLD"     env-default:"0.02"`
}

// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	InputMicrophone = "microphone"
	InputConsole    = "console"

	OutputTTS     = "tts"
	OutputConsole = "console"
)

var DefaultWakeWords = []string{"hey coco", "ok coco", "coco", "hi coco"}

// Config holds all application configuration.
type Config struct {
	OpenWeatherAPIKey string
	NewsAPIKey        string
	NewsCountry       string
	DefaultCity       string
	OpenAI            OpenAIConfig

	DataDir string

	WakeWords       []string
	WakeTimeout     time.Duration
	WakePhraseLimit time.Duration
	QuietTime       time.Duration

	SpeechInput     string
	WhisperModel    string
	WhisperLanguage string
	CaptureDir      string

	SpeechOutput string
	TTSCommand   string
	TTSVoices    []string

	StatusAddr string

	LogLevel  string
	LogFormat string
}

// OpenAIConfig points at any OpenAI-compatible chat completions endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		NewsAPIKey:        getEnv("NEWS_API_KEY", ""),
		NewsCountry:       getEnv("NEWS_COUNTRY", "us"),
		DefaultCity:       getEnv("DEFAULT_CITY", "New York"),
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		},
		DataDir:         getEnv("DATA_DIR", "./data"),
		WakeWords:       getEnvList("WAKE_WORDS", DefaultWakeWords),
		WakeTimeout:     getEnvDuration("WAKE_TIMEOUT", 5*time.Second),
		WakePhraseLimit: getEnvDuration("WAKE_PHRASE_LIMIT", 3*time.Second),
		QuietTime:       getEnvDuration("QUIET_TIME", 200*time.Millisecond),
		SpeechInput:     strings.ToLower(getEnv("SPEECH_INPUT", InputMicrophone)),
		WhisperModel:    getEnv("WHISPER_MODEL", ""),
		WhisperLanguage: getEnv("WHISPER_LANGUAGE", "en"),
		CaptureDir:      getEnv("CAPTURE_DIR", ""),
		SpeechOutput:    strings.ToLower(getEnv("SPEECH_OUTPUT", OutputTTS)),
		TTSCommand:      getEnv("TTS_COMMAND", "espeak"),
		TTSVoices:       getEnvList("TTS_VOICES", nil),
		StatusAddr:      getEnv("STATUS_ADDR", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "text"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if len(c.WakeWords) == 0 {
		return fmt.Errorf("WAKE_WORDS cannot be empty")
	}
	if c.WakeTimeout <= 0 {
		return fmt.Errorf("WAKE_TIMEOUT must be > 0")
	}
	if c.WakePhraseLimit <= 0 {
		return fmt.Errorf("WAKE_PHRASE_LIMIT must be > 0")
	}
	if c.QuietTime <= 0 {
		return fmt.Errorf("QUIET_TIME must be > 0")
	}

	switch c.SpeechInput {
	case InputMicrophone:
		if c.WhisperModel == "" {
			return fmt.Errorf("WHISPER_MODEL is required when SPEECH_INPUT is %q", InputMicrophone)
		}
	case InputConsole:
	default:
		return fmt.Errorf("SPEECH_INPUT must be %q or %q", InputMicrophone, InputConsole)
	}

	switch c.SpeechOutput {
	case OutputTTS:
		if c.TTSCommand == "" {
			return fmt.Errorf("TTS_COMMAND cannot be empty when SPEECH_OUTPUT is %q", OutputTTS)
		}
	case OutputConsole:
	default:
		return fmt.Errorf("SPEECH_OUTPUT must be %q or %q", OutputTTS, OutputConsole)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"text\" or \"json\"")
	}

	return nil
}

func (c *Config) ProfilesPath() string {
	return filepath.Join(c.DataDir, "profiles.json")
}

func (c *Config) NotesPath() string {
	return filepath.Join(c.DataDir, "notes.txt")
}

func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Level parses LOG_LEVEL.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			out = append(out, item)
		}
	}
	return out
}

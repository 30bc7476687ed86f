package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"jamesfarrell.me/video-to-content/internal/errs"
)

// Downloader backends.
const (
	DownloaderYouTube = "youtube"
	DownloaderYTDLP   = "yt-dlp"
)

const (
	DefaultDownloadsDir   = ".downloads"
	DefaultDeepgramHost   = "api.deepgram.com"
	DefaultDeepgramModel  = "nova-2"
	DefaultModel          = "gpt-4-turbo"
	DefaultEmbeddingModel = "text-embedding-ada-002"
	DefaultHTTPAddr       = ":8080"
)

var (
	ErrMissingTranscriptionKey = errs.New(errs.CodeMissingTranscription, "DEEPGRAM_KEY environment variable must be set")
	ErrMissingGenerationKey    = errs.New(errs.CodeMissingGeneration, "OPENAI_API_KEY or LLM_BASE_URL environment variable must be set")
)

// Config is built once at startup and handed to every adapter. Nothing reads the
// environment after Load returns.
type Config struct {
	DeepgramKey   string
	DeepgramHost  string
	DeepgramModel string

	OpenAIKey  string
	LLMBaseURL string
	Model      string
	// EmbeddingModel must return vectors of db.EmbeddingDimensions; indexing
	// stops with an error on the first batch otherwise.
	EmbeddingModel string

	DownloadsDir string
	Downloader   string

	DatabaseURL      string
	IndexTranscripts bool
	ServiceAPIKey    string
	HTTPAddr         string

	LogLevel  string
	LogFormat string
}

// Load reads .env when present and builds the Config from the process environment.
func Load() (Config, error) {
	// A missing .env is fine; the variables may come from the shell.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the Config using lookup. The transcription credential is checked
// before the generation one so a bare environment reports the former.
func FromEnv(lookup func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(lookup(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DeepgramKey:    get("DEEPGRAM_KEY", ""),
		DeepgramHost:   get("DEEPGRAM_HOST", DefaultDeepgramHost),
		DeepgramModel:  get("DEEPGRAM_MODEL", DefaultDeepgramModel),
		OpenAIKey:      get("OPENAI_API_KEY", ""),
		LLMBaseURL:     get("LLM_BASE_URL", ""),
		Model:          get("OPENAI_MODEL", DefaultModel),
		EmbeddingModel: get("EMBEDDING_MODEL", DefaultEmbeddingModel),
		DownloadsDir:   get("DOWNLOADS_DIR", DefaultDownloadsDir),
		Downloader:     strings.ToLower(get("DOWNLOADER", DownloaderYouTube)),
		DatabaseURL:    get("DATABASE_URL", ""),
		ServiceAPIKey:  get("SERVICE_API_KEY", ""),
		HTTPAddr:       get("HTTP_ADDR", DefaultHTTPAddr),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      get("LOG_FORMAT", "text"),
	}

	if v := get("INDEX_TRANSCRIPTS", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errs.E(errs.CodeInvalidConfig, "config", "INDEX_TRANSCRIPTS must be a boolean", err)
		}
		cfg.IndexTranscripts = b
	}

	if cfg.DeepgramKey == "" {
		return Config{}, ErrMissingTranscriptionKey
	}
	if cfg.OpenAIKey == "" && cfg.LLMBaseURL == "" {
		return Config{}, ErrMissingGenerationKey
	}
	switch cfg.Downloader {
	case DownloaderYouTube, DownloaderYTDLP:
	default:
		return Config{}, errs.New(errs.CodeInvalidConfig, "unknown DOWNLOADER "+strconv.Quote(cfg.Downloader))
	}
	return cfg, nil
}

// UsesLocalModel reports whether generation goes to a self-hosted OpenAI-compatible server.
func (c Config) UsesLocalModel() bool {
	return c.LLMBaseURL != ""
}

// HasStore reports whether a Postgres run store is configured.
func (c Config) HasStore() bool {
	return c.DatabaseURL != ""
}

// MaskDatabaseURL hides credentials in a connection string for logging.
func MaskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}
	parts := strings.Split(dbURL, "@")
	if len(parts) > 1 {
		return "..." + parts[len(parts)-1]
	}
	return "...masked..."
}

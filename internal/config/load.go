package config

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load loads configuration from the environment, reading .env once.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig loads and validates the configuration.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the external service credentials are present.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return errors.New("missing GEMINI_API_KEY")
	}
	if c.Eleven.APIKey == "" {
		return errors.New("missing ELEVENLABS_API_KEY")
	}
	return nil
}

// LogEnvStatus logs the effective environment configuration.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"gemini_keys", len(cfg.Gemini.APIKeys),
		"primary_key", maskSecret(cfg.Gemini.PrimaryKey()),
		"model", cfg.Gemini.DefaultModel,
		"timeout", cfg.Gemini.TimeoutSeconds,
		"eleven_key", maskSecret(cfg.Eleven.APIKey),
		"voice", cfg.Eleven.VoiceID,
		"artifact_dir", cfg.Artifacts.Dir,
		"session_store_url", cfg.SessionStore.URL,
		"session_ttl", cfg.Session.SessionTTLMinutes,
	)

	if len(cfg.Gemini.APIKeys) == 0 {
		logger.Error("env_missing_gemini_api_key")
	}
	if cfg.Eleven.APIKey == "" {
		logger.Error("env_missing_elevenlabs_api_key")
	}
}

func buildConfig() *Config {
	return &Config{
		Gemini: GeminiConfig{
			APIKeys:         parseAPIKeys(),
			DefaultModel:    getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			JudgeModel:      getEnvString("GEMINI_JUDGE_MODEL", ""),
			Temperature:     getEnvFloat("GEMINI_TEMPERATURE", 0.7),
			MaxOutputTokens: getEnvInt("GEMINI_MAX_TOKENS", 8192),
			TimeoutSeconds:  getEnvInt("GEMINI_TIMEOUT", 60),
		},
		Eleven: ElevenConfig{
			APIKey:          getEnvString("ELEVENLABS_API_KEY", ""),
			BaseURL:         getEnvString("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
			VoiceID:         getEnvString("ELEVEN_VOICE_ID", "TRnaQb7q41oL7sV0w6Bu"),
			ModelID:         getEnvString("ELEVEN_MODEL_ID", "eleven_multilingual_v2"),
			OutputFormat:    getEnvString("ELEVEN_OUTPUT_FORMAT", "mp3_44100_128"),
			Stability:       getEnvFloat("ELEVEN_STABILITY", 0.5),
			SimilarityBoost: getEnvFloat("ELEVEN_SIMILARITY_BOOST", 0.75),
			TimeoutSeconds:  getEnvInt("ELEVEN_TIMEOUT", 60),
		},
		Artifacts: ArtifactConfig{
			Dir: getEnvString("UPLOAD_DIR", "uploads"),
		},
		Session: SessionConfig{
			SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 1440),
		},
		SessionStore: SessionStoreConfig{
			URL:          getEnvString("SESSION_STORE_URL", "redis://localhost:6379"),
			Enabled:      getEnvBool("SESSION_STORE_ENABLED", false),
			Required:     getEnvBool("SESSION_STORE_REQUIRED", false),
			DisableCache: getEnvBool("SESSION_STORE_DISABLE_CACHE", false),
		},
		Guard: GuardConfig{
			Enabled:         getEnvBool("GUARD_ENABLED", true),
			Threshold:       getEnvFloat("GUARD_THRESHOLD", 0.85),
			CacheMaxSize:    getEnvInt("GUARD_CACHE_SIZE", 10000),
			CacheTTLSeconds: getEnvInt("GUARD_CACHE_TTL", 3600),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_FILE_MAX_SIZE_MB", 1),
			MaxBackups: getEnvInt("LOG_FILE_MAX_BACKUPS", 30),
			MaxAgeDays: getEnvInt("LOG_FILE_MAX_AGE_DAYS", 7),
			Compress:   getEnvBool("LOG_FILE_COMPRESS", true),
		},
		HTTP: HTTPConfig{
			Host:         getEnvString("HTTP_HOST", "127.0.0.1"),
			Port:         getEnvInt("HTTP_PORT", 5000),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			APIKey: getEnvString("HTTP_API_KEY", ""),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvNonNegativeInt("HTTP_RATE_LIMIT_RPM", 0),
			CacheSize:         max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_SIZE", 10000)),
			CacheTTLSeconds:   max(1, getEnvNonNegativeInt("HTTP_RATE_LIMIT_CACHE_TTL_SECONDS", 120)),
		},
	}
}

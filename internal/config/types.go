package config

// GeminiConfig holds generative model settings.
type GeminiConfig struct {
	APIKeys         []string
	DefaultModel    string
	JudgeModel      string
	Temperature     float64
	MaxOutputTokens int
	TimeoutSeconds  int
}

// PrimaryKey returns the first configured API key.
func (g GeminiConfig) PrimaryKey() string {
	if len(g.APIKeys) == 0 {
		return ""
	}
	return g.APIKeys[0]
}

// ModelForTask returns the model for a task kind.
func (g GeminiConfig) ModelForTask(task string) string {
	if task == "judge" && g.JudgeModel != "" {
		return g.JudgeModel
	}
	return g.DefaultModel
}

// ElevenConfig holds speech synthesis settings.
type ElevenConfig struct {
	APIKey          string
	BaseURL         string
	VoiceID         string
	ModelID         string
	OutputFormat    string
	Stability       float64
	SimilarityBoost float64
	TimeoutSeconds  int
}

// ArtifactConfig holds generated-audio storage settings.
type ArtifactConfig struct {
	Dir string
}

// SessionConfig holds assessment session settings.
type SessionConfig struct {
	SessionTTLMinutes int
}

// SessionStoreConfig holds session store connection settings.
type SessionStoreConfig struct {
	URL          string
	Enabled      bool
	Required     bool
	DisableCache bool
}

// GuardConfig holds content guard settings.
type GuardConfig struct {
	Enabled         bool
	Threshold       float64
	CacheMaxSize    int
	CacheTTLSeconds int
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
}

// HTTPAuthConfig holds API key auth settings.
type HTTPAuthConfig struct {
	APIKey string
}

// HTTPRateLimitConfig holds request limiting settings.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// Config is the whole application configuration.
type Config struct {
	Gemini        GeminiConfig
	Eleven        ElevenConfig
	Artifacts     ArtifactConfig
	Session       SessionConfig
	SessionStore  SessionStoreConfig
	Guard         GuardConfig
	Logging       LoggingConfig
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
}

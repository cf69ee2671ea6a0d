package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env             string        `mapstructure:"ENV"`
	Port            string        `mapstructure:"PORT"`
	DatabaseURL     string        `mapstructure:"DATABASE_URL"`
	RunMigrations   bool          `mapstructure:"RUN_MIGRATIONS"`
	CORSAllowed     string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout  time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB int64         `mapstructure:"MAX_UPLOAD_MB"`

	SecretKey          string        `mapstructure:"SECRET_KEY"`
	AccessTokenTTL     time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	GoogleClientID     string        `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleTokenInfoURL string        `mapstructure:"GOOGLE_TOKENINFO_URL"`

	AIProvider           string        `mapstructure:"AI_PROVIDER"`
	GoogleAPIKey         string        `mapstructure:"GOOGLE_API_KEY"`
	GeminiModel          string        `mapstructure:"GEMINI_MODEL"`
	OpenAIBaseURL        string        `mapstructure:"OPENAI_BASE_URL"`
	OpenAIAPIKey         string        `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel          string        `mapstructure:"OPENAI_MODEL"`
	AnthropicAPIKey      string        `mapstructure:"ANTHROPIC_API_KEY"`
	AnthropicModel       string        `mapstructure:"ANTHROPIC_MODEL"`
	AIMaxConcurrency     int64         `mapstructure:"AI_MAX_CONCURRENCY"`
	ClassifyTimeout      time.Duration `mapstructure:"CLASSIFY_TIMEOUT"`
	EnforceDepartmentMap bool          `mapstructure:"ENFORCE_DEPARTMENT_MAP"`
	OCRLanguages         string        `mapstructure:"OCR_LANGUAGES"`

	BlobBackend    string `mapstructure:"BLOB_BACKEND"`
	MinIOEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket    string `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	SubmitRatePerMinute int `mapstructure:"SUBMIT_RATE_PER_MINUTE"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "8000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 10)

	v.SetDefault("SECRET_KEY", "supersecretkey")
	v.SetDefault("ACCESS_TOKEN_TTL", "30m")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_TOKENINFO_URL", "https://oauth2.googleapis.com/tokeninfo")

	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GOOGLE_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	v.SetDefault("ANTHROPIC_API_KEY", "")
	v.SetDefault("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929")
	v.SetDefault("AI_MAX_CONCURRENCY", 4)
	v.SetDefault("CLASSIFY_TIMEOUT", "60s")
	v.SetDefault("ENFORCE_DEPARTMENT_MAP", false)
	v.SetDefault("OCR_LANGUAGES", "hin,eng,mar,tam")

	v.SetDefault("BLOB_BACKEND", "postgres")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "grievance-images")
	v.SetDefault("MINIO_USE_SSL", false)

	v.SetDefault("SUBMIT_RATE_PER_MINUTE", 5)
}

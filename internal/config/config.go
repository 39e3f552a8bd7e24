package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	LLM       LLMConfig       `yaml:"llm"`
	Resources ResourcesConfig `yaml:"resources"`
	Cache     CacheConfig     `yaml:"cache"`
	Dialogue  DialogueConfig  `yaml:"dialogue"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"https://pollylang.app,https://www.pollylang.app,http://localhost:5173,http://localhost:3000"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
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
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"1048576"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// An empty DSN disables accounts and player saves.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"true"`
}

// Enabled reports whether a database is configured.
func (c DatabaseConfig) Enabled() bool { return c.DSN != "" }

// AuthConfig holds session and password hashing settings.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	CookieName    string        `yaml:"cookie_name"    env:"AUTH_COOKIE_NAME"    env-default:"pl_session"`
	SessionTTL    time.Duration `yaml:"session_ttl"    env:"AUTH_SESSION_TTL"    env-default:"720h"`
	SecureCookie  bool          `yaml:"secure_cookie"  env:"AUTH_SECURE_COOKIE"  env-default:"true"`
	ScryptN       int           `yaml:"scrypt_n"       env:"AUTH_SCRYPT_N"       env-default:"16384"`
	ScryptR       int           `yaml:"scrypt_r"       env:"AUTH_SCRYPT_R"       env-default:"8"`
	ScryptP       int           `yaml:"scrypt_p"       env:"AUTH_SCRYPT_P"       env-default:"1"`
	ScryptKeyLen  int           `yaml:"scrypt_key_len" env:"AUTH_SCRYPT_KEY_LEN" env-default:"64"`
}

// LLMConfig holds the OpenAI-compatible chat completion endpoint settings.
type LLMConfig struct {
	BaseURL     string        `yaml:"base_url"    env:"LLM_BASE_URL"    env-default:"https://api.groq.com/openai/v1/"`
	APIKey      string        `yaml:"api_key"     env:"GROQ_API_KEY"    env-required:"true"`
	Model       string        `yaml:"model"       env:"LLM_MODEL"       env-default:"llama-3.1-8b-instant"`
	Temperature float64       `yaml:"temperature" env:"LLM_TEMPERATURE" env-default:"0.6"`
	MaxTokens   int64         `yaml:"max_tokens"  env:"LLM_MAX_TOKENS"  env-default:"40"`
	Timeout     time.Duration `yaml:"timeout"     env:"LLM_TIMEOUT"     env-default:"20s"`
}

// ResourcesConfig locates the published vocabulary banks and level rules.
type ResourcesConfig struct {
	BaseURL      string        `yaml:"base_url"      env:"RESOURCES_BASE_URL"      env-default:"https://pollylang.app"`
	BankPath     string        `yaml:"bank_path"     env:"RESOURCES_BANK_PATH"     env-default:"/wordbanks/{lang}/{lang}_{tier}.json"`
	RulesPath    string        `yaml:"rules_path"    env:"RESOURCES_RULES_PATH"    env-default:"/cefr/{lang}.json"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"RESOURCES_FETCH_TIMEOUT" env-default:"10s"`
}

// CacheConfig bounds the in-process bank and rule caches.
type CacheConfig struct {
	BankSize  int `yaml:"bank_size"  env:"CACHE_BANK_SIZE"  env-default:"64"`
	RulesSize int `yaml:"rules_size" env:"CACHE_RULES_SIZE" env-default:"16"`
}

// DialogueConfig tunes the vocabulary-constrained reply pipeline.
// A zero Ceiling takes the policy default. Levels above MaxTier words are
// served the MaxTier bank.
type DialogueConfig struct {
	Policy      string  `yaml:"policy"       env:"DIALOGUE_POLICY"       env-default:"tolerant"`
	Cumulative  bool    `yaml:"cumulative"   env:"DIALOGUE_CUMULATIVE"   env-default:"true"`
	MaxTier     int     `yaml:"max_tier"     env:"DIALOGUE_MAX_TIER"     env-default:"20000"`
	Threshold   float64 `yaml:"threshold"    env:"DIALOGUE_THRESHOLD"    env-default:"0.30"`
	MaxAttempts int     `yaml:"max_attempts" env:"DIALOGUE_MAX_ATTEMPTS" env-default:"2"`
	SliceLimit  int     `yaml:"slice_limit"  env:"DIALOGUE_SLICE_LIMIT"  env-default:"200"`
	Ceiling     int     `yaml:"ceiling"      env:"DIALOGUE_CEILING"      env-default:"0"`
	Fallbacks   string  `yaml:"fallbacks"    env:"DIALOGUE_FALLBACKS"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// TracingConfig holds OpenTelemetry exporter settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"      env:"OTEL_TRACES_ENABLED"          env-default:"false"`
	Endpoint    string `yaml:"endpoint"     env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers     string `yaml:"headers"      env:"OTEL_EXPORTER_OTLP_HEADERS"`
	Insecure    bool   `yaml:"insecure"     env:"OTEL_EXPORTER_OTLP_INSECURE"  env-default:"false"`
	ServiceName string `yaml:"service_name" env:"OTEL_SERVICE_NAME"            env-default:"pollylang-backend"`
	Environment string `yaml:"environment"  env:"DEPLOY_ENV"                   env-default:"development"`
}

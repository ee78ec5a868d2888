package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Log         LogConfig         `yaml:"log"`
	CORS        CORSConfig        `yaml:"cors"`
	Mail        MailConfig        `yaml:"mail"`
	Assistant   AssistantConfig   `yaml:"assistant"`
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Links       LinksConfig       `yaml:"links"`
	Company     CompanyConfig     `yaml:"company"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"SERVER_MAX_BODY_BYTES"   env-default:"65536"`
	// ChatRateLimit is requests per minute per user on /chat and /interpret. Zero disables it.
	ChatRateLimit int `yaml:"chat_rate_limit" env:"SERVER_CHAT_RATE_LIMIT" env-default:"30"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds bearer-token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"dailycrm"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// MailConfig holds outbound SMTP settings. An empty Host disables sending.
type MailConfig struct {
	Host     string        `yaml:"host"     env:"MAIL_HOST"`
	Port     int           `yaml:"port"     env:"MAIL_PORT"     env-default:"465"`
	Username string        `yaml:"username" env:"MAIL_USERNAME"`
	Password string        `yaml:"password" env:"MAIL_PASSWORD"`
	From     string        `yaml:"from"     env:"MAIL_FROM"`
	TLS      string        `yaml:"tls"      env:"MAIL_TLS"      env-default:"ssl"`
	Timeout  time.Duration `yaml:"timeout"  env:"MAIL_TIMEOUT"  env-default:"15s"`
}

// Enabled reports whether an SMTP server is configured.
func (c MailConfig) Enabled() bool { return c.Host != "" }

// AssistantConfig holds settings for the language model that turns chat
// messages into action payloads.
type AssistantConfig struct {
	APIKey    string        `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	Model     string        `yaml:"model"      env:"ASSISTANT_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64         `yaml:"max_tokens" env:"ASSISTANT_MAX_TOKENS" env-default:"1024"`
	Timeout   time.Duration `yaml:"timeout"    env:"ASSISTANT_TIMEOUT"    env-default:"60s"`
}

// InterpreterConfig tunes action execution.
type InterpreterConfig struct {
	Timezone       string `yaml:"timezone"        env:"INTERPRETER_TIMEZONE"        env-default:"UTC"`
	PageSize       int    `yaml:"page_size"       env:"INTERPRETER_PAGE_SIZE"       env-default:"5"`
	CandidateLimit int    `yaml:"candidate_limit" env:"INTERPRETER_CANDIDATE_LIMIT" env-default:"5"`

	// Location is resolved from Timezone during validation.
	Location *time.Location `yaml:"-" env:"-"`
}

// LinksConfig holds the public address used in generated links.
type LinksConfig struct {
	BaseURL string `yaml:"base_url" env:"LINKS_BASE_URL" env-default:"http://localhost:8080"`
}

// CompanyConfig holds branding used in invoices and emails.
type CompanyConfig struct {
	Name string `yaml:"name" env:"COMPANY_NAME" env-default:"Daily"`
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.ChatRateLimit < 0 {
		return fmt.Errorf("server.chat_rate_limit must be >= 0 (got %d)", c.Server.ChatRateLimit)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must be >= 0 (got %d)", c.Server.MaxBodyBytes)
	}

	if err := c.Mail.validate(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}

	if err := c.Interpreter.validate(); err != nil {
		return fmt.Errorf("interpreter: %w", err)
	}

	u, err := url.Parse(c.Links.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("links.base_url must be an absolute URL (got %q)", c.Links.BaseURL)
	}

	if c.Assistant.MaxTokens <= 0 {
		return fmt.Errorf("assistant.max_tokens must be > 0 (got %d)", c.Assistant.MaxTokens)
	}

	return nil
}

func (m *MailConfig) validate() error {
	if !m.Enabled() {
		return nil
	}
	switch strings.ToLower(m.TLS) {
	case "ssl", "starttls", "none":
	default:
		return fmt.Errorf("tls must be one of ssl, starttls, none (got %q)", m.TLS)
	}
	if m.Port <= 0 {
		return fmt.Errorf("port must be > 0 (got %d)", m.Port)
	}
	if m.From == "" {
		return fmt.Errorf("from is required when host is set")
	}
	return nil
}

func (i *InterpreterConfig) validate() error {
	if i.PageSize <= 0 {
		return fmt.Errorf("page_size must be > 0 (got %d)", i.PageSize)
	}
	if i.CandidateLimit < 2 {
		return fmt.Errorf("candidate_limit must be >= 2 (got %d)", i.CandidateLimit)
	}

	loc, err := time.LoadLocation(i.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	i.Location = loc

	return nil
}

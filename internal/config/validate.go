package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateTemplate(); err != nil {
		return err
	}
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSource() error {
	parsed, err := url.Parse(c.Source.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("source.base_url %q must be an absolute URL", c.Source.BaseURL)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if _, err := language.Parse(c.Translation.TargetLanguage); err != nil {
		return fmt.Errorf("translation.target_language %q: %w", c.Translation.TargetLanguage, err)
	}
	return nil
}

func (c *Config) validateTemplate() error {
	if c.Template.Location == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/gazette/config.toml"
		}
		return fmt.Errorf("template.location is required. Set GAZETTE_TEMPLATE_LOCATION env var or edit %s (create with 'gazette config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required (or set GAZETTE_BOT_TOKEN)")
	}
	if c.Telegram.ChannelID == "" {
		return errors.New("telegram.channel_id is required (or set GAZETTE_CHANNEL_ID)")
	}
	if !strings.HasPrefix(c.Telegram.BaseURL, "http") {
		return fmt.Errorf("telegram.base_url %q must be an http(s) URL", c.Telegram.BaseURL)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.MaxAttempts < 1 {
		return errors.New("delivery.max_attempts must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}

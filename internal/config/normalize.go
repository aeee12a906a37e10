package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSource()
	c.normalizeTranslation()
	c.normalizeTemplate()
	c.normalizeConverter()
	c.normalizeTelegram()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeDelivery()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSource() {
	c.Source.BaseURL = strings.TrimSpace(c.Source.BaseURL)
	if c.Source.BaseURL == "" {
		c.Source.BaseURL = defaultSourceBaseURL
	}
	if c.Source.Pages <= 0 {
		c.Source.Pages = defaultSourcePages
	}
	c.Source.SkipPattern = strings.TrimSpace(c.Source.SkipPattern)
	if c.Source.RequestTimeout <= 0 {
		c.Source.RequestTimeout = defaultSourceTimeout
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.TargetLanguage = strings.TrimSpace(c.Translation.TargetLanguage)
	if c.Translation.TargetLanguage == "" {
		c.Translation.TargetLanguage = defaultTargetLanguage
	}
	c.Translation.Endpoint = strings.TrimSpace(c.Translation.Endpoint)
	if c.Translation.Endpoint == "" {
		c.Translation.Endpoint = defaultTranslateEndpoint
	}
	if c.Translation.RequestTimeout <= 0 {
		c.Translation.RequestTimeout = defaultTranslateTimeout
	}
}

func (c *Config) normalizeTemplate() {
	if c.Template.Location == "" {
		if value, ok := os.LookupEnv("GAZETTE_TEMPLATE_LOCATION"); ok {
			c.Template.Location = value
		}
	}
	c.Template.Location = strings.TrimSpace(c.Template.Location)
}

func (c *Config) normalizeConverter() {
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	if c.Converter.Timeout <= 0 {
		c.Converter.Timeout = defaultConverterTimeout
	}
}

func (c *Config) normalizeTelegram() {
	if c.Telegram.BotToken == "" {
		if value, ok := os.LookupEnv("GAZETTE_BOT_TOKEN"); ok {
			c.Telegram.BotToken = value
		}
	}
	if c.Telegram.ChannelID == "" {
		if value, ok := os.LookupEnv("GAZETTE_CHANNEL_ID"); ok {
			c.Telegram.ChannelID = value
		}
	}
	c.Telegram.BotToken = strings.TrimSpace(c.Telegram.BotToken)
	c.Telegram.ChannelID = strings.TrimSpace(c.Telegram.ChannelID)
	c.Telegram.BaseURL = strings.TrimSpace(c.Telegram.BaseURL)
	if c.Telegram.BaseURL == "" {
		c.Telegram.BaseURL = defaultTelegramBaseURL
	}
	if c.Telegram.RequestTimeout <= 0 {
		c.Telegram.RequestTimeout = defaultTelegramTimeout
	}
}

func (c *Config) normalizeLedger() error {
	if c.Ledger.Path == "" {
		if value, ok := os.LookupEnv("GAZETTE_LEDGER_PATH"); ok {
			c.Ledger.Path = value
		}
	}
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	var err error
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeDelivery() {
	if c.Delivery.MaxAttempts <= 0 {
		c.Delivery.MaxAttempts = defaultMaxAttempts
	}
	if c.Delivery.RetryDelaySec <= 0 {
		c.Delivery.RetryDelaySec = defaultRetryDelaySec
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ItemWorkers <= 0 {
		c.Workflow.ItemWorkers = defaultItemWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

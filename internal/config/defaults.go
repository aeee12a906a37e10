package config

const (
	defaultStagingDir        = "~/.local/share/gazette/staging"
	defaultLogDir            = "~/.local/share/gazette/logs"
	defaultSourceBaseURL     = "https://www.gktoday.in/current-affairs/"
	defaultSourcePages       = 2
	defaultSourceSkipPattern = "daily-current-affairs-quiz"
	defaultSourceTimeout     = 30
	defaultTargetLanguage    = "gu"
	defaultTranslateEndpoint = "https://translate.googleapis.com/translate_a/single"
	defaultTranslateTimeout  = 20
	defaultConverterBinary   = "soffice"
	defaultConverterTimeout  = 120
	defaultTelegramBaseURL   = "https://api.telegram.org"
	defaultTelegramTimeout   = 60
	defaultLedgerPath        = "~/.local/share/gazette/ledger.db"
	defaultMaxAttempts       = 3
	defaultRetryDelaySec     = 5
	defaultItemWorkers       = 4
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Source: Source{
			BaseURL:        defaultSourceBaseURL,
			Pages:          defaultSourcePages,
			SkipPattern:    defaultSourceSkipPattern,
			RequestTimeout: defaultSourceTimeout,
		},
		Translation: Translation{
			TargetLanguage: defaultTargetLanguage,
			Endpoint:       defaultTranslateEndpoint,
			RequestTimeout: defaultTranslateTimeout,
		},
		Converter: Converter{
			Binary:  defaultConverterBinary,
			Timeout: defaultConverterTimeout,
		},
		Telegram: Telegram{
			BaseURL:        defaultTelegramBaseURL,
			RequestTimeout: defaultTelegramTimeout,
		},
		Ledger: Ledger{
			Path: defaultLedgerPath,
		},
		Delivery: Delivery{
			MaxAttempts:   defaultMaxAttempts,
			RetryDelaySec: defaultRetryDelaySec,
		},
		Workflow: Workflow{
			ItemWorkers: defaultItemWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

package config

const (
	defaultMediaDir           = "~/.local/share/lingokit/media"
	defaultLogDir             = "~/.local/share/lingokit/logs"
	defaultTranscriberCache   = "~/.local/share/lingokit/cache/whisperx"
	defaultAPIBind            = "127.0.0.1:7620"
	defaultDownloadTimeout    = 300
	defaultTranscriberModel   = "small"
	defaultTranslatorBaseURL  = "http://127.0.0.1:8011"
	defaultTranslatorModel    = "facebook/nllb-200-distilled-600M"
	defaultTranslatorTimeout  = 120
	defaultTranslatorMaxChars = 4096
	defaultMaxConcurrentJobs  = 2
	defaultQueuePollInterval  = 5
	defaultTargetLang         = "hi"
	defaultMinFreeDiskSpaceGB = 2
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultNotifyTimeout      = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			MediaDir: defaultMediaDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Media: Media{
			DownloadTimeout: defaultDownloadTimeout,
		},
		Transcriber: Transcriber{
			Model:    defaultTranscriberModel,
			CacheDir: defaultTranscriberCache,
		},
		Translator: Translator{
			BaseURL:        defaultTranslatorBaseURL,
			Model:          defaultTranslatorModel,
			TimeoutSeconds: defaultTranslatorTimeout,
			MaxChars:       defaultTranslatorMaxChars,
		},
		Workflow: Workflow{
			MaxConcurrentJobs:  defaultMaxConcurrentJobs,
			QueuePollInterval:  defaultQueuePollInterval,
			DefaultTargetLang:  defaultTargetLang,
			MinFreeDiskSpaceGB: defaultMinFreeDiskSpaceGB,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Completion:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

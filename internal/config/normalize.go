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
	c.normalizeAPI()
	c.normalizeMedia()
	if err := c.normalizeTranscriber(); err != nil {
		return err
	}
	c.normalizeTranslator()
	c.normalizeWorkflow()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		c.Paths.MediaDir = defaultMediaDir
	}
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.MasterKey = strings.TrimSpace(c.API.MasterKey)
	if c.API.MasterKey == "" {
		if value, ok := os.LookupEnv("LINGOKIT_MASTER_KEY"); ok {
			c.API.MasterKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeMedia() {
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	c.Media.FFmpegFallbackBinary = strings.TrimSpace(c.Media.FFmpegFallbackBinary)
	if c.Media.DownloadTimeout <= 0 {
		c.Media.DownloadTimeout = defaultDownloadTimeout
	}
}

func (c *Config) normalizeTranscriber() error {
	var err error
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	if strings.TrimSpace(c.Transcriber.CacheDir) == "" {
		c.Transcriber.CacheDir = defaultTranscriberCache
	}
	if c.Transcriber.CacheDir, err = expandPath(c.Transcriber.CacheDir); err != nil {
		return fmt.Errorf("transcriber.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranslator() {
	c.Translator.BaseURL = strings.TrimSpace(c.Translator.BaseURL)
	if c.Translator.BaseURL == "" {
		c.Translator.BaseURL = defaultTranslatorBaseURL
	}
	c.Translator.Model = strings.TrimSpace(c.Translator.Model)
	if c.Translator.Model == "" {
		c.Translator.Model = defaultTranslatorModel
	}
	c.Translator.APIKey = strings.TrimSpace(c.Translator.APIKey)
	if c.Translator.APIKey == "" {
		if value, ok := os.LookupEnv("NLLB_API_KEY"); ok {
			c.Translator.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Translator.TimeoutSeconds <= 0 {
		c.Translator.TimeoutSeconds = defaultTranslatorTimeout
	}
	if c.Translator.MaxChars <= 0 {
		c.Translator.MaxChars = defaultTranslatorMaxChars
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.MaxConcurrentJobs <= 0 {
		c.Workflow.MaxConcurrentJobs = defaultMaxConcurrentJobs
	}
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	c.Workflow.DefaultTargetLang = strings.TrimSpace(c.Workflow.DefaultTargetLang)
	if c.Workflow.DefaultTargetLang == "" {
		c.Workflow.DefaultTargetLang = defaultTargetLang
	}
	if c.Workflow.MinFreeDiskSpaceGB < 0 {
		c.Workflow.MinFreeDiskSpaceGB = 0
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package main

import (
	"os"
	"strings"
	"sync"

	"lingokit/internal/config"
)

type commandContext struct {
	serverFlag *string
	keyFlag    *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(serverFlag, keyFlag, configFlag *string) *commandContext {
	return &commandContext{
		serverFlag: serverFlag,
		keyFlag:    keyFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// apiClient resolves the daemon address and API key from flags, environment,
// and configuration, in that order.
func (c *commandContext) apiClient() (*apiClient, error) {
	server := flagValue(c.serverFlag)
	if server == "" {
		server = strings.TrimSpace(os.Getenv("LINGOKIT_SERVER"))
	}
	key := flagValue(c.keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("LINGOKIT_API_KEY"))
	}

	if server == "" || key == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		if server == "" {
			server = strings.TrimSpace(cfg.Paths.APIBind)
		}
		if key == "" {
			key = strings.TrimSpace(cfg.API.MasterKey)
		}
	}

	return newAPIClient(server, key)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

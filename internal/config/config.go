package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	CacheConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetResumeFileName() string
	GetSiteURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
	CacheVars
}

// requiredVars have no defaults - a missing value is fatal at startup.
var requiredVars = []string{
	oauthURLVar,
	clientIDVar,
	clientSecretVar,
	siteURLVar,
	encryptionKeyVar,
	redisConnectionStringVar,
}

func New() (Config, error) {
	// Best effort .env load for local development; real deployments set
	// the environment directly.
	_ = godotenv.Load()

	var missing []string
	for _, v := range requiredVars {
		if GetEnv(v, "") == "" {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	c := mainConfig{}
	if _, err := c.GetEncryptionKey(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", encryptionKeyVar, err)
	}

	return c, nil
}

package main

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"volunteerhub/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/gorilla/securecookie"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.SessionMaxAgeSec <= 0 {
		c.SessionMaxAgeSec = 7 * 24 * 60 * 60
	}

	keys := []struct {
		name  string
		value *string
		size  int
	}{
		{"COOKIE_HASH_KEY", &c.CookieHashKey, 32},
		{"COOKIE_BLOCK_KEY", &c.CookieBlockKey, 32},
		{"TOKEN_SIGNING_KEY", &c.TokenSigningKey, 32},
	}
	for _, key := range keys {
		if *key.value != "" {
			continue
		}
		if c.IsProduction() {
			return nil, fmt.Errorf("set %s", key.name)
		}
		// Sessions do not survive a restart with generated keys.
		logrus.WithField("key", key.name).Warn("key not set, generating a random one")
		*key.value = base64.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(key.size))
	}

	return c, nil
}

func sessionTTL(c *types.Config) time.Duration {
	return time.Duration(c.SessionMaxAgeSec) * time.Second
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

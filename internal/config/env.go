package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/notekeeper/prod/"

// Load populates the environment: AWS SSM Parameter Store in production,
// a local .env file everywhere else.
func Load() error {
	if os.Getenv("GO_ENV") == "production" {
		return loadProdEnv()
	}
	return godotenv.Load()
}

func loadProdEnv() error {
	ctx := context.Background()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("unable to load prod environment: %w", err)
	}

	prefixLength := len(envVarsPrefix)
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		if err := os.Setenv(key, *param.Value); err != nil {
			return fmt.Errorf("unable to set environment variable %s: %w", key, err)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
	return nil
}

// TokenSecret is the HS256 signing key. The server refuses to start without it.
func TokenSecret() string {
	return os.Getenv("TOKEN_SECRET")
}

// TokenTTL is how long issued tokens stay valid. Defaults to 24h.
func TokenTTL() time.Duration {
	raw := os.Getenv("TOKEN_TTL")
	if raw == "" {
		return 24 * time.Hour
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		log.Warnf("invalid TOKEN_TTL %q, falling back to 24h", raw)
		return 24 * time.Hour
	}
	return ttl
}

// TrashRetention is how long soft-deleted notes linger before the purger
// removes them for good. Defaults to 30 days.
func TrashRetention() time.Duration {
	raw := os.Getenv("TRASH_RETENTION")
	if raw == "" {
		return 30 * 24 * time.Hour
	}

	retention, err := time.ParseDuration(raw)
	if err != nil || retention <= 0 {
		log.Warnf("invalid TRASH_RETENTION %q, falling back to 720h", raw)
		return 30 * 24 * time.Hour
	}
	return retention
}

// Port returns the listen address, defaulting to :7070.
func Port() string {
	port := os.Getenv("PORT")
	if port == "" {
		return ":7070"
	}
	return ":" + port
}

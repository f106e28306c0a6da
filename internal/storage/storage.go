package storage

import (
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"

	"s3filestore-migrate/internal/config"
)

// New builds the provider named by cfg.Provider. Anything other than "local"
// is treated as S3.
func New(cfg config.Storage) (Provider, error) {
	if cfg.Provider == "local" {
		log.Printf("Writing objects below local directory %s", cfg.LocalRoot)
		return NewLocalProvider(cfg.LocalRoot), nil
	}

	sess, err := session.NewSession(AWSConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewS3Provider(sess), nil
}

// AWSConfig translates the storage settings into an SDK config. Without static
// keys the SDK falls back to its default credential chain (env, profile, role).
func AWSConfig(cfg config.Storage) *aws.Config {
	c := aws.NewConfig().WithRegion(cfg.Region)

	if !cfg.UseAmbientCredentials && cfg.AccessKeyID != "" {
		c = c.WithCredentials(credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""))
	}

	if cfg.Endpoint != "" {
		c = c.WithEndpoint(cfg.Endpoint).WithS3ForcePathStyle(true)
	}

	return c
}

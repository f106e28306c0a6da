package database

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"s3filestore-migrate/internal/models"
)

// ErrUnsupportedURL is returned for database URLs whose dialect has no driver.
var ErrUnsupportedURL = errors.New("database: unsupported url")

type Client struct {
	DB *gorm.DB
}

// New connects using a SQLAlchemy style URL (postgresql://, postgresql+psycopg2://,
// sqlite:///relative.db, sqlite:////absolute.db).
func New(url string) (*Client, error) {
	dialector, err := Dialector(url)
	if err != nil {
		return nil, err
	}
	return open(dialector)
}

func open(dialector gorm.Dialector) (*Client, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		if c, ok := db.ConnPool.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &Client{DB: db}, nil
}

// Dialector picks the gorm driver for a SQLAlchemy style URL.
func Dialector(url string) (gorm.Dialector, error) {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, url)
	}

	// postgresql+psycopg2 -> postgresql
	dialect, _, _ := strings.Cut(strings.ToLower(scheme), "+")

	switch dialect {
	case "postgres", "postgresql":
		return postgres.Open(dialect + "://" + rest), nil
	case "sqlite":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			path = ":memory:"
		}
		return sqlite.Open(path), nil
	}

	return nil, fmt.Errorf("%w: dialect %q", ErrUnsupportedURL, dialect)
}

// FindResource looks up a resource by primary key. A miss returns nil and no error.
func (c *Client) FindResource(ctx context.Context, id string) (*models.Resource, error) {
	var rows []models.Resource
	err := c.DB.WithContext(ctx).
		Select("id", "url", "url_type").
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

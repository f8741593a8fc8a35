// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "gameshare",
		Password: "hunter2",
		Database: "gameshare",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Equal(t,
		"host=db.internal port=5433 user=gameshare password=hunter2 dbname=gameshare sslmode=require application_name=gameshare",
		dsn,
	)
}

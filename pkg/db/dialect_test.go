package db

import (
	"testing"

	appconfig "github.com/kilimo-labs/sacco/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAppMapsDatabaseFields(t *testing.T) {
	cfg := FromApp(appconfig.Config{
		DBType:        "postgres",
		DBHost:        "db.internal",
		DBPort:        "5433",
		DBName:        "sacco",
		DBUser:        "svc",
		DBPassword:    "secret",
		DBSSLMode:     "require",
		DBMaxIdleConn: 3,
		DBMaxOpenConn: 9,
	})

	assert.Equal(t, "postgres", cfg.Type)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, "5433", cfg.Port)
	assert.Equal(t, "sacco", cfg.Name)
	assert.Equal(t, "svc", cfg.User)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, 3, cfg.MaxIdleConn)
	assert.Equal(t, 9, cfg.MaxOpenConn)
}

func TestDialectPerType(t *testing.T) {
	for _, dbType := range []string{"postgres", "mysql", "sqlite"} {
		dialect, err := Dialect(Config{Type: dbType})
		require.NoError(t, err)
		assert.Equal(t, dbType, dialect.Name())
	}

	_, err := Dialect(Config{Type: "oracle"})
	assert.Error(t, err)
}

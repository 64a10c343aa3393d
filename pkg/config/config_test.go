package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverMemory, cfg.Catalog.Driver)
	assert.Equal(t, DriverMemory, cfg.Submissions.Driver)
	assert.Equal(t, 2*time.Minute, cfg.Listing.CacheTTL)
	assert.Equal(t, 12*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Empty(t, cfg.Export.PDFFont)
	assert.False(t, cfg.UsesPostgres())
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("CATALOG_DRIVER", " Postgres ")
	v.Set("LISTING_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)
	assert.Equal(t, DriverPostgres, cfg.Catalog.Driver)
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, 2*time.Minute, cfg.Listing.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestFromViperExportFont(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("EXPORT_PDF_FONT", "/fonts/Amiri-Regular.ttf")
	v.Set("SUBMISSIONS_DRIVER", "postgres")

	cfg := fromViper(v)
	assert.Equal(t, "/fonts/Amiri-Regular.ttf", cfg.Export.PDFFont)
	assert.Equal(t, DriverMemory, cfg.Catalog.Driver)
	assert.True(t, cfg.UsesPostgres())
}

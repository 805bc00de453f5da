package config

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "advert-service", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.SearchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CategoryCacheTTL)
	assert.Equal(t, 32, cfg.CategoryMaxDepth)
	assert.Equal(t, "category.>", cfg.CategoryEventsSubject)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SEARCH_TIMEOUT", "750ms")
	t.Setenv("CATEGORY_MAX_DEPTH", "4")
	t.Setenv("REPORT_HIDE_THRESHOLD", "5")
	t.Setenv("MONGO_DATABASE", "adverts_test")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 750*time.Millisecond, cfg.SearchTimeout)
	assert.Equal(t, 4, cfg.CategoryMaxDepth)
	assert.Equal(t, int64(5), cfg.ReportHideThreshold)
	assert.Equal(t, "adverts_test", cfg.MongoDatabase)
}

func TestLoadConfig_NonPositiveDepthFallsBack(t *testing.T) {
	t.Setenv("CATEGORY_MAX_DEPTH", "0")

	cfg, err := LoadConfig(logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.CategoryMaxDepth)
}

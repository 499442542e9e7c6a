package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SELLER_REPORT_DEBUG", "")
	t.Setenv("SELLER_REPORT_LOG_HUMAN", "")
	t.Setenv("SELLER_REPORT_DOWNLOAD_DIR", "")
	t.Setenv("SELLER_REPORT_DOWNLOAD_CONCURRENCY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
	assert.False(t, cfg.HumanLog)
	assert.Empty(t, cfg.DownloadDir)
	assert.Equal(t, 4, cfg.DownloadConcurrency)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SELLER_REPORT_DEBUG", "true")
	t.Setenv("SELLER_REPORT_LOG_HUMAN", "1")
	t.Setenv("SELLER_REPORT_DOWNLOAD_DIR", "/tmp/staging")
	t.Setenv("SELLER_REPORT_DOWNLOAD_CONCURRENCY", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Debug)
	assert.True(t, cfg.HumanLog)
	assert.Equal(t, "/tmp/staging", cfg.DownloadDir)
	assert.Equal(t, 8, cfg.DownloadConcurrency)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SELLER_REPORT_DEBUG", "definitely")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELLER_REPORT_DEBUG")
}

func TestLoadRejectsBadConcurrency(t *testing.T) {
	t.Setenv("SELLER_REPORT_DEBUG", "")
	t.Setenv("SELLER_REPORT_LOG_HUMAN", "")
	t.Setenv("SELLER_REPORT_DOWNLOAD_CONCURRENCY", "-2")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SELLER_REPORT_DOWNLOAD_CONCURRENCY")
}

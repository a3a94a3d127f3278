package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWithNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "scrapex", cfg.Engine.Name)
	assert.Equal(t, 5*time.Minute, cfg.Engine.Interval)
	assert.Equal(t, "json", cfg.Report.Format)
}

func TestValidateRejectsBadReportFormat(t *testing.T) {
	cfg := &Config{Engine: EngineConfig{Timeout: time.Second}, Report: ReportConfig{Format: "xml"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())
}

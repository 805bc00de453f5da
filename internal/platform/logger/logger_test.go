package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "Console")

	cfg := DefaultConfig()

	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stdout", cfg.OutputFile)
}

func TestBuild_InvalidLevelFallsBackToInfo(t *testing.T) {
	l := build(&LoggerConfig{Level: "loud", Format: "json", OutputFile: "stdout"})

	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}

func TestNamedAndWithKeepWrapper(t *testing.T) {
	base := NewNop()

	named := base.Named("CategoryResolver").With(zap.String("category_id", "c1"))

	assert.NotNil(t, named.Logger)
	assert.Equal(t, base.config, named.config)
}

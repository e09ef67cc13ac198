package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mrlokans/gymflow/internal/config"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.Log{Level: "warn"}, &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("entity", "plan").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"entity":"plan"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	logger := NewWithWriter(config.Log{Level: "loud"}, &bytes.Buffer{})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestParseSQLLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, ParseSQLLevel("silent"))
	assert.Equal(t, gormlogger.Error, ParseSQLLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, ParseSQLLevel("info"))
	assert.Equal(t, gormlogger.Warn, ParseSQLLevel(""))
}

func TestNewGormLogger_WritesThroughZerolog(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(config.Log{Level: "debug"}, &buf)

	gl := NewGormLogger(logger, "info")
	gl.Info(context.Background(), "migrated %d tables", 3)

	assert.Contains(t, buf.String(), "migrated 3 tables")
	assert.Contains(t, buf.String(), `"component":"gorm"`)
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jhoicas/pdv-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Env: "production", Level: "info", App: "pdv-api"})

	log.Info().Str("sale_id", "abc").Msg("venta registrada")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "pdv-api", line["app"])
	assert.Equal(t, "abc", line["sale_id"])
	assert.Equal(t, "venta registrada", line["message"])
}

func TestNewWithWriter_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "warn"})

	log.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("sí")
	assert.NotZero(t, buf.Len())
}

func TestNop_NoEscribe(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().Error().Msg("x") })
}

func TestNilLogger_NoPanic(t *testing.T) {
	var l *logger.Logger
	assert.NotPanics(t, func() { l.Info().Str("k", "v").Msg("descartado") })
}

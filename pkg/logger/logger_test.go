package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("ignorado")
	l.Warn().Str("invoice_id", "i-1").Msg("canal falló")

	out := buf.String()
	assert.NotContains(t, out, "ignorado")
	assert.Contains(t, out, `"invoice_id":"i-1"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNamed_AgregaComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf}).Named("billing")

	l.Info().Msg("ok")
	assert.Contains(t, buf.String(), `"component":"billing"`)
}

func TestRollbarHook_SoloErrores(t *testing.T) {
	var got []string
	h := &RollbarHook{report: func(level, msg string) { got = append(got, level+":"+msg) }}

	h.Run(nil, zerolog.InfoLevel, "info")
	h.Run(nil, zerolog.WarnLevel, "warn")
	h.Run(nil, zerolog.ErrorLevel, "falló")
	h.Run(nil, zerolog.FatalLevel, "caída")

	assert.Equal(t, []string{"error:falló", "critical:caída"}, got)
}

package logger

import (
	"github.com/rollbar/rollbar-go"
	"github.com/rs/zerolog"
)

// RollbarHook reenvía a Rollbar los eventos de nivel error o superior.
type RollbarHook struct {
	report func(level, msg string)
}

// NewRollbarHook configura el cliente global de Rollbar.
func NewRollbarHook(token, env, host string) *RollbarHook {
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	if host != "" {
		rollbar.SetServerHost(host)
	}
	return &RollbarHook{report: func(level, msg string) {
		rollbar.Log(level, msg)
	}}
}

// Run implementa zerolog.Hook.
func (h *RollbarHook) Run(_ *zerolog.Event, level zerolog.Level, msg string) {
	switch level {
	case zerolog.ErrorLevel:
		h.report(rollbar.ERR, msg)
	case zerolog.FatalLevel, zerolog.PanicLevel:
		h.report(rollbar.CRIT, msg)
	}
}

// Close espera a que se vacíe la cola de Rollbar.
func Close() {
	rollbar.Close()
}

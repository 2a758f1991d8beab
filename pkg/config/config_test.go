package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("EVENTS_DRIVER", "")
	t.Setenv("ACCESS_GRACE_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Access.GraceDays)
	assert.Equal(t, 15*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "none", cfg.Events.Driver)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	t.Setenv("ACCESS_GRACE_DAYS", "3")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "5")
	t.Setenv("EVENTS_DRIVER", "Kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Access.GraceDays)
	assert.Equal(t, 5*time.Second, cfg.Notify.Timeout)
	assert.Equal(t, "kafka", cfg.Events.Driver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.KafkaBrokers)
}

func TestLoad_DriverDesconocido(t *testing.T) {
	t.Setenv("EVENTS_DRIVER", "nats")

	_, err := Load()
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "school", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/school?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}

func TestNotifyConfig_Canales(t *testing.T) {
	n := NotifyConfig{}
	assert.False(t, n.EmailEnabled())
	assert.False(t, n.WhatsAppEnabled())

	n.SendGridAPIKey = "SG.x"
	n.TwilioAccountSID, n.TwilioAuthToken, n.TwilioWhatsAppFrom = "AC1", "tok", "+100"
	assert.True(t, n.EmailEnabled())
	assert.True(t, n.WhatsAppEnabled())
}

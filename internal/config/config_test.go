package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "CART_BACKEND", "LOGIN_RATE_PER_MIN", "LOG_PRETTY"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, "", cfg.HTTPAddr, "explicitly empty env keeps the empty value")
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	assert.False(t, cfg.LogPretty)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("CART_BACKEND", "Memory")
	t.Setenv("KAFKA_BROKERS", " a:9092, ,b:9092 ")
	t.Setenv("LOGIN_RATE_PER_MIN", "3")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.2, 10.0.0.3")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "memory", cfg.CartBackend)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 3, cfg.LoginRatePerMin)
	assert.True(t, cfg.LogPretty)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []string{"10.0.0.2", "10.0.0.3"}, cfg.TrustedProxies)
}

func TestKafkaDisabledWhenEmpty(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "")
	assert.False(t, Load().KafkaEnabled())
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("LOGIN_RATE_PER_MIN", "-4")
	t.Setenv("LOG_PRETTY", "nope")
	cfg := Load()
	assert.Equal(t, 10, cfg.LoginRatePerMin)
	assert.False(t, cfg.LogPretty)
}

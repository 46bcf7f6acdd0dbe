package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<API REQUEST_DUMP="true">
  <CONTEXT>
    <PORT>9090</PORT>
    <HOST>127.0.0.1</HOST>
  </CONTEXT>
  <AUTHENTICATION>
    <ENABLE_TOKEN_AUTH>true</ENABLE_TOKEN_AUTH>
    <TOKEN_SECRET>from-xml</TOKEN_SECRET>
  </AUTHENTICATION>
  <DB ENABLED="true">
    <HOST>db.internal</HOST>
    <NAMES VALID="valid"/>
    <USERNAME>valid</USERNAME>
    <PASSWORD TYPE="plain">secret</PASSWORD>
    <POOL><MAX_OPEN_CONNS>20</MAX_OPEN_CONNS></POOL>
  </DB>
  <ASSESSMENT>
    <MIN_COMPLETION_MINUTES>5</MIN_COMPLETION_MINUTES>
  </ASSESSMENT>
  <WEBHOOK ENABLED="true">
    <URL>https://hooks.example.com/lead</URL>
  </WEBHOOK>
</API>`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	assert.True(t, c.RequestDump)
	assert.Equal(t, 9090, c.Context.Port)
	assert.Equal(t, "127.0.0.1", c.Context.Host)
	assert.True(t, c.Authentication.EnableTokenAuth)
	assert.True(t, c.DB.Enabled)
	assert.Equal(t, "secret", c.DB.Password.Value)
	assert.Equal(t, "plain", c.DB.Password.Type)
	assert.Equal(t, 20, c.DB.Pool.MaxOpenConns)
	assert.True(t, c.Webhook.Enabled)
	assert.False(t, c.Reports.Enabled)

	// Defaults.
	assert.Equal(t, 5432, c.DB.Port)
	assert.Equal(t, "disable", c.DB.SSLMode)
	assert.Equal(t, 45, c.Assessment.MaxCompletionMins)
	assert.Equal(t, "working/offline_queue.db", c.Offline.QueuePath)
	assert.Equal(t, "INFO", c.Logging.Level)

	lo, hi := c.Assessment.Timing()
	assert.Equal(t, 5*time.Minute, lo)
	assert.Equal(t, 45*time.Minute, hi)

	assert.Equal(t, "host=db.internal port=5432 user=valid password=secret dbname=valid sslmode=disable", c.DB.DSN())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<API><CONTEXT>"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	env := map[string]string{
		"VALID_TOKEN_SECRET": "from-env",
		"VALID_DB_PASSWORD":  "rotated",
		"VALID_PORT":         "7000",
		"VALID_WEBHOOK_URL":  "",
	}
	c.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "from-env", c.Authentication.TokenSecret)
	assert.Equal(t, "rotated", c.DB.Password.Value)
	assert.Equal(t, 7000, c.Context.Port)
	// Empty values do not clobber the file.
	assert.Equal(t, "https://hooks.example.com/lead", c.Webhook.URL)
}

func TestParse_NonPositiveFallsBackToDefaults(t *testing.T) {
	doc := `<API>
  <CONTEXT><PORT>-1</PORT><SHUTDOWN_TIMEOUT>-5</SHUTDOWN_TIMEOUT></CONTEXT>
  <OFFLINE><SYNC_INTERVAL>-30</SYNC_INTERVAL><BATCH_SIZE>-1</BATCH_SIZE></OFFLINE>
  <WEBHOOK><TIMEOUT>-2</TIMEOUT><RATE_PER_SECOND>-0.5</RATE_PER_SECOND></WEBHOOK>
  <LOGGING><MAX_SIZE_MB>-10</MAX_SIZE_MB></LOGGING>
</API>`
	c, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Context.Port)
	assert.Equal(t, 10, c.Context.ShutdownTimeout)
	assert.Equal(t, 60, c.Offline.SyncInterval)
	assert.Equal(t, 50, c.Offline.BatchSize)
	assert.Equal(t, 10, c.Webhook.TimeoutSeconds)
	assert.Equal(t, 5.0, c.Webhook.RatePerSecond)
	assert.Equal(t, 50, c.Logging.MaxSizeMB)
}

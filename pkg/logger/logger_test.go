package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	log "go.opentelemetry.io/otel/log"
)

func TestNewDefaults(t *testing.T) {
	l, err := New(nil, "canopy-test")
	require.NoError(t, err)
	require.NotNil(t, l)

	l.SetDebug(true)
	l.SetLevel(zerolog.WarnLevel)
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(&Config{Level: "loudest"}, "canopy-test")
	assert.Error(t, err)
}

func TestWithComponentAddsField(t *testing.T) {
	var buf bytes.Buffer

	zl := zerolog.New(&buf)
	impl := &loggerImpl{logger: zl}

	impl.WithComponent("sweeper").Info().Msg("tick")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sweeper", entry["component"])
}

func TestMultiWriterWritesAll(t *testing.T) {
	var a, b bytes.Buffer

	mw := NewMultiWriter(&a, &b)

	n, err := mw.Write([]byte("x"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "x", a.String())
	assert.Equal(t, "x", b.String())
}

func TestFormatAttributeValueTruncates(t *testing.T) {
	long := strings.Repeat("a", maxAttributeValueLength+10)
	got := formatAttributeValue(long)
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.LessOrEqual(t, len(got), maxAttributeValueLength+len("...(truncated)"))

	assert.Equal(t, "null", formatAttributeValue(nil))
	assert.Equal(t, "true", formatAttributeValue(true))
	assert.Equal(t, `{"k":"v"}`, formatAttributeValue(map[string]string{"k": "v"}))
}

func TestMapZerologLevelToOTEL(t *testing.T) {
	assert.Equal(t, log.SeverityError, mapZerologLevelToOTEL("error"))
	assert.Equal(t, log.SeverityDebug, mapZerologLevelToOTEL("debug"))
	assert.Equal(t, log.SeverityInfo, mapZerologLevelToOTEL("unknown"))
}

func TestNewOTELWriterDisabled(t *testing.T) {
	_, err := NewOTELWriter(OTelConfig{})
	assert.ErrorIs(t, err, ErrOTelLoggingDisabled)

	_, err = NewOTELWriter(OTelConfig{Enabled: true})
	assert.ErrorIs(t, err, ErrOTelEndpointRequired)
}

func TestTestLoggerDiscards(t *testing.T) {
	l := NewTestLogger()
	l.Info().Msg("dropped")
	l.Error().Msg("dropped")
	assert.NotNil(t, l.WithComponent("x"))
}

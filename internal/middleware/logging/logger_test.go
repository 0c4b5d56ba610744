package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldLogRespectsLevel(t *testing.T) {
	l := NewLogger(&Config{Enabled: true, Level: "WARN"}, "TEST")
	assert.False(t, l.ShouldLog("DEBUG"))
	assert.False(t, l.ShouldLog("INFO"))
	assert.True(t, l.ShouldLog("WARN"))
	assert.True(t, l.ShouldLog("ERROR"))

	assert.False(t, NewNop().ShouldLog("ERROR"))
}

func TestWithPrefixSharesBackend(t *testing.T) {
	l := NewLogger(&Config{Enabled: true, Level: "DEBUG"}, "APP")
	var buf bytes.Buffer
	l.Logrus().SetOutput(&buf)

	child := l.WithPrefix("POLLER")
	child.Info("Cycle completed", "fields", 12, "error", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "[APP] [POLLER] Cycle completed")
	assert.Contains(t, out, "fields=12")
	assert.Contains(t, out, "error=boom")
	assert.Same(t, l.Logrus(), child.Logrus())
}

func TestOddFieldsAreMarked(t *testing.T) {
	l := NewLogger(&Config{Enabled: true, Level: "INFO"}, "APP")
	var buf bytes.Buffer
	l.Logrus().SetOutput(&buf)

	l.Warn("Lonely key", "key")
	assert.Contains(t, buf.String(), `key="?"`)

	buf.Reset()
	l.Debug("Hidden")
	assert.Empty(t, buf.String())
}

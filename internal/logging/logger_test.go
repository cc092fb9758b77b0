package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("info"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l.Named("test").Info("hello", String("k", "v"))
	_ = l.Sync()

	assert.FileExists(t, path)
}

func TestNewFromCore_FieldsAndNames(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewFromCore(core).Named("store").With(Uint("id", 7))

	l.Debug("deleted", Bool("ok", true))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "deleted", entry.Message)
	assert.Equal(t, "store", entry.LoggerName)
	assert.Equal(t, uint64(7), entry.ContextMap()["id"])
	assert.Equal(t, true, entry.ContextMap()["ok"])
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Error("ignored")
	assert.NotNil(t, l.With(Int("n", 1)))
}

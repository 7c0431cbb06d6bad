package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testData := []struct {
		input    string
		expected LogLevel
		isErr    bool
	}{
		{input: "debug", expected: LevelDebug},
		{input: "INFO", expected: LevelInfo},
		{input: "", expected: LevelInfo},
		{input: "warning", expected: LevelWarn},
		{input: "error", expected: LevelError},
		{input: "loud", expected: LevelInfo, isErr: true},
	}
	for _, data := range testData {
		level, err := ParseLevel(data.input)
		assert.Equal(t, data.expected, level, data.input)
		assert.Equal(t, data.isErr, err != nil, data.input)
	}
}

func TestInit_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	require.Nil(t, Init(Config{Level: LevelInfo, Format: "json", Output: buf}))
	defer func() { defaultLogger = nil }()

	LogOptimization("constant-folding", 3)
	Debug("hidden")

	var record map[string]interface{}
	require.Nil(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Optimization pass complete", record["msg"])
	assert.Equal(t, "constant-folding", record["pass"])
	assert.Equal(t, float64(3), record["changes"])
}

func TestLevelFiltersDebug(t *testing.T) {
	buf := &bytes.Buffer{}
	require.Nil(t, Init(Config{Level: LevelWarn, Output: buf}))
	defer func() { defaultLogger = nil }()

	LogPhase("lexical")
	Info("not shown")
	assert.Empty(t, buf.String())
	Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestHelpersWithoutInit(t *testing.T) {
	defaultLogger = nil
	assert.NotPanics(t, func() {
		Error("nobody listens")
		LogPhaseComplete("syntax", 0)
	})
	assert.NotNil(t, With("k", "v"))
}

func TestInit_LogFile(t *testing.T) {
	dir := t.TempDir()
	firstPath := filepath.Join(dir, "first.log")
	require.Nil(t, Init(Config{Level: LevelInfo, LogFile: firstPath}))
	defer Close()
	first := logFile
	require.NotNil(t, first)
	Info("to the first file")

	// Reinitializing closes the file the first Init opened.
	secondPath := filepath.Join(dir, "second.log")
	require.Nil(t, Init(Config{Level: LevelInfo, LogFile: secondPath}))
	_, err := first.Write([]byte("late"))
	assert.True(t, errors.Is(err, os.ErrClosed), "%v", err)
	Info("to the second file")

	content, err := os.ReadFile(firstPath)
	require.Nil(t, err)
	assert.Contains(t, string(content), "to the first file")
	assert.NotContains(t, string(content), "to the second file")
	content, err = os.ReadFile(secondPath)
	require.Nil(t, err)
	assert.Contains(t, string(content), "to the second file")

	// Switching back to a writer releases the file as well.
	second := logFile
	require.Nil(t, Init(Config{Output: &bytes.Buffer{}}))
	assert.Nil(t, logFile)
	_, err = second.Write([]byte("late"))
	assert.True(t, errors.Is(err, os.ErrClosed), "%v", err)
}

func TestInit_BadLogFileKeepsLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	require.Nil(t, Init(Config{Level: LevelInfo, Output: buf}))
	defer Close()

	assert.NotNil(t, Init(Config{LogFile: filepath.Join(t.TempDir(), "missing", "x.log")}))
	Info("still here")
	assert.Contains(t, buf.String(), "still here")
}

func TestClose(t *testing.T) {
	require.Nil(t, Init(Config{LogFile: filepath.Join(t.TempDir(), "c.log")}))
	file := logFile
	require.Nil(t, Close())
	assert.Nil(t, defaultLogger)
	assert.Nil(t, logFile)
	_, err := file.Write([]byte("late"))
	assert.True(t, errors.Is(err, os.ErrClosed), "%v", err)

	// A second Close has nothing left to do.
	assert.Nil(t, Close())
}

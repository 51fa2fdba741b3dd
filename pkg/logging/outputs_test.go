package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleOutputWrite(t *testing.T) {
	var buf bytes.Buffer
	out := &ConsoleOutput{writer: &buf, color: false}

	entry := LogEntry{
		Time:       time.Now().UnixNano(),
		Severity:   INFO,
		Message:    "generation complete",
		File:       "runner.go",
		Line:       42,
		RunID:      "run-1",
		Generation: 3,
		Fields:     map[string]interface{}{"average": 2.5},
	}

	require.NoError(t, out.Write(entry))

	line := buf.String()
	assert.Contains(t, line, "generation complete")
	assert.Contains(t, line, "[runner.go:42]")
	assert.Contains(t, line, "[run=run-1]")
	assert.Contains(t, line, "[gen=3]")
	assert.Contains(t, line, "average=2.5")
}

func TestConsoleOutputTruncatesLongFields(t *testing.T) {
	var buf bytes.Buffer
	out := &ConsoleOutput{writer: &buf, color: false}

	entry := LogEntry{
		Time:       time.Now().UnixNano(),
		Severity:   DEBUG,
		Message:    "document",
		Generation: -1,
		Fields:     map[string]interface{}{"full_text": strings.Repeat("x", 500)},
	}

	require.NoError(t, out.Write(entry))
	assert.Contains(t, buf.String(), "...")
	assert.Less(t, len(buf.String()), 400)
}

func TestConsoleOutputOmitsUnsetRunFields(t *testing.T) {
	var buf bytes.Buffer
	out := &ConsoleOutput{writer: &buf, color: false}

	entry := LogEntry{
		Time:       time.Now().UnixNano(),
		Severity:   INFO,
		Message:    "no run context",
		Generation: -1,
	}

	require.NoError(t, out.Write(entry))
	assert.NotContains(t, buf.String(), "[run=")
	assert.NotContains(t, buf.String(), "[gen=")
}

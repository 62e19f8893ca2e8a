package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level LogLevel) *Logger {
	return New(Config{Level: level, Output: buf})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{" Error ", ERROR, false},
		{"fatal", FATAL, false},
		{"loud", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, WARN)

	l.Debugf("debug %d", 1)
	l.Infof("info %d", 2)
	l.Warnf("warn %d", 3)
	l.Errorf("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[WARN] warn 3")
	assert.Contains(t, out, "[ERROR] error 4")
}

func TestNoColorNoTime(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO)

	l.Infof("plain")
	assert.Equal(t, "[INFO] plain\n", buf.String())
}

func TestColorize(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO)
	l.SetColorize(true)

	l.Warnf("careful")
	assert.True(t, strings.HasPrefix(buf.String(), colorYellow+"[WARN]"+colorReset))
}

func TestWithPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO).With("[render]").With("[xml]")

	l.Infof("wrote %s", "score.xml")
	assert.Equal(t, "[INFO] [render] [xml] wrote score.xml\n", buf.String())
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO)

	code := -1
	l.exit = func(c int) { code = c }
	l.Fatalf("boom")

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "[FATAL] boom")
}

func TestShowCaller(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, INFO)
	l.SetShowCaller(true)

	l.Infof("here")
	assert.Contains(t, buf.String(), "logger_test.go:")
}

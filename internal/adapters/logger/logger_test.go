package logger_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rig/internal/adapters/logger"
)

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*logger.Logger)
		level string
		text  string
	}{
		{
			name:  "info",
			log:   func(l *logger.Logger) { l.Info("resolved configuration") },
			level: "level=INFO",
			text:  "resolved configuration",
		},
		{
			name:  "warn",
			log:   func(l *logger.Logger) { l.Warn("no plugins declared") },
			level: "level=WARN",
			text:  "no plugins declared",
		},
		{
			name:  "error",
			log:   func(l *logger.Logger) { l.Error(os.ErrPermission) },
			level: "level=ERROR",
			text:  "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := logger.New()
			lg.SetOutput(&buf)

			tt.log(lg)

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), tt.text)
		})
	}
}

func TestLogger_Error_Message(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)

	lg.Error(os.ErrNotExist)

	assert.Contains(t, buf.String(), `msg="operation failed"`)
}

func TestLogger_SetQuiet(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.New()
	lg.SetOutput(&buf)
	lg.SetQuiet(true)

	lg.Info("hidden")
	lg.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	lg.SetQuiet(false)
	lg.Info("visible again")
	assert.Contains(t, buf.String(), "visible again")
}

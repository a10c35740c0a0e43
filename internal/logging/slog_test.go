package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		attr  string
	}{
		{"DEBUG", "dbg", "a=1"},
		{"INFO", "inf", "b=2"},
		{"WARN", "wrn", "c=3"},
		{"ERROR", "err", "d=4"},
	}

	for _, tc := range tests {
		assert.Contains(t, out, "level="+tc.level)
		assert.Contains(t, out, "msg="+tc.msg)
		assert.Contains(t, out, tc.attr)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "store").Info(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{"level=INFO", "msg=hello", "module=store", "k=v"} {
		assert.Contains(t, out, s)
	}
}

func TestNew_SelectsFormatAndLevel(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		format string
		level  string
		want   string
		hidden string
	}{
		{"text info hides debug", "text", "info", "msg=shown", "hidden"},
		{"json", "json", "debug", `"msg":"shown"`, ""},
		{"zerolog", "zerolog", "warn", `"message":"shown"`, "hidden"},
		{"pretty", "pretty", "info", "shown", "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(tt.format, tt.level, &buf)
			l.Debug(ctx, "hidden")
			l.Warn(ctx, "shown", "k", "v")

			out := buf.String()
			assert.Contains(t, out, tt.want)
			if tt.hidden != "" {
				assert.False(t, strings.Contains(out, tt.hidden), "debug line leaked: %s", out)
			}
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "x")
	assert.NotNil(t, l.With("a", 1))
}

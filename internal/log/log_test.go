package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	type testCase struct {
		in      string
		want    slog.Level
		wantErr bool
	}

	cases := []testCase{
		{in: "", want: slog.LevelInfo},
		{in: "trace", want: LevelTrace},
		{in: "DEBUG", want: slog.LevelDebug},
		{in: "warning", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseLevel(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestConsoleHandlerSplitsErrors(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewConsoleHandler(&out, &errOut, LevelTrace))

	logger.Log(context.Background(), LevelTrace, "recv", "code", "1C")
	logger.Warn("Overrun")
	logger.Error("transport closed")

	assert.Contains(t, out.String(), "level=TRACE")
	assert.Contains(t, out.String(), "Overrun")
	assert.NotContains(t, out.String(), "transport closed")
	assert.Contains(t, errOut.String(), "transport closed")
	assert.NotContains(t, errOut.String(), "Overrun")
}

func TestConsoleHandlerLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := slog.New(NewConsoleHandler(&out, &errOut, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRaw(&buf).(*rawLogger)
	r.now = func() time.Time { return time.Date(2024, 1, 1, 12, 30, 0, 0, time.UTC) }

	r.Log([]byte{0xE0, 0xF0, 0x7c})
	r.Log(nil)

	require.Equal(t, "12:30:00.000000 KBD-> 3 bytes: E0 F0 7C\n", buf.String())
}

func TestRawLoggerNilWriter(t *testing.T) {
	r := NewRaw(nil)
	assert.NotPanics(t, func() { r.Log([]byte{0x1C}) })
}

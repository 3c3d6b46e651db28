package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		log   func(dl *DispatcherLogger)
		want  map[string]any
	}{
		{
			level: "DEBUG",
			log:   func(dl *DispatcherLogger) { dl.Debug("handling event", "command", ":COMMAND:", "args", 4) },
			want:  map[string]any{"msg": "handling event", "command": ":COMMAND:", "args": float64(4)},
		},
		{
			level: "INFO",
			log:   func(dl *DispatcherLogger) { dl.Info("registered", "handlers", 8) },
			want:  map[string]any{"msg": "registered", "handlers": float64(8)},
		},
		{
			level: "ERROR",
			log:   func(dl *DispatcherLogger) { dl.Error("event failed", "command", ":ENTITY:DEATH:") },
			want:  map[string]any{"msg": "event failed", "command": ":ENTITY:DEATH:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			tt.log(NewDispatcherLogger(logger))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.level, entry["level"])
			for k, v := range tt.want {
				assert.Equal(t, v, entry[k], k)
			}
		})
	}
}

func TestDispatcherLogger_ImplementsInterface(t *testing.T) {
	var _ interface {
		Debug(msg string, keysAndValues ...any)
		Info(msg string, keysAndValues ...any)
		Error(msg string, keysAndValues ...any)
	} = NewDispatcherLogger(slog.Default())
}

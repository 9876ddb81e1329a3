package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level, format string
		wantDebug     bool
		wantPrefix    string
	}{
		{level: "debug", format: "text", wantDebug: true, wantPrefix: "time="},
		{level: "warn", format: "json", wantDebug: false, wantPrefix: "{"},
		{level: "nonsense", format: "", wantDebug: false, wantPrefix: "time="},
	}
	for _, tc := range tests {
		t.Run(tc.level+"/"+tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(tc.level, tc.format, &buf)

			logger.Debug("d")
			logger.Error("e")

			assert.Equal(t, tc.wantDebug, bytes.Contains(buf.Bytes(), []byte(`"d"`)) || bytes.Contains(buf.Bytes(), []byte("msg=d")))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte(tc.wantPrefix)))
			assert.Contains(t, buf.String(), "voxview")
		})
	}
}

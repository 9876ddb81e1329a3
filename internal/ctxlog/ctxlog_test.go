package ctxlog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext_PanicsWithoutLogger(t *testing.T) {
	assert.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
		FromContext(t.Context())
	})
}

func TestEnsure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(t.Context(), logger)

	assert.Same(t, logger, FromContext(Ensure(ctx)), "an existing logger is kept")
	assert.NotPanics(t, func() {
		FromContext(Ensure(t.Context())).Info("dropped")
	})
	assert.Empty(t, buf.String())
}

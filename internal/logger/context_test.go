package logger

import (
	"context"
	"testing"

	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
	zap "go.uber.org/zap"
)

func TestL_FallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), L(context.Background()))
}

func TestToolScope(t *testing.T) {
	ctx, logs := TestContext()

	L(ToolScope(ctx, "triage_get_labels", "req-1")).Info("executing tool")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "triage_get_labels", fields["tool"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestInherit(t *testing.T) {
	base, logs := TestContext()
	base = With(base, zap.String("transport", "stdio"))

	req, cancel := context.WithCancel(context.Background())
	cancel()

	ctx := Inherit(req, base)
	L(ctx).Warn("request cancelled")

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	entries := logs.FilterMessage("request cancelled").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "stdio", entries[0].ContextMap()["transport"])
}

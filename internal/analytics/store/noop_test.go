package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/serroba/secretdrop/internal/analytics"
	"github.com/serroba/secretdrop/internal/analytics/store"
)

func TestNewNoop(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	assert.NotNil(t, noop)
}

func TestNoop_SaveLinkCreated(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &analytics.LinkCreatedEvent{
		Handle:    "abc123",
		Kind:      "text+file",
		CreatedAt: time.Now(),
	}

	err := noop.SaveLinkCreated(context.Background(), event)

	require.NoError(t, err)
}

func TestNoop_SaveLinkAccessed(t *testing.T) {
	logger := zap.NewNop()
	noop := store.NewNoop(logger)

	event := &analytics.LinkAccessedEvent{
		Handle:     "abc123",
		Access:     analytics.AccessView,
		Outcome:    analytics.OutcomeServed,
		AccessedAt: time.Now(),
		ClientIP:   "127.0.0.1",
		UserAgent:  "TestAgent/1.0",
	}

	err := noop.SaveLinkAccessed(context.Background(), event)

	require.NoError(t, err)
}

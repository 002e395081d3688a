package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCompletes(t *testing.T) {
	err := Run(context.Background(), "quick", time.Second, func(ctx context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestRunPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), "failing", time.Second, func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestRunTimeout(t *testing.T) {
	err := Run(context.Background(), "hang", 50*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(10 * time.Millisecond)
		return ctx.Err()
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRunParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Run(ctx, "cancelled", time.Second, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

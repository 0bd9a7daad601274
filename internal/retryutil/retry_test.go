package retryutil

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethetl/ethetl/internal/apperrors"
)

var fastBackoff = Backoff{Base: time.Millisecond, Factor: 2, Cap: 5 * time.Millisecond}

func TestDoReturnsFirstSuccess(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), "op", fastBackoff, nil, func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	notified := 0
	onError := func(attempt int, err error, sleep time.Duration) { notified++ }

	result, err := Do(context.Background(), "op", fastBackoff, onError, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", &apperrors.TransientError{Op: "op", Err: errors.New("reset")}
		}
		return "done", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "done", result)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, notified)
}

func TestDoContractErrorEscapesImmediately(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), "op", fastBackoff, nil, func(ctx context.Context) (int, error) {
		calls++
		return 0, apperrors.MissingBlock(1234)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var contractErr *apperrors.ContractError
	assert.True(t, errors.As(err, &contractErr))
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, "op", fastBackoff, nil, func(ctx context.Context) (int, error) {
		return 0, &apperrors.TransientError{Op: "op", Err: errors.New("reset")}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoffCapped(t *testing.T) {
	b := Backoff{Base: 500 * time.Millisecond, Factor: 2, Cap: 60 * time.Second}
	assert.Equal(t, 500*time.Millisecond, b.forAttempt(0))
	assert.Equal(t, time.Second, b.forAttempt(1))
	assert.Equal(t, 60*time.Second, b.forAttempt(20))
}

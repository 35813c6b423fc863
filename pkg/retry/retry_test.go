package retry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"unifeed/pkg/retry"
)

var errBoom = errors.New("boom")

func TestWrapWithRetry_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		return nil
	}, func(error, int) bool {
		t.Fatal("shouldRetry must not be consulted on success")
		return false
	}, time.Millisecond)

	require.NoError(t, f())
	require.Equal(t, 1, calls)
}

func TestWrapWithRetry_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		if calls < 3 {
			return errBoom
		}
		return nil
	}, func(err error, attempt int) bool {
		require.ErrorIs(t, err, errBoom)
		require.Equal(t, calls, attempt)
		return true
	}, time.Millisecond)

	require.NoError(t, f())
	require.Equal(t, 3, calls)
}

func TestWrapWithRetry_GivesUp(t *testing.T) {
	t.Parallel()

	calls := 0
	f := retry.WrapWithRetry(func() error {
		calls++
		return errBoom
	}, func(_ error, attempt int) bool {
		return attempt < 2
	}, time.Millisecond)

	require.ErrorIs(t, f(), errBoom)
	require.Equal(t, 2, calls)
}

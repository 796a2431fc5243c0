package amb_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/amb"
	"github.com/baxromumarov/amb/ambtest"
)

func TestCollect(t *testing.T) {
	values, err := amb.Collect(context.Background(), amb.Just(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestCollectError(t *testing.T) {
	boom := errors.New("boom")
	values, err := amb.Collect(context.Background(), amb.FromFunc[int](func(ctx context.Context, emit func(int)) error {
		emit(1)
		return boom
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1}, values)
}

func TestCollectContextCancel(t *testing.T) {
	src := ambtest.NewSource[int]()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		src.Next(1)
		cancel()
	}()

	// Next(1) may or may not land before the cancellation is observed.
	values, err := amb.Collect[int](ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(values), 1)
	assert.True(t, src.Disposed())
}

func TestCollectTerminatedSourceWinsOverCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	boom := errors.New("boom")
	for range 200 {
		values, err := amb.Collect(ctx, amb.Just(1))
		require.NoError(t, err)
		assert.Equal(t, []int{1}, values)

		values, err = amb.Collect(ctx, amb.Fail[int](boom))
		assert.ErrorIs(t, err, boom)
		assert.Empty(t, values)
	}
}

func TestCollectCancelledBeforeTermination(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := ambtest.NewSource[int]()
	values, err := amb.Collect[int](ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, values)
	assert.True(t, src.Disposed())

	// Signals after cancellation are not picked up.
	src.Next(1)
	src.Complete()
	assert.Empty(t, values)
}

func TestRaceFirstWins(t *testing.T) {
	ctx := context.Background()
	val, err := amb.Race(ctx,
		func(ctx context.Context) (int, error) {
			return 1, nil // fast
		},
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestRaceFirstErrorWins(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("fail")
	_, err := amb.Race(ctx,
		func(ctx context.Context) (int, error) { return 0, sentinel },
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 1, nil
		},
	)
	assert.ErrorIs(t, err, sentinel)
}

func TestRaceEmpty(t *testing.T) {
	val, err := amb.Race[int](context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, val)
}

func TestRaceContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := amb.Race(ctx,
		func(ctx context.Context) (int, error) {
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRaceNilTaskPanics(t *testing.T) {
	assert.PanicsWithValue(t, "amb: Race task[1] must not be nil", func() {
		amb.Race(context.Background(),
			func(ctx context.Context) (int, error) { return 1, nil },
			nil,
		)
	})
}

func TestRaceSingleTask(t *testing.T) {
	val, err := amb.Race(context.Background(),
		func(ctx context.Context) (int, error) { return 42, nil },
	)
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestRaceCancelsLosers(t *testing.T) {
	loserDone := make(chan error, 1)
	val, err := amb.Race(context.Background(),
		func(ctx context.Context) (int, error) {
			return 1, nil
		},
		func(ctx context.Context) (int, error) {
			select {
			case <-ctx.Done():
				loserDone <- ctx.Err()
				return 0, ctx.Err()
			case <-time.After(5 * time.Second):
				loserDone <- fmt.Errorf("timeout")
				return 0, fmt.Errorf("timeout")
			}
		},
	)
	require.NoError(t, err)
	assert.Equal(t, 1, val)

	select {
	case err := <-loserDone:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(awaitTimeout):
		t.Fatal("loser was not cancelled")
	}
}

func TestRaceLoserCancellationIsNotReported(t *testing.T) {
	undeliverable := captureUndeliverable(t)

	release := make(chan struct{})
	_, err := amb.Race(context.Background(),
		func(ctx context.Context) (int, error) {
			<-release
			return 1, nil
		},
		func(ctx context.Context) (int, error) {
			close(release)
			<-ctx.Done()
			return 0, ctx.Err()
		},
	)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, undeliverable())
}

package amb_test

import (
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/amb"
	"github.com/baxromumarov/amb/ambtest"
)

// assertSingleSequence checks that values is a prefix of exactly one
// source's emissions (src*1000 + i for i = 0, 1, ...) and returns it.
func assertSingleSequence(t *testing.T, values []int) int {
	t.Helper()
	if len(values) == 0 {
		return -1
	}
	src := values[0] / 1000
	for i, v := range values {
		require.Equal(t, src*1000+i, v, "value %d out of sequence", i)
	}
	return src
}

func TestAmbConcurrentFirstSignalStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	captureUndeliverable(t)

	const (
		rounds  = 300
		sources = 8
		items   = 20
	)

	for round := range rounds {
		ms, srcs := manualSources(sources)
		o := ambtest.NewObserver[int]()
		amb.Amb(srcs...).Subscribe(o)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for s, m := range ms {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				switch rand.IntN(3) {
				case 0:
					m.Complete()
					return
				case 1:
					m.Error(errors.New("first"))
					return
				}
				for i := range items {
					m.Next(s*1000 + i)
				}
				m.Complete()
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, 1, o.Terminals(), "round %d", round)
		winner := assertSingleSequence(t, o.Values())
		if winner >= 0 {
			assert.Len(t, o.Values(), items, "round %d", round)
		}

		disposed := 0
		for _, m := range ms {
			h := m.Handles()[0]
			require.LessOrEqual(t, h.DisposeCalls(), 1)
			disposed += h.DisposeCalls()
		}
		assert.Equal(t, sources-1, disposed, "round %d", round)
	}
}

func TestAmbConcurrentDisposeStress(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	captureUndeliverable(t)

	const (
		rounds  = 300
		sources = 4
		items   = 50
	)

	for round := range rounds {
		ms, srcs := manualSources(sources)
		o := ambtest.NewObserver[int]()
		amb.Amb(srcs...).Subscribe(o)

		start := make(chan struct{})
		var wg sync.WaitGroup
		for s, m := range ms {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				for i := range items {
					m.Next(s*1000 + i)
				}
				m.Complete()
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			o.Dispose()
		}()
		close(start)
		wg.Wait()

		assertSingleSequence(t, o.Values())
		assert.LessOrEqual(t, o.Terminals(), 1, "round %d", round)
		for _, m := range ms {
			assert.Equal(t, 1, m.Handles()[0].DisposeCalls(), "round %d", round)
		}
	}
}

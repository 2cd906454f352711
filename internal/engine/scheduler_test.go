package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/shopify-price-alerts/internal/history"
	notifyMocks "github.com/donaldgifford/shopify-price-alerts/internal/notify/mocks"
	shopifyMocks "github.com/donaldgifford/shopify-price-alerts/internal/shopify/mocks"
)

func newSchedulerTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngine(
		shopifyMocks.NewMockProductFetcher(t),
		history.NewMemoryStore(nil),
		notifyMocks.NewMockNotifier(t),
	)
}

func TestNewScheduler_RegistersCronEntry(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), 15*time.Minute, quietLogger())
	require.NoError(t, err)

	assert.Len(t, sched.Entries(), 1)
}

func TestNewScheduler_RejectsNonPositiveInterval(t *testing.T) {
	t.Parallel()

	for _, d := range []time.Duration{0, -time.Minute} {
		_, err := NewScheduler(newSchedulerTestEngine(t), d, quietLogger())
		require.Error(t, err)
	}
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), time.Hour, quietLogger())
	require.NoError(t, err)

	sched.Start()
	ctx := sched.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop in time")
	}
}

func TestScheduler_RunReconcile(t *testing.T) {
	t.Parallel()

	sched, err := NewScheduler(newSchedulerTestEngine(t), time.Hour, quietLogger())
	require.NoError(t, err)

	// Empty history: the run completes without touching the fetcher.
	sched.runReconcile()
}

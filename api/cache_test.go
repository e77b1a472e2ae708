package api_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Slayer-Regen/ecoquest-client/api"
	"github.com/stretchr/testify/require"
)

// counterQuery returns a query whose fetch counts calls and serves the
// current value of source.
func counterQuery(tag api.Tag, calls *atomic.Int64, source *atomic.Int64, delay time.Duration) api.Query {
	return api.Query{
		Endpoint: "/api/test",
		Tags:     []api.Tag{tag},
		Fetch: func(ctx context.Context) (any, error) {
			calls.Add(1)
			if delay > 0 {
				time.Sleep(delay)
			}
			return source.Load(), nil
		},
	}
}

func awaitSuccess(t *testing.T, sub *api.Subscription) api.Result {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case result := <-sub.Updates():
			if result.Status == api.StatusSuccess {
				return result
			}
		case <-deadline:
			t.Fatal("query never succeeded")
		}
	}
}

func TestCache_DeduplicatesInFlightRequests(t *testing.T) {
	var calls, source atomic.Int64
	source.Store(42)
	cache := api.NewCache()
	query := counterQuery(api.TagDashboard, &calls, &source, 50*time.Millisecond)

	var wg sync.WaitGroup
	results := make([]any, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data, err := cache.Get(context.Background(), query)
			require.NoError(t, err)
			results[i] = data
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, calls.Load(), "simultaneous subscribers must share one network call")
	require.Equal(t, results[0], results[1])
}

func TestCache_GetServesFreshEntryWithoutRefetch(t *testing.T) {
	var calls, source atomic.Int64
	source.Store(7)
	cache := api.NewCache()
	query := counterQuery(api.TagPoints, &calls, &source, 0)

	first, err := cache.Get(context.Background(), query)
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), query)
	require.NoError(t, err)

	require.EqualValues(t, 1, calls.Load())
	require.Equal(t, first, second)
}

func TestCache_InvalidateRefetchesSubscribedEntries(t *testing.T) {
	var calls, source atomic.Int64
	source.Store(1)
	cache := api.NewCache()
	query := counterQuery(api.TagActivity, &calls, &source, 0)

	sub := cache.Subscribe(context.Background(), query)
	defer sub.Close()
	result := awaitSuccess(t, sub)
	require.EqualValues(t, 1, result.Data)

	source.Store(2)
	cache.Invalidate(context.Background(), api.TagActivity)

	// Invalidate returns only after the refetch resolved.
	require.EqualValues(t, 2, sub.Current().Data)
	require.EqualValues(t, 2, calls.Load())
}

func TestCache_InvalidateLeavesUnsubscribedEntriesStale(t *testing.T) {
	var calls, source atomic.Int64
	source.Store(1)
	cache := api.NewCache()
	query := counterQuery(api.TagSummaries, &calls, &source, 0)

	_, err := cache.Get(context.Background(), query)
	require.NoError(t, err)
	require.EqualValues(t, 1, calls.Load())

	source.Store(2)
	cache.Invalidate(context.Background(), api.TagSummaries)
	require.EqualValues(t, 1, calls.Load(), "no subscriber, no eager refetch")

	// The next read sees the entry is stale and refetches.
	data, err := cache.Get(context.Background(), query)
	require.NoError(t, err)
	require.EqualValues(t, 2, data)
	require.EqualValues(t, 2, calls.Load())
}

func TestCache_InvalidateIgnoresUnrelatedTags(t *testing.T) {
	var calls, source atomic.Int64
	cache := api.NewCache()
	query := counterQuery(api.TagLeaderboard, &calls, &source, 0)

	sub := cache.Subscribe(context.Background(), query)
	defer sub.Close()
	awaitSuccess(t, sub)

	cache.Invalidate(context.Background(), api.TagPoints)
	require.EqualValues(t, 1, calls.Load())
}

func TestCache_StaleFetchCannotOverwriteRefetchedEntry(t *testing.T) {
	cache := api.NewCache()
	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})
	var calls atomic.Int64
	query := api.Query{
		Endpoint: "/api/test",
		Tags:     []api.Tag{api.TagPoints},
		Fetch: func(ctx context.Context) (any, error) {
			if calls.Add(1) == 1 {
				close(firstStarted)
				<-releaseFirst
				return 1, nil
			}
			return 2, nil
		},
	}

	sub := cache.Subscribe(context.Background(), query)
	defer sub.Close()
	<-firstStarted

	// The mutation lands while the original fetch is still in flight; its
	// refetch must settle on the post-mutation value.
	cache.Invalidate(context.Background(), api.TagPoints)
	require.EqualValues(t, 2, sub.Current().Data)

	// The original fetch completing afterwards must not revert the entry.
	close(releaseFirst)
	require.Never(t, func() bool {
		data, ok := sub.Current().Data.(int)
		return !ok || data != 2
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestCache_GetHoldsOffEvictionWhileRefetching(t *testing.T) {
	var calls, source atomic.Int64
	source.Store(5)
	cache := api.NewCache(api.WithRetention(15 * time.Millisecond))
	query := counterQuery(api.TagSummaries, &calls, &source, 60*time.Millisecond)

	// First read caches the value; with no subscriber, eviction is pending.
	_, err := cache.Get(context.Background(), query)
	require.NoError(t, err)
	cache.Invalidate(context.Background(), api.TagSummaries)

	// The refetch outlives the retention window; the entry must survive it.
	data, err := cache.Get(context.Background(), query)
	require.NoError(t, err)
	require.EqualValues(t, 5, data)

	_, err = cache.Get(context.Background(), query)
	require.NoError(t, err)
	require.EqualValues(t, 2, calls.Load(), "fresh entry must be served from cache")
}

func TestCache_ErrorResultSurfacesToAllSubscribers(t *testing.T) {
	cache := api.NewCache()
	query := api.Query{
		Endpoint: "/api/broken",
		Tags:     []api.Tag{api.TagAnalytics},
		Fetch: func(ctx context.Context) (any, error) {
			time.Sleep(20 * time.Millisecond)
			return nil, context.DeadlineExceeded
		},
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = cache.Get(context.Background(), query)
		}(i)
	}
	wg.Wait()

	require.ErrorIs(t, errs[0], context.DeadlineExceeded)
	require.ErrorIs(t, errs[1], context.DeadlineExceeded)
}

func TestCache_EntryEvictedAfterRetention(t *testing.T) {
	var calls, source atomic.Int64
	cache := api.NewCache(api.WithRetention(20 * time.Millisecond))
	query := counterQuery(api.TagUser, &calls, &source, 0)

	sub := cache.Subscribe(context.Background(), query)
	awaitSuccess(t, sub)
	sub.Close()

	require.Eventually(t, func() bool {
		return sub.Current().Status == api.StatusUninitiated
	}, time.Second, 10*time.Millisecond)
}

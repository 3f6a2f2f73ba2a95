package datacache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestQueryCachesValue(t *testing.T) {
	ctx := context.Background()
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var calls int32
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "v1", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.Query(ctx, key, fetch, StaticTags("Tasks"))
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if value != "v1" {
			t.Fatalf("query %d: got %v, want v1", i, value)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
}

func TestQueryDeduplicatesConcurrentFetches(t *testing.T) {
	ctx := context.Background()
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]interface{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, err := cache.Query(ctx, key, fetch, nil)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			results[i] = value
		}(i)
	}

	<-started
	// Give the rest of the workers time to join the in-flight fetch.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("fetch calls = %d, want 1", got)
	}
	for i, value := range results {
		if value != 42 {
			t.Fatalf("worker %d got %v, want 42", i, value)
		}
	}
}

func TestInvalidateMarksOnlyTaggedEntries(t *testing.T) {
	ctx := context.Background()
	cache := New()
	keyA := Key{Resource: "tasks", Params: "projectId=1"}
	keyB := Key{Resource: "tasks", Params: "projectId=2"}

	var callsA, callsB int32
	fetchA := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&callsA, 1), nil
	}
	fetchB := func(ctx context.Context) (interface{}, error) {
		return atomic.AddInt32(&callsB, 1), nil
	}

	if _, err := cache.Query(ctx, keyA, fetchA, StaticTags("Tasks", "Tasks:7")); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Query(ctx, keyB, fetchB, StaticTags("Tasks", "Tasks:9")); err != nil {
		t.Fatal(err)
	}

	cache.Invalidate("Tasks:7")

	if !cache.Stale(keyA) {
		t.Fatal("entry A should be stale after invalidation")
	}
	if cache.Stale(keyB) {
		t.Fatal("entry B carries a different item tag and must stay fresh")
	}

	if _, err := cache.Query(ctx, keyA, fetchA, StaticTags("Tasks", "Tasks:7")); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Query(ctx, keyB, fetchB, StaticTags("Tasks", "Tasks:9")); err != nil {
		t.Fatal(err)
	}

	if got := atomic.LoadInt32(&callsA); got != 2 {
		t.Fatalf("fetchA calls = %d, want 2 (initial + refetch)", got)
	}
	if got := atomic.LoadInt32(&callsB); got != 1 {
		t.Fatalf("fetchB calls = %d, want 1 (never invalidated)", got)
	}
}

func TestFailedRefetchKeepsPriorValue(t *testing.T) {
	ctx := context.Background()
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var fail atomic.Bool
	fetch := func(ctx context.Context) (interface{}, error) {
		if fail.Load() {
			return nil, errors.New("backend down")
		}
		return "good", nil
	}

	if _, err := cache.Query(ctx, key, fetch, StaticTags("Tasks")); err != nil {
		t.Fatal(err)
	}

	fail.Store(true)
	cache.Invalidate("Tasks")

	if _, err := cache.Query(ctx, key, fetch, StaticTags("Tasks")); err == nil {
		t.Fatal("expected refetch error")
	}
	if !cache.Stale(key) {
		t.Fatal("entry must stay stale after a failed refetch")
	}

	fail.Store(false)
	value, err := cache.Query(ctx, key, fetch, StaticTags("Tasks"))
	if err != nil {
		t.Fatal(err)
	}
	if value != "good" {
		t.Fatalf("got %v, want good", value)
	}
	if cache.Stale(key) {
		t.Fatal("entry must be fresh after a successful refetch")
	}
}

func TestInvalidateRefetchesSubscribedEntries(t *testing.T) {
	ctx := context.Background()
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var version int32
	fetch := func(ctx context.Context) (interface{}, error) {
		return int(atomic.AddInt32(&version, 1)), nil
	}

	ch, cancel := cache.Subscribe(key)
	defer cancel()

	if _, err := cache.Query(ctx, key, fetch, StaticTags("Tasks")); err != nil {
		t.Fatal(err)
	}
	waitForValue(t, ch, 1)

	cache.Invalidate("Tasks")
	waitForValue(t, ch, 2)

	// The background refetch already refreshed the entry, so the next read
	// is served from cache.
	value, err := cache.Query(ctx, key, fetch, StaticTags("Tasks"))
	if err != nil {
		t.Fatal(err)
	}
	if value != 2 {
		t.Fatalf("got %v, want 2", value)
	}
}

func TestSubscribeCancelStopsDelivery(t *testing.T) {
	ctx := context.Background()
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	fetch := func(ctx context.Context) (interface{}, error) {
		return "x", nil
	}

	ch, cancel := cache.Subscribe(key)
	cancel()

	if _, err := cache.Query(ctx, key, fetch, nil); err != nil {
		t.Fatal(err)
	}

	if _, open := <-ch; open {
		t.Fatal("channel must be closed after cancel")
	}
}

func TestAbandonedCallerDoesNotCancelSharedFetch(t *testing.T) {
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	fetchDone := make(chan error, 1)
	release := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		<-release
		fetchDone <- ctx.Err()
		return "late", nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := cache.Query(ctx, key, fetch, nil)
		errCh <- err
	}()

	// Abandon the caller while the fetch is blocked.
	time.Sleep(10 * time.Millisecond)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("caller error = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-fetchDone; err != nil {
		t.Fatalf("shared fetch saw cancellation: %v", err)
	}

	// The completed fetch populated the cache despite the abandonment.
	value, err := cache.Query(context.Background(), key, fetch, nil)
	if err != nil {
		t.Fatal(err)
	}
	if value != "late" {
		t.Fatalf("got %v, want late", value)
	}
}

func TestInvalidateDuringRefetchIsNotLost(t *testing.T) {
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var current atomic.Value
	current.Store("pre-mutation")

	var calls int32
	var block atomic.Bool
	gate := make(chan struct{})
	fetch := func(ctx context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		// Capture the value first so a blocked fetch delivers what the
		// backend held when the fetch began.
		value := current.Load()
		if block.Load() {
			<-gate
		}
		return value, nil
	}

	ctx := context.Background()
	if _, err := cache.Query(ctx, key, fetch, StaticTags("Tasks")); err != nil {
		t.Fatal(err)
	}

	cache.Invalidate("Tasks")
	block.Store(true)

	done := make(chan interface{}, 1)
	go func() {
		value, err := cache.Query(ctx, key, fetch, StaticTags("Tasks"))
		if err != nil {
			t.Errorf("query: %v", err)
		}
		done <- value
	}()

	// Wait for the refetch to be in flight with the old value captured.
	waitForCalls(t, &calls, 2)

	// The mutation commits and invalidates while the fetch is blocked.
	current.Store("post-mutation")
	cache.Invalidate("Tasks")

	block.Store(false)
	close(gate)

	if got := <-done; got != "post-mutation" {
		t.Fatalf("query during mid-flight invalidation returned %v, want post-mutation", got)
	}

	// The entry must be fresh with post-mutation data; no further fetch.
	before := atomic.LoadInt32(&calls)
	value, err := cache.Query(ctx, key, fetch, StaticTags("Tasks"))
	if err != nil {
		t.Fatal(err)
	}
	if value != "post-mutation" {
		t.Fatalf("cached value = %v, want post-mutation", value)
	}
	if got := atomic.LoadInt32(&calls); got != before {
		t.Fatalf("fetch calls grew from %d to %d on a fresh entry", before, got)
	}
}

func TestBroadcastReplacesUnreadValue(t *testing.T) {
	cache := New()
	key := Key{Resource: "tasks", Params: "projectId=1"}

	var version int32
	fetch := func(ctx context.Context) (interface{}, error) {
		return int(atomic.AddInt32(&version, 1)), nil
	}

	ch, cancel := cache.Subscribe(key)
	defer cancel()

	ctx := context.Background()
	if _, err := cache.Query(ctx, key, fetch, StaticTags("Tasks")); err != nil {
		t.Fatal(err)
	}

	// The subscriber has not drained value 1 when the next store lands.
	cache.Invalidate("Tasks")
	waitForFresh(t, cache, key)
	waitForCalls(t, &version, 2)

	select {
	case value := <-ch:
		if value != 2 {
			t.Fatalf("subscriber read %v, want the newest value 2", value)
		}
	default:
		t.Fatal("no broadcast buffered for the subscriber")
	}
}

func waitForCalls(t *testing.T, counter *int32, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(counter) < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d calls, have %d", want, atomic.LoadInt32(counter))
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForFresh(t *testing.T, cache *Cache, key Key) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for cache.Stale(key) {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for the entry to refresh")
		}
		time.Sleep(time.Millisecond)
	}
}

func waitForValue(t *testing.T, ch <-chan interface{}, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case value := <-ch:
			if value == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for value %d", want)
		}
	}
}

// Package datacache implements the client-side request cache: named entries
// carrying invalidation tags, de-duplicated fetches, and pull-based
// staleness. A mutation declares the tags it invalidates; every entry whose
// tag set intersects them is refetched on its next observation and the new
// value is broadcast to subscribers.
package datacache

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies a cached read: a resource name plus its serialized query
// parameters.
type Key struct {
	Resource string
	Params   string
}

func (k Key) String() string {
	return k.Resource + "?" + k.Params
}

// FetchFunc loads the value for a key from the backend.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Tagger derives the invalidation tags carried by a fetched value. Tags may
// depend on the result, e.g. one tag per task id in a fetched collection.
type Tagger func(value interface{}) []string

// StaticTags builds a Tagger that ignores the value.
func StaticTags(tags ...string) Tagger {
	return func(interface{}) []string {
		return tags
	}
}

var errNoFetch = errors.New("datacache: no fetch registered for key")

type entry struct {
	value  interface{}
	valid  bool
	stale  bool
	epoch  uint64
	tags   []string
	fetch  FetchFunc
	tagger Tagger

	subscribers map[int]chan interface{}
}

// Cache is an injectable request cache. Construct one per client session;
// there is no package-level instance.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	tagIndex map[string]map[Key]struct{}
	group    singleflight.Group
	nextSub  int
}

func New() *Cache {
	return &Cache{
		entries:  make(map[Key]*entry),
		tagIndex: make(map[string]map[Key]struct{}),
	}
}

// Query returns the cached value for key, fetching it when the entry is
// absent or stale. Concurrent callers with the same key share a single
// in-flight fetch. A caller whose context is cancelled abandons the wait
// without cancelling the shared fetch.
func (c *Cache) Query(ctx context.Context, key Key, fetch FetchFunc, tagger Tagger) (interface{}, error) {
	c.mu.Lock()
	e := c.ensure(key)
	e.fetch = fetch
	e.tagger = tagger
	if e.valid && !e.stale {
		value := e.value
		c.mu.Unlock()
		return value, nil
	}
	c.mu.Unlock()

	return c.refresh(ctx, key)
}

// Subscribe registers interest in a key. The returned channel receives every
// value stored for the key after a fetch; the cancel function unregisters
// without affecting fetches shared with other subscribers.
func (c *Cache) Subscribe(key Key) (<-chan interface{}, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(key)
	id := c.nextSub
	c.nextSub++
	ch := make(chan interface{}, 1)
	e.subscribers[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Invalidate marks every entry carrying one of the tags as stale. Entries
// with active subscribers are refetched in the background; the rest refetch
// lazily on their next observation.
func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	var refetch []Key
	seen := map[Key]struct{}{}
	for _, tag := range tags {
		for key := range c.tagIndex[tag] {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			e := c.entries[key]
			e.stale = true
			e.epoch++
			if len(e.subscribers) > 0 && e.fetch != nil {
				refetch = append(refetch, key)
			}
		}
	}
	c.mu.Unlock()

	// A fetch that started before this invalidation may still deliver
	// pre-mutation data; later observers must start a flight of their own.
	for key := range seen {
		c.group.Forget(key.String())
	}

	for _, key := range refetch {
		go func(key Key) {
			// Background refetch; failure leaves the entry stale and
			// the prior value in place.
			_, _ = c.refresh(context.Background(), key)
		}(key)
	}
}

// Stale reports whether the entry for key exists and is marked stale.
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.stale
}

// refresh performs the de-duplicated fetch for key and stores the result.
// It retries until it observes a value fetched after the latest invalidation
// of the entry, so a caller never leaves with data older than a mutation it
// could have seen.
func (c *Cache) refresh(ctx context.Context, key Key) (interface{}, error) {
	for {
		c.mu.Lock()
		e := c.ensure(key)
		if e.valid && !e.stale {
			value := e.value
			c.mu.Unlock()
			return value, nil
		}
		c.mu.Unlock()

		ch := c.group.DoChan(key.String(), func() (interface{}, error) {
			c.mu.Lock()
			e := c.ensure(key)
			fetch := e.fetch
			epoch := e.epoch
			c.mu.Unlock()
			if fetch == nil {
				return nil, errNoFetch
			}

			// The fetch outlives any single caller: detach it from the
			// first caller's cancellation.
			value, err := fetch(context.WithoutCancel(ctx))
			if err != nil {
				return nil, err
			}
			c.store(key, value, epoch)
			return value, nil
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				return nil, res.Err
			}
			// Return the stored value, not the flight's: when an
			// invalidation landed mid-flight the flight's result was
			// discarded and the entry is still stale, so go around.
			c.mu.Lock()
			e := c.entries[key]
			if e.valid && !e.stale {
				value := e.value
				c.mu.Unlock()
				return value, nil
			}
			c.mu.Unlock()
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// store replaces the entry's value, reindexes its tags and notifies
// subscribers. A result from a fetch that began before the entry's latest
// invalidation is discarded: the entry stays stale and nothing is broadcast.
func (c *Cache) store(key Key, value interface{}, epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(key)
	if e.epoch != epoch {
		return
	}
	for _, tag := range e.tags {
		delete(c.tagIndex[tag], key)
	}

	e.value = value
	e.valid = true
	e.stale = false
	e.tags = nil
	if e.tagger != nil {
		e.tags = e.tagger(value)
	}
	for _, tag := range e.tags {
		keys, ok := c.tagIndex[tag]
		if !ok {
			keys = make(map[Key]struct{})
			c.tagIndex[tag] = keys
		}
		keys[key] = struct{}{}
	}

	for _, ch := range e.subscribers {
		select {
		case ch <- value:
		default:
			// The subscriber has an unread older value; replace it so
			// the channel always holds the newest.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}

// ensure returns the entry for key, creating it if needed. Caller holds mu.
func (c *Cache) ensure(key Key) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{subscribers: make(map[int]chan interface{})}
		c.entries[key] = e
	}
	return e
}

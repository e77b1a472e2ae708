package api

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Tag labels cached query results. Mutations declare the tags they
// invalidate; every cached entry whose tag set intersects them is marked
// stale and, while subscribed, refetched.
type Tag string

const (
	TagUser        Tag = "User"
	TagActivity    Tag = "Activity"
	TagDashboard   Tag = "Dashboard"
	TagPoints      Tag = "Points"
	TagLeaderboard Tag = "Leaderboard"
	TagAnalytics   Tag = "Analytics"
	TagSummaries   Tag = "Summaries"
)

type Status int

const (
	StatusUninitiated Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Result is the observable state of a cached query.
type Result struct {
	Status Status
	Data   any
	Err    error
}

// Query describes one cacheable fetch: the endpoint plus serialized
// parameters form the cache key, Tags declare what the result provides, and
// Fetch performs the network call.
type Query struct {
	Endpoint string
	Params   url.Values
	Tags     []Tag
	Fetch    func(ctx context.Context) (any, error)
}

// Key is the cache identity: endpoint plus canonically encoded params.
func (q Query) Key() string {
	if len(q.Params) == 0 {
		return q.Endpoint
	}
	return q.Endpoint + "?" + q.Params.Encode()
}

const defaultRetention = 60 * time.Second

type cacheEntry struct {
	query  Query
	status Status
	data   any
	err    error
	stale  bool
	gen    uint64
	subs   map[int]chan Result
	evict  *time.Timer
}

// Cache deduplicates in-flight requests per key, retains the last
// successful payload, and refetches invalidated entries that still have
// subscribers. It never retries on its own: a failed entry stays failed
// until a new subscription or an invalidation forces a refetch.
type Cache struct {
	retention time.Duration

	lock    sync.Mutex
	entries map[string]*cacheEntry
	byTag   map[Tag]map[string]struct{}
	flight  singleflight.Group
	nextSub int
}

type CacheOption func(*Cache)

// WithRetention sets how long an entry outlives its last subscriber.
func WithRetention(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.retention = d
	}
}

func NewCache(options ...CacheOption) *Cache {
	cache := &Cache{
		retention: defaultRetention,
		entries:   make(map[string]*cacheEntry),
		byTag:     make(map[Tag]map[string]struct{}),
	}
	for _, opt := range options {
		opt(cache)
	}
	return cache
}

// Subscription observes one cache key. Updates carries every state change
// until Close; Current returns the state at any moment.
type Subscription struct {
	cache *Cache
	key   string
	id    int
	ch    chan Result

	closeOnce sync.Once
}

func (s *Subscription) Updates() <-chan Result {
	return s.ch
}

func (s *Subscription) Current() Result {
	s.cache.lock.Lock()
	defer s.cache.lock.Unlock()
	entry, ok := s.cache.entries[s.key]
	if !ok {
		return Result{Status: StatusUninitiated}
	}
	return entry.result()
}

// Close detaches the subscriber. The entry survives for the retention
// window in case something resubscribes, then is destroyed.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.cache.lock.Lock()
		defer s.cache.lock.Unlock()
		entry, ok := s.cache.entries[s.key]
		if !ok {
			return
		}
		delete(entry.subs, s.id)
		if len(entry.subs) == 0 {
			s.cache.scheduleEvictionLocked(s.key, entry)
		}
	})
}

// Subscribe attaches to the key, fetching if the entry is new or stale.
// Concurrent subscribers to the same key share a single network call.
func (c *Cache) Subscribe(ctx context.Context, q Query) *Subscription {
	key := q.Key()

	c.lock.Lock()
	entry := c.ensureLocked(q)
	if entry.evict != nil {
		entry.evict.Stop()
		entry.evict = nil
	}
	id := c.nextSub
	c.nextSub++
	ch := make(chan Result, 8)
	entry.subs[id] = ch
	needFetch := entry.status == StatusUninitiated || entry.stale
	c.lock.Unlock()

	if needFetch {
		go c.refresh(ctx, q)
	}
	return &Subscription{cache: c, key: key, id: id, ch: ch}
}

// Get returns the cached value when fresh, otherwise performs a (deduped)
// fetch and returns its outcome. It holds no subscription.
func (c *Cache) Get(ctx context.Context, q Query) (any, error) {
	c.lock.Lock()
	entry := c.ensureLocked(q)
	if entry.status == StatusSuccess && !entry.stale {
		data := entry.data
		c.lock.Unlock()
		return data, nil
	}
	// Hold off a pending eviction until the fetch commits.
	if entry.evict != nil {
		entry.evict.Stop()
		entry.evict = nil
	}
	c.lock.Unlock()

	result := c.refresh(ctx, q)
	return result.Data, result.Err
}

// Invalidate marks every entry tagged with any of tags stale and refetches
// the ones with live subscribers. It returns only after those refetches
// resolve, so a mutation is not "settled" until dependent reads observe
// the post-mutation server state.
func (c *Cache) Invalidate(ctx context.Context, tags ...Tag) {
	c.lock.Lock()
	refetch := make([]Query, 0)
	seen := make(map[string]struct{})
	for _, tag := range tags {
		for key := range c.byTag[tag] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			entry, ok := c.entries[key]
			if !ok {
				continue
			}
			entry.stale = true
			// Bumping the generation expires any fetch already in flight;
			// its completion must not commit pre-mutation data.
			entry.gen++
			if len(entry.subs) > 0 {
				refetch = append(refetch, entry.query)
			}
		}
	}
	c.lock.Unlock()

	var wg sync.WaitGroup
	for _, q := range refetch {
		// A fetch that started before the mutation must not satisfy the
		// refetch; it would hand back pre-mutation data.
		c.flight.Forget(q.Key())
		wg.Add(1)
		go func(q Query) {
			defer wg.Done()
			c.refresh(ctx, q)
		}(q)
	}
	wg.Wait()
}

// refresh performs the query's fetch, deduplicated per key, and broadcasts
// the outcome to subscribers. The entry is re-created when eviction removed
// it between the caller's check and the flight running.
func (c *Cache) refresh(ctx context.Context, q Query) Result {
	key := q.Key()
	data, err, _ := c.flight.Do(key, func() (any, error) {
		c.lock.Lock()
		entry := c.ensureLocked(q)
		startGen := entry.gen
		fetch := entry.query.Fetch
		entry.status = StatusLoading
		c.broadcastLocked(entry)
		c.lock.Unlock()

		fetched, fetchErr := fetch(ctx)

		c.lock.Lock()
		entry, ok := c.entries[key]
		if ok {
			// A completion from before the latest invalidation carries
			// pre-mutation data; committing it would undo the refetch.
			if entry.gen == startGen {
				if fetchErr != nil {
					entry.status = StatusError
					entry.err = fetchErr
					log.Debug().Str("key", key).Err(fetchErr).Msg("Query fetch failed")
				} else {
					entry.status = StatusSuccess
					entry.data = fetched
					entry.err = nil
					entry.stale = false
				}
				c.broadcastLocked(entry)
			}
			if len(entry.subs) == 0 {
				c.scheduleEvictionLocked(key, entry)
			}
		}
		c.lock.Unlock()
		return fetched, fetchErr
	})

	if err != nil {
		return Result{Status: StatusError, Err: err}
	}
	return Result{Status: StatusSuccess, Data: data}
}

func (c *Cache) ensureLocked(q Query) *cacheEntry {
	key := q.Key()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{
			query:  q,
			status: StatusUninitiated,
			subs:   make(map[int]chan Result),
		}
		c.entries[key] = entry
		for _, tag := range q.Tags {
			keys, ok := c.byTag[tag]
			if !ok {
				keys = make(map[string]struct{})
				c.byTag[tag] = keys
			}
			keys[key] = struct{}{}
		}
	} else {
		// Latest fetch closure wins; key identity guarantees the same
		// endpoint and params.
		entry.query = q
	}
	return entry
}

func (c *Cache) scheduleEvictionLocked(key string, entry *cacheEntry) {
	if entry.evict != nil {
		entry.evict.Stop()
	}
	entry.evict = time.AfterFunc(c.retention, func() {
		c.lock.Lock()
		defer c.lock.Unlock()
		current, ok := c.entries[key]
		if !ok || len(current.subs) > 0 {
			return
		}
		delete(c.entries, key)
		for _, tag := range current.query.Tags {
			delete(c.byTag[tag], key)
		}
	})
}

func (c *Cache) broadcastLocked(entry *cacheEntry) {
	result := entry.result()
	for _, ch := range entry.subs {
		select {
		case ch <- result:
		default:
			// Drop the oldest pending update rather than block.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- result:
			default:
			}
		}
	}
}

func (e *cacheEntry) result() Result {
	return Result{Status: e.status, Data: e.data, Err: e.err}
}

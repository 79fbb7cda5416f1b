package download

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/handiism/fomu/internal/cache"
	"github.com/handiism/fomu/internal/catalog"
	"github.com/handiism/fomu/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a download progress update.
type ProgressEvent struct {
	TrackID string
	Message string
	Level   ProgressLevel
}

// Fetcher downloads a URL into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string, onProgress func(written, total int64)) ([]byte, error)
}

// PrepareFunc runs on a downloaded file before it is moved into the cache.
type PrepareFunc func(track *model.Track, tmpPath string) error

// Progress describes the download currently in flight.
type Progress struct {
	TrackID  string
	Received int64
	Total    int64 // -1 when unknown
	Active   bool
}

// Fraction returns Received/Total, or 0 when the total is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Received) / float64(p.Total)
}

type item struct {
	id        string
	failures  int
	notBefore time.Time
}

// Coordinator schedules background downloads into a cache.Store.
//
// It is the only writer of the Downloading, Ready and Failed statuses.
type Coordinator struct {
	store   *cache.Store
	catalog *catalog.Catalog
	fetcher Fetcher

	prepare     PrepareFunc
	backoff     []time.Duration
	workers     int
	interval    time.Duration
	maxAttempts int
	logger      zerolog.Logger
	onProgress  func(ProgressEvent)
	now         func() time.Time

	mu       sync.Mutex
	queue    []*item
	urgent   map[string]bool
	inFlight map[string]*item
	active   map[string]*Progress
	wake     chan struct{}
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithWorkers sets how many downloads may run at once. Default 1.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithBackoff replaces the retry delay table.
func WithBackoff(table []time.Duration) Option {
	return func(c *Coordinator) {
		if len(table) > 0 {
			c.backoff = slices.Clone(table)
		}
	}
}

// WithInterval sets the minimum time between the start of two downloads.
// Zero disables pacing.
func WithInterval(d time.Duration) Option {
	return func(c *Coordinator) {
		c.interval = d
	}
}

// WithMaxAttempts drops a track from the queue after n failed attempts.
// The default, 0, retries forever.
func WithMaxAttempts(n int) Option {
	return func(c *Coordinator) {
		c.maxAttempts = n
	}
}

// WithPrepare sets the hook run on each downloaded file before it is moved
// into place. Errors are reported as warnings and do not fail the download.
func WithPrepare(fn PrepareFunc) Option {
	return func(c *Coordinator) {
		c.prepare = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithClock replaces time.Now for retry scheduling.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// WithProgress sets a callback receiving human-readable progress events.
func WithProgress(fn func(ProgressEvent)) Option {
	return func(c *Coordinator) {
		c.onProgress = fn
	}
}

// New creates a Coordinator. Call Seed to fill the queue and Run to start it.
func New(store *cache.Store, c *catalog.Catalog, fetcher Fetcher, opts ...Option) *Coordinator {
	coord := &Coordinator{
		store:    store,
		catalog:  c,
		fetcher:  fetcher,
		backoff:  DefaultBackoff(),
		workers:  1,
		interval: 100 * time.Millisecond,
		logger:   zerolog.Nop(),
		now:      time.Now,
		urgent:   make(map[string]bool),
		inFlight: make(map[string]*item),
		active:   make(map[string]*Progress),
		wake:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(coord)
	}
	return coord
}

// Seed queues every id that is not Ready and not already queued, in the
// order given. first, if set, goes to the front.
func (c *Coordinator) Seed(ids []string, first string) {
	c.mu.Lock()
	for _, id := range ids {
		if c.store.Has(id) || c.indexOf(id) >= 0 || c.inFlight[id] != nil {
			continue
		}
		if _, err := c.catalog.Track(id); err != nil {
			c.logger.Warn().Str("track", id).Msg("Skipping unknown track")
			continue
		}
		c.queue = append(c.queue, &item{id: id})
	}
	c.mu.Unlock()

	if first != "" {
		c.Expedite(first)
	}
	c.signal()
}

// Expedite moves a Missing or Failed track to the front of the queue and
// clears its retry delay. Ready and in-flight tracks are ignored.
func (c *Coordinator) Expedite(id string) {
	if _, err := c.catalog.Track(id); err != nil {
		return
	}

	c.mu.Lock()
	// download marks a track Ready before it leaves inFlight.
	if c.inFlight[id] != nil || c.store.Has(id) {
		c.mu.Unlock()
		return
	}

	it := &item{id: id}
	if i := c.indexOf(id); i >= 0 {
		it = c.queue[i]
		c.queue = slices.Delete(c.queue, i, i+1)
	}
	it.failures = 0
	it.notBefore = time.Time{}
	c.queue = slices.Insert(c.queue, 0, it)
	c.urgent[id] = true
	c.mu.Unlock()

	c.logger.Debug().Str("track", id).Msg("Expedited")
	c.signal()
}

// Prioritize moves the queued ids ahead of everything except expedited
// tracks. Relative queue order is preserved within each group.
func (c *Coordinator) Prioritize(ids []string) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	c.mu.Lock()
	head := make([]*item, 0, len(c.queue))
	var mid, tail []*item
	for _, it := range c.queue {
		switch {
		case c.urgent[it.id]:
			head = append(head, it)
		case want[it.id]:
			mid = append(mid, it)
		default:
			tail = append(tail, it)
		}
	}
	c.queue = append(append(head, mid...), tail...)
	c.mu.Unlock()

	c.signal()
}

// Queued returns the queued track ids in order.
func (c *Coordinator) Queued() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, len(c.queue))
	for i, it := range c.queue {
		ids[i] = it.id
	}
	return ids
}

// Pending returns how many tracks are queued or downloading.
func (c *Coordinator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) + len(c.inFlight)
}

// Progress returns the state of an in-flight download. With several
// workers the first one in catalog order is reported.
func (c *Coordinator) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.active) == 0 {
		return Progress{}
	}
	for _, id := range c.catalog.IDs() {
		if p, ok := c.active[id]; ok {
			return *p
		}
	}
	return Progress{}
}

// Run downloads queued tracks until the queue is empty or ctx is cancelled.
// Download failures are never returned; they are retried.
func (c *Coordinator) Run(ctx context.Context) error {
	sem := semaphore.NewWeighted(int64(c.workers))
	limiter := rate.NewLimiter(rate.Inf, 1)
	if c.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(c.interval), 1)
	}

	var g errgroup.Group
	c.logger.Info().Int("pending", c.Pending()).Int("workers", c.workers).Msg("Downloader started")

	for {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			sem.Release(1)
			break
		}

		it, wait, done := c.next()
		if done {
			sem.Release(1)
			break
		}
		if it == nil {
			sem.Release(1)
			if !c.sleep(ctx, wait) {
				break
			}
			continue
		}

		g.Go(func() error {
			defer sem.Release(1)
			c.download(ctx, it)
			return nil
		})
	}

	_ = g.Wait()
	c.logger.Info().Int("ready", c.store.ReadyCount()).Msg("Downloader stopped")
	return nil
}

// next pops the first item whose delay has elapsed. When none is due it
// returns how long until the soonest one is (-1 for "until woken"). done is
// set when nothing is queued or in flight.
func (c *Coordinator) next() (it *item, wait time.Duration, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return nil, -1, len(c.inFlight) == 0
	}

	now := c.now()
	wait = -1
	for i, candidate := range c.queue {
		if c.store.Has(candidate.id) {
			continue
		}
		if !candidate.notBefore.After(now) {
			c.queue = slices.Delete(c.queue, i, i+1)
			delete(c.urgent, candidate.id)
			c.inFlight[candidate.id] = candidate
			return candidate, 0, false
		}
		if d := candidate.notBefore.Sub(now); wait < 0 || d < wait {
			wait = d
		}
	}

	// Everything left is already Ready.
	c.queue = slices.DeleteFunc(c.queue, func(it *item) bool { return c.store.Has(it.id) })
	return nil, wait, len(c.queue) == 0 && len(c.inFlight) == 0
}

func (c *Coordinator) sleep(ctx context.Context, wait time.Duration) bool {
	var timer <-chan time.Time
	if wait >= 0 {
		t := time.NewTimer(wait)
		defer t.Stop()
		timer = t.C
	}

	select {
	case <-ctx.Done():
		return false
	case <-c.wake:
		return true
	case <-timer:
		return true
	}
}

func (c *Coordinator) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *Coordinator) indexOf(id string) int {
	return slices.IndexFunc(c.queue, func(it *item) bool { return it.id == id })
}

func (c *Coordinator) download(ctx context.Context, it *item) {
	log := c.logger.With().Str("track", it.id).Logger()

	track, err := c.catalog.Track(it.id)
	if err != nil {
		c.finish(it)
		return
	}
	if err := c.store.MarkDownloading(it.id); err != nil {
		log.Warn().Err(err).Msg("Cannot start download")
		c.finish(it)
		return
	}

	c.setProgress(it.id, 0, -1)
	c.progress(ProgressEvent{TrackID: it.id, Message: fmt.Sprintf("Downloading %s", track.Title), Level: LevelVerbose})
	log.Debug().Int("attempt", it.failures+1).Str("url", track.SourceURL).Msg("Downloading")

	data, err := c.fetcher.Fetch(ctx, track.SourceURL, func(written, total int64) {
		c.setProgress(it.id, written, total)
	})
	var path string
	if err == nil {
		path, err = c.store.WriteAtomic(ctx, it.id, data, func(tmpPath string) error {
			if c.prepare == nil {
				return nil
			}
			if err := c.prepare(track, tmpPath); err != nil {
				log.Warn().Err(err).Msg("Prepare failed")
				c.progress(ProgressEvent{TrackID: it.id, Message: fmt.Sprintf("Error tagging %s: %v", track.Title, err), Level: LevelWarning})
			}
			return nil
		})
	}

	if err != nil && ctx.Err() != nil {
		if err := c.store.MarkMissing(it.id); err != nil {
			log.Warn().Err(err).Msg("Cannot revert cancelled download")
		}
		c.requeueFront(it)
		return
	}

	if err != nil {
		c.fail(it, track, err)
		return
	}

	if err := c.store.MarkReady(it.id, path); err != nil {
		log.Error().Err(err).Msg("Cannot mark track ready")
	}
	c.finish(it)
	log.Info().Int("bytes", len(data)).Msg("Downloaded")
	c.progress(ProgressEvent{TrackID: it.id, Message: fmt.Sprintf("Downloaded: %s", track.FileName), Level: LevelSuccess})
}

func (c *Coordinator) fail(it *item, track *model.Track, err error) {
	log := c.logger.With().Str("track", it.id).Logger()
	if markErr := c.store.MarkFailed(it.id); markErr != nil {
		log.Warn().Err(markErr).Msg("Cannot mark track failed")
	}

	c.mu.Lock()
	delete(c.inFlight, it.id)
	delete(c.active, it.id)
	it.failures++
	if c.maxAttempts > 0 && it.failures >= c.maxAttempts {
		c.mu.Unlock()
		log.Error().Err(err).Int("attempts", it.failures).Msg("Giving up")
		c.progress(ProgressEvent{TrackID: it.id, Message: fmt.Sprintf("Error downloading %s: %v", track.Title, err), Level: LevelError})
		c.signal()
		return
	}
	delay := backoffFor(c.backoff, it.failures)
	it.notBefore = c.now().Add(delay)
	c.queue = append(c.queue, it)
	c.mu.Unlock()

	log.Warn().Err(err).Int("attempt", it.failures).Dur("retry_in", delay).Msg("Download failed")
	c.progress(ProgressEvent{
		TrackID: it.id,
		Message: fmt.Sprintf("Retry %d for %s in %s: %v", it.failures, track.Title, delay, err),
		Level:   LevelWarning,
	})
	c.signal()
}

func (c *Coordinator) requeueFront(it *item) {
	c.mu.Lock()
	delete(c.inFlight, it.id)
	delete(c.active, it.id)
	c.queue = slices.Insert(c.queue, 0, it)
	c.mu.Unlock()
}

func (c *Coordinator) finish(it *item) {
	c.mu.Lock()
	delete(c.inFlight, it.id)
	delete(c.active, it.id)
	c.mu.Unlock()
	c.signal()
}

func (c *Coordinator) setProgress(id string, received, total int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inFlight[id]; !ok {
		return
	}
	c.active[id] = &Progress{TrackID: id, Received: received, Total: total, Active: true}
}

func (c *Coordinator) progress(event ProgressEvent) {
	if c.onProgress != nil {
		c.onProgress(event)
	}
}

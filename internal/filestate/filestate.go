// Package filestate maintains a client-side view of a watched tree from a
// stream of query results, implementing the fresh-instance contract: a
// fresh-instance result replaces the whole view, an incremental result merges
// into it. Getting that wrong does not crash anything, it just silently
// diverges the client from the server, which is why the handling lives here
// instead of at every call site.
package filestate

import (
	"errors"
	"sync"

	"github.com/watchwire/watchwire/internal/wirepdu"
)

var (
	// ErrCanceled is returned by Apply once the subscription feeding the
	// baseline has been canceled. The baseline keeps its last contents.
	ErrCanceled = errors.New("filestate: subscription canceled")

	// ErrServerError is returned when a result carries a server-reported
	// error instead of files.
	ErrServerError = errors.New("filestate: server error")
)

// Entry is one tracked file. Records used with a Baseline expose their wire
// name and their exists flag; wirepdu.FileRecord implements it.
type Entry interface {
	EntryName() string
	EntryExists() bool
}

// Baseline is the retained file-state view for one root (or one
// subscription). It is the one piece of durable client state the protocol
// requires: the entries plus the clock to thread into the next since-query.
//
// A Baseline is safe for concurrent reads, but results must be applied from
// a single goroutine in stream order; the protocol only orders results
// within one request/response session or one subscription.
type Baseline[F Entry] struct {
	mu       sync.RWMutex
	files    map[string]F
	clock    *wirepdu.Clock
	synced   bool
	canceled bool
}

func NewBaseline[F Entry]() *Baseline[F] {
	return &Baseline[F]{
		files: make(map[string]F),
	}
}

// Apply folds one result into the baseline.
//
// Fresh-instance results discard every retained entry and rebuild from the
// result's files, whether or not the baseline was previously synced; the
// server sends one whenever it cannot produce a delta (first query against
// the null clock, server restart, expired history). Incremental results
// upsert entries that exist and drop entries reported as no longer existing.
// State transition pushes carry no files and only advance the clock.
func (b *Baseline[F]) Apply(res *wirepdu.QueryResult[F]) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.canceled {
		return ErrCanceled
	}
	if res.Error != "" {
		return errors.Join(ErrServerError, res.Err())
	}
	if res.SubscriptionCanceled {
		b.canceled = true
		return nil
	}

	if res.IsFreshInstance {
		b.files = make(map[string]F, len(res.Files))
		for _, f := range res.Files {
			if f.EntryExists() {
				b.files[f.EntryName()] = f
			}
		}
		b.synced = true
	} else {
		for _, f := range res.Files {
			if f.EntryExists() {
				b.files[f.EntryName()] = f
			} else {
				delete(b.files, f.EntryName())
			}
		}
	}

	if res.Clock != nil {
		c := *res.Clock
		b.clock = &c
	}
	return nil
}

// Since is the clock to put in the next since-query, or nil before the first
// result with a clock. The caller owns persisting it across restarts if
// continuity is needed.
func (b *Baseline[F]) Since() *wirepdu.Clock {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.clock == nil {
		return nil
	}
	c := *b.clock
	return &c
}

// Synced reports whether a fresh-instance result has established the view.
func (b *Baseline[F]) Synced() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.synced
}

// Canceled reports whether the feeding subscription has terminated.
func (b *Baseline[F]) Canceled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.canceled
}

// Len is the number of tracked files.
func (b *Baseline[F]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.files)
}

// Get returns the tracked entry for name.
func (b *Baseline[F]) Get(name string) (F, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.files[name]
	return f, ok
}

// Names returns the tracked file names, in no particular order.
func (b *Baseline[F]) Names() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	return names
}

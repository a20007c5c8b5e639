package storage

import (
	"sync"
	"time"

	"taskman/internal/logging"
	"taskman/internal/store"
)

// Op names the persistence operation a notification reports on.
type Op string

const (
	OpSave Op = "save"
	OpLoad Op = "load"
)

// Notification is the completion report for a background persistence unit.
// It is the only channel through which async callers observe outcomes;
// failures arrive here too, never a synchronous return.
type Notification struct {
	Op         Op
	Path       string
	Saved      int
	Loaded     int
	Skipped    int
	Malformed  []MalformedLine
	FreshStart bool
	Err        error
}

// NotifyFunc receives completion notifications. It may be called from a
// background goroutine.
type NotifyFunc func(Notification)

// DefaultSettleDelay is the pause between finishing file I/O and emitting
// the completion notification.
const DefaultSettleDelay = 1 * time.Second

// Async runs save and load off the interactive path. It holds a reference
// to the task store but does not own it; the store's own lock keeps
// concurrent foreground mutation structurally safe, though a save racing an
// add may capture either the pre-add or post-add snapshot.
//
// Overlapping requests are serialized: each background unit waits for the
// previous one to finish before touching the file, so back-to-back saves
// and loads run in the order they were requested instead of interleaving
// file writes.
type Async struct {
	service     *Service
	store       *store.TaskStore
	notify      NotifyFunc
	settleDelay time.Duration

	mu   sync.Mutex
	tail chan struct{}
	wg   sync.WaitGroup
}

// NewAsync creates an async wrapper around the persistence service. A nil
// notify sink falls back to the debug log.
func NewAsync(service *Service, taskStore *store.TaskStore, notify NotifyFunc, settleDelay time.Duration) *Async {
	if notify == nil {
		notify = func(n Notification) {
			logging.Debugf("persistence %s %s finished: err=%v\n", n.Op, n.Path, n.Err)
		}
	}
	return &Async{
		service:     service,
		store:       taskStore,
		notify:      notify,
		settleDelay: settleDelay,
	}
}

// SaveAsync schedules a save of the store's current tasks and returns
// immediately. The snapshot is taken when the background unit runs, not at
// call time.
func (a *Async) SaveAsync(path string) {
	a.enqueue(func() {
		tasks := a.store.All()
		err := a.service.Save(path, tasks)

		a.settle()
		a.notify(Notification{Op: OpSave, Path: path, Saved: len(tasks), Err: err})
	})
}

// LoadAsync schedules a load from path and returns immediately. Loaded
// tasks become visible in the store only once the background unit has
// appended them.
func (a *Async) LoadAsync(path string) {
	a.enqueue(func() {
		result, err := a.service.LoadInto(path, a.store)

		n := Notification{Op: OpLoad, Path: path, Err: err}
		if result != nil {
			n.Loaded = len(result.Records)
			n.Skipped = len(result.Malformed)
			n.Malformed = result.Malformed
			n.FreshStart = result.FreshStart
		}
		a.settle()
		a.notify(n)
	})
}

// enqueue starts one background unit that runs after the previously
// enqueued unit has finished. Ordering is fixed at call time.
func (a *Async) enqueue(run func()) {
	a.mu.Lock()
	prev := a.tail
	done := make(chan struct{})
	a.tail = done
	a.mu.Unlock()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		run()
	}()
}

// Wait blocks until every background unit started so far has finished.
// The interactive shell calls this before exiting so an in-flight save is
// not cut off mid-write.
func (a *Async) Wait() {
	a.wg.Wait()
}

func (a *Async) settle() {
	if a.settleDelay > 0 {
		time.Sleep(a.settleDelay)
	}
}

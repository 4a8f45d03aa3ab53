package property

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrLoadFailed is the sticky error a View exposes after its
// subscription fails. The underlying cause is logged, not surfaced.
var ErrLoadFailed = errors.New("property: failed to load properties")

// Source is anything that can open a live snapshot stream for a
// filter.
type Source interface {
	Watch(ctx context.Context, f Filter) *Subscription
}

// View is the reactive projection the UI consumes: a filtered listing
// slice plus loading and error state. Changing the filter replaces the
// underlying subscription; at most one subscription is live per View.
//
// A failed subscription leaves the View in a sticky error state. There
// is no automatic retry; callers recover by setting a filter on a
// fresh View.
type View struct {
	source Source

	// lifecycle serializes SetFilter and Close against each other;
	// mu guards the exposed fields.
	lifecycle sync.Mutex

	mu         sync.Mutex
	filter     Filter
	hasFilter  bool
	properties []Property
	loading    bool
	err        error

	stop func() // tears down the active subscription consumer
}

// NewView builds an empty View over the given source. No subscription
// exists until the first SetFilter call.
func NewView(source Source) *View {
	return &View{source: source}
}

// SetFilter points the View at a new filter specification. A filter
// value-equal to the current one is a no-op. Otherwise the previous
// subscription is torn down synchronously and a new one is
// established; ctx bounds the lifetime of the new subscription.
func (v *View) SetFilter(ctx context.Context, f Filter) {
	v.lifecycle.Lock()
	defer v.lifecycle.Unlock()

	v.mu.Lock()
	if v.hasFilter && v.filter.Equal(f) && v.stop != nil {
		v.mu.Unlock()
		return
	}
	stop := v.stop
	v.mu.Unlock()

	if stop != nil {
		stop()
	}

	sub := v.source.Watch(ctx, f)
	done := make(chan struct{})

	v.mu.Lock()
	v.filter = f
	v.hasFilter = true
	v.properties = nil
	v.loading = true
	v.err = nil
	v.stop = func() {
		sub.Close()
		<-done
	}
	v.mu.Unlock()

	go v.consume(sub, f, done)
}

// consume folds subscription snapshots into the exposed fields until
// the stream ends. done is closed before the last field mutation can
// be observed by a waiting stop func.
func (v *View) consume(sub *Subscription, f Filter, done chan struct{}) {
	defer close(done)

	for list := range sub.Updates() {
		filtered := f.ApplyPriceBounds(list)
		v.mu.Lock()
		v.properties = filtered
		v.loading = false
		v.err = nil
		v.mu.Unlock()
	}

	if cause := sub.Err(); cause != nil {
		log.Printf("property: view subscription failed: %v", cause)
		v.mu.Lock()
		v.loading = false
		v.err = ErrLoadFailed
		v.mu.Unlock()
	}
}

// Properties returns the current filtered listing set, newest first.
func (v *View) Properties() []Property {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.properties
}

// Loading reports whether the first snapshot (or first error) is still
// pending.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns ErrLoadFailed while the View is in its sticky error
// state, nil otherwise.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Close tears down the active subscription. It returns only after no
// further field mutation can be observed.
func (v *View) Close() {
	v.lifecycle.Lock()
	defer v.lifecycle.Unlock()

	v.mu.Lock()
	stop := v.stop
	v.stop = nil
	v.mu.Unlock()

	if stop != nil {
		stop()
	}
}

package buffer

import (
	"errors"
	"time"

	"github.com/google/btree"

	"github.com/fulldump/transformdb/geometry"
)

var (
	ErrorNotFound     = errors.New("no transform available")
	ErrorBeforeBuffer = errors.New("timestamp is older than the oldest entry")
	ErrorAfterBuffer  = errors.New("timestamp is newer than the latest entry")
)

// Buffer stores the transforms of a single parent→child edge ordered by
// timestamp. A sample inserted at the same timestamp as an existing one
// replaces it. After every insert with a non-zero timestamp, entries
// older than the latest timestamp minus maxAge are evicted. A maxAge of
// zero keeps everything.
//
// An edge becomes static when its most recent insert carries timestamp
// zero: lookups then resolve to that entry regardless of the requested
// instant.
type Buffer struct {
	tree   *btree.BTreeG[*geometry.Transform]
	maxAge time.Duration
	static bool
}

func NewBuffer(maxAge time.Duration) *Buffer {
	tree := btree.NewG(32, func(a, b *geometry.Transform) bool {
		return a.Timestamp < b.Timestamp
	})

	return &Buffer{
		tree:   tree,
		maxAge: maxAge,
	}
}

func (b *Buffer) Insert(t geometry.Transform) {
	b.static = t.Timestamp == geometry.TimestampZero()
	b.tree.ReplaceOrInsert(&t)

	if !b.static {
		b.deleteExpired()
	}
}

// Get returns the transform at the requested instant, interpolating
// between the two samples that bracket it. Requests at an exactly stored
// timestamp return that entry.
func (b *Buffer) Get(at geometry.Timestamp) (geometry.Transform, error) {
	if b.static {
		if t, ok := b.tree.Get(&geometry.Transform{Timestamp: geometry.TimestampZero()}); ok {
			return *t, nil
		}
		return geometry.Transform{}, ErrorNotFound
	}

	if b.tree.Len() == 0 {
		return geometry.Transform{}, ErrorNotFound
	}

	pivot := &geometry.Transform{Timestamp: at}

	var before, after *geometry.Transform
	b.tree.DescendLessOrEqual(pivot, func(t *geometry.Transform) bool {
		before = t
		return false
	})
	if before != nil && before.Timestamp == at {
		return *before, nil
	}
	b.tree.AscendGreaterOrEqual(pivot, func(t *geometry.Transform) bool {
		after = t
		return false
	})

	if before == nil {
		return geometry.Transform{}, ErrorBeforeBuffer
	}
	if after == nil {
		return geometry.Transform{}, ErrorAfterBuffer
	}

	return geometry.Interpolate(*before, *after, at)
}

func (b *Buffer) Len() int {
	return b.tree.Len()
}

func (b *Buffer) IsStatic() bool {
	return b.static
}

func (b *Buffer) Oldest() (geometry.Transform, bool) {
	if t, ok := b.tree.Min(); ok {
		return *t, true
	}
	return geometry.Transform{}, false
}

func (b *Buffer) Latest() (geometry.Transform, bool) {
	if t, ok := b.tree.Max(); ok {
		return *t, true
	}
	return geometry.Transform{}, false
}

func (b *Buffer) deleteExpired() {
	if b.maxAge == 0 {
		return
	}
	latest, ok := b.tree.Max()
	if !ok || latest.Timestamp <= geometry.Timestamp(b.maxAge) {
		return
	}
	threshold := latest.Timestamp - geometry.Timestamp(b.maxAge)

	expired := []*geometry.Transform{}
	b.tree.AscendLessThan(&geometry.Transform{Timestamp: threshold}, func(t *geometry.Transform) bool {
		expired = append(expired, t)
		return true
	})
	for _, t := range expired {
		b.tree.Delete(t)
	}
}

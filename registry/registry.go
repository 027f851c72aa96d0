package registry

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fulldump/transformdb/buffer"
	"github.com/fulldump/transformdb/geometry"
)

// Registry is a concurrency-safe index of timed transforms between named
// coordinate frames. Samples are grouped per parent→child edge and
// lookups compose a chain of interpolated edges through the lowest
// common ancestor of the two frames.
type Registry struct {
	mutex    sync.Mutex
	graph    *frameGraph
	notifier *notifier
}

// EdgeInfo is a snapshot of one parent→child edge.
type EdgeInfo struct {
	Parent  string             `json:"parent"`
	Child   string             `json:"child"`
	Samples int                `json:"samples"`
	Static  bool               `json:"static"`
	Oldest  geometry.Timestamp `json:"oldest"`
	Latest  geometry.Timestamp `json:"latest"`
}

// New creates an empty registry. Edges keep samples no older than maxAge
// behind their latest one. A maxAge of zero disables expiry.
func New(maxAge time.Duration) *Registry {
	r := &Registry{
		graph: newFrameGraph(maxAge),
	}
	r.notifier = newNotifier(&r.mutex)
	return r
}

// AddTransform records a sample on the t.Parent→t.Child edge and wakes
// every await blocked on the registry.
func (r *Registry) AddTransform(t geometry.Transform) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := r.graph.add(t); err != nil {
		return err
	}
	r.notifier.broadcast()

	return nil
}

// GetTransform returns the pose of frame to expressed in frame from at
// the requested instant.
func (r *Registry) GetTransform(from, to string, at geometry.Timestamp) (geometry.Transform, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.graph.chain(from, to, at)
}

// AwaitTransform behaves like GetTransform but blocks while the chain is
// not resolvable yet, waking on every insert to retry. It returns as
// soon as the chain resolves, a terminal error appears, or the context
// ends.
func (r *Registry) AwaitTransform(ctx context.Context, from, to string, at geometry.Timestamp) (geometry.Transform, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for {
		t, err := r.graph.chain(from, to, at)
		if err == nil {
			return t, nil
		}
		if !isTransient(err) {
			return geometry.Transform{}, err
		}

		if waitErr := r.notifier.wait(ctx); waitErr != nil {
			if errors.Is(waitErr, context.DeadlineExceeded) {
				return geometry.Transform{}, ErrorTimeout
			}
			return geometry.Transform{}, ErrorCancelled
		}
	}
}

// isTransient reports whether a lookup failure can be cured by future
// inserts. Samples evicted from the past never come back.
func isTransient(err error) bool {
	return errors.Is(err, buffer.ErrorNotFound) ||
		errors.Is(err, buffer.ErrorAfterBuffer) ||
		errors.Is(err, ErrorDisconnected)
}

// Frames lists every frame known to the registry, sorted.
func (r *Registry) Frames() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	seen := map[string]bool{}
	for child, parent := range r.graph.parents {
		seen[child] = true
		seen[parent] = true
	}

	frames := make([]string, 0, len(seen))
	for frame := range seen {
		frames = append(frames, frame)
	}
	sort.Strings(frames)

	return frames
}

// Edges lists a snapshot of every edge, sorted by child frame.
func (r *Registry) Edges() []EdgeInfo {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	children := make([]string, 0, len(r.graph.edges))
	for child := range r.graph.edges {
		children = append(children, child)
	}
	sort.Strings(children)

	edges := make([]EdgeInfo, 0, len(children))
	for _, child := range children {
		edge := r.graph.edges[child]
		info := EdgeInfo{
			Parent:  r.graph.parents[child],
			Child:   child,
			Samples: edge.Len(),
			Static:  edge.IsStatic(),
		}
		if oldest, ok := edge.Oldest(); ok {
			info.Oldest = oldest.Timestamp
		}
		if latest, ok := edge.Latest(); ok {
			info.Latest = latest.Timestamp
		}
		edges = append(edges, info)
	}

	return edges
}

package registry

import (
	"time"

	"github.com/fulldump/transformdb/buffer"
	"github.com/fulldump/transformdb/geometry"
)

// frameGraph is the child→parent forest of edges. Each child frame has at
// most one parent, so edges are keyed by child. Buffers hold the timed
// samples of each edge.
type frameGraph struct {
	parents map[string]string
	edges   map[string]*buffer.Buffer
	maxAge  time.Duration
}

func newFrameGraph(maxAge time.Duration) *frameGraph {
	return &frameGraph{
		parents: map[string]string{},
		edges:   map[string]*buffer.Buffer{},
		maxAge:  maxAge,
	}
}

func (g *frameGraph) add(t geometry.Transform) error {
	if t.Parent == t.Child {
		return ErrorSameFrame
	}
	if !t.Rotation.IsFinite() {
		return ErrorInvalidQuaternion
	}
	if _, err := t.Rotation.Normalize(); err != nil {
		return ErrorInvalidQuaternion
	}
	if parent, exists := g.parents[t.Child]; exists && parent != t.Parent {
		return ErrorParentConflict
	}

	edge, exists := g.edges[t.Child]
	if !exists {
		edge = buffer.NewBuffer(g.maxAge)
		g.edges[t.Child] = edge
		g.parents[t.Child] = t.Parent
	}
	edge.Insert(t)

	return nil
}

// ancestry lists the frames from frame up to its root, frame included.
// The walk stops if a frame repeats, so a cyclic chain terminates.
func (g *frameGraph) ancestry(frame string) []string {
	path := []string{frame}
	visited := map[string]bool{frame: true}

	current := frame
	for {
		parent, exists := g.parents[current]
		if !exists || visited[parent] {
			return path
		}
		path = append(path, parent)
		visited[parent] = true
		current = parent
	}
}

// chain resolves the pose of to expressed in from at the requested
// instant. Both branches are composed up to their lowest common ancestor
// and joined there.
func (g *frameGraph) chain(from, to string, at geometry.Timestamp) (geometry.Transform, error) {
	if from == to {
		identity := geometry.TransformIdentity()
		identity.Timestamp = at
		identity.Parent = from
		identity.Child = to
		return identity, nil
	}

	fromPath := g.ancestry(from)
	toPath := g.ancestry(to)

	fromIndex := map[string]int{}
	for i, frame := range fromPath {
		fromIndex[frame] = i
	}

	lcaFrom, lcaTo := -1, -1
	for j, frame := range toPath {
		if i, exists := fromIndex[frame]; exists {
			lcaFrom, lcaTo = i, j
			break
		}
	}
	if lcaFrom < 0 {
		return geometry.Transform{}, ErrorDisconnected
	}

	if lcaFrom == 0 {
		return g.compose(toPath[:lcaTo+1], at)
	}

	up, err := g.compose(fromPath[:lcaFrom+1], at)
	if err != nil {
		return geometry.Transform{}, err
	}
	inverted, err := up.Inverse()
	if err != nil {
		return geometry.Transform{}, err
	}
	if lcaTo == 0 {
		return inverted, nil
	}

	down, err := g.compose(toPath[:lcaTo+1], at)
	if err != nil {
		return geometry.Transform{}, err
	}

	return inverted.Mul(down)
}

// compose accumulates the edges along path, ordered leaf first, into the
// pose of path[0] expressed in the last frame of path, stamped with the
// requested instant.
func (g *frameGraph) compose(path []string, at geometry.Timestamp) (geometry.Transform, error) {
	var acc geometry.Transform

	for i, child := range path[:len(path)-1] {
		sample, err := g.edges[child].Get(at)
		if err != nil {
			return geometry.Transform{}, err
		}
		if i == 0 {
			acc = sample
			continue
		}
		acc, err = sample.Mul(acc)
		if err != nil {
			return geometry.Transform{}, err
		}
	}
	acc.Timestamp = at

	return acc, nil
}

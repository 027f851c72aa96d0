package geometry

import (
	"errors"
)

// Transform is the rigid pose of Child expressed in Parent coordinates at
// Timestamp. Applying it to a point p expressed in Child yields
// Rotation·p·Rotation⁻¹ + Translation expressed in Parent.
type Transform struct {
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
	Timestamp   Timestamp  `json:"timestamp"`
	Parent      string     `json:"parent"`
	Child       string     `json:"child"`
}

var (
	ErrorTimestampMismatch   = errors.New("timestamp is outside the interpolation window")
	ErrorIncompatibleFrames  = errors.New("frames do not have a parent-child relationship")
	ErrorSameFrameComposition = errors.New("cannot compose transforms over the same child frame")
)

// TransformIdentity returns the neutral transform.
func TransformIdentity() Transform {
	return Transform{
		Translation: Vector3{},
		Rotation:    QuaternionIdentity(),
		Timestamp:   TimestampZero(),
	}
}

// Interpolate computes the pose between a and b at the instant at. Both
// endpoints must share the same parent and child, and at must lie inside
// [a.Timestamp, b.Timestamp]. Endpoint instants return the endpoint
// itself.
func Interpolate(a, b Transform, at Timestamp) (Transform, error) {
	if a.Timestamp > b.Timestamp || at < a.Timestamp || at > b.Timestamp {
		return Transform{}, ErrorTimestampMismatch
	}
	if a.Parent != b.Parent || a.Child != b.Child {
		return Transform{}, ErrorIncompatibleFrames
	}

	if at == a.Timestamp {
		return a, nil
	}
	if at == b.Timestamp {
		return b, nil
	}

	u := float64(at-a.Timestamp) / float64(b.Timestamp-a.Timestamp)
	if u < 0 {
		u = 0
	}
	if u > 1 {
		u = 1
	}

	return Transform{
		Translation: a.Translation.Lerp(b.Translation, u),
		Rotation:    a.Rotation.Slerp(b.Rotation, u),
		Timestamp:   at,
		Parent:      a.Parent,
		Child:       a.Child,
	}, nil
}

// Inverse swaps parent and child: the rotation is conjugated and the
// translation becomes −(q⁻¹·t·q).
func (t Transform) Inverse() (Transform, error) {
	q, err := t.Rotation.Normalize()
	if err != nil {
		return Transform{}, err
	}
	inverseRotation := q.Conjugate()

	return Transform{
		Translation: inverseRotation.RotateVector(t.Translation).Scale(-1),
		Rotation:    inverseRotation,
		Timestamp:   t.Timestamp,
		Parent:      t.Child,
		Child:       t.Parent,
	}, nil
}

// Mul composes t (pose of A in P) with rhs (pose of B in A) into the pose
// of B in P. The child of t must be the parent of rhs. The result carries
// the older of the two timestamps.
func (t Transform) Mul(rhs Transform) (Transform, error) {
	if t.Child == rhs.Child {
		return Transform{}, ErrorSameFrameComposition
	}
	if t.Child != rhs.Parent {
		return Transform{}, ErrorIncompatibleFrames
	}

	timestamp := t.Timestamp
	if rhs.Timestamp < timestamp {
		timestamp = rhs.Timestamp
	}

	return Transform{
		Translation: t.Rotation.RotateVector(rhs.Translation).Add(t.Translation),
		Rotation:    t.Rotation.Mul(rhs.Rotation),
		Timestamp:   timestamp,
		Parent:      t.Parent,
		Child:       rhs.Child,
	}, nil
}

// EqualWithin compares translation and rotation with an absolute
// tolerance; timestamps and frames compare exactly.
func (t Transform) EqualWithin(other Transform, epsilon float64) bool {
	return t.Translation.EqualWithin(other.Translation, epsilon) &&
		t.Rotation.EqualWithin(other.Rotation, epsilon) &&
		t.Timestamp == other.Timestamp &&
		t.Parent == other.Parent &&
		t.Child == other.Child
}

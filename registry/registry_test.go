package registry

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/fulldump/biff"

	"github.com/fulldump/transformdb/buffer"
	"github.com/fulldump/transformdb/geometry"
)

func timed(parent, child string, at geometry.Timestamp, translation geometry.Vector3, rotation geometry.Quaternion) geometry.Transform {
	return geometry.Transform{
		Translation: translation,
		Rotation:    rotation,
		Timestamp:   at,
		Parent:      parent,
		Child:       child,
	}
}

func Test_Registry_SingleEdge_Interpolated(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("a", "b", 20, geometry.Vector3{X: 2}, geometry.QuaternionIdentity())))

	result, err := r.GetTransform("a", "b", 15)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{X: 1.5})
	biff.AssertEqual(result.Rotation, geometry.QuaternionIdentity())
	biff.AssertEqual(result.Timestamp, geometry.Timestamp(15))
}

func Test_Registry_RotationInterpolated(t *testing.T) {

	quarter := geometry.Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("a", "b", 20, geometry.Vector3{}, quarter)))

	result, err := r.GetTransform("a", "b", 15)
	biff.AssertNil(err)

	expected := geometry.Quaternion{W: math.Cos(math.Pi / 8), Z: math.Sin(math.Pi / 8)}
	biff.AssertTrue(result.Rotation.EqualWithin(expected, 1e-9))
}

func Test_Registry_TwoHops(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("b", "c", 10, geometry.Vector3{Y: 1}, geometry.QuaternionIdentity())))

	result, err := r.GetTransform("a", "c", 10)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{X: 1, Y: 1})
	biff.AssertEqual(result.Parent, "a")
	biff.AssertEqual(result.Child, "c")
}

func Test_Registry_InverseHop(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("a", "b", 20, geometry.Vector3{X: 2}, geometry.QuaternionIdentity())))

	result, err := r.GetTransform("b", "a", 15)
	biff.AssertNil(err)
	biff.AssertTrue(result.Translation.EqualWithin(geometry.Vector3{X: -1.5}, 1e-12))
	biff.AssertEqual(result.Parent, "b")
	biff.AssertEqual(result.Child, "a")
}

func Test_Registry_SameFrameQuery(t *testing.T) {

	r := New(0)

	result, err := r.GetTransform("x", "x", 42)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{})
	biff.AssertEqual(result.Rotation, geometry.QuaternionIdentity())
	biff.AssertEqual(result.Timestamp, geometry.Timestamp(42))
	biff.AssertEqual(result.Parent, "x")
	biff.AssertEqual(result.Child, "x")
}

func Test_Registry_SiblingBranches(t *testing.T) {

	// b and c hang from the same root, the chain goes through it
	r := New(0)
	biff.AssertNil(r.AddTransform(timed("root", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("root", "c", 10, geometry.Vector3{Y: 2}, geometry.QuaternionIdentity())))

	result, err := r.GetTransform("b", "c", 10)
	biff.AssertNil(err)
	biff.AssertTrue(result.Translation.EqualWithin(geometry.Vector3{X: -1, Y: 2}, 1e-12))
	biff.AssertEqual(result.Parent, "b")
	biff.AssertEqual(result.Child, "c")
}

func Test_Registry_RoundTripIsIdentity(t *testing.T) {

	quarter := geometry.Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1, Y: -2, Z: 3}, quarter)))
	biff.AssertNil(r.AddTransform(timed("b", "c", 10, geometry.Vector3{X: -4, Y: 5, Z: -6}, quarter)))

	forward, err := r.GetTransform("a", "c", 10)
	biff.AssertNil(err)

	backward, err := r.GetTransform("c", "a", 10)
	biff.AssertNil(err)

	identity, err := forward.Mul(backward)
	biff.AssertNil(err)
	biff.AssertTrue(identity.Translation.EqualWithin(geometry.Vector3{}, 1e-9))
	biff.AssertTrue(identity.Rotation.EqualWithin(geometry.QuaternionIdentity(), 1e-9))
}

func Test_Registry_ChainMatchesDirectComposition(t *testing.T) {

	quarter := geometry.Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1}, quarter)))
	biff.AssertNil(r.AddTransform(timed("b", "c", 10, geometry.Vector3{Y: 1}, quarter)))

	direct, err := r.GetTransform("a", "c", 10)
	biff.AssertNil(err)

	ab, err := r.GetTransform("a", "b", 10)
	biff.AssertNil(err)
	bc, err := r.GetTransform("b", "c", 10)
	biff.AssertNil(err)

	composed, err := ab.Mul(bc)
	biff.AssertNil(err)
	biff.AssertTrue(direct.Translation.EqualWithin(composed.Translation, 1e-9))
	biff.AssertTrue(direct.Rotation.EqualWithin(composed.Rotation, 1e-9))
}

func Test_Registry_Disconnected(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))

	_, err := r.GetTransform("a", "ghost", 10)
	biff.AssertEqual(err, ErrorDisconnected)
}

func Test_Registry_BeforeBuffer(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))

	_, err := r.GetTransform("a", "b", 5)
	biff.AssertEqual(err, buffer.ErrorBeforeBuffer)
}

func Test_Registry_AddTransform_SameFrame(t *testing.T) {

	r := New(0)

	err := r.AddTransform(timed("a", "a", 10, geometry.Vector3{}, geometry.QuaternionIdentity()))
	biff.AssertEqual(err, ErrorSameFrame)
}

func Test_Registry_AddTransform_InvalidQuaternion(t *testing.T) {

	r := New(0)

	err := r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.Quaternion{W: math.NaN()}))
	biff.AssertEqual(err, ErrorInvalidQuaternion)

	err = r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.Quaternion{}))
	biff.AssertEqual(err, ErrorInvalidQuaternion)
}

func Test_Registry_AddTransform_ParentConflict(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("p1", "c", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))

	err := r.AddTransform(timed("p2", "c", 20, geometry.Vector3{}, geometry.QuaternionIdentity()))
	biff.AssertEqual(err, ErrorParentConflict)

	// the first edge is still queryable
	result, err := r.GetTransform("p1", "c", 10)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{X: 1})
}

func Test_Registry_Frames(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("b", "c", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))

	biff.AssertEqual(r.Frames(), []string{"a", "b", "c"})
}

func Test_Registry_Edges(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("a", "b", 20, geometry.Vector3{}, geometry.QuaternionIdentity())))
	biff.AssertNil(r.AddTransform(timed("b", "c", 0, geometry.Vector3{}, geometry.QuaternionIdentity())))

	edges := r.Edges()
	biff.AssertEqual(len(edges), 2)
	biff.AssertEqual(edges[0], EdgeInfo{Parent: "a", Child: "b", Samples: 2, Static: false, Oldest: 10, Latest: 20})
	biff.AssertEqual(edges[1], EdgeInfo{Parent: "b", Child: "c", Samples: 1, Static: true, Oldest: 0, Latest: 0})
}

func Test_Registry_Await_ResolvedByInsert(t *testing.T) {

	r := New(0)

	go func() {
		time.Sleep(20 * time.Millisecond)
		r.AddTransform(timed("a", "b", 0, geometry.Vector3{}, geometry.QuaternionIdentity()))
	}()

	result, err := r.AwaitTransform(context.Background(), "a", "b", 0)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{})
	biff.AssertEqual(result.Rotation, geometry.QuaternionIdentity())
	biff.AssertEqual(result.Timestamp, geometry.Timestamp(0))
}

func Test_Registry_Await_ResolvedByNewerSample(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))

	// the query instant is past the latest sample until a newer one lands
	go func() {
		time.Sleep(20 * time.Millisecond)
		r.AddTransform(timed("a", "b", 30, geometry.Vector3{X: 3}, geometry.QuaternionIdentity()))
	}()

	result, err := r.AwaitTransform(context.Background(), "a", "b", 20)
	biff.AssertNil(err)
	biff.AssertEqual(result.Translation, geometry.Vector3{X: 2})
}

func Test_Registry_Await_ResolvedAcrossBranches(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("root", "b", 10, geometry.Vector3{X: 1}, geometry.QuaternionIdentity())))

	go func() {
		time.Sleep(20 * time.Millisecond)
		r.AddTransform(timed("root", "d", 10, geometry.Vector3{Y: 1}, geometry.QuaternionIdentity()))
	}()

	result, err := r.AwaitTransform(context.Background(), "b", "d", 10)
	biff.AssertNil(err)
	biff.AssertTrue(result.Translation.EqualWithin(geometry.Vector3{X: -1, Y: 1}, 1e-12))
}

func Test_Registry_Await_BeforeBufferIsTerminal(t *testing.T) {

	r := New(0)
	biff.AssertNil(r.AddTransform(timed("a", "b", 10, geometry.Vector3{}, geometry.QuaternionIdentity())))

	// no waiting: samples older than the buffer never come back
	_, err := r.AwaitTransform(context.Background(), "a", "b", 5)
	biff.AssertEqual(err, buffer.ErrorBeforeBuffer)
}

func Test_Registry_Await_Timeout(t *testing.T) {

	r := New(0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := r.AwaitTransform(ctx, "a", "b", 10)
	biff.AssertEqual(err, ErrorTimeout)
}

func Test_Registry_Await_Cancelled(t *testing.T) {

	r := New(0)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := r.AwaitTransform(ctx, "a", "b", 10)
	biff.AssertEqual(err, ErrorCancelled)
}

func Test_Registry_Await_ManyWaiters(t *testing.T) {

	r := New(0)

	results := make(chan error)
	for i := 0; i < 8; i++ {
		go func() {
			_, err := r.AwaitTransform(context.Background(), "a", "b", 0)
			results <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	biff.AssertNil(r.AddTransform(timed("a", "b", 0, geometry.Vector3{}, geometry.QuaternionIdentity())))

	for i := 0; i < 8; i++ {
		biff.AssertNil(<-results)
	}
}

func Test_Registry_Expiry(t *testing.T) {

	r := New(30 * time.Nanosecond)

	for i := geometry.Timestamp(1); i <= 10; i++ {
		biff.AssertNil(r.AddTransform(timed("a", "b", i*10, geometry.Vector3{X: float64(i)}, geometry.QuaternionIdentity())))
	}

	edges := r.Edges()
	biff.AssertEqual(len(edges), 1)
	biff.AssertEqual(edges[0].Samples, 4)
	biff.AssertEqual(edges[0].Oldest, geometry.Timestamp(70))
	biff.AssertEqual(edges[0].Latest, geometry.Timestamp(100))

	_, err := r.GetTransform("a", "b", 60)
	biff.AssertEqual(err, buffer.ErrorBeforeBuffer)
}

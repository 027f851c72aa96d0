package geometry

import (
	"math"
	"testing"

	"github.com/fulldump/biff"
)

func Test_Quaternion_Mul_Identity(t *testing.T) {

	q := Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}

	biff.AssertEqual(q.Mul(QuaternionIdentity()), q)
	biff.AssertEqual(QuaternionIdentity().Mul(q), q)
}

func Test_Quaternion_Mul_Conjugate(t *testing.T) {

	q := Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}

	biff.AssertTrue(q.Mul(q.Conjugate()).EqualWithin(QuaternionIdentity(), 1e-12))
}

func Test_Quaternion_RotateVector(t *testing.T) {

	// 90 degrees about z turns x into y
	q := Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}

	rotated := q.RotateVector(Vector3{X: 1})

	biff.AssertTrue(rotated.EqualWithin(Vector3{Y: 1}, 1e-12))
}

func Test_Quaternion_Normalize(t *testing.T) {

	q := Quaternion{W: 2}

	normalized, err := q.Normalize()
	biff.AssertNil(err)
	biff.AssertEqual(normalized, QuaternionIdentity())
}

func Test_Quaternion_Normalize_ZeroLength(t *testing.T) {

	_, err := Quaternion{}.Normalize()

	biff.AssertEqual(err, ErrorZeroLengthQuaternion)
}

func Test_Quaternion_Slerp_HalfWay(t *testing.T) {

	a := QuaternionIdentity()
	b := Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)} // 90 degrees about z

	mid := a.Slerp(b, 0.5)

	expected := Quaternion{W: math.Cos(math.Pi / 8), Z: math.Sin(math.Pi / 8)}
	biff.AssertTrue(mid.EqualWithin(expected, 1e-9))
}

func Test_Quaternion_Slerp_Endpoints(t *testing.T) {

	a := QuaternionIdentity()
	b := Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}

	biff.AssertTrue(a.Slerp(b, 0).EqualWithin(a, 1e-12))
	biff.AssertTrue(a.Slerp(b, 1).EqualWithin(b, 1e-12))
}

func Test_Quaternion_Slerp_ShortestArc(t *testing.T) {

	// b and -b are the same rotation; slerp must not take the long way
	a := QuaternionIdentity()
	b := Quaternion{W: math.Cos(math.Pi / 4), Z: math.Sin(math.Pi / 4)}
	negated := b.Scale(-1)

	mid := a.Slerp(negated, 0.5)

	expected := Quaternion{W: math.Cos(math.Pi / 8), Z: math.Sin(math.Pi / 8)}
	biff.AssertTrue(mid.EqualWithin(expected, 1e-9))
}

func Test_Quaternion_Slerp_NearParallel(t *testing.T) {

	a := QuaternionIdentity()
	b := Quaternion{W: 1, Z: 1e-12}

	mid := a.Slerp(b, 0.5)

	biff.AssertTrue(mid.EqualWithin(QuaternionIdentity(), 1e-9))
	assertUnit(mid)
}

func Test_Quaternion_Slerp_OutputIsUnit(t *testing.T) {

	a := Quaternion{W: 0.5, X: 0.5, Y: 0.5, Z: 0.5}
	b := Quaternion{W: math.Cos(1.2), X: math.Sin(1.2)}

	for _, u := range []float64{0, 0.25, 0.5, 0.75, 1} {
		assertUnit(a.Slerp(b, u))
	}
}

func Test_Quaternion_IsFinite(t *testing.T) {

	biff.AssertTrue(QuaternionIdentity().IsFinite())
	biff.AssertFalse(Quaternion{W: math.NaN()}.IsFinite())
	biff.AssertFalse(Quaternion{X: math.Inf(1)}.IsFinite())
}

func assertUnit(q Quaternion) {
	biff.AssertTrue(math.Abs(q.Norm()-1) <= 1e-9)
}

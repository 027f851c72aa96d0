package geometry

import (
	"errors"
	"time"
)

// Timestamp is a monotonic, non-negative instant expressed in integer
// nanoseconds since an unspecified epoch.
type Timestamp uint64

var ErrorDurationUnderflow = errors.New("duration underflow: timestamp is in the future")

func TimestampNow() Timestamp {
	return Timestamp(time.Now().UnixNano())
}

func TimestampZero() Timestamp {
	return Timestamp(0)
}

// Sub returns the duration elapsed from other to t. It fails if other is
// newer than t.
func (t Timestamp) Sub(other Timestamp) (time.Duration, error) {
	if other > t {
		return 0, ErrorDurationUnderflow
	}
	return time.Duration(t - other), nil
}

func (t Timestamp) Add(d time.Duration) Timestamp {
	return t + Timestamp(d)
}

func (t Timestamp) Seconds() float64 {
	return float64(t) / float64(time.Second)
}

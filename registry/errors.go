package registry

import (
	"errors"
)

var (
	ErrorSameFrame         = errors.New("parent and child cannot be the same frame")
	ErrorParentConflict    = errors.New("child frame is already attached to another parent")
	ErrorInvalidQuaternion = errors.New("rotation is not a valid quaternion")
	ErrorDisconnected      = errors.New("frames do not share a common ancestor")
	ErrorCancelled         = errors.New("await was cancelled")
	ErrorTimeout           = errors.New("await deadline exceeded")
)

package apiscenev1

import (
	"context"
	"time"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/geometry"
)

type awaitTransformRequest struct {
	From      string             `json:"from"`
	To        string             `json:"to"`
	At        geometry.Timestamp `json:"at"`
	TimeoutMs int64              `json:"timeout_ms"`
}

// awaitTransform resolves like getTransform but holds the request open
// until the chain becomes resolvable, the timeout expires or the client
// goes away.
func awaitTransform(ctx context.Context, input *awaitTransformRequest) (*geometry.Transform, error) {

	s := GetServicer(ctx)
	sceneName := box.GetUrlParameter(ctx, "sceneName")

	if input.TimeoutMs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(input.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	t, err := s.AwaitTransform(ctx, sceneName, input.From, input.To, input.At)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

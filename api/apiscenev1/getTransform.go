package apiscenev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/geometry"
)

type getTransformRequest struct {
	From string             `json:"from"`
	To   string             `json:"to"`
	At   geometry.Timestamp `json:"at"`
}

func getTransform(ctx context.Context, input *getTransformRequest) (*geometry.Transform, error) {

	s := GetServicer(ctx)
	sceneName := box.GetUrlParameter(ctx, "sceneName")

	t, err := s.GetTransform(sceneName, input.From, input.To, input.At)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

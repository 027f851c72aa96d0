package apiscenev1

import (
	"context"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/registry"
)

type findEdgesRequest struct {
	Filter map[string]interface{} `json:"filter"`
}

func findEdges(ctx context.Context, input *findEdgesRequest) ([]registry.EdgeInfo, error) {

	s := GetServicer(ctx)
	sceneName := box.GetUrlParameter(ctx, "sceneName")

	return s.FindEdges(sceneName, input.Filter)
}

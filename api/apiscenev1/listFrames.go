package apiscenev1

import (
	"context"

	"github.com/fulldump/box"
)

func listFrames(ctx context.Context) ([]string, error) {

	s := GetServicer(ctx)
	sceneName := box.GetUrlParameter(ctx, "sceneName")

	return s.ListFrames(sceneName)
}

package apiscenev1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
)

func dropScene(ctx context.Context) error {

	s := GetServicer(ctx)

	sceneName := box.GetUrlParameter(ctx, "sceneName")

	err := s.DropScene(sceneName)
	if err != nil {
		return err // TODO: wrap error?
	}

	box.GetResponse(ctx).WriteHeader(http.StatusOK)
	return nil
}

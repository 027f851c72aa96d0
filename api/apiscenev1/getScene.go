package apiscenev1

import (
	"context"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/service"
)

func getScene(ctx context.Context) (*service.Scene, error) {

	s := GetServicer(ctx)

	sceneName := box.GetUrlParameter(ctx, "sceneName")

	scene, err := s.GetScene(sceneName)
	if err == service.ErrorSceneNotFound {
		box.GetResponse(ctx).WriteHeader(http.StatusNotFound)
		return nil, err
	}

	return scene, err
}

package apiscenev1

import (
	"context"
	"net/http"

	"github.com/fulldump/transformdb/service"
)

type createSceneRequest struct {
	Name string `json:"name"`
}

func createScene(ctx context.Context, w http.ResponseWriter, input *createSceneRequest) (*service.Scene, error) {

	s := GetServicer(ctx)

	scene, err := s.CreateScene(input.Name)
	if err == service.ErrorSceneAlreadyExists {
		w.WriteHeader(http.StatusConflict)
		return nil, err
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return nil, err // todo: wrap error?
	}

	w.WriteHeader(http.StatusCreated)
	return scene, nil
}

package apiscenev1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/geometry"
	"github.com/fulldump/transformdb/service"
)

// addTransforms ingests a stream of JSON transforms, one after another,
// and records each of them in the scene. The scene is created on first
// use.
func addTransforms(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

	s := GetServicer(ctx)
	sceneName := box.GetUrlParameter(ctx, "sceneName")
	_, err := s.GetScene(sceneName)
	if err == service.ErrorSceneNotFound {
		_, err = s.CreateScene(sceneName)
	}
	if err != nil {
		return err // todo: handle/wrap this properly
	}

	jsonReader := json.NewDecoder(r.Body)
	jsonWriter := json.NewEncoder(w)

	for i := 0; true; i++ {
		t := geometry.Transform{}
		err := jsonReader.Decode(&t)
		if err == io.EOF {
			if i == 0 {
				w.WriteHeader(http.StatusNoContent)
			}
			return nil
		}
		if err != nil {
			fmt.Println("ERROR:", err.Error())
			if i == 0 {
				w.WriteHeader(http.StatusBadRequest)
			}
			return err
		}
		err = s.AddTransform(sceneName, t)
		if err != nil {
			if i == 0 {
				w.WriteHeader(http.StatusConflict)
			}
			return err
		}

		if i == 0 {
			w.WriteHeader(http.StatusCreated)
		}
		jsonWriter.Encode(t)
	}

	return nil
}

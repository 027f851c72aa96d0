package service

import (
	"context"
	"fmt"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/transformdb/database"
	"github.com/fulldump/transformdb/geometry"
	"github.com/fulldump/transformdb/registry"
	"github.com/fulldump/transformdb/scene"
	"github.com/fulldump/transformdb/utils"
)

// Scene is the public summary of a stored scene.
type Scene struct {
	Name    string `json:"name"`
	Frames  int    `json:"frames"`
	Samples int    `json:"samples"`
}

type Service struct {
	db     *database.Database
	scenes map[string]*scene.Scene
}

func NewService(db *database.Database) *Service {
	return &Service{
		db:     db,
		scenes: db.Scenes, // todo: remove from here
	}
}

func (s *Service) CreateScene(name string) (*Scene, error) {

	_, exist := s.scenes[name]
	if exist {
		return nil, ErrorSceneAlreadyExists
	}

	_, err := s.db.CreateScene(name)
	if err != nil {
		return nil, err
	}

	return &Scene{
		Name: name,
	}, nil
}

func (s *Service) GetScene(name string) (*Scene, error) {
	sc, exist := s.scenes[name]
	if !exist {
		return nil, ErrorSceneNotFound
	}

	return summarize(name, sc), nil
}

func (s *Service) ListScenes() ([]*Scene, error) {
	result := []*Scene{}

	for _, name := range utils.GetKeys(s.scenes) {
		result = append(result, summarize(name, s.scenes[name]))
	}

	return result, nil
}

func (s *Service) DropScene(name string) error {
	_, exist := s.scenes[name]
	if !exist {
		return ErrorSceneNotFound
	}

	return s.db.DropScene(name)
}

func (s *Service) AddTransform(sceneName string, t geometry.Transform) error {
	sc, exist := s.scenes[sceneName]
	if !exist {
		return ErrorSceneNotFound
	}

	return sc.AddTransform(t)
}

func (s *Service) GetTransform(sceneName, from, to string, at geometry.Timestamp) (geometry.Transform, error) {
	sc, exist := s.scenes[sceneName]
	if !exist {
		return geometry.Transform{}, ErrorSceneNotFound
	}

	return sc.Registry.GetTransform(from, to, at)
}

func (s *Service) AwaitTransform(ctx context.Context, sceneName, from, to string, at geometry.Timestamp) (geometry.Transform, error) {
	sc, exist := s.scenes[sceneName]
	if !exist {
		return geometry.Transform{}, ErrorSceneNotFound
	}

	return sc.Registry.AwaitTransform(ctx, from, to, at)
}

func (s *Service) ListFrames(sceneName string) ([]string, error) {
	sc, exist := s.scenes[sceneName]
	if !exist {
		return nil, ErrorSceneNotFound
	}

	return sc.Registry.Frames(), nil
}

// FindEdges returns the edges whose snapshot matches the filter. An
// empty filter matches every edge.
func (s *Service) FindEdges(sceneName string, filter map[string]interface{}) ([]registry.EdgeInfo, error) {
	sc, exist := s.scenes[sceneName]
	if !exist {
		return nil, ErrorSceneNotFound
	}

	edges := sc.Registry.Edges()
	if len(filter) == 0 {
		return edges, nil
	}

	result := []registry.EdgeInfo{}
	for _, edge := range edges {
		rowData := map[string]interface{}{}
		err := utils.Remarshal(edge, &rowData)
		if err != nil {
			return nil, fmt.Errorf("remarshal edge: %w", err)
		}

		match, err := connor.Match(filter, rowData)
		if err != nil {
			return nil, fmt.Errorf("match: %w", err)
		}
		if !match {
			continue
		}
		result = append(result, edge)
	}

	return result, nil
}

func summarize(name string, sc *scene.Scene) *Scene {
	samples := 0
	for _, edge := range sc.Registry.Edges() {
		samples += edge.Samples
	}

	return &Scene{
		Name:    name,
		Frames:  len(sc.Registry.Frames()),
		Samples: samples,
	}
}

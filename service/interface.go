package service

import (
	"context"
	"errors"

	"github.com/fulldump/transformdb/geometry"
	"github.com/fulldump/transformdb/registry"
)

var (
	ErrorSceneNotFound      = errors.New("scene not found")
	ErrorSceneAlreadyExists = errors.New("scene already exists")
)

type Servicer interface { // todo: review naming
	CreateScene(name string) (*Scene, error)
	GetScene(name string) (*Scene, error)
	ListScenes() ([]*Scene, error)
	DropScene(name string) error
	AddTransform(sceneName string, t geometry.Transform) error
	GetTransform(sceneName, from, to string, at geometry.Timestamp) (geometry.Transform, error)
	AwaitTransform(ctx context.Context, sceneName, from, to string, at geometry.Timestamp) (geometry.Transform, error)
	ListFrames(sceneName string) ([]string, error)
	FindEdges(sceneName string, filter map[string]interface{}) ([]registry.EdgeInfo, error)
}

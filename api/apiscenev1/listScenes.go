package apiscenev1

import (
	"context"

	"github.com/fulldump/transformdb/service"
)

func listScenes(ctx context.Context) ([]*service.Scene, error) {

	s := GetServicer(ctx)

	return s.ListScenes()
}

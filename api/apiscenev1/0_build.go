package apiscenev1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/service"
)

func BuildV1Scene(v1 *box.R, s service.Servicer) *box.R {

	scenes := v1.Resource("/scenes").
		WithActions(
			box.Get(listScenes),
			box.Post(createScene),
		)

	v1.Resource("/scenes/{sceneName}").
		WithActions(
			box.Get(getScene),
			box.ActionPost(dropScene),
			box.ActionPost(addTransforms),
			box.ActionPost(getTransform),
			box.ActionPost(awaitTransform),
			box.ActionPost(listFrames),
			box.ActionPost(findEdges),
		)

	return scenes
}

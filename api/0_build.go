package api

import (
	"context"
	"net/http"

	"github.com/fulldump/box"
	"github.com/fulldump/box/boxopenapi"

	"github.com/fulldump/transformdb/api/apiscenev1"
	"github.com/fulldump/transformdb/service"
	"github.com/fulldump/transformdb/statics"
)

func Build(s service.Servicer, staticsDir, version string) *box.B {

	b := box.NewBox()

	v1 := b.Resource("/v1")
	apiscenev1.BuildV1Scene(v1, s).
		WithInterceptors(
			injectServicer(s),
		)

	v1.Resource("/version").
		WithActions(
			box.Get(func() string {
				return version
			}).WithName("version"),
		)

	spec := boxopenapi.Spec(b)
	spec.Info.Title = "TransformDB"
	spec.Info.Description = "A durable in-memory registry of timed transforms between coordinate frames."
	spec.Info.Contact = &boxopenapi.Contact{
		Url: "https://github.com/fulldump/transformdb/issues/new",
	}
	b.Handle("GET", "/openapi.json", func(r *http.Request) any {

		spec.Servers = []boxopenapi.Server{
			{
				Url: "https://" + r.Host,
			},
			{
				Url: "http://" + r.Host,
			},
		}

		return spec
	})

	// Mount statics
	b.Resource("/*").
		WithActions(
			box.Get(statics.ServeStatics(staticsDir)).WithName("serveStatics"),
		)

	return b
}

func injectServicer(s service.Servicer) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {
			next(apiscenev1.SetServicer(ctx, s))
		}
	}
}

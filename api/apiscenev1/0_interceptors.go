package apiscenev1

import (
	"context"

	"github.com/fulldump/transformdb/service"
)

const ContextServicerKey = "56f8a9c2-7c31-4a08-b1a4-6f2c9d3e8b17"

func SetServicer(ctx context.Context, s service.Servicer) context.Context {
	return context.WithValue(ctx, ContextServicerKey, s)
}

func GetServicer(ctx context.Context) service.Servicer {
	return ctx.Value(ContextServicerKey).(service.Servicer) // TODO: can raise panic :D
}

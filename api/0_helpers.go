package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/fulldump/box"

	"github.com/fulldump/transformdb/buffer"
	"github.com/fulldump/transformdb/database"
	"github.com/fulldump/transformdb/geometry"
	"github.com/fulldump/transformdb/registry"
	"github.com/fulldump/transformdb/service"
)

func InterceptorUnavailable(db *database.Database) box.I {
	return func(next box.H) box.H {
		return func(ctx context.Context) {

			status := db.GetStatus()
			if status == database.StatusOpening {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: opening"))
				return
			}
			if status == database.StatusClosing {
				box.SetError(ctx, fmt.Errorf("temporary unavailable: closing"))
				return
			}
			next(ctx)
		}
	}
}

// errorStatus maps domain errors to HTTP statuses. Anything not listed
// here is an unexpected error.
var errorStatus = map[error]int{
	service.ErrorSceneNotFound:         http.StatusNotFound,
	service.ErrorSceneAlreadyExists:    http.StatusConflict,
	registry.ErrorParentConflict:       http.StatusConflict,
	registry.ErrorSameFrame:            http.StatusBadRequest,
	registry.ErrorInvalidQuaternion:    http.StatusBadRequest,
	registry.ErrorDisconnected:         http.StatusNotFound,
	registry.ErrorTimeout:              http.StatusRequestTimeout,
	registry.ErrorCancelled:            http.StatusRequestTimeout,
	buffer.ErrorNotFound:               http.StatusNotFound,
	buffer.ErrorBeforeBuffer:           http.StatusNotFound,
	buffer.ErrorAfterBuffer:            http.StatusNotFound,
	geometry.ErrorIncompatibleFrames:   http.StatusBadRequest,
	geometry.ErrorTimestampMismatch:    http.StatusBadRequest,
	geometry.ErrorSameFrameComposition: http.StatusBadRequest,
}

func PrettyErrorInterceptor(next box.H) box.H {
	return func(ctx context.Context) {

		next(ctx)

		err := box.GetError(ctx)
		if err == nil {
			return
		}
		w := box.GetResponse(ctx)

		if err == box.ErrResourceNotFound {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": fmt.Sprintf("resource '%s' not found", box.GetRequest(ctx).URL.String()),
				},
			})
			return
		}

		if err == box.ErrMethodNotAllowed {
			w.WriteHeader(http.StatusMethodNotAllowed)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": fmt.Sprintf("method '%s' not allowed", box.GetRequest(ctx).Method),
				},
			})
			return
		}

		if _, ok := err.(*json.SyntaxError); ok {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": "Malformed JSON",
				},
			})
			return
		}

		if status, ok := errorStatus[err]; ok {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message":     err.Error(),
					"description": http.StatusText(status),
				},
			})
			return
		}

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message":     err.Error(),
				"description": "Unexpected error",
			},
		})

	}
}

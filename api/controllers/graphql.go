package controllers

import (
	"io"
	"net/http"

	"github.com/scottsberry/commerce-backend/api/responses"
	"github.com/scottsberry/commerce-backend/internal/proxy"
	pkgerrors "github.com/scottsberry/commerce-backend/pkg/errors"
	"github.com/scottsberry/commerce-backend/pkg/logger"
)

const graphqlBodyLimit int64 = 1 << 20

// GraphQLProxy forwards GraphQL payloads upstream, serving cached responses
// for repeated payloads. Upstream bodies pass through verbatim.
func GraphQLProxy(service *proxy.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		payload, err := io.ReadAll(io.LimitReader(r.Body, graphqlBodyLimit))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading request body"))
			return
		}

		result, err := service.Execute(ctx, payload)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		w.Header().Set("Content-Type", result.ContentType)
		if result.FromCache {
			w.Header().Set("X-Cache", "HIT")
		} else {
			w.Header().Set("X-Cache", "MISS")
		}
		w.WriteHeader(result.StatusCode)
		if _, err := w.Write(result.Body); err != nil {
			logg.Error(ctx, "writing proxy response", err)
		}
	}
}

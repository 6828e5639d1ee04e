package middleware

import (
	"net/http"

	"litter-tracker/internal/platform/idcodec"

	"github.com/go-chi/chi/v5"
)

// DecodeIDParams descifra in-place los parámetros de ruta nombrados antes
// de que corra cualquier handler. Un token que no descifra se trata igual
// que un recurso inexistente (404), sin pasar por el chequeo de pertenencia.
func DecodeIDParams(codec *idcodec.Codec, params ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.RouteContext(r.Context())
			if rctx == nil {
				next.ServeHTTP(w, r)
				return
			}

			for _, name := range params {
				token := rctx.URLParam(name)
				if token == "" {
					continue
				}

				id, err := codec.Decode(token)
				if err != nil {
					http.Error(w, "resource not found", http.StatusNotFound)
					return
				}

				for i, key := range rctx.URLParams.Keys {
					if key == name {
						rctx.URLParams.Values[i] = id
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

package blob

import (
	"context"
	"io"
)

// Store es un put-and-get opaco de binarios. Put devuelve la URL pública
// del objeto; si falla, el caller no debe persistir nada que la referencie.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (publicURL string, err error)
}

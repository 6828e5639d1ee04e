package ownership

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("resource not found")
	ErrForbidden = errors.New("forbidden")
)

// Resource es la vista mínima que necesita el resolver: quién es,
// de quién es, y a qué padre apunta.
type Resource struct {
	ID       string
	OwnerID  string
	ParentID string // vacío para la raíz de la cadena
}

// Step es un eslabón de la cadena (litter -> kitten -> weight record).
// Fetch debe devolver ErrNotFound cuando el recurso no existe; cualquier
// otro error se propaga tal cual (fallas de storage no son 404).
type Step struct {
	Name  string
	Fetch func(ctx context.Context, id string) (Resource, error)
}

// Verify recorre la cadena desde la raíz y valida, eslabón por eslabón:
//   - que el recurso exista (si no: ErrNotFound),
//   - que su OwnerID sea el solicitante (si no: ErrForbidden),
//   - que su ParentID apunte al eslabón anterior ya verificado (si no: ErrForbidden).
//
// Tanto el atributo de dueño denormalizado como la FK al padre deben coincidir;
// con que uno falle alcanza para cortar.
//
// Para creates se pasa solo la cadena de padres (el hijo todavía no existe).
// No muta nada: es un paso de lectura y verificación reutilizable.
//
// Nota deliberada sobre divulgación: "existe pero es de otro" responde
// Forbidden y "no existe" responde NotFound, igual que el comportamiento
// de base. Un diseño más estricto colapsaría ambos en NotFound.
func Verify(ctx context.Context, ownerID string, steps []Step, ids []string) ([]Resource, error) {
	if len(steps) != len(ids) {
		return nil, fmt.Errorf("ownership: %d steps but %d ids", len(steps), len(ids))
	}

	out := make([]Resource, 0, len(steps))
	parentID := ""

	for i, st := range steps {
		res, err := st.Fetch(ctx, ids[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.Name, err)
		}

		if res.OwnerID == "" || res.OwnerID != ownerID {
			return nil, fmt.Errorf("%s: %w", st.Name, ErrForbidden)
		}
		if i > 0 && res.ParentID != parentID {
			return nil, fmt.Errorf("%s: %w", st.Name, ErrForbidden)
		}

		parentID = res.ID
		out = append(out, res)
	}

	return out, nil
}

package cascade

import "context"

// Collection identifica las colecciones del store para el batch de borrado.
type Collection string

const (
	CollectionLitters       Collection = "litters"
	CollectionKittens       Collection = "kittens"
	CollectionWeightRecords Collection = "weightRecords"
)

// MembershipQueryLimit es el tope del operador de membresía del store
// subyacente: una consulta "id in (...)" acepta a lo sumo 30 valores,
// así que conjuntos más grandes se consultan en tandas.
const MembershipQueryLimit = 30

// Ref apunta a un documento a borrar.
type Ref struct {
	Collection Collection
	ID         string
}

// KittenIDLister devuelve los IDs de gatitos de una camada, filtrando por
// dueño como chequeo redundante.
type KittenIDLister interface {
	KittenIDsByLitter(ctx context.Context, litterID, ownerUserID string) ([]string, error)
}

// WeightIDLister devuelve los IDs de registros de peso cuyos gatitos están
// en kittenIDs. El caller garantiza len(kittenIDs) <= MembershipQueryLimit.
type WeightIDLister interface {
	WeightIDsByKittens(ctx context.Context, kittenIDs []string, ownerUserID string) ([]string, error)
}

// BatchWriter commitea un conjunto de borrados como unidad atómica:
// o se borra todo o no se borra nada.
type BatchWriter interface {
	DeleteBatch(ctx context.Context, refs []Ref) error
}

// Service implementa el protocolo de borrado en cascada en dos fases:
// primero se junta todo lo que cae (lecturas), después un único batch
// atómico (escritura). El store no tiene cascada nativa entre colecciones
// ni transacciones de lectura abierta + escritura, de ahí el diseño.
//
// Sin control de concurrencia entre la verificación de pertenencia del
// caller y el commit: una carrera con otro request es posible y aceptada.
type Service struct {
	kittens KittenIDLister
	weights WeightIDLister
	batch   BatchWriter
}

func NewService(kittens KittenIDLister, weights WeightIDLister, batch BatchWriter) *Service {
	return &Service{
		kittens: kittens,
		weights: weights,
		batch:   batch,
	}
}

// DeleteLitter borra la camada, todos sus gatitos y todos los registros de
// peso de esos gatitos, como una sola unidad. El caller ya verificó que
// ownerUserID es dueño de la camada.
func (s *Service) DeleteLitter(ctx context.Context, ownerUserID, litterID string) error {
	kittenIDs, err := s.kittens.KittenIDsByLitter(ctx, litterID, ownerUserID)
	if err != nil {
		return err
	}

	refs := make([]Ref, 0, len(kittenIDs)+1)

	if len(kittenIDs) > 0 {
		weightIDs, err := s.gatherWeightIDs(ctx, kittenIDs, ownerUserID)
		if err != nil {
			return err
		}
		for _, id := range weightIDs {
			refs = append(refs, Ref{Collection: CollectionWeightRecords, ID: id})
		}
	}

	for _, id := range kittenIDs {
		refs = append(refs, Ref{Collection: CollectionKittens, ID: id})
	}
	refs = append(refs, Ref{Collection: CollectionLitters, ID: litterID})

	return s.batch.DeleteBatch(ctx, refs)
}

// DeleteKitten borra el gatito y sus registros de peso como una sola unidad.
func (s *Service) DeleteKitten(ctx context.Context, ownerUserID, kittenID string) error {
	weightIDs, err := s.weights.WeightIDsByKittens(ctx, []string{kittenID}, ownerUserID)
	if err != nil {
		return err
	}

	refs := make([]Ref, 0, len(weightIDs)+1)
	for _, id := range weightIDs {
		refs = append(refs, Ref{Collection: CollectionWeightRecords, ID: id})
	}
	refs = append(refs, Ref{Collection: CollectionKittens, ID: kittenID})

	return s.batch.DeleteBatch(ctx, refs)
}

// gatherWeightIDs particiona kittenIDs en tandas de MembershipQueryLimit
// y acumula los resultados de una consulta de membresía por tanda.
func (s *Service) gatherWeightIDs(ctx context.Context, kittenIDs []string, ownerUserID string) ([]string, error) {
	out := make([]string, 0)
	for start := 0; start < len(kittenIDs); start += MembershipQueryLimit {
		end := start + MembershipQueryLimit
		if end > len(kittenIDs) {
			end = len(kittenIDs)
		}

		ids, err := s.weights.WeightIDsByKittens(ctx, kittenIDs[start:end], ownerUserID)
		if err != nil {
			return nil, err
		}
		out = append(out, ids...)
	}
	return out, nil
}

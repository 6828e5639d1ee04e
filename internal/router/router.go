package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "litter-tracker/internal/adapters/storage/memory"
	pg "litter-tracker/internal/adapters/storage/postgres"
	"litter-tracker/internal/domain/cascade"
	"litter-tracker/internal/domain/kittens"
	"litter-tracker/internal/domain/litters"
	"litter-tracker/internal/domain/weights"
	"litter-tracker/internal/middleware"
	"litter-tracker/internal/platform/idcodec"
	"litter-tracker/internal/platform/logger"
	"litter-tracker/internal/ports/auth"
	"litter-tracker/internal/ports/blob"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Codec para ofuscar IDs en la API. Requerido.
	Codec *idcodec.Codec

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: store de fotos. Si es nil, subir foto devuelve 500.
	Photos blob.Store

	// Opcional: logger de requests. Si es nil, no se loguea por request.
	Log logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if opts.Log != nil {
		r.Use(middleware.RequestLogger(opts.Log))
	}

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		litterRepo   litters.Repository
		kittenRepo   kittens.Repository
		weightRepo   weights.Repository
		kittenLister cascade.KittenIDLister
		weightLister cascade.WeightIDLister
		batchWriter  cascade.BatchWriter
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		kittensRepo := pg.NewKittensRepo(db)
		weightsRepo := pg.NewWeightsRepo(db)

		litterRepo = pg.NewLittersRepo(db)
		kittenRepo = kittensRepo
		weightRepo = weightsRepo
		kittenLister = kittensRepo
		weightLister = weightsRepo
		batchWriter = pg.NewBatchWriter(db)
	} else {
		store := mem.NewStore()

		litterRepo = store.Litters()
		kittenRepo = store.Kittens()
		weightRepo = store.Weights()
		kittenLister = store.KittensIDs()
		weightLister = store.WeightsIDs()
		batchWriter = store
	}

	// Services por módulo
	littersSvc := litters.NewService(litterRepo)
	kittensSvc := kittens.NewService(kittenRepo)
	weightsSvc := weights.NewService(weightRepo)

	cascadeSvc := cascade.NewService(kittenLister, weightLister, batchWriter)

	// Rutas por módulo
	litters.RegisterRoutes(r, littersSvc, kittensSvc, cascadeSvc, opts.Codec)
	kittens.RegisterRoutes(r, kittensSvc, littersSvc, weightsSvc, cascadeSvc, opts.Codec)
	weights.RegisterRoutes(r, weightsSvc, littersSvc, kittensSvc, opts.Photos, opts.Codec)

	return r
}

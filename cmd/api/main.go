package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"litter-tracker/internal/adapters/auth/bearer"
	"litter-tracker/internal/adapters/blob/s3"
	"litter-tracker/internal/platform/idcodec"
	"litter-tracker/internal/platform/logger"
	"litter-tracker/internal/ports/auth"
	"litter-tracker/internal/ports/blob"
	"litter-tracker/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env es opcional (dev); en prod las vars vienen del entorno.
	_ = godotenv.Load()

	log := logger.NewFromEnv()

	codec, err := idcodec.New(os.Getenv("ID_ENCRYPTION_KEY"))
	if err != nil {
		log.Error("invalid ID_ENCRYPTION_KEY", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Verifier opcional: sin AUTH_ISSUER corre en modo dev (X-Debug-User-ID).
	var verifier auth.AuthVerifier
	if issuer := os.Getenv("AUTH_ISSUER"); issuer != "" {
		verifier = bearer.NewVerifier(bearer.Config{
			Issuer:   issuer,
			Audience: os.Getenv("AUTH_AUDIENCE"),
		})
	}

	// Store de fotos opcional: sin bucket, subir una foto devuelve 500.
	var photos blob.Store
	if os.Getenv("BLOB_S3_BUCKET") != "" {
		store, err := s3.OpenFromEnv(context.Background())
		if err != nil {
			log.Error("s3 store init failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		photos = store
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Codec:        codec,
		Photos:       photos,
		Log:          log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{
		"addr":     addr,
		"dev_auth": verifier == nil,
	})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

package litters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"litter-tracker/internal/domain/ownership"
	"litter-tracker/internal/middleware"
	"litter-tracker/internal/platform/idcodec"

	"github.com/go-chi/chi/v5"
)

// KittenSummary es la vista de un gatito embebida en el detalle de la
// camada. El tipo vive acá (y no en kittens) para evitar ciclos de imports:
// kittens ya importa litters por la cadena de pertenencia.
type KittenSummary struct {
	ID          string
	Name        string
	Gender      string
	Color       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// KittenSource la implementa el servicio de kittens.
type KittenSource interface {
	SummariesByLitter(ctx context.Context, litterID, ownerUserID string) ([]KittenSummary, error)
}

// Deleter la implementa el servicio de cascade.
type Deleter interface {
	DeleteLitter(ctx context.Context, ownerUserID, litterID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, kittens KittenSource, del Deleter, codec *idcodec.Codec) {
	r.Route("/litters", func(lr chi.Router) {
		lr.Post("/", createLitterHandler(svc, codec))
		lr.Get("/", listLittersHandler(svc, codec))

		lr.Route("/{litterID}", func(ir chi.Router) {
			// Los IDs de path llegan como tokens opacos; se descifran acá,
			// antes de cualquier handler. Token inválido => 404.
			ir.Use(middleware.DecodeIDParams(codec, "litterID"))

			ir.Get("/", getLitterHandler(svc, kittens, codec))
			ir.Put("/", updateLitterHandler(svc, codec))
			ir.Delete("/", deleteLitterHandler(svc, del))
		})
	})
}

type createLitterRequest struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"dateOfBirth"` // YYYY-MM-DD
	MotherName  string `json:"motherName"`
	Breed       string `json:"breed"`
	Notes       string `json:"notes"`
}

type updateLitterRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Name        *string `json:"name"`
	DateOfBirth *string `json:"dateOfBirth"`
	MotherName  *string `json:"motherName"`
	Breed       *string `json:"breed"`
	Notes       *string `json:"notes"`
}

type litterResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dateOfBirth"`
	MotherName  string    `json:"motherName"`
	Breed       string    `json:"breed"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type kittenSummaryResponse struct {
	ID          string    `json:"id"`
	LitterID    string    `json:"litterId"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type litterDetailResponse struct {
	litterResponse
	Kittens []kittenSummaryResponse `json:"kittens"`
}

func createLitterHandler(svc *Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createLitterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.DateOfBirth) == "" {
			http.Error(w, "name and dateOfBirth are required", http.StatusBadRequest)
			return
		}
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			http.Error(w, "dateOfBirth must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		l, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			DateOfBirth: dob,
			MotherName:  req.MotherName,
			Breed:       req.Breed,
			Notes:       req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := toLitterResponse(codec, l)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func listLittersHandler(svc *Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]litterResponse, 0, len(items))
		for _, l := range items {
			resp, err := toLitterResponse(codec, l)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getLitterHandler(svc *Service, kittens KittenSource, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{svc.OwnershipStep()}, []string{litterID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		l, err := svc.GetByID(r.Context(), litterID)
		if err != nil {
			http.Error(w, "litter not found", http.StatusNotFound)
			return
		}

		summaries, err := kittens.SummariesByLitter(r.Context(), litterID, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		base, err := toLitterResponse(codec, l)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		detail := litterDetailResponse{
			litterResponse: base,
			Kittens:        make([]kittenSummaryResponse, 0, len(summaries)),
		}
		for _, k := range summaries {
			ks, err := toKittenSummaryResponse(codec, base.ID, k)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			detail.Kittens = append(detail.Kittens, ks)
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func updateLitterHandler(svc *Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{svc.OwnershipStep()}, []string{litterID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		var req updateLitterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dob *time.Time
		if req.DateOfBirth != nil {
			t, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				http.Error(w, "dateOfBirth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = &t
		}

		updated, err := svc.Update(r.Context(), litterID, UpdateInput{
			Name:        req.Name,
			DateOfBirth: dob,
			MotherName:  req.MotherName,
			Breed:       req.Breed,
			Notes:       req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNoFields), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "litter not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp, err := toLitterResponse(codec, updated)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func deleteLitterHandler(svc *Service, del Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{svc.OwnershipStep()}, []string{litterID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		if err := del.DeleteLitter(r.Context(), claims.UserID, litterID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Litter and associated data deleted successfully.",
		})
	}
}

func toLitterResponse(codec *idcodec.Codec, l Litter) (litterResponse, error) {
	id, err := codec.Encode(l.ID)
	if err != nil {
		return litterResponse{}, err
	}
	return litterResponse{
		ID:          id,
		Name:        l.Name,
		DateOfBirth: l.DateOfBirth.Format("2006-01-02"),
		MotherName:  l.MotherName,
		Breed:       l.Breed,
		Notes:       l.Notes,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}, nil
}

func toKittenSummaryResponse(codec *idcodec.Codec, encodedLitterID string, k KittenSummary) (kittenSummaryResponse, error) {
	id, err := codec.Encode(k.ID)
	if err != nil {
		return kittenSummaryResponse{}, err
	}
	return kittenSummaryResponse{
		ID:          id,
		LitterID:    encodedLitterID,
		Name:        k.Name,
		Gender:      k.Gender,
		Color:       k.Color,
		Description: k.Description,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}, nil
}

func writeOwnershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ownership.ErrNotFound):
		http.Error(w, "resource not found", http.StatusNotFound)
	case errors.Is(err, ownership.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo
// (litters/kittens/weights); extraerlo a un helper común todavía no paga.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

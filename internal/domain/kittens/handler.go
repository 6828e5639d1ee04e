package kittens

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"litter-tracker/internal/domain/litters"
	"litter-tracker/internal/domain/ownership"
	"litter-tracker/internal/middleware"
	"litter-tracker/internal/platform/idcodec"

	"github.com/go-chi/chi/v5"
)

// WeightSummary es la vista de un registro de peso embebida en el detalle
// del gatito (mismo truco anti-ciclos que litters.KittenSummary).
type WeightSummary struct {
	ID            string
	DateRecorded  time.Time
	WeightInGrams float64
	Notes         string
	PhotoURL      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// WeightSource la implementa el servicio de weights.
type WeightSource interface {
	SummariesByKitten(ctx context.Context, kittenID, ownerUserID string) ([]WeightSummary, error)
}

// Deleter la implementa el servicio de cascade.
type Deleter interface {
	DeleteKitten(ctx context.Context, ownerUserID, kittenID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, littersSvc *litters.Service, weights WeightSource, del Deleter, codec *idcodec.Codec) {
	r.Route("/litters/{litterID}/kittens", func(kr chi.Router) {
		kr.Use(middleware.DecodeIDParams(codec, "litterID"))

		kr.Post("/", createKittenHandler(svc, littersSvc, codec))
		kr.Get("/", listKittensHandler(svc, littersSvc, codec))

		kr.Route("/{kittenID}", func(ir chi.Router) {
			ir.Use(middleware.DecodeIDParams(codec, "kittenID"))

			ir.Get("/", getKittenHandler(svc, littersSvc, weights, codec))
			ir.Put("/", updateKittenHandler(svc, littersSvc, codec))
			ir.Delete("/", deleteKittenHandler(svc, littersSvc, del))
		})
	})
}

type createKittenRequest struct {
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type updateKittenRequest struct {
	Name        *string `json:"name"`
	Gender      *string `json:"gender"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
}

type kittenResponse struct {
	ID          string    `json:"id"`
	LitterID    string    `json:"litterId"`
	Name        string    `json:"name"`
	Gender      string    `json:"gender"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type weightSummaryResponse struct {
	ID            string    `json:"id"`
	KittenID      string    `json:"kittenId"`
	DateRecorded  string    `json:"dateRecorded"`
	WeightInGrams float64   `json:"weightInGrams"`
	Notes         string    `json:"notes"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type kittenDetailResponse struct {
	kittenResponse
	Weights []weightSummaryResponse `json:"weights"`
}

func createKittenHandler(svc *Service, littersSvc *litters.Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		// Create: se verifica solo la cadena de padres (el hijo no existe aún).
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep()}, []string{litterID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		var req createKittenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "kitten name is required", http.StatusBadRequest)
			return
		}

		k, err := svc.Create(r.Context(), claims.UserID, litterID, CreateInput{
			Name:        req.Name,
			Gender:      req.Gender,
			Color:       req.Color,
			Description: req.Description,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := toKittenResponse(codec, k)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func listKittensHandler(svc *Service, littersSvc *litters.Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep()}, []string{litterID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		items, err := svc.ListByLitter(r.Context(), litterID, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]kittenResponse, 0, len(items))
		for _, k := range items {
			resp, err := toKittenResponse(codec, k)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getKittenHandler(svc *Service, littersSvc *litters.Service, weights WeightSource, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), svc.OwnershipStep()},
			[]string{litterID, kittenID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		k, err := svc.GetByID(r.Context(), kittenID)
		if err != nil {
			http.Error(w, "kitten not found", http.StatusNotFound)
			return
		}

		summaries, err := weights.SummariesByKitten(r.Context(), kittenID, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		base, err := toKittenResponse(codec, k)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		detail := kittenDetailResponse{
			kittenResponse: base,
			Weights:        make([]weightSummaryResponse, 0, len(summaries)),
		}
		for _, ws := range summaries {
			resp, err := toWeightSummaryResponse(codec, base.ID, ws)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			detail.Weights = append(detail.Weights, resp)
		}

		writeJSON(w, http.StatusOK, detail)
	}
}

func updateKittenHandler(svc *Service, littersSvc *litters.Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), svc.OwnershipStep()},
			[]string{litterID, kittenID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		var req updateKittenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		updated, err := svc.Update(r.Context(), kittenID, UpdateInput{
			Name:        req.Name,
			Gender:      req.Gender,
			Color:       req.Color,
			Description: req.Description,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNoFields), errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "kitten not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp, err := toKittenResponse(codec, updated)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func deleteKittenHandler(svc *Service, littersSvc *litters.Service, del Deleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), svc.OwnershipStep()},
			[]string{litterID, kittenID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		if err := del.DeleteKitten(r.Context(), claims.UserID, kittenID); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Kitten and associated weight records deleted successfully.",
		})
	}
}

func toKittenResponse(codec *idcodec.Codec, k Kitten) (kittenResponse, error) {
	id, err := codec.Encode(k.ID)
	if err != nil {
		return kittenResponse{}, err
	}
	litterID, err := codec.Encode(k.LitterID)
	if err != nil {
		return kittenResponse{}, err
	}
	return kittenResponse{
		ID:          id,
		LitterID:    litterID,
		Name:        k.Name,
		Gender:      k.Gender,
		Color:       k.Color,
		Description: k.Description,
		CreatedAt:   k.CreatedAt,
		UpdatedAt:   k.UpdatedAt,
	}, nil
}

func toWeightSummaryResponse(codec *idcodec.Codec, encodedKittenID string, ws WeightSummary) (weightSummaryResponse, error) {
	id, err := codec.Encode(ws.ID)
	if err != nil {
		return weightSummaryResponse{}, err
	}
	return weightSummaryResponse{
		ID:            id,
		KittenID:      encodedKittenID,
		DateRecorded:  ws.DateRecorded.Format("2006-01-02"),
		WeightInGrams: ws.WeightInGrams,
		Notes:         ws.Notes,
		PhotoURL:      ws.PhotoURL,
		CreatedAt:     ws.CreatedAt,
		UpdatedAt:     ws.UpdatedAt,
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

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package weights

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"litter-tracker/internal/domain/kittens"
	"litter-tracker/internal/domain/litters"
	"litter-tracker/internal/domain/ownership"
	"litter-tracker/internal/middleware"
	"litter-tracker/internal/platform/idcodec"
	"litter-tracker/internal/ports/blob"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const maxPhotoMemory = 10 << 20 // 10MB en memoria para el multipart

func RegisterRoutes(r chi.Router, svc *Service, littersSvc *litters.Service, kittensSvc *kittens.Service, photos blob.Store, codec *idcodec.Codec) {
	r.Route("/litters/{litterID}/kittens/{kittenID}/weights", func(wr chi.Router) {
		wr.Use(middleware.DecodeIDParams(codec, "litterID", "kittenID"))

		wr.Post("/", createWeightHandler(svc, littersSvc, kittensSvc, photos, codec))
		wr.Get("/", listWeightsHandler(svc, littersSvc, kittensSvc, codec))

		wr.Route("/{weightID}", func(ir chi.Router) {
			ir.Use(middleware.DecodeIDParams(codec, "weightID"))

			ir.Put("/", updateWeightHandler(svc, littersSvc, kittensSvc, codec))
			ir.Delete("/", deleteWeightHandler(svc, littersSvc, kittensSvc))
		})
	})
}

type createWeightRequest struct {
	DateRecorded  string `json:"dateRecorded"` // YYYY-MM-DD
	WeightInGrams string `json:"weightInGrams"`
	Notes         string `json:"notes"`
}

type updateWeightRequest struct {
	DateRecorded  *string  `json:"dateRecorded"`
	WeightInGrams *float64 `json:"weightInGrams"`
	Notes         *string  `json:"notes"`
}

type weightResponse struct {
	ID            string    `json:"id"`
	KittenID      string    `json:"kittenId"`
	DateRecorded  string    `json:"dateRecorded"`
	WeightInGrams float64   `json:"weightInGrams"`
	Notes         string    `json:"notes"`
	PhotoURL      string    `json:"photoUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// createWeightHandler godoc
// @Summary Registrar peso de un gatito
// @Description Crea un registro de peso para el gatito indicado. Acepta multipart/form-data con un campo `photo` opcional (la foto se sube al blob store y el registro se persiste recién cuando la subida termina) o JSON plano sin foto. El peso debe ser estrictamente positivo.
// @Tags weights
// @Accept mpfd
// @Produce json
// @Param litterID path string true "Token de la camada"
// @Param kittenID path string true "Token del gatito"
// @Param dateRecorded formData string true "Fecha de la medición, YYYY-MM-DD"
// @Param weightInGrams formData number true "Peso en gramos (> 0)"
// @Param notes formData string false "Notas"
// @Param photo formData file false "Foto opcional"
// @Success 201 {object} weightResponse
// @Failure 400 {string} string "validación"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "resource not found"
// @Router /litters/{litterID}/kittens/{kittenID}/weights [post]
func createWeightHandler(svc *Service, littersSvc *litters.Service, kittensSvc *kittens.Service, photos blob.Store, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), kittensSvc.OwnershipStep()},
			[]string{litterID, kittenID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		req, hasPhoto, err := decodeCreateWeight(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.DateRecorded) == "" || strings.TrimSpace(req.WeightInGrams) == "" {
			http.Error(w, "dateRecorded and weightInGrams are required", http.StatusBadRequest)
			return
		}
		date, err := time.Parse("2006-01-02", req.DateRecorded)
		if err != nil {
			http.Error(w, "dateRecorded must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		grams, err := strconv.ParseFloat(strings.TrimSpace(req.WeightInGrams), 64)
		if err != nil || grams <= 0 {
			http.Error(w, ErrInvalidWeight.Error(), http.StatusBadRequest)
			return
		}

		// La foto se sube primero; el registro se escribe solo si la subida
		// terminó bien. Si el blob store falla, el create falla entero.
		photoURL := ""
		if hasPhoto {
			file, header, err := r.FormFile("photo")
			if err != nil {
				http.Error(w, "invalid photo field", http.StatusBadRequest)
				return
			}
			defer file.Close()

			if photos == nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			key := fmt.Sprintf("kitten-weights/%s/%s/%s-%s",
				claims.UserID, kittenID, uuid.NewString(), header.Filename)
			url, err := photos.Put(r.Context(), key, file, header.Header.Get("Content-Type"))
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			photoURL = url
		}

		rec, err := svc.Create(r.Context(), claims.UserID, kittenID, CreateInput{
			DateRecorded:  date,
			WeightInGrams: grams,
			Notes:         req.Notes,
			PhotoURL:      photoURL,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidWeight) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp, err := toWeightResponse(codec, rec)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

// decodeCreateWeight acepta multipart (con foto opcional) o JSON plano.
func decodeCreateWeight(r *http.Request) (createWeightRequest, bool, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoMemory); err != nil {
			return createWeightRequest{}, false, errors.New("invalid multipart form")
		}
		req := createWeightRequest{
			DateRecorded:  r.FormValue("dateRecorded"),
			WeightInGrams: r.FormValue("weightInGrams"),
			Notes:         r.FormValue("notes"),
		}
		hasPhoto := false
		if r.MultipartForm != nil && len(r.MultipartForm.File["photo"]) > 0 {
			hasPhoto = true
		}
		return req, hasPhoto, nil
	}

	var aux struct {
		DateRecorded  string      `json:"dateRecorded"`
		WeightInGrams json.Number `json:"weightInGrams"`
		Notes         string      `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&aux); err != nil {
		return createWeightRequest{}, false, errors.New("invalid json")
	}
	return createWeightRequest{
		DateRecorded:  aux.DateRecorded,
		WeightInGrams: aux.WeightInGrams.String(),
		Notes:         aux.Notes,
	}, false, nil
}

func listWeightsHandler(svc *Service, littersSvc *litters.Service, kittensSvc *kittens.Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), kittensSvc.OwnershipStep()},
			[]string{litterID, kittenID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		items, err := svc.ListByKitten(r.Context(), kittenID, claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]weightResponse, 0, len(items))
		for _, rec := range items {
			resp, err := toWeightResponse(codec, rec)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			out = append(out, resp)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func updateWeightHandler(svc *Service, littersSvc *litters.Service, kittensSvc *kittens.Service, codec *idcodec.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		weightID := chi.URLParam(r, "weightID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), kittensSvc.OwnershipStep(), svc.OwnershipStep()},
			[]string{litterID, kittenID, weightID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		var req updateWeightRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var date *time.Time
		if req.DateRecorded != nil {
			t, err := time.Parse("2006-01-02", *req.DateRecorded)
			if err != nil {
				http.Error(w, "dateRecorded must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = &t
		}

		updated, err := svc.Update(r.Context(), weightID, UpdateInput{
			DateRecorded:  date,
			WeightInGrams: req.WeightInGrams,
			Notes:         req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrNoFields), errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidWeight):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "weight record not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		resp, err := toWeightResponse(codec, updated)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func deleteWeightHandler(svc *Service, littersSvc *litters.Service, kittensSvc *kittens.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		litterID := chi.URLParam(r, "litterID")
		kittenID := chi.URLParam(r, "kittenID")
		weightID := chi.URLParam(r, "weightID")
		if _, err := ownership.Verify(r.Context(), claims.UserID,
			[]ownership.Step{littersSvc.OwnershipStep(), kittensSvc.OwnershipStep(), svc.OwnershipStep()},
			[]string{litterID, kittenID, weightID}); err != nil {
			writeOwnershipError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), weightID); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "weight record not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Weight record deleted successfully.",
		})
	}
}

func toWeightResponse(codec *idcodec.Codec, rec WeightRecord) (weightResponse, error) {
	id, err := codec.Encode(rec.ID)
	if err != nil {
		return weightResponse{}, err
	}
	kittenID, err := codec.Encode(rec.KittenID)
	if err != nil {
		return weightResponse{}, err
	}
	return weightResponse{
		ID:            id,
		KittenID:      kittenID,
		DateRecorded:  rec.DateRecorded.Format("2006-01-02"),
		WeightInGrams: rec.WeightInGrams,
		Notes:         rec.Notes,
		PhotoURL:      rec.PhotoURL,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
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

package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"karting-service/api"
	"karting-service/pkg/response"
	"karting-service/pkg/sl"
)

type KartUpdater interface {
	UpdateKart(ctx context.Context, kartID string, req *api.KartUpdateRequest) (*api.KartResponse, error)
}

type Request struct {
	api.KartUpdateRequest
}

type Response struct {
	response.Response
	Kart api.KartResponse `json:"kart,omitempty"`
}

func New(log *slog.Logger, updater KartUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.karts.update.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		kart, err := updater.UpdateKart(r.Context(), id, &req.KartUpdateRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("kart not found", slog.String("kart_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "kart not found"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("kart number already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "kart number already exists"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid kart update", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid kart update"))
			return
		}

		if err != nil {
			log.Error("Failed to update kart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update kart"))
			return
		}

		log.Info("Kart updated", slog.Any("kart", kart))

		render.JSON(w, r, Response{
			Kart: *kart,
		})
	}
}

package get

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

type PilotProvider interface {
	GetPilot(ctx context.Context, pilotID string) (*api.PilotResponse, error)
}

type Response struct {
	response.Response
	Pilot api.PilotResponse `json:"pilot,omitempty"`
}

func New(log *slog.Logger, provider PilotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pilots.get.New"

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

		pilot, err := provider.GetPilot(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("pilot not found", slog.String("pilot_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "pilot not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get pilot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get pilot"))
			return
		}

		log.Info("Pilot found", slog.Any("pilot", pilot))

		render.JSON(w, r, Response{
			Pilot: *pilot,
		})
	}
}

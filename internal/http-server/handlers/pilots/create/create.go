package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"karting-service/api"
	"karting-service/pkg/response"
	"karting-service/pkg/sl"
)

type PilotCreator interface {
	CreatePilot(ctx context.Context, req *api.PilotCreateRequest) (*api.PilotResponse, error)
}

type Request struct {
	api.PilotCreateRequest
}

type Response struct {
	response.Response
	Pilot api.PilotResponse `json:"pilot,omitempty"`
}

func New(log *slog.Logger, creator PilotCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pilots.create.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if req.Name == "" {
			log.Error("name is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "name is required"))
			return
		}

		pilot, err := creator.CreatePilot(r.Context(), &req.PilotCreateRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid pilot request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid pilot request"))
			return
		}

		if err != nil {
			log.Error("Failed to create pilot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create pilot"))
			return
		}

		log.Info("Pilot created", slog.Any("pilot", pilot))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Pilot: *pilot,
		})
	}
}

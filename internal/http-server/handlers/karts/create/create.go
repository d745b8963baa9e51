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

type KartCreator interface {
	CreateKart(ctx context.Context, req *api.KartCreateRequest) (*api.KartResponse, error)
}

type Request struct {
	api.KartCreateRequest
}

type Response struct {
	response.Response
	Kart api.KartResponse `json:"kart,omitempty"`
}

func New(log *slog.Logger, creator KartCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.karts.create.New"

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

		if req.Number == "" {
			log.Error("number is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "number is required"))
			return
		}

		kart, err := creator.CreateKart(r.Context(), &req.KartCreateRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid kart request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid kart request"))
			return
		}

		if errors.Is(err, response.ErrConflict) {
			log.Error("kart number already exists", slog.String("number", req.Number))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.CONFLICT), "kart number already exists"))
			return
		}

		if err != nil {
			log.Error("Failed to create kart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to create kart"))
			return
		}

		log.Info("Kart created", slog.Any("kart", kart))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Kart: *kart,
		})
	}
}

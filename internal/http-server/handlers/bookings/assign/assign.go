package assign

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

type KartAssigner interface {
	AssignKart(ctx context.Context, bookingID string, kartID *string, autoAssign bool) (*string, error)
}

type Request struct {
	api.AssignKartRequest
}

type Response struct {
	response.Response
	Assignment api.AssignKartResponse `json:"assignment,omitempty"`
}

func New(log *slog.Logger, assigner KartAssigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.bookings.assign.New"

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

		newKartID, err := assigner.AssignKart(r.Context(), id, req.KartID, req.AutoAssign)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrKartNotAvailable) {
			log.Error("kart is not available")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.KART_NOT_AVAILABLE), "kart is not available"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("slot is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "time slot is locked, retry"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid assignment request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid assignment request"))
			return
		}

		if err != nil {
			log.Error("Failed to assign kart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to assign kart"))
			return
		}

		log.Info("Kart assignment updated", slog.String("booking_id", id))
		responseOK(w, r, api.AssignKartResponse{BookingID: id, KartID: newKartID})
	}
}

func responseOK(w http.ResponseWriter, r *http.Request, assignment api.AssignKartResponse) {
	render.JSON(w, r, Response{
		Assignment: assignment,
	})
}

package availability

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

type AvailabilitySetter interface {
	SetKartAvailability(ctx context.Context, req *api.KartAvailabilityRequest) (string, error)
}

type Request struct {
	api.KartAvailabilityRequest
}

type Response struct {
	response.Response
	AvailabilityID string `json:"availability_id,omitempty"`
}

func New(log *slog.Logger, setter AvailabilitySetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.karts.availability.New"

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

		if req.KartID == "" || req.Date == "" || req.TimeSlotID == "" {
			log.Error("kart_id, date and time_slot_id are required")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "kart_id, date and time_slot_id are required"))
			return
		}

		availabilityID, err := setter.SetKartAvailability(r.Context(), &req.KartAvailabilityRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("kart or time slot not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "kart or time slot not found"))
			return
		}

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid availability request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid availability request"))
			return
		}

		if err != nil {
			log.Error("Failed to set kart availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to set kart availability"))
			return
		}

		log.Info("Kart availability set", slog.String("availability_id", availabilityID))

		render.JSON(w, r, Response{
			AvailabilityID: availabilityID,
		})
	}
}

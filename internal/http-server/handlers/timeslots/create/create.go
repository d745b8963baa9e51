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

type TimeSlotSaver interface {
	CreateOrUpdateTimeSlot(ctx context.Context, req *api.TimeSlotRequest) (string, error)
}

type Request struct {
	api.TimeSlotRequest
}

type Response struct {
	response.Response
	TimeSlotID string `json:"time_slot_id,omitempty"`
}

func New(log *slog.Logger, saver TimeSlotSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timeslots.create.New"

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

		if req.Date == "" || req.StartTime == "" || req.EndTime == "" {
			log.Error("date, start_time and end_time are required")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date, start_time and end_time are required"))
			return
		}

		timeSlotID, err := saver.CreateOrUpdateTimeSlot(r.Context(), &req.TimeSlotRequest)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid time slot request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid time slot request"))
			return
		}

		if errors.Is(err, response.ErrNotFound) {
			log.Error("assigned kart not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "assigned kart not found"))
			return
		}

		if err != nil {
			log.Error("Failed to save time slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to save time slot"))
			return
		}

		log.Info("Time slot saved", slog.String("time_slot_id", timeSlotID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			TimeSlotID: timeSlotID,
		})
	}
}

package get

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

type TimeSlotsProvider interface {
	ListTimeSlots(ctx context.Context, date string, kartType *string) ([]*api.TimeSlotResponse, error)
}

type Response struct {
	response.Response
	TimeSlots []*api.TimeSlotResponse `json:"time_slots"`
}

func New(log *slog.Logger, provider TimeSlotsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timeslots.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		date := r.URL.Query().Get("date")
		if date == "" {
			log.Error("date is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "date is required"))
			return
		}

		var kartType *string
		if kt := r.URL.Query().Get("kart_type"); kt != "" {
			kartType = &kt
		}

		slots, err := provider.ListTimeSlots(r.Context(), date, kartType)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid query parameters", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid query parameters"))
			return
		}

		if err != nil {
			log.Error("Failed to list time slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list time slots"))
			return
		}

		log.Info("Time slots listed", slog.String("date", date), slog.Int("count", len(slots)))

		render.JSON(w, r, Response{
			TimeSlots: slots,
		})
	}
}

package available

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"karting-service/api"
	"karting-service/internal/models"
	"karting-service/pkg/response"
	"karting-service/pkg/sl"
)

type AvailableKartsProvider interface {
	GetAvailableKarts(ctx context.Context, kartType, date string, timeSlotID *string) ([]models.Kart, error)
}

type Response struct {
	response.Response
	Karts []api.KartResponse `json:"karts"`
}

func New(log *slog.Logger, provider AvailableKartsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.karts.available.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		kartType := r.URL.Query().Get("kart_type")
		date := r.URL.Query().Get("date")
		if kartType == "" || date == "" {
			log.Error("kart_type and date are required")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "kart_type and date are required"))
			return
		}

		var timeSlotID *string
		if slotID := r.URL.Query().Get("time_slot_id"); slotID != "" {
			timeSlotID = &slotID
		}

		karts, err := provider.GetAvailableKarts(r.Context(), kartType, date, timeSlotID)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid query parameters", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid query parameters"))
			return
		}

		if err != nil {
			log.Error("Failed to list available karts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list available karts"))
			return
		}

		log.Info("Available karts listed", slog.Int("count", len(karts)))

		out := make([]api.KartResponse, 0, len(karts))
		for _, k := range karts {
			out = append(out, api.KartResponse{
				ID:                    k.ID,
				Number:                k.Number,
				Type:                  string(k.Type),
				Brand:                 k.Brand,
				Model:                 k.Model,
				Status:                string(k.Status),
				TotalHours:            k.TotalHours,
				IsAvailableForBooking: k.IsAvailableForBooking,
				MaxDailyHours:         k.MaxDailyHours,
			})
		}

		render.JSON(w, r, Response{Karts: out})
	}
}

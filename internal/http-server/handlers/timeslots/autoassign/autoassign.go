package autoassign

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"karting-service/pkg/response"
	"karting-service/pkg/sl"
)

type SlotKartAssigner interface {
	AutoAssignKartsToSlot(ctx context.Context, timeSlotID string) (int, error)
}

type Response struct {
	response.Response
	TimeSlotID    string `json:"time_slot_id"`
	AssignedKarts int    `json:"assigned_karts"`
}

func New(log *slog.Logger, assigner SlotKartAssigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timeslots.autoassign.New"

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

		count, err := assigner.AutoAssignKartsToSlot(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("time slot not found", slog.String("time_slot_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "time slot not found"))
			return
		}

		if errors.Is(err, response.ErrLocked) {
			log.Error("slot is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "time slot is locked, retry"))
			return
		}

		if err != nil {
			log.Error("Failed to auto-assign karts to slot", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to auto-assign karts"))
			return
		}

		log.Info("Karts assigned to slot", slog.String("time_slot_id", id), slog.Int("count", count))

		render.JSON(w, r, Response{
			TimeSlotID:    id,
			AssignedKarts: count,
		})
	}
}

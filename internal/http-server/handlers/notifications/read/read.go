package read

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

type NotificationReader interface {
	MarkNotificationRead(ctx context.Context, notificationID string) error
}

type Response struct {
	response.Response
	NotificationID string `json:"notification_id,omitempty"`
}

func New(log *slog.Logger, reader NotificationReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.read.New"

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

		err := reader.MarkNotificationRead(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("notification not found", slog.String("notification_id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "notification not found"))
			return
		}

		if err != nil {
			log.Error("Failed to mark notification as read", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to mark notification as read"))
			return
		}

		log.Info("Notification marked as read", slog.String("notification_id", id))

		render.JSON(w, r, Response{
			NotificationID: id,
		})
	}
}

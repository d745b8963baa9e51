package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"karting-service/api"
	"karting-service/pkg/response"
	"karting-service/pkg/sl"
)

type NotificationsProvider interface {
	ListNotifications(ctx context.Context, isRead *bool, limit int) ([]*api.NotificationResponse, error)
}

type Response struct {
	response.Response
	Notifications []*api.NotificationResponse `json:"notifications"`
}

func New(log *slog.Logger, provider NotificationsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.notifications.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var isRead *bool
		if v := r.URL.Query().Get("is_read"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				log.Error("invalid is_read value", slog.String("is_read", v))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid is_read value"))
				return
			}
			isRead = &parsed
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				log.Error("invalid limit value", slog.String("limit", v))
				w.WriteHeader(http.StatusBadRequest)
				render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid limit value"))
				return
			}
			limit = parsed
		}

		notifications, err := provider.ListNotifications(r.Context(), isRead, limit)

		if errors.Is(err, response.ErrBadRequest) {
			log.Error("invalid query parameters", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid query parameters"))
			return
		}

		if err != nil {
			log.Error("Failed to list notifications", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list notifications"))
			return
		}

		log.Info("Notifications listed", slog.Int("count", len(notifications)))

		render.JSON(w, r, Response{
			Notifications: notifications,
		})
	}
}

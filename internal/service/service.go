package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"karting-service/api"
	"karting-service/internal/lock"
	"karting-service/internal/models"
	"karting-service/pkg/response"
)

const slotLockTTL = 10 * time.Second

// Tx is the unit of work handed out by the store. Every multi-step booking
// mutation commits through a single Tx.
type Tx interface {
	Commit() error
	Rollback() error
}

type Service struct {
	store  Store
	locker lock.Locker
}

func NewService(store Store, locker lock.Locker) *Service {
	return &Service{store: store, locker: locker}
}

type Store interface {
	BeginTx(ctx context.Context) (Tx, error)

	// Pilots
	CreatePilot(ctx context.Context, pilot *models.Pilot) (string, error)
	GetPilot(ctx context.Context, id string) (*models.Pilot, error)

	// Karts
	CreateKart(ctx context.Context, kart *models.Kart) (string, error)
	UpdateKart(ctx context.Context, kart *models.Kart) error
	GetKart(ctx context.Context, id string) (*models.Kart, error)
	ListBookableKarts(ctx context.Context, kartType string) ([]models.Kart, error)

	// Kart availability overrides
	UpsertKartAvailability(ctx context.Context, record *models.KartAvailability) (string, error)
	ListKartAvailabilityByDate(ctx context.Context, date string) ([]models.KartAvailability, error)
	ReplaceSlotAvailability(ctx context.Context, tx Tx, slotID, date string, kartIDs []string) error

	// Time slots
	GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error)
	FindActiveTimeSlot(ctx context.Context, date, startTime, kartType string) (*models.TimeSlot, error)
	ListTimeSlots(ctx context.Context, date string, kartType *string) ([]models.TimeSlot, error)
	UpsertTimeSlot(ctx context.Context, tx Tx, slot *models.TimeSlot) (string, error)
	SetSlotAssignedKarts(ctx context.Context, tx Tx, slotID string, kartIDs []string) error
	IncrementSlotPilots(ctx context.Context, tx Tx, slotID string) error
	DecrementSlotPilots(ctx context.Context, tx Tx, slotID string) error

	// Bookings
	CreateBooking(ctx context.Context, tx Tx, booking *models.Booking) (string, error)
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsBySlot(ctx context.Context, slotID string) ([]models.Booking, error)
	CountActiveBookingsBySlot(ctx context.Context, slotID string) (int, error)
	UpdateBookingStatus(ctx context.Context, tx Tx, bookingID string, status models.BookingStatus) error
	SetBookingKart(ctx context.Context, tx Tx, bookingID string, kartID *string) error

	// Notifications
	CreateNotification(ctx context.Context, tx Tx, notification *models.Notification) (string, error)
	ListNotifications(ctx context.Context, isRead *bool, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
}

// #### kart availability ####

// GetAvailableKarts returns the karts of the given type usable on date. With a
// time slot the set additionally excludes karts vetoed by an availability
// override and karts claimed by a non-cancelled booking of that slot. Without a
// time slot it is the slot-agnostic set (active, bookable karts of the type).
func (s *Service) GetAvailableKarts(ctx context.Context, kartType, date string, timeSlotID *string) ([]models.Kart, error) {
	const op = "service.GetAvailableKarts"

	if !models.ValidKartType(kartType) {
		return nil, fmt.Errorf("%s: invalid kart type %q: %w", op, kartType, response.ErrBadRequest)
	}
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	karts, err := s.store.ListBookableKarts(ctx, kartType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	active := make([]models.Kart, 0, len(karts))
	for _, kart := range karts {
		if kart.Status == models.KartActive {
			active = append(active, kart)
		}
	}

	if timeSlotID == nil {
		return active, nil
	}

	records, err := s.store.ListKartAvailabilityByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	vetoed := make(map[string]struct{})
	for _, record := range records {
		if record.TimeSlotID == *timeSlotID && !record.IsAvailable {
			vetoed[record.KartID] = struct{}{}
		}
	}

	bookings, err := s.store.ListBookingsBySlot(ctx, *timeSlotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	claimed := make(map[string]struct{})
	for _, booking := range bookings {
		if booking.Status != models.BookingCancelled && booking.AssignedKartID != nil {
			claimed[*booking.AssignedKartID] = struct{}{}
		}
	}

	available := make([]models.Kart, 0, len(active))
	for _, kart := range active {
		if _, ok := vetoed[kart.ID]; ok {
			continue
		}
		if _, ok := claimed[kart.ID]; ok {
			continue
		}
		available = append(available, kart)
	}

	return available, nil
}

// AutoAssignKart picks the available kart with the fewest total hours, ties
// broken by ascending kart id so repeated calls on the same state agree.
// A nil kart with nil error means nothing is assignable; that is an expected
// outcome, not a failure.
func (s *Service) AutoAssignKart(ctx context.Context, kartType, date, timeSlotID string, excludeKartIDs []string) (*models.Kart, error) {
	const op = "service.AutoAssignKart"

	karts, err := s.GetAvailableKarts(ctx, kartType, date, &timeSlotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	excluded := make(map[string]struct{}, len(excludeKartIDs))
	for _, id := range excludeKartIDs {
		excluded[id] = struct{}{}
	}

	candidates := make([]models.Kart, 0, len(karts))
	for _, kart := range karts {
		if _, ok := excluded[kart.ID]; !ok {
			candidates = append(candidates, kart)
		}
	}

	if len(candidates) == 0 {
		return nil, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].TotalHours != candidates[j].TotalHours {
			return candidates[i].TotalHours < candidates[j].TotalHours
		}
		return candidates[i].ID < candidates[j].ID
	})

	kart := candidates[0]
	return &kart, nil
}

func (s *Service) SetKartAvailability(ctx context.Context, req *api.KartAvailabilityRequest) (string, error) {
	const op = "service.SetKartAvailability"

	if _, err := time.Parse(models.DateFormat, req.Date); err != nil {
		return "", fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	if _, err := s.store.GetKart(ctx, req.KartID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.store.GetTimeSlot(ctx, req.TimeSlotID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.store.UpsertKartAvailability(ctx, &models.KartAvailability{
		KartID:            req.KartID,
		Date:              req.Date,
		TimeSlotID:        req.TimeSlotID,
		IsAvailable:       req.IsAvailable,
		MaintenanceReason: req.MaintenanceReason,
		Notes:             req.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

// #### karts ####

func (s *Service) CreateKart(ctx context.Context, req *api.KartCreateRequest) (*api.KartResponse, error) {
	const op = "service.CreateKart"

	if !models.ValidKartType(req.Type) {
		return nil, fmt.Errorf("%s: invalid kart type %q: %w", op, req.Type, response.ErrBadRequest)
	}

	kart := &models.Kart{
		Number:                req.Number,
		Type:                  models.KartType(req.Type),
		Brand:                 req.Brand,
		Model:                 req.Model,
		Status:                models.KartActive,
		TotalHours:            0,
		IsAvailableForBooking: true,
		MaxDailyHours:         8,
		Notes:                 req.Notes,
	}
	if req.IsAvailableForBooking != nil {
		kart.IsAvailableForBooking = *req.IsAvailableForBooking
	}
	if req.MaxDailyHours != nil {
		kart.MaxDailyHours = *req.MaxDailyHours
	}

	id, err := s.store.CreateKart(ctx, kart)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kart.ID = id
	return kartResponse(kart), nil
}

// UpdateKart patches the mutable kart fields. Status and availability changes
// take effect on the next availability read; existing assignments keep their
// kart.
func (s *Service) UpdateKart(ctx context.Context, id string, req *api.KartUpdateRequest) (*api.KartResponse, error) {
	const op = "service.UpdateKart"

	kart, err := s.store.GetKart(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if req.Type != nil {
		if !models.ValidKartType(*req.Type) {
			return nil, fmt.Errorf("%s: invalid kart type %q: %w", op, *req.Type, response.ErrBadRequest)
		}
		kart.Type = models.KartType(*req.Type)
	}
	if req.Status != nil {
		if !models.ValidKartStatus(*req.Status) {
			return nil, fmt.Errorf("%s: invalid kart status %q: %w", op, *req.Status, response.ErrBadRequest)
		}
		kart.Status = models.KartStatus(*req.Status)
	}
	if req.Number != nil {
		kart.Number = *req.Number
	}
	if req.Brand != nil {
		kart.Brand = *req.Brand
	}
	if req.Model != nil {
		kart.Model = *req.Model
	}
	if req.Notes != nil {
		kart.Notes = req.Notes
	}
	if req.IsAvailableForBooking != nil {
		kart.IsAvailableForBooking = *req.IsAvailableForBooking
	}
	if req.MaxDailyHours != nil {
		kart.MaxDailyHours = *req.MaxDailyHours
	}
	if req.TotalHours != nil {
		kart.TotalHours = *req.TotalHours
	}

	if err := s.store.UpdateKart(ctx, kart); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return kartResponse(kart), nil
}

func kartResponse(kart *models.Kart) *api.KartResponse {
	return &api.KartResponse{
		ID:                    kart.ID,
		Number:                kart.Number,
		Type:                  string(kart.Type),
		Brand:                 kart.Brand,
		Model:                 kart.Model,
		Status:                string(kart.Status),
		TotalHours:            kart.TotalHours,
		IsAvailableForBooking: kart.IsAvailableForBooking,
		MaxDailyHours:         kart.MaxDailyHours,
	}
}

// #### time slots ####

func (s *Service) CreateOrUpdateTimeSlot(ctx context.Context, req *api.TimeSlotRequest) (string, error) {
	const op = "service.CreateOrUpdateTimeSlot"

	if _, err := time.Parse(models.DateFormat, req.Date); err != nil {
		return "", fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}
	if _, err := time.Parse(models.TimeFormat, req.StartTime); err != nil {
		return "", fmt.Errorf("%s: invalid start_time: %w", op, response.ErrBadRequest)
	}
	if _, err := time.Parse(models.TimeFormat, req.EndTime); err != nil {
		return "", fmt.Errorf("%s: invalid end_time: %w", op, response.ErrBadRequest)
	}
	if !models.ValidKartType(req.KartType) {
		return "", fmt.Errorf("%s: invalid kart type %q: %w", op, req.KartType, response.ErrBadRequest)
	}
	if req.TotalKarts <= 0 {
		return "", fmt.Errorf("%s: total_karts must be positive: %w", op, response.ErrBadRequest)
	}

	maxPilots := req.TotalKarts
	if req.MaxPilots != nil {
		maxPilots = *req.MaxPilots
	}

	pricePerPilot := 50.0
	if req.PricePerPilot != nil {
		pricePerPilot = *req.PricePerPilot
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	slot := &models.TimeSlot{
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		KartType:      models.KartType(req.KartType),
		TotalKarts:    req.TotalKarts,
		MaxPilots:     maxPilots,
		PricePerPilot: pricePerPilot,
		AssignedKarts: req.AssignedKarts,
		IsActive:      isActive,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id, err := s.store.UpsertTimeSlot(ctx, tx, slot)
	if err != nil {
		_ = tx.Rollback()
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if len(req.AssignedKarts) > 0 {
		if err := s.store.ReplaceSlotAvailability(ctx, tx, id, req.Date, req.AssignedKarts); err != nil {
			_ = tx.Rollback()
			return "", fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: commit: %w", op, err)
	}

	return id, nil
}

// AutoAssignKartsToSlot fills a slot's kart pool: up to TotalKarts available
// karts of the slot's type, written as assigned_karts plus an availability
// record per kart. Returns the number of karts assigned.
func (s *Service) AutoAssignKartsToSlot(ctx context.Context, timeSlotID string) (int, error) {
	const op = "service.AutoAssignKartsToSlot"

	slot, err := s.store.GetTimeSlot(ctx, timeSlotID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	lockKey := fmt.Sprintf("slot:%s", timeSlotID)

	locked, err := s.locker.Lock(ctx, lockKey, slotLockTTL)
	if err != nil {
		return 0, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return 0, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	karts, err := s.GetAvailableKarts(ctx, string(slot.KartType), slot.Date, &timeSlotID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if len(karts) > slot.TotalKarts {
		karts = karts[:slot.TotalKarts]
	}

	kartIDs := make([]string, 0, len(karts))
	for _, kart := range karts {
		kartIDs = append(kartIDs, kart.ID)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.SetSlotAssignedKarts(ctx, tx, timeSlotID, kartIDs); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.ReplaceSlotAvailability(ctx, tx, timeSlotID, slot.Date, kartIDs); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit: %w", op, err)
	}

	return len(kartIDs), nil
}

func (s *Service) ListTimeSlots(ctx context.Context, date string, kartType *string) ([]*api.TimeSlotResponse, error) {
	const op = "service.ListTimeSlots"

	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}

	slots, err := s.store.ListTimeSlots(ctx, date, kartType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.TimeSlotResponse, 0, len(slots))
	for _, slot := range slots {
		active, err := s.store.CountActiveBookingsBySlot(ctx, slot.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		result = append(result, &api.TimeSlotResponse{
			ID:              slot.ID,
			Date:            slot.Date,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			KartType:        string(slot.KartType),
			TotalKarts:      slot.TotalKarts,
			MaxPilots:       slot.MaxPilots,
			CurrentPilots:   slot.CurrentPilots,
			PricePerPilot:   slot.PricePerPilot,
			AssignedKarts:   slot.AssignedKarts,
			IsActive:        slot.IsActive,
			AvailableSpots:  slot.MaxPilots - active,
			CurrentBookings: active,
		})
	}

	return result, nil
}

// #### bookings ####

// CreateBooking runs the whole allocation under a per-slot lock so two racing
// requests cannot both pass the availability check and claim the same kart.
// Booking insert, capacity increment and notification commit in one transaction.
func (s *Service) CreateBooking(ctx context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	const op = "service.CreateBooking"

	if _, err := time.Parse(models.DateFormat, req.Date); err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, response.ErrBadRequest)
	}
	if _, err := time.Parse(models.TimeFormat, req.StartTime); err != nil {
		return nil, fmt.Errorf("%s: invalid start_time: %w", op, response.ErrBadRequest)
	}
	if _, err := time.Parse(models.TimeFormat, req.EndTime); err != nil {
		return nil, fmt.Errorf("%s: invalid end_time: %w", op, response.ErrBadRequest)
	}
	if !models.ValidKartType(req.KartType) {
		return nil, fmt.Errorf("%s: invalid kart type %q: %w", op, req.KartType, response.ErrBadRequest)
	}

	pilot, err := s.store.GetPilot(ctx, req.PilotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	timeSlotID := req.TimeSlotID
	if timeSlotID != nil {
		if _, err := s.store.GetTimeSlot(ctx, *timeSlotID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// Implicit resolution races with slot creation, so the natural key is
	// locked first and the slot resolved under it. Once a slot id is known its
	// id lock is taken too: every mutation of a resolved slot, whichever path
	// reached it, contends on slot:<id>.
	if timeSlotID == nil {
		naturalKey := fmt.Sprintf("slot:%s:%s:%s", req.Date, req.StartTime, req.KartType)

		locked, err := s.locker.Lock(ctx, naturalKey, slotLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: lock error: %w", op, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
		}
		defer func() {
			_ = s.locker.Unlock(ctx, naturalKey)
		}()

		slot, err := s.store.FindActiveTimeSlot(ctx, req.Date, req.StartTime, req.KartType)
		if err != nil && !errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if slot != nil {
			timeSlotID = &slot.ID
		}
	}

	if timeSlotID != nil {
		slotKey := fmt.Sprintf("slot:%s", *timeSlotID)

		locked, err := s.locker.Lock(ctx, slotKey, slotLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: lock error: %w", op, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
		}
		defer func() {
			_ = s.locker.Unlock(ctx, slotKey)
		}()
	}

	autoAssign := req.AutoAssignKart == nil || *req.AutoAssignKart

	var assignedKartID *string
	if autoAssign {
		if req.PreferredKartID != nil {
			available, err := s.GetAvailableKarts(ctx, req.KartType, req.Date, timeSlotID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			for _, kart := range available {
				if kart.ID == *req.PreferredKartID {
					assignedKartID = req.PreferredKartID
					break
				}
			}
		}

		// Slot-less bookings never get an auto-assigned kart.
		if assignedKartID == nil && timeSlotID != nil {
			kart, err := s.AutoAssignKart(ctx, req.KartType, req.Date, *timeSlotID, nil)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if kart != nil {
				assignedKartID = &kart.ID
			}
		}
	}

	booking := &models.Booking{
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		PilotID:        req.PilotID,
		KartType:       models.KartType(req.KartType),
		Status:         models.BookingScheduled,
		Price:          req.Price,
		PaymentStatus:  models.PaymentPending,
		Notes:          req.Notes,
		AssignedKartID: assignedKartID,
		TimeSlotID:     timeSlotID,
		AutoAssignKart: autoAssign,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if timeSlotID != nil {
		if err := s.store.IncrementSlotPilots(ctx, tx, *timeSlotID); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	bookingID, err := s.store.CreateBooking(ctx, tx, booking)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: create booking: %w", op, err)
	}

	message := fmt.Sprintf("Booking created for %s on %s at %s", pilot.Name, req.Date, req.StartTime)
	if assignedKartID != nil {
		if kart, err := s.store.GetKart(ctx, *assignedKartID); err == nil {
			message += fmt.Sprintf(" - Kart #%s", kart.Number)
		}
	}

	_, err = s.store.CreateNotification(ctx, tx, &models.Notification{
		Title:     "New Booking",
		Message:   message,
		Type:      "booking",
		RelatedID: &bookingID,
	})
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: notification: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetBooking(ctx, bookingID)
}

func (s *Service) GetBooking(ctx context.Context, id string) (*api.BookingResponse, error) {
	const op = "service.GetBooking"

	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &api.BookingResponse{
		ID:             booking.ID,
		Date:           booking.Date,
		StartTime:      booking.StartTime,
		EndTime:        booking.EndTime,
		PilotID:        booking.PilotID,
		KartType:       string(booking.KartType),
		Status:         string(booking.Status),
		Price:          booking.Price,
		PaymentStatus:  string(booking.PaymentStatus),
		Notes:          booking.Notes,
		AssignedKartID: booking.AssignedKartID,
		TimeSlotID:     booking.TimeSlotID,
	}

	if pilot, err := s.store.GetPilot(ctx, booking.PilotID); err == nil {
		resp.PilotName = pilot.Name
	}
	if booking.AssignedKartID != nil {
		if kart, err := s.store.GetKart(ctx, *booking.AssignedKartID); err == nil {
			resp.KartNumber = &kart.Number
		}
	}

	return resp, nil
}

// UpdateBookingStatus applies a transition from the booking state machine and
// keeps the slot capacity ledger in step: leaving the cancelled state re-enters
// the capacity check, entering it releases the seat. A reactivated booking
// whose kart got claimed in the meantime comes back without a kart.
func (s *Service) UpdateBookingStatus(ctx context.Context, bookingID, status string) (*api.BookingResponse, error) {
	const op = "service.UpdateBookingStatus"

	if !models.ValidBookingStatus(status) {
		return nil, fmt.Errorf("%s: invalid status %q: %w", op, status, response.ErrBadRequest)
	}
	newStatus := models.BookingStatus(status)

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	oldStatus := booking.Status
	if !models.CanTransition(oldStatus, newStatus) {
		return nil, fmt.Errorf("%s: %s -> %s: %w", op, oldStatus, newStatus, response.ErrInvalidTransition)
	}

	if booking.TimeSlotID != nil {
		lockKey := fmt.Sprintf("slot:%s", *booking.TimeSlotID)

		locked, err := s.locker.Lock(ctx, lockKey, slotLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: lock error: %w", op, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
		}
		defer func() {
			_ = s.locker.Unlock(ctx, lockKey)
		}()
	}

	clearKart := false
	if oldStatus == models.BookingCancelled && newStatus != models.BookingCancelled &&
		booking.AssignedKartID != nil && booking.TimeSlotID != nil {
		available, err := s.GetAvailableKarts(ctx, string(booking.KartType), booking.Date, booking.TimeSlotID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		clearKart = true
		for _, kart := range available {
			if kart.ID == *booking.AssignedKartID {
				clearKart = false
				break
			}
		}
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if booking.TimeSlotID != nil {
		switch {
		case oldStatus != models.BookingCancelled && newStatus == models.BookingCancelled:
			if err := s.store.DecrementSlotPilots(ctx, tx, *booking.TimeSlotID); err != nil {
				_ = tx.Rollback()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		case oldStatus == models.BookingCancelled && newStatus != models.BookingCancelled:
			if err := s.store.IncrementSlotPilots(ctx, tx, *booking.TimeSlotID); err != nil {
				_ = tx.Rollback()
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	if err := s.store.UpdateBookingStatus(ctx, tx, bookingID, newStatus); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if clearKart {
		if err := s.store.SetBookingKart(ctx, tx, bookingID, nil); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	pilotName := booking.PilotID
	if pilot, err := s.store.GetPilot(ctx, booking.PilotID); err == nil {
		pilotName = pilot.Name
	}

	_, err = s.store.CreateNotification(ctx, tx, &models.Notification{
		Title:     "Booking Status Updated",
		Message:   fmt.Sprintf("Booking for %s on %s at %s - status: %s", pilotName, booking.Date, booking.StartTime, status),
		Type:      "booking",
		RelatedID: &bookingID,
	})
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: notification: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return s.GetBooking(ctx, bookingID)
}

// AssignKart sets, replaces or clears the kart on a booking. Explicit karts are
// checked against the availability set for the booking's slot; auto-assignment
// excludes the currently held kart so it searches for an alternative.
func (s *Service) AssignKart(ctx context.Context, bookingID string, kartID *string, autoAssign bool) (*string, error) {
	const op = "service.AssignKart"

	booking, err := s.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if booking.TimeSlotID != nil {
		lockKey := fmt.Sprintf("slot:%s", *booking.TimeSlotID)

		locked, err := s.locker.Lock(ctx, lockKey, slotLockTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: lock error: %w", op, err)
		}
		if !locked {
			return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
		}
		defer func() {
			_ = s.locker.Unlock(ctx, lockKey)
		}()
	}

	newKartID := kartID

	if autoAssign && newKartID == nil && booking.TimeSlotID != nil {
		var exclude []string
		if booking.AssignedKartID != nil {
			exclude = []string{*booking.AssignedKartID}
		}

		kart, err := s.AutoAssignKart(ctx, string(booking.KartType), booking.Date, *booking.TimeSlotID, exclude)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if kart != nil {
			newKartID = &kart.ID
		}
	}

	if kartID != nil {
		held := booking.AssignedKartID != nil && *booking.AssignedKartID == *kartID

		if !held {
			available, err := s.GetAvailableKarts(ctx, string(booking.KartType), booking.Date, booking.TimeSlotID)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}

			found := false
			for _, kart := range available {
				if kart.ID == *kartID {
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("%s: %w", op, response.ErrKartNotAvailable)
			}
		}
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.SetBookingKart(ctx, tx, bookingID, newKartID); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pilotName := booking.PilotID
	if pilot, err := s.store.GetPilot(ctx, booking.PilotID); err == nil {
		pilotName = pilot.Name
	}

	message := fmt.Sprintf("Kart removed from %s - %s at %s", pilotName, booking.Date, booking.StartTime)
	if newKartID != nil {
		number := *newKartID
		if kart, err := s.store.GetKart(ctx, *newKartID); err == nil {
			number = kart.Number
		}
		message = fmt.Sprintf("Kart #%s assigned to %s - %s at %s", number, pilotName, booking.Date, booking.StartTime)
	}

	_, err = s.store.CreateNotification(ctx, tx, &models.Notification{
		Title:     "Kart Assigned",
		Message:   message,
		Type:      "booking",
		RelatedID: &bookingID,
	})
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: notification: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	return newKartID, nil
}

// #### pilots ####

func (s *Service) CreatePilot(ctx context.Context, req *api.PilotCreateRequest) (*api.PilotResponse, error) {
	const op = "service.CreatePilot"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrBadRequest)
	}
	for _, t := range req.KartTypes {
		if !models.ValidKartType(t) {
			return nil, fmt.Errorf("%s: invalid kart type %q: %w", op, t, response.ErrBadRequest)
		}
	}

	pilot := &models.Pilot{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Category:         req.Category,
		KartTypes:        req.KartTypes,
		MedicalInfo:      req.MedicalInfo,
		IsActive:         true,
		RegistrationDate: time.Now().Format(models.DateFormat),
	}

	id, err := s.store.CreatePilot(ctx, pilot)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetPilot(ctx, id)
}

func (s *Service) GetPilot(ctx context.Context, id string) (*api.PilotResponse, error) {
	const op = "service.GetPilot"

	pilot, err := s.store.GetPilot(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.PilotResponse{
		ID:               pilot.ID,
		Name:             pilot.Name,
		Email:            pilot.Email,
		Phone:            pilot.Phone,
		Category:         pilot.Category,
		KartTypes:        pilot.KartTypes,
		MedicalInfo:      pilot.MedicalInfo,
		IsActive:         pilot.IsActive,
		RegistrationDate: pilot.RegistrationDate,
		TotalRaces:       pilot.TotalRaces,
	}, nil
}

// #### notifications ####

func (s *Service) ListNotifications(ctx context.Context, isRead *bool, limit int) ([]*api.NotificationResponse, error) {
	const op = "service.ListNotifications"

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	notifications, err := s.store.ListNotifications(ctx, isRead, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		result = append(result, &api.NotificationResponse{
			ID:        notification.ID,
			Title:     notification.Title,
			Message:   notification.Message,
			Type:      notification.Type,
			RelatedID: notification.RelatedID,
			IsRead:    notification.IsRead,
			CreatedAt: notification.CreatedAt,
		})
	}

	return result, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	const op = "service.MarkNotificationRead"

	if err := s.store.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

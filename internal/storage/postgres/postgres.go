package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"karting-service/internal/models"
	"karting-service/internal/service"
	"karting-service/pkg/response"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (service.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// sqlTx unwraps the Tx handed back by BeginTx.
func sqlTx(tx service.Tx) *sql.Tx {
	return tx.(*sql.Tx)
}

// #### pilots ####

func (s *Storage) CreatePilot(ctx context.Context, pilot *models.Pilot) (string, error) {
	const op = "storage.postgres.CreatePilot"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pilots
		(pilot_id, name, email, phone, category, kart_types, medical_info, is_active, registration_date, total_races)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id,
		pilot.Name,
		pilot.Email,
		pilot.Phone,
		pilot.Category,
		pq.Array(pilot.KartTypes),
		pilot.MedicalInfo,
		pilot.IsActive,
		pilot.RegistrationDate,
		pilot.TotalRaces,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetPilot(ctx context.Context, id string) (*models.Pilot, error) {
	const op = "storage.postgres.GetPilot"

	var pilot models.Pilot

	err := s.db.QueryRowContext(ctx,
		`SELECT pilot_id, name, email, phone, category, kart_types, medical_info, is_active, registration_date, total_races
		FROM pilots WHERE pilot_id=$1`, id).
		Scan(
			&pilot.ID,
			&pilot.Name,
			&pilot.Email,
			&pilot.Phone,
			&pilot.Category,
			pq.Array(&pilot.KartTypes),
			&pilot.MedicalInfo,
			&pilot.IsActive,
			&pilot.RegistrationDate,
			&pilot.TotalRaces,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &pilot, nil
}

// #### karts ####

func (s *Storage) CreateKart(ctx context.Context, kart *models.Kart) (string, error) {
	const op = "storage.postgres.CreateKart"

	id := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO karts
		(kart_id, number, type, brand, model, status, total_hours, is_available_for_booking, max_daily_hours, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id,
		kart.Number,
		string(kart.Type),
		kart.Brand,
		kart.Model,
		string(kart.Status),
		kart.TotalHours,
		kart.IsAvailableForBooking,
		kart.MaxDailyHours,
		kart.Notes,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateKart(ctx context.Context, kart *models.Kart) error {
	const op = "storage.postgres.UpdateKart"

	res, err := s.db.ExecContext(ctx,
		`UPDATE karts
		SET number=$1, type=$2, brand=$3, model=$4, status=$5, total_hours=$6, is_available_for_booking=$7, max_daily_hours=$8, notes=$9
		WHERE kart_id=$10`,
		kart.Number,
		string(kart.Type),
		kart.Brand,
		kart.Model,
		string(kart.Status),
		kart.TotalHours,
		kart.IsAvailableForBooking,
		kart.MaxDailyHours,
		kart.Notes,
		kart.ID,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, response.ErrConflict)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) GetKart(ctx context.Context, id string) (*models.Kart, error) {
	const op = "storage.postgres.GetKart"

	var kart models.Kart

	err := s.db.QueryRowContext(ctx,
		`SELECT kart_id, number, type, brand, model, status, total_hours, is_available_for_booking, max_daily_hours, notes
		FROM karts WHERE kart_id=$1`, id).
		Scan(
			&kart.ID,
			&kart.Number,
			&kart.Type,
			&kart.Brand,
			&kart.Model,
			&kart.Status,
			&kart.TotalHours,
			&kart.IsAvailableForBooking,
			&kart.MaxDailyHours,
			&kart.Notes,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &kart, nil
}

func (s *Storage) ListBookableKarts(ctx context.Context, kartType string) ([]models.Kart, error) {
	const op = "storage.postgres.ListBookableKarts"

	rows, err := s.db.QueryContext(ctx,
		`SELECT kart_id, number, type, brand, model, status, total_hours, is_available_for_booking, max_daily_hours, notes
		FROM karts
		WHERE type=$1 AND is_available_for_booking=TRUE
		ORDER BY number`, kartType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var karts []models.Kart
	for rows.Next() {
		var kart models.Kart

		err := rows.Scan(
			&kart.ID,
			&kart.Number,
			&kart.Type,
			&kart.Brand,
			&kart.Model,
			&kart.Status,
			&kart.TotalHours,
			&kart.IsAvailableForBooking,
			&kart.MaxDailyHours,
			&kart.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		karts = append(karts, kart)
	}

	return karts, nil
}

// #### kart availability ####

func (s *Storage) UpsertKartAvailability(ctx context.Context, record *models.KartAvailability) (string, error) {
	const op = "storage.postgres.UpsertKartAvailability"

	id := uuid.NewString()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO kart_availability
		(availability_id, kart_id, date, time_slot_id, is_available, maintenance_reason, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (kart_id, date, time_slot_id)
		DO UPDATE
		SET is_available = EXCLUDED.is_available,
			maintenance_reason = EXCLUDED.maintenance_reason,
			notes = EXCLUDED.notes
		RETURNING availability_id`,
		id,
		record.KartID,
		record.Date,
		record.TimeSlotID,
		record.IsAvailable,
		record.MaintenanceReason,
		record.Notes,
	).Scan(&id)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) ListKartAvailabilityByDate(ctx context.Context, date string) ([]models.KartAvailability, error) {
	const op = "storage.postgres.ListKartAvailabilityByDate"

	rows, err := s.db.QueryContext(ctx,
		`SELECT availability_id, kart_id, date, time_slot_id, is_available, maintenance_reason, notes
		FROM kart_availability WHERE date=$1`, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var records []models.KartAvailability
	for rows.Next() {
		var record models.KartAvailability

		err := rows.Scan(
			&record.ID,
			&record.KartID,
			&record.Date,
			&record.TimeSlotID,
			&record.IsAvailable,
			&record.MaintenanceReason,
			&record.Notes,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		records = append(records, record)
	}

	return records, nil
}

func (s *Storage) ReplaceSlotAvailability(ctx context.Context, tx service.Tx, slotID, date string, kartIDs []string) error {
	const op = "storage.postgres.ReplaceSlotAvailability"

	_, err := sqlTx(tx).ExecContext(ctx,
		`DELETE FROM kart_availability WHERE time_slot_id=$1`, slotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for _, kartID := range kartIDs {
		_, err := sqlTx(tx).ExecContext(ctx,
			`INSERT INTO kart_availability
			(availability_id, kart_id, date, time_slot_id, is_available)
			VALUES ($1, $2, $3, $4, TRUE)`,
			uuid.NewString(),
			kartID,
			date,
			slotID,
		)
		if err != nil {
			sqlErr, ok := err.(*pq.Error)
			if ok && sqlErr.Code == "23503" {
				return fmt.Errorf("%s: %w", op, response.ErrNotFound)
			}

			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// #### time slots ####

func (s *Storage) GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error) {
	const op = "storage.postgres.GetTimeSlot"

	slot, err := scanTimeSlot(s.db.QueryRowContext(ctx,
		`SELECT time_slot_id, date, start_time, end_time, kart_type, total_karts, max_pilots, current_pilots, price_per_pilot, assigned_karts, is_active
		FROM time_slots WHERE time_slot_id=$1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

func (s *Storage) FindActiveTimeSlot(ctx context.Context, date, startTime, kartType string) (*models.TimeSlot, error) {
	const op = "storage.postgres.FindActiveTimeSlot"

	slot, err := scanTimeSlot(s.db.QueryRowContext(ctx,
		`SELECT time_slot_id, date, start_time, end_time, kart_type, total_karts, max_pilots, current_pilots, price_per_pilot, assigned_karts, is_active
		FROM time_slots
		WHERE date=$1 AND start_time=$2 AND kart_type=$3 AND is_active=TRUE`,
		date, startTime, kartType))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return slot, nil
}

func (s *Storage) ListTimeSlots(ctx context.Context, date string, kartType *string) ([]models.TimeSlot, error) {
	const op = "storage.postgres.ListTimeSlots"

	query := `SELECT time_slot_id, date, start_time, end_time, kart_type, total_karts, max_pilots, current_pilots, price_per_pilot, assigned_karts, is_active
		FROM time_slots WHERE date=$1`
	args := []any{date}

	if kartType != nil {
		query += ` AND kart_type=$2`
		args = append(args, *kartType)
	}

	query += ` ORDER BY start_time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var slots []models.TimeSlot
	for rows.Next() {
		var slot models.TimeSlot

		err := rows.Scan(
			&slot.ID,
			&slot.Date,
			&slot.StartTime,
			&slot.EndTime,
			&slot.KartType,
			&slot.TotalKarts,
			&slot.MaxPilots,
			&slot.CurrentPilots,
			&slot.PricePerPilot,
			pq.Array(&slot.AssignedKarts),
			&slot.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// UpsertTimeSlot creates or updates the slot keyed on (date, start_time, kart_type).
// The uniqueness constraint makes concurrent get-or-create requests converge on one row.
func (s *Storage) UpsertTimeSlot(ctx context.Context, tx service.Tx, slot *models.TimeSlot) (string, error) {
	const op = "storage.postgres.UpsertTimeSlot"

	id := uuid.NewString()

	err := sqlTx(tx).QueryRowContext(ctx,
		`INSERT INTO time_slots
		(time_slot_id, date, start_time, end_time, kart_type, total_karts, max_pilots, current_pilots, price_per_pilot, assigned_karts, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10)
		ON CONFLICT (date, start_time, kart_type)
		DO UPDATE
		SET end_time = EXCLUDED.end_time,
			total_karts = EXCLUDED.total_karts,
			max_pilots = EXCLUDED.max_pilots,
			price_per_pilot = EXCLUDED.price_per_pilot,
			assigned_karts = EXCLUDED.assigned_karts,
			is_active = EXCLUDED.is_active
		RETURNING time_slot_id`,
		id,
		slot.Date,
		slot.StartTime,
		slot.EndTime,
		string(slot.KartType),
		slot.TotalKarts,
		slot.MaxPilots,
		slot.PricePerPilot,
		pq.Array(slot.AssignedKarts),
		slot.IsActive,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) SetSlotAssignedKarts(ctx context.Context, tx service.Tx, slotID string, kartIDs []string) error {
	const op = "storage.postgres.SetSlotAssignedKarts"

	res, err := sqlTx(tx).ExecContext(ctx,
		`UPDATE time_slots SET assigned_karts=$1 WHERE time_slot_id=$2`,
		pq.Array(kartIDs), slotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// IncrementSlotPilots is the guarded side of the capacity ledger: the increment
// only lands while current_pilots is below max_pilots, so an oversubscribed slot
// rejects the booking instead of silently overbooking.
func (s *Storage) IncrementSlotPilots(ctx context.Context, tx service.Tx, slotID string) error {
	const op = "storage.postgres.IncrementSlotPilots"

	res, err := sqlTx(tx).ExecContext(ctx,
		`UPDATE time_slots
		SET current_pilots = current_pilots + 1
		WHERE time_slot_id=$1 AND current_pilots < max_pilots`, slotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		var exists bool
		err := sqlTx(tx).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM time_slots WHERE time_slot_id=$1)`, slotID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, response.ErrCapacityExceeded)
	}

	return nil
}

func (s *Storage) DecrementSlotPilots(ctx context.Context, tx service.Tx, slotID string) error {
	const op = "storage.postgres.DecrementSlotPilots"

	_, err := sqlTx(tx).ExecContext(ctx,
		`UPDATE time_slots
		SET current_pilots = GREATEST(0, current_pilots - 1)
		WHERE time_slot_id=$1`, slotID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func scanTimeSlot(row *sql.Row) (*models.TimeSlot, error) {
	var slot models.TimeSlot

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.KartType,
		&slot.TotalKarts,
		&slot.MaxPilots,
		&slot.CurrentPilots,
		&slot.PricePerPilot,
		pq.Array(&slot.AssignedKarts),
		&slot.IsActive,
	)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

// #### bookings ####

func (s *Storage) CreateBooking(ctx context.Context, tx service.Tx, booking *models.Booking) (string, error) {
	const op = "storage.postgres.CreateBooking"

	id := uuid.NewString()

	_, err := sqlTx(tx).ExecContext(ctx,
		`INSERT INTO bookings
		(booking_id, date, start_time, end_time, pilot_id, kart_type, status, price, payment_status, notes, assigned_kart_id, time_slot_id, auto_assign_kart)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		id,
		booking.Date,
		booking.StartTime,
		booking.EndTime,
		booking.PilotID,
		string(booking.KartType),
		string(booking.Status),
		booking.Price,
		string(booking.PaymentStatus),
		booking.Notes,
		booking.AssignedKartID,
		booking.TimeSlotID,
		booking.AutoAssignKart,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	const op = "storage.postgres.GetBooking"

	var booking models.Booking

	err := s.db.QueryRowContext(ctx,
		`SELECT booking_id, date, start_time, end_time, pilot_id, kart_type, status, price, payment_status, notes, assigned_kart_id, time_slot_id, auto_assign_kart
		FROM bookings WHERE booking_id=$1`, id).
		Scan(
			&booking.ID,
			&booking.Date,
			&booking.StartTime,
			&booking.EndTime,
			&booking.PilotID,
			&booking.KartType,
			&booking.Status,
			&booking.Price,
			&booking.PaymentStatus,
			&booking.Notes,
			&booking.AssignedKartID,
			&booking.TimeSlotID,
			&booking.AutoAssignKart,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &booking, nil
}

func (s *Storage) ListBookingsBySlot(ctx context.Context, slotID string) ([]models.Booking, error) {
	const op = "storage.postgres.ListBookingsBySlot"

	rows, err := s.db.QueryContext(ctx,
		`SELECT booking_id, date, start_time, end_time, pilot_id, kart_type, status, price, payment_status, notes, assigned_kart_id, time_slot_id, auto_assign_kart
		FROM bookings WHERE time_slot_id=$1`, slotID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking

		err := rows.Scan(
			&booking.ID,
			&booking.Date,
			&booking.StartTime,
			&booking.EndTime,
			&booking.PilotID,
			&booking.KartType,
			&booking.Status,
			&booking.Price,
			&booking.PaymentStatus,
			&booking.Notes,
			&booking.AssignedKartID,
			&booking.TimeSlotID,
			&booking.AutoAssignKart,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (s *Storage) CountActiveBookingsBySlot(ctx context.Context, slotID string) (int, error) {
	const op = "storage.postgres.CountActiveBookingsBySlot"

	var count int

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE time_slot_id=$1 AND status != 'cancelled'`, slotID).
		Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

func (s *Storage) UpdateBookingStatus(ctx context.Context, tx service.Tx, bookingID string, status models.BookingStatus) error {
	const op = "storage.postgres.UpdateBookingStatus"

	res, err := sqlTx(tx).ExecContext(ctx,
		`UPDATE bookings SET status=$1 WHERE booking_id=$2`, string(status), bookingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) SetBookingKart(ctx context.Context, tx service.Tx, bookingID string, kartID *string) error {
	const op = "storage.postgres.SetBookingKart"

	res, err := sqlTx(tx).ExecContext(ctx,
		`UPDATE bookings SET assigned_kart_id=$1 WHERE booking_id=$2`, kartID, bookingID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### notifications ####

func (s *Storage) CreateNotification(ctx context.Context, tx service.Tx, notification *models.Notification) (string, error) {
	const op = "storage.postgres.CreateNotification"

	id := uuid.NewString()

	_, err := sqlTx(tx).ExecContext(ctx,
		`INSERT INTO notifications
		(notification_id, title, message, type, related_id, is_read)
		VALUES ($1, $2, $3, $4, $5, FALSE)`,
		id,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.RelatedID,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) ListNotifications(ctx context.Context, isRead *bool, limit int) ([]models.Notification, error) {
	const op = "storage.postgres.ListNotifications"

	query := `SELECT notification_id, title, message, type, related_id, is_read, created_at
		FROM notifications`
	args := []any{}

	if isRead != nil {
		query += ` WHERE is_read=$1`
		args = append(args, *isRead)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var notification models.Notification

		err := rows.Scan(
			&notification.ID,
			&notification.Title,
			&notification.Message,
			&notification.Type,
			&notification.RelatedID,
			&notification.IsRead,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		notifications = append(notifications, notification)
	}

	return notifications, nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, id string) error {
	const op = "storage.postgres.MarkNotificationRead"

	res, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read=TRUE WHERE notification_id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

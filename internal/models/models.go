package models

import "time"

const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

type KartType string

const (
	KartRental      KartType = "rental"
	KartCompetition KartType = "competition"
	KartJunior      KartType = "junior"
)

func ValidKartType(t string) bool {
	switch KartType(t) {
	case KartRental, KartCompetition, KartJunior:
		return true
	}
	return false
}

type KartStatus string

const (
	KartActive      KartStatus = "active"
	KartMaintenance KartStatus = "maintenance"
	KartRetired     KartStatus = "retired"
)

func ValidKartStatus(s string) bool {
	switch KartStatus(s) {
	case KartActive, KartMaintenance, KartRetired:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingScheduled BookingStatus = "scheduled"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case BookingScheduled, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// transitions lists the allowed next statuses for each booking status.
// completed is terminal. A cancelled booking can be reactivated.
var transitions = map[BookingStatus][]BookingStatus{
	BookingScheduled: {BookingConfirmed, BookingCompleted, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
	BookingCancelled: {BookingScheduled, BookingConfirmed},
	BookingCompleted: {},
}

func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type Pilot struct {
	ID               string   `db:"pilot_id"`
	Name             string   `db:"name"`
	Email            *string  `db:"email"`
	Phone            *string  `db:"phone"`
	Category         string   `db:"category"`
	KartTypes        []string `db:"kart_types"`
	MedicalInfo      *string  `db:"medical_info"`
	IsActive         bool     `db:"is_active"`
	RegistrationDate string   `db:"registration_date"`
	TotalRaces       int      `db:"total_races"`
}

type Kart struct {
	ID                    string     `db:"kart_id"`
	Number                string     `db:"number"`
	Type                  KartType   `db:"type"`
	Brand                 string     `db:"brand"`
	Model                 string     `db:"model"`
	Status                KartStatus `db:"status"`
	TotalHours            float64    `db:"total_hours"`
	IsAvailableForBooking bool       `db:"is_available_for_booking"`
	MaxDailyHours         float64    `db:"max_daily_hours"`
	Notes                 *string    `db:"notes"`
}

type TimeSlot struct {
	ID            string   `db:"time_slot_id"`
	Date          string   `db:"date"`
	StartTime     string   `db:"start_time"`
	EndTime       string   `db:"end_time"`
	KartType      KartType `db:"kart_type"`
	TotalKarts    int      `db:"total_karts"`
	MaxPilots     int      `db:"max_pilots"`
	CurrentPilots int      `db:"current_pilots"`
	PricePerPilot float64  `db:"price_per_pilot"`
	AssignedKarts []string `db:"assigned_karts"`
	IsActive      bool     `db:"is_active"`
}

// KartAvailability is a per (kart, date, time slot) override. An is_available=false
// record vetoes a kart for that slot regardless of the kart's own status.
type KartAvailability struct {
	ID                string  `db:"availability_id"`
	KartID            string  `db:"kart_id"`
	Date              string  `db:"date"`
	TimeSlotID        string  `db:"time_slot_id"`
	IsAvailable       bool    `db:"is_available"`
	MaintenanceReason *string `db:"maintenance_reason"`
	Notes             *string `db:"notes"`
}

type Booking struct {
	ID             string        `db:"booking_id"`
	Date           string        `db:"date"`
	StartTime      string        `db:"start_time"`
	EndTime        string        `db:"end_time"`
	PilotID        string        `db:"pilot_id"`
	KartType       KartType      `db:"kart_type"`
	Status         BookingStatus `db:"status"`
	Price          float64       `db:"price"`
	PaymentStatus  PaymentStatus `db:"payment_status"`
	Notes          *string       `db:"notes"`
	AssignedKartID *string       `db:"assigned_kart_id"`
	TimeSlotID     *string       `db:"time_slot_id"`
	AutoAssignKart bool          `db:"auto_assign_kart"`
}

type Notification struct {
	ID        string    `db:"notification_id"`
	Title     string    `db:"title"`
	Message   string    `db:"message"`
	Type      string    `db:"type"`
	RelatedID *string   `db:"related_id"`
	IsRead    bool      `db:"is_read"`
	CreatedAt time.Time `db:"created_at"`
}

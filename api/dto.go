package api

import "time"

// Pilots

type PilotCreateRequest struct {
	Name        string   `json:"name"`
	Email       *string  `json:"email,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Category    string   `json:"category"`
	KartTypes   []string `json:"kart_types"`
	MedicalInfo *string  `json:"medical_info,omitempty"`
}

type PilotResponse struct {
	ID               string   `json:"pilot_id"`
	Name             string   `json:"name"`
	Email            *string  `json:"email,omitempty"`
	Phone            *string  `json:"phone,omitempty"`
	Category         string   `json:"category"`
	KartTypes        []string `json:"kart_types"`
	MedicalInfo      *string  `json:"medical_info,omitempty"`
	IsActive         bool     `json:"is_active"`
	RegistrationDate string   `json:"registration_date"`
	TotalRaces       int      `json:"total_races"`
}

// Karts

type KartCreateRequest struct {
	Number                string  `json:"number"`
	Type                  string  `json:"type"`
	Brand                 string  `json:"brand"`
	Model                 string  `json:"model"`
	Notes                 *string `json:"notes,omitempty"`
	IsAvailableForBooking *bool   `json:"is_available_for_booking,omitempty"`
	MaxDailyHours         *float64 `json:"max_daily_hours,omitempty"`
}

type KartUpdateRequest struct {
	Number                *string  `json:"number,omitempty"`
	Type                  *string  `json:"type,omitempty"`
	Brand                 *string  `json:"brand,omitempty"`
	Model                 *string  `json:"model,omitempty"`
	Status                *string  `json:"status,omitempty"`
	Notes                 *string  `json:"notes,omitempty"`
	IsAvailableForBooking *bool    `json:"is_available_for_booking,omitempty"`
	MaxDailyHours         *float64 `json:"max_daily_hours,omitempty"`
	TotalHours            *float64 `json:"total_hours,omitempty"`
}

type KartResponse struct {
	ID                    string  `json:"kart_id"`
	Number                string  `json:"number"`
	Type                  string  `json:"type"`
	Brand                 string  `json:"brand"`
	Model                 string  `json:"model"`
	Status                string  `json:"status"`
	TotalHours            float64 `json:"total_hours"`
	IsAvailableForBooking bool    `json:"is_available_for_booking"`
	MaxDailyHours         float64 `json:"max_daily_hours"`
}

type KartAvailabilityRequest struct {
	KartID            string  `json:"kart_id"`
	Date              string  `json:"date"`
	TimeSlotID        string  `json:"time_slot_id"`
	IsAvailable       bool    `json:"is_available"`
	MaintenanceReason *string `json:"maintenance_reason,omitempty"`
	Notes             *string `json:"notes,omitempty"`
}

// Time slots

type TimeSlotRequest struct {
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	KartType      string   `json:"kart_type"`
	TotalKarts    int      `json:"total_karts"`
	MaxPilots     *int     `json:"max_pilots,omitempty"`
	PricePerPilot *float64 `json:"price_per_pilot,omitempty"`
	AssignedKarts []string `json:"assigned_karts,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

type TimeSlotResponse struct {
	ID              string   `json:"time_slot_id"`
	Date            string   `json:"date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	KartType        string   `json:"kart_type"`
	TotalKarts      int      `json:"total_karts"`
	MaxPilots       int      `json:"max_pilots"`
	CurrentPilots   int      `json:"current_pilots"`
	PricePerPilot   float64  `json:"price_per_pilot"`
	AssignedKarts   []string `json:"assigned_karts,omitempty"`
	IsActive        bool     `json:"is_active"`
	AvailableSpots  int      `json:"available_spots"`
	CurrentBookings int      `json:"current_bookings"`
}

// Bookings

type BookingRequest struct {
	Date           string   `json:"date"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	PilotID        string   `json:"pilot_id"`
	KartType       string   `json:"kart_type"`
	Price          float64  `json:"price"`
	Notes          *string  `json:"notes,omitempty"`
	TimeSlotID     *string  `json:"time_slot_id,omitempty"`
	AutoAssignKart *bool    `json:"auto_assign_kart,omitempty"`
	PreferredKartID *string `json:"preferred_kart_id,omitempty"`
}

type BookingResponse struct {
	ID             string  `json:"booking_id"`
	Date           string  `json:"date"`
	StartTime      string  `json:"start_time"`
	EndTime        string  `json:"end_time"`
	PilotID        string  `json:"pilot_id"`
	PilotName      string  `json:"pilot_name,omitempty"`
	KartType       string  `json:"kart_type"`
	Status         string  `json:"status"`
	Price          float64 `json:"price"`
	PaymentStatus  string  `json:"payment_status"`
	Notes          *string `json:"notes,omitempty"`
	AssignedKartID *string `json:"assigned_kart_id,omitempty"`
	KartNumber     *string `json:"kart_number,omitempty"`
	TimeSlotID     *string `json:"time_slot_id,omitempty"`
}

type BookingStatusRequest struct {
	Status string `json:"status"`
}

type AssignKartRequest struct {
	KartID     *string `json:"kart_id,omitempty"`
	AutoAssign bool    `json:"auto_assign,omitempty"`
}

type AssignKartResponse struct {
	BookingID string  `json:"booking_id"`
	KartID    *string `json:"kart_id"`
}

// Notifications

type NotificationResponse struct {
	ID        string    `json:"notification_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	RelatedID *string   `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

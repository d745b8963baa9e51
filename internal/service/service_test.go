package service

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"karting-service/api"
	"karting-service/internal/models"
	"karting-service/pkg/response"
)

// fakeTx satisfies Tx. The fake store applies writes immediately, tests only
// exercise the service-level behavior, not transaction isolation.
type fakeTx struct{}

func (fakeTx) Commit() error   { return nil }
func (fakeTx) Rollback() error { return nil }

type fakeStore struct {
	pilots        map[string]*models.Pilot
	karts         map[string]*models.Kart
	slots         map[string]*models.TimeSlot
	availability  []models.KartAvailability
	bookings      map[string]*models.Booking
	notifications []models.Notification
	nextID        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		pilots:   make(map[string]*models.Pilot),
		karts:    make(map[string]*models.Kart),
		slots:    make(map[string]*models.TimeSlot),
		bookings: make(map[string]*models.Booking),
	}
}

func (f *fakeStore) genID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) BeginTx(ctx context.Context) (Tx, error) {
	return fakeTx{}, nil
}

func (f *fakeStore) CreatePilot(ctx context.Context, pilot *models.Pilot) (string, error) {
	id := f.genID("pilot")
	pilot.ID = id
	f.pilots[id] = pilot
	return id, nil
}

func (f *fakeStore) GetPilot(ctx context.Context, id string) (*models.Pilot, error) {
	pilot, ok := f.pilots[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	copied := *pilot
	return &copied, nil
}

func (f *fakeStore) CreateKart(ctx context.Context, kart *models.Kart) (string, error) {
	for _, existing := range f.karts {
		if existing.Number == kart.Number {
			return "", response.ErrConflict
		}
	}
	id := f.genID("kart")
	kart.ID = id
	f.karts[id] = kart
	return id, nil
}

func (f *fakeStore) UpdateKart(ctx context.Context, kart *models.Kart) error {
	if _, ok := f.karts[kart.ID]; !ok {
		return response.ErrNotFound
	}
	for _, existing := range f.karts {
		if existing.ID != kart.ID && existing.Number == kart.Number {
			return response.ErrConflict
		}
	}
	copied := *kart
	f.karts[kart.ID] = &copied
	return nil
}

func (f *fakeStore) GetKart(ctx context.Context, id string) (*models.Kart, error) {
	kart, ok := f.karts[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	copied := *kart
	return &copied, nil
}

func (f *fakeStore) ListBookableKarts(ctx context.Context, kartType string) ([]models.Kart, error) {
	var out []models.Kart
	for _, kart := range f.karts {
		if string(kart.Type) == kartType && kart.IsAvailableForBooking {
			out = append(out, *kart)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (f *fakeStore) UpsertKartAvailability(ctx context.Context, record *models.KartAvailability) (string, error) {
	for i, existing := range f.availability {
		if existing.KartID == record.KartID && existing.Date == record.Date && existing.TimeSlotID == record.TimeSlotID {
			record.ID = existing.ID
			f.availability[i] = *record
			return record.ID, nil
		}
	}
	record.ID = f.genID("avail")
	f.availability = append(f.availability, *record)
	return record.ID, nil
}

func (f *fakeStore) ListKartAvailabilityByDate(ctx context.Context, date string) ([]models.KartAvailability, error) {
	var out []models.KartAvailability
	for _, record := range f.availability {
		if record.Date == date {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeStore) ReplaceSlotAvailability(ctx context.Context, tx Tx, slotID, date string, kartIDs []string) error {
	kept := f.availability[:0]
	for _, record := range f.availability {
		if record.TimeSlotID != slotID {
			kept = append(kept, record)
		}
	}
	f.availability = kept
	for _, kartID := range kartIDs {
		f.availability = append(f.availability, models.KartAvailability{
			ID:          f.genID("avail"),
			KartID:      kartID,
			Date:        date,
			TimeSlotID:  slotID,
			IsAvailable: true,
		})
	}
	return nil
}

func (f *fakeStore) GetTimeSlot(ctx context.Context, id string) (*models.TimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeStore) FindActiveTimeSlot(ctx context.Context, date, startTime, kartType string) (*models.TimeSlot, error) {
	for _, slot := range f.slots {
		if slot.Date == date && slot.StartTime == startTime && string(slot.KartType) == kartType && slot.IsActive {
			copied := *slot
			return &copied, nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) ListTimeSlots(ctx context.Context, date string, kartType *string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, slot := range f.slots {
		if slot.Date != date {
			continue
		}
		if kartType != nil && string(slot.KartType) != *kartType {
			continue
		}
		out = append(out, *slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (f *fakeStore) UpsertTimeSlot(ctx context.Context, tx Tx, slot *models.TimeSlot) (string, error) {
	for _, existing := range f.slots {
		if existing.Date == slot.Date && existing.StartTime == slot.StartTime && existing.KartType == slot.KartType {
			slot.ID = existing.ID
			slot.CurrentPilots = existing.CurrentPilots
			f.slots[existing.ID] = slot
			return existing.ID, nil
		}
	}
	slot.ID = f.genID("slot")
	f.slots[slot.ID] = slot
	return slot.ID, nil
}

func (f *fakeStore) SetSlotAssignedKarts(ctx context.Context, tx Tx, slotID string, kartIDs []string) error {
	slot, ok := f.slots[slotID]
	if !ok {
		return response.ErrNotFound
	}
	slot.AssignedKarts = kartIDs
	return nil
}

func (f *fakeStore) IncrementSlotPilots(ctx context.Context, tx Tx, slotID string) error {
	slot, ok := f.slots[slotID]
	if !ok {
		return response.ErrNotFound
	}
	if slot.CurrentPilots >= slot.MaxPilots {
		return response.ErrCapacityExceeded
	}
	slot.CurrentPilots++
	return nil
}

func (f *fakeStore) DecrementSlotPilots(ctx context.Context, tx Tx, slotID string) error {
	slot, ok := f.slots[slotID]
	if !ok {
		return response.ErrNotFound
	}
	if slot.CurrentPilots > 0 {
		slot.CurrentPilots--
	}
	return nil
}

func (f *fakeStore) CreateBooking(ctx context.Context, tx Tx, booking *models.Booking) (string, error) {
	id := f.genID("booking")
	booking.ID = id
	f.bookings[id] = booking
	return id, nil
}

func (f *fakeStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, ok := f.bookings[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	copied := *booking
	return &copied, nil
}

func (f *fakeStore) ListBookingsBySlot(ctx context.Context, slotID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, booking := range f.bookings {
		if booking.TimeSlotID != nil && *booking.TimeSlotID == slotID {
			out = append(out, *booking)
		}
	}
	return out, nil
}

func (f *fakeStore) CountActiveBookingsBySlot(ctx context.Context, slotID string) (int, error) {
	count := 0
	for _, booking := range f.bookings {
		if booking.TimeSlotID != nil && *booking.TimeSlotID == slotID && booking.Status != models.BookingCancelled {
			count++
		}
	}
	return count, nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, tx Tx, bookingID string, status models.BookingStatus) error {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return response.ErrNotFound
	}
	booking.Status = status
	return nil
}

func (f *fakeStore) SetBookingKart(ctx context.Context, tx Tx, bookingID string, kartID *string) error {
	booking, ok := f.bookings[bookingID]
	if !ok {
		return response.ErrNotFound
	}
	booking.AssignedKartID = kartID
	return nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, tx Tx, notification *models.Notification) (string, error) {
	notification.ID = f.genID("notif")
	notification.CreatedAt = time.Now()
	f.notifications = append(f.notifications, *notification)
	return notification.ID, nil
}

func (f *fakeStore) ListNotifications(ctx context.Context, isRead *bool, limit int) ([]models.Notification, error) {
	var out []models.Notification
	for _, notification := range f.notifications {
		if isRead != nil && notification.IsRead != *isRead {
			continue
		}
		out = append(out, notification)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) MarkNotificationRead(ctx context.Context, id string) error {
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].IsRead = true
			return nil
		}
	}
	return response.ErrNotFound
}

type fakeLocker struct {
	held map[string]bool
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Lock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key string) error {
	delete(l.held, key)
	return nil
}

// #### fixtures ####

const (
	testDate  = "2026-09-12"
	testStart = "10:00"
	testEnd   = "11:00"
)

func newFixture() (*Service, *fakeStore, *fakeLocker) {
	store := newFakeStore()
	locker := newFakeLocker()
	return NewService(store, locker), store, locker
}

func seedPilot(store *fakeStore, name string) string {
	id := store.genID("pilot")
	store.pilots[id] = &models.Pilot{
		ID:               id,
		Name:             name,
		Category:         "amateur",
		IsActive:         true,
		RegistrationDate: "2026-01-15",
	}
	return id
}

func seedKart(store *fakeStore, id, number string, hours float64) {
	store.karts[id] = &models.Kart{
		ID:                    id,
		Number:                number,
		Type:                  models.KartRental,
		Brand:                 "Sodi",
		Model:                 "RT8",
		Status:                models.KartActive,
		TotalHours:            hours,
		IsAvailableForBooking: true,
		MaxDailyHours:         8,
	}
}

func seedSlot(store *fakeStore, id string, maxPilots int) {
	store.slots[id] = &models.TimeSlot{
		ID:            id,
		Date:          testDate,
		StartTime:     testStart,
		EndTime:       testEnd,
		KartType:      models.KartRental,
		TotalKarts:    maxPilots,
		MaxPilots:     maxPilots,
		PricePerPilot: 50,
		IsActive:      true,
	}
}

func bookingRequest(pilotID string) *api.BookingRequest {
	return &api.BookingRequest{
		Date:      testDate,
		StartTime: testStart,
		EndTime:   testEnd,
		PilotID:   pilotID,
		KartType:  string(models.KartRental),
		Price:     50,
	}
}

// #### available karts ####

func TestGetAvailableKarts_FiltersInactiveAndUnbookable(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedKart(store, "kart-c", "3", 0)
	store.karts["kart-b"].Status = models.KartMaintenance
	store.karts["kart-c"].IsAvailableForBooking = false

	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, nil)
	require.NoError(t, err)

	require.Len(t, karts, 1)
	assert.Equal(t, "kart-a", karts[0].ID)
}

func TestGetAvailableKarts_OverrideVetoesKartForSlot(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedSlot(store, "slot-1", 5)
	store.availability = append(store.availability, models.KartAvailability{
		ID:          "avail-1",
		KartID:      "kart-a",
		Date:        testDate,
		TimeSlotID:  "slot-1",
		IsAvailable: false,
	})

	slotID := "slot-1"
	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, &slotID)
	require.NoError(t, err)

	require.Len(t, karts, 1)
	assert.Equal(t, "kart-b", karts[0].ID)
}

func TestGetAvailableKarts_OverrideScopedToItsSlot(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)
	seedSlot(store, "slot-2", 5)
	store.slots["slot-2"].StartTime = "12:00"
	store.availability = append(store.availability, models.KartAvailability{
		ID:          "avail-1",
		KartID:      "kart-a",
		Date:        testDate,
		TimeSlotID:  "slot-2",
		IsAvailable: false,
	})

	slotID := "slot-1"
	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, &slotID)
	require.NoError(t, err)

	require.Len(t, karts, 1)
	assert.Equal(t, "kart-a", karts[0].ID)
}

func TestGetAvailableKarts_ExcludesClaimedKarts(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedSlot(store, "slot-1", 5)

	slotID := "slot-1"
	kartA := "kart-a"
	store.bookings["booking-1"] = &models.Booking{
		ID:             "booking-1",
		TimeSlotID:     &slotID,
		AssignedKartID: &kartA,
		Status:         models.BookingScheduled,
	}

	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, &slotID)
	require.NoError(t, err)

	require.Len(t, karts, 1)
	assert.Equal(t, "kart-b", karts[0].ID)
}

func TestGetAvailableKarts_CancelledBookingReleasesKart(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	slotID := "slot-1"
	kartA := "kart-a"
	store.bookings["booking-1"] = &models.Booking{
		ID:             "booking-1",
		TimeSlotID:     &slotID,
		AssignedKartID: &kartA,
		Status:         models.BookingCancelled,
	}

	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, &slotID)
	require.NoError(t, err)

	require.Len(t, karts, 1)
	assert.Equal(t, "kart-a", karts[0].ID)
}

func TestGetAvailableKarts_InvalidInput(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.GetAvailableKarts(context.Background(), "hovercraft", testDate, nil)
	assert.ErrorIs(t, err, response.ErrBadRequest)

	_, err = svc.GetAvailableKarts(context.Background(), "rental", "12/09/2026", nil)
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

// #### auto-assignment ####

func TestAutoAssignKart_PicksFewestHoursThenLowestID(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 10)
	seedKart(store, "kart-b", "2", 5)
	seedKart(store, "kart-c", "3", 5)
	seedSlot(store, "slot-1", 5)

	kart, err := svc.AutoAssignKart(context.Background(), "rental", testDate, "slot-1", nil)
	require.NoError(t, err)

	require.NotNil(t, kart)
	assert.Equal(t, "kart-b", kart.ID)
}

func TestAutoAssignKart_RespectsExclusions(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 10)
	seedKart(store, "kart-b", "2", 5)
	seedSlot(store, "slot-1", 5)

	kart, err := svc.AutoAssignKart(context.Background(), "rental", testDate, "slot-1", []string{"kart-b"})
	require.NoError(t, err)

	require.NotNil(t, kart)
	assert.Equal(t, "kart-a", kart.ID)
}

func TestAutoAssignKart_NothingAssignable(t *testing.T) {
	svc, store, _ := newFixture()
	seedSlot(store, "slot-1", 5)

	kart, err := svc.AutoAssignKart(context.Background(), "rental", testDate, "slot-1", nil)
	require.NoError(t, err)
	assert.Nil(t, kart)
}

// #### create booking ####

func TestCreateBooking_AutoAssignsKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 10)
	seedKart(store, "kart-b", "2", 5)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	require.NotNil(t, booking.AssignedKartID)
	assert.Equal(t, "kart-b", *booking.AssignedKartID)
	require.NotNil(t, booking.TimeSlotID)
	assert.Equal(t, "slot-1", *booking.TimeSlotID)
	assert.Equal(t, string(models.BookingScheduled), booking.Status)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
	require.Len(t, store.notifications, 1)
	assert.Equal(t, "New Booking", store.notifications[0].Title)
}

func TestCreateBooking_NoDoubleAssignmentOfSameKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotA := seedPilot(store, "Ayrton")
	pilotB := seedPilot(store, "Alain")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	first, err := svc.CreateBooking(context.Background(), bookingRequest(pilotA))
	require.NoError(t, err)
	require.NotNil(t, first.AssignedKartID)

	second, err := svc.CreateBooking(context.Background(), bookingRequest(pilotB))
	require.NoError(t, err)
	assert.Nil(t, second.AssignedKartID, "single kart already claimed, booking must stay unassigned")
}

func TestCreateBooking_CapacityExceeded(t *testing.T) {
	svc, store, _ := newFixture()

	pilotA := seedPilot(store, "Ayrton")
	pilotB := seedPilot(store, "Alain")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedSlot(store, "slot-1", 1)

	_, err := svc.CreateBooking(context.Background(), bookingRequest(pilotA))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), bookingRequest(pilotB))
	assert.ErrorIs(t, err, response.ErrCapacityExceeded)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
	assert.Len(t, store.bookings, 1)
}

func TestCreateBooking_PreferredKartHonored(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 100)
	seedSlot(store, "slot-1", 5)

	req := bookingRequest(pilotID)
	preferred := "kart-b"
	req.PreferredKartID = &preferred

	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, booking.AssignedKartID)
	assert.Equal(t, "kart-b", *booking.AssignedKartID)
}

func TestCreateBooking_PreferredKartUnavailableFallsBack(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 100)
	seedSlot(store, "slot-1", 5)
	store.availability = append(store.availability, models.KartAvailability{
		ID:          "avail-1",
		KartID:      "kart-b",
		Date:        testDate,
		TimeSlotID:  "slot-1",
		IsAvailable: false,
	})

	req := bookingRequest(pilotID)
	preferred := "kart-b"
	req.PreferredKartID = &preferred

	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	require.NotNil(t, booking.AssignedKartID)
	assert.Equal(t, "kart-a", *booking.AssignedKartID)
}

func TestCreateBooking_AutoAssignDisabled(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	req := bookingRequest(pilotID)
	noAuto := false
	req.AutoAssignKart = &noAuto

	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	assert.Nil(t, booking.AssignedKartID)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
}

func TestCreateBooking_SlotLessGetsNoKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	assert.Nil(t, booking.TimeSlotID)
	assert.Nil(t, booking.AssignedKartID)
}

func TestCreateBooking_PilotNotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateBooking(context.Background(), bookingRequest("pilot-missing"))
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestCreateBooking_UnknownTimeSlot(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	req := bookingRequest(pilotID)
	slotID := "slot-missing"
	req.TimeSlotID = &slotID

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestCreateBooking_SlotLocked(t *testing.T) {
	svc, store, locker := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 5)
	req := bookingRequest(pilotID)
	slotID := "slot-1"
	req.TimeSlotID = &slotID

	locker.held["slot:slot-1"] = true

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrLocked)
}

func TestCreateBooking_InvalidInput(t *testing.T) {
	svc, store, _ := newFixture()
	pilotID := seedPilot(store, "Ayrton")

	req := bookingRequest(pilotID)
	req.Date = "tomorrow"
	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrBadRequest)

	req = bookingRequest(pilotID)
	req.KartType = "hovercraft"
	_, err = svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestCreateBooking_ImplicitResolutionContendsOnSlotLock(t *testing.T) {
	svc, store, locker := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	// Another mutation of slot-1 is in flight and holds the slot's id lock.
	locker.held["slot:slot-1"] = true

	_, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	assert.ErrorIs(t, err, response.ErrLocked)

	assert.Len(t, store.bookings, 0)
	assert.Equal(t, 0, store.slots["slot-1"].CurrentPilots)
	assert.False(t, locker.held["slot:"+testDate+":"+testStart+":rental"],
		"natural-key lock must be released on the way out")
}

func TestCreateBooking_ReleasesBothLocks(t *testing.T) {
	svc, store, locker := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	_, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	assert.Empty(t, locker.held)
}

// #### status transitions ####

func TestUpdateBookingStatus_CancelReleasesSeatAndReactivationTakesItBack(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)
	require.Equal(t, 1, store.slots["slot-1"].CurrentPilots)

	cancelled, err := svc.UpdateBookingStatus(context.Background(), booking.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, string(models.BookingCancelled), cancelled.Status)
	assert.Equal(t, 0, store.slots["slot-1"].CurrentPilots)

	reactivated, err := svc.UpdateBookingStatus(context.Background(), booking.ID, "scheduled")
	require.NoError(t, err)
	assert.Equal(t, string(models.BookingScheduled), reactivated.Status)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
}

func TestUpdateBookingStatus_CompletedIsTerminal(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.ID, "completed")
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.ID, "cancelled")
	assert.ErrorIs(t, err, response.ErrInvalidTransition)
}

func TestUpdateBookingStatus_SameStatusRejected(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.ID, "scheduled")
	assert.ErrorIs(t, err, response.ErrInvalidTransition)
}

func TestUpdateBookingStatus_InvalidStatus(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), booking.ID, "teleported")
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestUpdateBookingStatus_ReactivationBlockedByFullSlot(t *testing.T) {
	svc, store, _ := newFixture()

	pilotA := seedPilot(store, "Ayrton")
	pilotB := seedPilot(store, "Alain")
	seedSlot(store, "slot-1", 1)

	first, err := svc.CreateBooking(context.Background(), bookingRequest(pilotA))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), first.ID, "cancelled")
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), bookingRequest(pilotB))
	require.NoError(t, err)

	_, err = svc.UpdateBookingStatus(context.Background(), first.ID, "scheduled")
	assert.ErrorIs(t, err, response.ErrCapacityExceeded)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
}

func TestUpdateBookingStatus_ReactivationClearsClaimedKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotA := seedPilot(store, "Ayrton")
	pilotB := seedPilot(store, "Alain")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	first, err := svc.CreateBooking(context.Background(), bookingRequest(pilotA))
	require.NoError(t, err)
	require.NotNil(t, first.AssignedKartID)

	_, err = svc.UpdateBookingStatus(context.Background(), first.ID, "cancelled")
	require.NoError(t, err)

	second, err := svc.CreateBooking(context.Background(), bookingRequest(pilotB))
	require.NoError(t, err)
	require.NotNil(t, second.AssignedKartID)
	require.Equal(t, "kart-a", *second.AssignedKartID)

	reactivated, err := svc.UpdateBookingStatus(context.Background(), first.ID, "scheduled")
	require.NoError(t, err)
	assert.Nil(t, reactivated.AssignedKartID, "kart claimed while cancelled must not come back")
}

func TestUpdateBookingStatus_NotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.UpdateBookingStatus(context.Background(), "booking-missing", "cancelled")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

// #### kart assignment ####

func TestAssignKart_ExplicitKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	kartB := "kart-b"
	newKartID, err := svc.AssignKart(context.Background(), booking.ID, &kartB, false)
	require.NoError(t, err)

	require.NotNil(t, newKartID)
	assert.Equal(t, "kart-b", *newKartID)
	assert.Equal(t, "kart-b", *store.bookings[booking.ID].AssignedKartID)
}

func TestAssignKart_ExplicitKartNotAvailable(t *testing.T) {
	svc, store, _ := newFixture()

	pilotA := seedPilot(store, "Ayrton")
	pilotB := seedPilot(store, "Alain")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 5)
	seedSlot(store, "slot-1", 5)

	first, err := svc.CreateBooking(context.Background(), bookingRequest(pilotA))
	require.NoError(t, err)
	require.Equal(t, "kart-a", *first.AssignedKartID)

	second, err := svc.CreateBooking(context.Background(), bookingRequest(pilotB))
	require.NoError(t, err)

	kartA := "kart-a"
	_, err = svc.AssignKart(context.Background(), second.ID, &kartA, false)
	assert.ErrorIs(t, err, response.ErrKartNotAvailable)
}

func TestAssignKart_ReassertingHeldKartAllowed(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)
	require.Equal(t, "kart-a", *booking.AssignedKartID)

	kartA := "kart-a"
	newKartID, err := svc.AssignKart(context.Background(), booking.ID, &kartA, false)
	require.NoError(t, err)
	assert.Equal(t, "kart-a", *newKartID)
}

func TestAssignKart_AutoExcludesCurrentKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 5)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)
	require.Equal(t, "kart-a", *booking.AssignedKartID)

	newKartID, err := svc.AssignKart(context.Background(), booking.ID, nil, true)
	require.NoError(t, err)

	require.NotNil(t, newKartID)
	assert.Equal(t, "kart-b", *newKartID)
}

func TestAssignKart_ClearKart(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	booking, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)
	require.NotNil(t, booking.AssignedKartID)

	newKartID, err := svc.AssignKart(context.Background(), booking.ID, nil, false)
	require.NoError(t, err)

	assert.Nil(t, newKartID)
	assert.Nil(t, store.bookings[booking.ID].AssignedKartID)
}

// #### time slots ####

func TestCreateOrUpdateTimeSlot_Defaults(t *testing.T) {
	svc, store, _ := newFixture()

	id, err := svc.CreateOrUpdateTimeSlot(context.Background(), &api.TimeSlotRequest{
		Date:       testDate,
		StartTime:  testStart,
		EndTime:    testEnd,
		KartType:   "rental",
		TotalKarts: 6,
	})
	require.NoError(t, err)

	slot := store.slots[id]
	require.NotNil(t, slot)
	assert.Equal(t, 6, slot.MaxPilots)
	assert.Equal(t, 50.0, slot.PricePerPilot)
	assert.True(t, slot.IsActive)
}

func TestCreateOrUpdateTimeSlot_UpsertKeepsLedger(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 5)

	_, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)
	require.Equal(t, 1, store.slots["slot-1"].CurrentPilots)

	price := 75.0
	id, err := svc.CreateOrUpdateTimeSlot(context.Background(), &api.TimeSlotRequest{
		Date:          testDate,
		StartTime:     testStart,
		EndTime:       testEnd,
		KartType:      "rental",
		TotalKarts:    5,
		PricePerPilot: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, "slot-1", id)
	assert.Equal(t, 1, store.slots["slot-1"].CurrentPilots)
	assert.Equal(t, 75.0, store.slots["slot-1"].PricePerPilot)
}

func TestCreateOrUpdateTimeSlot_InvalidInput(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateOrUpdateTimeSlot(context.Background(), &api.TimeSlotRequest{
		Date:       testDate,
		StartTime:  "10am",
		EndTime:    testEnd,
		KartType:   "rental",
		TotalKarts: 6,
	})
	assert.ErrorIs(t, err, response.ErrBadRequest)

	_, err = svc.CreateOrUpdateTimeSlot(context.Background(), &api.TimeSlotRequest{
		Date:       testDate,
		StartTime:  testStart,
		EndTime:    testEnd,
		KartType:   "rental",
		TotalKarts: 0,
	})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestListTimeSlots_ReportsAvailableSpots(t *testing.T) {
	svc, store, _ := newFixture()

	pilotID := seedPilot(store, "Ayrton")
	seedSlot(store, "slot-1", 4)

	_, err := svc.CreateBooking(context.Background(), bookingRequest(pilotID))
	require.NoError(t, err)

	slots, err := svc.ListTimeSlots(context.Background(), testDate, nil)
	require.NoError(t, err)

	require.Len(t, slots, 1)
	assert.Equal(t, 1, slots[0].CurrentBookings)
	assert.Equal(t, 3, slots[0].AvailableSpots)
}

// #### kart inventory ####

func TestCreateKart_DuplicateNumber(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateKart(context.Background(), &api.KartCreateRequest{
		Number: "7", Type: "rental", Brand: "Sodi", Model: "RT8",
	})
	require.NoError(t, err)

	_, err = svc.CreateKart(context.Background(), &api.KartCreateRequest{
		Number: "7", Type: "rental", Brand: "Birel", Model: "N35",
	})
	assert.ErrorIs(t, err, response.ErrConflict)
}

func TestUpdateKart_MaintenanceLeavesAvailability(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)

	status := "maintenance"
	kart, err := svc.UpdateKart(context.Background(), "kart-a", &api.KartUpdateRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "maintenance", kart.Status)

	karts, err := svc.GetAvailableKarts(context.Background(), "rental", testDate, nil)
	require.NoError(t, err)
	assert.Empty(t, karts)
}

func TestUpdateKart_PartialPatch(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 12.5)

	hours := 20.0
	unbookable := false
	kart, err := svc.UpdateKart(context.Background(), "kart-a", &api.KartUpdateRequest{
		TotalHours:            &hours,
		IsAvailableForBooking: &unbookable,
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, kart.TotalHours)
	assert.False(t, kart.IsAvailableForBooking)
	assert.Equal(t, "1", kart.Number, "untouched fields keep their values")
	assert.Equal(t, "active", kart.Status)
}

func TestUpdateKart_InvalidStatus(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)

	status := "broken"
	_, err := svc.UpdateKart(context.Background(), "kart-a", &api.KartUpdateRequest{Status: &status})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestUpdateKart_NotFound(t *testing.T) {
	svc, _, _ := newFixture()

	status := "retired"
	_, err := svc.UpdateKart(context.Background(), "kart-missing", &api.KartUpdateRequest{Status: &status})
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestUpdateKart_DuplicateNumber(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)

	number := "1"
	_, err := svc.UpdateKart(context.Background(), "kart-b", &api.KartUpdateRequest{Number: &number})
	assert.ErrorIs(t, err, response.ErrConflict)
}

// #### slot kart pool ####

func TestAutoAssignKartsToSlot(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedKart(store, "kart-c", "3", 0)
	seedSlot(store, "slot-1", 2)

	count, err := svc.AutoAssignKartsToSlot(context.Background(), "slot-1")
	require.NoError(t, err)

	assert.Equal(t, 2, count, "assignment is capped at total_karts")
	assert.Len(t, store.slots["slot-1"].AssignedKarts, 2)

	for _, record := range store.availability {
		assert.Equal(t, "slot-1", record.TimeSlotID)
		assert.True(t, record.IsAvailable)
	}
	assert.Len(t, store.availability, 2)
}

func TestAutoAssignKartsToSlot_SkipsClaimedAndVetoed(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedKart(store, "kart-b", "2", 0)
	seedKart(store, "kart-c", "3", 0)
	seedSlot(store, "slot-1", 3)

	slotID := "slot-1"
	kartA := "kart-a"
	store.bookings["booking-1"] = &models.Booking{
		ID:             "booking-1",
		TimeSlotID:     &slotID,
		AssignedKartID: &kartA,
		Status:         models.BookingScheduled,
	}
	store.availability = append(store.availability, models.KartAvailability{
		ID:          "avail-1",
		KartID:      "kart-b",
		Date:        testDate,
		TimeSlotID:  "slot-1",
		IsAvailable: false,
	})

	count, err := svc.AutoAssignKartsToSlot(context.Background(), "slot-1")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"kart-c"}, store.slots["slot-1"].AssignedKarts)
}

func TestAutoAssignKartsToSlot_NotFound(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.AutoAssignKartsToSlot(context.Background(), "slot-missing")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

func TestAutoAssignKartsToSlot_Locked(t *testing.T) {
	svc, store, locker := newFixture()

	seedSlot(store, "slot-1", 2)
	locker.held["slot:slot-1"] = true

	_, err := svc.AutoAssignKartsToSlot(context.Background(), "slot-1")
	assert.ErrorIs(t, err, response.ErrLocked)
}

// #### kart availability ####

func TestSetKartAvailability_UpsertsByKartDateSlot(t *testing.T) {
	svc, store, _ := newFixture()

	seedKart(store, "kart-a", "1", 0)
	seedSlot(store, "slot-1", 5)

	req := &api.KartAvailabilityRequest{
		KartID:      "kart-a",
		Date:        testDate,
		TimeSlotID:  "slot-1",
		IsAvailable: false,
	}

	first, err := svc.SetKartAvailability(context.Background(), req)
	require.NoError(t, err)

	req.IsAvailable = true
	second, err := svc.SetKartAvailability(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, store.availability, 1)
	assert.True(t, store.availability[0].IsAvailable)
}

func TestSetKartAvailability_UnknownKart(t *testing.T) {
	svc, store, _ := newFixture()
	seedSlot(store, "slot-1", 5)

	_, err := svc.SetKartAvailability(context.Background(), &api.KartAvailabilityRequest{
		KartID:      "kart-missing",
		Date:        testDate,
		TimeSlotID:  "slot-1",
		IsAvailable: false,
	})
	assert.ErrorIs(t, err, response.ErrNotFound)
}

// #### pilots and notifications ####

func TestCreatePilot(t *testing.T) {
	svc, _, _ := newFixture()

	medical := "asthma, carries inhaler"
	pilot, err := svc.CreatePilot(context.Background(), &api.PilotCreateRequest{
		Name:        "Ayrton",
		Category:    "professional",
		KartTypes:   []string{"rental", "competition"},
		MedicalInfo: &medical,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, pilot.ID)
	assert.True(t, pilot.IsActive)
	assert.NotEmpty(t, pilot.RegistrationDate)
	require.NotNil(t, pilot.MedicalInfo)
	assert.Equal(t, medical, *pilot.MedicalInfo)
}

func TestCreatePilot_InvalidKartType(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreatePilot(context.Background(), &api.PilotCreateRequest{
		Name:      "Ayrton",
		KartTypes: []string{"hovercraft"},
	})
	assert.ErrorIs(t, err, response.ErrBadRequest)
}

func TestMarkNotificationRead_NotFound(t *testing.T) {
	svc, _, _ := newFixture()

	err := svc.MarkNotificationRead(context.Background(), "notif-missing")
	assert.ErrorIs(t, err, response.ErrNotFound)
}

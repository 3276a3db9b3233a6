package spa

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shangrila/internal/models"
	"shangrila/internal/repo"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	catalog := repo.NewEmptyCatalogStore()
	massage := models.SpaCategory{ID: 1, Name: "Massage Therapy"}
	catalog.AddSpaService(massage, models.SpaService{
		ID:         1,
		CategoryID: 1,
		Name:       "Deep Tissue Massage",
		Duration:   "60 minutes",
		Price:      180,
	})
	catalog.AddSpaService(massage, models.SpaService{
		ID:         2,
		CategoryID: 1,
		Name:       "Hot Stone Massage",
		Duration:   "90 minutes",
		Price:      220,
	})
	svc := New(catalog, repo.NewMemorySpaStore(catalog), "SPA", false)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func validInput() BookInput {
	return BookInput{
		ServiceID:       1,
		AppointmentDate: "2026-03-15",
		AppointmentTime: "10:00 AM",
		GuestName:       "Jane Doe",
		GuestEmail:      "jane@example.com",
		GuestPhone:      "+1-555-0101",
	}
}

func TestBook_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	a, err := svc.Book(context.Background(), validInput(), nil)
	require.NoError(t, err)
	assert.Regexp(t, `^SPA-20260301-\d{4}$`, a.BookingReference)
	assert.Equal(t, models.StatusConfirmed, a.Status)
	assert.Equal(t, "Deep Tissue Massage", a.ServiceName)
	// цена из каталога, не из запроса
	assert.Equal(t, 180.0, a.Price)
}

func TestBook_MissingFields(t *testing.T) {
	svc := newTestService(t)

	in := validInput()
	in.GuestName = ""
	in.GuestEmail = ""

	_, err := svc.Book(context.Background(), in, nil)
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "guestName")
	assert.Contains(t, err.Error(), "guestEmail")
}

func TestBook_InvalidSlot(t *testing.T) {
	svc := newTestService(t)

	in := validInput()
	in.AppointmentTime = "10:30 AM"

	_, err := svc.Book(context.Background(), in, nil)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestBook_SlotConflictScopedToService(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, validInput(), nil)
	require.NoError(t, err)

	// тот же слот той же услуги занят
	_, err = svc.Book(ctx, validInput(), nil)
	require.ErrorIs(t, err, models.ErrSlotTaken)

	// другая услуга в тот же час свободна
	other := validInput()
	other.ServiceID = 2
	_, err = svc.Book(ctx, other, nil)
	require.NoError(t, err)

	// та же услуга в другой час свободна
	later := validInput()
	later.AppointmentTime = "11:00 AM"
	_, err = svc.Book(ctx, later, nil)
	require.NoError(t, err)
}

func TestBook_ConcurrentSameSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(ctx, validInput(), nil)
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case assert.ErrorIs(t, err, models.ErrSlotTaken):
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
}

func TestSlotsFor_ExcludesBooked(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Book(ctx, validInput(), nil)
	require.NoError(t, err)

	slots, err := svc.SlotsFor(ctx, 1, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, "Deep Tissue Massage", slots.ServiceName)
	assert.NotContains(t, slots.AvailableSlots, "10:00 AM")
	assert.Contains(t, slots.AvailableSlots, "9:00 AM")
	assert.Len(t, slots.AvailableSlots, len(allTimeSlots)-1)

	// другая дата — полная сетка
	slots, err = svc.SlotsFor(ctx, 1, "2026-03-16")
	require.NoError(t, err)
	assert.Equal(t, allTimeSlots, slots.AvailableSlots)
}

func TestCancel_FreesSlot(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a, err := svc.Book(ctx, validInput(), nil)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, a.BookingReference, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelledDate)

	_, err = svc.Cancel(ctx, a.BookingReference, nil)
	require.ErrorIs(t, err, models.ErrAlreadyCancelled)

	// слот снова свободен
	_, err = svc.Book(ctx, validInput(), nil)
	require.NoError(t, err)
}

func TestOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	owner := uint(7)
	a, err := svc.Book(ctx, validInput(), &owner)
	require.NoError(t, err)

	stranger := &models.User{ID: 8}
	_, err = svc.GetByReference(ctx, a.BookingReference, stranger)
	require.ErrorIs(t, err, models.ErrPermission)
	_, err = svc.Cancel(ctx, a.BookingReference, stranger)
	require.ErrorIs(t, err, models.ErrPermission)

	// владелец и анонимный доступ по номеру брони проходят
	_, err = svc.GetByReference(ctx, a.BookingReference, &models.User{ID: owner})
	require.NoError(t, err)
	_, err = svc.GetByReference(ctx, a.BookingReference, nil)
	require.NoError(t, err)
}

func TestDegraded(t *testing.T) {
	catalog := repo.NewMemoryCatalogStore()
	svc := New(catalog, repo.NewMemorySpaStore(catalog), "SPA", true)

	_, err := svc.Book(context.Background(), validInput(), nil)
	require.ErrorIs(t, err, models.ErrStoreUnavailable)

	slots, err := svc.SlotsFor(context.Background(), 1, "2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, allTimeSlots, slots.AvailableSlots)
}

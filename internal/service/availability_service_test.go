package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taskmanager-pro/service-booking-api/internal/models"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
)

type availabilityRepoStub struct {
	slots     map[string]*models.Slot
	defaults  map[string]*models.DefaultScheduleEntry
	overrides []models.UnavailabilityOverride

	replaced   []models.DefaultScheduleEntry
	slotExists bool
	created    *models.Slot
	deleteErr  error
}

func slotKey(workerID, date, at string) string { return workerID + "|" + date + "|" + at }

func (s *availabilityRepoStub) FindSlotAt(ctx context.Context, workerID, date, at string) (*models.Slot, error) {
	if slot, ok := s.slots[slotKey(workerID, date, at)]; ok {
		return slot, nil
	}
	return nil, sql.ErrNoRows
}

func (s *availabilityRepoStub) SlotExists(ctx context.Context, workerID, date, at string) (bool, error) {
	return s.slotExists, nil
}

func (s *availabilityRepoStub) CreateSlot(ctx context.Context, slot *models.Slot) error {
	slot.ID = "slot-new"
	slot.Status = models.SlotAvailable
	s.created = slot
	return nil
}

func (s *availabilityRepoStub) DeleteSlot(ctx context.Context, slotID, workerID string) error {
	return s.deleteErr
}

func (s *availabilityRepoStub) ListSlotsForWorker(ctx context.Context, workerID string) ([]models.Slot, error) {
	return nil, nil
}

func (s *availabilityRepoStub) ReplaceDefaults(ctx context.Context, workerID string, entries []models.DefaultScheduleEntry) error {
	s.replaced = entries
	return nil
}

func (s *availabilityRepoStub) ListDefaults(ctx context.Context, workerID string) ([]models.DefaultScheduleEntry, error) {
	return nil, nil
}

func (s *availabilityRepoStub) FindDefaultForDay(ctx context.Context, workerID, dayOfWeek string) (*models.DefaultScheduleEntry, error) {
	if entry, ok := s.defaults[workerID+"|"+dayOfWeek]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

func (s *availabilityRepoStub) CreateOverride(ctx context.Context, override *models.UnavailabilityOverride) error {
	override.ID = "override-new"
	return nil
}

func (s *availabilityRepoStub) DeleteOverride(ctx context.Context, overrideID, workerID string) error {
	return s.deleteErr
}

func (s *availabilityRepoStub) ListOverridesForDate(ctx context.Context, workerID, date string) ([]models.UnavailabilityOverride, error) {
	var out []models.UnavailabilityOverride
	for _, o := range s.overrides {
		if o.WorkerID == workerID && o.Date == date {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *availabilityRepoStub) ListUpcomingOverrides(ctx context.Context, workerID, fromDate string) ([]models.UnavailabilityOverride, error) {
	return s.overrides, nil
}

func workerIdentity() models.Identity {
	return models.Identity{UserID: "worker-1", Role: models.RoleWorker, FullName: "Sam Worker"}
}

// 2026-09-07 is a Monday.
const monday = "2026-09-07"

func TestResolveDefaultScheduleWindow(t *testing.T) {
	repo := &availabilityRepoStub{
		defaults: map[string]*models.DefaultScheduleEntry{
			"worker-1|Monday": {WorkerID: "worker-1", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00"},
		},
	}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "10:00")
	require.NoError(t, err)
	require.Equal(t, models.StateAvailable, state)

	state, err = svc.Resolve(context.Background(), "worker-1", monday, "18:00")
	require.NoError(t, err)
	require.Equal(t, models.StateUnavailable, state)

	// End bound is exclusive.
	state, err = svc.Resolve(context.Background(), "worker-1", monday, "17:00")
	require.NoError(t, err)
	require.Equal(t, models.StateUnavailable, state)
}

func TestResolveNoScheduleMeansUnavailable(t *testing.T) {
	svc := NewAvailabilityService(&availabilityRepoStub{}, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "10:00")
	require.NoError(t, err)
	require.Equal(t, models.StateUnavailable, state)
}

func TestResolveOverrideBeatsDefaultWindow(t *testing.T) {
	repo := &availabilityRepoStub{
		defaults: map[string]*models.DefaultScheduleEntry{
			"worker-1|Monday": {WorkerID: "worker-1", DayOfWeek: "Monday", StartTime: "09:00", EndTime: "17:00"},
		},
		overrides: []models.UnavailabilityOverride{
			{WorkerID: "worker-1", Date: monday, StartTime: "09:00", EndTime: "11:00"},
		},
	}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "10:00")
	require.NoError(t, err)
	require.Equal(t, models.StateUnavailable, state)

	state, err = svc.Resolve(context.Background(), "worker-1", monday, "12:00")
	require.NoError(t, err)
	require.Equal(t, models.StateAvailable, state)
}

func TestResolveOverrideBeatsExplicitAvailableSlot(t *testing.T) {
	repo := &availabilityRepoStub{
		slots: map[string]*models.Slot{
			slotKey("worker-1", monday, "10:00"): {ID: "slot-1", WorkerID: "worker-1", Status: models.SlotAvailable},
		},
		overrides: []models.UnavailabilityOverride{
			{WorkerID: "worker-1", Date: monday, StartTime: "09:00", EndTime: "11:00"},
		},
	}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "10:00")
	require.NoError(t, err)
	require.Equal(t, models.StateUnavailable, state)
}

func TestResolveBookedSlotBeatsOverride(t *testing.T) {
	repo := &availabilityRepoStub{
		slots: map[string]*models.Slot{
			slotKey("worker-1", monday, "10:00"): {ID: "slot-1", WorkerID: "worker-1", Status: models.SlotBooked},
		},
		overrides: []models.UnavailabilityOverride{
			{WorkerID: "worker-1", Date: monday, StartTime: "09:00", EndTime: "11:00"},
		},
	}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "10:00")
	require.NoError(t, err)
	require.Equal(t, models.StateBooked, state)
}

func TestResolveExplicitSlotBeatsDefaultSchedule(t *testing.T) {
	// No default schedule at all, yet the explicit slot makes the time available.
	repo := &availabilityRepoStub{
		slots: map[string]*models.Slot{
			slotKey("worker-1", monday, "19:00"): {ID: "slot-1", WorkerID: "worker-1", Status: models.SlotAvailable},
		},
	}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	state, err := svc.Resolve(context.Background(), "worker-1", monday, "19:00")
	require.NoError(t, err)
	require.Equal(t, models.StateAvailable, state)
}

func TestSetupScheduleValidation(t *testing.T) {
	repo := &availabilityRepoStub{}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	err := svc.SetupSchedule(context.Background(), workerIdentity(), SetupScheduleRequest{
		Days: []DayWindow{{Day: "Funday", StartTime: "09:00", EndTime: "17:00"}},
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	err = svc.SetupSchedule(context.Background(), workerIdentity(), SetupScheduleRequest{
		Days: []DayWindow{
			{Day: "Monday", StartTime: "09:00", EndTime: "17:00"},
			{Day: "Monday", StartTime: "10:00", EndTime: "12:00"},
		},
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	err = svc.SetupSchedule(context.Background(), workerIdentity(), SetupScheduleRequest{
		Days: []DayWindow{{Day: "Monday", StartTime: "17:00", EndTime: "09:00"}},
	})
	requireAppError(t, err, appErrors.ErrValidation.Code)

	err = svc.SetupSchedule(context.Background(), workerIdentity(), SetupScheduleRequest{
		Days: []DayWindow{{Day: "Monday", StartTime: "09:00", EndTime: "17:00"}},
	})
	require.NoError(t, err)
	require.Len(t, repo.replaced, 1)
	require.Equal(t, "worker-1", repo.replaced[0].WorkerID)
}

func TestSetupScheduleRequiresWorker(t *testing.T) {
	svc := NewAvailabilityService(&availabilityRepoStub{}, nil, zap.NewNop())

	err := svc.SetupSchedule(context.Background(),
		models.Identity{UserID: "cust-1", Role: models.RoleCustomer},
		SetupScheduleRequest{Days: []DayWindow{{Day: "Monday", StartTime: "09:00", EndTime: "17:00"}}})
	requireAppError(t, err, appErrors.ErrForbidden.Code)
}

func TestAddSlotRejectsDuplicate(t *testing.T) {
	repo := &availabilityRepoStub{slotExists: true}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	_, err := svc.AddSlot(context.Background(), workerIdentity(), AddSlotRequest{Date: monday, Time: "10:00"})
	requireAppError(t, err, appErrors.ErrConflict.Code)
}

func TestAddSlotOwnedByCaller(t *testing.T) {
	repo := &availabilityRepoStub{}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	slot, err := svc.AddSlot(context.Background(), workerIdentity(), AddSlotRequest{Date: monday, Time: "10:00"})
	require.NoError(t, err)
	require.Equal(t, "worker-1", slot.WorkerID)
	require.Equal(t, models.SlotAvailable, slot.Status)
}

func TestRemoveSlotNotFound(t *testing.T) {
	repo := &availabilityRepoStub{deleteErr: sql.ErrNoRows}
	svc := NewAvailabilityService(repo, nil, zap.NewNop())

	err := svc.RemoveSlot(context.Background(), workerIdentity(), "slot-1")
	requireAppError(t, err, appErrors.ErrNotFound.Code)
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, code, appErr.Code)
}

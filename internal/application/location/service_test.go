package location

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/staff-tracker-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockLocationStore struct{ mock.Mock }

func (m *mockLocationStore) Get(ctx context.Context, staffID string) (*domain.StaffLocation, error) {
	args := m.Called(ctx, staffID)
	if rec, _ := args.Get(0).(*domain.StaffLocation); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLocationStore) Upsert(ctx context.Context, staffID string, loc domain.Location) (*domain.StaffLocation, error) {
	args := m.Called(ctx, staffID, loc)
	if rec, _ := args.Get(0).(*domain.StaffLocation); rec != nil {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLocationStore) ScanIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

// fakeLocationStore keeps records in memory with an atomic whole-location
// replacement, mirroring the real store's per-item upsert.
type fakeLocationStore struct {
	mu      sync.Mutex
	records map[string]domain.StaffLocation
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{records: make(map[string]domain.StaffLocation)}
}

func (f *fakeLocationStore) Get(_ context.Context, staffID string) (*domain.StaffLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[staffID]
	if !ok {
		return nil, fmt.Errorf("staff %s: %w", staffID, domain.ErrNotFound)
	}
	return &rec, nil
}

func (f *fakeLocationStore) Upsert(_ context.Context, staffID string, loc domain.Location) (*domain.StaffLocation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := domain.StaffLocation{StaffID: staffID, Location: loc}
	f.records[staffID] = rec
	return &rec, nil
}

func (f *fakeLocationStore) ScanIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	return ids, nil
}

func f64(v float64) *float64 { return &v }

// --- Update ---

func TestUpdate_StampsLocalAndUTCFromSameInstant(t *testing.T) {
	fs := newFakeLocationStore()
	// 2024-03-01 10:00:00 UTC is 15:30:00 at +5:30.
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &service{repo: fs, zone: time.FixedZone("local", 330*60), now: func() time.Time { return fixed }}

	rec, err := svc.Update(context.Background(), "EMP001", domain.LocationInput{
		Latitude:  f64(12.9716),
		Longitude: f64(77.5946),
		Altitude:  f64(880),
	})

	require.NoError(t, err)
	assert.Equal(t, "EMP001", rec.StaffID)
	assert.Equal(t, 12.9716, rec.Location.Latitude)
	assert.Equal(t, 77.5946, rec.Location.Longitude)
	assert.Equal(t, 880.0, rec.Location.Altitude)
	assert.Equal(t, "15:30:00", rec.Location.UpdatedAt)
	assert.Equal(t, fixed, rec.Location.UpdatedAtUTC)
}

func TestUpdate_AltitudeDefaultsToZero(t *testing.T) {
	fs := newFakeLocationStore()
	svc := NewService(fs, 330)

	rec, err := svc.Update(context.Background(), "EMP001", domain.LocationInput{
		Latitude:  f64(1.5),
		Longitude: f64(2.5),
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Location.Altitude)
}

func TestUpdate_MissingCoordinates_ReturnsBadRequest(t *testing.T) {
	ms := &mockLocationStore{}
	svc := NewService(ms, 330)

	_, err := svc.Update(context.Background(), "EMP001", domain.LocationInput{
		Latitude: f64(1.5),
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
	ms.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdate_InvalidInput_DoesNotMutateExistingRecord(t *testing.T) {
	fs := newFakeLocationStore()
	svc := NewService(fs, 330)

	_, err := svc.Update(context.Background(), "EMP001", domain.LocationInput{
		Latitude:  f64(10),
		Longitude: f64(20),
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), "EMP001", domain.LocationInput{Longitude: f64(99)})
	require.Error(t, err)

	rec, err := svc.Get(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, 10.0, rec.Location.Latitude)
	assert.Equal(t, 20.0, rec.Location.Longitude)
}

func TestUpdate_EmptyStaffID_ReturnsBadRequest(t *testing.T) {
	svc := NewService(newFakeLocationStore(), 330)
	_, err := svc.Update(context.Background(), "", domain.LocationInput{
		Latitude:  f64(1),
		Longitude: f64(2),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestUpdate_LastWriteWins_AndUTCMonotonic(t *testing.T) {
	fs := newFakeLocationStore()
	svc := NewService(fs, 330)

	var prev time.Time
	for i := 0; i < 5; i++ {
		lat := float64(i)
		rec, err := svc.Update(context.Background(), "EMP002", domain.LocationInput{
			Latitude:  f64(lat),
			Longitude: f64(lat * 2),
		})
		require.NoError(t, err)
		assert.False(t, rec.Location.UpdatedAtUTC.Before(prev))
		prev = rec.Location.UpdatedAtUTC
	}

	rec, err := svc.Get(context.Background(), "EMP002")
	require.NoError(t, err)
	assert.Equal(t, 4.0, rec.Location.Latitude)
	assert.Equal(t, 8.0, rec.Location.Longitude)
}

// --- Get / ListIDs ---

func TestGet_NotFound(t *testing.T) {
	svc := NewService(newFakeLocationStore(), 330)
	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListIDs_ReturnsAllKnownIDs(t *testing.T) {
	fs := newFakeLocationStore()
	svc := NewService(fs, 330)

	for _, id := range []string{"EMP001", "EMP002", "EMP003"} {
		_, err := svc.Update(context.Background(), id, domain.LocationInput{
			Latitude:  f64(1),
			Longitude: f64(2),
		})
		require.NoError(t, err)
	}

	ids, err := svc.ListIDs(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"EMP001", "EMP002", "EMP003"}, ids)
}

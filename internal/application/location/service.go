package location

import (
	"context"
	"fmt"
	"time"

	"github.com/staff-tracker-api/internal/domain"
	"github.com/staff-tracker-api/internal/pkg/validate"
)

type Service interface {
	Get(ctx context.Context, staffID string) (*domain.StaffLocation, error)
	Update(ctx context.Context, staffID string, in domain.LocationInput) (*domain.StaffLocation, error)
	ListIDs(ctx context.Context) ([]string, error)
}

type locationStore interface {
	Get(ctx context.Context, staffID string) (*domain.StaffLocation, error)
	Upsert(ctx context.Context, staffID string, loc domain.Location) (*domain.StaffLocation, error)
	ScanIDs(ctx context.Context) ([]string, error)
}

type service struct {
	repo locationStore
	zone *time.Location
	now  func() time.Time
}

// NewService builds the location service. offsetMin is the fixed local-time
// offset in minutes east of UTC used for the human-readable stamp on writes,
// independent of the host timezone.
func NewService(repo locationStore, offsetMin int) Service {
	return &service{
		repo: repo,
		zone: time.FixedZone("local", offsetMin*60),
		now:  time.Now,
	}
}

func (s *service) Get(ctx context.Context, staffID string) (*domain.StaffLocation, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id required: %w", domain.ErrBadRequest)
	}
	return s.repo.Get(ctx, staffID)
}

func (s *service) Update(ctx context.Context, staffID string, in domain.LocationInput) (*domain.StaffLocation, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id required: %w", domain.ErrBadRequest)
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("invalid location data: %w", domain.ErrBadRequest)
	}

	altitude := 0.0
	if in.Altitude != nil {
		altitude = *in.Altitude
	}

	// Both stamps come from the same instant so local and UTC never drift.
	now := s.now()
	loc := domain.Location{
		Latitude:     *in.Latitude,
		Longitude:    *in.Longitude,
		Altitude:     altitude,
		UpdatedAt:    now.In(s.zone).Format("15:04:05"),
		UpdatedAtUTC: now.UTC(),
	}
	return s.repo.Upsert(ctx, staffID, loc)
}

func (s *service) ListIDs(ctx context.Context) ([]string, error) {
	return s.repo.ScanIDs(ctx)
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/telecare/scheduling-api/internal/model"
	"github.com/telecare/scheduling-api/internal/repository"
	apperrors "github.com/telecare/scheduling-api/pkg/errors"
	"github.com/telecare/scheduling-api/pkg/keylock"
	"github.com/telecare/scheduling-api/pkg/timeslot"
)

const (
	cacheTTL    = 5 * time.Minute
	cachePurge  = 10 * time.Minute
	cacheKeyFmt = "availability:%s"
)

// Service owns the recurring weekly availability windows per doctor.
// Window edits for the same doctor and weekday are serialized through the
// key lock so two overlapping windows cannot slip past each other's checks.
type Service struct {
	repo  repository.AvailabilityRepository
	locks *keylock.KeyLock
	cache *gocache.Cache
}

func NewService(repo repository.AvailabilityRepository, locks *keylock.KeyLock) *Service {
	return &Service{
		repo:  repo,
		locks: locks,
		cache: gocache.New(cacheTTL, cachePurge),
	}
}

func editKey(doctorID uuid.UUID, day time.Weekday) string {
	return doctorID.String() + "|" + day.String()
}

// SetAvailability inserts a new window, or edits in place when
// AvailabilityID is supplied. The candidate's raw interval is checked
// against every sibling window expanded by that sibling's own buffer; an
// edited window is excluded from its own scan.
func (s *Service) SetAvailability(ctx context.Context, req *model.SetAvailabilityRequest) (*model.AvailabilityWindow, error) {
	if req.DoctorID == uuid.Nil {
		return nil, apperrors.Validation("doctor ID is required")
	}
	if req.DayOfWeek < time.Sunday || req.DayOfWeek > time.Saturday {
		return nil, apperrors.Validation("day of week must be between 0 (Sunday) and 6 (Saturday)")
	}
	if req.SlotDurationMinutes < 1 || req.SlotDurationMinutes > 1440 {
		return nil, apperrors.Validation("slot duration must be between 1 and 1440 minutes")
	}
	if req.BufferMinutes < 0 || req.BufferMinutes > 1440 {
		return nil, apperrors.Validation("buffer must be between 0 and 1440 minutes")
	}

	candidate := timeslot.NewInterval(req.StartTime, req.EndTime).Normalize()
	if !candidate.Valid() {
		return nil, apperrors.Validation("end time must be later than start time")
	}

	release := s.locks.Acquire(editKey(req.DoctorID, req.DayOfWeek))
	defer release()

	siblings, err := s.repo.ListForDay(ctx, req.DoctorID, req.DayOfWeek)
	if err != nil {
		return nil, err
	}
	for _, other := range siblings {
		if req.AvailabilityID != nil && other.ID == *req.AvailabilityID {
			continue
		}
		if candidate.Overlaps(other.BufferedInterval()) {
			return nil, apperrors.AvailabilityConflict(
				fmt.Sprintf("window overlaps existing availability %s", other.Interval()))
		}
	}

	now := time.Now()
	if req.AvailabilityID != nil {
		window, err := s.repo.Get(ctx, *req.AvailabilityID)
		if err != nil {
			return nil, err
		}
		// The sibling scan above ran against req.DoctorID; an edit may not
		// move a window owned by another doctor past it.
		if window.DoctorID != req.DoctorID {
			return nil, apperrors.NotFound("availability window")
		}
		window.DayOfWeek = req.DayOfWeek
		window.StartTime = candidate.Start
		window.EndTime = candidate.End
		window.SlotDurationMinutes = req.SlotDurationMinutes
		window.BufferMinutes = req.BufferMinutes
		window.UpdatedAt = now

		if err := s.repo.Update(ctx, window); err != nil {
			return nil, err
		}
		s.cache.Delete(fmt.Sprintf(cacheKeyFmt, window.DoctorID))
		return window, nil
	}

	window := &model.AvailabilityWindow{
		ID:                  uuid.New(),
		DoctorID:            req.DoctorID,
		DayOfWeek:           req.DayOfWeek,
		StartTime:           candidate.Start,
		EndTime:             candidate.End,
		SlotDurationMinutes: req.SlotDurationMinutes,
		BufferMinutes:       req.BufferMinutes,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, window); err != nil {
		return nil, err
	}
	s.cache.Delete(fmt.Sprintf(cacheKeyFmt, window.DoctorID))
	return window, nil
}

// DeleteAvailability removes a window. Existing appointments booked from it
// are deliberately left untouched.
func (s *Service) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	window, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(fmt.Sprintf(cacheKeyFmt, window.DoctorID))
	return nil
}

func (s *Service) GetAvailability(ctx context.Context, doctorID uuid.UUID) ([]*model.AvailabilityWindow, error) {
	key := fmt.Sprintf(cacheKeyFmt, doctorID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.AvailabilityWindow), nil
	}

	windows, err := s.repo.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, windows, gocache.DefaultExpiration)
	return windows, nil
}

func (s *Service) GetWindow(ctx context.Context, id uuid.UUID) (*model.AvailabilityWindow, error) {
	return s.repo.Get(ctx, id)
}

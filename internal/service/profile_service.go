package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/campusdesk/helpdesk-service/internal/domain"
	"github.com/campusdesk/helpdesk-service/internal/repository"
	apperrors "github.com/campusdesk/helpdesk-service/pkg/util/errorutil"
)

// ProfileService resolves extended profile rows for authenticated callers.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// NewProfileService constructs the service.
func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

// Get looks up the profile row matching the principal's auth uid.
func (s *ProfileService) Get(ctx context.Context, authUID string) (*domain.UserProfile, error) {
	profile, err := s.profiles.GetByAuthUID(ctx, authUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("profile", nil)
		}
		return nil, err
	}
	return profile, nil
}

// SyncMessage is returned by the sync endpoint, which intentionally does
// no work: profile rows are provisioned by a trigger on the auth side when
// a new identity registers, so there is nothing for this service to copy.
const SyncMessage = "Sync logic placeholder"

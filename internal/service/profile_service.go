package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/somema/somema-api/internal/models"
	"github.com/somema/somema-api/internal/repository"
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

type profileService struct {
	p repository.ProfileRepository
}

func NewProfileService(p repository.ProfileRepository) ProfileService {
	return &profileService{
		p: p,
	}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, isExist, err := s.p.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error getting profile info")
	}

	if !isExist {
		err = errors.New("profile not found")
		slog.Info(err.Error())
		return nil, err
	}

	return profile, nil
}

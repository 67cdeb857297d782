package services

import (
	"context"

	"github.com/lborres/inventrack/core"
)

const profileResource = "profile"

type ProfileService struct {
	storage  core.ProfileStorage
	validate *Validator
}

func NewProfileService(storage core.ProfileStorage, validate *Validator) *ProfileService {
	return &ProfileService{storage: storage, validate: validate}
}

func (s *ProfileService) List(ctx context.Context) ([]*core.Profile, error) {
	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, core.Translate(err, profileResource)
	}
	return profiles, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*core.Profile, error) {
	p, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, core.Translate(err, profileResource)
	}
	return p, nil
}

func (s *ProfileService) Create(ctx context.Context, input core.ProfileInput) (*core.Profile, error) {
	if err := s.validate.Validate(&input); err != nil {
		return nil, err
	}

	p := input.Profile()
	if err := s.storage.CreateProfile(ctx, p); err != nil {
		return nil, core.Translate(err, profileResource)
	}
	return p, nil
}

func (s *ProfileService) Update(ctx context.Context, id string, patch core.ProfilePatch) (*core.Profile, error) {
	if err := s.validate.Validate(&patch); err != nil {
		return nil, err
	}
	if len(patch.Assignments()) == 0 {
		return nil, core.ErrEmptyPatch
	}

	p, err := s.storage.UpdateProfile(ctx, id, &patch)
	if err != nil {
		return nil, core.Translate(err, profileResource)
	}
	return p, nil
}

func (s *ProfileService) Delete(ctx context.Context, id string) error {
	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return core.Translate(err, profileResource)
	}
	return nil
}

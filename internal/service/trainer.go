package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/repository"
)

var (
	ErrTrainerNotFound     = errors.New("trainer not found")
	ErrTrainerExists       = errors.New("trainer already exists for this user")
	ErrTrainerNameRequired = errors.New("trainerName is required")
)

// TrainerStore is the collection persistence required by TrainerService.
type TrainerStore interface {
	Create(ctx context.Context, t *model.Trainer) error
	GetByUserID(ctx context.Context, userID int64) (*model.Trainer, error)
	Update(ctx context.Context, t *model.Trainer) error
	Delete(ctx context.Context, userID int64) error
	Mark(ctx context.Context, trainerID, pokemonID int64, status model.MarkStatus) error
	ListMarked(ctx context.Context, trainerID int64) (seen, captured []model.Pokemon, err error)
}

// TrainerService handles collection business logic. It reads the
// catalog only to validate that a marked entry exists.
type TrainerService struct {
	store   TrainerStore
	catalog PokemonStore
}

// NewTrainerService creates a new TrainerService.
func NewTrainerService(store TrainerStore, catalog PokemonStore) *TrainerService {
	return &TrainerService{store: store, catalog: catalog}
}

// Create creates the account's collection record. Each account has at
// most one; the store's unique constraint carries the check.
func (s *TrainerService) Create(ctx context.Context, userID int64, req model.CreateTrainerRequest) (model.TrainerResponse, error) {
	trainer := &model.Trainer{
		UserID:      userID,
		DisplayName: strings.TrimSpace(req.DisplayName),
		ImgURL:      req.ImgURL,
	}
	if trainer.DisplayName == "" {
		return model.TrainerResponse{}, ErrTrainerNameRequired
	}
	if trainer.ImgURL == "" {
		return model.TrainerResponse{}, ErrImgURLRequired
	}

	if err := s.store.Create(ctx, trainer); err != nil {
		if errors.Is(err, repository.ErrDuplicateTrainer) {
			return model.TrainerResponse{}, ErrTrainerExists
		}
		return model.TrainerResponse{}, err
	}

	return s.respond(ctx, trainer)
}

// Get returns the account's collection record with the seen and
// captured sets resolved to full catalog entries.
func (s *TrainerService) Get(ctx context.Context, userID int64) (model.TrainerResponse, error) {
	trainer, err := s.getTrainer(ctx, userID)
	if err != nil {
		return model.TrainerResponse{}, err
	}
	return s.respond(ctx, trainer)
}

// Update merges the patch into the collection record.
func (s *TrainerService) Update(ctx context.Context, userID int64, req model.UpdateTrainerRequest) (model.TrainerResponse, error) {
	trainer, err := s.getTrainer(ctx, userID)
	if err != nil {
		return model.TrainerResponse{}, err
	}

	if req.DisplayName != nil {
		trainer.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.ImgURL != nil {
		trainer.ImgURL = *req.ImgURL
	}
	if trainer.DisplayName == "" {
		return model.TrainerResponse{}, ErrTrainerNameRequired
	}
	if trainer.ImgURL == "" {
		return model.TrainerResponse{}, ErrImgURLRequired
	}

	if err := s.store.Update(ctx, trainer); err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) {
			// Deleted between our read and this write.
			return model.TrainerResponse{}, ErrTrainerNotFound
		}
		return model.TrainerResponse{}, err
	}
	return s.respond(ctx, trainer)
}

// Delete removes the account's collection record.
func (s *TrainerService) Delete(ctx context.Context, userID int64) error {
	err := s.store.Delete(ctx, userID)
	if errors.Is(err, repository.ErrTrainerNotFound) {
		return ErrTrainerNotFound
	}
	return err
}

// Mark moves a catalog entry within the account's collection:
// untracked or seen entries move to the requested state, and captured
// entries stay captured even when marked seen again. Marking is
// idempotent.
func (s *TrainerService) Mark(ctx context.Context, userID int64, req model.MarkRequest) (model.TrainerResponse, error) {
	trainer, err := s.getTrainer(ctx, userID)
	if err != nil {
		return model.TrainerResponse{}, err
	}

	if _, err := s.catalog.GetByID(ctx, req.PokemonID); err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return model.TrainerResponse{}, ErrPokemonNotFound
		}
		return model.TrainerResponse{}, err
	}

	status := model.MarkSeen
	if req.IsCaptured {
		status = model.MarkCaptured
	}

	if err := s.store.Mark(ctx, trainer.ID, req.PokemonID, status); err != nil {
		return model.TrainerResponse{}, err
	}
	return s.respond(ctx, trainer)
}

func (s *TrainerService) getTrainer(ctx context.Context, userID int64) (*model.Trainer, error) {
	trainer, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return trainer, nil
}

func (s *TrainerService) respond(ctx context.Context, trainer *model.Trainer) (model.TrainerResponse, error) {
	seen, captured, err := s.store.ListMarked(ctx, trainer.ID)
	if err != nil {
		return model.TrainerResponse{}, err
	}
	if seen == nil {
		seen = []model.Pokemon{}
	}
	if captured == nil {
		captured = []model.Pokemon{}
	}

	return model.TrainerResponse{
		ID:          trainer.ID,
		DisplayName: trainer.DisplayName,
		ImgURL:      trainer.ImgURL,
		CreatedAt:   trainer.CreatedAt,
		Seen:        seen,
		Captured:    captured,
	}, nil
}

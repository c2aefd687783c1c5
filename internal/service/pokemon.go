package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/repository"
)

var (
	ErrPokemonNotFound     = errors.New("pokemon not found")
	ErrPokemonExists       = errors.New("pokemon already exists")
	ErrNameRequired        = errors.New("name is required")
	ErrDescriptionRequired = errors.New("description is required")
	ErrImgURLRequired      = errors.New("imgUrl is required")
	ErrInvalidTypes        = errors.New("a pokemon must have 1 or 2 valid types")
	ErrRegionNameRequired  = errors.New("regionName is required")
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PokemonStore is the catalog persistence required by PokemonService.
type PokemonStore interface {
	Create(ctx context.Context, p *model.Pokemon) error
	GetByID(ctx context.Context, id int64) (*model.Pokemon, error)
	GetByName(ctx context.Context, name string) (*model.Pokemon, error)
	Update(ctx context.Context, p *model.Pokemon) error
	Delete(ctx context.Context, id int64) error
	UpsertRegion(ctx context.Context, pokemonID int64, region model.Region) error
	RemoveRegion(ctx context.Context, pokemonID int64, regionName string) error
	Search(ctx context.Context, filter model.SearchFilter, offset, limit int) ([]model.Pokemon, int, error)
}

// PokemonService handles catalog business logic.
type PokemonService struct {
	store PokemonStore
}

// NewPokemonService creates a new PokemonService.
func NewPokemonService(store PokemonStore) *PokemonService {
	return &PokemonService{store: store}
}

// Create validates and persists a new catalog entry.
func (s *PokemonService) Create(ctx context.Context, req model.CreatePokemonRequest) (*model.Pokemon, error) {
	p := &model.Pokemon{
		Name:        strings.TrimSpace(req.Name),
		Types:       req.Types,
		Description: req.Description,
		ImgURL:      req.ImgURL,
	}
	if err := validatePokemon(p); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicatePokemon) {
			return nil, ErrPokemonExists
		}
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a catalog entry by ID.
func (s *PokemonService) GetByID(ctx context.Context, id int64) (*model.Pokemon, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	return p, nil
}

// GetByName retrieves a catalog entry by its unique name.
func (s *PokemonService) GetByName(ctx context.Context, name string) (*model.Pokemon, error) {
	p, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrPokemonNotFound) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update merges the patch into the stored entry, re-validates the
// invariants and persists the result.
func (s *PokemonService) Update(ctx context.Context, id int64, req model.UpdatePokemonRequest) (*model.Pokemon, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Types != nil {
		p.Types = req.Types
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.ImgURL != nil {
		p.ImgURL = *req.ImgURL
	}

	if err := validatePokemon(p); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicatePokemon):
			return nil, ErrPokemonExists
		case errors.Is(err, repository.ErrPokemonNotFound):
			// Deleted between our read and this write.
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}
	return p, nil
}

// Delete removes a catalog entry. Collection marks referencing it are
// left dangling and filtered out on read.
func (s *PokemonService) Delete(ctx context.Context, id int64) error {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrPokemonNotFound) {
		return ErrPokemonNotFound
	}
	return err
}

// UpsertRegion replaces or appends a region listing and returns the
// refreshed entry.
func (s *PokemonService) UpsertRegion(ctx context.Context, pokemonID int64, region model.Region) (*model.Pokemon, error) {
	region.Name = strings.TrimSpace(region.Name)
	if region.Name == "" {
		return nil, ErrRegionNameRequired
	}

	if _, err := s.GetByID(ctx, pokemonID); err != nil {
		return nil, err
	}

	if err := s.store.UpsertRegion(ctx, pokemonID, region); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, pokemonID)
}

// RemoveRegion deletes a region listing by name; an unknown name is a
// no-op, only an unknown entry is an error.
func (s *PokemonService) RemoveRegion(ctx context.Context, pokemonID int64, regionName string) error {
	if _, err := s.GetByID(ctx, pokemonID); err != nil {
		return err
	}
	return s.store.RemoveRegion(ctx, pokemonID, regionName)
}

// Search returns one page of catalog entries matching the filter.
// Bounds policy: page and size are clamped to at least 1 and size is
// capped at maxPageSize.
func (s *PokemonService) Search(ctx context.Context, filter model.SearchFilter, page, size int) (model.SearchResponse, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	data, total, err := s.store.Search(ctx, filter, (page-1)*size, size)
	if err != nil {
		return model.SearchResponse{}, err
	}
	if data == nil {
		data = []model.Pokemon{}
	}

	return model.SearchResponse{
		Data:       data,
		Count:      total,
		Page:       page,
		TotalPages: (total + size - 1) / size,
	}, nil
}

// Types returns the static type enumeration.
func (s *PokemonService) Types() model.TypesResponse {
	return model.TypesResponse{Data: model.AllTypes, Count: len(model.AllTypes)}
}

func validatePokemon(p *model.Pokemon) error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.Description == "" {
		return ErrDescriptionRequired
	}
	if p.ImgURL == "" {
		return ErrImgURLRequired
	}
	if len(p.Types) < 1 || len(p.Types) > 2 {
		return ErrInvalidTypes
	}
	for _, t := range p.Types {
		if !t.Valid() {
			return ErrInvalidTypes
		}
	}
	return nil
}

package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pokedex/pokedex-go/internal/model"
	"github.com/pokedex/pokedex-go/internal/repository"
)

// In-memory store fakes mirroring the MySQL repositories' contract,
// including the repository sentinel errors, the unique constraints and
// the sticky-captured mark rule.

type memUserStore struct {
	mu     sync.Mutex
	users  map[int64]*model.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int64]*model.User)}
}

func (s *memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repository.ErrDuplicateUser
		}
		if user.Email != "" && existing.Email == user.Email {
			return repository.ErrDuplicateUser
		}
	}

	s.nextID++
	user.ID = s.nextID
	user.CreatedAt = time.Now().UTC()
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *memUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

type memPokemonStore struct {
	mu     sync.Mutex
	items  map[int64]*model.Pokemon
	nextID int64
}

func newMemPokemonStore() *memPokemonStore {
	return &memPokemonStore{items: make(map[int64]*model.Pokemon)}
}

func clonePokemon(p *model.Pokemon) *model.Pokemon {
	clone := *p
	clone.Types = append([]model.Type(nil), p.Types...)
	clone.Regions = append([]model.Region(nil), p.Regions...)
	return &clone
}

func (s *memPokemonStore) Create(_ context.Context, p *model.Pokemon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.items {
		if existing.Name == p.Name {
			return repository.ErrDuplicatePokemon
		}
	}

	s.nextID++
	p.ID = s.nextID
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.items[p.ID] = clonePokemon(p)
	return nil
}

func (s *memPokemonStore) GetByID(_ context.Context, id int64) (*model.Pokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrPokemonNotFound
	}
	return clonePokemon(p), nil
}

func (s *memPokemonStore) GetByName(_ context.Context, name string) (*model.Pokemon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.items {
		if p.Name == name {
			return clonePokemon(p), nil
		}
	}
	return nil, repository.ErrPokemonNotFound
}

func (s *memPokemonStore) Update(_ context.Context, p *model.Pokemon) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.items {
		if id != p.ID && existing.Name == p.Name {
			return repository.ErrDuplicatePokemon
		}
	}

	stored, ok := s.items[p.ID]
	if !ok {
		return repository.ErrPokemonNotFound
	}
	p.Regions = append([]model.Region(nil), stored.Regions...)
	p.UpdatedAt = time.Now().UTC()
	s.items[p.ID] = clonePokemon(p)
	return nil
}

func (s *memPokemonStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return repository.ErrPokemonNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memPokemonStore) UpsertRegion(_ context.Context, pokemonID int64, region model.Region) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[pokemonID]
	if !ok {
		return repository.ErrPokemonNotFound
	}

	for i, existing := range p.Regions {
		if existing.Name == region.Name {
			p.Regions[i] = region
			return nil
		}
	}
	p.Regions = append(p.Regions, region)
	return nil
}

func (s *memPokemonStore) RemoveRegion(_ context.Context, pokemonID int64, regionName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.items[pokemonID]
	if !ok {
		return repository.ErrPokemonNotFound
	}

	kept := p.Regions[:0]
	for _, region := range p.Regions {
		if region.Name != regionName {
			kept = append(kept, region)
		}
	}
	p.Regions = kept
	return nil
}

func (s *memPokemonStore) Search(_ context.Context, filter model.SearchFilter, offset, limit int) ([]model.Pokemon, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*model.Pokemon
	for _, p := range s.items {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]model.Pokemon, 0, end-offset)
	for _, p := range matched[offset:end] {
		page = append(page, *clonePokemon(p))
	}
	return page, total, nil
}

func matchesFilter(p *model.Pokemon, filter model.SearchFilter) bool {
	if filter.PartialName != "" &&
		!strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.PartialName)) {
		return false
	}
	for _, required := range filter.Types {
		found := false
		for _, t := range p.Types {
			if t == required {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type memTrainerStore struct {
	mu       sync.Mutex
	trainers map[int64]*model.Trainer
	marks    map[int64]map[int64]model.MarkStatus
	catalog  *memPokemonStore
	nextID   int64
}

func newMemTrainerStore(catalog *memPokemonStore) *memTrainerStore {
	return &memTrainerStore{
		trainers: make(map[int64]*model.Trainer),
		marks:    make(map[int64]map[int64]model.MarkStatus),
		catalog:  catalog,
	}
}

func (s *memTrainerStore) Create(_ context.Context, t *model.Trainer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.trainers {
		if existing.UserID == t.UserID {
			return repository.ErrDuplicateTrainer
		}
	}

	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now().UTC()
	clone := *t
	s.trainers[t.ID] = &clone
	s.marks[t.ID] = make(map[int64]model.MarkStatus)
	return nil
}

func (s *memTrainerStore) GetByUserID(_ context.Context, userID int64) (*model.Trainer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.trainers {
		if t.UserID == userID {
			clone := *t
			return &clone, nil
		}
	}
	return nil, repository.ErrTrainerNotFound
}

func (s *memTrainerStore) Update(_ context.Context, t *model.Trainer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trainers[t.ID]; !ok {
		return repository.ErrTrainerNotFound
	}
	clone := *t
	s.trainers[t.ID] = &clone
	return nil
}

func (s *memTrainerStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.trainers {
		if t.UserID == userID {
			delete(s.trainers, id)
			delete(s.marks, id)
			return nil
		}
	}
	return repository.ErrTrainerNotFound
}

func (s *memTrainerStore) Mark(_ context.Context, trainerID, pokemonID int64, status model.MarkStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	marks, ok := s.marks[trainerID]
	if !ok {
		return repository.ErrTrainerNotFound
	}

	// Captured is sticky, same as the SQL upsert.
	if current, tracked := marks[pokemonID]; tracked && current == model.MarkCaptured {
		return nil
	}
	marks[pokemonID] = status
	return nil
}

func (s *memTrainerStore) ListMarked(ctx context.Context, trainerID int64) (seen, captured []model.Pokemon, err error) {
	s.mu.Lock()
	marks := make(map[int64]model.MarkStatus, len(s.marks[trainerID]))
	for pokemonID, status := range s.marks[trainerID] {
		marks[pokemonID] = status
	}
	s.mu.Unlock()

	var ids []int64
	for pokemonID := range marks {
		ids = append(ids, pokemonID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, pokemonID := range ids {
		p, err := s.catalog.GetByID(ctx, pokemonID)
		if err != nil {
			continue // dangling reference, dropped like the SQL join
		}
		if marks[pokemonID] == model.MarkCaptured {
			captured = append(captured, *p)
		} else {
			seen = append(seen, *p)
		}
	}
	return seen, captured, nil
}

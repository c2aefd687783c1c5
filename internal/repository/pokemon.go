package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pokedex/pokedex-go/internal/model"
)

var (
	ErrPokemonNotFound  = errors.New("pokemon not found")
	ErrDuplicatePokemon = errors.New("pokemon already exists")
)

// PokemonRepository handles catalog entry persistence operations.
type PokemonRepository struct {
	db *sql.DB
}

// NewPokemonRepository creates a new PokemonRepository.
func NewPokemonRepository(db *sql.DB) *PokemonRepository {
	return &PokemonRepository{db: db}
}

const pokemonColumns = `id, name, type_one, COALESCE(type_two, ''), description, img_url, created_at, updated_at`

// Create inserts a new catalog entry and sets the generated ID.
// The unique index on name makes the insert the duplicate check.
func (r *PokemonRepository) Create(ctx context.Context, p *model.Pokemon) error {
	query := `INSERT INTO pokemon (name, type_one, type_two, description, img_url) VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Types[0], secondType(p.Types), p.Description, p.ImgURL)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicatePokemon
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	// Timestamps are assigned by the database, so read them back rather
	// than guessing them app-side.
	return r.db.QueryRowContext(ctx, `SELECT created_at, updated_at FROM pokemon WHERE id = ?`, id).
		Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves a catalog entry with its region listings.
func (r *PokemonRepository) GetByID(ctx context.Context, id int64) (*model.Pokemon, error) {
	query := `SELECT ` + pokemonColumns + ` FROM pokemon WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByName retrieves a catalog entry by its unique name.
func (r *PokemonRepository) GetByName(ctx context.Context, name string) (*model.Pokemon, error) {
	query := `SELECT ` + pokemonColumns + ` FROM pokemon WHERE name = ?`
	return r.getOne(ctx, query, name)
}

func (r *PokemonRepository) getOne(ctx context.Context, query string, arg any) (*model.Pokemon, error) {
	p, err := scanPokemon(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	if err := attachRegions(ctx, r.db, []*model.Pokemon{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Update persists the mutable fields of a catalog entry.
// A rename colliding with another entry yields ErrDuplicatePokemon.
// MySQL reports zero affected rows for a no-change update, so the
// timestamp re-read below doubles as the existence check for an entry
// deleted between the caller's read and this write.
func (r *PokemonRepository) Update(ctx context.Context, p *model.Pokemon) error {
	query := `UPDATE pokemon SET name = ?, type_one = ?, type_two = ?, description = ?, img_url = ? WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query, p.Name, p.Types[0], secondType(p.Types), p.Description, p.ImgURL, p.ID)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicatePokemon
		}
		return err
	}

	err = r.db.QueryRowContext(ctx, `SELECT updated_at FROM pokemon WHERE id = ?`, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPokemonNotFound
	}
	return err
}

// Delete removes a catalog entry. Region listings cascade; trainer
// marks referencing the entry are left behind by design.
func (r *PokemonRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pokemon WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPokemonNotFound
	}
	return nil
}

// UpsertRegion replaces the region listing with the same name in place,
// or appends a new one. In-place replacement keeps the original row so
// the listing's position within the entry is preserved.
func (r *PokemonRepository) UpsertRegion(ctx context.Context, pokemonID int64, region model.Region) error {
	query := `INSERT INTO pokemon_regions (pokemon_id, region_name, pokedex_number)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE pokedex_number = VALUES(pokedex_number)`

	_, err := r.db.ExecContext(ctx, query, pokemonID, region.Name, region.PokedexNumber)
	return err
}

// RemoveRegion deletes the region listing with the given name.
// Removing a name that is not listed is a no-op, not an error.
func (r *PokemonRepository) RemoveRegion(ctx context.Context, pokemonID int64, regionName string) error {
	query := `DELETE FROM pokemon_regions WHERE pokemon_id = ? AND region_name = ?`
	_, err := r.db.ExecContext(ctx, query, pokemonID, regionName)
	return err
}

// Search returns one page of catalog entries matching the filter along
// with the pre-pagination match count.
func (r *PokemonRepository) Search(ctx context.Context, filter model.SearchFilter, offset, limit int) ([]model.Pokemon, int, error) {
	var conditions []string
	var args []any

	if filter.PartialName != "" {
		conditions = append(conditions, `LOWER(name) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.PartialName)+"%")
	}
	for _, t := range filter.Types {
		conditions = append(conditions, `? IN (type_one, COALESCE(type_two, ''))`)
		args = append(args, t)
	}

	var where string
	if len(conditions) > 0 {
		where = ` WHERE ` + strings.Join(conditions, ` AND `)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + pokemonColumns + ` FROM pokemon` + where + ` ORDER BY id LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var pokemons []model.Pokemon
	for rows.Next() {
		p, err := scanPokemon(rows)
		if err != nil {
			return nil, 0, err
		}
		pokemons = append(pokemons, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	refs := make([]*model.Pokemon, len(pokemons))
	for i := range pokemons {
		refs[i] = &pokemons[i]
	}
	if err := attachRegions(ctx, r.db, refs); err != nil {
		return nil, 0, err
	}

	return pokemons, total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPokemon(row rowScanner) (*model.Pokemon, error) {
	p := &model.Pokemon{}
	var typeOne, typeTwo string

	err := row.Scan(&p.ID, &p.Name, &typeOne, &typeTwo, &p.Description, &p.ImgURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPokemonNotFound
		}
		return nil, err
	}

	p.Types = []model.Type{model.Type(typeOne)}
	if typeTwo != "" {
		p.Types = append(p.Types, model.Type(typeTwo))
	}
	return p, nil
}

func secondType(types []model.Type) any {
	if len(types) > 1 {
		return types[1]
	}
	return nil
}

// attachRegions loads the region listings for the given entries in one
// query, preserving each entry's insertion order.
func attachRegions(ctx context.Context, db *sql.DB, pokemons []*model.Pokemon) error {
	if len(pokemons) == 0 {
		return nil
	}

	byID := make(map[int64]*model.Pokemon, len(pokemons))
	placeholders := make([]string, len(pokemons))
	args := make([]any, len(pokemons))
	for i, p := range pokemons {
		byID[p.ID] = p
		placeholders[i] = "?"
		args[i] = p.ID
	}

	query := `SELECT pokemon_id, region_name, pokedex_number FROM pokemon_regions
		WHERE pokemon_id IN (` + strings.Join(placeholders, ", ") + `) ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var pokemonID int64
		var region model.Region
		if err := rows.Scan(&pokemonID, &region.Name, &region.PokedexNumber); err != nil {
			return err
		}
		if p, ok := byID[pokemonID]; ok {
			p.Regions = append(p.Regions, region)
		}
	}
	return rows.Err()
}

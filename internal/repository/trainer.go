package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pokedex/pokedex-go/internal/model"
)

var (
	ErrTrainerNotFound  = errors.New("trainer not found")
	ErrDuplicateTrainer = errors.New("trainer already exists for this user")
)

// TrainerRepository handles collection record persistence operations.
type TrainerRepository struct {
	db *sql.DB
}

// NewTrainerRepository creates a new TrainerRepository.
func NewTrainerRepository(db *sql.DB) *TrainerRepository {
	return &TrainerRepository{db: db}
}

// markQuery performs the seen/captured transition in a single atomic
// statement. Captured is sticky: a later seen-mark never demotes it.
const markQuery = `
	INSERT INTO trainer_pokemon (trainer_id, pokemon_id, status)
	VALUES (?, ?, ?)
	ON DUPLICATE KEY UPDATE
		status = IF(status = 'captured', 'captured', VALUES(status))`

// Create inserts a new collection record and sets the generated ID.
// The unique index on user_id makes the insert the one-per-account check.
func (r *TrainerRepository) Create(ctx context.Context, t *model.Trainer) error {
	query := `INSERT INTO trainers (user_id, display_name, img_url) VALUES (?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query, t.UserID, t.DisplayName, t.ImgURL)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicateTrainer
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	t.ID = id
	// created_at is assigned by the database, so read it back rather
	// than guessing it app-side.
	return r.db.QueryRowContext(ctx, `SELECT created_at FROM trainers WHERE id = ?`, id).Scan(&t.CreatedAt)
}

// GetByUserID retrieves the collection record for an account.
func (r *TrainerRepository) GetByUserID(ctx context.Context, userID int64) (*model.Trainer, error) {
	query := `SELECT id, user_id, display_name, img_url, created_at FROM trainers WHERE user_id = ?`

	t := &model.Trainer{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&t.ID, &t.UserID, &t.DisplayName, &t.ImgURL, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainerNotFound
		}
		return nil, err
	}
	return t, nil
}

// Update persists the mutable fields of a collection record. MySQL
// reports zero affected rows for a no-change update, so a follow-up
// existence check distinguishes a missing record from an unchanged one.
func (r *TrainerRepository) Update(ctx context.Context, t *model.Trainer) error {
	query := `UPDATE trainers SET display_name = ?, img_url = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, t.DisplayName, t.ImgURL, t.ID); err != nil {
		return err
	}

	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM trainers WHERE id = ?`, t.ID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTrainerNotFound
	}
	return err
}

// Delete removes an account's collection record in one statement; the
// record's marks go with it through the foreign key cascade, so a
// cancelled request never leaves a trainer without its marks.
func (r *TrainerRepository) Delete(ctx context.Context, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM trainers WHERE user_id = ?`, userID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTrainerNotFound
	}
	return nil
}

// Mark records a seen or captured state for one catalog entry.
// Idempotent; concurrent marks on the same pair are serialized by the
// primary key, and the sticky-captured rule is applied in the statement
// itself rather than by read-modify-write in application code.
func (r *TrainerRepository) Mark(ctx context.Context, trainerID, pokemonID int64, status model.MarkStatus) error {
	_, err := r.db.ExecContext(ctx, markQuery, trainerID, pokemonID, status)
	return err
}

// ListMarked returns the trainer's seen and captured sets resolved to
// full catalog entries. The inner join silently drops marks whose
// catalog entry has been deleted.
func (r *TrainerRepository) ListMarked(ctx context.Context, trainerID int64) (seen, captured []model.Pokemon, err error) {
	query := `SELECT p.id, p.name, p.type_one, COALESCE(p.type_two, ''), p.description, p.img_url,
			p.created_at, p.updated_at, tp.status
		FROM trainer_pokemon tp
		JOIN pokemon p ON p.id = tp.pokemon_id
		WHERE tp.trainer_id = ?
		ORDER BY p.id`

	rows, err := r.db.QueryContext(ctx, query, trainerID)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p := model.Pokemon{}
		var typeOne, typeTwo string
		var status model.MarkStatus

		if err := rows.Scan(&p.ID, &p.Name, &typeOne, &typeTwo, &p.Description, &p.ImgURL,
			&p.CreatedAt, &p.UpdatedAt, &status); err != nil {
			return nil, nil, err
		}

		p.Types = []model.Type{model.Type(typeOne)}
		if typeTwo != "" {
			p.Types = append(p.Types, model.Type(typeTwo))
		}

		if status == model.MarkCaptured {
			captured = append(captured, p)
		} else {
			seen = append(seen, p)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	refs := make([]*model.Pokemon, 0, len(seen)+len(captured))
	for i := range seen {
		refs = append(refs, &seen[i])
	}
	for i := range captured {
		refs = append(refs, &captured[i])
	}
	if err := attachRegions(ctx, r.db, refs); err != nil {
		return nil, nil, err
	}

	return seen, captured, nil
}

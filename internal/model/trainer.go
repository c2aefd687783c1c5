package model

import "time"

// MarkStatus is the tracked state of a catalog entry within a
// trainer's collection. An untracked entry simply has no row.
type MarkStatus string

const (
	MarkSeen     MarkStatus = "seen"
	MarkCaptured MarkStatus = "captured"
)

// Trainer represents one account's collection record in the database.
type Trainer struct {
	ID          int64
	UserID      int64
	DisplayName string
	ImgURL      string
	CreatedAt   time.Time
}

// CreateTrainerRequest represents a collection record creation request.
type CreateTrainerRequest struct {
	DisplayName string `json:"trainerName"`
	ImgURL      string `json:"imgUrl"`
}

// UpdateTrainerRequest is a partial update; nil fields are left unchanged.
type UpdateTrainerRequest struct {
	DisplayName *string `json:"trainerName"`
	ImgURL      *string `json:"imgUrl"`
}

// MarkRequest marks a catalog entry as seen or captured.
type MarkRequest struct {
	PokemonID  int64 `json:"pokemonId"`
	IsCaptured bool  `json:"isCaptured"`
}

// TrainerResponse is a trainer with its seen and captured sets
// resolved to full catalog entries.
type TrainerResponse struct {
	ID          int64     `json:"id"`
	DisplayName string    `json:"trainerName"`
	ImgURL      string    `json:"imgUrl"`
	CreatedAt   time.Time `json:"creationDate"`
	Seen        []Pokemon `json:"pkmnSeen"`
	Captured    []Pokemon `json:"pkmnCatch"`
}

package model

import "time"

// Type is one entry of the fixed Pokémon type enumeration.
type Type string

// AllTypes is the full type enumeration, served by GET /pkmn/types.
var AllTypes = []Type{
	"Normal", "Fire", "Water", "Electric", "Grass", "Ice",
	"Fighting", "Poison", "Ground", "Flying", "Psychic", "Bug",
	"Rock", "Ghost", "Dragon", "Dark", "Steel", "Fairy",
}

// Valid reports whether t is part of the enumeration.
func (t Type) Valid() bool {
	for _, known := range AllTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Region is a named position of a Pokémon within a regional pokédex.
type Region struct {
	Name          string `json:"regionName"`
	PokedexNumber int    `json:"regionPokedexNumber"`
}

// Pokemon represents one catalog entry.
// Region names are unique within an entry; order is insertion order.
type Pokemon struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Types       []Type    `json:"types"`
	Description string    `json:"description"`
	ImgURL      string    `json:"imgUrl"`
	Regions     []Region  `json:"regions"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreatePokemonRequest represents a catalog entry creation request.
type CreatePokemonRequest struct {
	Name        string `json:"name"`
	Types       []Type `json:"types"`
	Description string `json:"description"`
	ImgURL      string `json:"imgUrl"`
}

// UpdatePokemonRequest is a partial update; nil (or absent) fields are left unchanged.
type UpdatePokemonRequest struct {
	Name        *string `json:"name"`
	Types       []Type  `json:"types"`
	Description *string `json:"description"`
	ImgURL      *string `json:"imgUrl"`
}

// SearchFilter narrows a catalog search. PartialName matches
// case-insensitively as a substring; every type listed must appear
// among the entry's types.
type SearchFilter struct {
	PartialName string
	Types       []Type
}

// SearchResponse is one page of search results with the pre-pagination
// match count.
type SearchResponse struct {
	Data       []Pokemon `json:"data"`
	Count      int       `json:"count"`
	Page       int       `json:"page"`
	TotalPages int       `json:"totalPages"`
}

// TypesResponse is the static type enumeration payload.
type TypesResponse struct {
	Data  []Type `json:"data"`
	Count int    `json:"count"`
}

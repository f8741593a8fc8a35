// internal/models/common.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Enums
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type Category string

const (
	CategoryAction    Category = "Action"
	CategoryAdventure Category = "Adventure"
	CategoryRPG       Category = "RPG"
	CategoryStrategy  Category = "Strategy"
	CategorySports    Category = "Sports"
	CategoryRacing    Category = "Racing"
	CategoryPuzzle    Category = "Puzzle"
	CategoryOther     Category = "Other"
)

var Categories = []Category{
	CategoryAction,
	CategoryAdventure,
	CategoryRPG,
	CategoryStrategy,
	CategorySports,
	CategoryRacing,
	CategoryPuzzle,
	CategoryOther,
}

// ValidCategory reports whether c is one of the fixed catalog categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

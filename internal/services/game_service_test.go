// internal/services/game_service_test.go
package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/gameshare/backend/internal/models"
	"github.com/gameshare/backend/internal/utils"
)

// dryRunDB builds SQL without touching a database, so query shapes are
// assertable in unit tests.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=gameshare dbname=gameshare sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	return db
}

func TestReviewFetchLocksRow(t *testing.T) {
	db := dryRunDB(t)

	var game models.Game
	stmt := gameForUpdate(db, uuid.New(), &game).Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestSearchQuerySQL(t *testing.T) {
	service := NewGameService(dryRunDB(t), nil)

	params := utils.PaginationParams{
		Page:     2,
		Limit:    10,
		Sort:     "downloads",
		Order:    "desc",
		Search:   "dragon",
		Category: "RPG",
	}

	var games []models.Game
	stmt := service.searchQuery(params).Find(&games).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "is_active")
	assert.Contains(t, sql, "category")
	assert.Contains(t, sql, "title ILIKE")
	assert.Contains(t, sql, "description ILIKE")
	assert.Contains(t, sql, "unnest(tags)")
	assert.Contains(t, sql, "ORDER BY downloads desc")
	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, stmt.Vars, "RPG")
	assert.Contains(t, stmt.Vars, "%dragon%")
	// Page 2 with limit 10 skips the first 10 rows.
	assert.Contains(t, stmt.Vars, 10)
}

func TestSearchQueryRejectsUnknownSortField(t *testing.T) {
	service := NewGameService(dryRunDB(t), nil)

	params := utils.PaginationParams{
		Page:  1,
		Limit: 20,
		Sort:  "downloads; DROP TABLE games",
		Order: "asc",
	}

	var games []models.Game
	stmt := service.searchQuery(params).Find(&games).Statement

	assert.Contains(t, stmt.SQL.String(), "ORDER BY created_at asc")
	assert.NotContains(t, stmt.SQL.String(), "DROP TABLE")
}

// Input validation happens before any storage or database work, so these
// paths run against a bare service.

func TestAddReviewRejectsOutOfRangeRating(t *testing.T) {
	service := NewGameService(nil, nil)
	reviewer := &models.User{Name: "alice"}

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := service.AddReview(reviewer.ID, reviewer, rating, "fine")
		assert.ErrorIs(t, err, ErrInvalidRating)
	}
}

func TestAddReviewRejectsLongComment(t *testing.T) {
	service := NewGameService(nil, nil)
	reviewer := &models.User{Name: "alice"}

	_, err := service.AddReview(reviewer.ID, reviewer, 4, strings.Repeat("a", 201))
	assert.ErrorIs(t, err, ErrInvalidComment)
}

func TestCreateGameRequiresBothUploads(t *testing.T) {
	service := NewGameService(nil, nil)
	owner := &models.User{Name: "alice"}
	req := &CreateGameRequest{Title: "Pong Remake"}

	image := &Upload{OriginalName: "cover.png", ContentType: "image/png"}

	_, err := service.CreateGame(owner, req, nil, nil)
	assert.ErrorIs(t, err, ErrIncompleteSubmission)

	_, err = service.CreateGame(owner, req, image, nil)
	assert.ErrorIs(t, err, ErrIncompleteSubmission)

	_, err = service.CreateGame(owner, req, nil, &Upload{OriginalName: "pong.zip"})
	assert.ErrorIs(t, err, ErrIncompleteSubmission)
}

func TestCreateGameValidatesRequest(t *testing.T) {
	service := NewGameService(nil, nil)
	owner := &models.User{Name: "alice"}

	tests := []struct {
		name string
		req  *CreateGameRequest
	}{
		{"missing title", &CreateGameRequest{}},
		{"short title", &CreateGameRequest{Title: "x"}},
		{"long description", &CreateGameRequest{Title: "Pong", Description: strings.Repeat("a", 501)}},
		{"bad category", &CreateGameRequest{Title: "Pong", Category: "Shooter"}},
		{"untrimmed tag", &CreateGameRequest{Title: "Pong", Tags: []string{" retro"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateGame(owner, tt.req, nil, nil)
			assert.Error(t, err)
			assert.NotErrorIs(t, err, ErrIncompleteSubmission)
			assert.NotEmpty(t, utils.GetValidationErrors(errors.Unwrap(err)))
		})
	}
}

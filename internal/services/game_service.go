// internal/services/game_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gameshare/backend/internal/models"
	"github.com/gameshare/backend/internal/utils"
)

type GameService struct {
	db      *gorm.DB
	storage *StorageService
}

type CreateGameRequest struct {
	Title       string   `json:"title" validate:"required,min=2,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Category    string   `json:"category" validate:"omitempty,oneof=Action Adventure RPG Strategy Sports Racing Puzzle Other"`
	Tags        []string `json:"tags" validate:"max=10,dive,tagline"`
}

type UpdateGameRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    string   `json:"category,omitempty" validate:"omitempty,oneof=Action Adventure RPG Strategy Sports Racing Puzzle Other"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,tagline"`
}

// DownloadTicket authorizes one download. The actual byte transfer is served
// by the static file route; this service only records the event.
type DownloadTicket struct {
	DownloadURL string `json:"download_url"`
	FileName    string `json:"file_name"`
}

func NewGameService(db *gorm.DB, storage *StorageService) *GameService {
	return &GameService{
		db:      db,
		storage: storage,
	}
}

// CreateGame stores both uploads and persists the catalog entry. The two
// stores and the insert form a logical unit: any failure rolls back the
// assets already written, so no orphan file survives an incomplete creation.
func (s *GameService) CreateGame(owner *models.User, req *CreateGameRequest, image, file *Upload) (*models.Game, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if image == nil || file == nil {
		return nil, ErrIncompleteSubmission
	}

	category := models.Category(req.Category)
	if category == "" {
		category = models.CategoryOther
	}

	pair, err := s.storage.StoreGamePair(*image, *file)
	if err != nil {
		return nil, err
	}

	game := &models.Game{
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		UploaderID:   owner.ID,
		UploaderName: owner.Name,
		ImageURL:     pair.Image.URL,
		FileURL:      pair.File.URL,
		FileName:     file.OriginalName,
		FileSize:     pair.File.Size,
		FileType:     strings.ToLower(filepath.Ext(file.OriginalName)),
		Category:     category,
		Tags:         pq.StringArray(req.Tags),
		IsActive:     true,
		IsVerified:   false,
		Reviews:      models.ReviewMap{},
	}

	if err := s.db.Create(game).Error; err != nil {
		s.storage.Delete(pair.Image.URL)
		s.storage.Delete(pair.File.URL)
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	// Owner bookkeeping is best effort; the entry already exists.
	if err := s.db.Exec(
		"UPDATE users SET total_uploads = total_uploads + 1, games_uploaded = array_append(games_uploaded, ?) WHERE id = ?",
		game.ID.String(), owner.ID,
	).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"game_id": game.ID,
			"user_id": owner.ID,
		}).Warn("Failed to update uploader statistics")
	}

	return game, nil
}

// GetGame returns one entry. Inactive entries are visible only to their
// owner and to admins; everyone else gets a not-found.
func (s *GameService) GetGame(id uuid.UUID, requester *models.User) (*models.Game, error) {
	var game models.Game
	if err := s.db.Preload("Uploader").First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !game.IsActive {
		if requester == nil || (requester.ID != game.UploaderID && !requester.IsAdmin()) {
			return nil, ErrNotFound
		}
	}

	return &game, nil
}

func (s *GameService) UpdateGame(id uuid.UUID, requester *models.User, req *UpdateGameRequest) (*models.Game, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var game models.Game
	if err := s.db.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if game.UploaderID != requester.ID && !requester.IsAdmin() {
		return nil, ErrForbidden
	}

	updates := make(map[string]interface{})
	if req.Title != "" {
		updates["title"] = strings.TrimSpace(req.Title)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Tags != nil {
		updates["tags"] = pq.StringArray(req.Tags)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&game).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update game: %w", err)
		}
	}

	if err := s.db.Preload("Uploader").First(&game, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload game: %w", err)
	}

	return &game, nil
}

// DeleteGame removes the entry and both of its assets. Assets already gone
// from storage are tolerated; the database row is the source of truth.
func (s *GameService) DeleteGame(id uuid.UUID, requester *models.User) error {
	var game models.Game
	if err := s.db.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if game.UploaderID != requester.ID && !requester.IsAdmin() {
		return ErrForbidden
	}

	if !s.storage.Delete(game.ImageURL) {
		logrus.WithField("url", game.ImageURL).Warn("Game image already missing from storage")
	}
	if !s.storage.Delete(game.FileURL) {
		logrus.WithField("url", game.FileURL).Warn("Game file already missing from storage")
	}

	if err := s.db.Delete(&game).Error; err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}

	if err := s.db.Exec(
		"UPDATE users SET total_uploads = GREATEST(total_uploads - 1, 0), games_uploaded = array_remove(games_uploaded, ?) WHERE id = ?",
		game.ID.String(), game.UploaderID,
	).Error; err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"game_id": game.ID,
			"user_id": game.UploaderID,
		}).Warn("Failed to update uploader statistics")
	}

	return nil
}

// SetGameActive soft-retires or restores an entry without touching its data
// or assets. Admin moderation only; route-level middleware enforces the role.
func (s *GameService) SetGameActive(id uuid.UUID, active bool) (*models.Game, error) {
	var game models.Game
	if err := s.db.First(&game, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&game).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update game status: %w", err)
	}

	return &game, nil
}

// SearchGames lists active entries with optional category filter and
// case-insensitive substring search over title, description, and tags.
func (s *GameService) SearchGames(params utils.PaginationParams) ([]models.Game, int64, error) {
	var total int64
	if err := s.searchFilter(params).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count games: %w", err)
	}

	var games []models.Game
	if err := s.searchQuery(params).Preload("Uploader").Find(&games).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch games: %w", err)
	}

	return games, total, nil
}

// searchFilter applies the listing predicates: active entries only, optional
// exact category, substring match over title, description, and tags.
func (s *GameService) searchFilter(params utils.PaginationParams) *gorm.DB {
	query := s.db.Model(&models.Game{}).Where("is_active = ?", true)

	if params.Category != "" && params.Category != "all" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where(
			"title ILIKE ? OR description ILIKE ? OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE ?)",
			searchTerm, searchTerm, searchTerm,
		)
	}

	return query
}

// searchQuery is the filter plus ordering and the pagination window.
func (s *GameService) searchQuery(params utils.PaginationParams) *gorm.DB {
	allowedSortFields := []string{"created_at", "updated_at", "title", "downloads", "file_size"}
	query := utils.ApplySort(s.searchFilter(params), params, allowedSortFields)
	return utils.ApplyPagination(query, params)
}

func (s *GameService) GetPopularGames(limit int) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Where("is_active = ?", true).
		Order("downloads DESC").
		Limit(limit).
		Preload("Uploader").
		Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch popular games: %w", err)
	}

	return games, nil
}

func (s *GameService) GetRecentGames(limit int) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Uploader").
		Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch recent games: %w", err)
	}

	return games, nil
}

// AddReview inserts or replaces the reviewer's review and recomputes the
// aggregate inside a row-locked transaction, so two concurrent reviewers
// cannot drop each other's write.
func (s *GameService) AddReview(gameID uuid.UUID, reviewer *models.User, rating int, comment string) (models.ReviewMap, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	if len(comment) > 200 {
		return nil, ErrInvalidComment
	}

	var reviews models.ReviewMap

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var game models.Game
		if err := gameForUpdate(tx, gameID, &game).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !game.IsActive {
			return ErrNotFound
		}

		game.SetReview(reviewer.ID, reviewer.Name, rating, strings.TrimSpace(comment))

		if err := tx.Model(&game).Updates(map[string]interface{}{
			"reviews": game.Reviews,
			"rating":  game.Rating,
		}).Error; err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		reviews = game.Reviews
		return nil
	})

	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// gameForUpdate reads one row under a FOR UPDATE lock so concurrent review
// writers serialize instead of overwriting each other's map entry.
func gameForUpdate(tx *gorm.DB, id uuid.UUID, game *models.Game) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(game, "id = ?", id)
}

// RecordDownload increments the counter and appends a history record when
// the downloader or origin address is known. The increment uses a SQL
// expression so concurrent downloads never lose counts; a racing history
// append may be dropped, which is acceptable telemetry.
func (s *GameService) RecordDownload(gameID uuid.UUID, downloaderID *uuid.UUID, ipAddress string) (*DownloadTicket, error) {
	var game models.Game
	if err := s.db.First(&game, "id = ? AND is_active = ?", gameID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&game).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error; err != nil {
		return nil, fmt.Errorf("failed to record download: %w", err)
	}

	if downloaderID != nil || ipAddress != "" {
		record := []models.DownloadRecord{{
			UserID:       downloaderID,
			IPAddress:    ipAddress,
			DownloadedAt: time.Now(),
		}}
		if payload, err := json.Marshal(record); err == nil {
			if err := s.db.Exec(
				"UPDATE games SET download_history = COALESCE(download_history, '[]'::jsonb) || ?::jsonb WHERE id = ?",
				string(payload), gameID,
			).Error; err != nil {
				logrus.WithError(err).WithField("game_id", gameID).Warn("Failed to append download history")
			}
		}
	}

	if downloaderID != nil {
		if err := s.db.Exec(
			"UPDATE users SET total_downloads = total_downloads + 1 WHERE id = ?",
			*downloaderID,
		).Error; err != nil {
			logrus.WithError(err).WithField("user_id", *downloaderID).Warn("Failed to update downloader statistics")
		}
	}

	return &DownloadTicket{
		DownloadURL: game.FileURL,
		FileName:    game.FileName,
	}, nil
}

// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gameshare/backend/internal/models"
	"github.com/gameshare/backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) GetUser(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

// GetUserGames lists a user's active uploads, newest first.
func (s *UserService) GetUserGames(userID uuid.UUID, params utils.PaginationParams) ([]models.Game, int64, error) {
	query := s.db.Model(&models.Game{}).
		Where("uploader_id = ? AND is_active = ?", userID, true)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count user games: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "downloads"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var games []models.Game
	if err := query.Find(&games).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch user games: %w", err)
	}

	return games, total, nil
}

// ListUsers is the admin user directory with optional name/email search.
func (s *UserService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "name", "email", "total_uploads", "total_downloads"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UserStats aggregates a user's active uploads for the public profile page.
type UserStats struct {
	TotalGames     int64   `json:"total_games"`
	TotalDownloads int64   `json:"total_downloads"`
	TotalReviews   int64   `json:"total_reviews"`
	AverageRating  float64 `json:"average_rating"`
}

type userGameAggregate struct {
	TotalGames     int64
	TotalDownloads int64
	RatingSum      int64
	TotalReviews   int64
}

func (s *UserService) GetUserStats(id uuid.UUID) (*UserStats, error) {
	if _, err := s.GetUser(id); err != nil {
		return nil, err
	}

	var agg userGameAggregate
	if err := s.userStatsQuery(id).Scan(&agg).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate user stats: %w", err)
	}

	return buildUserStats(agg), nil
}

// userStatsQuery sums downloads and the stored rating aggregates over the
// user's active games in one pass.
func (s *UserService) userStatsQuery(id uuid.UUID) *gorm.DB {
	return s.db.Model(&models.Game{}).
		Select(`COUNT(*) AS total_games,
			COALESCE(SUM(downloads), 0) AS total_downloads,
			COALESCE(SUM((rating->>'sum')::int), 0) AS rating_sum,
			COALESCE(SUM((rating->>'count')::int), 0) AS total_reviews`).
		Where("uploader_id = ? AND is_active = ?", id, true)
}

func buildUserStats(agg userGameAggregate) *UserStats {
	stats := &UserStats{
		TotalGames:     agg.TotalGames,
		TotalDownloads: agg.TotalDownloads,
		TotalReviews:   agg.TotalReviews,
	}

	if agg.TotalReviews > 0 {
		stats.AverageRating = math.Round(float64(agg.RatingSum)/float64(agg.TotalReviews)*10) / 10
	}

	return stats
}

func (s *UserService) SetVerified(id uuid.UUID, verified bool) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("is_verified", verified).Error; err != nil {
		return nil, fmt.Errorf("failed to update user verification: %w", err)
	}

	return user, nil
}

func (s *UserService) SetActive(id uuid.UUID, active bool) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("is_active", active).Error; err != nil {
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return user, nil
}

// DeleteUser removes an account. Their uploads are soft-retired rather than
// destroyed so existing download references stay resolvable for cleanup.
func (s *UserService) DeleteUser(id uuid.UUID) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Game{}).
			Where("uploader_id = ?", id).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to retire user games: %w", err)
		}

		if err := tx.Delete(user).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}

		return nil
	})
}

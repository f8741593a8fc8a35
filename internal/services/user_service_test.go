// internal/services/user_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildUserStats(t *testing.T) {
	stats := buildUserStats(userGameAggregate{
		TotalGames:     3,
		TotalDownloads: 120,
		RatingSum:      13,
		TotalReviews:   3,
	})

	assert.Equal(t, int64(3), stats.TotalGames)
	assert.Equal(t, int64(120), stats.TotalDownloads)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.Equal(t, 4.3, stats.AverageRating)
}

func TestBuildUserStatsNoReviews(t *testing.T) {
	stats := buildUserStats(userGameAggregate{TotalGames: 1})

	assert.Equal(t, 0.0, stats.AverageRating)
}

func TestUserStatsQuerySQL(t *testing.T) {
	service := NewUserService(dryRunDB(t))
	userID := uuid.New()

	var agg userGameAggregate
	stmt := service.userStatsQuery(userID).Scan(&agg).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "COUNT(*)")
	assert.Contains(t, sql, "SUM(downloads)")
	assert.Contains(t, sql, "rating->>'sum'")
	assert.Contains(t, sql, "rating->>'count'")
	assert.Contains(t, sql, "uploader_id")
	assert.Contains(t, sql, "is_active")
	assert.Contains(t, stmt.Vars, userID)
}

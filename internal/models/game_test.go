// internal/models/game_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSetReviewRecomputesAggregate(t *testing.T) {
	game := &Game{}
	alice := uuid.New()
	bob := uuid.New()

	game.SetReview(alice, "alice", 5, "great")
	game.SetReview(bob, "bob", 3, "okay")

	assert.Equal(t, Rating{Sum: 8, Count: 2}, game.Rating)
	assert.Equal(t, 4.0, game.AverageRating())

	// Editing a review replaces the old entry instead of adding one.
	game.SetReview(alice, "alice", 1, "changed my mind")

	assert.Equal(t, Rating{Sum: 4, Count: 2}, game.Rating)
	assert.Equal(t, 2.0, game.AverageRating())
}

func TestSetReviewSameValuesKeepsCount(t *testing.T) {
	game := &Game{}
	alice := uuid.New()

	game.SetReview(alice, "alice", 4, "solid")
	game.SetReview(alice, "alice", 4, "solid")

	assert.Equal(t, Rating{Sum: 4, Count: 1}, game.Rating)
	assert.Len(t, game.Reviews, 1)
}

func TestAverageRatingRounding(t *testing.T) {
	game := &Game{}
	for _, rating := range []int{5, 4, 4} {
		game.SetReview(uuid.New(), "user", rating, "")
	}

	// 13 / 3 = 4.333..., rounded to one decimal.
	assert.Equal(t, 4.3, game.AverageRating())
}

func TestAverageRatingUnrated(t *testing.T) {
	game := &Game{}
	assert.Equal(t, 0.0, game.AverageRating())
}

func TestAppendDownload(t *testing.T) {
	game := &Game{}
	userID := uuid.New()

	game.AppendDownload(&userID, "203.0.113.9")
	game.AppendDownload(nil, "203.0.113.9")

	assert.Equal(t, int64(2), game.Downloads)
	assert.Len(t, game.DownloadHistory, 2)
	assert.Equal(t, &userID, game.DownloadHistory[0].UserID)
	assert.Nil(t, game.DownloadHistory[1].UserID)

	// Anonymous download with no origin bumps the counter only.
	game.AppendDownload(nil, "")

	assert.Equal(t, int64(3), game.Downloads)
	assert.Len(t, game.DownloadHistory, 2)
}

func TestFormattedFileSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{2048, "2 KB"},
		{1536, "1.5 KB"},
		{524288000, "500 MB"},
		{1073741824, "1 GB"},
	}

	for _, tt := range tests {
		game := &Game{FileSize: tt.bytes}
		assert.Equal(t, tt.expected, game.FormattedFileSize())
	}
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("Action"))
	assert.True(t, ValidCategory("Other"))
	assert.False(t, ValidCategory("action"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("Bogus"))
}

// internal/models/game.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Review is one user's rating of a game. A user gets at most one review per
// game; re-reviewing replaces the previous entry.
type Review struct {
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewMap stores reviews keyed by reviewer id as a JSONB column.
type ReviewMap map[string]Review

func (r ReviewMap) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal(ReviewMap{})
	}
	return json.Marshal(r)
}

func (r *ReviewMap) Scan(value interface{}) error {
	if value == nil {
		*r = ReviewMap{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// DownloadRecord is one entry in a game's download history. Either UserID or
// IPAddress may be empty, never both.
type DownloadRecord struct {
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	IPAddress    string     `json:"ip_address,omitempty"`
	DownloadedAt time.Time  `json:"downloaded_at"`
}

// Rating holds the raw aggregate over all reviews. Sum and Count are always
// recomputed from the review map, never adjusted incrementally.
type Rating struct {
	Sum   int `json:"sum"`
	Count int `json:"count"`
}

func (r Rating) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *Rating) Scan(value interface{}) error {
	if value == nil {
		*r = Rating{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, r)
}

type Game struct {
	BaseModel
	Title           string                                `json:"title" gorm:"size:100;not null"`
	Description     string                                `json:"description" gorm:"size:500;default:''"`
	UploaderID      uuid.UUID                             `json:"uploader_id" gorm:"type:uuid;not null;index"`
	UploaderName    string                                `json:"uploader_name" gorm:"size:50;not null"`
	ImageURL        string                                `json:"image_url" gorm:"not null"`
	FileURL         string                                `json:"file_url" gorm:"not null"`
	FileName        string                                `json:"file_name" gorm:"not null"`
	FileSize        int64                                 `json:"file_size" gorm:"not null"`
	FileType        string                                `json:"file_type" gorm:"size:16;not null"`
	Downloads       int64                                 `json:"downloads" gorm:"default:0"`
	Rating          Rating                                `json:"rating" gorm:"type:jsonb;default:'{\"sum\":0,\"count\":0}'"`
	Tags            pq.StringArray                        `json:"tags" gorm:"type:text[]"`
	Category        Category                              `json:"category" gorm:"type:varchar(20);default:'Other';index"`
	IsActive        bool                                  `json:"is_active" gorm:"default:true;index"`
	IsVerified      bool                                  `json:"is_verified" gorm:"default:false"`
	DownloadHistory datatypes.JSONSlice[DownloadRecord]   `json:"download_history,omitempty" gorm:"type:jsonb"`
	Reviews         ReviewMap                             `json:"reviews" gorm:"type:jsonb"`

	// Relationships
	Uploader User `json:"uploader,omitempty" gorm:"foreignKey:UploaderID"`
}

// SetReview inserts or replaces the reviewer's entry and recomputes the
// aggregate by a full scan of the review map, so edits can never drift the
// stored sum/count.
func (g *Game) SetReview(userID uuid.UUID, userName string, rating int, comment string) {
	if g.Reviews == nil {
		g.Reviews = ReviewMap{}
	}

	g.Reviews[userID.String()] = Review{
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now(),
	}

	g.RecomputeRating()
}

// RecomputeRating rebuilds Rating.Sum and Rating.Count from the review map.
func (g *Game) RecomputeRating() {
	rating := Rating{}
	for _, review := range g.Reviews {
		rating.Sum += review.Rating
		rating.Count++
	}
	g.Rating = rating
}

// AverageRating returns sum/count rounded to one decimal, 0 when unrated.
func (g *Game) AverageRating() float64 {
	if g.Rating.Count == 0 {
		return 0
	}
	return math.Round(float64(g.Rating.Sum)/float64(g.Rating.Count)*10) / 10
}

// AppendDownload bumps the counter and, when the downloader or origin is
// known, appends a history record.
func (g *Game) AppendDownload(userID *uuid.UUID, ipAddress string) {
	g.Downloads++

	if userID != nil || ipAddress != "" {
		g.DownloadHistory = append(g.DownloadHistory, DownloadRecord{
			UserID:       userID,
			IPAddress:    ipAddress,
			DownloadedAt: time.Now(),
		})
	}
}

// FormattedFileSize renders the payload size in human units.
func (g *Game) FormattedFileSize() string {
	bytes := g.FileSize
	if bytes == 0 {
		return "0 Bytes"
	}

	sizes := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizes) {
		i = len(sizes) - 1
	}

	value := math.Round(float64(bytes)/math.Pow(1024, float64(i))*100) / 100
	return fmt.Sprintf("%g %s", value, sizes[i])
}

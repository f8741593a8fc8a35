// internal/models/user.go
package models

import (
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:50;not null"`
	Email          string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash   string         `json:"-" gorm:"size:255;not null"`
	Role           UserRole       `json:"role" gorm:"type:varchar(20);default:'user'"`
	IsVerified     bool           `json:"is_verified" gorm:"default:true"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	TotalUploads   int            `json:"total_uploads" gorm:"default:0"`
	TotalDownloads int            `json:"total_downloads" gorm:"default:0"`
	GamesUploaded  pq.StringArray `json:"games_uploaded" gorm:"type:text[]"`
	LastLogin      *time.Time     `json:"last_login"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// PublicProfile strips the fields other users are not supposed to see.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":              u.ID,
		"name":            u.Name,
		"total_uploads":   u.TotalUploads,
		"total_downloads": u.TotalDownloads,
		"created_at":      u.CreatedAt,
	}
}

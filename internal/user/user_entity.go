package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a member of staff known to the payroll. Accounts and credentials
// live in the identity provider; only display data is kept here.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"column:name;type:varchar(255)"`
	Email     string         `gorm:"column:email;type:text;not null;uniqueIndex"`
	IsActive  bool           `gorm:"column:is_active;default:true"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName falls back to the email address when no name is recorded.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

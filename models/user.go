package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  *string        `gorm:"type:varchar(255)" json:"-"` // nil for Google-only accounts
	GoogleID  *string        `gorm:"uniqueIndex" json:"-"`
	Provider  string         `gorm:"type:varchar(20);default:'email'" json:"provider"`
	IsStaff   bool           `gorm:"default:false" json:"is_staff"`
	Reports   []Report       `json:"reports,omitempty" gorm:"foreignKey:UserID"`
}

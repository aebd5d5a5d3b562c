package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an authenticated wholesale customer (or admin)
type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Auth0ID         string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name            string         `gorm:"not null" json:"name"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	Role            string         `gorm:"not null;default:'customer'" json:"role"` // "customer" or "admin"
	Organisation    string         `json:"organisation"`
	DeliveryAddress string         `json:"delivery_address"`
	DeliveryCharge  float64        `gorm:"not null;default:0;check:delivery_charge >= 0" json:"delivery_charge"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

package models

import "time"

// User holds clinic staff credentials. PasswordHash is compared by plain
// equality; it is not a hash despite the column name.
type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	FullName     string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

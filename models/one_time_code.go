// SPDX-License-Identifier: GPL-3.0-only

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OneTimeCode is a password reset code. There is no expiry and no used flag;
// codes are only removed when the owner requests a new one.
type OneTimeCode struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    string `gorm:"size:36;not null;index"`
	Code      string `gorm:"size:16;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (OneTimeCode) TableName() string {
	return "one_time_codes"
}

func (o *OneTimeCode) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func init() {
	AllModels = append(AllModels, &OneTimeCode{})
}

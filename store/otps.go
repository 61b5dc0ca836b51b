// SPDX-License-Identifier: GPL-3.0-only

package store

import (
	"context"
	"errors"
	"fmt"

	"authrelay-server/models"

	"gorm.io/gorm"
)

// OTPStore persists password reset codes. Nothing here expires or consumes
// a code; DeleteAllForUser is the only removal path.
type OTPStore struct {
	db *gorm.DB
}

func NewOTPStore(db *gorm.DB) *OTPStore {
	return &OTPStore{db: db}
}

func (s *OTPStore) DeleteAllForUser(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.OneTimeCode{}).Error; err != nil {
		return fmt.Errorf("failed to delete codes: %w", err)
	}
	return nil
}

func (s *OTPStore) Create(ctx context.Context, userID, code string) error {
	record := models.OneTimeCode{UserID: userID, Code: code}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create code: %w", err)
	}
	return nil
}

func (s *OTPStore) FindByUserAndCode(ctx context.Context, userID, code string) (*models.OneTimeCode, error) {
	var record models.OneTimeCode
	err := s.db.WithContext(ctx).Where("user_id = ? AND code = ?", userID, code).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find code: %w", err)
	}
	return &record, nil
}

// ListForUser returns every stored code of userID, oldest first.
func (s *OTPStore) ListForUser(ctx context.Context, userID string) ([]models.OneTimeCode, error) {
	var records []models.OneTimeCode
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}
	return records, nil
}

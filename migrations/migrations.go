// SPDX-License-Identifier: GPL-3.0-only

package migrations

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// List returns the ordered schema history. Each step declares its own
// snapshot of the tables it touches so later model changes do not rewrite it.
func List() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "001_create_users",
			Migrate: func(tx *gorm.DB) error {
				type User struct {
					ID        string `gorm:"primaryKey;size:36"`
					Name      string `gorm:"size:255;not null"`
					Email     string `gorm:"size:255;not null;uniqueIndex"`
					Password  string `gorm:"size:255;not null"`
					CreatedAt time.Time
					UpdatedAt time.Time
				}
				return tx.Migrator().CreateTable(&User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "002_create_one_time_codes",
			Migrate: func(tx *gorm.DB) error {
				type OneTimeCode struct {
					ID        string `gorm:"primaryKey;size:36"`
					UserID    string `gorm:"size:36;not null;index"`
					Code      string `gorm:"size:16;not null"`
					CreatedAt time.Time
					UpdatedAt time.Time
				}
				return tx.Migrator().CreateTable(&OneTimeCode{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("one_time_codes")
			},
		},
	}
}

package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCoursesTable creates the courses catalog table.
func createCoursesTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_courses",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS courses (
					id VARCHAR(512) PRIMARY KEY,
					title VARCHAR(500) NOT NULL,
					description TEXT,
					category VARCHAR(100),
					type VARCHAR(100),
					grade_range VARCHAR(50),

					-- Eligibility and pricing
					min_age INTEGER DEFAULT 0,
					max_age INTEGER DEFAULT 0,
					price DECIMAL(10,2) DEFAULT 0,

					-- Scheduling
					next_session_date TIMESTAMPTZ,
					schedule TEXT[],

					-- Timestamps
					created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_courses_category ON courses(category);",
				"CREATE INDEX IF NOT EXISTS idx_courses_type ON courses(type);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec("DROP TABLE IF EXISTS courses;").Error
		},
	}
}

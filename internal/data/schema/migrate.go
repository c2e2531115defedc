package schema

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Open connects gorm for migrations. dialect is DialectPostgres or DialectSQLite.
func Open(dialect, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch dialect {
	case DialectPostgres:
		dialector = postgres.Open(dsn)
	case DialectSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	return db, nil
}

// Migrate creates or updates every facetoface table plus the partial index
// that allows a single current status row per signup.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Activity{},
		&Session{},
		&SessionDate{},
		&SessionData{},
		&SessionRole{},
		&Signup{},
		&SignupStatus{},
		&Grade{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_signup_status_current
		ON facetoface_signup_statuses (signup_id)
		WHERE superseded = false
	`).Error
	if err != nil {
		return fmt.Errorf("create current status index: %w", err)
	}

	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("db.DB(): %w", err)
	}
	return sqlDB.Close()
}

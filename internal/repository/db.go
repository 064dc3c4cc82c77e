package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"patientmanager/internal/model"
)

// Default credentials seeded into an empty database.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// NewDB opens a SQLite database, runs migrations and seeds the default
// admin account when the users table is empty.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "patient_manager.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Patient{},
		&model.Program{},
		&model.BoardColumn{},
		&model.Task{},
		&model.SharedAccess{},
		&model.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedAdminUser(db); err != nil {
		return nil, fmt.Errorf("seed admin user: %w", err)
	}

	return db, nil
}

// seedAdminUser creates the default admin account so a fresh install is
// usable without manual setup.
func seedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &model.User{
		Username: DefaultAdminUsername,
		Password: string(hash),
		Name:     "System Administrator",
		Role:     model.RoleAdmin,
	}
	return db.Create(admin).Error
}

// ensureDirForSQLite creates the parent dir for the SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// AuditFilter narrows an audit log listing. Zero-valued fields match
// everything.
type AuditFilter struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   *uint
	Limit      int
}

func (r *AuditRepository) Insert(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditLog, error) {
	query := r.db.WithContext(ctx).Model(&model.AuditLog{}).Order("id DESC")

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var entries []model.AuditLog
	err := query.Find(&entries).Error
	return entries, err
}

// Purge drops entries older than the retention window and returns how
// many were removed.
func (r *AuditRepository) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := r.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.AuditLog{})
	return result.RowsAffected, result.Error
}

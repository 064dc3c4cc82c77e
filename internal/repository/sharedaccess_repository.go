package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type SharedAccessRepository struct {
	db *gorm.DB
}

func NewSharedAccessRepository(db *gorm.DB) *SharedAccessRepository {
	return &SharedAccessRepository{db: db}
}

func (r *SharedAccessRepository) Create(ctx context.Context, share *model.SharedAccess) error {
	return r.db.WithContext(ctx).Create(share).Error
}

func (r *SharedAccessRepository) GetByID(ctx context.Context, id uint) (*model.SharedAccess, error) {
	var share model.SharedAccess
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &share, err
}

func (r *SharedAccessRepository) GetByPatient(ctx context.Context, patientID uint) ([]model.SharedAccess, error) {
	var shares []model.SharedAccess
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&shares).Error
	return shares, err
}

// UpdateLevel changes the access level of an existing grant.
func (r *SharedAccessRepository) UpdateLevel(ctx context.Context, id uint, level string) error {
	result := r.db.WithContext(ctx).Model(&model.SharedAccess{}).
		Where("id = ?", id).
		Update("access_level", level)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}
	return nil
}

func (r *SharedAccessRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.SharedAccess{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrShareNotFound
	}
	return nil
}

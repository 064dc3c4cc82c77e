package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) Create(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *PatientRepository) GetByID(ctx context.Context, id uint) (*model.Patient, error) {
	var patient model.Patient
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &patient, err
}

func (r *PatientRepository) GetAll(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).Order("id").Find(&patients).Error
	return patients, err
}

func (r *PatientRepository) GetByUser(ctx context.Context, userID uint) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&patients).Error
	return patients, err
}

// GetSharedWithUser returns patients another user granted this user
// access to.
func (r *PatientRepository) GetSharedWithUser(ctx context.Context, userID uint) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).
		Joins("JOIN shared_accesses sa ON sa.patient_id = patients.id").
		Where("sa.user_id = ?", userID).
		Order("patients.id").
		Find(&patients).Error
	return patients, err
}

func (r *PatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	result := r.db.WithContext(ctx).Model(&model.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"first_name":    patient.FirstName,
			"last_name":     patient.LastName,
			"date_of_birth": patient.DateOfBirth,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPatientNotFound
	}
	return nil
}

// Delete removes a patient together with its programs, their tasks and
// board columns, and any shared access grants. The whole cascade runs
// in one transaction.
func (r *PatientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient model.Patient
		if err := tx.First(&patient, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPatientNotFound
			}
			return err
		}

		programIDs := tx.Model(&model.Program{}).Select("id").Where("patient_id = ?", id)

		if err := tx.Where("program_id IN (?)", programIDs).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id IN (?)", programIDs).Delete(&model.BoardColumn{}).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&model.Program{}).Error; err != nil {
			return err
		}
		if err := tx.Where("patient_id = ?", id).Delete(&model.SharedAccess{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Patient{}, "id = ?", id).Error
	})
}

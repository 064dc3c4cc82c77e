package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type ProgramRepository struct {
	db *gorm.DB
}

func NewProgramRepository(db *gorm.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

// Create inserts the program and seeds its board with the default
// columns, atomically.
func (r *ProgramRepository) Create(ctx context.Context, program *model.Program) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(program).Error; err != nil {
			return err
		}
		for i, title := range model.DefaultColumnTitles {
			column := model.BoardColumn{
				ProgramID: program.ID,
				Title:     title,
				Position:  i,
			}
			if err := tx.Create(&column).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProgramRepository) GetByID(ctx context.Context, id uint) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&program).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &program, err
}

func (r *ProgramRepository) GetByPatient(ctx context.Context, patientID uint) ([]model.Program, error) {
	var programs []model.Program
	err := r.db.WithContext(ctx).Where("patient_id = ?", patientID).Order("id").Find(&programs).Error
	return programs, err
}

func (r *ProgramRepository) Update(ctx context.Context, program *model.Program) error {
	result := r.db.WithContext(ctx).Model(&model.Program{}).
		Where("id = ?", program.ID).
		Update("name", program.Name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProgramNotFound
	}
	return nil
}

// Delete removes a program with its tasks and board columns in one
// transaction.
func (r *ProgramRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var program model.Program
		if err := tx.First(&program, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgramNotFound
			}
			return err
		}

		if err := tx.Where("program_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", id).Delete(&model.BoardColumn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Program{}, "id = ?", id).Error
	})
}

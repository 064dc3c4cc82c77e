package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a task to its program's board. A zero ColumnID lands the
// task in the board's first column; an explicit column must belong to
// the same program.
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var program model.Program
		if err := tx.First(&program, "id = ?", task.ProgramID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProgramNotFound
			}
			return err
		}

		if task.ColumnID == 0 {
			var first model.BoardColumn
			if err := tx.Where("program_id = ?", task.ProgramID).
				Order("position").
				First(&first).Error; err != nil {
				return err
			}
			task.ColumnID = first.ID
		} else {
			var column model.BoardColumn
			if err := tx.First(&column, "id = ?", task.ColumnID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrColumnNotFound
				}
				return err
			}
			if column.ProgramID != task.ProgramID {
				return ErrColumnMismatch
			}
		}

		return tx.Create(task).Error
	})
}

func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &task, err
}

func (r *TaskRepository) GetByProgram(ctx context.Context, programID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("program_id = ?", programID).Order("id").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) GetByColumn(ctx context.Context, columnID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("column_id = ?", columnID).Order("id").Find(&tasks).Error
	return tasks, err
}

// Update rewrites a task's name and description. Column changes go
// through Move.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"name":        task.Name,
			"description": task.Description,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Move sets a task's column after verifying the target belongs to the
// same board. Only the column reference changes.
func (r *TaskRepository) Move(ctx context.Context, taskID, columnID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}

		var column model.BoardColumn
		if err := tx.First(&column, "id = ?", columnID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}
		if column.ProgramID != task.ProgramID {
			return ErrColumnMismatch
		}

		task.ColumnID = columnID
		return tx.Model(&model.Task{}).
			Where("id = ?", taskID).
			Update("column_id", columnID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"patientmanager/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

// ColumnPosition is one entry of a board reorder request.
type ColumnPosition struct {
	ID       uint
	Position int
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uint) (*model.BoardColumn, error) {
	var column model.BoardColumn
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &column, err
}

func (r *ColumnRepository) GetByProgram(ctx context.Context, programID uint) ([]model.BoardColumn, error) {
	var columns []model.BoardColumn
	err := r.db.WithContext(ctx).Where("program_id = ?", programID).Order("position").Find(&columns).Error
	return columns, err
}

// Append adds a column at the end of the board. Boards are capped at
// model.MaxColumns; a full board rejects the append unchanged.
func (r *ColumnRepository) Append(ctx context.Context, column *model.BoardColumn) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BoardColumn{}).
			Where("program_id = ?", column.ProgramID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= model.MaxColumns {
			return ErrColumnLimit
		}

		column.Position = int(count)
		return tx.Create(column).Error
	})
}

// Rename updates a column title only.
func (r *ColumnRepository) Rename(ctx context.Context, id uint, title string) (*model.BoardColumn, error) {
	var column model.BoardColumn
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&column, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}
		column.Title = title
		return tx.Model(&model.BoardColumn{}).Where("id = ?", id).Update("title", title).Error
	})
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// Delete removes a column, reassigns its tasks to the board's first
// remaining column and closes the position gap. Boards never drop
// below model.MinColumns.
func (r *ColumnRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var column model.BoardColumn
		if err := tx.First(&column, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrColumnNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.BoardColumn{}).
			Where("program_id = ?", column.ProgramID).
			Count(&count).Error; err != nil {
			return err
		}
		if count <= model.MinColumns {
			return ErrColumnMinimum
		}

		// Tasks parked in the removed column fall back to the first
		// remaining column of the board.
		var fallback model.BoardColumn
		if err := tx.Where("program_id = ? AND id <> ?", column.ProgramID, id).
			Order("position").
			First(&fallback).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Task{}).
			Where("column_id = ?", id).
			Update("column_id", fallback.ID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&model.BoardColumn{}, "id = ?", id).Error; err != nil {
			return err
		}

		// Keep positions dense.
		return tx.Model(&model.BoardColumn{}).
			Where("program_id = ? AND position > ?", column.ProgramID, column.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
}

// Reorder assigns new positions to the board's columns. The request
// must name every column of the board exactly once with positions
// forming 0..count-1; anything else leaves the board unchanged.
func (r *ColumnRepository) Reorder(ctx context.Context, programID uint, order []ColumnPosition) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var columns []model.BoardColumn
		if err := tx.Where("program_id = ?", programID).Find(&columns).Error; err != nil {
			return err
		}
		if len(columns) == 0 {
			return ErrProgramNotFound
		}
		if len(order) != len(columns) {
			return ErrInvalidOrder
		}

		boardIDs := make(map[uint]bool, len(columns))
		for _, column := range columns {
			boardIDs[column.ID] = true
		}

		seenIDs := make(map[uint]bool, len(order))
		seenPositions := make(map[int]bool, len(order))
		for _, entry := range order {
			if !boardIDs[entry.ID] || seenIDs[entry.ID] {
				return ErrInvalidOrder
			}
			if entry.Position < 0 || entry.Position >= len(order) || seenPositions[entry.Position] {
				return ErrInvalidOrder
			}
			seenIDs[entry.ID] = true
			seenPositions[entry.Position] = true
		}

		for _, entry := range order {
			if err := tx.Model(&model.BoardColumn{}).
				Where("id = ?", entry.ID).
				Update("position", entry.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

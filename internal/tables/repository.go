package tables

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for table data operations
type Repository interface {
	ListTables(ctx context.Context) ([]Table, error)
	GetTableByID(ctx context.Context, id uuid.UUID) (*Table, error)
	CreateTable(ctx context.Context, table *Table) error
	UpdateTable(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status TableStatus) error
}

// repository implements the Repository interface
type repository struct {
	db *gorm.DB
}

// NewRepository creates a new table repository
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListTables(ctx context.Context) ([]Table, error) {
	var tables []Table
	err := r.db.WithContext(ctx).
		Order("priority ASC, code ASC").
		Find(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (r *repository) GetTableByID(ctx context.Context, id uuid.UUID) (*Table, error) {
	var table Table
	err := r.db.WithContext(ctx).First(&table, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *repository) CreateTable(ctx context.Context, table *Table) error {
	if err := r.db.WithContext(ctx).Create(table).Error; err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (r *repository) UpdateTable(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Table{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update table: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status TableStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid table status: %s", status)
	}
	return r.UpdateTable(ctx, id, map[string]interface{}{"status": status})
}

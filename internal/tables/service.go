package tables

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service interface defines the contract for catalog administration
type Service interface {
	ListTables(ctx context.Context, zone *Zone) ([]Table, error)
	GetTable(ctx context.Context, id string) (*Table, error)
	CreateTable(ctx context.Context, req CreateTableRequest) (*Table, error)
	UpdateTable(ctx context.Context, id string, req UpdateTableRequest) (*Table, error)
}

type service struct {
	repo    Repository
	catalog Catalog
}

// NewService creates a new catalog admin service
func NewService(repo Repository, catalog Catalog) Service {
	return &service{repo: repo, catalog: catalog}
}

func (s *service) ListTables(ctx context.Context, zone *Zone) ([]Table, error) {
	return s.catalog.List(zone), nil
}

func (s *service) GetTable(ctx context.Context, id string) (*Table, error) {
	tableID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid table ID: %w", err)
	}
	if t, ok := s.catalog.Get(tableID); ok {
		return &t, nil
	}
	// Fall through to the store in case the snapshot is stale.
	table, err := s.repo.GetTableByID(ctx, tableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("table not found")
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *service) CreateTable(ctx context.Context, req CreateTableRequest) (*Table, error) {
	zone := Zone(req.Zone)
	if !zone.IsValid() {
		return nil, fmt.Errorf("invalid zone: %s", req.Zone)
	}
	if req.CapacityMin > req.CapacityMax {
		return nil, fmt.Errorf("capacity_min must not exceed capacity_max")
	}

	table := &Table{
		Code:             req.Code,
		Zone:             zone,
		CapacityMin:      req.CapacityMin,
		CapacityMax:      req.CapacityMax,
		Ampliable:        req.Ampliable,
		ExtendedCapacity: req.ExtendedCapacity,
		Priority:         req.Priority,
		Note:             req.Note,
		Status:           TableStatusFree,
	}
	if req.AuxTableID != nil {
		auxID, err := uuid.Parse(*req.AuxTableID)
		if err != nil {
			return nil, fmt.Errorf("invalid aux table ID: %w", err)
		}
		table.AuxTableID = &auxID
	}

	if err := s.repo.CreateTable(ctx, table); err != nil {
		return nil, err
	}

	// Make the new table visible to assignment without waiting a cycle.
	if err := s.catalog.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("table created but catalog refresh failed: %w", err)
	}
	return table, nil
}

func (s *service) UpdateTable(ctx context.Context, id string, req UpdateTableRequest) (*Table, error) {
	tableID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid table ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		status := TableStatus(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("invalid table status: %s", *req.Status)
		}
		updates["status"] = status
	}
	if req.Priority != nil {
		updates["priority"] = *req.Priority
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateTable(ctx, tableID, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("table not found")
			}
			return nil, err
		}
		if err := s.catalog.Refresh(ctx); err != nil {
			return nil, fmt.Errorf("table updated but catalog refresh failed: %w", err)
		}
	}

	return s.repo.GetTableByID(ctx, tableID)
}

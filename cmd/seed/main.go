package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tably/internal/calendar"
	"tably/internal/shared/config"
	"tably/internal/shared/database"
	"tably/internal/tables"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Tably Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in dependency order.
func (s *Seeder) CleanDatabase() error {
	names := []string{
		"waitlist_entries",
		"reservations",
		"learning_stats",
		"demand_windows",
		"tables",
	}

	tx := s.db.PostgreSQL.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, name := range names {
		fmt.Printf("  Truncating table: %s\n", name)
		if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", name)).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to truncate table %s: %w", name, err)
		}
	}

	return tx.Commit().Error
}

// SeedAll loads the default floor plan and demand windows.
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	if err := s.SeedFloorPlan(ctx); err != nil {
		return fmt.Errorf("failed to seed floor plan: %w", err)
	}
	if err := s.SeedDemandWindows(ctx); err != nil {
		return fmt.Errorf("failed to seed demand windows: %w", err)
	}
	return nil
}

// SeedFloorPlan creates the default venue layout: 2-tops through
// 8-tops in both zones, one ampliable 8-top paired with its designated
// auxiliary.
func (s *Seeder) SeedFloorPlan(ctx context.Context) error {
	repo := tables.NewRepository(s.db.GetPostgreSQL())

	intPtr := func(v int) *int { return &v }

	// The auxiliary table goes in first so the ampliable 8-top can
	// reference it.
	aux := &tables.Table{
		ID:          uuid.New(),
		Code:        "A1",
		Zone:        tables.ZoneIndoor,
		CapacityMin: 1,
		CapacityMax: 2,
		Priority:    90,
		Note:        "mesa auxiliar, junto a la columna",
	}
	if err := repo.CreateTable(ctx, aux); err != nil {
		return err
	}

	plan := []*tables.Table{
		{Code: "M1", Zone: tables.ZoneIndoor, CapacityMin: 1, CapacityMax: 2, Priority: 10},
		{Code: "M2", Zone: tables.ZoneIndoor, CapacityMin: 1, CapacityMax: 2, Priority: 11},
		{Code: "M3", Zone: tables.ZoneIndoor, CapacityMin: 1, CapacityMax: 2, Priority: 12, Note: "junto a los aseos"},
		{Code: "M10", Zone: tables.ZoneIndoor, CapacityMin: 2, CapacityMax: 4, Priority: 20},
		{Code: "M11", Zone: tables.ZoneIndoor, CapacityMin: 2, CapacityMax: 4, Priority: 21},
		{Code: "M12", Zone: tables.ZoneIndoor, CapacityMin: 2, CapacityMax: 4, Priority: 22},
		{Code: "M20", Zone: tables.ZoneIndoor, CapacityMin: 4, CapacityMax: 6, Priority: 30},
		{Code: "M21", Zone: tables.ZoneIndoor, CapacityMin: 4, CapacityMax: 6, Priority: 31},
		{Code: "M30", Zone: tables.ZoneIndoor, CapacityMin: 6, CapacityMax: 8, Priority: 40,
			Ampliable: true, AuxTableID: &aux.ID, ExtendedCapacity: intPtr(10)},
		{Code: "T1", Zone: tables.ZoneOutdoor, CapacityMin: 1, CapacityMax: 2, Priority: 50},
		{Code: "T2", Zone: tables.ZoneOutdoor, CapacityMin: 1, CapacityMax: 2, Priority: 51},
		{Code: "T10", Zone: tables.ZoneOutdoor, CapacityMin: 2, CapacityMax: 4, Priority: 60},
		{Code: "T11", Zone: tables.ZoneOutdoor, CapacityMin: 2, CapacityMax: 4, Priority: 61, Note: "sombra parcial por la tarde"},
	}

	for _, t := range plan {
		t.ID = uuid.New()
		if err := repo.CreateTable(ctx, t); err != nil {
			return err
		}
		fmt.Printf("  Created table %s (%s, %d-%d)\n", t.Code, t.Zone, t.CapacityMin, t.CapacityMax)
	}

	return nil
}

// SeedDemandWindows loads a sample curated high-demand window.
func (s *Seeder) SeedDemandWindows(ctx context.Context) error {
	service := calendar.NewService(s.db.GetPostgreSQL())

	window := &calendar.DemandWindow{
		Year:      2026,
		Name:      "Feria local",
		StartDate: time.Date(2026, time.June, 8, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.June, 14, 0, 0, 0, 0, time.UTC),
	}
	if err := service.AddDemandWindow(ctx, window); err != nil {
		return err
	}
	fmt.Printf("  Created demand window %s (%s to %s)\n", window.Name,
		window.StartDate.Format("2006-01-02"), window.EndDate.Format("2006-01-02"))
	return nil
}

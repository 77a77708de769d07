package reservations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateReservation(ctx context.Context, reservation *Reservation) error
	GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error)
	ListActiveReservations(ctx context.Context, date string) ([]Reservation, error)
	UpdateReservationStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateReservation(ctx context.Context, reservation *Reservation) error {
	return r.db.WithContext(ctx).Create(reservation).Error
}

func (r *repository) GetReservationByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	var reservation Reservation
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// ListActiveReservations returns reservations still holding seating
// resources on the given date.
func (r *repository) ListActiveReservations(ctx context.Context, date string) ([]Reservation, error) {
	var reservations []Reservation
	err := r.db.WithContext(ctx).
		Where("date = ? AND status IN ?", date, []Status{StatusPending, StatusConfirmed, StatusSeated}).
		Order("time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *repository) UpdateReservationStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return r.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

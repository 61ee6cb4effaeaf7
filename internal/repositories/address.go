package repositories

import (
	"context"
	"log"
	"time"

	"beamscan/internal/models"

	"gorm.io/gorm"
)

// AddressRepository stores the address book.
type AddressRepository interface {
	Create(ctx context.Context, addr *models.Address) error

	// List returns the addresses under state as of now, newest first.
	List(ctx context.Context, state models.AddressState, now time.Time) ([]*models.Address, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	if db == nil {
		panic("db is required")
	}
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, addr *models.Address) error {
	if err := r.db.WithContext(ctx).Create(addr).Error; err != nil {
		log.Printf("create address %s: %v", addr.WalletID, err)
		return ErrDatabaseOperation
	}
	return nil
}

func (r *addressRepository) List(ctx context.Context, state models.AddressState, now time.Time) ([]*models.Address, error) {
	query := r.db.WithContext(ctx).Model(&models.Address{})
	switch state {
	case models.AddressContacts:
		query = query.Where("own = ?", false)
	case models.AddressExpired:
		query = query.Where("own = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now)
	default:
		query = query.Where("own = ? AND (expires_at IS NULL OR expires_at > ?)", true, now)
	}

	var addrs []*models.Address
	if err := query.Order("created_at DESC, id DESC").Find(&addrs).Error; err != nil {
		return nil, err
	}
	return addrs, nil
}

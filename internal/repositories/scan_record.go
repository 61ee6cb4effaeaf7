package repositories

import (
	"context"
	"log"

	"beamscan/internal/models"

	"gorm.io/gorm"
)

// ScanRecordRepository stores scan history.
type ScanRecordRepository interface {
	Create(ctx context.Context, rec *models.ScanRecord) error

	// ListByDevice returns the newest records first. An empty deviceID lists
	// every device.
	ListByDevice(ctx context.Context, deviceID string, offset, limit int) ([]*models.ScanRecord, int64, error)
}

type scanRecordRepository struct {
	db *gorm.DB
}

func NewScanRecordRepository(db *gorm.DB) ScanRecordRepository {
	if db == nil {
		panic("db is required")
	}
	return &scanRecordRepository{db: db}
}

func (r *scanRecordRepository) Create(ctx context.Context, rec *models.ScanRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		log.Printf("create scan record: %v", err)
		return ErrDatabaseOperation
	}
	return nil
}

func (r *scanRecordRepository) ListByDevice(ctx context.Context, deviceID string, offset, limit int) ([]*models.ScanRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ScanRecord{})
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []*models.ScanRecord
	err := query.Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hartwell-supplies/wholesale-orders-api/models"
	"gorm.io/gorm"
)

// ExportService builds order-history archives and ships them to S3
type ExportService struct {
	db *gorm.DB
	s3 S3Interface
}

// NewExportService creates an ExportService around injected dependencies
func NewExportService(db *gorm.DB, s3 S3Interface) *ExportService {
	return &ExportService{db: db, s3: s3}
}

// orderArchive is the exported document layout
type orderArchive struct {
	GeneratedAt time.Time      `json:"generated_at"`
	OrderCount  int            `json:"order_count"`
	Orders      []models.Order `json:"orders"`
}

// ExportResult describes a stored archive
type ExportResult struct {
	Key         string
	DownloadURL string
}

// ExportRecentOrders serializes up to limit recent orders, uploads the
// archive, and returns its key with a time-limited download URL. An archive
// that cannot be presigned is removed again so the bucket holds no
// unreachable documents.
func (s *ExportService) ExportRecentOrders(limit int) (*ExportResult, error) {
	if limit <= 0 {
		limit = 100
	}

	var orders []models.Order
	err := s.db.Order("order_datetime DESC").Limit(limit).Find(&orders).Error
	if err != nil {
		return nil, &PersistenceError{Op: "order export query", Err: err}
	}

	for i := range orders {
		orders[i].ParseOrderText()
	}

	archive := orderArchive{
		GeneratedAt: time.Now().UTC(),
		OrderCount:  len(orders),
		Orders:      orders,
	}

	content, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode order archive: %w", err)
	}

	key := fmt.Sprintf("orders_%s", archive.GeneratedAt.Format("20060102_150405"))
	s3Key, err := s.s3.UploadArchive(key, content)
	if err != nil {
		return nil, err
	}

	downloadURL, err := s.s3.GetPresignedURL(s3Key)
	if err != nil {
		if delErr := s.s3.DeleteArchive(s3Key); delErr != nil {
			log.Printf("Failed to remove unreachable archive %s: %v", s3Key, delErr)
		}
		return nil, fmt.Errorf("failed to presign archive %s: %w", s3Key, err)
	}

	return &ExportResult{Key: s3Key, DownloadURL: downloadURL}, nil
}

package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
)

type LicenseAuditRepository interface {
	Append(ctx context.Context, tx *gorm.DB, record *model.LicenseAudit) error
	FindByUser(ctx context.Context, userID string) ([]*model.LicenseAudit, error)
}

type licenseAuditRepoImpl struct {
	db *gorm.DB
}

func NewLicenseAuditRepository(db *gorm.DB) LicenseAuditRepository {
	return &licenseAuditRepoImpl{
		db: db,
	}
}

func (r *licenseAuditRepoImpl) Append(ctx context.Context, tx *gorm.DB, record *model.LicenseAudit) error {
	return tx.WithContext(ctx).Create(record).Error
}

func (r *licenseAuditRepoImpl) FindByUser(ctx context.Context, userID string) ([]*model.LicenseAudit, error) {
	var records []*model.LicenseAudit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&records).
		Error

	if err != nil {
		return nil, err
	}

	return records, nil
}

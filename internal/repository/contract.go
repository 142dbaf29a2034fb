package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
)

type ContractRepository interface {
	FindActiveByOwner(ctx context.Context, ownerID string) ([]*model.Contract, error)
	FindByIDAndOwner(ctx context.Context, contractID, ownerID string) (*model.Contract, error)
}

type contractRepoImpl struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepoImpl{
		db: db,
	}
}

func (r *contractRepoImpl) FindActiveByOwner(ctx context.Context, ownerID string) ([]*model.Contract, error) {
	var contracts []*model.Contract
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Where("status = ?", model.ContractStatusActive).
		Order("created_at").
		Find(&contracts).
		Error

	if err != nil {
		return nil, err
	}

	return contracts, nil
}

func (r *contractRepoImpl) FindByIDAndOwner(ctx context.Context, contractID, ownerID string) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Where("id = ?", contractID).
		Where("owner_id = ?", ownerID).
		First(&contract).
		Error

	if err != nil {
		return nil, err
	}

	return &contract, nil
}

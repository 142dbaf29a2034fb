package repository

import (
	"context"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlanRepository interface {
	Seed(ctx context.Context) error
	FindByName(ctx context.Context, name string) (*model.Plan, error)
	FindActive(ctx context.Context) ([]*model.Plan, error)
}

type planRepoImpl struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepoImpl{
		db: db,
	}
}

func (r *planRepoImpl) Seed(ctx context.Context) error {
	plans := []model.Plan{
		{ID: "plan_mensal", Name: "Mensal", PriceCents: 4990, Currency: "BRL", DaysDuration: 30, Active: true},
		{ID: "plan_semestral", Name: "Semestral", PriceCents: 26990, Currency: "BRL", DaysDuration: 180, Active: true},
		{ID: "plan_anual", Name: "Anual", PriceCents: 47990, Currency: "BRL", DaysDuration: 365, Active: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error
}

func (r *planRepoImpl) FindByName(ctx context.Context, name string) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Where("active = ?", true).
		First(&plan).
		Error

	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (r *planRepoImpl) FindActive(ctx context.Context) ([]*model.Plan, error) {
	var plans []*model.Plan
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Find(&plans).
		Error

	if err != nil {
		return nil, err
	}

	return plans, nil
}

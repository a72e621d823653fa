package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"koelnr-payments/internal/model"
)

type CatalogRepository interface {
	Seed(ctx context.Context) error
	FindPrice(ctx context.Context, name string, vehicle model.VehicleType) (*model.ServicePrice, error)
	GetByCategory(ctx context.Context, category model.OrderType, vehicle model.VehicleType) ([]*model.ServicePrice, error)
}

type catalogRepoImpl struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepoImpl{
		db: db,
	}
}

func (r *catalogRepoImpl) Seed(ctx context.Context) error {
	prices := []model.ServicePrice{
		// Monthly subscription plans
		{Name: "Smart 3D", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeSubscription, Price: 2499},
		{Name: "Smart 3D", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeSubscription, Price: 2899},
		{Name: "Pro 6D", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeSubscription, Price: 4999},
		{Name: "Pro 6D", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeSubscription, Price: 5699},
		{Name: "Elite 6D", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeSubscription, Price: 6999},
		{Name: "Elite 6D", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeSubscription, Price: 7999},

		// On-demand washes
		{Name: "Basic Exterior (low-water)", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 299},
		{Name: "Basic Exterior (low-water)", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 349},
		{Name: "Foam Exterior", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 399},
		{Name: "Foam Exterior", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 449},
		{Name: "Pressure Wash + Dry", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 549},
		{Name: "Pressure Wash + Dry", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 649},
		{Name: "Interior Refresh", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 249},
		{Name: "Interior Refresh", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 299},
		{Name: "Deep Interior", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 1199},
		{Name: "Deep Interior", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 1399},
		{Name: "Foam + Interior Refresh", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 599},
		{Name: "Foam + Interior Refresh", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 699},
		{Name: "Pressure + Interior Refresh", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeOnDemand, Price: 749},
		{Name: "Pressure + Interior Refresh", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeOnDemand, Price: 899},

		// Subscriber add-ons
		{Name: "Extra Pressure Wash", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeAddon, Price: 399},
		{Name: "Extra Pressure Wash", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeAddon, Price: 449},
		{Name: "Extra Interior Refresh", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeAddon, Price: 249},
		{Name: "Extra Interior Refresh", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeAddon, Price: 299},
		{Name: "Tyre Dressing / Polish Finish", VehicleType: model.VehicleHatchSedan, Category: model.OrderTypeAddon, Price: 199},
		{Name: "Tyre Dressing / Polish Finish", VehicleType: model.VehicleSuvMuv, Category: model.OrderTypeAddon, Price: 199},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&prices).Error
}

func (r *catalogRepoImpl) FindPrice(ctx context.Context, name string, vehicle model.VehicleType) (*model.ServicePrice, error) {
	var price model.ServicePrice
	err := r.db.WithContext(ctx).
		Where("name = ? AND vehicle_type = ?", name, vehicle).
		First(&price).Error

	if err != nil {
		return nil, err
	}

	return &price, nil
}

func (r *catalogRepoImpl) GetByCategory(ctx context.Context, category model.OrderType, vehicle model.VehicleType) ([]*model.ServicePrice, error) {
	var prices []*model.ServicePrice
	err := r.db.WithContext(ctx).
		Where("category = ? AND vehicle_type = ?", category, vehicle).
		Find(&prices).Error

	if err != nil {
		return nil, err
	}

	return prices, nil
}

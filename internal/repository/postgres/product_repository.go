package postgres

import (
	"context"

	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/internal/repository/contract"
	"ai-shopping-agent-be/internal/repository/specification"
	"ai-shopping-agent-be/pkg/catalog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

var _ contract.ProductRepository = &ProductRepositoryImpl{}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]catalog.Product, error) {
	var models []*model.Product
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	if len(specs) == 0 {
		query = specification.OrderBy{Field: "position"}.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]catalog.Product, len(models))
	for i, m := range models {
		out[i] = r.mapper.ModelToProduct(m)
	}
	return out, nil
}

func (r *ProductRepositoryImpl) ReplaceAll(ctx context.Context, products []catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		models := make([]*model.Product, len(products))
		for i, p := range products {
			models[i] = r.mapper.ProductToModel(p, i)
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(models, 100).Error
	})
}

func (r *ProductRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...).Count(&count).Error
	return count, err
}

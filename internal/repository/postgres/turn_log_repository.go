package postgres

import (
	"context"

	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/internal/repository/contract"
	"ai-shopping-agent-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TurnLogRepositoryImpl struct {
	db *gorm.DB
}

var _ contract.TurnLogRepository = &TurnLogRepositoryImpl{}

func NewTurnLogRepository(db *gorm.DB) contract.TurnLogRepository {
	return &TurnLogRepositoryImpl{db: db}
}

// Create ignores a duplicate id so redelivered events stay idempotent.
func (r *TurnLogRepositoryImpl) Create(ctx context.Context, log *model.TurnLog) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(log).Error
}

func (r *TurnLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TurnLog, error) {
	var logs []*model.TurnLog
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.TurnLog{}), specs...).Find(&logs).Error
	return logs, err
}

func (r *TurnLogRepositoryImpl) CountByIntent(ctx context.Context, specs ...specification.Specification) (map[string]int64, error) {
	var rows []struct {
		Intent string
		Total  int64
	}
	err := applySpecifications(r.db.WithContext(ctx).Model(&model.TurnLog{}), specs...).
		Select("intent, COUNT(*) AS total").
		Group("intent").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Intent] = row.Total
	}
	return out, nil
}

package contract

import (
	"context"

	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/internal/repository/specification"
)

type TurnLogRepository interface {
	Create(ctx context.Context, log *model.TurnLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*model.TurnLog, error)
	CountByIntent(ctx context.Context, specs ...specification.Specification) (map[string]int64, error)
}

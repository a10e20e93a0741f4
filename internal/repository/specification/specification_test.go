package specification_test

import (
	"testing"
	"time"

	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func dryRun(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestSpecificationsBuildSQL(t *testing.T) {
	db := dryRun(t)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	query := db.Model(&model.TurnLog{})
	for _, s := range []specification.Specification{
		specification.Filter("intent", "search"),
		specification.Since{Field: "occurred_at", At: since},
		specification.OrderBy{Field: "occurred_at", Desc: true},
		specification.Pagination{Limit: 20},
	} {
		query = s.Apply(query)
	}

	var logs []model.TurnLog
	stmt := query.Find(&logs).Statement
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `FROM "turn_logs"`)
	assert.Contains(t, sql, "intent = $1")
	assert.Contains(t, sql, "occurred_at >= $2")
	assert.Contains(t, sql, "ORDER BY occurred_at DESC")
	assert.Contains(t, sql, "LIMIT")
	assert.Equal(t, "search", stmt.Vars[0])
}

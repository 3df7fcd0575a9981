package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/entity"
	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
)

// newDryRunDB builds statements against the Postgres dialect without a server.
func newDryRunDB(t *testing.T) (*gorm.DB, func() *gorm.Statement) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=kiosk dbname=kiosk sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)

	var last *gorm.Statement
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		last = tx.Statement
	}))
	return db, func() *gorm.Statement { return last }
}

func Test_CatalogRepository_UpsertDiscountCodeKeepsInactiveFlag(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewCatalogRepository(db)

	require.NoError(t, repo.UpsertDiscountCode(context.Background(), &entity.DiscountCode{
		Code:    "OLD",
		Type:    enum.DiscountTypePercentage,
		Percent: 5,
		Active:  false,
	}))

	stmt := captured()
	require.NotNil(t, stmt)
	sql := stmt.SQL.String()
	assert.Contains(t, sql, `"active"="excluded"."active"`)
	assert.Contains(t, stmt.Vars, false)
	assert.NotContains(t, stmt.Vars, true)
}

func Test_CatalogRepository_UpsertDiscountCodeActivates(t *testing.T) {
	db, captured := newDryRunDB(t)
	repo := NewCatalogRepository(db)

	require.NoError(t, repo.UpsertDiscountCode(context.Background(), &entity.DiscountCode{
		Code:        "NEW",
		AmountCents: 150,
		Active:      true,
	}))

	stmt := captured()
	require.NotNil(t, stmt)
	assert.Contains(t, stmt.Vars, true)
}

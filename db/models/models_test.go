package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestInsertStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()

	tx := &Transaction{}
	assert.NoError(t, tx.BeforeAppendModel(ctx, (*bun.InsertQuery)(nil)))
	assert.False(t, tx.UpdatedAt.IsZero())
	assert.Equal(t, tx.CreatedAt, tx.UpdatedAt.Time)

	created := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	invoice := &Invoice{CreatedAt: created}
	assert.NoError(t, invoice.BeforeAppendModel(ctx, (*bun.InsertQuery)(nil)))
	assert.Equal(t, created, invoice.CreatedAt)
	assert.False(t, invoice.UpdatedAt.IsZero())
}

func TestUpdateStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()

	tx := &Transaction{}
	assert.NoError(t, tx.BeforeAppendModel(ctx, (*bun.UpdateQuery)(nil)))
	assert.False(t, tx.UpdatedAt.IsZero())
	assert.True(t, tx.CreatedAt.IsZero())

	invoice := &Invoice{}
	assert.NoError(t, invoice.BeforeAppendModel(ctx, (*bun.SelectQuery)(nil)))
	assert.True(t, invoice.UpdatedAt.IsZero())
}

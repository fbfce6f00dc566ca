package handler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sunatstock/internal/api"
	"sunatstock/internal/database/dbtest"
	"sunatstock/internal/database/models"
)

var testNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestHandler(t *testing.T, opts ...Option) (*InventoryHandler, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	opts = append([]Option{
		WithLocation(time.UTC),
		WithClock(func() time.Time { return testNow }),
	}, opts...)
	return NewInventoryHandler(db, nil, zerolog.Nop(), opts...), db
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func mustCreateItem(t *testing.T, h *InventoryHandler, name string, stock, threshold int32) *api.MedicalItem {
	t.Helper()
	item, err := h.CreateMedicalItem(context.Background(), api.CreateMedicalItemRequest{
		Name:             name,
		Category:         models.CategoryHabisPakai,
		Unit:             "pcs",
		CurrentStock:     stock,
		MinimumThreshold: threshold,
	})
	if err != nil {
		t.Fatalf("create item %s: %v", name, err)
	}
	return item
}

func loadItem(t *testing.T, db *gorm.DB, id int64) models.MedicalItem {
	t.Helper()
	var item models.MedicalItem
	if err := db.First(&item, id).Error; err != nil {
		t.Fatalf("load item %d: %v", id, err)
	}
	return item
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func ledgerFor(t *testing.T, db *gorm.DB, itemID int64) []models.StockTransaction {
	t.Helper()
	var rows []models.StockTransaction
	if err := db.Where("item_id = ?", itemID).Order("id ASC").Find(&rows).Error; err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	return rows
}

package handler

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"sunatstock/internal/api"
	"sunatstock/internal/database/models"
)

// RestockItem adds stock and records a purchase in the ledger. It returns
// (nil, nil) when the item does not exist. A nil purchase price leaves the
// stored price untouched.
func (s *InventoryHandler) RestockItem(ctx context.Context, req api.RestockItemRequest) (*api.MedicalItem, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, s.fail("RestockItem", err)
	}

	var item models.MedicalItem
	found := true

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockItems(tx).First(&item, req.ItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		if item.CurrentStock > math.MaxInt32-req.Quantity {
			return invalid("restock of %d would exceed the maximum stock of %d for %s (current: %d)",
				req.Quantity, math.MaxInt32, item.Name, item.CurrentStock)
		}

		now := s.now().UTC()
		newStock := item.CurrentStock + req.Quantity

		updates := map[string]interface{}{
			"current_stock": newStock,
			"updated_at":    now,
		}
		if req.PurchasePrice != nil {
			item.PurchasePrice = priceFromFloat(req.PurchasePrice)
			updates["purchase_price"] = item.PurchasePrice
		}

		if err := tx.Model(&models.MedicalItem{}).Where("id = ?", item.ID).Updates(updates).Error; err != nil {
			return err
		}
		item.CurrentStock = newStock
		item.UpdatedAt = now

		movement := models.StockTransaction{
			ItemID:          item.ID,
			TransactionType: models.TransactionPurchase,
			Quantity:        req.Quantity,
			RemainingStock:  newStock,
			Notes:           req.Notes,
			TransactionDate: now,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, s.fail("RestockItem", err)
	}
	if !found {
		return nil, nil
	}

	s.InvalidateInventoryCaches(ctx)
	restocksTotal.WithLabelValues(item.Category).Add(float64(req.Quantity))

	out := itemToAPI(item)
	return &out, nil
}

// GetStockHistory returns the item's ledger, newest first.
func (s *InventoryHandler) GetStockHistory(ctx context.Context, itemID int64) ([]api.StockTransaction, error) {
	if itemID <= 0 {
		return nil, s.fail("GetStockHistory", invalid("item_id must be provided"))
	}

	var movements []models.StockTransaction
	err := s.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("transaction_date DESC").Order("id DESC").
		Find(&movements).Error
	if err != nil {
		return nil, s.fail("GetStockHistory", err)
	}

	out := make([]api.StockTransaction, 0, len(movements))
	for _, m := range movements {
		out = append(out, transactionToAPI(m))
	}
	return out, nil
}

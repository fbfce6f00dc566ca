package handler

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"sunatstock/internal/api"
	"sunatstock/internal/database/models"
	"sunatstock/internal/stock"
)

// -- Medical Items --

// CreateMedicalItem inserts the item and, when it starts with stock, the
// matching adjustment ledger row, in one transaction.
func (s *InventoryHandler) CreateMedicalItem(ctx context.Context, req api.CreateMedicalItemRequest) (*api.MedicalItem, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, s.fail("CreateMedicalItem", err)
	}

	item := models.MedicalItem{
		Name:             req.Name,
		Category:         req.Category,
		Unit:             req.Unit,
		CurrentStock:     req.CurrentStock,
		MinimumThreshold: req.MinimumThreshold,
		PurchasePrice:    priceFromFloat(req.PurchasePrice),
		ImagePath:        req.ImagePath,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&item).Error; err != nil {
			return err
		}

		if item.CurrentStock > 0 {
			note := initialStockNote
			movement := models.StockTransaction{
				ItemID:          item.ID,
				TransactionType: models.TransactionAdjustment,
				Quantity:        item.CurrentStock,
				RemainingStock:  item.CurrentStock,
				Notes:           &note,
				TransactionDate: s.now().UTC(),
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("CreateMedicalItem", err)
	}

	s.InvalidateInventoryCaches(ctx)

	out := itemToAPI(item)
	return &out, nil
}

// UpdateMedicalItem applies only the fields present in req. It returns
// (nil, nil) when the item does not exist.
func (s *InventoryHandler) UpdateMedicalItem(ctx context.Context, req api.UpdateMedicalItemRequest) (*api.MedicalItem, error) {
	updates, err := updateFields(req)
	if err != nil {
		return nil, s.fail("UpdateMedicalItem", err)
	}
	updates["updated_at"] = s.now().UTC()

	var item models.MedicalItem
	found := true
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.MedicalItem{}).Where("id = ?", req.ID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			found = false
			return nil
		}
		return tx.First(&item, req.ID).Error
	})
	if err != nil {
		return nil, s.fail("UpdateMedicalItem", err)
	}
	if !found {
		return nil, nil
	}

	s.InvalidateInventoryCaches(ctx)

	out := itemToAPI(item)
	return &out, nil
}

func updateFields(req api.UpdateMedicalItemRequest) (map[string]interface{}, error) {
	if req.ID <= 0 {
		return nil, invalid("id must be provided")
	}

	updates := map[string]interface{}{}

	if req.Name.Set {
		if !req.Name.Valid || req.Name.Value == "" {
			return nil, invalid("name must not be empty")
		}
		updates["name"] = req.Name.Value
	}
	if req.Category.Set {
		if !req.Category.Valid || !validCategory(req.Category.Value) {
			return nil, invalid("category must be one of alat, obat, habis_pakai")
		}
		updates["category"] = req.Category.Value
	}
	if req.Unit.Set {
		if !req.Unit.Valid || req.Unit.Value == "" {
			return nil, invalid("unit must not be empty")
		}
		updates["unit"] = req.Unit.Value
	}
	if req.MinimumThreshold.Set {
		if !req.MinimumThreshold.Valid || req.MinimumThreshold.Value < 0 {
			return nil, invalid("minimum_threshold must be a non-negative integer")
		}
		updates["minimum_threshold"] = req.MinimumThreshold.Value
	}
	if req.PurchasePrice.Set {
		if req.PurchasePrice.Valid && req.PurchasePrice.Value <= 0 {
			return nil, invalid("purchase_price must be positive")
		}
		updates["purchase_price"] = priceFromFloat(req.PurchasePrice.Ptr())
	}
	if req.ImagePath.Set {
		updates["image_path"] = req.ImagePath.Ptr()
	}

	return updates, nil
}

func validCategory(c string) bool {
	switch c {
	case models.CategoryAlat, models.CategoryObat, models.CategoryHabisPakai:
		return true
	}
	return false
}

// GetMedicalItems lists items matching filter. A nil or empty filter lists
// everything and is served from cache when possible.
func (s *InventoryHandler) GetMedicalItems(ctx context.Context, filter *api.StockFilter) ([]api.MedicalItem, error) {
	if filter == nil {
		filter = &api.StockFilter{}
	}
	if err := s.validateRequest(filter); err != nil {
		return nil, s.fail("GetMedicalItems", err)
	}

	search := strings.TrimSpace(filter.Search)
	unfiltered := filter.Category == "" && filter.Status == "" && search == ""

	if unfiltered {
		var cached []api.MedicalItem
		if s.cacheGet(ctx, ITEMS_CACHE_KEY, &cached) {
			return cached, nil
		}
	}

	query := s.db.WithContext(ctx).Model(&models.MedicalItem{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = stock.StatusCondition(query, stock.Status(filter.Status))
	}
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	var items []models.MedicalItem
	if err := query.Order("name ASC").Order("id ASC").Find(&items).Error; err != nil {
		return nil, s.fail("GetMedicalItems", err)
	}

	out := itemsToAPI(items)
	if unfiltered {
		s.cacheSet(ctx, ITEMS_CACHE_KEY, out)
	}
	return out, nil
}

// GetLowStockItems returns items at or below their threshold, plus anything
// out of stock.
func (s *InventoryHandler) GetLowStockItems(ctx context.Context) ([]api.MedicalItem, error) {
	var items []models.MedicalItem
	err := s.db.WithContext(ctx).
		Where("current_stock <= minimum_threshold OR current_stock <= 0").
		Order("current_stock ASC").Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, s.fail("GetLowStockItems", err)
	}
	return itemsToAPI(items), nil
}

// GetMedicalItem loads one item; (nil, nil) when absent.
func (s *InventoryHandler) GetMedicalItem(ctx context.Context, id int64) (*api.MedicalItem, error) {
	var item models.MedicalItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.fail("GetMedicalItem", err)
	}
	out := itemToAPI(item)
	return &out, nil
}

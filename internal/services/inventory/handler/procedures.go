package handler

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sunatstock/internal/api"
	"sunatstock/internal/database/models"
)

// CreateProcedure records a procedure and consumes every listed item in a
// single transaction. A missing item or a shortfall on any entry rolls back
// the procedure row and every stock change made for earlier entries.
// Entries are processed in order and duplicates are not merged.
func (s *InventoryHandler) CreateProcedure(ctx context.Context, req api.CreateProcedureRequest) (*api.CircumcisionProcedure, error) {
	if err := s.validateRequest(req); err != nil {
		procedureRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, s.fail("CreateProcedure", err)
	}

	procedure := models.CircumcisionProcedure{
		PatientName:   req.PatientName,
		ProcedureDate: req.ProcedureDate.UTC(),
		Notes:         req.Notes,
	}

	patient := unknownPatientName
	if req.PatientName != nil && *req.PatientName != "" {
		patient = *req.PatientName
	}
	note := fmt.Sprintf("Used in procedure for patient: %s", patient)

	consumed := make(map[string]int32)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&procedure).Error; err != nil {
			return err
		}

		for _, used := range req.ItemsUsed {
			var item models.MedicalItem
			if err := lockItems(tx).First(&item, used.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ItemNotFoundError{ItemID: used.ItemID}
				}
				return err
			}

			if item.CurrentStock < used.QuantityUsed {
				return &InsufficientStockError{
					ItemID:    item.ID,
					ItemName:  item.Name,
					Available: item.CurrentStock,
					Required:  used.QuantityUsed,
				}
			}

			newStock := item.CurrentStock - used.QuantityUsed

			if err := tx.Model(&models.MedicalItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
				"current_stock": newStock,
				"updated_at":    s.now().UTC(),
			}).Error; err != nil {
				return err
			}

			usage := models.ProcedureItemUsage{
				ProcedureID:  procedure.ID,
				ItemID:       item.ID,
				QuantityUsed: used.QuantityUsed,
			}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}

			movementNote := note
			movement := models.StockTransaction{
				ItemID:          item.ID,
				TransactionType: models.TransactionUsage,
				Quantity:        -used.QuantityUsed,
				RemainingStock:  newStock,
				Notes:           &movementNote,
				TransactionDate: procedure.ProcedureDate,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}

			consumed[item.Category] += used.QuantityUsed
		}
		return nil
	})
	if err != nil {
		procedureRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, s.fail("CreateProcedure", err)
	}

	s.InvalidateInventoryCaches(ctx)
	proceduresCreated.Inc()
	for category, qty := range consumed {
		itemsConsumed.WithLabelValues(category).Add(float64(qty))
	}

	s.log.Info().
		Int64("procedure_id", procedure.ID).
		Int("items", len(req.ItemsUsed)).
		Msg("procedure recorded")

	out := procedureToAPI(procedure)
	return &out, nil
}

// GetProcedures lists procedures by date, oldest first. A nil range lists all.
func (s *InventoryHandler) GetProcedures(ctx context.Context, dateRange *api.DateRange) ([]api.CircumcisionProcedure, error) {
	query := s.db.WithContext(ctx).Model(&models.CircumcisionProcedure{})
	if dateRange != nil {
		if err := s.checkDateRange(*dateRange); err != nil {
			return nil, s.fail("GetProcedures", err)
		}
		query = query.Where("procedure_date >= ? AND procedure_date <= ?",
			dateRange.StartDate.UTC(), dateRange.EndDate.UTC())
	}

	var procedures []models.CircumcisionProcedure
	if err := query.Order("procedure_date ASC").Order("id ASC").Find(&procedures).Error; err != nil {
		return nil, s.fail("GetProcedures", err)
	}

	out := make([]api.CircumcisionProcedure, 0, len(procedures))
	for _, p := range procedures {
		out = append(out, procedureToAPI(p))
	}
	return out, nil
}

func (s *InventoryHandler) checkDateRange(r api.DateRange) error {
	if err := s.validateRequest(r); err != nil {
		return err
	}
	if r.StartDate.After(r.EndDate) {
		return invalid("start_date must not be after end_date")
	}
	return nil
}

func rejectionReason(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *ItemNotFoundError
		stockErr      *InsufficientStockError
	)
	switch {
	case errors.As(err, &validationErr):
		return "invalid"
	case errors.As(err, &notFoundErr):
		return "item_not_found"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	}
	return "internal"
}

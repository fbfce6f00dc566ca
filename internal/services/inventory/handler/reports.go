package handler

import (
	"context"
	"time"

	"sunatstock/internal/api"
	"sunatstock/internal/database/models"
)

// -- Dashboard & Reports --

// GetDashboardStats counts items and procedures. Day and month windows are
// half-open, [start, next start), in the handler's time zone.
func (s *InventoryHandler) GetDashboardStats(ctx context.Context) (*api.DashboardStats, error) {
	cacheKey := s.dashboardCacheKey()
	var cached api.DashboardStats
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	db := s.db.WithContext(ctx)
	var stats api.DashboardStats

	if err := db.Model(&models.MedicalItem{}).Count(&stats.TotalItems).Error; err != nil {
		return nil, s.fail("GetDashboardStats", err)
	}

	if err := db.Model(&models.MedicalItem{}).
		Where("current_stock <= minimum_threshold").
		Count(&stats.CriticalItems).Error; err != nil {
		return nil, s.fail("GetDashboardStats", err)
	}

	today, tomorrow, monthStart, nextMonth := calendarBounds(s.now().In(s.loc))

	if err := db.Model(&models.CircumcisionProcedure{}).
		Where("procedure_date >= ? AND procedure_date < ?", today.UTC(), tomorrow.UTC()).
		Count(&stats.ProceduresToday).Error; err != nil {
		return nil, s.fail("GetDashboardStats", err)
	}

	if err := db.Model(&models.CircumcisionProcedure{}).
		Where("procedure_date >= ? AND procedure_date < ?", monthStart.UTC(), nextMonth.UTC()).
		Count(&stats.TotalProceduresThisMonth).Error; err != nil {
		return nil, s.fail("GetDashboardStats", err)
	}

	s.cacheSet(ctx, cacheKey, stats)
	return &stats, nil
}

func calendarBounds(now time.Time) (today, tomorrow, monthStart, nextMonth time.Time) {
	loc := now.Location()
	today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	tomorrow = today.AddDate(0, 0, 1)
	monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	nextMonth = monthStart.AddDate(0, 1, 0)
	return
}

// GetUsageReport sums quantity used per item over procedures dated within
// the inclusive range.
func (s *InventoryHandler) GetUsageReport(ctx context.Context, dateRange api.DateRange) ([]api.UsageReportItem, error) {
	if err := s.checkDateRange(dateRange); err != nil {
		return nil, s.fail("GetUsageReport", err)
	}

	var rows []api.UsageReportItem
	err := s.db.WithContext(ctx).
		Table("procedure_item_usage").
		Select("medical_items.id AS item_id, medical_items.name AS item_name, "+
			"SUM(procedure_item_usage.quantity_used) AS total_used, "+
			"medical_items.unit AS unit, medical_items.category AS category").
		Joins("JOIN medical_items ON medical_items.id = procedure_item_usage.item_id").
		Joins("JOIN circumcision_procedures ON circumcision_procedures.id = procedure_item_usage.procedure_id").
		Where("circumcision_procedures.procedure_date >= ? AND circumcision_procedures.procedure_date <= ?",
			dateRange.StartDate.UTC(), dateRange.EndDate.UTC()).
		Group("medical_items.id, medical_items.name, medical_items.unit, medical_items.category").
		Order("medical_items.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("GetUsageReport", err)
	}

	if rows == nil {
		rows = []api.UsageReportItem{}
	}
	return rows, nil
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sunatstock/internal/api"
	"sunatstock/internal/database"
	"sunatstock/internal/database/models"
	"sunatstock/internal/stock"
)

const (
	INVENTORY_CACHE_PREFIX = "sunatstock:"
	ITEMS_CACHE_KEY        = "sunatstock:items"
	DASHBOARD_CACHE_KEY    = "sunatstock:dashboard"
	CACHE_TTL_SHORT        = 5 * time.Minute
)

const (
	initialStockNote   = "Initial stock entry"
	unknownPatientName = "Unknown"
)

// --- Handler ---

type InventoryHandler struct {
	db       *gorm.DB
	redis    *redis.Client
	log      zerolog.Logger
	validate *validator.Validate
	loc      *time.Location
	now      func() time.Time
}

type Option func(*InventoryHandler)

// WithLocation sets the time zone used for calendar boundaries in the dashboard.
func WithLocation(loc *time.Location) Option {
	return func(h *InventoryHandler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *InventoryHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewInventoryHandler wires the handler to its datastore. redisClient may be
// nil, which disables caching.
func NewInventoryHandler(db *gorm.DB, redisClient *redis.Client, logger zerolog.Logger, opts ...Option) *InventoryHandler {
	h := &InventoryHandler{
		db:       db,
		redis:    redisClient,
		log:      logger,
		validate: validator.New(),
		loc:      time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (s *InventoryHandler) InvalidateInventoryCaches(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, ITEMS_CACHE_KEY, s.dashboardCacheKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate inventory caches")
	}
}

// dashboardCacheKey is scoped to the local date so day and month counts
// never outlive their calendar window.
func (s *InventoryHandler) dashboardCacheKey() string {
	return DASHBOARD_CACHE_KEY + ":" + s.now().In(s.loc).Format("2006-01-02")
}

func (s *InventoryHandler) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.redis == nil {
		return false
	}
	val, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("redis GET failed, falling back to DB")
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding unreadable cache entry")
		return false
	}
	return true
}

func (s *InventoryHandler) cacheSet(ctx context.Context, key string, v interface{}) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, CACHE_TTL_SHORT).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to set cache")
	}
}

// fail logs err the way its kind deserves and hands it back unchanged.
func (s *InventoryHandler) fail(op string, err error) error {
	var (
		validationErr *ValidationError
		notFoundErr   *ItemNotFoundError
		stockErr      *InsufficientStockError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &notFoundErr), errors.As(err, &stockErr):
		s.log.Warn().Err(err).Str("op", op).Msg("request rejected")
	default:
		s.log.Error().Err(err).Str("op", op).Msg("operation failed")
	}
	return err
}

func (s *InventoryHandler) validateRequest(req interface{}) error {
	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return newValidationError(fieldErrs)
		}
		return err
	}
	return nil
}

// lockItems takes a row lock on postgres. SQLite serializes writers itself.
func lockItems(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == database.DriverPostgres {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// --- Conversions ---

func priceFromFloat(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromFloat(*f).Round(2))
}

func priceToFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}

func itemToAPI(item models.MedicalItem) api.MedicalItem {
	return api.MedicalItem{
		ID:               item.ID,
		Name:             item.Name,
		Category:         item.Category,
		Unit:             item.Unit,
		CurrentStock:     item.CurrentStock,
		MinimumThreshold: item.MinimumThreshold,
		PurchasePrice:    priceToFloat(item.PurchasePrice),
		ImagePath:        item.ImagePath,
		Status:           string(stock.StatusOf(item.CurrentStock, item.MinimumThreshold)),
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

func itemsToAPI(items []models.MedicalItem) []api.MedicalItem {
	out := make([]api.MedicalItem, 0, len(items))
	for _, item := range items {
		out = append(out, itemToAPI(item))
	}
	return out
}

func transactionToAPI(t models.StockTransaction) api.StockTransaction {
	return api.StockTransaction{
		ID:              t.ID,
		ItemID:          t.ItemID,
		TransactionType: t.TransactionType,
		Quantity:        t.Quantity,
		RemainingStock:  t.RemainingStock,
		Notes:           t.Notes,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

func procedureToAPI(p models.CircumcisionProcedure) api.CircumcisionProcedure {
	return api.CircumcisionProcedure{
		ID:            p.ID,
		PatientName:   p.PatientName,
		ProcedureDate: p.ProcedureDate,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}
}

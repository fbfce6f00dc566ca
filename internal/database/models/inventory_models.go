package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryAlat       = "alat"
	CategoryObat       = "obat"
	CategoryHabisPakai = "habis_pakai"
)

const (
	TransactionPurchase   = "purchase"
	TransactionUsage      = "usage"
	TransactionAdjustment = "adjustment"
)

type MedicalItem struct {
	ID               int64               `gorm:"primaryKey;autoIncrement"`
	Name             string              `gorm:"type:text;not null"`
	Category         string              `gorm:"size:20;not null;index"`
	Unit             string              `gorm:"size:50;not null"`
	CurrentStock     int32               `gorm:"not null;default:0;check:current_stock >= 0"`
	MinimumThreshold int32               `gorm:"not null;default:0"`
	PurchasePrice    decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	ImagePath        *string             `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StockTransaction is an append-only ledger row. RemainingStock is the
// item's stock after Quantity was applied.
type StockTransaction struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	ItemID          int64     `gorm:"not null;index"`
	TransactionType string    `gorm:"size:20;not null"`
	Quantity        int32     `gorm:"not null"`
	RemainingStock  int32     `gorm:"not null"`
	Notes           *string   `gorm:"type:text"`
	TransactionDate time.Time `gorm:"not null;index"`
	CreatedAt       time.Time

	Item *MedicalItem `gorm:"foreignKey:ItemID"`
}

type CircumcisionProcedure struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	PatientName   *string   `gorm:"type:text"`
	ProcedureDate time.Time `gorm:"not null;index"`
	Notes         *string   `gorm:"type:text"`
	CreatedAt     time.Time
}

type ProcedureItemUsage struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	ProcedureID  int64 `gorm:"not null;index"`
	ItemID       int64 `gorm:"not null;index"`
	QuantityUsed int32 `gorm:"not null"`
	CreatedAt    time.Time

	Procedure *CircumcisionProcedure `gorm:"foreignKey:ProcedureID"`
	Item      *MedicalItem           `gorm:"foreignKey:ItemID"`
}

func (ProcedureItemUsage) TableName() string {
	return "procedure_item_usage"
}

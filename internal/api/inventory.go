// Package api holds the request and response messages exchanged between the
// inventory handler, the gRPC services and the HTTP gateway.
package api

import "time"

type MedicalItem struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Unit             string    `json:"unit"`
	CurrentStock     int32     `json:"current_stock"`
	MinimumThreshold int32     `json:"minimum_threshold"`
	PurchasePrice    *float64  `json:"purchase_price"`
	ImagePath        *string   `json:"image_path"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type StockTransaction struct {
	ID              int64     `json:"id"`
	ItemID          int64     `json:"item_id"`
	TransactionType string    `json:"transaction_type"`
	Quantity        int32     `json:"quantity"`
	RemainingStock  int32     `json:"remaining_stock"`
	Notes           *string   `json:"notes"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

type CircumcisionProcedure struct {
	ID            int64     `json:"id"`
	PatientName   *string   `json:"patient_name"`
	ProcedureDate time.Time `json:"procedure_date"`
	Notes         *string   `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateMedicalItemRequest struct {
	Name             string   `json:"name" validate:"required,min=1"`
	Category         string   `json:"category" validate:"required,oneof=alat obat habis_pakai"`
	Unit             string   `json:"unit" validate:"required,min=1"`
	CurrentStock     int32    `json:"current_stock" validate:"gte=0"`
	MinimumThreshold int32    `json:"minimum_threshold" validate:"gte=0"`
	PurchasePrice    *float64 `json:"purchase_price" validate:"omitnil,gt=0"`
	ImagePath        *string  `json:"image_path"`
}

// UpdateMedicalItemRequest changes only the fields that are Set.
type UpdateMedicalItemRequest struct {
	ID               int64             `json:"id"`
	Name             Optional[string]  `json:"name,omitzero"`
	Category         Optional[string]  `json:"category,omitzero"`
	Unit             Optional[string]  `json:"unit,omitzero"`
	MinimumThreshold Optional[int32]   `json:"minimum_threshold,omitzero"`
	PurchasePrice    Optional[float64] `json:"purchase_price,omitzero"`
	ImagePath        Optional[string]  `json:"image_path,omitzero"`
}

type RestockItemRequest struct {
	ItemID        int64    `json:"item_id" validate:"required,gt=0"`
	Quantity      int32    `json:"quantity" validate:"required,gt=0"`
	PurchasePrice *float64 `json:"purchase_price" validate:"omitnil,gt=0"`
	Notes         *string  `json:"notes"`
}

type ProcedureItem struct {
	ItemID       int64 `json:"item_id" validate:"required,gt=0"`
	QuantityUsed int32 `json:"quantity_used" validate:"required,gt=0"`
}

type CreateProcedureRequest struct {
	PatientName   *string         `json:"patient_name"`
	ProcedureDate time.Time       `json:"procedure_date" validate:"required"`
	Notes         *string         `json:"notes"`
	ItemsUsed     []ProcedureItem `json:"items_used" validate:"dive"`
}

type StockFilter struct {
	Category string `json:"category,omitempty" validate:"omitempty,oneof=alat obat habis_pakai"`
	Status   string `json:"status,omitempty" validate:"omitempty,oneof=cukup hampir_habis kosong"`
	Search   string `json:"search,omitempty"`
}

// DateRange bounds are inclusive.
type DateRange struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type DashboardStats struct {
	TotalItems               int64 `json:"total_items"`
	CriticalItems            int64 `json:"critical_items"`
	ProceduresToday          int64 `json:"procedures_today"`
	TotalProceduresThisMonth int64 `json:"total_procedures_this_month"`
}

type UsageReportItem struct {
	ItemID    int64  `json:"item_id"`
	ItemName  string `json:"item_name"`
	TotalUsed int64  `json:"total_used"`
	Unit      string `json:"unit"`
	Category  string `json:"category"`
}

// Envelopes for RPC payloads that are not a single object.

type ItemRequest struct {
	ID int64 `json:"id"`
}

type ItemResponse struct {
	Item *MedicalItem `json:"item"`
}

type ItemsResponse struct {
	Items []MedicalItem `json:"items"`
}

type StockHistoryRequest struct {
	ItemID int64 `json:"item_id" validate:"required,gt=0"`
}

type StockHistoryResponse struct {
	Transactions []StockTransaction `json:"transactions"`
}

type ProceduresRequest struct {
	DateRange *DateRange `json:"date_range,omitempty"`
}

type ProceduresResponse struct {
	Procedures []CircumcisionProcedure `json:"procedures"`
}

type UsageReportResponse struct {
	Items []UsageReportItem `json:"items"`
}

type Empty struct{}

package stock

import "gorm.io/gorm"

// Status is the derived stock level of an item.
type Status string

const (
	StatusCukup       Status = "cukup"
	StatusHampirHabis Status = "hampir_habis"
	StatusKosong      Status = "kosong"
)

// StatusOf classifies current stock against the minimum threshold.
// Stock equal to the threshold counts as hampir_habis.
func StatusOf(currentStock, minimumThreshold int32) Status {
	if currentStock == 0 {
		return StatusKosong
	}
	if currentStock <= minimumThreshold {
		return StatusHampirHabis
	}
	return StatusCukup
}

func (s Status) Valid() bool {
	switch s {
	case StatusCukup, StatusHampirHabis, StatusKosong:
		return true
	}
	return false
}

// StatusCondition narrows a medical_items query to rows whose StatusOf equals s.
func StatusCondition(db *gorm.DB, s Status) *gorm.DB {
	switch s {
	case StatusKosong:
		return db.Where("current_stock = 0")
	case StatusHampirHabis:
		return db.Where("current_stock > 0 AND current_stock <= minimum_threshold")
	case StatusCukup:
		return db.Where("current_stock > 0 AND current_stock > minimum_threshold")
	}
	return db
}

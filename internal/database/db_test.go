package database_test

import (
	"errors"
	"testing"

	"sunatstock/internal/database"
	"sunatstock/internal/database/dbtest"
	"sunatstock/internal/database/models"
)

func TestNewConnectionRequiresDSN(t *testing.T) {
	_, err := database.NewConnection(database.DriverSQLite, "")
	if !errors.Is(err, database.ErrEmptyDSN) {
		t.Fatalf("expected ErrEmptyDSN, got %v", err)
	}
}

func TestNewConnectionRejectsUnknownDriver(t *testing.T) {
	if _, err := database.NewConnection("mysql", "root@/db"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrateCreatesTables(t *testing.T) {
	db := dbtest.Open(t)

	for _, table := range []string{
		"medical_items",
		"stock_transactions",
		"circumcision_procedures",
		"procedure_item_usage",
		"users",
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("expected table %s to exist", table)
		}
	}

	if !db.Migrator().HasColumn(&models.MedicalItem{}, "purchase_price") {
		t.Error("expected medical_items.purchase_price column")
	}
}

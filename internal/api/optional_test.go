package api

import (
	"encoding/json"
	"testing"
)

func TestOptionalUnmarshalDistinguishesAbsentNullAndValue(t *testing.T) {
	var absent, null, value UpdateMedicalItemRequest

	if err := json.Unmarshal([]byte(`{"id": 1}`), &absent); err != nil {
		t.Fatalf("unmarshal absent: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id": 1, "purchase_price": null}`), &null); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if err := json.Unmarshal([]byte(`{"id": 1, "purchase_price": 12.5}`), &value); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}

	if absent.PurchasePrice.Set {
		t.Error("absent field should not be Set")
	}
	if !null.PurchasePrice.Set || null.PurchasePrice.Valid {
		t.Errorf("null field: got Set=%v Valid=%v", null.PurchasePrice.Set, null.PurchasePrice.Valid)
	}
	if !value.PurchasePrice.Set || !value.PurchasePrice.Valid || value.PurchasePrice.Value != 12.5 {
		t.Errorf("value field: got %+v", value.PurchasePrice)
	}
}

func TestOptionalMarshalOmitsUnsetFields(t *testing.T) {
	req := UpdateMedicalItemRequest{
		ID:            7,
		Name:          Some("Kasa steril"),
		PurchasePrice: Null[float64](),
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if _, ok := raw["unit"]; ok {
		t.Error("unset field unit should be omitted")
	}
	if string(raw["purchase_price"]) != "null" {
		t.Errorf("purchase_price = %s, want null", raw["purchase_price"])
	}
	if string(raw["name"]) != `"Kasa steril"` {
		t.Errorf("name = %s", raw["name"])
	}

	var back UpdateMedicalItemRequest
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal back: %v", err)
	}
	if back.Unit.Set || !back.PurchasePrice.Set || back.PurchasePrice.Valid || back.Name.Value != "Kasa steril" {
		t.Errorf("unexpected decoded request: %+v", back)
	}
}

func TestOptionalPtr(t *testing.T) {
	if Null[string]().Ptr() != nil {
		t.Error("null Ptr should be nil")
	}
	if p := Some("x").Ptr(); p == nil || *p != "x" {
		t.Errorf("Some Ptr = %v", p)
	}
}

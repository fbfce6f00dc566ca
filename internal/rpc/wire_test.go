package rpc

import (
	"testing"
	"time"

	"sunatstock/internal/api"
)

func TestEncodeDecode_PreservesOptionalStates(t *testing.T) {
	in := api.UpdateMedicalItemRequest{
		ID:            4,
		Name:          api.Some("Kasa"),
		PurchasePrice: api.Null[float64](),
	}

	s, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, ok := s.Fields["unit"]; ok {
		t.Error("absent field must not be encoded")
	}

	var out api.UpdateMedicalItemRequest
	if err := Decode(s, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != 4 || out.Name != api.Some("Kasa") {
		t.Errorf("unexpected decode: %+v", out)
	}
	if !out.PurchasePrice.Set || out.PurchasePrice.Valid {
		t.Errorf("purchase_price should be explicit null, got %+v", out.PurchasePrice)
	}
	if out.Unit.Set {
		t.Error("unit should stay absent")
	}
}

func TestEncodeDecode_Times(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	in := api.DateRange{StartDate: start, EndDate: start.AddDate(0, 1, 0)}

	s, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var out api.DateRange
	if err := Decode(s, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !out.StartDate.Equal(in.StartDate) || !out.EndDate.Equal(in.EndDate) {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestDecode_NilStruct(t *testing.T) {
	var out api.ItemResponse
	if err := Decode(nil, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Item != nil {
		t.Error("expected nil item")
	}
}

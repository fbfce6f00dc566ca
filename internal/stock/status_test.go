package stock

import "testing"

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name      string
		stock     int32
		threshold int32
		want      Status
	}{
		{"empty", 0, 5, StatusKosong},
		{"empty with zero threshold", 0, 0, StatusKosong},
		{"below threshold", 3, 5, StatusHampirHabis},
		{"equal to threshold", 10, 10, StatusHampirHabis},
		{"one above threshold", 11, 10, StatusCukup},
		{"zero threshold", 1, 0, StatusCukup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.stock, tt.threshold); got != tt.want {
				t.Errorf("StatusOf(%d, %d) = %q, want %q", tt.stock, tt.threshold, got, tt.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusCukup, StatusHampirHabis, StatusKosong} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Status("habis").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

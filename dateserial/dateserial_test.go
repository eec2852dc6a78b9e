package dateserial

import (
	"testing"
	"time"
)

func TestSerial60IsPhantomLeapDay(t *testing.T) {
	d, err := FromSerial(60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Year() != 1900 || d.Month() != time.February || d.Day() != 28 {
		t.Fatalf("serial 60 = %v, want 1900-02-28", d)
	}
}

func TestRoundTripAfterPhantomLeapDay(t *testing.T) {
	d := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	serial := ToSerial(d)
	if serial != 45458 {
		t.Fatalf("ToSerial(2024-06-15) = %v, want 45458", serial)
	}
	back, err := FromSerial(serial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: got %v, want %v", back, d)
	}
}

func TestFromSerialRejectsBelowOne(t *testing.T) {
	if _, err := FromSerial(0); err == nil {
		t.Fatal("expected error for serial 0")
	}
	if _, err := FromSerial(-5); err == nil {
		t.Fatal("expected error for negative serial")
	}
}

func TestIsDateFormat(t *testing.T) {
	cases := []struct {
		id   int
		code string
		want bool
	}{
		{14, "", true},
		{22, "", true},
		{45, "", true},
		{0, "", false},
		{164, `yyyy-mm-dd`, true},
		{164, `h:mm:ss`, true},
		{164, `0.00%`, false},
		{164, `"m" 0`, false}, // quoted literal, not a real month token
	}
	for _, c := range cases {
		if got := IsDateFormat(c.id, c.code); got != c.want {
			t.Errorf("IsDateFormat(%d, %q) = %v, want %v", c.id, c.code, got, c.want)
		}
	}
}

package cellref

import "testing"

func TestColumnRoundTrip(t *testing.T) {
	for n := 1; n <= MaxColumn; n += 37 {
		name, err := ColumnNumberToName(n)
		if err != nil {
			t.Fatalf("ColumnNumberToName(%d): %v", n, err)
		}
		got, err := ColumnNameToNumber(name)
		if err != nil {
			t.Fatalf("ColumnNameToNumber(%q): %v", name, err)
		}
		if got != n {
			t.Fatalf("round trip mismatch: %d -> %q -> %d", n, name, got)
		}
	}
}

func TestColumnNumberToNameKnown(t *testing.T) {
	cases := map[int]string{1: "A", 26: "Z", 27: "AA", 702: "ZZ", 703: "AAA", 16384: "XFD"}
	for n, want := range cases {
		got, err := ColumnNumberToName(n)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("ColumnNumberToName(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestColumnNumberToNameOutOfRange(t *testing.T) {
	if _, err := ColumnNumberToName(0); err == nil {
		t.Fatal("expected error for column 0")
	}
	if _, err := ColumnNumberToName(MaxColumn + 1); err == nil {
		t.Fatal("expected error for column beyond max")
	}
}

func TestCellRefRoundTrip(t *testing.T) {
	for col := 1; col <= 100; col++ {
		for row := 1; row <= 50; row++ {
			name, err := CoordinatesToCellName(col, row)
			if err != nil {
				t.Fatalf("CoordinatesToCellName(%d,%d): %v", col, row, err)
			}
			gc, gr, err := CellNameToCoordinates(name)
			if err != nil {
				t.Fatalf("CellNameToCoordinates(%q): %v", name, err)
			}
			if gc != col || gr != row {
				t.Fatalf("round trip mismatch for %q: got (%d,%d), want (%d,%d)", name, gc, gr, col, row)
			}
		}
	}
}

func TestParseRefAbsoluteAndSheet(t *testing.T) {
	r, err := ParseRef("'My Sheet'!$B$7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Sheet != "My Sheet" || r.Col != 2 || r.Row != 7 || !r.ColAbs || !r.RowAbs {
		t.Fatalf("unexpected parse result: %+v", r)
	}
	if got := r.String(); got != "'My Sheet'!$B$7" {
		t.Fatalf("String() = %q", got)
	}
}

func TestParseRefInvalid(t *testing.T) {
	cases := []string{"", "1A", "A", "A0", "A-1", "AB12CD"}
	for _, c := range cases {
		if _, err := ParseRef(c); err == nil {
			t.Errorf("expected error for %q", c)
		}
	}
}

func TestRangeOverlap(t *testing.T) {
	a, _ := ParseRange("A1:C3")
	b, _ := ParseRange("B2:D4")
	c, _ := ParseRange("D1:E2")
	if !a.Overlaps(b) {
		t.Error("expected A1:C3 to overlap B2:D4")
	}
	if a.Overlaps(c) {
		t.Error("expected A1:C3 to not overlap D1:E2")
	}
}

package worksheet

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/ooxml"
)

func TestSetAndGetCell(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.SetCell(1, 1, NumberValue(42), 0))
	c, ok := s.GetCell(1, 1)
	require.True(t, ok)
	require.Equal(t, 42.0, c.Value.Number)

	_, ok = s.GetCell(2, 1)
	require.False(t, ok)
}

func TestSetCellInvalidColumn(t *testing.T) {
	s := New("Sheet1")
	err := s.SetCell(0, 1, NumberValue(1), 0)
	require.Error(t, err)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, "InvalidColumnNumber", werr.Kind)
}

func TestMergeOverlapRejected(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.Merge("A1:C3"))
	err := s.Merge("B2:D4")
	require.Error(t, err)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, "MergeCellOverlap", werr.Kind)
}

func TestMergeNonOverlapping(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.Merge("A1:C3"))
	require.NoError(t, s.Merge("D1:E2"))
	require.Len(t, s.Merges, 2)
}

func TestColumnWidthExceeded(t *testing.T) {
	s := New("Sheet1")
	err := s.SetColumnWidth(1, 300)
	require.Error(t, err)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, "ColumnWidthExceeded", werr.Kind)
}

func TestRowHeightExceeded(t *testing.T) {
	s := New("Sheet1")
	err := s.SetRowHeight(1, 500)
	require.Error(t, err)
	var werr *Error
	require.ErrorAs(t, err, &werr)
	require.Equal(t, "RowHeightExceeded", werr.Kind)
}

func TestShiftReferencesBasic(t *testing.T) {
	got := ShiftReferences("SUM(A1:A4)+B2", func(ref Ref) (Ref, bool) {
		if ref.Row >= 2 {
			ref.Row++
			return ref, true
		}
		return ref, false
	})
	require.Equal(t, "SUM(A1:A5)+B3", got)
}

func TestShiftReferencesRespectsAbsoluteMarkers(t *testing.T) {
	got := ShiftReferences("$A$1+A1", func(ref Ref) (Ref, bool) {
		ref.Col++
		return ref, true
	})
	require.Equal(t, "$B$1+B1", got)
}

func TestShiftReferencesSheetPrefix(t *testing.T) {
	got := ShiftReferences("'My Sheet'!A1+Sheet2!B2", func(ref Ref) (Ref, bool) {
		if ref.Sheet == "My Sheet" {
			ref.Row += 10
			return ref, true
		}
		return ref, false
	})
	require.Equal(t, "'My Sheet'!A11+Sheet2!B2", got)
}

func TestShiftReferencesSkipsStringLiterals(t *testing.T) {
	got := ShiftReferences(`CONCAT("A1", B2)`, func(ref Ref) (Ref, bool) {
		ref.Row += 1
		return ref, true
	})
	require.Equal(t, `CONCAT("A1", B3)`, got)
}

func TestInsertRowsShiftsCellsAndFormulas(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.SetCell(1, 1, NumberValue(1), 0))
	require.NoError(t, s.SetCell(1, 5, FormulaValue("SUM(A1:A4)", nil), 0))

	s.InsertRows(3, 2)

	_, ok := s.GetCell(1, 3)
	require.False(t, ok)
	_, ok = s.GetCell(1, 1)
	require.True(t, ok)

	moved, ok := s.GetCell(1, 7)
	require.True(t, ok)
	require.Equal(t, "SUM(A1:A6)", moved.Value.FormulaText)
}

func TestDeleteRowsShiftsUp(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.SetCell(1, 10, NumberValue(99), 0))
	s.DeleteRows(2, 3)
	moved, ok := s.GetCell(1, 7)
	require.True(t, ok)
	require.Equal(t, 99.0, moved.Value.Number)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := New("Sheet1")
	require.NoError(t, s.SetCell(1, 1, InlineStringValue("hello"), 0))
	require.NoError(t, s.SetCell(2, 1, NumberValue(3.5), 0))
	require.NoError(t, s.SetCell(3, 1, BoolValue(true), 0))
	require.NoError(t, s.Merge("A1:B1"))

	doc, err := s.Encode()
	require.NoError(t, err)
	require.Equal(t, "A1:C1", doc.Dimension.Ref)

	back, err := Decode("Sheet1", doc, nil)
	require.NoError(t, err)

	c, ok := back.GetCell(1, 1)
	require.True(t, ok)
	require.Equal(t, "hello", c.Value.Text)

	c2, ok := back.GetCell(2, 1)
	require.True(t, ok)
	require.Equal(t, 3.5, c2.Value.Number)

	require.Len(t, back.Merges, 1)
	require.Equal(t, "A1:B1", back.Merges[0].Ref)
}

func TestDecodeClassifiesDateFromNumFmt(t *testing.T) {
	doc := &ooxml.Worksheet{
		SheetData: ooxml.SheetData{Row: []ooxml.Row{
			{R: 1, C: []ooxml.Cell{{R: "A1", S: 1, V: "45458"}}},
		}},
	}
	s, err := Decode("Sheet1", doc, func(styleIndex int) (int, string) {
		return 14, "mm-dd-yy"
	})
	require.NoError(t, err)
	c, ok := s.GetCell(1, 1)
	require.True(t, ok)
	require.Equal(t, KindDate, c.Value.Kind)
}

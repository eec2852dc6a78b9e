package worksheet

import (
	"sort"

	"github.com/gosheetkit/sheetkit/cellref"
)

const (
	maxColumnWidth  = 255.0
	maxRowHeight    = 409.0
	maxOutlineLevel = 7
)

// ColumnProps holds the per-column descriptors a <col> element carries.
type ColumnProps struct {
	Width        float64
	Hidden       bool
	OutlineLevel int
	StyleIndex   int
}

// Row is one sparse row record: its own formatting plus the cells it
// holds, keyed by column.
type Row struct {
	Cells        map[int]*Cell
	Height       float64
	CustomHeight bool
	Hidden       bool
	OutlineLevel int
	StyleIndex   int
}

func newRow() *Row {
	return &Row{Cells: map[int]*Cell{}}
}

// Sheet is a sparse (row,col)-addressed grid plus every piece of
// sheet-level metadata a worksheet part carries.
type Sheet struct {
	Name string

	rows    map[int]*Row
	Columns map[int]*ColumnProps

	Merges []MergeRegion

	AutoFilterRef   string
	DataValidations []DataValidation
	ConditionalFmts []ConditionalFormatting
	Hyperlinks      []Hyperlink
	Tables          []Table

	FrozenRows, FrozenCols int

	Protection *Protection

	// PreservedExt retains unrecognised <extLst> payload bytes verbatim.
	PreservedExt []byte

	// Comments and ThreadedComments retain this sheet's legacy
	// comments1.xml and modern threadedComments part as raw, unparsed
	// bytes ("" / nil if the sheet has neither), the same preserved-bytes
	// treatment PreservedExt gives <extLst>: this façade doesn't offer a
	// typed comment-authoring API, but a sheet that already has comments
	// keeps them across hydrate/encode/copy instead of silently losing
	// them.
	Comments         []byte
	ThreadedComments []byte

	// Drawings retains this sheet's drawing part (shape/position
	// anchors) as raw, unparsed bytes, nil if the sheet has none — the
	// same preserved-bytes treatment as Comments/ThreadedComments: no
	// typed shape-authoring API exists yet, but a sheet that already has
	// a drawing keeps it across hydrate/encode/copy instead of losing it.
	Drawings []byte
}

// DataValidation mirrors ooxml.DataValidation in domain form.
type DataValidation struct {
	Type             string
	Operator         string
	AllowBlank       bool
	ShowInputMessage bool
	ShowErrorMessage bool
	ErrorTitle       string
	Error            string
	Sqref            string
	Formula1         string
	Formula2         string
}

// ConditionalFormatting mirrors ooxml.ConditionalFormatting.
type ConditionalFormatting struct {
	Sqref string
	Rules []ConditionalRule
}

type ConditionalRule struct {
	Type     string
	DxfID    *int
	Priority int
	Operator string
	Formula  []string
}

// Hyperlink mirrors ooxml.Hyperlink.
type Hyperlink struct {
	Ref      string
	RID      string
	Location string
	Tooltip  string
	Display  string
}

// Table is the domain shape for a worksheet table part reference; it is
// the single canonical shape, with no separate TableInfo duplicate.
type Table struct {
	Name      string
	Ref       string
	Columns   []string
	StyleName string
}

// Protection mirrors ooxml.SheetProtection's salted-hash fields
// (algorithm name, hash, salt, spin count).
type Protection struct {
	Enabled             bool
	AlgorithmName       string
	HashValue           string
	SaltValue           string
	SpinCount           int
	SelectLockedCells   bool
	SelectUnlockedCells bool
}

// New returns an empty sheet named name.
func New(name string) *Sheet {
	return &Sheet{Name: name, rows: map[int]*Row{}, Columns: map[int]*ColumnProps{}}
}

// Row returns the row record at rowNum, creating it if absent.
func (s *Sheet) Row(rowNum int) (*Row, error) {
	if rowNum < 1 || rowNum > cellref.MaxRow {
		return nil, errKind("InvalidRowNumber", "worksheet: row number %d out of range [1, %d]", rowNum, cellref.MaxRow)
	}
	r, ok := s.rows[rowNum]
	if !ok {
		r = newRow()
		s.rows[rowNum] = r
	}
	return r, nil
}

// RowIfPresent returns the row at rowNum without creating it.
func (s *Sheet) RowIfPresent(rowNum int) (*Row, bool) {
	r, ok := s.rows[rowNum]
	return r, ok
}

// RowNumbers returns every occupied row number in ascending order.
func (s *Sheet) RowNumbers() []int {
	nums := make([]int, 0, len(s.rows))
	for n := range s.rows {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// DeleteRow removes row rowNum entirely.
func (s *Sheet) DeleteRow(rowNum int) { delete(s.rows, rowNum) }

// SetCell stores v at (col, row), validating coordinates and text
// length, failing InvalidColumnNumber / InvalidRowNumber /
// CellValueTooLong.
func (s *Sheet) SetCell(col, row int, v Value, styleIndex int) error {
	if col < 1 || col > cellref.MaxColumn {
		return errKind("InvalidColumnNumber", "worksheet: column number %d out of range [1, %d]", col, cellref.MaxColumn)
	}
	if v.Kind == KindInlineString || v.Kind == KindSharedString {
		if err := validateCellText(v.Text); err != nil {
			return err
		}
	}
	r, err := s.Row(row)
	if err != nil {
		return err
	}
	r.Cells[col] = &Cell{Value: v, StyleIndex: styleIndex}
	return nil
}

// GetCell returns the cell at (col, row), or Empty (ok=false) if unset.
func (s *Sheet) GetCell(col, row int) (Cell, bool) {
	r, ok := s.rows[row]
	if !ok {
		return Cell{}, false
	}
	c, ok := r.Cells[col]
	if !ok {
		return Cell{}, false
	}
	return *c, true
}

// DeleteCell removes the cell at (col, row) if present.
func (s *Sheet) DeleteCell(col, row int) {
	if r, ok := s.rows[row]; ok {
		delete(r.Cells, col)
	}
}

// SetColumnWidth sets colNum's width, failing ColumnWidthExceeded beyond
// the 255-character-unit limit.
func (s *Sheet) SetColumnWidth(colNum int, width float64) error {
	if width > maxColumnWidth {
		return errKind("ColumnWidthExceeded", "worksheet: column width %g exceeds maximum %g", width, maxColumnWidth)
	}
	c := s.column(colNum)
	c.Width = width
	return nil
}

// SetRowHeight sets rowNum's height, failing RowHeightExceeded beyond
// the 409-point limit.
func (s *Sheet) SetRowHeight(rowNum int, height float64) error {
	if height > maxRowHeight {
		return errKind("RowHeightExceeded", "worksheet: row height %g exceeds maximum %g", height, maxRowHeight)
	}
	r, err := s.Row(rowNum)
	if err != nil {
		return err
	}
	r.Height = height
	r.CustomHeight = true
	return nil
}

// SetColumnOutlineLevel sets colNum's outline level, failing
// OutlineLevelExceeded beyond 7.
func (s *Sheet) SetColumnOutlineLevel(colNum, level int) error {
	if level < 0 || level > maxOutlineLevel {
		return errKind("OutlineLevelExceeded", "worksheet: outline level %d exceeds maximum %d", level, maxOutlineLevel)
	}
	s.column(colNum).OutlineLevel = level
	return nil
}

// SetRowOutlineLevel sets rowNum's outline level, failing
// OutlineLevelExceeded beyond 7.
func (s *Sheet) SetRowOutlineLevel(rowNum, level int) error {
	if level < 0 || level > maxOutlineLevel {
		return errKind("OutlineLevelExceeded", "worksheet: outline level %d exceeds maximum %d", level, maxOutlineLevel)
	}
	r, err := s.Row(rowNum)
	if err != nil {
		return err
	}
	r.OutlineLevel = level
	return nil
}

func (s *Sheet) column(colNum int) *ColumnProps {
	c, ok := s.Columns[colNum]
	if !ok {
		c = &ColumnProps{}
		s.Columns[colNum] = c
	}
	return c
}

// Clone returns a deep copy of s under the given name, independent of s
// for every subsequent mutation (used by the workbook façade's
// copy-sheet operation).
func (s *Sheet) Clone(name string) *Sheet {
	out := New(name)
	for rowNum, r := range s.rows {
		nr := newRow()
		nr.Height, nr.CustomHeight, nr.Hidden, nr.OutlineLevel, nr.StyleIndex =
			r.Height, r.CustomHeight, r.Hidden, r.OutlineLevel, r.StyleIndex
		for col, c := range r.Cells {
			cv := *c
			cv.Value.Runs = append([]Run(nil), c.Value.Runs...)
			nr.Cells[col] = &cv
		}
		out.rows[rowNum] = nr
	}
	for col, c := range s.Columns {
		cp := *c
		out.Columns[col] = &cp
	}
	out.Merges = append([]MergeRegion(nil), s.Merges...)
	out.AutoFilterRef = s.AutoFilterRef
	out.DataValidations = append([]DataValidation(nil), s.DataValidations...)
	out.ConditionalFmts = append([]ConditionalFormatting(nil), s.ConditionalFmts...)
	out.Hyperlinks = append([]Hyperlink(nil), s.Hyperlinks...)
	out.Tables = append([]Table(nil), s.Tables...)
	out.FrozenRows, out.FrozenCols = s.FrozenRows, s.FrozenCols
	if s.Protection != nil {
		p := *s.Protection
		out.Protection = &p
	}
	out.PreservedExt = append([]byte(nil), s.PreservedExt...)
	out.Comments = append([]byte(nil), s.Comments...)
	out.ThreadedComments = append([]byte(nil), s.ThreadedComments...)
	out.Drawings = append([]byte(nil), s.Drawings...)
	return out
}

// Dimension returns the occupied rectangle "A1:..." across every row and
// cell, or "" if the sheet is empty.
func (s *Sheet) Dimension() string {
	minCol, minRow, maxCol, maxRow := 0, 0, 0, 0
	first := true
	for rowNum, r := range s.rows {
		for col := range r.Cells {
			if first {
				minCol, maxCol, minRow, maxRow = col, col, rowNum, rowNum
				first = false
				continue
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
			if rowNum < minRow {
				minRow = rowNum
			}
			if rowNum > maxRow {
				maxRow = rowNum
			}
		}
	}
	if first {
		return ""
	}
	start, _ := cellref.CoordinatesToCellName(minCol, minRow)
	end, _ := cellref.CoordinatesToCellName(maxCol, maxRow)
	if start == end {
		return start
	}
	return start + ":" + end
}

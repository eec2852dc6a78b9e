// Package style implements the font, fill, border, number-format, cell
// xf, and differential-format registries that back every styled cell in
// a workbook, plus theme colour resolution.
package style

import (
	"fmt"

	"github.com/gosheetkit/sheetkit/ooxml"
)

// maxCellXfs is the registry cap: beyond this many distinct cell
// formats, AddCellXf fails with CellStylesExceeded.
const maxCellXfs = 65430

// Error kinds raised by this package.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errStylesExceeded(format string, a ...any) error {
	return &Error{Kind: "CellStylesExceeded", Msg: fmt.Sprintf(format, a...)}
}

func errNotFound(format string, a ...any) error {
	return &Error{Kind: "StyleNotFound", Msg: fmt.Sprintf(format, a...)}
}

// Font is the domain-level counterpart of ooxml.Font, with plain Go
// fields instead of XML presence pointers.
type Font struct {
	Name          string
	Size          float64
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     string // "", "single", "double", "singleAccounting", "doubleAccounting"
	Color         Color
}

func (f Font) key() string {
	return fmt.Sprintf("%s\x00%g\x00%t\x00%t\x00%t\x00%s\x00%s", f.Name, f.Size, f.Bold, f.Italic, f.Strikethrough, f.Underline, f.Color.key())
}

// Color is a resolved or unresolved colour reference: either a direct
// ARGB/RGB hex value, or a theme-palette slot with an optional tint.
type Color struct {
	RGB     string
	Theme   *int
	Tint    float64
	Indexed *int
	Auto    bool
}

func (c Color) key() string {
	theme := -1
	if c.Theme != nil {
		theme = *c.Theme
	}
	indexed := -1
	if c.Indexed != nil {
		indexed = *c.Indexed
	}
	return fmt.Sprintf("%s\x00%d\x00%g\x00%d\x00%t", c.RGB, theme, c.Tint, indexed, c.Auto)
}

// Fill is a pattern fill (the only fill kind SpreadsheetML's cellXfs
// reference).
type Fill struct {
	PatternType string
	FgColor     Color
	BgColor     Color
}

func (f Fill) key() string {
	return fmt.Sprintf("%s\x00%s\x00%s", f.PatternType, f.FgColor.key(), f.BgColor.key())
}

// BorderEdge describes one side of a Border.
type BorderEdge struct {
	Style string
	Color Color
}

func (e BorderEdge) key() string { return e.Style + "\x00" + e.Color.key() }

type Border struct {
	Left, Right, Top, Bottom, Diagonal BorderEdge
}

func (b Border) key() string {
	return b.Left.key() + "\x01" + b.Right.key() + "\x01" + b.Top.key() + "\x01" + b.Bottom.key() + "\x01" + b.Diagonal.key()
}

// Alignment mirrors ooxml.Alignment.
type Alignment struct {
	Horizontal string
	Vertical   string
	WrapText   bool
	Indent     int
}

// Xf is one cellXfs entry: the cross-product of a font, fill, border,
// and number format, plus alignment.
type Xf struct {
	NumFmtID  int
	FontID    int
	FillID    int
	BorderID  int
	Alignment Alignment
}

func (x Xf) key() string {
	return fmt.Sprintf("%d\x00%d\x00%d\x00%d\x00%s\x00%s\x00%t\x00%d",
		x.NumFmtID, x.FontID, x.FillID, x.BorderID,
		x.Alignment.Horizontal, x.Alignment.Vertical, x.Alignment.WrapText, x.Alignment.Indent)
}

// Dxf is a differential format: only the fields actually overridden are
// set, so no field is deduplicated against a "default" value the way Xf
// fields are.
type Dxf struct {
	Font   *Font
	Fill   *Fill
	Border *Border
	NumFmt *NumFmt
}

// NumFmt is a (id, formatCode) pair; ids below 164 are the built-in
// table, 164 and above are workbook-custom.
type NumFmt struct {
	ID         int
	FormatCode string
}

// CellStyle is a named cell style entry (cellStyles/cellStyle), pointing
// at a cellStyleXfs record.
type CellStyle struct {
	Name      string
	XfID      int
	BuiltinID *int
}

// Registry deduplicates every style component on insert and assigns
// stable indices, generalised across every style table a workbook's
// styles.xml carries (fonts, fills, borders, number formats, cell XFs).
type Registry struct {
	fonts      []Font
	fontIndex  map[string]int
	fills      []Fill
	fillIndex  map[string]int
	borders    []Border
	borderIndex map[string]int
	numFmts     []NumFmt
	numFmtByCode map[string]int // formatCode -> id
	nextCustomID int
	cellXfs      []Xf
	cellXfIndex  map[string]int
	cellStyleXfs []Xf
	dxfs         []Dxf
	cellStyles   []CellStyle
	theme        *ooxml.Theme
}

// New returns a registry pre-seeded with the mandatory slot-0 entries
// Excel expects to always be present: a Calibri 11 default font, a "none"
// fill at index 0 and "gray125" at index 1, a borderless border, and a
// default cellXfs entry.
func New() *Registry {
	r := &Registry{
		fontIndex:    map[string]int{},
		fillIndex:    map[string]int{},
		borderIndex:  map[string]int{},
		numFmtByCode: map[string]int{},
		nextCustomID: 164,
		cellXfIndex:  map[string]int{},
	}
	r.AddFont(Font{Size: 11, Name: "Calibri"})
	r.AddFill(Fill{PatternType: "none"})
	r.AddFill(Fill{PatternType: "gray125"})
	r.AddBorder(Border{})
	r.cellXfs = append(r.cellXfs, Xf{})
	r.cellXfIndex[Xf{}.key()] = 0
	return r
}

// AddFont interns f and returns its index.
func (r *Registry) AddFont(f Font) int {
	k := f.key()
	if i, ok := r.fontIndex[k]; ok {
		return i
	}
	i := len(r.fonts)
	r.fonts = append(r.fonts, f)
	r.fontIndex[k] = i
	return i
}

// AddFill interns f and returns its index.
func (r *Registry) AddFill(f Fill) int {
	k := f.key()
	if i, ok := r.fillIndex[k]; ok {
		return i
	}
	i := len(r.fills)
	r.fills = append(r.fills, f)
	r.fillIndex[k] = i
	return i
}

// AddBorder interns b and returns its index.
func (r *Registry) AddBorder(b Border) int {
	k := b.key()
	if i, ok := r.borderIndex[k]; ok {
		return i
	}
	i := len(r.borders)
	r.borders = append(r.borders, b)
	r.borderIndex[k] = i
	return i
}

// AddNumFmt interns a custom format code and returns its numFmtId. A
// code matching a built-in format returns the built-in id instead of
// minting a new custom one.
func (r *Registry) AddNumFmt(code string) int {
	if id, ok := builtinNumFmtID(code); ok {
		return id
	}
	if id, ok := r.numFmtByCode[code]; ok {
		return id
	}
	id := r.nextCustomID
	r.nextCustomID++
	r.numFmts = append(r.numFmts, NumFmt{ID: id, FormatCode: code})
	r.numFmtByCode[code] = id
	return id
}

// FormatCode returns the format code registered for numFmtId, checking
// the built-in table first.
func (r *Registry) FormatCode(id int) (string, bool) {
	if code, ok := builtinNumFmtCode(id); ok {
		return code, true
	}
	for _, nf := range r.numFmts {
		if nf.ID == id {
			return nf.FormatCode, true
		}
	}
	return "", false
}

// AddCellXf interns xf and returns its index, failing with
// CellStylesExceeded once the registry would grow past 65430 distinct
// entries.
func (r *Registry) AddCellXf(xf Xf) (int, error) {
	k := xf.key()
	if i, ok := r.cellXfIndex[k]; ok {
		return i, nil
	}
	if len(r.cellXfs) >= maxCellXfs {
		return 0, errStylesExceeded("cell style registry is at its %d-entry cap", maxCellXfs)
	}
	i := len(r.cellXfs)
	r.cellXfs = append(r.cellXfs, xf)
	r.cellXfIndex[k] = i
	return i, nil
}

// CellXf returns the cellXfs entry at idx.
func (r *Registry) CellXf(idx int) (Xf, error) {
	if idx < 0 || idx >= len(r.cellXfs) {
		return Xf{}, errNotFound("style: cellXfs index %d out of range [0, %d)", idx, len(r.cellXfs))
	}
	return r.cellXfs[idx], nil
}

// Font returns the font registered at idx.
func (r *Registry) Font(idx int) (Font, error) {
	if idx < 0 || idx >= len(r.fonts) {
		return Font{}, errNotFound("style: font index %d out of range [0, %d)", idx, len(r.fonts))
	}
	return r.fonts[idx], nil
}

// CellXfCount is the current cellXfs table size (cellXfs[idx] must
// satisfy idx < CellXfCount() for a valid cell style reference).
func (r *Registry) CellXfCount() int { return len(r.cellXfs) }

// AddDxf interns d and returns its index. Differential formats are not
// deduplicated (each conditional-formatting rule customarily owns one).
func (r *Registry) AddDxf(d Dxf) int {
	r.dxfs = append(r.dxfs, d)
	return len(r.dxfs) - 1
}

// SetTheme registers the workbook's theme for colour resolution.
func (r *Registry) SetTheme(t *ooxml.Theme) { r.theme = t }

// ResolveColor returns the effective 6-hex-digit RGB string for c,
// applying theme lookup and tint if c references a theme slot.
func (r *Registry) ResolveColor(c Color) string {
	if c.RGB != "" {
		return stripAlpha(c.RGB)
	}
	if c.Theme != nil && r.theme != nil {
		slots := r.theme.ThemeElements.ClrScheme.Slots()
		if *c.Theme >= 0 && *c.Theme < len(slots) {
			return applyTint(slots[*c.Theme].RGB(), c.Tint)
		}
	}
	return ""
}

func stripAlpha(argb string) string {
	if len(argb) == 8 {
		return argb[2:]
	}
	return argb
}

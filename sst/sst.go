// Package sst implements the shared-string table: interning of cell text
// on insert, reference counting, and plain/rich-text equality for
// deduplication.
package sst

import (
	"fmt"
	"strings"

	"github.com/gosheetkit/sheetkit/ooxml"
)

// Error kinds raised by this package.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Run is one formatted span of a rich-text item. A Run with every
// formatting field at its zero value renders as plain text with no
// <rPr>.
type Run struct {
	Text      string
	FontName  string
	Size      float64
	Bold      bool
	Italic    bool
	ARGBColor string // e.g. "FFFF0000"; empty means unset
}

func (r Run) plain() bool {
	return r.FontName == "" && r.Size == 0 && !r.Bold && !r.Italic && r.ARGBColor == ""
}

func (r Run) key() string {
	if r.plain() {
		return "P\x00" + r.Text
	}
	return fmt.Sprintf("R\x00%s\x00%s\x00%g\x00%t\x00%t\x00%s", r.Text, r.FontName, r.Size, r.Bold, r.Italic, r.ARGBColor)
}

// Item is one shared-string table entry: either a single plain string
// (len(Runs) == 1 && Runs[0].plain()) or a rich-text item of one or more
// formatted runs.
type Item struct {
	Runs []Run
}

// PlainItem builds a single-run, unformatted Item.
func PlainItem(text string) Item {
	return Item{Runs: []Run{{Text: text}}}
}

// Text concatenates every run's text, the same string Excel shows as the
// cell's display value irrespective of per-run formatting.
func (it Item) Text() string {
	var b strings.Builder
	for _, r := range it.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// IsRich reports whether the item carries more than one run, or a single
// run with explicit formatting (either shape serialises as <si><r>...
// rather than a bare <si><t>).
func (it Item) IsRich() bool {
	if len(it.Runs) != 1 {
		return true
	}
	return !it.Runs[0].plain()
}

func (it Item) key() string {
	var b strings.Builder
	for _, r := range it.Runs {
		b.WriteString(r.key())
		b.WriteByte('\x01')
	}
	return b.String()
}

// Table interns Items on insert and tracks a reference count per unique
// entry, maintaining the count/uniqueCount pair a saved sst.xml requires.
type Table struct {
	items []Item
	index map[string]int // dedup key -> index into items
	refs  []int          // refs[i] is the reference count of items[i]
	total int            // sum of refs, i.e. the <sst count="..."> value
}

// New returns an empty shared-string table.
func New() *Table {
	return &Table{index: map[string]int{}}
}

// Intern records one reference to text (a plain string) and returns its
// index. Equal strings collapse to the same index; each call increments
// that entry's reference count.
func (t *Table) Intern(text string) int {
	return t.InternItem(PlainItem(text))
}

// InternItem records one reference to a (possibly rich) Item and returns
// its index.
func (t *Table) InternItem(it Item) int {
	k := it.key()
	t.total++
	if idx, ok := t.index[k]; ok {
		t.refs[idx]++
		return idx
	}
	idx := len(t.items)
	t.items = append(t.items, it)
	t.refs = append(t.refs, 1)
	t.index[k] = idx
	return idx
}

// Get returns the item at idx, or an InvalidReference error when idx is
// not below UniqueCount: every cell with t="s" must carry an index <
// uniqueCount.
func (t *Table) Get(idx int) (Item, error) {
	if idx < 0 || idx >= len(t.items) {
		return Item{}, &Error{Kind: "InvalidReference", Msg: fmt.Sprintf("sst: index %d out of range [0, %d)", idx, len(t.items))}
	}
	return t.items[idx], nil
}

// Count is the total number of references recorded across every Intern
// call (the <sst count="..."> attribute).
func (t *Table) Count() int { return t.total }

// UniqueCount is the number of distinct interned entries (the <sst
// uniqueCount="..."> attribute, and the upper bound for a valid t="s"
// cell index).
func (t *Table) UniqueCount() int { return len(t.items) }

// Decode builds a Table from a parsed ooxml.Sst (see ooxml.DecodeSst,
// which preserves whitespace token-by-token rather than through
// encoding/xml's lossy struct unmarshaler). Reference counts and Count
// start at zero; they are not rebuilt from the worksheets' t="s" cells,
// and only later Intern/InternItem calls add to them.
func Decode(doc *ooxml.Sst) *Table {
	t := New()
	for _, si := range doc.SI {
		item := itemFromSI(si)
		k := item.key()
		t.items = append(t.items, item)
		t.refs = append(t.refs, 0)
		t.index[k] = len(t.items) - 1
	}
	return t
}

func itemFromSI(si ooxml.SI) Item {
	if len(si.Runs) == 0 {
		txt := ""
		if si.Text != nil {
			txt = si.Text.Value
		}
		return PlainItem(txt)
	}
	item := Item{Runs: make([]Run, 0, len(si.Runs))}
	for _, rr := range si.Runs {
		run := Run{Text: rr.T.Value}
		if rr.RPr != nil {
			run.Bold = rr.RPr.B != nil
			run.Italic = rr.RPr.I != nil
			if rr.RPr.RFont != nil {
				run.FontName = rr.RPr.RFont.Val
			}
			if rr.RPr.Sz != nil {
				run.Size = rr.RPr.Sz.Val
			}
			if rr.RPr.Color != nil && rr.RPr.Color.RGB != "" {
				run.ARGBColor = rr.RPr.Color.RGB
			}
		}
		item.Runs = append(item.Runs, run)
	}
	return item
}

// Encode serialises the table to an ooxml.Sst in insertion order.
func (t *Table) Encode() *ooxml.Sst {
	doc := &ooxml.Sst{Xmlns: ooxml.NSMain, Count: t.total, UniqueCount: len(t.items)}
	for _, it := range t.items {
		doc.SI = append(doc.SI, siFromItem(it))
	}
	return doc
}

func siFromItem(it Item) ooxml.SI {
	if !it.IsRich() {
		text := ""
		if len(it.Runs) == 1 {
			text = it.Runs[0].Text
		}
		return ooxml.SI{Text: textElem(text)}
	}
	si := ooxml.SI{}
	for _, r := range it.Runs {
		run := ooxml.RichRun{T: *textElem(r.Text)}
		if !r.plain() {
			props := &ooxml.RunProperties{}
			if r.Bold {
				props.B = &struct{}{}
			}
			if r.Italic {
				props.I = &struct{}{}
			}
			if r.FontName != "" {
				props.RFont = &ooxml.StringVal{Val: r.FontName}
			}
			if r.Size != 0 {
				props.Sz = &ooxml.FloatVal{Val: r.Size}
			}
			if r.ARGBColor != "" {
				props.Color = &ooxml.Color{RGB: r.ARGBColor}
			}
			run.RPr = props
		}
		si.Runs = append(si.Runs, run)
	}
	return si
}

func textElem(s string) *ooxml.Text {
	space := ""
	if needsPreserve(s) {
		space = "preserve"
	}
	return &ooxml.Text{Space: space, Value: s}
}

func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || strings.Contains(s, "\n")
}

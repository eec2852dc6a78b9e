package streamwriter

import (
	"archive/zip"
	"compress/flate"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gosheetkit/sheetkit/cellref"
	"github.com/gosheetkit/sheetkit/sst"
	"github.com/gosheetkit/sheetkit/style"
	"github.com/gosheetkit/sheetkit/worksheet"
)

// flushThreshold is the chunk size a sheet's row buffer is flushed at,
// bounding peak memory regardless of how many rows the caller writes.
const flushThreshold = 16 * 1024 * 1024

// Error kinds this package raises for the strictly-forward-only
// contract a stream writer enforces.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func errKind(kind, format string, a ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

type state int

const (
	stateOpen state = iota // columns/merges/frozen panes may still be set
	stateRows               // at least one row written; layout is now frozen
	stateFinished
)

// Column is a column-width/outline descriptor, set before the first row.
type Column struct {
	Num          int
	Width        float64
	OutlineLevel int
	Hidden       bool
}

// Cell is one value in a streamed row.
type Cell struct {
	Value      worksheet.Value
	StyleIndex int
}

// Writer emits one worksheet's XML directly into a ZIP entry as rows
// arrive, plus the surrounding package (workbook.xml, styles.xml,
// sharedStrings.xml, rels, content types) once Finalise is called.
// Columns, merge regions, and frozen panes may only be set while the
// writer is still in its open state, because the worksheet's
// <cols>/<sheetViews> elements must precede <sheetData> in the XML and
// this writer streams forward-only, never rewinding to patch them in.
type Writer struct {
	sink   Sink
	sst    *sst.Table
	styles *style.Registry

	state state

	zw          *zip.Writer
	sheetWriter io.Writer
	buf         strings.Builder

	columns        []Column
	merges         []string
	frozenRows     int
	frozenCols     int

	lastRow   int
	totalRows int64
	startTime time.Time
}

// New returns a Writer for a single sheet. sheetName is accepted but not
// used: the emitted workbook.xml always names the sheet "Sheet1". It interns
// shared strings into sst and resolving style indices against styles —
// both are expected to be the same tables a caller later wires into a
// companion workbook.xml if this stream is meant to join one, or fresh
// ones if the stream is meant to stand alone.
func New(sink Sink, sheetName string, sstTable *sst.Table, styles *style.Registry) *Writer {
	return &Writer{
		sink:      sink,
		sst:       sstTable,
		styles:    styles,
		startTime: time.Time{},
	}
}

func (w *Writer) start() error {
	w.startTime = time.Now()
	w.zw = zip.NewWriter(w.sink)
	w.zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})
	sw, err := w.zw.Create("xl/worksheets/sheet1.xml")
	if err != nil {
		return err
	}
	w.sheetWriter = sw
	header := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
		`<worksheet xmlns="` + mainNS + `">`
	header += w.colsXML() + w.viewsXML() + `<sheetData>`
	if _, err := io.WriteString(w.sheetWriter, header); err != nil {
		return err
	}
	return nil
}

func (w *Writer) colsXML() string {
	if len(w.columns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<cols>")
	for _, c := range w.columns {
		fmt.Fprintf(&b, `<col min="%d" max="%d" width="%g" customWidth="1"`, c.Num, c.Num, c.Width)
		if c.OutlineLevel > 0 {
			fmt.Fprintf(&b, ` outlineLevel="%d"`, c.OutlineLevel)
		}
		if c.Hidden {
			b.WriteString(` hidden="1"`)
		}
		b.WriteString("/>")
	}
	b.WriteString("</cols>")
	return b.String()
}

func (w *Writer) viewsXML() string {
	if w.frozenRows == 0 && w.frozenCols == 0 {
		return ""
	}
	topLeft, _ := cellref.CoordinatesToCellName(w.frozenCols+1, w.frozenRows+1)
	return fmt.Sprintf(
		`<sheetViews><sheetView><pane xSplit="%d" ySplit="%d" topLeftCell="%s" state="frozen"/></sheetView></sheetViews>`,
		w.frozenCols, w.frozenRows, topLeft)
}

// SetColumn records a column width/outline descriptor; only valid
// before the first row is written.
func (w *Writer) SetColumn(col Column) error {
	if w.state != stateOpen {
		return errKind("StreamColumnsAfterRows", "streamwriter: column layout must be set before any row is written")
	}
	w.columns = append(w.columns, col)
	return nil
}

// SetFrozenPanes records how many leading rows/columns stay fixed;
// only valid before the first row is written.
func (w *Writer) SetFrozenPanes(rows, cols int) error {
	if w.state != stateOpen {
		return errKind("StreamColumnsAfterRows", "streamwriter: frozen panes must be set before any row is written")
	}
	w.frozenRows, w.frozenCols = rows, cols
	return nil
}

// Merge records a merge region, materialised into <mergeCells> at
// Finalise; only valid before the first row is written, since the
// element must precede <sheetData> isn't true in SpreadsheetML (it
// follows), but this writer still requires it up front to keep the
// write path single-pass rather than buffering regions discovered
// mid-stream.
func (w *Writer) Merge(ref string) error {
	if w.state != stateOpen {
		return errKind("StreamColumnsAfterRows", "streamwriter: merge regions must be set before any row is written")
	}
	if _, err := cellref.ParseRange(ref); err != nil {
		return err
	}
	w.merges = append(w.merges, ref)
	return nil
}

// WriteRow appends one row at rowNum, with cells occupying consecutive
// columns starting at 1. rowNum must be strictly greater than the
// previous row written.
func (w *Writer) WriteRow(rowNum int, cells []Cell) error {
	if w.state == stateFinished {
		return errKind("StreamAlreadyFinished", "streamwriter: writer already finalised")
	}
	if rowNum <= w.lastRow {
		return errKind("StreamRowAlreadyWritten", "streamwriter: row %d must follow the previously written row %d", rowNum, w.lastRow)
	}
	if w.state == stateOpen {
		if err := w.start(); err != nil {
			return err
		}
		w.state = stateRows
	}

	w.buf.WriteString(fmt.Sprintf(`<row r="%d">`, rowNum))
	for i, c := range cells {
		ref, err := cellref.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		w.writeCellXML(ref, c)
	}
	w.buf.WriteString(`</row>`)

	w.lastRow = rowNum
	w.totalRows++

	if w.buf.Len() >= flushThreshold {
		if err := w.flush(); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeCellXML(ref string, c Cell) {
	v := c.Value
	sAttr := ""
	if c.StyleIndex != 0 {
		sAttr = fmt.Sprintf(` s="%d"`, c.StyleIndex)
	}
	switch v.Kind {
	case worksheet.KindEmpty:
		fmt.Fprintf(&w.buf, `<c r="%s"%s/>`, ref, sAttr)
	case worksheet.KindNumber, worksheet.KindDate:
		fmt.Fprintf(&w.buf, `<c r="%s"%s><v>%s</v></c>`, ref, sAttr, formatNumber(v.Number))
	case worksheet.KindBool:
		b := "0"
		if v.Bool {
			b = "1"
		}
		fmt.Fprintf(&w.buf, `<c r="%s"%s t="b"><v>%s</v></c>`, ref, sAttr, b)
	case worksheet.KindInlineString:
		idx := w.sst.Intern(v.Text)
		fmt.Fprintf(&w.buf, `<c r="%s"%s t="s"><v>%d</v></c>`, ref, sAttr, idx)
	case worksheet.KindSharedString:
		fmt.Fprintf(&w.buf, `<c r="%s"%s t="s"><v>%d</v></c>`, ref, sAttr, v.SSTIndex)
	case worksheet.KindFormula:
		fmt.Fprintf(&w.buf, `<c r="%s"%s><f>%s</f></c>`, ref, sAttr, escapeXML(v.FormulaText))
	case worksheet.KindError:
		fmt.Fprintf(&w.buf, `<c r="%s"%s t="e"><v>%s</v></c>`, ref, sAttr, v.ErrorCode)
	default:
		fmt.Fprintf(&w.buf, `<c r="%s"%s/>`, ref, sAttr)
	}
}

func (w *Writer) flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(w.sheetWriter, w.buf.String())
	w.buf.Reset()
	return err
}

// Finalise closes the worksheet (</sheetData>, merge cells, frozen
// panes already emitted up front), writes the rest of the package
// (workbook.xml, styles.xml, sharedStrings.xml, rels, content types),
// and closes the sink.
func (w *Writer) Finalise() (*Stats, error) {
	if w.state == stateFinished {
		return nil, errKind("StreamAlreadyFinished", "streamwriter: writer already finalised")
	}
	if w.state == stateOpen {
		if err := w.start(); err != nil {
			return nil, err
		}
	}
	w.state = stateFinished

	if err := w.flush(); err != nil {
		return nil, err
	}

	footer := `</sheetData>` + w.mergeCellsXML() + `</worksheet>`
	if _, err := io.WriteString(w.sheetWriter, footer); err != nil {
		return nil, err
	}

	if err := w.writePackageParts(); err != nil {
		return nil, err
	}
	if err := w.zw.Close(); err != nil {
		return nil, err
	}
	if err := w.sink.Close(); err != nil {
		return nil, err
	}

	return &Stats{
		TotalRows:   w.totalRows,
		TotalSheets: 1,
		Duration:    time.Now().Sub(w.startTime).Seconds(),
	}, nil
}

func (w *Writer) mergeCellsXML() string {
	if len(w.merges) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<mergeCells count="%d">`, len(w.merges))
	for _, m := range w.merges {
		fmt.Fprintf(&b, `<mergeCell ref="%s"/>`, m)
	}
	b.WriteString(`</mergeCells>`)
	return b.String()
}

func formatNumber(f float64) string {
	return fmt.Sprintf("%g", f)
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

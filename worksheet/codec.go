package worksheet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gosheetkit/sheetkit/cellref"
	"github.com/gosheetkit/sheetkit/dateserial"
	"github.com/gosheetkit/sheetkit/ooxml"
)

// Decode builds a Sheet from a parsed ooxml.Worksheet. numFmtOf resolves
// a cellXfs index to its numFmtId so date-typed numeric cells (stored
// with no explicit "d" discriminator, governed only by their format) can
// be classified; it may be nil, in which case no cell is reclassified
// as a date beyond what the XML's own "t" attribute states.
func Decode(name string, doc *ooxml.Worksheet, numFmtOf func(styleIndex int) (int, string)) (*Sheet, error) {
	s := New(name)

	if doc.Cols != nil {
		for _, col := range doc.Cols.Col {
			for c := col.Min; c <= col.Max; c++ {
				s.Columns[c] = &ColumnProps{
					Width:        col.Width,
					Hidden:       col.Hidden,
					OutlineLevel: col.OutlineLevel,
					StyleIndex:   col.Style,
				}
			}
		}
	}

	for _, xr := range doc.SheetData.Row {
		row, err := s.Row(xr.R)
		if err != nil {
			return nil, err
		}
		row.Height = xr.Height
		row.CustomHeight = xr.CustomHeight
		row.Hidden = xr.Hidden
		row.OutlineLevel = xr.OutlineLevel
		row.StyleIndex = xr.Style

		for _, xc := range xr.C {
			ref, err := cellref.ParseRef(xc.R)
			if err != nil {
				return nil, errKind("InvalidCellReference", "worksheet: %v", err)
			}
			v := decodeCellValue(xc)
			if v.Kind == KindNumber && numFmtOf != nil {
				id, code := numFmtOf(xc.S)
				if dateserial.IsDateFormat(id, code) {
					v.Kind = KindDate
				}
			}
			row.Cells[ref.Col] = &Cell{Value: v, StyleIndex: xc.S}
		}
	}

	if doc.MergeCells != nil {
		for _, mc := range doc.MergeCells.MergeCell {
			s.Merges = append(s.Merges, MergeRegion{Ref: mc.Ref})
		}
	}

	if doc.AutoFilter != nil {
		s.AutoFilterRef = doc.AutoFilter.Ref
	}

	if doc.DataValidations != nil {
		for _, dv := range doc.DataValidations.DataValidation {
			s.DataValidations = append(s.DataValidations, DataValidation{
				Type: dv.Type, Operator: dv.Operator, AllowBlank: dv.AllowBlank,
				ShowInputMessage: dv.ShowInputMessage, ShowErrorMessage: dv.ShowErrorMessage,
				ErrorTitle: dv.ErrorTitle, Error: dv.Error, Sqref: dv.Sqref,
				Formula1: dv.Formula1, Formula2: dv.Formula2,
			})
		}
	}

	for _, cf := range doc.ConditionalFormatting {
		out := ConditionalFormatting{Sqref: cf.Sqref}
		for _, rule := range cf.Rule {
			out.Rules = append(out.Rules, ConditionalRule{
				Type: rule.Type, DxfID: rule.DxfID, Priority: rule.Priority,
				Operator: rule.Operator, Formula: rule.Formula,
			})
		}
		s.ConditionalFmts = append(s.ConditionalFmts, out)
	}

	if doc.Hyperlinks != nil {
		for _, h := range doc.Hyperlinks.Hyperlink {
			s.Hyperlinks = append(s.Hyperlinks, Hyperlink{
				Ref: h.Ref, RID: h.RID, Location: h.Location, Tooltip: h.Tooltip, Display: h.Display,
			})
		}
	}

	if doc.SheetProtection != nil {
		p := doc.SheetProtection
		s.Protection = &Protection{
			Enabled: p.Sheet, AlgorithmName: p.AlgorithmName, HashValue: p.HashValue,
			SaltValue: p.SaltValue, SpinCount: p.SpinCount,
			SelectLockedCells: p.SelectLockedCells, SelectUnlockedCells: p.SelectUnlockedCells,
		}
	}

	if doc.ExtLst != nil {
		s.PreservedExt = doc.ExtLst.Inner
	}

	return s, nil
}

func decodeCellValue(xc ooxml.Cell) Value {
	if xc.F != nil {
		cached := decodeScalarValue(xc)
		var resPtr *Value
		if !cached.IsEmpty() {
			resPtr = &cached
		}
		return FormulaValue(xc.F.Text, resPtr)
	}
	return decodeScalarValue(xc)
}

func decodeScalarValue(xc ooxml.Cell) Value {
	switch xc.T {
	case "s":
		idx, err := strconv.Atoi(xc.V)
		if err != nil {
			return Empty
		}
		return SharedStringValue(idx)
	case "b":
		return BoolValue(xc.V == "1")
	case "e":
		return ErrorValue(xc.V)
	case "inlineStr":
		if xc.Is == nil {
			return InlineStringValue("")
		}
		if len(xc.Is.R) == 0 {
			return InlineStringValue(xc.Is.T)
		}
		runs := make([]Run, 0, len(xc.Is.R))
		for _, rr := range xc.Is.R {
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
				if rr.RPr.Color != nil {
					run.ARGBColor = rr.RPr.Color.RGB
				}
			}
			runs = append(runs, run)
		}
		return Value{Kind: KindRichText, Runs: runs}
	case "str":
		return InlineStringValue(xc.V)
	case "d":
		return Value{Kind: KindDate, Number: parseFloatOrZero(xc.V)}
	default:
		if xc.V == "" {
			return Empty
		}
		return NumberValue(parseFloatOrZero(xc.V))
	}
}

func parseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Encode serialises the sheet back to an ooxml.Worksheet.
func (s *Sheet) Encode() (*ooxml.Worksheet, error) {
	doc := &ooxml.Worksheet{Xmlns: ooxml.NSMain, XmlnsR: ooxml.NSRelationships}

	if dim := s.Dimension(); dim != "" {
		doc.Dimension = &ooxml.Dimension{Ref: dim}
	}

	if len(s.Columns) > 0 {
		cols := &ooxml.Cols{}
		colNums := make([]int, 0, len(s.Columns))
		for c := range s.Columns {
			colNums = append(colNums, c)
		}
		sort.Ints(colNums)
		for _, c := range colNums {
			p := s.Columns[c]
			cols.Col = append(cols.Col, ooxml.Col{
				Min: c, Max: c, Width: p.Width, Style: p.StyleIndex,
				Hidden: p.Hidden, OutlineLevel: p.OutlineLevel, CustomWidth: p.Width != 0,
			})
		}
		doc.Cols = cols
	}

	for _, rowNum := range s.RowNumbers() {
		row := s.rows[rowNum]
		xr := ooxml.Row{
			R: rowNum, Height: row.Height, CustomHeight: row.CustomHeight,
			Hidden: row.Hidden, OutlineLevel: row.OutlineLevel, Style: row.StyleIndex,
			CustomFormat: row.StyleIndex != 0,
		}
		cols := make([]int, 0, len(row.Cells))
		for c := range row.Cells {
			cols = append(cols, c)
		}
		sort.Ints(cols)
		for _, c := range cols {
			cell := row.Cells[c]
			ref, _ := cellref.CoordinatesToCellName(c, rowNum)
			xr.C = append(xr.C, encodeCell(ref, cell))
		}
		doc.SheetData.Row = append(doc.SheetData.Row, xr)
	}

	if len(s.Merges) > 0 {
		mc := &ooxml.MergeCells{Count: len(s.Merges)}
		for _, m := range s.Merges {
			mc.MergeCell = append(mc.MergeCell, ooxml.MergeCell{Ref: m.Ref})
		}
		doc.MergeCells = mc
	}

	if s.AutoFilterRef != "" {
		doc.AutoFilter = &ooxml.AutoFilter{Ref: s.AutoFilterRef}
	}

	if len(s.DataValidations) > 0 {
		dvs := &ooxml.DataValidations{Count: len(s.DataValidations)}
		for _, dv := range s.DataValidations {
			dvs.DataValidation = append(dvs.DataValidation, ooxml.DataValidation{
				Type: dv.Type, Operator: dv.Operator, AllowBlank: dv.AllowBlank,
				ShowInputMessage: dv.ShowInputMessage, ShowErrorMessage: dv.ShowErrorMessage,
				ErrorTitle: dv.ErrorTitle, Error: dv.Error, Sqref: dv.Sqref,
				Formula1: dv.Formula1, Formula2: dv.Formula2,
			})
		}
		doc.DataValidations = dvs
	}

	for _, cf := range s.ConditionalFmts {
		xcf := ooxml.ConditionalFormatting{Sqref: cf.Sqref}
		for _, r := range cf.Rules {
			xcf.Rule = append(xcf.Rule, ooxml.ConditionalRule{
				Type: r.Type, DxfID: r.DxfID, Priority: r.Priority, Operator: r.Operator, Formula: r.Formula,
			})
		}
		doc.ConditionalFormatting = append(doc.ConditionalFormatting, xcf)
	}

	if len(s.Hyperlinks) > 0 {
		hl := &ooxml.Hyperlinks{}
		for _, h := range s.Hyperlinks {
			hl.Hyperlink = append(hl.Hyperlink, ooxml.Hyperlink{
				Ref: h.Ref, RID: h.RID, Location: h.Location, Tooltip: h.Tooltip, Display: h.Display,
			})
		}
		doc.Hyperlinks = hl
	}

	if s.Protection != nil && s.Protection.Enabled {
		p := s.Protection
		doc.SheetProtection = &ooxml.SheetProtection{
			Sheet: p.Enabled, AlgorithmName: p.AlgorithmName, HashValue: p.HashValue,
			SaltValue: p.SaltValue, SpinCount: p.SpinCount,
			SelectLockedCells: p.SelectLockedCells, SelectUnlockedCells: p.SelectUnlockedCells,
		}
	}

	if len(s.PreservedExt) > 0 {
		doc.ExtLst = &ooxml.ExtLst{Inner: s.PreservedExt}
	}

	return doc, nil
}

func encodeCell(ref string, cell *Cell) ooxml.Cell {
	xc := ooxml.Cell{R: ref, S: cell.StyleIndex}
	v := cell.Value
	if v.Kind == KindFormula {
		xc.F = &ooxml.Formula{Text: v.FormulaText}
		if v.Result != nil {
			applyScalarToXML(&xc, *v.Result)
		}
		return xc
	}
	applyScalarToXML(&xc, v)
	return xc
}

func applyScalarToXML(xc *ooxml.Cell, v Value) {
	switch v.Kind {
	case KindEmpty:
	case KindBool:
		xc.T = "b"
		if v.Bool {
			xc.V = "1"
		} else {
			xc.V = "0"
		}
	case KindNumber, KindDate:
		xc.V = strconv.FormatFloat(v.Number, 'g', -1, 64)
	case KindSharedString:
		xc.T = "s"
		xc.V = strconv.Itoa(v.SSTIndex)
	case KindInlineString:
		xc.T = "inlineStr"
		xc.Is = &ooxml.InlineString{T: v.Text}
	case KindRichText:
		xc.T = "inlineStr"
		is := &ooxml.InlineString{}
		for _, r := range v.Runs {
			run := ooxml.RichRun{T: ooxml.Text{Value: r.Text, Space: spacePreserve(r.Text)}}
			if r.FontName != "" || r.Size != 0 || r.Bold || r.Italic || r.ARGBColor != "" {
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
			is.R = append(is.R, run)
		}
		xc.Is = is
	case KindError:
		xc.T = "e"
		xc.V = v.ErrorCode
	}
}

func spacePreserve(s string) string {
	if s == "" {
		return ""
	}
	if s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || strings.Contains(s, "\n") {
		return "preserve"
	}
	return ""
}

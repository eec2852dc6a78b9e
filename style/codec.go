package style

import "github.com/gosheetkit/sheetkit/ooxml"

// Decode builds a Registry from a parsed ooxml.StyleSheet. Every table is
// read in document order and re-indexed 1:1 so cellXfs indices already
// referenced by worksheet cells keep working unchanged.
func Decode(doc *ooxml.StyleSheet) *Registry {
	r := &Registry{
		fontIndex:    map[string]int{},
		fillIndex:    map[string]int{},
		borderIndex:  map[string]int{},
		numFmtByCode: map[string]int{},
		nextCustomID: 164,
		cellXfIndex:  map[string]int{},
	}

	if doc.NumFmts != nil {
		for _, nf := range doc.NumFmts.NumFmt {
			r.numFmts = append(r.numFmts, NumFmt{ID: nf.NumFmtID, FormatCode: nf.FormatCode})
			r.numFmtByCode[nf.FormatCode] = nf.NumFmtID
			if nf.NumFmtID >= r.nextCustomID {
				r.nextCustomID = nf.NumFmtID + 1
			}
		}
	}

	if doc.Fonts != nil {
		for _, f := range doc.Fonts.Font {
			font := fontFromXML(f)
			r.fonts = append(r.fonts, font)
			r.fontIndex[font.key()] = len(r.fonts) - 1
		}
	}

	if doc.Fills != nil {
		for _, f := range doc.Fills.Fill {
			fill := fillFromXML(f)
			r.fills = append(r.fills, fill)
			r.fillIndex[fill.key()] = len(r.fills) - 1
		}
	}

	if doc.Borders != nil {
		for _, b := range doc.Borders.Border {
			border := borderFromXML(b)
			r.borders = append(r.borders, border)
			r.borderIndex[border.key()] = len(r.borders) - 1
		}
	}

	if doc.CellXfs != nil {
		for _, xf := range doc.CellXfs.Xf {
			x := xfFromXML(xf)
			r.cellXfs = append(r.cellXfs, x)
			r.cellXfIndex[x.key()] = len(r.cellXfs) - 1
		}
	}

	if doc.CellStyleXfs != nil {
		for _, xf := range doc.CellStyleXfs.Xf {
			r.cellStyleXfs = append(r.cellStyleXfs, xfFromXML(xf))
		}
	}

	if doc.CellStyles != nil {
		for _, cs := range doc.CellStyles.CellStyle {
			r.cellStyles = append(r.cellStyles, CellStyle{Name: cs.Name, XfID: cs.XfID, BuiltinID: cs.BuiltinID})
		}
	}

	if doc.Dxfs != nil {
		for _, d := range doc.Dxfs.Dxf {
			dxf := Dxf{}
			if d.Font != nil {
				f := fontFromXML(*d.Font)
				dxf.Font = &f
			}
			if d.Fill != nil {
				f := fillFromXML(*d.Fill)
				dxf.Fill = &f
			}
			if d.Border != nil {
				b := borderFromXML(*d.Border)
				dxf.Border = &b
			}
			if d.NumFmt != nil {
				dxf.NumFmt = &NumFmt{ID: d.NumFmt.NumFmtID, FormatCode: d.NumFmt.FormatCode}
			}
			r.dxfs = append(r.dxfs, dxf)
		}
	}

	return r
}

func colorFromXML(c *ooxml.Color) Color {
	if c == nil {
		return Color{}
	}
	out := Color{RGB: c.RGB, Tint: c.Tint, Auto: c.Auto}
	if c.Theme != nil {
		v := *c.Theme
		out.Theme = &v
	}
	if c.Indexed != nil {
		v := *c.Indexed
		out.Indexed = &v
	}
	return out
}

func colorToXML(c Color) *ooxml.Color {
	if c == (Color{}) {
		return nil
	}
	out := &ooxml.Color{RGB: c.RGB, Tint: c.Tint, Auto: c.Auto}
	if c.Theme != nil {
		v := *c.Theme
		out.Theme = &v
	}
	if c.Indexed != nil {
		v := *c.Indexed
		out.Indexed = &v
	}
	return out
}

func fontFromXML(f ooxml.Font) Font {
	out := Font{Bold: f.B != nil, Italic: f.I != nil, Strikethrough: f.Strike != nil}
	if f.U != nil {
		out.Underline = f.U.Val
	}
	if f.Name != nil {
		out.Name = f.Name.Val
	}
	if f.Sz != nil {
		out.Size = f.Sz.Val
	}
	out.Color = colorFromXML(f.Color)
	return out
}

func fontToXML(f Font) ooxml.Font {
	out := ooxml.Font{}
	if f.Bold {
		out.B = &struct{}{}
	}
	if f.Italic {
		out.I = &struct{}{}
	}
	if f.Strikethrough {
		out.Strike = &struct{}{}
	}
	if f.Underline != "" {
		out.U = &ooxml.UnderlineVal{Val: f.Underline}
	}
	if f.Name != "" {
		out.Name = &ooxml.StringVal{Val: f.Name}
	}
	if f.Size != 0 {
		out.Sz = &ooxml.FloatVal{Val: f.Size}
	}
	out.Color = colorToXML(f.Color)
	return out
}

func fillFromXML(f ooxml.Fill) Fill {
	if f.PatternFill == nil {
		return Fill{}
	}
	return Fill{
		PatternType: f.PatternFill.PatternType,
		FgColor:     colorFromXML(f.PatternFill.FgColor),
		BgColor:     colorFromXML(f.PatternFill.BgColor),
	}
}

func fillToXML(f Fill) ooxml.Fill {
	return ooxml.Fill{PatternFill: &ooxml.PatternFill{
		PatternType: f.PatternType,
		FgColor:     colorToXML(f.FgColor),
		BgColor:     colorToXML(f.BgColor),
	}}
}

func edgeFromXML(e ooxml.BorderEdge) BorderEdge {
	return BorderEdge{Style: e.Style, Color: colorFromXML(e.Color)}
}

func edgeToXML(e BorderEdge) ooxml.BorderEdge {
	return ooxml.BorderEdge{Style: e.Style, Color: colorToXML(e.Color)}
}

func borderFromXML(b ooxml.Border) Border {
	return Border{
		Left:     edgeFromXML(b.Left),
		Right:    edgeFromXML(b.Right),
		Top:      edgeFromXML(b.Top),
		Bottom:   edgeFromXML(b.Bottom),
		Diagonal: edgeFromXML(b.Diagonal),
	}
}

func borderToXML(b Border) ooxml.Border {
	return ooxml.Border{
		Left:     edgeToXML(b.Left),
		Right:    edgeToXML(b.Right),
		Top:      edgeToXML(b.Top),
		Bottom:   edgeToXML(b.Bottom),
		Diagonal: edgeToXML(b.Diagonal),
	}
}

func alignmentFromXML(a *ooxml.Alignment) Alignment {
	if a == nil {
		return Alignment{}
	}
	return Alignment{Horizontal: a.Horizontal, Vertical: a.Vertical, WrapText: a.WrapText, Indent: a.Indent}
}

func alignmentToXML(a Alignment) *ooxml.Alignment {
	if a == (Alignment{}) {
		return nil
	}
	return &ooxml.Alignment{Horizontal: a.Horizontal, Vertical: a.Vertical, WrapText: a.WrapText, Indent: a.Indent}
}

func xfFromXML(xf ooxml.Xf) Xf {
	return Xf{
		NumFmtID:  xf.NumFmtID,
		FontID:    xf.FontID,
		FillID:    xf.FillID,
		BorderID:  xf.BorderID,
		Alignment: alignmentFromXML(xf.Alignment),
	}
}

func xfToXML(x Xf) ooxml.Xf {
	return ooxml.Xf{
		NumFmtID:       x.NumFmtID,
		FontID:         x.FontID,
		FillID:         x.FillID,
		BorderID:       x.BorderID,
		ApplyNumberFmt: x.NumFmtID != 0,
		ApplyFont:      x.FontID != 0,
		ApplyFill:      x.FillID != 0,
		ApplyBorder:    x.BorderID != 0,
		ApplyAlignment: x.Alignment != (Alignment{}),
		Alignment:      alignmentToXML(x.Alignment),
	}
}

// Encode serialises the registry back to an ooxml.StyleSheet in the
// section order ECMA-376 §18.8 requires (numFmts, fonts, fills, borders,
// cellStyleXfs, cellXfs, cellStyles, dxfs, tableStyles).
func (r *Registry) Encode() *ooxml.StyleSheet {
	doc := &ooxml.StyleSheet{Xmlns: ooxml.NSMain}

	if len(r.numFmts) > 0 {
		nf := &ooxml.NumFmts{Count: len(r.numFmts)}
		for _, n := range r.numFmts {
			nf.NumFmt = append(nf.NumFmt, ooxml.NumFmt{NumFmtID: n.ID, FormatCode: n.FormatCode})
		}
		doc.NumFmts = nf
	}

	fonts := &ooxml.Fonts{Count: len(r.fonts)}
	for _, f := range r.fonts {
		fonts.Font = append(fonts.Font, fontToXML(f))
	}
	doc.Fonts = fonts

	fills := &ooxml.Fills{Count: len(r.fills)}
	for _, f := range r.fills {
		fills.Fill = append(fills.Fill, fillToXML(f))
	}
	doc.Fills = fills

	borders := &ooxml.Borders{Count: len(r.borders)}
	for _, b := range r.borders {
		borders.Border = append(borders.Border, borderToXML(b))
	}
	doc.Borders = borders

	if len(r.cellStyleXfs) > 0 {
		cxfs := &ooxml.CellXfs{Count: len(r.cellStyleXfs)}
		for _, x := range r.cellStyleXfs {
			cxfs.Xf = append(cxfs.Xf, xfToXML(x))
		}
		doc.CellStyleXfs = cxfs
	}

	cellXfs := &ooxml.CellXfs{Count: len(r.cellXfs)}
	for _, x := range r.cellXfs {
		cellXfs.Xf = append(cellXfs.Xf, xfToXML(x))
	}
	doc.CellXfs = cellXfs

	if len(r.cellStyles) > 0 {
		cs := &ooxml.CellStyles{Count: len(r.cellStyles)}
		for _, c := range r.cellStyles {
			cs.CellStyle = append(cs.CellStyle, ooxml.CellStyle{Name: c.Name, XfID: c.XfID, BuiltinID: c.BuiltinID})
		}
		doc.CellStyles = cs
	}

	if len(r.dxfs) > 0 {
		dxfs := &ooxml.Dxfs{Count: len(r.dxfs)}
		for _, d := range r.dxfs {
			xd := ooxml.Dxf{}
			if d.Font != nil {
				xf := fontToXML(*d.Font)
				xd.Font = &xf
			}
			if d.Fill != nil {
				xf := fillToXML(*d.Fill)
				xd.Fill = &xf
			}
			if d.Border != nil {
				xb := borderToXML(*d.Border)
				xd.Border = &xb
			}
			if d.NumFmt != nil {
				xd.NumFmt = &ooxml.NumFmt{NumFmtID: d.NumFmt.ID, FormatCode: d.NumFmt.FormatCode}
			}
			dxfs.Dxf = append(dxfs.Dxf, xd)
		}
		doc.Dxfs = dxfs
	}

	return doc
}

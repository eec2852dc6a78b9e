package ooxml

import "encoding/xml"

// StyleSheet binds xl/styles.xml.
type StyleSheet struct {
	XMLName      xml.Name      `xml:"styleSheet"`
	Xmlns        string        `xml:"xmlns,attr"`
	NumFmts      *NumFmts      `xml:"numFmts,omitempty"`
	Fonts        *Fonts        `xml:"fonts,omitempty"`
	Fills        *Fills        `xml:"fills,omitempty"`
	Borders      *Borders      `xml:"borders,omitempty"`
	CellStyleXfs *CellXfs      `xml:"cellStyleXfs,omitempty"`
	CellXfs      *CellXfs      `xml:"cellXfs,omitempty"`
	CellStyles   *CellStyles   `xml:"cellStyles,omitempty"`
	Dxfs         *Dxfs         `xml:"dxfs,omitempty"`
	TableStyles  *TableStyles  `xml:"tableStyles,omitempty"`
}

type NumFmts struct {
	Count  int      `xml:"count,attr,omitempty"`
	NumFmt []NumFmt `xml:"numFmt"`
}

type NumFmt struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type Fonts struct {
	Count int    `xml:"count,attr,omitempty"`
	Font  []Font `xml:"font"`
}

type Font struct {
	B      *struct{}  `xml:"b,omitempty"`
	I      *struct{}  `xml:"i,omitempty"`
	Strike *struct{}  `xml:"strike,omitempty"`
	U      *UnderlineVal `xml:"u,omitempty"`
	Sz     *FloatVal  `xml:"sz,omitempty"`
	Color  *Color     `xml:"color,omitempty"`
	Name   *StringVal `xml:"name,omitempty"`
	Family *IntVal    `xml:"family,omitempty"`
}

type UnderlineVal struct {
	Val string `xml:"val,attr,omitempty"`
}

type IntVal struct {
	Val int `xml:"val,attr"`
}

type Fills struct {
	Count int    `xml:"count,attr,omitempty"`
	Fill  []Fill `xml:"fill"`
}

type Fill struct {
	PatternFill *PatternFill `xml:"patternFill,omitempty"`
}

type PatternFill struct {
	PatternType string `xml:"patternType,attr,omitempty"`
	FgColor     *Color `xml:"fgColor,omitempty"`
	BgColor     *Color `xml:"bgColor,omitempty"`
}

type Borders struct {
	Count  int      `xml:"count,attr,omitempty"`
	Border []Border `xml:"border"`
}

type Border struct {
	Left     BorderEdge `xml:"left"`
	Right    BorderEdge `xml:"right"`
	Top      BorderEdge `xml:"top"`
	Bottom   BorderEdge `xml:"bottom"`
	Diagonal BorderEdge `xml:"diagonal"`
}

type BorderEdge struct {
	Style string `xml:"style,attr,omitempty"`
	Color *Color `xml:"color,omitempty"`
}

type CellXfs struct {
	Count int  `xml:"count,attr,omitempty"`
	Xf    []Xf `xml:"xf"`
}

// Xf binds one cellXfs/cellStyleXfs entry: the cross-product of a font,
// fill, border, and number format, plus alignment.
type Xf struct {
	NumFmtID        int        `xml:"numFmtId,attr,omitempty"`
	FontID          int        `xml:"fontId,attr,omitempty"`
	FillID          int        `xml:"fillId,attr,omitempty"`
	BorderID        int        `xml:"borderId,attr,omitempty"`
	XfID            int        `xml:"xfId,attr,omitempty"`
	ApplyNumberFmt  bool       `xml:"applyNumberFormat,attr,omitempty"`
	ApplyFont       bool       `xml:"applyFont,attr,omitempty"`
	ApplyFill       bool       `xml:"applyFill,attr,omitempty"`
	ApplyBorder     bool       `xml:"applyBorder,attr,omitempty"`
	ApplyAlignment  bool       `xml:"applyAlignment,attr,omitempty"`
	Alignment       *Alignment `xml:"alignment,omitempty"`
}

type Alignment struct {
	Horizontal string `xml:"horizontal,attr,omitempty"`
	Vertical   string `xml:"vertical,attr,omitempty"`
	WrapText   bool   `xml:"wrapText,attr,omitempty"`
	Indent     int    `xml:"indent,attr,omitempty"`
}

type CellStyles struct {
	Count     int         `xml:"count,attr,omitempty"`
	CellStyle []CellStyle `xml:"cellStyle"`
}

type CellStyle struct {
	Name    string `xml:"name,attr"`
	XfID    int    `xml:"xfId,attr"`
	BuiltinID *int `xml:"builtinId,attr,omitempty"`
}

// Dxfs binds the differential-format table used by conditional formatting.
type Dxfs struct {
	Count int  `xml:"count,attr,omitempty"`
	Dxf   []Dxf `xml:"dxf"`
}

type Dxf struct {
	Font   *Font   `xml:"font,omitempty"`
	Fill   *Fill   `xml:"fill,omitempty"`
	Border *Border `xml:"border,omitempty"`
	NumFmt *NumFmt `xml:"numFmt,omitempty"`
}

type TableStyles struct {
	Count             int           `xml:"count,attr,omitempty"`
	DefaultTableStyle string        `xml:"defaultTableStyle,attr,omitempty"`
	TableStyle        []TableStyle  `xml:"tableStyle,omitempty"`
}

type TableStyle struct {
	Name string `xml:"name,attr"`
}

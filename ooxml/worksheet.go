package ooxml

import "encoding/xml"

// Worksheet binds xl/worksheets/sheetN.xml.
type Worksheet struct {
	XMLName              xml.Name              `xml:"worksheet"`
	Xmlns                string                `xml:"xmlns,attr"`
	XmlnsR                string                `xml:"xmlns:r,attr"`
	Dimension             *Dimension             `xml:"dimension,omitempty"`
	SheetViews            *SheetViews            `xml:"sheetViews,omitempty"`
	SheetFormatPr         *SheetFormatPr         `xml:"sheetFormatPr,omitempty"`
	Cols                  *Cols                  `xml:"cols,omitempty"`
	SheetData             SheetData              `xml:"sheetData"`
	SheetProtection       *SheetProtection       `xml:"sheetProtection,omitempty"`
	MergeCells            *MergeCells            `xml:"mergeCells,omitempty"`
	ConditionalFormatting []ConditionalFormatting `xml:"conditionalFormatting,omitempty"`
	DataValidations       *DataValidations       `xml:"dataValidations,omitempty"`
	Hyperlinks            *Hyperlinks            `xml:"hyperlinks,omitempty"`
	PageMargins           *PageMargins           `xml:"pageMargins,omitempty"`
	AutoFilter            *AutoFilter            `xml:"autoFilter,omitempty"`
	TableParts            *TableParts            `xml:"tableParts,omitempty"`
	ExtLst                *ExtLst                `xml:"extLst,omitempty"`
}

type Dimension struct {
	Ref string `xml:"ref,attr"`
}

type SheetViews struct {
	SheetView []SheetView `xml:"sheetView"`
}

type SheetView struct {
	WorkbookViewID int         `xml:"workbookViewId,attr"`
	TabSelected    bool        `xml:"tabSelected,attr,omitempty"`
	Pane           *Pane       `xml:"pane,omitempty"`
}

// Pane binds a freeze-pane declaration.
type Pane struct {
	XSplit      float64 `xml:"xSplit,attr,omitempty"`
	YSplit      float64 `xml:"ySplit,attr,omitempty"`
	TopLeftCell string  `xml:"topLeftCell,attr,omitempty"`
	ActivePane  string  `xml:"activePane,attr,omitempty"`
	State       string  `xml:"state,attr,omitempty"` // "frozen", "split"
}

type SheetFormatPr struct {
	DefaultRowHeight float64 `xml:"defaultRowHeight,attr,omitempty"`
	DefaultColWidth  float64 `xml:"defaultColWidth,attr,omitempty"`
}

type Cols struct {
	Col []Col `xml:"col"`
}

// Col binds a <col> element; Min/Max describe the (inclusive) 1-based column
// range it applies to.
type Col struct {
	Min          int     `xml:"min,attr"`
	Max          int     `xml:"max,attr"`
	Width        float64 `xml:"width,attr,omitempty"`
	Style        int     `xml:"style,attr,omitempty"`
	Hidden       bool    `xml:"hidden,attr,omitempty"`
	OutlineLevel int     `xml:"outlineLevel,attr,omitempty"`
	CustomWidth  bool    `xml:"customWidth,attr,omitempty"`
}

type SheetData struct {
	Row []Row `xml:"row"`
}

type Row struct {
	R            int    `xml:"r,attr"`
	Spans        string `xml:"spans,attr,omitempty"`
	Height       float64 `xml:"ht,attr,omitempty"`
	CustomHeight bool   `xml:"customHeight,attr,omitempty"`
	Hidden       bool   `xml:"hidden,attr,omitempty"`
	OutlineLevel int    `xml:"outlineLevel,attr,omitempty"`
	Style        int    `xml:"s,attr,omitempty"`
	CustomFormat bool   `xml:"customFormat,attr,omitempty"`
	C            []Cell `xml:"c"`
}

// Cell binds a <c> element. T is the value-type discriminator: "s" (shared
// string index), "str" (inline formula-result string), "b" (boolean "0"/"1"),
// "e" (error code), "d" (ISO-8601 inline date), "" (numeric literal, the
// default when T is absent).
type Cell struct {
	R       string   `xml:"r,attr"`
	S       int      `xml:"s,attr,omitempty"`
	T       string   `xml:"t,attr,omitempty"`
	F       *Formula `xml:"f,omitempty"`
	V       string   `xml:"v,omitempty"`
	Is      *InlineString `xml:"is,omitempty"`
}

// Formula binds <f>: plain text, or a shared/array formula with its master
// range.
type Formula struct {
	Ref  string `xml:"ref,attr,omitempty"`
	T    string `xml:"t,attr,omitempty"` // "shared", "array", "" (normal)
	SI   *int   `xml:"si,attr,omitempty"`
	Text string `xml:",chardata"`
}

// InlineString binds <is>, an inline rich-text run container used for
// t="inlineStr" cells.
type InlineString struct {
	T  string    `xml:"t,omitempty"`
	R  []RichRun `xml:"r,omitempty"`
}

type SheetProtection struct {
	Sheet               bool   `xml:"sheet,attr,omitempty"`
	Password            string `xml:"password,attr,omitempty"`
	AlgorithmName       string `xml:"algorithmName,attr,omitempty"`
	HashValue           string `xml:"hashValue,attr,omitempty"`
	SaltValue           string `xml:"saltValue,attr,omitempty"`
	SpinCount           int    `xml:"spinCount,attr,omitempty"`
	SelectLockedCells   bool   `xml:"selectLockedCells,attr,omitempty"`
	SelectUnlockedCells bool   `xml:"selectUnlockedCells,attr,omitempty"`
}

type MergeCells struct {
	Count      int          `xml:"count,attr,omitempty"`
	MergeCell []MergeCell `xml:"mergeCell"`
}

type MergeCell struct {
	Ref string `xml:"ref,attr"`
}

// ConditionalFormatting binds one <conditionalFormatting sqref="...">
// block; Rule entries reference dxf indices by DxfID.
type ConditionalFormatting struct {
	Sqref string             `xml:"sqref,attr"`
	Rule  []ConditionalRule `xml:"cfRule"`
}

type ConditionalRule struct {
	Type     string `xml:"type,attr"`
	DxfID    *int   `xml:"dxfId,attr,omitempty"`
	Priority int    `xml:"priority,attr"`
	Operator string `xml:"operator,attr,omitempty"`
	Formula  []string `xml:"formula,omitempty"`
}

type DataValidations struct {
	Count          int              `xml:"count,attr,omitempty"`
	DataValidation []DataValidation `xml:"dataValidation"`
}

type DataValidation struct {
	Type             string `xml:"type,attr,omitempty"`
	Operator         string `xml:"operator,attr,omitempty"`
	AllowBlank       bool   `xml:"allowBlank,attr,omitempty"`
	ShowInputMessage bool   `xml:"showInputMessage,attr,omitempty"`
	ShowErrorMessage bool   `xml:"showErrorMessage,attr,omitempty"`
	ErrorTitle       string `xml:"errorTitle,attr,omitempty"`
	Error            string `xml:"error,attr,omitempty"`
	Sqref            string `xml:"sqref,attr"`
	Formula1         string `xml:"formula1,omitempty"`
	Formula2         string `xml:"formula2,omitempty"`
}

type Hyperlinks struct {
	Hyperlink []Hyperlink `xml:"hyperlink"`
}

// Hyperlink binds <hyperlink>: Ref is the anchoring cell; RID resolves
// against the sheet's own _rels part for external targets, Location is used
// for in-workbook jump targets instead.
type Hyperlink struct {
	Ref      string `xml:"ref,attr"`
	RID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr,omitempty"`
	Location string `xml:"location,attr,omitempty"`
	Tooltip  string `xml:"tooltip,attr,omitempty"`
	Display  string `xml:"display,attr,omitempty"`
}

type PageMargins struct {
	Left   float64 `xml:"left,attr"`
	Right  float64 `xml:"right,attr"`
	Top    float64 `xml:"top,attr"`
	Bottom float64 `xml:"bottom,attr"`
	Header float64 `xml:"header,attr"`
	Footer float64 `xml:"footer,attr"`
}

type AutoFilter struct {
	Ref string `xml:"ref,attr"`
}

type TableParts struct {
	Count      int          `xml:"count,attr,omitempty"`
	TablePart []TablePart `xml:"tablePart"`
}

type TablePart struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// ExtLst is a passthrough container for extension-list children this module
// does not build (sparklines, slicer lists, rich-value metadata): raw inner
// XML bytes are preserved verbatim.
type ExtLst struct {
	Inner []byte `xml:",innerxml"`
}

package ooxml

import "encoding/xml"

// Workbook binds xl/workbook.xml.
type Workbook struct {
	XMLName       xml.Name       `xml:"workbook"`
	Xmlns         string         `xml:"xmlns,attr"`
	XmlnsR        string         `xml:"xmlns:r,attr"`
	FileVersion   *FileVersion   `xml:"fileVersion,omitempty"`
	WorkbookPr    *WorkbookPr    `xml:"workbookPr,omitempty"`
	WorkbookProtection *WorkbookProtection `xml:"workbookProtection,omitempty"`
	BookViews     *BookViews     `xml:"bookViews,omitempty"`
	Sheets        Sheets         `xml:"sheets"`
	DefinedNames  *DefinedNames  `xml:"definedNames,omitempty"`
	CalcPr        *CalcPr        `xml:"calcPr,omitempty"`
}

type FileVersion struct {
	AppName string `xml:"appName,attr,omitempty"`
}

// WorkbookPr carries workbook-level flags, notably the 1904 date system.
type WorkbookPr struct {
	Date1904 bool `xml:"date1904,attr,omitempty"`
}

// WorkbookProtection mirrors the legacy-hash protection scheme (spec C9
// protect_workbook).
type WorkbookProtection struct {
	WorkbookPassword   string `xml:"workbookPassword,attr,omitempty"`
	LockStructure      bool   `xml:"lockStructure,attr,omitempty"`
	LockWindows        bool   `xml:"lockWindows,attr,omitempty"`
	WorkbookAlgorithmName string `xml:"workbookAlgorithmName,attr,omitempty"`
	WorkbookHashValue  string `xml:"workbookHashValue,attr,omitempty"`
	WorkbookSaltValue  string `xml:"workbookSaltValue,attr,omitempty"`
	WorkbookSpinCount  int    `xml:"workbookSpinCount,attr,omitempty"`
}

type BookViews struct {
	WorkbookView []WorkbookView `xml:"workbookView"`
}

type WorkbookView struct {
	ActiveTab int `xml:"activeTab,attr,omitempty"`
}

type Sheets struct {
	Sheet []SheetEntry `xml:"sheet"`
}

// SheetEntry is one row of the workbook's sheet list: its display name, a
// stable numeric id, visibility state, and the relationship id that
// resolves to the sheet's part path via workbook.xml.rels.
type SheetEntry struct {
	Name       string `xml:"name,attr"`
	SheetID    int    `xml:"sheetId,attr"`
	State      string `xml:"state,attr,omitempty"` // "visible" (default), "hidden", "veryHidden"
	RID        string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

type DefinedNames struct {
	DefinedName []DefinedName `xml:"definedName"`
}

// DefinedName binds one <definedName>: Name/LocalSheetID/Comment are
// attributes, the formula text is the element body.
type DefinedName struct {
	Name          string `xml:"name,attr"`
	LocalSheetID  *int   `xml:"localSheetId,attr,omitempty"`
	Comment       string `xml:"comment,attr,omitempty"`
	Hidden        bool   `xml:"hidden,attr,omitempty"`
	Value         string `xml:",chardata"`
}

type CalcPr struct {
	CalcID         int  `xml:"calcId,attr,omitempty"`
	FullCalcOnLoad bool `xml:"fullCalcOnLoad,attr,omitempty"`
}

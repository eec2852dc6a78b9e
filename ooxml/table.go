package ooxml

import "encoding/xml"

// Table binds xl/tables/tableN.xml.
type Table struct {
	XMLName     xml.Name     `xml:"table"`
	Xmlns       string       `xml:"xmlns,attr"`
	ID          int          `xml:"id,attr"`
	Name        string       `xml:"name,attr"`
	DisplayName string       `xml:"displayName,attr"`
	Ref         string       `xml:"ref,attr"`
	TableColumns TableColumns `xml:"tableColumns"`
	TableStyleInfo *TableStyleInfo `xml:"tableStyleInfo,omitempty"`
}

type TableColumns struct {
	Count       int           `xml:"count,attr,omitempty"`
	TableColumn []TableColumn `xml:"tableColumn"`
}

type TableColumn struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type TableStyleInfo struct {
	Name string `xml:"name,attr,omitempty"`
}

// Drawing binds the root element of xl/drawings/drawingN.xml
// (image/chart *builders* are out of scope; the package codec still needs
// to route and preserve these parts). Shapes and their anchor positions
// are not parsed: the body is kept as raw inner XML since this module
// does not author shapes.
type Drawing struct {
	XMLName xml.Name `xml:"wsDr"`
	Xmlns   string   `xml:"xmlns,attr"`
	XmlnsA  string   `xml:"xmlns:a,attr"`
	Inner   []byte   `xml:",innerxml"`
}

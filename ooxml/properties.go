package ooxml

import "encoding/xml"

// CoreProperties binds docProps/core.xml: Dublin Core metadata, expressed
// here as a struct-tag binding since none of its elements need the
// namespaced-child trick the slicer part does.
type CoreProperties struct {
	XMLName     xml.Name `xml:"cp:coreProperties"`
	XmlnsCP     string   `xml:"xmlns:cp,attr"`
	XmlnsDC     string   `xml:"xmlns:dc,attr"`
	XmlnsDCTerms string  `xml:"xmlns:dcterms,attr"`
	XmlnsDCMIType string `xml:"xmlns:dcmitype,attr"`
	XmlnsXSI    string   `xml:"xmlns:xsi,attr"`
	Creator     string   `xml:"dc:creator,omitempty"`
	Title       string   `xml:"dc:title,omitempty"`
	Created     *W3CDTF  `xml:"dcterms:created,omitempty"`
	Modified    *W3CDTF  `xml:"dcterms:modified,omitempty"`
}

// W3CDTF is a W3C date-time-formatted element, e.g. <dcterms:created
// xsi:type="dcterms:W3CDTF">2024-01-01T00:00:00Z</dcterms:created>.
type W3CDTF struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

// NewCoreProperties returns a CoreProperties with the standard namespace
// set and created/modified both stamped to ts (RFC3339 UTC); modified is
// included alongside created since a resave should update it.
func NewCoreProperties(ts string) *CoreProperties {
	return &CoreProperties{
		XmlnsCP: NSCoreProps, XmlnsDC: NSDublinCore, XmlnsDCTerms: NSDublinCoreTerms,
		XmlnsDCMIType: "http://purl.org/dc/dcmitype/", XmlnsXSI: "http://www.w3.org/2001/XMLSchema-instance",
		Created:  &W3CDTF{Type: "dcterms:W3CDTF", Value: ts},
		Modified: &W3CDTF{Type: "dcterms:W3CDTF", Value: ts},
	}
}

// AppProperties binds docProps/app.xml: Application (when set) plus the
// TitlesOfParts/HeadingPairs vectors real workbooks carry so a saved
// file's sheet list matches what Excel itself would write.
type AppProperties struct {
	XMLName        xml.Name   `xml:"Properties"`
	Xmlns          string     `xml:"xmlns,attr"`
	XmlnsVT        string     `xml:"xmlns:vt,attr"`
	Application    string     `xml:"Application,omitempty"`
	HeadingPairs   *VTVector  `xml:"HeadingPairs,omitempty"`
	TitlesOfParts  *VTVector  `xml:"TitlesOfParts,omitempty"`
}

type VTVector struct {
	Vector VTVectorBody `xml:"vt:vector"`
}

type VTVectorBody struct {
	Size     int    `xml:"size,attr"`
	BaseType string `xml:"baseType,attr"`
	Variant  []VTVariant `xml:"vt:variant,omitempty"`
	LPSTR    []string    `xml:"vt:lpstr,omitempty"`
}

type VTVariant struct {
	LPSTR string `xml:"vt:lpstr,omitempty"`
	I4    *int   `xml:"vt:i4,omitempty"`
}

// NewAppProperties returns AppProperties describing a workbook with the
// given appName and sheet names, in the HeadingPairs/TitlesOfParts shape
// Excel itself emits ("Worksheets", count) / (name, name, ...).
func NewAppProperties(appName string, sheetNames []string) *AppProperties {
	n := len(sheetNames)
	p := &AppProperties{Xmlns: NSExtendedProps, XmlnsVT: "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes", Application: appName}
	if n == 0 {
		return p
	}
	count := n
	p.HeadingPairs = &VTVector{Vector: VTVectorBody{
		Size: 2, BaseType: "variant",
		Variant: []VTVariant{{LPSTR: "Worksheets"}, {I4: &count}},
	}}
	p.TitlesOfParts = &VTVector{Vector: VTVectorBody{
		Size: n, BaseType: "lpstr", LPSTR: sheetNames,
	}}
	return p
}

package streamwriter

import (
	"encoding/xml"
	"io"

	"github.com/gosheetkit/sheetkit/ooxml"
)

const mainNS = ooxml.NSMain

// writePackageParts emits every remaining part a minimal single-sheet
// package needs, built from the same ooxml/style/sst encoders the
// workbook façade uses on a full save, so a file streamwriter produces
// opens identically to one written through Workbook.Save.
func (w *Writer) writePackageParts() error {
	if err := w.writeXML("[Content_Types].xml", ooxml.NewContentTypes([]ooxml.ContentOverride{
		{PartName: "/xl/workbook.xml", ContentType: ooxml.CTWorkbook},
		{PartName: "/xl/styles.xml", ContentType: ooxml.CTStyles},
		{PartName: "/xl/sharedStrings.xml", ContentType: ooxml.CTSharedStrings},
		{PartName: "/xl/worksheets/sheet1.xml", ContentType: ooxml.CTWorksheet},
	})); err != nil {
		return err
	}

	if err := w.writeXML("_rels/.rels", ooxml.NewRelationships([]ooxml.Relationship{
		{ID: "rId1", Type: ooxml.RelOfficeDocument, Target: "xl/workbook.xml"},
	})); err != nil {
		return err
	}

	if err := w.writeXML("xl/_rels/workbook.xml.rels", ooxml.NewRelationships([]ooxml.Relationship{
		{ID: "rId1", Type: ooxml.RelWorksheet, Target: "worksheets/sheet1.xml"},
		{ID: "rId2", Type: ooxml.RelStyles, Target: "styles.xml"},
		{ID: "rId3", Type: ooxml.RelSharedStrings, Target: "sharedStrings.xml"},
	})); err != nil {
		return err
	}

	wbXML := &ooxml.Workbook{
		Xmlns:  ooxml.NSMain,
		XmlnsR: ooxml.NSOfficeDocRels,
		Sheets: ooxml.Sheets{Sheet: []ooxml.SheetEntry{{Name: "Sheet1", SheetID: 1, RID: "rId1"}}},
	}
	if err := w.writeXML("xl/workbook.xml", wbXML); err != nil {
		return err
	}

	if err := w.writeXML("xl/styles.xml", w.styles.Encode()); err != nil {
		return err
	}

	sstBytes, err := ooxml.EncodeSst(w.sst.Encode())
	if err != nil {
		return err
	}
	sw, err := w.zw.Create("xl/sharedStrings.xml")
	if err != nil {
		return err
	}
	_, err = sw.Write(sstBytes)
	return err
}

func (w *Writer) writeXML(name string, v any) error {
	sw, err := w.zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(sw, xml.Header); err != nil {
		return err
	}
	data, err := xml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = sw.Write(data)
	return err
}

package opc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/ooxml"
)

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat([]byte{0x50, 0x4B, 0x03, 0x04, 0, 0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, FormatZip, f)

	f, err = DetectFormat([]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	require.NoError(t, err)
	require.Equal(t, FormatCFB, f)

	_, err = DetectFormat([]byte{1, 2, 3, 4})
	require.Error(t, err)
}

func TestResolveTarget(t *testing.T) {
	require.Equal(t, "/xl/worksheets/sheet1.xml", ResolveTarget("/xl/workbook.xml", "worksheets/sheet1.xml"))
	require.Equal(t, "/xl/styles.xml", ResolveTarget("/xl/workbook.xml", "styles.xml"))
	require.Equal(t, "/xl/media/image1.png", ResolveTarget("/xl/worksheets/sheet1.xml", "../media/image1.png"))
	require.Equal(t, "/xl/workbook.xml", ResolveTarget("/xl/worksheets/sheet1.xml", "/xl/workbook.xml"))
}

func TestRelsPathFor(t *testing.T) {
	require.Equal(t, "/_rels/.rels", RelsPathFor("/"))
	require.Equal(t, "/_rels/workbook.xml.rels", RelsPathFor("/workbook.xml"))
	require.Equal(t, "/xl/_rels/workbook.xml.rels", RelsPathFor("/xl/workbook.xml"))
}

func TestRelativeTarget(t *testing.T) {
	require.Equal(t, "worksheets/sheet1.xml", RelativeTarget("/xl/workbook.xml", "/xl/worksheets/sheet1.xml"))
	require.Equal(t, "../media/image1.png", RelativeTarget("/xl/worksheets/sheet1.xml", "/xl/media/image1.png"))
}

func TestNewPackageHasStandardParts(t *testing.T) {
	pkg := NewPackage()
	require.NotNil(t, pkg.Part("/[Content_Types].xml"))
	require.NotNil(t, pkg.Part("/_rels/.rels"))
}

func TestZipSaveThenReadRoundTrip(t *testing.T) {
	pkg := NewPackage()
	pkg.SetPart("/xl/workbook.xml", ooxml.CTWorkbook, &ooxml.Workbook{
		Sheets: ooxml.Sheets{Sheet: []ooxml.SheetEntry{{Name: "Sheet1", SheetID: 1, RID: "rId1"}}},
	})
	pkg.AddRelationship("/", ooxml.Relationship{ID: "rId1", Type: ooxml.RelOfficeDocument, Target: "xl/workbook.xml"})
	pkg.SetRawPart("/xl/worksheets/sheet1.xml", ooxml.CTWorksheet, []byte(`<worksheet/>`))

	var buf bytes.Buffer
	require.NoError(t, pkg.Save(&buf, SaveOptions{}))

	reopened, err := ReadPackage(bytesReaderAt{buf.Bytes()}, int64(buf.Len()), OpenOptions{})
	require.NoError(t, err)

	wbPart := reopened.Part("/xl/workbook.xml")
	require.NotNil(t, wbPart)

	rootRels := reopened.rels["/"]
	require.NotNil(t, rootRels)
	rel, ok := rootRels.ByID("rId1")
	require.True(t, ok)
	require.Equal(t, "xl/workbook.xml", rel.Target)
}

func TestAgileEncryptedSaveThenReadRoundTrip(t *testing.T) {
	pkg := NewPackage()
	pkg.SetRawPart("/xl/worksheets/sheet1.xml", ooxml.CTWorksheet, []byte(`<worksheet><sheetData/></worksheet>`))

	var buf bytes.Buffer
	require.NoError(t, pkg.Save(&buf, SaveOptions{Password: "hunter2"}))

	reopened, err := ReadPackage(bytesReaderAt{buf.Bytes()}, int64(buf.Len()), OpenOptions{Password: "hunter2"})
	require.NoError(t, err)
	require.NotNil(t, reopened.Part("/xl/worksheets/sheet1.xml"))

	_, err = ReadPackage(bytesReaderAt{buf.Bytes()}, int64(buf.Len()), OpenOptions{Password: "wrong"})
	require.Error(t, err)
}

func TestWriteZipDeterministicOrder(t *testing.T) {
	pkg := NewPackage()
	pkg.SetRawPart("/xl/workbook.xml", ooxml.CTWorkbook, []byte(`<workbook/>`))
	pkg.SetRawPart("/xl/worksheets/sheet2.xml", ooxml.CTWorksheet, []byte(`<worksheet/>`))
	pkg.SetRawPart("/xl/worksheets/sheet1.xml", ooxml.CTWorksheet, []byte(`<worksheet/>`))

	order := pkg.writeOrder()
	require.Equal(t, "/[Content_Types].xml", order[0])
	require.Equal(t, "/_rels/.rels", order[1])
	require.Equal(t, "/xl/workbook.xml", order[2])
}

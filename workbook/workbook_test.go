package workbook

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/ooxml"
	"github.com/gosheetkit/sheetkit/worksheet"
)

func TestNewHasDefaultSheet(t *testing.T) {
	wb := New()
	require.Equal(t, []string{"Sheet1"}, wb.SheetNames())
	sh, ok := wb.Sheet("Sheet1")
	require.True(t, ok)
	require.Equal(t, "Sheet1", sh.Name())
}

func TestSaveOpenRoundTrip(t *testing.T) {
	wb := New()
	sh, ok := wb.Sheet("Sheet1")
	require.True(t, ok)
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(42)))
	require.NoError(t, sh.SetCellValue("B1", worksheet.InlineStringValue("hello")))

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Equal(t, []string{"Sheet1"}, reopened.SheetNames())

	rsh, ok := reopened.Sheet("Sheet1")
	require.True(t, ok)
	v, err := rsh.GetCellValue("A1")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindNumber, v.Kind)
	require.Equal(t, 42.0, v.Number)

	v2, err := rsh.GetCellValue("B1")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindInlineString, v2.Kind)
	require.Equal(t, "hello", v2.Text)
}

func TestNewSheetValidatesNameAndDuplicate(t *testing.T) {
	wb := New()
	_, err := wb.NewSheet("Sheet1")
	require.Error(t, err)
	var wbErr *Error
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "SheetAlreadyExists", wbErr.Kind)

	_, err = wb.NewSheet("Bad:Name")
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "InvalidSheetName", wbErr.Kind)

	_, err = wb.NewSheet("Data")
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"Sheet1", "Data"}, wb.SheetNames())
}

func TestCopySheetClonesContent(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(7)))

	cp, err := wb.CopySheet("Sheet1", "Sheet1 copy")
	require.NoError(t, err)
	v, err := cp.GetCellValue("A1")
	require.NoError(t, err)
	require.Equal(t, 7.0, v.Number)

	// Mutating the copy must not affect the source.
	require.NoError(t, cp.SetCellValue("A1", worksheet.NumberValue(9)))
	orig, _ := sh.GetCellValue("A1")
	require.Equal(t, 7.0, orig.Number)
}

func TestRenameSheetRewritesFormulas(t *testing.T) {
	wb := New()
	other, err := wb.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, other.SetCellValue("A1", worksheet.FormulaValue("Sheet1!A1+1", nil)))

	require.NoError(t, wb.RenameSheet("Sheet1", "Renamed"))
	require.ElementsMatch(t, []string{"Renamed", "Other"}, wb.SheetNames())

	v, err := other.GetCellValue("A1")
	require.NoError(t, err)
	require.Equal(t, "Renamed!A1+1", v.FormulaText)
}

func TestDeleteSheetRejectsLastSheet(t *testing.T) {
	wb := New()
	err := wb.DeleteSheet("Sheet1")
	var wbErr *Error
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "CannotDeleteLastSheet", wbErr.Kind)
}

func TestMergeOverlapRejected(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.Merge("A1:B2"))
	err := sh.Merge("B2:C3")
	require.Error(t, err)
}

func TestSetDefinedNameValidatesAndDedups(t *testing.T) {
	wb := New()
	require.NoError(t, wb.SetDefinedName("MyRange", "Sheet1!$A$1", "", ""))
	require.NoError(t, wb.SetDefinedName("MyRange", "Sheet1!$A$2", "", ""))
	dn, ok := wb.DefinedName("MyRange", "")
	require.True(t, ok)
	require.Equal(t, "Sheet1!$A$2", dn.Value)
	require.Len(t, wb.DefinedNames(), 1)

	err := wb.SetDefinedName(" Bad", "1", "", "")
	var wbErr *Error
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "InvalidDefinedName", wbErr.Kind)
}

func TestProtectWorkbookComputesLegacyHash(t *testing.T) {
	wb := New()
	wb.ProtectWorkbook("secret", true, false)
	p, ok := wb.WorkbookProtection()
	require.True(t, ok)
	require.Len(t, p.LegacyPasswordHash, 4)

	wb.UnprotectWorkbook()
	_, ok = wb.WorkbookProtection()
	require.False(t, ok)
}

func TestSaveCarriesForwardPivotCacheRelationship(t *testing.T) {
	wb := New()
	wb.pkg.SetRawPart("/xl/pivotCache/pivotCacheDefinition1.xml", ooxml.CTPivotCacheDef, []byte(`<pivotCacheDefinition/>`))
	wb.passthroughRels = append(wb.passthroughRels, ooxml.Relationship{
		Type: ooxml.RelPivotCacheDef, Target: "pivotCache/pivotCacheDefinition1.xml",
	})

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	rels := reopened.pkg.RelationshipsFor("/xl/workbook.xml").ByType(ooxml.RelPivotCacheDef)
	require.Len(t, rels, 1)
	require.Equal(t, "pivotCache/pivotCacheDefinition1.xml", rels[0].Target)

	part := reopened.pkg.Part("/xl/pivotCache/pivotCacheDefinition1.xml")
	require.NotNil(t, part)
	raw, err := part.Raw()
	require.NoError(t, err)
	require.Contains(t, string(raw), "pivotCacheDefinition")

	// Saving again must keep carrying the relationship forward, not drop
	// it once it's no longer the original Open's own passthrough list.
	var buf2 bytes.Buffer
	require.NoError(t, reopened.Save(&buf2))
	reopened2, err := Open(bytes.NewReader(buf2.Bytes()), int64(buf2.Len()))
	require.NoError(t, err)
	require.Len(t, reopened2.pkg.RelationshipsFor("/xl/workbook.xml").ByType(ooxml.RelPivotCacheDef), 1)
}

func TestCopySheetCarriesForwardCommentsAndDrawing(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(1)))
	require.NoError(t, sh.hydrate())
	sh.ws.Comments = []byte(`<comments><commentList><comment ref="A1"/></commentList></comments>`)
	sh.ws.ThreadedComments = []byte(`<ThreadedComments><threadedComment ref="A1"/></ThreadedComments>`)
	sh.ws.Drawings = []byte(`<xdr:wsDr/>`)

	_, err := wb.CopySheet("Sheet1", "Sheet1 copy")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	rsh, ok := reopened.Sheet("Sheet1 copy")
	require.True(t, ok)
	require.NoError(t, rsh.hydrate())
	require.Contains(t, string(rsh.ws.Comments), `ref="A1"`)
	require.Contains(t, string(rsh.ws.ThreadedComments), `ref="A1"`)
	require.Contains(t, string(rsh.ws.Drawings), "xdr:wsDr")

	// The original sheet's own part must be untouched by the copy.
	orig, ok := reopened.Sheet("Sheet1")
	require.True(t, ok)
	require.NoError(t, orig.hydrate())
	require.Contains(t, string(orig.ws.Comments), `ref="A1"`)
}

func TestAddTableRoundTripsAndRejectsDuplicates(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.InlineStringValue("Name")))
	require.NoError(t, sh.AddTable("MyTable", "A1:B3", []string{"Name", "Value"}))

	err := sh.AddTable("MyTable", "A1:B3", []string{"Name", "Value"})
	var wbErr *Error
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "TableAlreadyExists", wbErr.Kind)

	_, err = sh.Table("NoSuchTable")
	require.ErrorAs(t, err, &wbErr)
	require.Equal(t, "TableNotFound", wbErr.Kind)

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	rsh, ok := reopened.Sheet("Sheet1")
	require.True(t, ok)

	tbl, err := rsh.Table("MyTable")
	require.NoError(t, err)
	require.Equal(t, "A1:B3", tbl.Ref)
	require.Equal(t, []string{"Name", "Value"}, tbl.Columns)

	// Saving again with the same table list must not accumulate extra
	// table parts or relationships.
	var buf2 bytes.Buffer
	require.NoError(t, reopened.Save(&buf2))
	reopened2, err := Open(bytes.NewReader(buf2.Bytes()), int64(buf2.Len()))
	require.NoError(t, err)
	rsh2, ok := reopened2.Sheet("Sheet1")
	require.True(t, ok)
	tables, err := rsh2.Tables()
	require.NoError(t, err)
	require.Len(t, tables, 1)
}

func TestSheetProtectUsesModernHash(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.Protect("secret"))
	require.NotNil(t, sh.ws.Protection)
	require.Equal(t, "SHA-512", sh.ws.Protection.AlgorithmName)
	require.NotEmpty(t, sh.ws.Protection.SaltValue)
	require.NotEmpty(t, sh.ws.Protection.HashValue)
	require.NoError(t, sh.Unprotect())
	require.Nil(t, sh.ws.Protection)
}

package workbook

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/worksheet"
)

func TestEvaluateSimpleFormula(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(2)))
	require.NoError(t, sh.SetCellValue("A2", worksheet.NumberValue(3)))
	require.NoError(t, sh.SetCellValue("A3", worksheet.FormulaValue("A1+A2", nil)))

	v, err := sh.Evaluate("A3")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindNumber, v.Kind)
	require.Equal(t, 5.0, v.Number)
}

func TestEvaluateCachesResult(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(10)))
	require.NoError(t, sh.SetCellValue("A2", worksheet.FormulaValue("A1*2", nil)))

	_, err := sh.Evaluate("A2")
	require.NoError(t, err)

	cell, err := sh.GetCellValue("A2")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindFormula, cell.Kind)
	require.NotNil(t, cell.Result)
	require.Equal(t, worksheet.KindNumber, cell.Result.Kind)
	require.Equal(t, 20.0, cell.Result.Number)
}

func TestEvaluateAcrossSheets(t *testing.T) {
	wb := New()
	sh1, _ := wb.Sheet("Sheet1")
	sh2, err := wb.NewSheet("Sheet2")
	require.NoError(t, err)

	require.NoError(t, sh1.SetCellValue("A1", worksheet.NumberValue(4)))
	require.NoError(t, sh2.SetCellValue("B1", worksheet.FormulaValue("Sheet1!A1+1", nil)))

	v, err := sh2.Evaluate("B1")
	require.NoError(t, err)
	require.Equal(t, 5.0, v.Number)
}

func TestEvaluateSharedStringFormula(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	idx := wb.sst.Intern("hi")
	require.NoError(t, sh.SetCellValue("A1", worksheet.SharedStringValue(idx)))
	require.NoError(t, sh.SetCellValue("A2", worksheet.FormulaValue(`A1&"!"`, nil)))

	v, err := sh.Evaluate("A2")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindInlineString, v.Kind)
	require.Equal(t, "hi!", v.Text)
}

func TestEvaluateCircularReference(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.FormulaValue("A2", nil)))
	require.NoError(t, sh.SetCellValue("A2", worksheet.FormulaValue("A1", nil)))

	v, err := sh.Evaluate("A1")
	require.NoError(t, err)
	require.Equal(t, worksheet.KindError, v.Kind)
	require.Equal(t, "#REF!", v.ErrorCode)
}

func TestRecalculateAll(t *testing.T) {
	wb := New()
	sh, _ := wb.Sheet("Sheet1")
	require.NoError(t, sh.SetCellValue("A1", worksheet.NumberValue(1)))
	require.NoError(t, sh.SetCellValue("A2", worksheet.FormulaValue("A1+1", nil)))
	require.NoError(t, sh.SetCellValue("A3", worksheet.FormulaValue("A2+1", nil)))

	require.NoError(t, wb.RecalculateAll())

	cell, err := sh.GetCellValue("A3")
	require.NoError(t, err)
	require.NotNil(t, cell.Result)
	require.Equal(t, 3.0, cell.Result.Number)
}

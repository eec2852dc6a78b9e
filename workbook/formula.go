package workbook

import (
	"fmt"
	"strings"

	"github.com/gosheetkit/sheetkit/cellref"
	"github.com/gosheetkit/sheetkit/formula"
	"github.com/gosheetkit/sheetkit/worksheet"
)

// resolver implements formula.Resolver against a live workbook, so the
// formula package never needs to know that a cell's value might itself
// be an unevaluated formula in another sheet.
type resolver struct {
	wb      *Workbook
	current string
	eval    *formula.Evaluator
}

func newResolver(wb *Workbook, defaultSheet string) *resolver {
	r := &resolver{wb: wb, current: defaultSheet}
	r.eval = formula.NewEvaluator(r)
	return r
}

func (r *resolver) DefaultSheet() string { return r.current }

// Cell resolves (sheet, col, row) to a formula.Value, recursively
// evaluating a formula cell (with cycle detection) and caching the
// result back into the worksheet model, the way Excel's recalculation
// updates a formula cell's cached value as a side effect of reading it.
func (r *resolver) Cell(sheet, col string, row int) formula.Value {
	sh, ok := r.wb.Sheet(sheet)
	if !ok {
		return formula.ErrorV("#REF!")
	}
	if err := sh.hydrate(); err != nil {
		return formula.ErrorV("#REF!")
	}
	colNum, err := cellref.ColumnNameToNumber(col)
	if err != nil {
		return formula.ErrorV("#REF!")
	}
	cell, ok := sh.ws.GetCell(colNum, row)
	if !ok {
		return formula.EmptyV
	}
	if cell.Value.Kind != worksheet.KindFormula {
		return literalToFormulaValue(r.wb, cell.Value)
	}

	key := fmt.Sprintf("%s!%s%d", sheet, col, row)
	if err := r.eval.Enter(key); err != nil {
		return formula.ErrorV("#REF!")
	}
	defer r.eval.Exit(key)

	expr, err := formula.Parse(cell.Value.FormulaText)
	if err != nil {
		return formula.ErrorV("#NAME?")
	}
	result, err := r.eval.Eval(expr)
	if err != nil {
		return formula.ErrorV("#VALUE!")
	}

	cached := formulaValueToWorksheetValue(result)
	_ = sh.ws.SetCell(colNum, row, worksheet.FormulaValue(cell.Value.FormulaText, &cached), cell.StyleIndex)
	return result
}

// literalToFormulaValue converts a non-formula cell's stored value into
// the formula package's runtime Value shape.
func literalToFormulaValue(wb *Workbook, v worksheet.Value) formula.Value {
	switch v.Kind {
	case worksheet.KindEmpty:
		return formula.EmptyV
	case worksheet.KindBool:
		return formula.BoolV(v.Bool)
	case worksheet.KindNumber, worksheet.KindDate:
		return formula.NumberV(v.Number)
	case worksheet.KindInlineString:
		return formula.StringV(v.Text)
	case worksheet.KindSharedString:
		item, err := wb.sst.Get(v.SSTIndex)
		if err != nil {
			return formula.ErrorV("#REF!")
		}
		return formula.StringV(item.Text())
	case worksheet.KindRichText:
		var b strings.Builder
		for _, run := range v.Runs {
			b.WriteString(run.Text)
		}
		return formula.StringV(b.String())
	case worksheet.KindError:
		return formula.ErrorV(v.ErrorCode)
	default:
		return formula.EmptyV
	}
}

// formulaValueToWorksheetValue converts an evaluated formula.Value into
// the worksheet.Value shape stored as a formula cell's cached Result.
func formulaValueToWorksheetValue(v formula.Value) worksheet.Value {
	switch v.Kind {
	case formula.VNumber:
		return worksheet.NumberValue(v.Number)
	case formula.VString:
		return worksheet.InlineStringValue(v.Str)
	case formula.VBool:
		return worksheet.BoolValue(v.Bool)
	case formula.VError:
		return worksheet.ErrorValue(v.Err)
	default:
		return worksheet.Empty
	}
}

// Evaluate resolves ref's current value, evaluating (and caching) its
// formula if it holds one. Reading a non-formula cell returns its
// stored value unchanged.
func (s *Sheet) Evaluate(ref string) (worksheet.Value, error) {
	if err := s.hydrate(); err != nil {
		return worksheet.Value{}, err
	}
	col, row, err := cellref.CellNameToCoordinates(ref)
	if err != nil {
		return worksheet.Value{}, errKind("InvalidCellReference", "workbook: %v", err)
	}
	if cell, ok := s.ws.GetCell(col, row); ok && cell.Value.Kind != worksheet.KindFormula {
		return cell.Value, nil
	}
	colName, err := cellref.ColumnNumberToName(col)
	if err != nil {
		return worksheet.Value{}, errKind("InvalidCellReference", "workbook: %v", err)
	}
	r := newResolver(s.wb, s.name)
	return formulaValueToWorksheetValue(r.Cell(s.name, colName, row)), nil
}

// RecalculateAll evaluates every formula cell in every sheet, caching
// each result the same way Evaluate does for a single cell. Each top-
// level cell starts its own cycle-detection chain, so a circular
// reference in one formula surfaces as #REF! there without poisoning
// unrelated cells.
func (wb *Workbook) RecalculateAll() error {
	for _, sh := range wb.sheets {
		if err := sh.hydrate(); err != nil {
			return err
		}
		for _, rowNum := range sh.ws.RowNumbers() {
			row, ok := sh.ws.RowIfPresent(rowNum)
			if !ok {
				continue
			}
			for colNum, cell := range row.Cells {
				if cell.Value.Kind != worksheet.KindFormula {
					continue
				}
				colName, err := cellref.ColumnNumberToName(colNum)
				if err != nil {
					return err
				}
				r := newResolver(wb, sh.name)
				r.Cell(sh.name, colName, rowNum)
			}
		}
	}
	return nil
}

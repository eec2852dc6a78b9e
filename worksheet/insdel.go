package worksheet

import "github.com/gosheetkit/sheetkit/cellref"

// InsertRows shifts every row at or after at down by n (n > 0),
// rewriting formula references on this sheet that point at or below
// at, and rewrites merge-region and row-descriptor bookkeeping to
// match.
func (s *Sheet) InsertRows(at, n int) {
	if n <= 0 {
		return
	}
	newRows := make(map[int]*Row, len(s.rows))
	for rowNum, r := range s.rows {
		target := rowNum
		if rowNum >= at {
			target = rowNum + n
		}
		newRows[target] = r
	}
	s.rows = newRows
	s.shiftFormulasRows(at, n)
	for i := range s.Merges {
		m := &s.Merges[i]
		_, r1, _, r2, err := m.rect()
		if err != nil {
			continue
		}
		if r1 >= at {
			r1 += n
		}
		if r2 >= at {
			r2 += n
		}
		m.r1, m.r2 = r1, r2
		start, _ := cellref.CoordinatesToCellName(m.c1, r1)
		end, _ := cellref.CoordinatesToCellName(m.c2, r2)
		m.Ref = start + ":" + end
	}
}

// DeleteRows removes the n rows starting at "at", shifting everything
// below up by n and rewriting formula references accordingly.
func (s *Sheet) DeleteRows(at, n int) {
	if n <= 0 {
		return
	}
	newRows := make(map[int]*Row, len(s.rows))
	for rowNum, r := range s.rows {
		switch {
		case rowNum >= at && rowNum < at+n:
			continue // deleted
		case rowNum >= at+n:
			newRows[rowNum-n] = r
		default:
			newRows[rowNum] = r
		}
	}
	s.rows = newRows
	s.shiftFormulasRows(at, -n)
}

// InsertColumns shifts every cell and column descriptor at or after at
// right by n.
func (s *Sheet) InsertColumns(at, n int) {
	if n <= 0 {
		return
	}
	for _, r := range s.rows {
		newCells := make(map[int]*Cell, len(r.Cells))
		for col, c := range r.Cells {
			target := col
			if col >= at {
				target = col + n
			}
			newCells[target] = c
		}
		r.Cells = newCells
	}
	newCols := make(map[int]*ColumnProps, len(s.Columns))
	for col, c := range s.Columns {
		target := col
		if col >= at {
			target = col + n
		}
		newCols[target] = c
	}
	s.Columns = newCols
	s.shiftFormulasCols(at, n)
	for i := range s.Merges {
		m := &s.Merges[i]
		c1, _, c2, _, err := m.rect()
		if err != nil {
			continue
		}
		if c1 >= at {
			c1 += n
		}
		if c2 >= at {
			c2 += n
		}
		m.c1, m.c2 = c1, c2
		start, _ := cellref.CoordinatesToCellName(c1, m.r1)
		end, _ := cellref.CoordinatesToCellName(c2, m.r2)
		m.Ref = start + ":" + end
	}
}

// DeleteColumns removes the n columns starting at "at", shifting
// everything to the right left by n.
func (s *Sheet) DeleteColumns(at, n int) {
	if n <= 0 {
		return
	}
	for _, r := range s.rows {
		newCells := make(map[int]*Cell, len(r.Cells))
		for col, c := range r.Cells {
			switch {
			case col >= at && col < at+n:
				continue
			case col >= at+n:
				newCells[col-n] = c
			default:
				newCells[col] = c
			}
		}
		r.Cells = newCells
	}
	newCols := make(map[int]*ColumnProps, len(s.Columns))
	for col, c := range s.Columns {
		switch {
		case col >= at && col < at+n:
			continue
		case col >= at+n:
			newCols[col-n] = c
		default:
			newCols[col] = c
		}
	}
	s.Columns = newCols
	s.shiftFormulasCols(at, -n)
}

func (s *Sheet) shiftFormulasRows(at, delta int) {
	s.walkFormulas(func(text string) string {
		return ShiftReferences(text, func(ref Ref) (Ref, bool) {
			if ref.Sheet != "" && ref.Sheet != s.Name {
				return ref, false
			}
			if ref.Row < at {
				return ref, false
			}
			ref.Row += delta
			return ref, true
		})
	})
}

func (s *Sheet) shiftFormulasCols(at, delta int) {
	s.walkFormulas(func(text string) string {
		return ShiftReferences(text, func(ref Ref) (Ref, bool) {
			if ref.Sheet != "" && ref.Sheet != s.Name {
				return ref, false
			}
			if ref.Col < at {
				return ref, false
			}
			ref.Col += delta
			return ref, true
		})
	})
}

// RenameSheetReferences rewrites every formula on this sheet that
// qualifies a reference with oldName to use newName instead, leaving
// unqualified references (implicitly this sheet) and references to any
// other sheet untouched.
func (s *Sheet) RenameSheetReferences(oldName, newName string) {
	s.walkFormulas(func(text string) string {
		return ShiftReferences(text, func(ref Ref) (Ref, bool) {
			if ref.Sheet != oldName {
				return ref, false
			}
			ref.Sheet = newName
			return ref, true
		})
	})
}

func (s *Sheet) walkFormulas(rewrite func(string) string) {
	for _, r := range s.rows {
		for _, c := range r.Cells {
			if c.Value.Kind == KindFormula {
				c.Value.FormulaText = rewrite(c.Value.FormulaText)
			}
		}
	}
}

package workbook

import (
	"fmt"

	"github.com/gosheetkit/sheetkit/cellref"
	"github.com/gosheetkit/sheetkit/ooxml"
	"github.com/gosheetkit/sheetkit/opc"
	"github.com/gosheetkit/sheetkit/worksheet"
	"github.com/gosheetkit/sheetkit/xlcrypto"
)

// Sheet is a façade over one worksheet part: its cells stay unparsed
// until first touched, so opening a workbook to read one sheet out of
// a hundred never pays to decode the other ninety-nine.
type Sheet struct {
	wb       *Workbook
	name     string
	partName string
	sheetID  int

	ws  *worksheet.Sheet
	raw []byte // set only when opened but not yet hydrated
}

func (s *Sheet) Name() string { return s.name }

// rawPart returns the sheet's last-known serialised bytes without
// forcing hydration, used by Save to re-emit an untouched sheet
// verbatim.
func (s *Sheet) rawPart() ([]byte, error) {
	if s.raw != nil {
		return s.raw, nil
	}
	part := s.wb.pkg.Part(s.partName)
	if part == nil {
		return nil, errKind("Internal", "workbook: sheet %q is missing its part %q", s.name, s.partName)
	}
	raw, err := part.Raw()
	if err != nil {
		return nil, err
	}
	s.raw = raw
	return raw, nil
}

// hydrate decodes the sheet's worksheet part on first access. A no-op
// once ws is populated.
func (s *Sheet) hydrate() error {
	if s.ws != nil {
		return nil
	}
	part := s.wb.pkg.Part(s.partName)
	if part == nil {
		// A sheet created in memory (NewSheet/CopySheet) never had a
		// backing part to begin with.
		s.ws = worksheet.New(s.name)
		return nil
	}
	var doc ooxml.Worksheet
	if err := unmarshalPart(s.wb.pkg, s.partName, &doc); err != nil {
		return err
	}
	numFmtOf := func(styleIndex int) (int, string) {
		xf, err := s.wb.styles.CellXf(styleIndex)
		if err != nil {
			return 0, ""
		}
		code, _ := s.wb.styles.FormatCode(xf.NumFmtID)
		return xf.NumFmtID, code
	}
	ws, err := worksheet.Decode(s.name, &doc, numFmtOf)
	if err != nil {
		return err
	}
	if s.wb.opts.RowCap > 0 {
		for _, rowNum := range ws.RowNumbers() {
			if rowNum > s.wb.opts.RowCap {
				ws.DeleteRow(rowNum)
			}
		}
	}
	ws.Comments = s.readOwnRelPart(ooxml.RelComments)
	ws.ThreadedComments = s.readOwnRelPart(ooxml.RelThreadedComment)
	ws.Drawings = s.readOwnRelPart(ooxml.RelDrawing)
	if doc.TableParts != nil {
		rels := s.wb.pkg.RelationshipsFor(s.partName)
		for _, tp := range doc.TableParts.TablePart {
			rel, ok := rels.ByID(tp.RID)
			if !ok {
				continue
			}
			target := opc.ResolveTarget(s.partName, rel.Target)
			var t ooxml.Table
			if err := unmarshalPart(s.wb.pkg, target, &t); err != nil {
				return err
			}
			cols := make([]string, len(t.TableColumns.TableColumn))
			for i, c := range t.TableColumns.TableColumn {
				cols[i] = c.Name
			}
			styleName := ""
			if t.TableStyleInfo != nil {
				styleName = t.TableStyleInfo.Name
			}
			ws.Tables = append(ws.Tables, worksheet.Table{
				Name: t.Name, Ref: t.Ref, Columns: cols, StyleName: styleName,
			})
		}
	}
	s.ws = ws
	s.raw = nil
	return nil
}

// saveOwnedCommentParts writes this sheet's preserved comments/
// threaded-comments/drawing bytes (if any) as their own parts and wires
// a fresh relationship for each into the sheet's own _rels, but only
// when the sheet doesn't already have one of that type: a sheet that
// came from Open keeps its original, untouched relationship (its own
// _rels file is never rebuilt by Save), so this only fires for a sheet
// that has the bytes but no relationship yet — i.e. CopySheet's clone,
// whose fresh part name starts with an empty relationship set.
func (s *Sheet) saveOwnedCommentParts() {
	if len(s.ws.Comments) > 0 && len(s.wb.pkg.RelationshipsFor(s.partName).ByType(ooxml.RelComments)) == 0 {
		target := commentsPartNameFor(s.partName)
		s.wb.pkg.SetRawPart(target, ooxml.CTComments, s.ws.Comments)
		s.wb.pkg.AddRelationship(s.partName, ooxml.Relationship{
			Type: ooxml.RelComments, Target: opc.RelativeTarget(s.partName, target),
		})
	}
	if len(s.ws.ThreadedComments) > 0 && len(s.wb.pkg.RelationshipsFor(s.partName).ByType(ooxml.RelThreadedComment)) == 0 {
		target := threadedCommentsPartNameFor(s.partName)
		s.wb.pkg.SetRawPart(target, ooxml.CTThreadedComments, s.ws.ThreadedComments)
		s.wb.pkg.AddRelationship(s.partName, ooxml.Relationship{
			Type: ooxml.RelThreadedComment, Target: opc.RelativeTarget(s.partName, target),
		})
	}
	if len(s.ws.Drawings) > 0 && len(s.wb.pkg.RelationshipsFor(s.partName).ByType(ooxml.RelDrawing)) == 0 {
		target := drawingPartNameFor(s.partName)
		s.wb.pkg.SetRawPart(target, ooxml.CTDrawing, s.ws.Drawings)
		s.wb.pkg.AddRelationship(s.partName, ooxml.Relationship{
			Type: ooxml.RelDrawing, Target: opc.RelativeTarget(s.partName, target),
		})
	}
}

// commentsPartNameFor, threadedCommentsPartNameFor, and
// drawingPartNameFor derive a part name unique per sheet from the
// sheet's own worksheet part name (itself already unique, via
// workbook.nextWorksheetPart's counter), so a freshly-copied sheet's
// comments/drawing never collide with its source's.
func commentsPartNameFor(sheetPartName string) string {
	return "/xl/comments" + worksheetOrdinal(sheetPartName) + ".xml"
}

func threadedCommentsPartNameFor(sheetPartName string) string {
	return "/xl/threadedComments/threadedComment" + worksheetOrdinal(sheetPartName) + ".xml"
}

func drawingPartNameFor(sheetPartName string) string {
	return "/xl/drawings/drawing" + worksheetOrdinal(sheetPartName) + ".xml"
}

// saveOwnedTables writes each of this sheet's tables as its own
// xl/tables/tableN.xml part, rewires the sheet's own table-type
// relationships to match, and fills enc.TableParts so the worksheet
// XML's own <tableParts> element references them by id. Unlike the
// comments/threaded-comments/drawing passthrough, a sheet's tables are
// a fully typed domain model (workbook.Sheet.AddTable, decoded in
// hydrate), so every save fully re-derives the table parts and
// relationships from the current worksheet.Table list rather than
// carrying forward untouched bytes — clearing the prior table
// relationships first (instead of only adding when absent, as the
// preserved-bytes passthroughs do) keeps a deleted or renamed table
// from leaving a stale relationship or part behind. Part names are
// derived deterministically from the sheet's own part name and the
// table's position, so repeated saves of an unchanged table list
// overwrite the same part rather than accumulating new ones.
func (s *Sheet) saveOwnedTables(enc *ooxml.Worksheet) {
	rels := s.wb.pkg.RelationshipsFor(s.partName)
	kept := rels.Rels[:0:0]
	for _, r := range rels.Rels {
		if r.Type != ooxml.RelTable {
			kept = append(kept, r)
		}
	}
	rels.Rels = kept

	if len(s.ws.Tables) == 0 {
		enc.TableParts = nil
		return
	}

	tp := &ooxml.TableParts{Count: len(s.ws.Tables)}
	for i, t := range s.ws.Tables {
		target := tablePartNameFor(s.partName, i)
		id := fmt.Sprintf("rIdTable%d", i+1)
		xt := &ooxml.Table{
			Xmlns: ooxml.NSMain, ID: i + 1, Name: t.Name, DisplayName: t.Name, Ref: t.Ref,
		}
		for j, col := range t.Columns {
			xt.TableColumns.TableColumn = append(xt.TableColumns.TableColumn, ooxml.TableColumn{ID: j + 1, Name: col})
		}
		xt.TableColumns.Count = len(xt.TableColumns.TableColumn)
		if t.StyleName != "" {
			xt.TableStyleInfo = &ooxml.TableStyleInfo{Name: t.StyleName}
		}
		s.wb.pkg.SetPart(target, ooxml.CTTable, xt)
		s.wb.pkg.AddRelationship(s.partName, ooxml.Relationship{
			ID: id, Type: ooxml.RelTable, Target: opc.RelativeTarget(s.partName, target),
		})
		tp.TablePart = append(tp.TablePart, ooxml.TablePart{RID: id})
	}
	enc.TableParts = tp
}

func tablePartNameFor(sheetPartName string, index int) string {
	return fmt.Sprintf("/xl/tables/table%s_%d.xml", worksheetOrdinal(sheetPartName), index+1)
}

// AddTable defines a new table on the sheet, failing TableAlreadyExists
// if a table by that name is already defined here.
func (s *Sheet) AddTable(name, ref string, columns []string) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	for _, t := range s.ws.Tables {
		if t.Name == name {
			return errKind("TableAlreadyExists", "workbook: table %q already exists on sheet %q", name, s.name)
		}
	}
	s.ws.Tables = append(s.ws.Tables, worksheet.Table{
		Name: name, Ref: ref, Columns: append([]string(nil), columns...),
	})
	return nil
}

// Table looks up a table by name, failing TableNotFound if none exists
// on this sheet.
func (s *Sheet) Table(name string) (worksheet.Table, error) {
	if err := s.hydrate(); err != nil {
		return worksheet.Table{}, err
	}
	for _, t := range s.ws.Tables {
		if t.Name == name {
			return t, nil
		}
	}
	return worksheet.Table{}, errKind("TableNotFound", "workbook: table %q not found on sheet %q", name, s.name)
}

// Tables returns every table defined on the sheet.
func (s *Sheet) Tables() ([]worksheet.Table, error) {
	if err := s.hydrate(); err != nil {
		return nil, err
	}
	out := make([]worksheet.Table, len(s.ws.Tables))
	copy(out, s.ws.Tables)
	return out, nil
}

// worksheetOrdinal extracts the trailing digits of a "/xl/worksheets/
// sheetN.xml"-shaped part name.
func worksheetOrdinal(sheetPartName string) string {
	end := len(sheetPartName) - len(".xml")
	start := end
	for start > 0 && sheetPartName[start-1] >= '0' && sheetPartName[start-1] <= '9' {
		start--
	}
	if start == end {
		return "1"
	}
	return sheetPartName[start:end]
}

// readOwnRelPart returns the raw bytes of the first part this sheet's own
// _rels reaches via relType, or nil if there is none — used to carry
// comments/threaded-comments parts into the domain model as preserved
// bytes since this façade has no typed authoring API for them.
func (s *Sheet) readOwnRelPart(relType string) []byte {
	rels := s.wb.pkg.RelationshipsFor(s.partName).ByType(relType)
	if len(rels) == 0 {
		return nil
	}
	target := opc.ResolveTarget(s.partName, rels[0].Target)
	part := s.wb.pkg.Part(target)
	if part == nil {
		return nil
	}
	raw, err := part.Raw()
	if err != nil {
		return nil
	}
	return raw
}

// SetCellValue writes v at ref, preserving ref's existing style index.
func (s *Sheet) SetCellValue(ref string, v worksheet.Value) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	col, row, err := cellref.CellNameToCoordinates(ref)
	if err != nil {
		return errKind("InvalidCellReference", "workbook: %v", err)
	}
	styleIndex := 0
	if existing, ok := s.ws.GetCell(col, row); ok {
		styleIndex = existing.StyleIndex
	}
	return s.ws.SetCell(col, row, v, styleIndex)
}

// SetCellValueWithStyle writes v and styleIndex at ref.
func (s *Sheet) SetCellValueWithStyle(ref string, v worksheet.Value, styleIndex int) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	col, row, err := cellref.CellNameToCoordinates(ref)
	if err != nil {
		return errKind("InvalidCellReference", "workbook: %v", err)
	}
	return s.ws.SetCell(col, row, v, styleIndex)
}

// GetCellValue returns ref's value, the empty Value for a cell never
// written to.
func (s *Sheet) GetCellValue(ref string) (worksheet.Value, error) {
	if err := s.hydrate(); err != nil {
		return worksheet.Value{}, err
	}
	col, row, err := cellref.CellNameToCoordinates(ref)
	if err != nil {
		return worksheet.Value{}, errKind("InvalidCellReference", "workbook: %v", err)
	}
	cell, ok := s.ws.GetCell(col, row)
	if !ok {
		return worksheet.Value{}, nil
	}
	return cell.Value, nil
}

// SetCellRichText writes a multi-run rich-text value at ref.
func (s *Sheet) SetCellRichText(ref string, runs []worksheet.Run) error {
	return s.SetCellValue(ref, worksheet.RichTextValue(runs))
}

func (s *Sheet) Merge(ref string) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	return s.ws.Merge(ref)
}

func (s *Sheet) Unmerge(ref string) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	return s.ws.Unmerge(ref)
}

func (s *Sheet) MergedRegions() ([]worksheet.MergeRegion, error) {
	if err := s.hydrate(); err != nil {
		return nil, err
	}
	out := make([]worksheet.MergeRegion, len(s.ws.Merges))
	copy(out, s.ws.Merges)
	return out, nil
}

func (s *Sheet) InsertRows(at, n int) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	s.ws.InsertRows(at, n)
	return nil
}

func (s *Sheet) DeleteRows(at, n int) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	s.ws.DeleteRows(at, n)
	return nil
}

func (s *Sheet) InsertColumns(at, n int) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	s.ws.InsertColumns(at, n)
	return nil
}

func (s *Sheet) DeleteColumns(at, n int) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	s.ws.DeleteColumns(at, n)
	return nil
}

// Protect sets sheet-level structure protection using the modern
// MS-OFFCRYPTO SHA-512 iterated hash scheme (distinct from the
// workbook's legacy XOR hash — Excel has used both at once since the
// sheetProtection element gained hashValue/saltValue/spinCount).
func (s *Sheet) Protect(password string) error {
	if err := s.hydrate(); err != nil {
		return err
	}
	algo, salt, hash, spin, err := xlcrypto.ProtectionHash(password)
	if err != nil {
		return err
	}
	s.ws.Protection = &worksheet.Protection{
		Enabled:       true,
		AlgorithmName: algo,
		HashValue:     hash,
		SaltValue:     salt,
		SpinCount:     spin,
	}
	return nil
}

// Unprotect clears sheet-level structure protection.
func (s *Sheet) Unprotect() error {
	if err := s.hydrate(); err != nil {
		return err
	}
	s.ws.Protection = nil
	return nil
}

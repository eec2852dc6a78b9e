package workbook

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"

	"github.com/gosheetkit/sheetkit/ooxml"
	"github.com/gosheetkit/sheetkit/opc"
	"github.com/gosheetkit/sheetkit/sst"
	"github.com/gosheetkit/sheetkit/style"
)

// Open reads a workbook from a ZIP or CFB-wrapped package, following the
// standard relationship chain (root rels -> officeDocument -> workbook
// part -> workbook's own rels for styles/sharedStrings/theme/sheets).
// Every sheet stays lazy: only its name and part path are read up
// front, and its cells decode on first access, unless WithEager is set.
func Open(r io.ReaderAt, size int64, options ...OpenOption) (*Workbook, error) {
	opts := buildOpenOptions(options)

	pkg, err := opc.ReadPackage(r, size, opc.OpenOptions{Password: opts.Password, Limits: opts.Limits})
	if err != nil {
		return nil, err
	}

	rootRels := pkg.RelationshipsFor("/")
	docRels := rootRels.ByType(ooxml.RelOfficeDocument)
	if len(docRels) == 0 {
		return nil, errKind("Internal", "workbook: package has no officeDocument relationship")
	}
	workbookPart := opc.ResolveTarget("/", docRels[0].Target)

	var wbXML ooxml.Workbook
	if err := unmarshalPart(pkg, workbookPart, &wbXML); err != nil {
		return nil, err
	}

	wbRels := pkg.RelationshipsFor(workbookPart)

	wb := &Workbook{
		pkg:        pkg,
		sheetIndex: map[string]int{},
		opts:       opts,
	}
	if wbXML.FileVersion != nil {
		wb.AppName = wbXML.FileVersion.AppName
	}
	if wb.AppName == "" {
		wb.AppName = "sheetkit"
	}
	if wbXML.WorkbookPr != nil {
		wb.Date1904 = wbXML.WorkbookPr.Date1904
	}
	if wbXML.WorkbookProtection != nil {
		p := wbXML.WorkbookProtection
		wb.protection = &Protection{
			Enabled:            true,
			LockStructure:      p.LockStructure,
			LockWindows:        p.LockWindows,
			LegacyPasswordHash: p.WorkbookPassword,
		}
	}
	if wbXML.DefinedNames != nil {
		sheetByLocalID := map[int]string{}
		for i, se := range wbXML.Sheets.Sheet {
			sheetByLocalID[i] = se.Name
		}
		for _, dn := range wbXML.DefinedNames.DefinedName {
			scope := ""
			if dn.LocalSheetID != nil {
				scope = sheetByLocalID[*dn.LocalSheetID]
			}
			wb.definedNames = append(wb.definedNames, DefinedName{
				Name: dn.Name, Scope: scope, Value: dn.Value, Comment: dn.Comment, Hidden: dn.Hidden,
			})
		}
	}

	if stylesRels := wbRels.ByType(ooxml.RelStyles); len(stylesRels) > 0 {
		stylesPart := opc.ResolveTarget(workbookPart, stylesRels[0].Target)
		var ss ooxml.StyleSheet
		if err := unmarshalPart(pkg, stylesPart, &ss); err != nil {
			return nil, err
		}
		wb.styles = style.Decode(&ss)
	} else {
		wb.styles = style.New()
	}

	if themeRels := wbRels.ByType(ooxml.RelTheme); len(themeRels) > 0 {
		themePart := opc.ResolveTarget(workbookPart, themeRels[0].Target)
		var th ooxml.Theme
		if err := unmarshalPart(pkg, themePart, &th); err != nil {
			return nil, err
		}
		wb.theme = &th
		wb.styles.SetTheme(&th)
	}

	if sstRels := wbRels.ByType(ooxml.RelSharedStrings); len(sstRels) > 0 {
		sstPart := opc.ResolveTarget(workbookPart, sstRels[0].Target)
		part := pkg.Part(sstPart)
		if part == nil {
			return nil, errKind("Internal", "workbook: missing shared-strings part %q", sstPart)
		}
		raw, err := part.Raw()
		if err != nil {
			return nil, err
		}
		doc, err := ooxml.DecodeSst(raw)
		if err != nil {
			return nil, err
		}
		wb.sst = sst.Decode(doc)
	} else {
		wb.sst = sst.New()
	}

	wb.passthroughRels = passthroughWorkbookRels(wbRels)

	sheetRels := wbRels.ByType(ooxml.RelWorksheet)
	relByID := map[string]ooxml.Relationship{}
	for _, rel := range sheetRels {
		relByID[rel.ID] = rel
	}

	maxID := 0
	for _, se := range wbXML.Sheets.Sheet {
		if !opts.sheetAllowed(se.Name) {
			continue
		}
		rel, ok := relByID[se.RID]
		if !ok {
			continue
		}
		partName := opc.ResolveTarget(workbookPart, rel.Target)
		sh := &Sheet{
			wb:       wb,
			name:     se.Name,
			partName: partName,
			sheetID:  se.SheetID,
		}
		if se.SheetID > maxID {
			maxID = se.SheetID
		}
		wb.sheetIndex[se.Name] = len(wb.sheets)
		wb.sheets = append(wb.sheets, sh)
	}
	wb.nextSheetID = maxID + 1
	wb.partCounter = len(wb.sheets)

	if opts.Eager {
		for _, sh := range wb.sheets {
			if err := sh.hydrate(); err != nil {
				return nil, err
			}
		}
	}

	if len(wb.sheets) == 0 {
		return nil, errKind("Internal", "workbook: package has no visible worksheets")
	}

	return wb, nil
}

// passthroughWorkbookRels picks out every workbook-level relationship
// this façade doesn't read into its own fields (pivot caches, pivot
// tables, the calc chain, external links, and anything else unknown),
// so Save can carry them forward instead of silently dropping their
// target parts from the relationship graph.
func passthroughWorkbookRels(wbRels *ooxml.Relationships) []ooxml.Relationship {
	handled := map[string]bool{
		ooxml.RelWorksheet:     true,
		ooxml.RelStyles:        true,
		ooxml.RelSharedStrings: true,
		ooxml.RelTheme:         true,
	}
	var out []ooxml.Relationship
	for _, rel := range wbRels.Rels {
		if !handled[rel.Type] {
			out = append(out, rel)
		}
	}
	return out
}

func unmarshalPart(pkg *opc.Package, partName string, v any) error {
	part := pkg.Part(partName)
	if part == nil {
		return errKind("Internal", "workbook: missing part %q", partName)
	}
	raw, err := part.Raw()
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(raw, v); err != nil {
		return &Error{Kind: "XmlParse", Msg: fmt.Sprintf("workbook: parse %q: %v", partName, err)}
	}
	return nil
}

// Save re-encodes every hydrated sheet, the style registry, and the
// shared-string table, rebuilds workbook.xml and its relationship set
// from scratch (relationship ids are reassigned, not preserved from an
// opened file), carries forward any workbook-level relationship this
// façade doesn't otherwise model (pivot caches, calc chain, external
// links) so their target parts stay wired rather than orphaned, and
// writes the resulting package to w.
func (wb *Workbook) Save(w io.Writer, options ...SaveOption) error {
	opts := buildSaveOptions(options)

	rid := 0
	nextRID := func() string {
		rid++
		return fmt.Sprintf("rId%d", rid)
	}

	wbXML := &ooxml.Workbook{
		Xmlns:  ooxml.NSMain,
		XmlnsR: ooxml.NSOfficeDocRels,
		FileVersion: &ooxml.FileVersion{AppName: wb.AppName},
		WorkbookPr:  &ooxml.WorkbookPr{Date1904: wb.Date1904},
		BookViews:   &ooxml.BookViews{WorkbookView: []ooxml.WorkbookView{{ActiveTab: 0}}},
	}
	if wb.protection != nil {
		wbXML.WorkbookProtection = &ooxml.WorkbookProtection{
			WorkbookPassword: wb.protection.LegacyPasswordHash,
			LockStructure:    wb.protection.LockStructure,
			LockWindows:      wb.protection.LockWindows,
		}
	}
	if len(wb.definedNames) > 0 {
		dn := &ooxml.DefinedNames{}
		for _, d := range wb.definedNames {
			entry := ooxml.DefinedName{Name: d.Name, Comment: d.Comment, Hidden: d.Hidden, Value: d.Value}
			if d.Scope != "" {
				if idx, ok := wb.sheetIndex[d.Scope]; ok {
					entry.LocalSheetID = &idx
				}
			}
			dn.DefinedName = append(dn.DefinedName, entry)
		}
		wbXML.DefinedNames = dn
	}

	wbRels := ooxml.NewRelationships(nil)

	for _, sh := range wb.sheets {
		if sh.ws == nil {
			raw, err := sh.rawPart()
			if err != nil {
				return err
			}
			wb.pkg.SetRawPart(sh.partName, ooxml.CTWorksheet, raw)
		} else {
			enc, err := sh.ws.Encode()
			if err != nil {
				return err
			}
			sh.saveOwnedTables(enc)
			wb.pkg.SetPart(sh.partName, ooxml.CTWorksheet, enc)
			sh.saveOwnedCommentParts()
		}
		id := nextRID()
		wbRels.Rels = append(wbRels.Rels, ooxml.Relationship{
			ID: id, Type: ooxml.RelWorksheet, Target: opc.RelativeTarget("/xl/workbook.xml", sh.partName),
		})
		wbXML.Sheets.Sheet = append(wbXML.Sheets.Sheet, ooxml.SheetEntry{
			Name: sh.name, SheetID: sh.sheetID, RID: id,
		})
	}

	wb.pkg.SetPart("/xl/styles.xml", ooxml.CTStyles, wb.styles.Encode())
	stylesRID := nextRID()
	wbRels.Rels = append(wbRels.Rels, ooxml.Relationship{ID: stylesRID, Type: ooxml.RelStyles, Target: "styles.xml"})

	sstBytes, err := ooxml.EncodeSst(wb.sst.Encode())
	if err != nil {
		return err
	}
	wb.pkg.SetRawPart("/xl/sharedStrings.xml", ooxml.CTSharedStrings, sstBytes)
	sstRID := nextRID()
	wbRels.Rels = append(wbRels.Rels, ooxml.Relationship{ID: sstRID, Type: ooxml.RelSharedStrings, Target: "sharedStrings.xml"})

	if wb.theme != nil {
		themeBytes, err := xml.Marshal(wb.theme)
		if err != nil {
			return errKind("Internal", "workbook: encode theme: %v", err)
		}
		wb.pkg.SetRawPart("/xl/theme/theme1.xml", ooxml.CTTheme, append([]byte(xml.Header), themeBytes...))
		themeRID := nextRID()
		wbRels.Rels = append(wbRels.Rels, ooxml.Relationship{ID: themeRID, Type: ooxml.RelTheme, Target: "theme/theme1.xml"})
	}

	for _, rel := range wb.passthroughRels {
		rel.ID = nextRID()
		wbRels.Rels = append(wbRels.Rels, rel)
	}

	wb.pkg.SetPart("/xl/workbook.xml", ooxml.CTWorkbook, wbXML)
	wb.pkg.SetRelationships("/xl/workbook.xml", wbRels)

	ts := time.Now().UTC().Format(time.RFC3339)
	wb.pkg.SetPart("/docProps/core.xml", ooxml.CTCoreProps, ooxml.NewCoreProperties(ts))
	wb.pkg.SetPart("/docProps/app.xml", ooxml.CTExtendedProps, ooxml.NewAppProperties(wb.AppName, wb.SheetNames()))

	rootRels := ooxml.NewRelationships([]ooxml.Relationship{
		{ID: "rId1", Type: ooxml.RelOfficeDocument, Target: "xl/workbook.xml"},
		{ID: "rId2", Type: ooxml.RelCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: ooxml.RelExtendedProps, Target: "docProps/app.xml"},
	})
	wb.pkg.SetRelationships("/", rootRels)

	return wb.pkg.Save(w, opc.SaveOptions{Password: opts.Password})
}

// Package workbook implements the façade that wires the package codec,
// style registry, shared-string table, and per-sheet worksheet model
// into the single entry point a caller opens, mutates, and saves.
package workbook

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gosheetkit/sheetkit/ooxml"
	"github.com/gosheetkit/sheetkit/opc"
	"github.com/gosheetkit/sheetkit/sst"
	"github.com/gosheetkit/sheetkit/style"
	"github.com/gosheetkit/sheetkit/worksheet"
)

// Error kinds raised directly by this package. Errors surfaced by the
// packages it wires (worksheet, style, opc, sst) pass through unchanged
// and remain matchable with errors.As against their own *Error types.
type Error struct {
	Kind string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

func errKind(kind, format string, a ...any) error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, a...)}
}

// DefinedName is a workbook- or sheet-scoped named formula or reference.
type DefinedName struct {
	Name    string
	Scope   string // sheet name the definition is local to, or "" for workbook scope
	Value   string
	Comment string
	Hidden  bool
}

// Protection is workbook-level legacy structure/window protection (the
// classic workbookPassword attribute, not the modern per-sheet hash
// scheme — see Sheet.Protect for that).
type Protection struct {
	Enabled            bool
	LockStructure      bool
	LockWindows        bool
	LegacyPasswordHash string // 4 uppercase hex digits, "" if unprotected
}

// Workbook is the top-level façade: the wired-together package,
// style registry, shared-string table, and sheet list a caller opens,
// mutates, and saves.
type Workbook struct {
	AppName  string
	Date1904 bool

	pkg    *opc.Package
	styles *style.Registry
	sst    *sst.Table
	theme  *ooxml.Theme

	sheets      []*Sheet
	sheetIndex  map[string]int
	nextSheetID int
	partCounter int

	definedNames []DefinedName
	protection   *Protection

	// passthroughRels holds workbook-level relationships Open found that
	// this façade doesn't model (pivot caches, external links, calc
	// chain, and anything else future formats add): Save re-emits these
	// unchanged, with freshly assigned ids, so their target parts (kept
	// as untouched raw bytes in pkg) don't become orphaned on a
	// read/write round trip that never touched them.
	passthroughRels []ooxml.Relationship

	opts OpenOptions
}

// New returns a workbook with one default sheet ("Sheet1"), an empty
// style registry, and an empty shared-string table — the way a new
// Excel workbook always starts with at least one sheet.
func New() *Workbook {
	wb := &Workbook{
		pkg:        opc.NewPackage(),
		styles:     style.New(),
		sst:        sst.New(),
		sheetIndex: map[string]int{},
		AppName:    "sheetkit",
	}
	if _, err := wb.NewSheet("Sheet1"); err != nil {
		panic("workbook: New's default sheet name is always valid: " + err.Error())
	}
	return wb
}

// Styles returns the workbook's style registry, for AddFont/AddFill/
// AddBorder/AddNumFmt/AddCellXf calls that back AddStyle.
func (wb *Workbook) Styles() *style.Registry { return wb.styles }

// AddStyle interns xf (built from the registry's font/fill/border/
// numFmt tables) and returns its deduplicated cellXfs index, failing
// CellStylesExceeded past the registry's cap.
func (wb *Workbook) AddStyle(xf style.Xf) (int, error) {
	return wb.styles.AddCellXf(xf)
}

// validateSheetName enforces Excel's sheet-name rules: 1-31 runes, no
// leading/trailing quote, no :\/?*[] characters.
func validateSheetName(s string) error {
	n := utf8.RuneCountInString(s)
	if n == 0 {
		return errKind("InvalidSheetName", "workbook: sheet name must not be empty")
	}
	if n > 31 {
		return errKind("InvalidSheetName", "workbook: sheet name %q exceeds the 31-character limit", s)
	}
	if strings.HasPrefix(s, "'") || strings.HasSuffix(s, "'") {
		return errKind("InvalidSheetName", "workbook: sheet name %q must not start or end with a single quote", s)
	}
	if strings.ContainsAny(s, ":\\/?*[]") {
		return errKind("InvalidSheetName", "workbook: sheet name %q contains a reserved character", s)
	}
	return nil
}

func (wb *Workbook) nextWorksheetPart() string {
	wb.partCounter++
	return fmt.Sprintf("/xl/worksheets/sheet%d.xml", wb.partCounter)
}

// NewSheet appends a new, empty sheet named name.
func (wb *Workbook) NewSheet(name string) (*Sheet, error) {
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	if _, exists := wb.sheetIndex[name]; exists {
		return nil, errKind("SheetAlreadyExists", "workbook: sheet %q already exists", name)
	}
	sh := &Sheet{
		wb:       wb,
		name:     name,
		partName: wb.nextWorksheetPart(),
		sheetID:  wb.nextSheetID,
		ws:       worksheet.New(name),
	}
	wb.nextSheetID++
	wb.sheetIndex[name] = len(wb.sheets)
	wb.sheets = append(wb.sheets, sh)
	return sh, nil
}

// CopySheet deep-clones src's content under dst, a new sheet with its
// own target part.
func (wb *Workbook) CopySheet(src, dst string) (*Sheet, error) {
	srcSheet, ok := wb.Sheet(src)
	if !ok {
		return nil, errKind("SheetNotFound", "workbook: sheet %q not found", src)
	}
	if err := validateSheetName(dst); err != nil {
		return nil, err
	}
	if _, exists := wb.sheetIndex[dst]; exists {
		return nil, errKind("SheetAlreadyExists", "workbook: sheet %q already exists", dst)
	}
	if err := srcSheet.hydrate(); err != nil {
		return nil, err
	}
	sh := &Sheet{
		wb:       wb,
		name:     dst,
		partName: wb.nextWorksheetPart(),
		sheetID:  wb.nextSheetID,
		ws:       srcSheet.ws.Clone(dst),
	}
	wb.nextSheetID++
	wb.sheetIndex[dst] = len(wb.sheets)
	wb.sheets = append(wb.sheets, sh)
	return sh, nil
}

// RenameSheet renames a sheet in place: its sheet id and part are
// unchanged, but every formula and defined name anywhere in the
// workbook that qualifies a reference with the old name is rewritten to
// the new one. Renaming necessarily forces every sheet to hydrate,
// since any of them might hold a qualified reference to old.
func (wb *Workbook) RenameSheet(old, newName string) error {
	idx, ok := wb.sheetIndex[old]
	if !ok {
		return errKind("SheetNotFound", "workbook: sheet %q not found", old)
	}
	if old == newName {
		return nil
	}
	if err := validateSheetName(newName); err != nil {
		return err
	}
	if _, exists := wb.sheetIndex[newName]; exists {
		return errKind("SheetAlreadyExists", "workbook: sheet %q already exists", newName)
	}
	for _, sh := range wb.sheets {
		if err := sh.hydrate(); err != nil {
			return err
		}
		sh.ws.RenameSheetReferences(old, newName)
	}
	for i := range wb.definedNames {
		dn := &wb.definedNames[i]
		if dn.Scope == old {
			dn.Scope = newName
		}
		dn.Value = worksheet.ShiftReferences(dn.Value, func(ref worksheet.Ref) (worksheet.Ref, bool) {
			if ref.Sheet != old {
				return ref, false
			}
			ref.Sheet = newName
			return ref, true
		})
	}
	sh := wb.sheets[idx]
	sh.name = newName
	sh.ws.Name = newName
	delete(wb.sheetIndex, old)
	wb.sheetIndex[newName] = idx
	return nil
}

// DeleteSheet removes a sheet; a workbook must always retain at least
// one.
func (wb *Workbook) DeleteSheet(name string) error {
	idx, ok := wb.sheetIndex[name]
	if !ok {
		return errKind("SheetNotFound", "workbook: sheet %q not found", name)
	}
	if len(wb.sheets) == 1 {
		return errKind("CannotDeleteLastSheet", "workbook: a workbook must retain at least one sheet")
	}
	wb.sheets = append(wb.sheets[:idx], wb.sheets[idx+1:]...)
	delete(wb.sheetIndex, name)
	for i := idx; i < len(wb.sheets); i++ {
		wb.sheetIndex[wb.sheets[i].name] = i
	}
	return nil
}

// Sheet returns the named sheet.
func (wb *Workbook) Sheet(name string) (*Sheet, bool) {
	idx, ok := wb.sheetIndex[name]
	if !ok {
		return nil, false
	}
	return wb.sheets[idx], true
}

// SheetNames returns every sheet name in tab order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, sh := range wb.sheets {
		names[i] = sh.name
	}
	return names
}

// Sheets returns every sheet in tab order.
func (wb *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, len(wb.sheets))
	copy(out, wb.sheets)
	return out
}

// validateDefinedName ports original_source's defined-name validation:
// non-empty, no leading/trailing whitespace, none of \/?*[].
const definedNameInvalidChars = `\/?*[]`

func validateDefinedName(name string) error {
	if name == "" {
		return errKind("InvalidDefinedName", "workbook: defined name must not be empty")
	}
	if strings.TrimSpace(name) != name {
		return errKind("InvalidDefinedName", "workbook: defined name %q must not start or end with whitespace", name)
	}
	if strings.ContainsAny(name, definedNameInvalidChars) {
		return errKind("InvalidDefinedName", "workbook: defined name %q contains a reserved character", name)
	}
	return nil
}

// SetDefinedName adds or updates (by name, scope) a workbook- or
// sheet-scoped defined name. scope == "" means workbook-wide.
func (wb *Workbook) SetDefinedName(name, value, scope, comment string) error {
	if err := validateDefinedName(name); err != nil {
		return err
	}
	if scope != "" {
		if _, ok := wb.Sheet(scope); !ok {
			return errKind("InvalidDefinedName", "workbook: defined name scope %q is not a sheet in this workbook", scope)
		}
	}
	for i := range wb.definedNames {
		if wb.definedNames[i].Name == name && wb.definedNames[i].Scope == scope {
			wb.definedNames[i].Value = value
			wb.definedNames[i].Comment = comment
			return nil
		}
	}
	wb.definedNames = append(wb.definedNames, DefinedName{Name: name, Scope: scope, Value: value, Comment: comment})
	return nil
}

// DefinedName looks up a defined name by (name, scope).
func (wb *Workbook) DefinedName(name, scope string) (DefinedName, bool) {
	for _, dn := range wb.definedNames {
		if dn.Name == name && dn.Scope == scope {
			return dn, true
		}
	}
	return DefinedName{}, false
}

// DefinedNames returns every defined name in the workbook.
func (wb *Workbook) DefinedNames() []DefinedName {
	out := make([]DefinedName, len(wb.definedNames))
	copy(out, wb.definedNames)
	return out
}

// DeleteDefinedName removes a defined name by (name, scope).
func (wb *Workbook) DeleteDefinedName(name, scope string) error {
	for i := range wb.definedNames {
		if wb.definedNames[i].Name == name && wb.definedNames[i].Scope == scope {
			wb.definedNames = append(wb.definedNames[:i], wb.definedNames[i+1:]...)
			return nil
		}
	}
	return errKind("DefinedNameNotFound", "workbook: no defined name %q in scope %q", name, scope)
}

// legacyPasswordHash computes Excel's classic 16-bit workbook-protection
// password verifier, stored as the 4-hex-digit workbookPassword
// attribute. The rotate-left/XOR algorithm and the 0xCE4B constant are
// Excel's own; the 16-bit rotate only has meaning for the first 15
// characters (round-tripping what the rotate amount 15-i already
// assumes), so longer passwords are truncated before hashing.
func legacyPasswordHash(password string) uint16 {
	if password == "" {
		return 0
	}
	b := []byte(password)
	if len(b) > 15 {
		b = b[:15]
	}
	var hash uint16
	for i, c := range b {
		v := uint16(c)
		left := uint(i + 1)
		right := uint(15 - i)
		v = (v << left) | (v >> right)
		hash ^= v
	}
	hash ^= uint16(len(b))
	hash ^= 0xCE4B
	return hash
}

// ProtectWorkbook enables legacy workbook-structure protection.
func (wb *Workbook) ProtectWorkbook(password string, lockStructure, lockWindows bool) {
	wb.protection = &Protection{
		Enabled:            true,
		LockStructure:      lockStructure,
		LockWindows:        lockWindows,
		LegacyPasswordHash: fmt.Sprintf("%04X", legacyPasswordHash(password)),
	}
}

// UnprotectWorkbook clears workbook-structure protection.
func (wb *Workbook) UnprotectWorkbook() { wb.protection = nil }

// WorkbookProtection reports the current protection state.
func (wb *Workbook) WorkbookProtection() (Protection, bool) {
	if wb.protection == nil {
		return Protection{}, false
	}
	return *wb.protection, true
}


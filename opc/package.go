package opc

import (
	"encoding/xml"
	"io"

	"github.com/gosheetkit/sheetkit/ooxml"
)

// Part is one file inside the package. Its body lives in one of two
// forms: raw bytes (as read from the container, or as last serialised)
// or a typed value set via SetPart, which wins on save.
type Part struct {
	Name        string
	ContentType string
	raw         []byte
	typed       any
}

// Raw returns the part's serialised bytes, materialising them from the
// typed form first if one was set.
func (p *Part) Raw() ([]byte, error) {
	if p.typed == nil {
		return p.raw, nil
	}
	data, err := xml.Marshal(p.typed)
	if err != nil {
		return nil, errXML("marshal part %q: %v", p.Name, err)
	}
	return append([]byte(xml.Header), data...), nil
}

// Package is an in-memory OPC container: a flat map of parts plus the
// content-type and relationship metadata that wires them together.
type Package struct {
	parts         map[string]*Part
	contentTypes  *ooxml.ContentTypes
	rels          map[string]*ooxml.Relationships // keyed by owning part name
	sourceFormat  Format
	limits        Limits
}

// NewPackage returns an empty package seeded with the standard
// [Content_Types].xml defaults and an empty root .rels file, ready for a
// workbook façade to populate.
func NewPackage() *Package {
	pkg := &Package{
		parts:  map[string]*Part{},
		rels:   map[string]*ooxml.Relationships{},
		limits: DefaultLimits,
	}
	pkg.contentTypes = ooxml.NewContentTypes(nil)
	pkg.rels["/"] = ooxml.NewRelationships(nil)
	pkg.putTyped("/[Content_Types].xml", ooxml.CTPlainXML, pkg.contentTypes)
	pkg.putTyped("/_rels/.rels", ooxml.CTRels, pkg.rels["/"])
	return pkg
}

// OpenOptions controls how ReadPackage interprets a container.
type OpenOptions struct {
	Password string
	Limits   Limits // zero value falls back to DefaultLimits
}

// ReadPackage opens a ZIP or CFB-wrapped OOXML package, parses
// [Content_Types].xml and every .rels file eagerly, and retains every
// other part as raw bytes for lazy, on-demand typed access by the
// worksheet/workbook façade layer.
func ReadPackage(r io.ReaderAt, size int64, opts OpenOptions) (*Package, error) {
	limits := opts.Limits
	if limits.MaxDecompressedSize == 0 && limits.MaxEntryCount == 0 {
		limits = DefaultLimits
	}

	header := make([]byte, 8)
	n, err := r.ReadAt(header, 0)
	if err != nil && err != io.EOF {
		return nil, errIo("read container header: %v", err)
	}
	format, ferr := DetectFormat(header[:n])
	if ferr != nil {
		return nil, ferr
	}

	var zipBytes []byte
	switch format {
	case FormatZip:
		// Re-read lazily through readZip directly against the ReaderAt;
		// no need to buffer the whole file up front for the plain case.
		parts, err := readZip(r, size, limits)
		if err != nil {
			return nil, err
		}
		return assemblePackage(parts, format, limits)
	case FormatCFB:
		zipBytes, err = readCFB(r, size, opts.Password)
		if err != nil {
			return nil, err
		}
		parts, err := readZip(bytesReaderAt{zipBytes}, int64(len(zipBytes)), limits)
		if err != nil {
			return nil, err
		}
		return assemblePackage(parts, format, limits)
	default:
		return nil, errUnsupportedFormat("unrecognised package container")
	}
}

// bytesReaderAt adapts a byte slice to io.ReaderAt without pulling in
// bytes.Reader's stateful offset (zip.NewReader only needs ReadAt).
type bytesReaderAt struct{ b []byte }

func (r bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r.b)) {
		return 0, io.EOF
	}
	n := copy(p, r.b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func assemblePackage(rawParts map[string][]byte, format Format, limits Limits) (*Package, error) {
	pkg := &Package{
		parts:        map[string]*Part{},
		rels:         map[string]*ooxml.Relationships{},
		sourceFormat: format,
		limits:       limits,
	}
	for name, data := range rawParts {
		pkg.parts[name] = &Part{Name: name, raw: data}
	}

	ctPart, ok := pkg.parts["/[Content_Types].xml"]
	if !ok {
		return nil, errXML("package is missing [Content_Types].xml")
	}
	var ct ooxml.ContentTypes
	if err := xml.Unmarshal(ctPart.raw, &ct); err != nil {
		return nil, errXML("parse [Content_Types].xml: %v", err)
	}
	pkg.contentTypes = &ct
	ctPart.typed = &ct
	pkg.applyContentType(ctPart.Name, &ct)

	for name, p := range pkg.parts {
		if isRelsPart(name) {
			var rels ooxml.Relationships
			if err := xml.Unmarshal(p.raw, &rels); err != nil {
				return nil, errXML("parse %q: %v", name, err)
			}
			owner := ownerForRelsPath(name)
			pkg.rels[owner] = &rels
			p.typed = &rels
		}
	}
	if _, ok := pkg.rels["/"]; !ok {
		return nil, errXML("package is missing _rels/.rels")
	}

	for name, p := range pkg.parts {
		if ctype, ok := ct.Override(name); ok {
			p.ContentType = ctype
		} else {
			p.ContentType = defaultContentTypeFor(name, &ct)
		}
	}
	return pkg, nil
}

func (pkg *Package) applyContentType(name string, v any) {
	if p, ok := pkg.parts[name]; ok {
		p.typed = v
	}
}

func isRelsPart(name string) bool {
	return len(name) > 6 && name[len(name)-6:] == ".rels"
}

// ownerForRelsPath inverts RelsPathFor: "/xl/_rels/workbook.xml.rels" ->
// "/xl/workbook.xml"; "/_rels/.rels" -> "/".
func ownerForRelsPath(relsPath string) string {
	if relsPath == "/_rels/.rels" {
		return "/"
	}
	// Strip the "_rels/" segment and the trailing ".rels" suffix.
	dir, base := splitDirBase(relsPath)
	parentDir, relsDir := splitDirBase(dir)
	if relsDir != "_rels" {
		return relsPath // malformed, but don't panic on it
	}
	owner := base[:len(base)-len(".rels")]
	if parentDir == "/" {
		return "/" + owner
	}
	return parentDir + "/" + owner
}

func splitDirBase(p string) (dir, base string) {
	for i := len(p) - 1; i >= 0; i-- {
		if p[i] == '/' {
			if i == 0 {
				return "/", p[1:]
			}
			return p[:i], p[i+1:]
		}
	}
	return "", p
}

func defaultContentTypeFor(name string, ct *ooxml.ContentTypes) string {
	ext := ""
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			ext = name[i+1:]
			break
		}
		if name[i] == '/' {
			break
		}
	}
	for _, d := range ct.Defaults {
		if d.Extension == ext {
			return d.ContentType
		}
	}
	return ""
}

// Part returns the named part, or nil if it does not exist.
func (pkg *Package) Part(name string) *Part {
	return pkg.parts[NormalizePartName(name)]
}

// SourceFormat reports which container format the package was opened
// from (FormatUnknown for a package built fresh via NewPackage).
func (pkg *Package) SourceFormat() Format { return pkg.sourceFormat }

// PartNames returns every part name currently in the package.
func (pkg *Package) PartNames() []string {
	names := make([]string, 0, len(pkg.parts))
	for name := range pkg.parts {
		names = append(names, name)
	}
	return names
}

// putTyped registers or replaces a part with an already-typed value,
// deriving its content type from the content-types overrides once the
// caller has registered one (used for the bootstrap parts NewPackage
// creates before a content-type override exists for them).
func (pkg *Package) putTyped(name, contentType string, v any) {
	pkg.parts[NormalizePartName(name)] = &Part{Name: NormalizePartName(name), ContentType: contentType, typed: v}
}

// SetPart registers a part's typed content, replacing any previous raw
// or typed body, and records its content type as an override unless the
// type already follows from NewContentTypes' Default extensions.
func (pkg *Package) SetPart(name, contentType string, v any) {
	name = NormalizePartName(name)
	pkg.putTyped(name, contentType, v)
	pkg.setOverride(name, contentType)
}

// SetRawPart registers a part from already-serialised bytes (used for
// binary parts such as images, and for re-emitting untouched XML parts
// verbatim).
func (pkg *Package) SetRawPart(name, contentType string, data []byte) {
	name = NormalizePartName(name)
	pkg.parts[name] = &Part{Name: name, ContentType: contentType, raw: data}
	pkg.setOverride(name, contentType)
}

// setOverride records name's content-type override, replacing any entry
// already registered for it rather than appending a duplicate — a part
// set twice (e.g. re-saving a workbook opened from an existing package)
// must not grow [Content_Types].xml.
func (pkg *Package) setOverride(name, contentType string) {
	if contentType == ooxml.CTPlainXML || contentType == ooxml.CTRels {
		return
	}
	for i := range pkg.contentTypes.Overrides {
		if pkg.contentTypes.Overrides[i].PartName == name {
			pkg.contentTypes.Overrides[i].ContentType = contentType
			return
		}
	}
	pkg.contentTypes.Overrides = append(pkg.contentTypes.Overrides, ooxml.ContentOverride{
		PartName: name, ContentType: contentType,
	})
}

// RelationshipsFor returns the relationship set owned by partName,
// creating an empty one if none exists yet.
func (pkg *Package) RelationshipsFor(partName string) *ooxml.Relationships {
	partName = NormalizePartName(partName)
	if r, ok := pkg.rels[partName]; ok {
		return r
	}
	r := ooxml.NewRelationships(nil)
	pkg.rels[partName] = r
	relsPath := RelsPathFor(partName)
	pkg.putTyped(relsPath, ooxml.CTRels, r)
	return r
}

// AddRelationship appends a relationship owned by partName and ensures
// its .rels part is registered for save.
func (pkg *Package) AddRelationship(partName string, rel ooxml.Relationship) {
	r := pkg.RelationshipsFor(partName)
	r.Rels = append(r.Rels, rel)
}

// SetRelationships replaces partName's entire relationship set, used by a
// façade that rebuilds a part's wiring from scratch on save rather than
// appending onto whatever Open loaded (avoids accumulating duplicate
// relationships across an open/save/save cycle).
func (pkg *Package) SetRelationships(partName string, rels *ooxml.Relationships) {
	partName = NormalizePartName(partName)
	pkg.rels[partName] = rels
	pkg.putTyped(RelsPathFor(partName), ooxml.CTRels, rels)
}

// SaveOptions controls how Save serialises the package.
type SaveOptions struct {
	Password string // non-empty encrypts the output as an agile CFB container
}

// Save serialises the package to w: a plain ZIP, or — when opts.Password
// is set — an agile-encrypted CFB container wrapping the ZIP bytes.
func (pkg *Package) Save(w io.Writer, opts SaveOptions) error {
	zipBytes, err := writeZip(pkg)
	if err != nil {
		return err
	}
	if opts.Password == "" {
		_, err := w.Write(zipBytes)
		if err != nil {
			return errIo("write package: %v", err)
		}
		return nil
	}
	return writeEncryptedCFB(w, zipBytes, opts.Password)
}

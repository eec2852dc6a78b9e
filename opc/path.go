package opc

import (
	"path"
	"strings"
)

// NormalizePartName turns a package-absolute or .rels-relative part name
// into the canonical form this package keys parts by: leading "/",
// forward slashes, "." and ".." segments resolved.
func NormalizePartName(name string) string {
	if name == "" {
		return "/"
	}
	name = strings.ReplaceAll(name, "\\", "/")
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return path.Clean(name)
}

// ResolveTarget resolves a relationship Target against the directory of
// its owning part: package-absolute targets (leading "/") are used as-is;
// relative targets are resolved against sourcePart's
// directory with "." and ".." segments normalised.
func ResolveTarget(sourcePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return NormalizePartName(target)
	}
	dir := path.Dir(NormalizePartName(sourcePart))
	return NormalizePartName(path.Join(dir, target))
}

// RelsPathFor returns the path of the _rels/<name>.rels file that holds
// the relationships owned by partName (e.g. "/xl/workbook.xml" ->
// "/xl/_rels/workbook.xml.rels"; "/" -> "/_rels/.rels").
func RelsPathFor(partName string) string {
	partName = NormalizePartName(partName)
	dir := path.Dir(partName)
	base := path.Base(partName)
	if partName == "/" {
		return "/_rels/.rels"
	}
	if dir == "/" {
		return "/_rels/" + base + ".rels"
	}
	return dir + "/_rels/" + base + ".rels"
}

// RelativeTarget constructs the shortest relative path from sourcePart's
// directory to targetPart, used when emitting a fresh relationship on
// save: the shortest relative path from source to target.
func RelativeTarget(sourcePart, targetPart string) string {
	sourceDir := path.Dir(NormalizePartName(sourcePart))
	target := NormalizePartName(targetPart)
	rel, err := filepathRel(sourceDir, target)
	if err != nil {
		// Targets never escape the package root in practice; fall back to
		// a package-absolute reference rather than fail the save.
		return target
	}
	return rel
}

// filepathRel is a forward-slash-only relative-path computation (path.Dir
// semantics, not filepath.Rel's OS-specific separators, since OPC part
// names are always "/"-delimited regardless of host OS).
func filepathRel(base, target string) (string, error) {
	baseParts := splitNonEmpty(base)
	targetParts := splitNonEmpty(target)

	common := 0
	for common < len(baseParts) && common < len(targetParts) && baseParts[common] == targetParts[common] {
		common++
	}

	var segs []string
	for i := common; i < len(baseParts); i++ {
		segs = append(segs, "..")
	}
	segs = append(segs, targetParts[common:]...)
	if len(segs) == 0 {
		return ".", nil
	}
	return strings.Join(segs, "/"), nil
}

func splitNonEmpty(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

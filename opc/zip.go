package opc

import (
	"archive/zip"
	"bytes"
	"io"
)

// readZip enumerates every entry of a ZIP-format package, enforcing the
// size/count limits, and returns the raw bytes of every part keyed by its
// normalised package-absolute name.
func readZip(r io.ReaderAt, size int64, limits Limits) (map[string][]byte, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errZip("open zip reader: %v", err)
	}
	if limits.MaxEntryCount > 0 && len(zr.File) > limits.MaxEntryCount {
		return nil, errEntryCountExceeded("zip has %d entries, exceeds limit of %d", len(zr.File), limits.MaxEntryCount)
	}

	parts := make(map[string][]byte, len(zr.File))
	var totalDecompressed int64
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		totalDecompressed += int64(f.UncompressedSize64)
		if limits.MaxDecompressedSize > 0 && totalDecompressed > limits.MaxDecompressedSize {
			return nil, errSizeExceeded("zip decompressed size exceeds limit of %d bytes", limits.MaxDecompressedSize)
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errZip("open entry %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		closeErr := rc.Close()
		if err != nil {
			return nil, errZip("read entry %q: %v", f.Name, err)
		}
		if closeErr != nil {
			return nil, errZip("close entry %q: %v", f.Name, closeErr)
		}
		parts[NormalizePartName(f.Name)] = data
	}
	return parts, nil
}

// writeZip serialises a Package's parts into a deterministic ZIP byte
// stream: content types first, root relationships second, the workbook
// part third, then every remaining part in stable lexical order, so two
// saves of the same package produce byte-identical ZIP part ordering.
func writeZip(pkg *Package) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	order := pkg.writeOrder()
	for _, name := range order {
		data, err := pkg.parts[name].Raw()
		if err != nil {
			return nil, err
		}
		fw, err := zw.Create(trimLeadingSlash(name))
		if err != nil {
			return nil, errZip("create entry %q: %v", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return nil, errZip("write entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errZip("close zip writer: %v", err)
	}
	return buf.Bytes(), nil
}

func trimLeadingSlash(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return name[1:]
	}
	return name
}

// writeOrder produces the deterministic part ordering for save.
func (pkg *Package) writeOrder() []string {
	const contentTypesPart = "/[Content_Types].xml"
	const rootRelsPart = "/_rels/.rels"
	const workbookPart = "/xl/workbook.xml"

	seen := map[string]bool{}
	var order []string
	push := func(name string) {
		if _, ok := pkg.parts[name]; ok && !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}
	push(contentTypesPart)
	push(rootRelsPart)
	push(workbookPart)

	var rest []string
	enumerate(pkg.parts, func(name string, _ *Part) {
		if !seen[name] {
			rest = append(rest, name)
		}
	})
	order = append(order, rest...)
	return order
}

package ooxml

import (
	"bytes"

	"github.com/adnsv/srw/xml"
)

// SlicerCacheDef is the typed shape the rest of the module reads and builds
// slicer caches from. Writing it out is the one part binding that does not
// go through encoding/xml: a slicer cache's <extLst> carries a
// namespace-prefixed x14:slicerCacheDefinition child, a shape generic
// struct-tag serde cannot express without duplicating the whole type once
// per namespace prefix. github.com/adnsv/srw/xml's tag-stream writer
// already solves exactly this for richValue parts, so WriteSlicerCache
// reuses it here.
type SlicerCacheDef struct {
	Name       string
	SourceName string
	Items      []string // unique cached item captions, insertion order
}

// WriteSlicerCache serialises a SlicerCacheDef to
// xl/slicerCaches/slicerCacheN.xml bytes.
func WriteSlicerCache(def SlicerCacheDef) []byte {
	bb := bytes.Buffer{}
	x := xml.NewWriter(&bb, xml.WriterConfig{Indent: xml.Indent2Spaces})
	x.XmlStandaloneDecl()

	x.OTag("slicerCacheDefinition")
	x.Attr("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	x.Attr("xmlns:x14", NSX14)
	x.Attr("name", def.Name)
	x.Attr("sourceName", def.SourceName)

	x.OTag("+extLst")
	x.OTag("+ext")
	x.Attr("uri", "{2F2917AC-EB37-4324-AD4E-5DD8C200BD62}")

	x.OTag("x14:slicerCacheDefinition")
	x.Attr("xmlns:x14", NSX14)

	x.OTag("+x14:data")
	for _, item := range def.Items {
		x.OTag("+x14:tabular")
		x.Attr("s", "1")
		x.OTag("+x14:c")
		x.Attr("v", item)
		x.CTag() // x14:c
		x.CTag() // x14:tabular
	}
	x.CTag() // x14:data
	x.CTag() // x14:slicerCacheDefinition

	x.CTag() // ext
	x.CTag() // extLst

	x.CTag() // slicerCacheDefinition

	return bb.Bytes()
}

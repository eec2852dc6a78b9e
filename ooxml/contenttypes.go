package ooxml

import "encoding/xml"

// ContentTypes binds [Content_Types].xml: a Default entry per file
// extension, an Override entry per part whose content-type does not follow
// from its extension alone.
type ContentTypes struct {
	XMLName  xml.Name          `xml:"Types"`
	Xmlns    string            `xml:"xmlns,attr"`
	Defaults []ContentDefault  `xml:"Default"`
	Overrides []ContentOverride `xml:"Override"`
}

type ContentDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ContentOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// NewContentTypes returns a ContentTypes with the standard xml/rels
// defaults and the given part overrides, in the caller's order.
func NewContentTypes(overrides []ContentOverride) *ContentTypes {
	return &ContentTypes{
		Xmlns: NSContentTypes,
		Defaults: []ContentDefault{
			{Extension: "rels", ContentType: CTRels},
			{Extension: "xml", ContentType: CTPlainXML},
		},
		Overrides: overrides,
	}
}

// Override looks up the content type registered for a package-absolute part
// name (e.g. "/xl/worksheets/sheet1.xml").
func (c *ContentTypes) Override(partName string) (string, bool) {
	for _, o := range c.Overrides {
		if o.PartName == partName {
			return o.ContentType, true
		}
	}
	return "", false
}

// Relationships binds a <Relationships> part (the root .rels or any part's
// own _rels/<name>.rels file).
type Relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Rels    []Relationship `xml:"Relationship"`
}

type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// NewRelationships wraps a relationship list with the standard namespace.
func NewRelationships(rels []Relationship) *Relationships {
	return &Relationships{Xmlns: NSRelationships, Rels: rels}
}

// ByID returns the target of the relationship with the given id.
func (r *Relationships) ByID(id string) (Relationship, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByType returns all relationships of the given type URI, in document order.
func (r *Relationships) ByType(relType string) []Relationship {
	var out []Relationship
	for _, rel := range r.Rels {
		if rel.Type == relType {
			out = append(out, rel)
		}
	}
	return out
}

package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Sst binds xl/sharedStrings.xml at the struct level. Because
// encoding/xml's unmarshaler does not reliably preserve leading/trailing
// whitespace inside <t> elements even when xml:space="preserve" is set,
// callers that care about byte-exact whitespace should use DecodeSst /
// EncodeSst instead of xml.Unmarshal on this type directly (see package sst).
type Sst struct {
	XMLName     xml.Name `xml:"sst"`
	Xmlns       string   `xml:"xmlns,attr"`
	Count       int      `xml:"count,attr"`
	UniqueCount int      `xml:"uniqueCount,attr"`
	SI          []SI     `xml:"si"`
}

// SI is one shared-string table entry: either a plain <t> (Text != nil,
// Runs == nil) or a rich-text item with one or more formatted <r> runs.
type SI struct {
	Text *Text     `xml:"t"`
	Runs []RichRun `xml:"r"`
}

// Text binds a plain <t> element, carrying the xml:space="preserve" bit so
// round trips keep leading/trailing whitespace.
type Text struct {
	Space string `xml:"space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// RichRun binds one <r> run inside a rich-text <si>: optional run
// properties (rPr) followed by the run's text.
type RichRun struct {
	RPr *RunProperties `xml:"rPr,omitempty"`
	T   Text           `xml:"t"`
}

// RunProperties binds <rPr>: font name/size/bold/italic/color for one run.
type RunProperties struct {
	B     *struct{} `xml:"b,omitempty"`
	I     *struct{} `xml:"i,omitempty"`
	Sz    *FloatVal `xml:"sz,omitempty"`
	Color *Color    `xml:"color,omitempty"`
	RFont *StringVal `xml:"rFont,omitempty"`
}

type FloatVal struct {
	Val float64 `xml:"val,attr"`
}

type StringVal struct {
	Val string `xml:"val,attr"`
}

// Color binds <color>: either a direct RGB/ARGB value or a theme-palette
// reference with an optional tint.
type Color struct {
	RGB   string   `xml:"rgb,attr,omitempty"`
	Theme *int     `xml:"theme,attr,omitempty"`
	Tint  float64  `xml:"tint,attr,omitempty"`
	Auto  bool     `xml:"auto,attr,omitempty"`
	Indexed *int   `xml:"indexed,attr,omitempty"`
}

// DecodeSst parses xl/sharedStrings.xml with a token-level xml.Decoder loop
// instead of struct unmarshaling, so that whitespace inside <t> elements
// (leading/trailing spaces, especially relevant when xml:space="preserve"
// is set) survives exactly as written: encoding/xml's struct unmarshaler
// trims insignificant whitespace around character data in some
// configurations, which would silently corrupt strings like " padded "
// on reload.
func DecodeSst(data []byte) (*Sst, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	out := &Sst{}
	var cur *SI
	var curRun *RichRun
	var inText, inRPr bool
	var textBuf bytes.Buffer
	var preserve bool

	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("ooxml: decode sharedStrings.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sst":
				out.Xmlns = t.Name.Space
				for _, a := range t.Attr {
					switch a.Name.Local {
					case "count":
						fmt.Sscanf(a.Value, "%d", &out.Count)
					case "uniqueCount":
						fmt.Sscanf(a.Value, "%d", &out.UniqueCount)
					}
				}
			case "si":
				cur = &SI{}
			case "r":
				curRun = &RichRun{}
			case "rPr":
				inRPr = true
			case "t":
				inText = true
				preserve = false
				textBuf.Reset()
				for _, a := range t.Attr {
					if a.Name.Local == "space" && a.Value == "preserve" {
						preserve = true
					}
				}
			case "b":
				if inRPr && curRun != nil {
					ensureRPr(curRun).B = &struct{}{}
				}
			case "i":
				if inRPr && curRun != nil {
					ensureRPr(curRun).I = &struct{}{}
				}
			case "sz":
				if inRPr && curRun != nil {
					ensureRPr(curRun).Sz = &FloatVal{Val: attrFloat(t, "val")}
				}
			case "color":
				if inRPr && curRun != nil {
					c := &Color{}
					for _, a := range t.Attr {
						switch a.Name.Local {
						case "rgb":
							c.RGB = a.Value
						}
					}
					ensureRPr(curRun).Color = c
				}
			case "rFont":
				if inRPr && curRun != nil {
					ensureRPr(curRun).RFont = &StringVal{Val: attrString(t, "val")}
				}
			}
		case xml.CharData:
			if inText {
				textBuf.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
				space := ""
				if preserve {
					space = "preserve"
				}
				text := Text{Space: space, Value: textBuf.String()}
				if curRun != nil {
					curRun.T = text
				} else if cur != nil {
					cur.Text = &text
				}
			case "rPr":
				inRPr = false
			case "r":
				if cur != nil && curRun != nil {
					cur.Runs = append(cur.Runs, *curRun)
				}
				curRun = nil
			case "si":
				if cur != nil {
					out.SI = append(out.SI, *cur)
				}
				cur = nil
			}
		}
	}
	return out, nil
}

func ensureRPr(r *RichRun) *RunProperties {
	if r.RPr == nil {
		r.RPr = &RunProperties{}
	}
	return r.RPr
}

func attrFloat(t xml.StartElement, name string) float64 {
	var v float64
	for _, a := range t.Attr {
		if a.Name.Local == name {
			fmt.Sscanf(a.Value, "%g", &v)
		}
	}
	return v
}

func attrString(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// EncodeSst serialises an Sst to bytes. Runs/plain text with no formatting
// needed are emitted without an <rPr>; text requiring whitespace
// preservation carries xml:space="preserve".
func EncodeSst(s *Sst) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	fmt.Fprintf(&buf, `<sst xmlns=%q count="%d" uniqueCount="%d">`, s.Xmlns, s.Count, s.UniqueCount)
	for _, si := range s.SI {
		buf.WriteString("<si>")
		if si.Text != nil {
			writeTextElem(&buf, "t", *si.Text)
		}
		for _, r := range si.Runs {
			buf.WriteString("<r>")
			if r.RPr != nil {
				writeRPr(&buf, r.RPr)
			}
			writeTextElem(&buf, "t", r.T)
			buf.WriteString("</r>")
		}
		buf.WriteString("</si>")
	}
	buf.WriteString("</sst>")
	return buf.Bytes(), nil
}

func writeTextElem(buf *bytes.Buffer, name string, t Text) {
	if t.Space == "preserve" || needsPreserve(t.Value) {
		fmt.Fprintf(buf, `<%s xml:space="preserve">`, name)
	} else {
		fmt.Fprintf(buf, `<%s>`, name)
	}
	xml.EscapeText(buf, []byte(t.Value))
	fmt.Fprintf(buf, `</%s>`, name)
}

func needsPreserve(s string) bool {
	if s == "" {
		return false
	}
	return s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[0] == '\n' || s[len(s)-1] == '\n'
}

func writeRPr(buf *bytes.Buffer, p *RunProperties) {
	buf.WriteString("<rPr>")
	if p.B != nil {
		buf.WriteString("<b/>")
	}
	if p.I != nil {
		buf.WriteString("<i/>")
	}
	if p.Sz != nil {
		fmt.Fprintf(buf, `<sz val="%g"/>`, p.Sz.Val)
	}
	if p.Color != nil && p.Color.RGB != "" {
		fmt.Fprintf(buf, `<color rgb=%q/>`, p.Color.RGB)
	}
	if p.RFont != nil {
		fmt.Fprintf(buf, `<rFont val=%q/>`, p.RFont.Val)
	}
	buf.WriteString("</rPr>")
}

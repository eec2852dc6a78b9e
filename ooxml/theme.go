package ooxml

import "encoding/xml"

// Theme binds the colour-scheme portion of xl/theme/theme1.xml. Font
// schemes, format schemes, and the rest of the DrawingML theme are out of
// scope and preserved only as raw bytes by the package codec
// when present but unparsed.
type Theme struct {
	XMLName     xml.Name    `xml:"theme"`
	Xmlns       string      `xml:"xmlns,attr"`
	ThemeElements ThemeElements `xml:"themeElements"`
}

type ThemeElements struct {
	ClrScheme ClrScheme `xml:"clrScheme"`
}

// ClrScheme is the 12-slot colour scheme: dk1, lt1, dk2, lt2, accent1..6,
// hlink, folHlink, in that document order.
type ClrScheme struct {
	Dk1      ThemeColor `xml:"dk1"`
	Lt1      ThemeColor `xml:"lt1"`
	Dk2      ThemeColor `xml:"dk2"`
	Lt2      ThemeColor `xml:"lt2"`
	Accent1  ThemeColor `xml:"accent1"`
	Accent2  ThemeColor `xml:"accent2"`
	Accent3  ThemeColor `xml:"accent3"`
	Accent4  ThemeColor `xml:"accent4"`
	Accent5  ThemeColor `xml:"accent5"`
	Accent6  ThemeColor `xml:"accent6"`
	Hlink    ThemeColor `xml:"hlink"`
	FolHlink ThemeColor `xml:"folHlink"`
}

// ThemeColor holds either an sRGB hex value or a system-color reference
// (window text/background), per DrawingML §20.1.2.3.
type ThemeColor struct {
	SrgbClr *SrgbClr `xml:"srgbClr,omitempty"`
	SysClr  *SysClr  `xml:"sysClr,omitempty"`
}

type SrgbClr struct {
	Val string `xml:"val,attr"`
}

type SysClr struct {
	Val       string `xml:"val,attr"`
	LastClr   string `xml:"lastClr,attr,omitempty"`
}

// Slots returns the 12 theme colours in the canonical
// dk1,lt1,dk2,lt2,accent1..6,hlink,folHlink order used by style-index theme
// references.
func (c ClrScheme) Slots() [12]ThemeColor {
	return [12]ThemeColor{
		c.Dk1, c.Lt1, c.Dk2, c.Lt2,
		c.Accent1, c.Accent2, c.Accent3, c.Accent4, c.Accent5, c.Accent6,
		c.Hlink, c.FolHlink,
	}
}

// RGB returns the effective 6-hex-digit RGB value of a theme colour slot.
// System colours fall back to their lastClr cache, then a sensible default
// (white for window background, black for window text).
func (t ThemeColor) RGB() string {
	if t.SrgbClr != nil {
		return t.SrgbClr.Val
	}
	if t.SysClr != nil {
		if t.SysClr.LastClr != "" {
			return t.SysClr.LastClr
		}
		if t.SysClr.Val == "window" {
			return "FFFFFF"
		}
		return "000000"
	}
	return "000000"
}

package style

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/ooxml"
)

func TestNewSeedsMandatorySlots(t *testing.T) {
	r := New()
	require.Equal(t, 1, len(r.fonts))
	require.Equal(t, 2, len(r.fills))
	require.Equal(t, "none", r.fills[0].PatternType)
	require.Equal(t, "gray125", r.fills[1].PatternType)
	require.Equal(t, 1, len(r.borders))
	require.Equal(t, 1, r.CellXfCount())
}

func TestAddFontDedups(t *testing.T) {
	r := New()
	i1 := r.AddFont(Font{Name: "Arial", Size: 10, Bold: true})
	i2 := r.AddFont(Font{Name: "Arial", Size: 10, Bold: true})
	i3 := r.AddFont(Font{Name: "Arial", Size: 10})
	require.Equal(t, i1, i2)
	require.NotEqual(t, i1, i3)
}

func TestAddCellXfDedupsAndCaps(t *testing.T) {
	r := New()
	font := r.AddFont(Font{Name: "Arial", Size: 12})
	i1, err := r.AddCellXf(Xf{FontID: font})
	require.NoError(t, err)
	i2, err := r.AddCellXf(Xf{FontID: font})
	require.NoError(t, err)
	require.Equal(t, i1, i2)

	distinct, err := r.AddCellXf(Xf{FontID: font, NumFmtID: 2})
	require.NoError(t, err)
	require.NotEqual(t, i1, distinct)
}

func TestAddCellXfExceedsCap(t *testing.T) {
	r := New()
	for i := 0; i < maxCellXfs-1; i++ {
		_, err := r.AddCellXf(Xf{NumFmtID: i + 1})
		require.NoError(t, err)
	}
	_, err := r.AddCellXf(Xf{NumFmtID: maxCellXfs + 1000})
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "CellStylesExceeded", serr.Kind)
}

func TestAddNumFmtReusesBuiltin(t *testing.T) {
	r := New()
	id := r.AddNumFmt("0.00%")
	require.Equal(t, 10, id)
}

func TestAddNumFmtCustomStartsAt164(t *testing.T) {
	r := New()
	id := r.AddNumFmt("0.0000 \"units\"")
	require.Equal(t, 164, id)
	id2 := r.AddNumFmt("0.0000 \"units\"")
	require.Equal(t, id, id2)
	id3 := r.AddNumFmt("yyyy-mm-dd")
	require.Equal(t, 165, id3)
}

func TestApplyTint(t *testing.T) {
	require.Equal(t, "800000", applyTint("FF0000", -0.5))
	require.Equal(t, "FF8080", applyTint("FF0000", 0.5))
	require.Equal(t, "FF0000", applyTint("FF0000", 0))
}

func TestResolveColorThemeSlot(t *testing.T) {
	r := New()
	theme := &ooxml.Theme{}
	theme.ThemeElements.ClrScheme.Dk1 = ooxml.ThemeColor{SrgbClr: &ooxml.SrgbClr{Val: "000000"}}
	theme.ThemeElements.ClrScheme.Accent1 = ooxml.ThemeColor{SrgbClr: &ooxml.SrgbClr{Val: "4472C4"}}
	r.SetTheme(theme)

	slotIdx := 4 // Accent1 is the 5th slot per Slots() canonical order (dk1,lt1,dk2,lt2,accent1,...)
	got := r.ResolveColor(Color{Theme: &slotIdx})
	require.Equal(t, "4472C4", got)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	r := New()
	fontID := r.AddFont(Font{Name: "Calibri", Size: 11, Bold: true})
	fillID := r.AddFill(Fill{PatternType: "solid", FgColor: Color{RGB: "FFFF00"}})
	numFmtID := r.AddNumFmt("0.0000")
	xfID, err := r.AddCellXf(Xf{FontID: fontID, FillID: fillID, NumFmtID: numFmtID})
	require.NoError(t, err)

	doc := r.Encode()
	reopened := Decode(doc)

	xf, err := reopened.CellXf(xfID)
	require.NoError(t, err)
	require.Equal(t, fontID, xf.FontID)

	font, err := reopened.Font(xf.FontID)
	require.NoError(t, err)
	require.Equal(t, "Calibri", font.Name)
	require.True(t, font.Bold)

	code, ok := reopened.FormatCode(xf.NumFmtID)
	require.True(t, ok)
	require.Equal(t, "0.0000", code)
}

package sst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/ooxml"
)

func TestInternDedupsPlainStrings(t *testing.T) {
	table := New()
	i1 := table.Intern("hello")
	i2 := table.Intern("world")
	i3 := table.Intern("hello")

	require.Equal(t, i1, i3)
	require.NotEqual(t, i1, i2)
	require.Equal(t, 2, table.UniqueCount())
	require.Equal(t, 3, table.Count())
}

func TestInternItemRichVsPlainDoNotCollide(t *testing.T) {
	table := New()
	plain := table.Intern("hi")
	rich := table.InternItem(Item{Runs: []Run{{Text: "hi", Bold: true}}})
	require.NotEqual(t, plain, rich)
}

func TestGetOutOfRange(t *testing.T) {
	table := New()
	table.Intern("a")
	_, err := table.Get(5)
	require.Error(t, err)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "InvalidReference", serr.Kind)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	table := New()
	table.Intern("plain")
	table.Intern(" padded ")
	table.InternItem(Item{Runs: []Run{
		{Text: "bold ", Bold: true},
		{Text: "plain tail"},
	}})

	doc := table.Encode()
	require.Equal(t, 3, doc.UniqueCount)
	require.Equal(t, 3, doc.Count)

	reopened := Decode(doc)
	require.Equal(t, 3, reopened.UniqueCount())

	item, err := reopened.Get(1)
	require.NoError(t, err)
	require.Equal(t, " padded ", item.Text())

	rich, err := reopened.Get(2)
	require.NoError(t, err)
	require.True(t, rich.IsRich())
	require.Equal(t, "bold plain tail", rich.Text())
}

func TestTextPreserveRoundTrip(t *testing.T) {
	item := PlainItem(" leading space")
	si := siFromItem(item)
	require.Equal(t, "preserve", si.Text.Space)

	doc := &ooxml.Sst{SI: []ooxml.SI{si}}
	back := Decode(doc)
	got, err := back.Get(0)
	require.NoError(t, err)
	require.Equal(t, " leading space", got.Text())
}

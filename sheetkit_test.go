package sheetkit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/workbook"
)

func TestNewAndOpenAreReExported(t *testing.T) {
	wb := New()
	sh, ok := wb.Sheet("Sheet1")
	require.True(t, ok)
	require.NoError(t, sh.SetCellValue("A1", CellValue{}))

	var buf bytes.Buffer
	require.NoError(t, wb.Save(&buf))

	reopened, err := Open(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Equal(t, []string{"Sheet1"}, reopened.SheetNames())
}

func TestWrapUnifiesSubpackageErrorKinds(t *testing.T) {
	wb := New()
	_, err := wb.NewSheet("Sheet1")
	require.Error(t, err)

	wrapped := Wrap(err)
	var se *Error
	require.True(t, errors.As(wrapped, &se))
	require.Equal(t, KindSheetAlreadyExists, se.Kind)
	require.True(t, As(err, KindSheetAlreadyExists))
	require.False(t, As(err, KindSheetNotFound))

	// Unwrap must still expose the original workbook.Error for a caller
	// that wants to errors.As against that concrete type directly.
	var wbErr *workbook.Error
	require.True(t, errors.As(wrapped, &wbErr))
	require.Equal(t, "SheetAlreadyExists", wbErr.Kind)
}

func TestWrapPassesThroughUnrecognisedErrors(t *testing.T) {
	plain := errors.New("boom")
	require.Equal(t, plain, Wrap(plain))
	require.Nil(t, Wrap(nil))
}

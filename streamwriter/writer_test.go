package streamwriter

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/sheetkit/sst"
	"github.com/gosheetkit/sheetkit/style"
	"github.com/gosheetkit/sheetkit/worksheet"
)

type memSink struct {
	bytes.Buffer
	closed bool
}

func (m *memSink) Close() error { m.closed = true; return nil }

func TestWriteRowEnforcesAscendingOrder(t *testing.T) {
	w := New(&memSink{}, "Sheet1", sst.New(), style.New())
	require.NoError(t, w.WriteRow(1, []Cell{{Value: worksheet.NumberValue(1)}}))
	require.NoError(t, w.WriteRow(2, []Cell{{Value: worksheet.NumberValue(2)}}))

	err := w.WriteRow(2, []Cell{{Value: worksheet.NumberValue(3)}})
	require.Error(t, err)
	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	require.Equal(t, "StreamRowAlreadyWritten", swErr.Kind)
}

func TestSetColumnAfterRowsRejected(t *testing.T) {
	w := New(&memSink{}, "Sheet1", sst.New(), style.New())
	require.NoError(t, w.WriteRow(1, []Cell{{Value: worksheet.NumberValue(1)}}))

	err := w.SetColumn(Column{Num: 1, Width: 20})
	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	require.Equal(t, "StreamColumnsAfterRows", swErr.Kind)
}

func TestFinaliseTwiceRejected(t *testing.T) {
	w := New(&memSink{}, "Sheet1", sst.New(), style.New())
	require.NoError(t, w.WriteRow(1, []Cell{{Value: worksheet.NumberValue(1)}}))
	_, err := w.Finalise()
	require.NoError(t, err)

	_, err = w.Finalise()
	var swErr *Error
	require.ErrorAs(t, err, &swErr)
	require.Equal(t, "StreamAlreadyFinished", swErr.Kind)
}

func TestFinaliseProducesValidZip(t *testing.T) {
	sink := &memSink{}
	w := New(sink, "Sheet1", sst.New(), style.New())
	require.NoError(t, w.SetColumn(Column{Num: 1, Width: 15}))
	require.NoError(t, w.WriteRow(1, []Cell{
		{Value: worksheet.InlineStringValue("hello")},
		{Value: worksheet.NumberValue(3.5)},
	}))
	stats, err := w.Finalise()
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalRows)
	require.True(t, sink.closed)
	require.True(t, sink.Len() > 0)
	_, err = zip.NewReader(bytes.NewReader(sink.Bytes()), int64(sink.Len()))
	require.NoError(t, err)
}

package workbook

import (
	"log"

	"github.com/gosheetkit/sheetkit/opc"
)

// OpenOptions controls how Open reads a package. The zero value plus
// Open's default option set is lazy (sheets hydrate from their
// worksheet part on first access), bounded by opc.DefaultLimits (a zero
// Limits falls back to them), and unencrypted.
type OpenOptions struct {
	Password    string
	Limits      opc.Limits
	Eager       bool     // hydrate every sheet immediately instead of on first access
	SheetFilter []string // non-nil restricts which sheets Open makes visible at all
	RowCap      int      // 0 = unbounded; rows beyond this are dropped as each sheet hydrates
	Logger      *log.Logger
}

// OpenOption configures an OpenOptions value; a small typed struct
// plus functional options, rather than a generic config map.
type OpenOption func(*OpenOptions)

func WithPassword(password string) OpenOption {
	return func(o *OpenOptions) { o.Password = password }
}

func WithLimits(l opc.Limits) OpenOption {
	return func(o *OpenOptions) { o.Limits = l }
}

// WithEager disables lazy per-sheet hydration: every sheet is decoded
// during Open rather than on first access.
func WithEager() OpenOption {
	return func(o *OpenOptions) { o.Eager = true }
}

// WithSheetFilter restricts Open to the named sheets; any other sheet in
// the package is dropped from Workbook.Sheets entirely.
func WithSheetFilter(names ...string) OpenOption {
	return func(o *OpenOptions) { o.SheetFilter = names }
}

// WithRowCap drops rows beyond n (1-based) as each sheet hydrates, for
// callers that only need a preview of a very large sheet.
func WithRowCap(n int) OpenOption {
	return func(o *OpenOptions) { o.RowCap = n }
}

// WithLogger sets OpenOptions.Logger (log.Default() when unset). The
// logger is stored on the options only; Open writes nothing to it.
func WithLogger(l *log.Logger) OpenOption {
	return func(o *OpenOptions) { o.Logger = l }
}

func buildOpenOptions(opts []OpenOption) OpenOptions {
	o := OpenOptions{Logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o OpenOptions) sheetAllowed(name string) bool {
	if o.SheetFilter == nil {
		return true
	}
	for _, n := range o.SheetFilter {
		if n == name {
			return true
		}
	}
	return false
}

// SaveOptions controls how Save serialises a Workbook.
type SaveOptions struct {
	Password string // non-empty re-encrypts the output as an agile CFB container
}

type SaveOption func(*SaveOptions)

func WithSavePassword(password string) SaveOption {
	return func(o *SaveOptions) { o.Password = password }
}

func buildSaveOptions(opts []SaveOption) SaveOptions {
	var o SaveOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

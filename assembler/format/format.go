package format

import (
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/uasm/assembler/asm"
)

type (
	// Row is one line of a listing.
	Row struct {
		Line int
		Off  int
		Code []byte
		Text string
	}
)

// Fields appends x fields as key=value pairs sorted by key.
func Fields(b []byte, x asm.Instr) []byte {
	fs := slices.Clone(x.Fields())

	slices.SortFunc(fs, func(a, b asm.Field) int {
		return strings.Compare(a.Key, b.Key)
	})

	for i, f := range fs {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = hfmt.Appendf(b, "%s=%d", f.Key, f.Value)
	}

	return b
}

// Hex appends code as space separated 0xHH bytes.
func Hex(b []byte, code []byte) []byte {
	for i, c := range code {
		if i != 0 {
			b = append(b, ' ')
		}

		b = hfmt.Appendf(b, "0x%02X", c)
	}

	return b
}

// Listing renders rows as a table of line, offset, code and source.
func Listing(rows []Row) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Line", "Offset", "Code", "Source"})

	size := 0

	for _, r := range rows {
		t.AppendRow(table.Row{r.Line, string(hfmt.Appendf(nil, "%04X", r.Off)), string(Hex(nil, r.Code)), r.Text})

		size += len(r.Code)
	}

	t.AppendFooter(table.Row{"", "", string(hfmt.Appendf(nil, "%d bytes", size)), ""})

	return t.Render()
}

// Package printer handles writing decoded output, errors and the decode
// statistics table to the terminal.
package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/logrusorgru/aurora"
	"github.com/olekukonko/tablewriter"

	"github.com/batchcorp/thriftwire/compact"
	"github.com/batchcorp/thriftwire/types"
)

type IPrinter interface {
	Error(str string)
	Print(str string)
}

type Printer struct {
	PrintFunc func(format string, a ...interface{}) (n int, err error)
}

func New() *Printer {
	return &Printer{
		PrintFunc: fmt.Printf,
	}
}

// Error is a convenience function for printing errors.
func (p *Printer) Error(str string) {
	p.PrintFunc("%s: %s\n", aurora.Red(">> ERROR"), str)
}

// Print is a convenience function for printing regular output.
func (p *Printer) Print(str string) {
	p.PrintFunc("%s\n", str)
}

// PrintDecoded writes the decoded JSON payload, optionally colorized and
// indented.
func (p *Printer) PrintDecoded(data []byte, pretty bool) error {
	if pretty {
		colorized, err := prettyjson.Format(data)
		if err != nil {
			return err
		}

		data = colorized
	}

	p.Print(string(data))

	return nil
}

// PrintStats renders a table summarizing a completed decode.
func (p *Printer) PrintStats(stats *compact.Stats) {
	if stats == nil {
		return
	}

	properties := [][]string{
		{"Bytes consumed", fmt.Sprintf("%d", stats.BytesConsumed)},
		{"Fields", fmt.Sprintf("%d", stats.Fields)},
		{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)},
	}

	seen := make([]types.ThriftType, 0, len(stats.TypeCounts))

	for t := range stats.TypeCounts {
		seen = append(seen, t)
	}

	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })

	for _, t := range seen {
		properties = append(properties, []string{
			fmt.Sprintf("Type %s", t),
			fmt.Sprintf("%d", stats.TypeCounts[t]),
		})
	}

	tableString := &strings.Builder{}

	table := tablewriter.NewWriter(tableString)
	table.AppendBulk(properties)
	table.SetColMinWidth(0, 20)
	table.SetColMinWidth(1, 40)
	// First column align left, second column align right
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.Render()

	p.Print(tableString.String())
}

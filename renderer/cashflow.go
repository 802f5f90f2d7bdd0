package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/roy3k/household"
)

// CashflowMarkdown renders the cash flow and allocation report.
func CashflowMarkdown(r *household.CashflowReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Cash Flow")

	if len(r.Variances) > 0 {
		doc.H2("Plan vs Actual")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Period", "Category", "Planned", "Actual", "Delta", "Driver"},
		}
		for _, v := range r.Variances {
			table.Rows = append(table.Rows, []string{
				v.Period.String(),
				v.Category,
				v.Planned.String(),
				v.Actual.String(),
				v.Delta.SignedString(),
				string(v.Driver),
			})
		}
		doc.Table(table)
	}

	if len(r.Graph.Edges) > 0 {
		doc.H2("Allocation")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"From", "To", "Weight"},
		}
		for _, e := range r.Graph.Edges {
			table.Rows = append(table.Rows, []string{e.From, e.To, e.Weight.String()})
		}
		doc.Table(table)
	}

	if len(r.FixedCost) > 0 {
		doc.H2("Fixed Cost Ratio")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
			Header:    []string{"Period", "Needs / Income"},
		}
		for _, p := range r.FixedCost {
			table.Rows = append(table.Rows, []string{p.Period.String(), p.Ratio.String()})
		}
		doc.Table(table)
	}

	if len(r.Variances) == 0 && len(r.Graph.Edges) == 0 {
		doc.PlainText(fmt.Sprintf("No flows recorded in %s.", r.Currency))
	}

	return doc.String()
}

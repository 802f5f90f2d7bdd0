package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/roy3k/household"
)

// BalanceMarkdown renders the balance sheet integrity report.
func BalanceMarkdown(r *household.BalanceReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Balance Sheet as of %s", r.AsOf))

	if len(r.Points) > 0 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Date", "Assets", "Liabilities", "Net Worth", "Band"},
		}
		for _, p := range r.Points {
			table.Rows = append(table.Rows, []string{
				p.Date.String(),
				p.Assets.String(),
				p.Liabilities.String(),
				p.NetWorth.String(),
				fmt.Sprintf("%s to %s", p.Band.Lower, p.Band.Upper),
			})
		}
		doc.Table(table)

		last := r.Points[len(r.Points)-1]
		doc.PlainText(fmt.Sprintf("%d account(s) reconciled, %d estimated.", last.Reconciled, last.Estimated))
	}

	if len(r.Queue) > 0 {
		doc.H2("Integrity Queue")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
			},
			Header: []string{"Severity", "Entity", "Date", "Reason", "Detail"},
		}
		for _, f := range r.Queue {
			table.Rows = append(table.Rows, []string{
				f.Severity.String(),
				f.Entity,
				f.Date.String(),
				string(f.Reason),
				f.Detail,
			})
		}
		doc.Table(table)
	}

	return doc.String()
}

package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/roy3k/household"
)

// RiskMarkdown renders the risk and insurance report.
func RiskMarkdown(r *household.RiskReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Risk & Insurance as of %s", r.AsOf))

	if len(r.Coverage) > 0 {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignRight,
			},
			Header: []string{"Risk", "Exposure", "Limit", "Gap"},
		}
		for _, c := range r.Coverage {
			table.Rows = append(table.Rows, []string{
				c.Risk,
				c.Exposure.String(),
				c.Limit.String(),
				c.Gap.String(),
			})
		}
		doc.Table(table)
	}

	if len(r.Calendar) > 0 {
		doc.H2("Renewal Calendar")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Policy", "Type", "Renewal", "Days", "Due Soon"},
		}
		for _, e := range r.Calendar {
			due := "no"
			if e.DueSoon {
				due = "yes"
			}
			table.Rows = append(table.Rows, []string{
				e.PolicyID, e.Type, e.Renewal.String(), fmt.Sprint(e.DaysUntil), due,
			})
		}
		doc.Table(table)
	}

	if len(r.NeedsAttention) > 0 {
		doc.H2("Needs Attention")
		var items []string
		for _, id := range r.NeedsAttention {
			items = append(items, fmt.Sprintf("%s: renewal date unknown", id))
		}
		doc.BulletList(items...)
	}

	return doc.String()
}

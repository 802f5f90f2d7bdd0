package renderer

import (
	"bytes"
	"fmt"
	"strings"

	md "github.com/nao1215/markdown"
	"github.com/roy3k/household"
)

// LeakageMarkdown renders the behavioral leakage report.
func LeakageMarkdown(r *household.LeakageReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Behavioral Leakage")

	if len(r.Findings) == 0 {
		doc.PlainText("No leakage patterns detected.")
	} else {
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignLeft,
				md.AlignLeft,
				md.AlignRight,
				md.AlignRight,
				md.AlignLeft,
			},
			Header: []string{"Pattern", "Vendor", "Category", "Est. Monthly", "Confidence", "Detail"},
		}
		for _, f := range r.Findings {
			monthly := ""
			if !f.EstimatedMonthly.IsZero() {
				monthly = f.EstimatedMonthly.String()
			}
			detail := f.Detail
			if f.RenewalNote != "" {
				detail = strings.TrimSpace(detail + " " + f.RenewalNote)
			}
			table.Rows = append(table.Rows, []string{
				string(f.Pattern),
				f.Vendor,
				f.Category,
				monthly,
				fmt.Sprintf("%.2f", f.Confidence),
				detail,
			})
		}
		doc.Table(table)
	}

	if len(r.Volatility) > 0 {
		doc.H2("Spend Volatility")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Category", "Mean", "Std Dev"},
		}
		for _, v := range r.Volatility {
			table.Rows = append(table.Rows, []string{v.Category, v.Mean.String(), v.StdDev.String()})
		}
		doc.Table(table)
	}

	return doc.String()
}

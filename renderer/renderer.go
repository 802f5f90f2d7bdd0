// Package renderer turns engine reports into markdown documents.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/roy3k/household"
)

//go:embed templates/*.md
var templates embed.FS

// ReviewRenderOptions holds configuration for rendering a review document.
type ReviewRenderOptions struct {
	SkipQueue    bool // Do not render the integrity queue section.
	SkipFindings bool // Do not render the leakage findings section.
}

// RenderReview renders the full review document to a markdown string.
func RenderReview(r *household.Review, opts ReviewRenderOptions) string {
	// Phase 1: Declare template dependencies.
	// We define which partials are needed and how they are aliased in the main template.
	partials := map[string]string{
		"review_title":    "templates/review_title.md",
		"review_balance":  "templates/review_balance.md",
		"review_cashflow": "templates/review_cashflow.md",
		"review_risk":     "templates/review_risk.md",
		"review_leakage":  "templates/review_leakage.md",
	}

	if opts.SkipQueue {
		partials["review_queue"] = ""
	} else {
		partials["review_queue"] = "templates/review_queue.md"
	}
	if opts.SkipFindings {
		partials["review_findings"] = ""
	} else {
		partials["review_findings"] = "templates/review_findings.md"
	}

	// Phase 2: Execute rendering with the generic utility.
	return renderTemplate("review", "templates/review.md", partials, r)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

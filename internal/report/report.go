// Package report renders service results for the terminal.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/finsight/internal/service"
)

// styles
var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// Reconcile writes a human-readable reconciliation report.
func Reconcile(w io.Writer, r service.ReconcileReport) error {
	var b strings.Builder

	title := "Reconciliation"
	if r.Month != "" {
		title += " - " + r.Month
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	if r.SourceFileFound {
		fmt.Fprintf(&b, "Source file: %s (%s, uploaded %s)\n", r.SourceFile.Filename, r.SourceFile.ID,
			r.SourceFile.UploadedAt.Format("2006-01-02 15:04"))
	} else {
		b.WriteString(warnStyle.Render("No matching source file; every statement row is reported missing.") + "\n")
	}
	fmt.Fprintf(&b, "Columns: %s\n", r.Mapping)
	fmt.Fprintf(&b, "CSV rows: %d  normalized: %d  in scope: %d  stored: %d  matched: %d\n",
		r.CSVRows, r.Normalized, r.InScope, r.DBRows, r.Matched)

	if len(r.Missing) == 0 && len(r.Extra) == 0 {
		b.WriteString(okStyle.Render("Statement and database agree.") + "\n")
	}

	if len(r.Missing) > 0 {
		b.WriteString("\n" + badStyle.Render(fmt.Sprintf("Missing from database (%d)", len(r.Missing))) + "\n")
		for _, t := range r.Missing {
			fmt.Fprintf(&b, "  line %-4d %s  %-32s %12s\n", t.Line, t.Date, truncate(t.Merchant, 32), t.Amount.StringFixed(2))
		}
	}
	if len(r.Extra) > 0 {
		b.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Not on statement (%d)", len(r.Extra))) + "\n")
		for _, t := range r.Extra {
			fmt.Fprintf(&b, "  %-9s %s  %-32s %12s  %s\n", shortID(t.ID), t.Date, truncate(t.MerchantNormalized, 32), t.Amount.StringFixed(2), t.Status)
		}
	}
	if len(r.NearMatches) > 0 {
		b.WriteString("\n" + titleStyle.Render("Possible matches") + "\n")
		for _, m := range r.NearMatches {
			fmt.Fprintf(&b, "  line %-4d %s -> %s  (%.0f%%)\n", m.Missing.Line, m.Missing.Merchant, m.Extra.MerchantNormalized, m.Similarity*100)
		}
	}

	writeFailures(&b, r.FailureCounts, len(r.FailureSample))
	for _, f := range r.FailureSample {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  line %d: %s (%s)", f.Line, f.Message, f.Reason)) + "\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Import writes the outcome of one statement upload.
func Import(w io.Writer, r service.ImportResult) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Import "+r.Filename) + "\n")
	fmt.Fprintf(&b, "Source file: %s\n", r.SourceFileID)
	fmt.Fprintf(&b, "Columns: %s\n", r.Mapping)
	fmt.Fprintf(&b, "Imported: %d  categorized: %d\n", r.Imported, r.Categorized)
	if r.Flagged > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Held for review as possible duplicates: %d", r.Flagged)) + "\n")
	}
	writeFailures(&b, r.FailureCounts, len(r.FailureSample))
	for _, f := range r.FailureSample {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  line %d: %s (%s)", f.Line, f.Message, f.Reason)) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Cleanup writes how many empty source files were removed.
func Cleanup(w io.Writer, r service.CleanupResult) error {
	line := fmt.Sprintf("Deleted %d empty source file(s)", r.Deleted)
	if r.Deleted > 0 {
		line = okStyle.Render(line)
	}
	var b strings.Builder
	b.WriteString(line + "\n")
	for _, id := range r.IDs {
		b.WriteString(dimStyle.Render("  "+id) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeFailures(b *strings.Builder, counts map[string]int, sampled int) {
	if len(counts) == 0 {
		return
	}
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	parts := make([]string, 0, len(reasons))
	for _, reason := range reasons {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, counts[reason]))
	}
	b.WriteString("\nSkipped rows: " + strings.Join(parts, " "))
	if sampled > 0 {
		fmt.Fprintf(b, " (first %d below)", sampled)
	}
	b.WriteString("\n")
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

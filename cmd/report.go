package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"devcleaner/domain/cleanup"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/mgutz/ansi"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// Renderer prints banners, match lists and summaries
type Renderer struct {
	out   OutputWriter
	color bool
}

// NewRenderer creates a renderer that colors output only when out is a terminal
func NewRenderer(out OutputWriter) *Renderer {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Renderer{out: out, color: color}
}

func (r *Renderer) paint(s, style string) string {
	if !r.color {
		return s
	}
	return ansi.Color(s, style)
}

// Banner prints the tool title
func (r *Renderer) Banner() {
	fmt.Fprintln(r.out, r.paint("Developer Cleaner", "green+b"))
	fmt.Fprintln(r.out, r.paint("A tool for cleaning up old node_modules directories", "blue"))
	fmt.Fprintln(r.out)
}

// Searching announces the scan about to run
func (r *Renderer) Searching(root string, bound cleanup.YearBound) {
	scope := ""
	if !bound.IsAll() {
		scope = fmt.Sprintf(" from %d and earlier", bound.Year())
	}
	fmt.Fprintln(r.out, r.paint(fmt.Sprintf("Searching node_modules%s in %s...", scope, root), "yellow"))
}

// NoMatches reports an empty result
func (r *Renderer) NoMatches() {
	fmt.Fprintln(r.out, r.paint("No node_modules directories found.", "red"))
}

// FormatSize renders a size for display, "N/A" when unknown
func FormatSize(m cleanup.SizedMatch) string {
	if !m.SizeKnown {
		return "N/A"
	}
	return humanize.IBytes(uint64(m.SizeBytes))
}

// Matches prints the numbered list of matches and their total size
func (r *Renderer) Matches(matches []cleanup.SizedMatch) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint(fmt.Sprintf("Found %d node_modules directories:", len(matches)), "green"))
	fmt.Fprintln(r.out)

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	for i, m := range matches {
		fmt.Fprintf(w, "%d.\t%s\t%s\t%s\n",
			i+1,
			r.paint(m.Path, "cyan"),
			r.paint(FormatSize(m), "yellow"),
			m.ModTime.Format("2006-01-02"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	total, unknown := cleanup.TotalSize(matches)
	line := fmt.Sprintf("Total: %s", humanize.IBytes(uint64(total)))
	if unknown > 0 {
		line += fmt.Sprintf(" (%d of unknown size)", unknown)
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, line)
	return nil
}

// DeletingHeader announces the deletion phase
func (r *Renderer) DeletingHeader() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint("Removing node_modules directories...", "yellow"))
	fmt.Fprintln(r.out)
}

// Outcome prints the result of one deletion
func (r *Renderer) Outcome(o cleanup.DeletionOutcome) {
	status := r.paint("OK", "green")
	switch {
	case !o.Succeeded:
		status = r.paint("ERROR", "red")
	case o.Err != nil:
		status += r.paint(" (space not freed)", "yellow")
	}
	fmt.Fprintf(r.out, "Removing %s... %s\n", r.paint(o.Path, "cyan"), status)
}

// Summary prints the totals of a deletion batch
func (r *Renderer) Summary(report *cleanup.DeletionReport) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint(fmt.Sprintf("Removed: %d directories (%s freed)",
		report.Succeeded(), humanize.IBytes(uint64(report.FreedBytes()))), "green"))
	if report.Failed() > 0 {
		fmt.Fprintln(r.out, r.paint(fmt.Sprintf("Failed: %d directories", report.Failed()), "red"))
	}
}

// Cancelled reports that the user declined
func (r *Renderer) Cancelled() {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.paint("Operation cancelled. No directories were removed.", "blue"))
}

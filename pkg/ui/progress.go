package ui

import (
	"fmt"
	"time"
)

// Progress prints a single-line running status for the scrape loop,
// throttled so a hundred-thousand-page run does not flood the
// terminal.
type Progress struct {
	total    int
	every    int
	quiet    bool
	started  time.Time
	lastLine int
}

// NewProgress creates a progress printer for a run over total
// identifiers, reporting every `every` identifiers.
func NewProgress(total, every int, quiet bool) *Progress {
	if every <= 0 {
		every = 100
	}
	return &Progress{
		total:   total,
		every:   every,
		quiet:   quiet,
		started: time.Now(),
	}
}

// Update reports the current scanned/found counts. Only every Nth
// call prints.
func (p *Progress) Update(scanned, found int) {
	if p.quiet || scanned == 0 || scanned%p.every != 0 {
		return
	}
	p.lastLine = scanned

	pct := float64(scanned) / float64(p.total) * 100
	fmt.Printf("\r%s %6.2f%% (%d/%d) | instructors found: %d | elapsed: %s    ",
		Cyan("scanning"), pct, scanned, p.total, found,
		time.Since(p.started).Round(time.Second))
}

// Finish prints the final summary line.
func (p *Progress) Finish(scanned, found int) {
	if p.quiet {
		return
	}
	if p.lastLine > 0 {
		fmt.Println()
	}
	fmt.Printf("%s scanned %d identifiers, %d unique instructors in %s\n",
		Green("done:"), scanned, found, time.Since(p.started).Round(time.Second))
}

// Package scraper drives the scrape-dedupe-checkpoint loop: walk an
// ascending course-identifier range, fetch each page through an
// injected Fetcher, extract instructor names, accumulate them in a
// deduplicating set, and persist the set at a fixed cadence so an
// interrupted run resumes without losing names.
//
// The loop is strictly sequential. One browser session, one identifier
// at a time, no overlapping requests. Fetch and parse failures are
// per-identifier and per-cell noise that gets logged and skipped;
// only session loss and checkpoint write failures end the run.
package scraper

// Package registrar talks to the university course-schedule site. It
// builds course page URLs from five-digit course identifiers, fetches
// rendered pages through a Chrome session driven by chromedp, and
// parses instructor cells and sentinel pages out of the returned HTML.
//
// The scrape loop itself never depends on chromedp; it consumes the
// Browser through the scraper.Fetcher interface, so tests substitute a
// fake that serves canned HTML.
package registrar

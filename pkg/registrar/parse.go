package registrar

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sentinel phrases the site uses instead of structured signaling.
const (
	// noCourseSentinel appears on pages for identifiers with no
	// course behind them, the expected outcome for most of the ID
	// space.
	noCourseSentinel = "Class information not available"
	// loginSentinel appears once the authenticated session is lost.
	loginSentinel = "please log in"
)

// Kind classifies a fetched page.
type Kind int

const (
	// KindCourse is a real course page with instructor cells.
	KindCourse Kind = iota
	// KindNoCourse is the no-such-course sentinel page.
	KindNoCourse
	// KindLoginRequired is the not-authenticated sentinel page.
	KindLoginRequired
)

// Page is the parsed form of one fetched course page.
type Page struct {
	Kind Kind
	// Cells holds the text of each instructor cell, document order.
	// Newlines separate multiple instructors within one cell.
	Cells []string
}

// Parse classifies a page body and extracts its instructor cells. The
// only structure it depends on is the sentinel text, the site's error
// div, and td elements tagged with data-th='Instructor'.
func Parse(html string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Page{}, fmt.Errorf("failed to parse page html: %w", err)
	}

	body := doc.Find("body").Text()
	if strings.Contains(strings.ToLower(body), loginSentinel) {
		return Page{Kind: KindLoginRequired}, nil
	}
	if strings.Contains(body, noCourseSentinel) || doc.Find("div.error").Length() > 0 {
		return Page{Kind: KindNoCourse}, nil
	}

	page := Page{Kind: KindCourse}
	doc.Find("td[data-th='Instructor']").Each(func(_ int, sel *goquery.Selection) {
		if text := cellText(sel); text != "" {
			page.Cells = append(page.Cells, text)
		}
	})
	return page, nil
}

// cellText renders a cell's contents with <br> converted to newlines,
// so one cell listing several instructors splits the way the browser
// displayed it.
func cellText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "br" {
			b.WriteString("\n")
			return
		}
		b.WriteString(s.Text())
	})
	return strings.TrimSpace(b.String())
}

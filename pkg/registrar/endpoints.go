package registrar

import (
	"fmt"
	"strings"
)

// CoursePath returns the site-relative path for a course identifier,
// zero-padded to five digits.
func CoursePath(term string, course int) string {
	return fmt.Sprintf("%s/%05d/", term, course)
}

// CourseURL returns the absolute URL for a course page.
func CourseURL(baseURL, term string, course int) string {
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(baseURL, "/"), CoursePath(term, course))
}

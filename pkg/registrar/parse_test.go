package registrar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoursePage(t *testing.T) {
	html := `<html><body>
		<table>
			<tr><td data-th="Instructor">Doe, Jane</td></tr>
			<tr><td data-th="Instructor">Doe, Jane<br>Lee, Sam</td></tr>
			<tr><td data-th="Unique">12345</td></tr>
		</table>
	</body></html>`

	page, err := Parse(html)
	require.NoError(t, err)

	assert.Equal(t, KindCourse, page.Kind)
	assert.Equal(t, []string{"Doe, Jane", "Doe, Jane\nLee, Sam"}, page.Cells)
}

func TestParseNestedCellMarkup(t *testing.T) {
	html := `<html><body>
		<table>
			<tr><td data-th="Instructor"><span>Doe, Jane</span><br/><span>Lee, Sam</span></td></tr>
		</table>
	</body></html>`

	page, err := Parse(html)
	require.NoError(t, err)
	require.Len(t, page.Cells, 1)
	assert.Equal(t, "Doe, Jane\nLee, Sam", page.Cells[0])
}

func TestParseNoCourseSentinel(t *testing.T) {
	page, err := Parse(`<html><body>Class information not available</body></html>`)
	require.NoError(t, err)
	assert.Equal(t, KindNoCourse, page.Kind)
	assert.Empty(t, page.Cells)
}

func TestParseErrorDiv(t *testing.T) {
	page, err := Parse(`<html><body><div class="error">Course not found.</div></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, KindNoCourse, page.Kind)
}

func TestParseLoginSentinel(t *testing.T) {
	page, err := Parse(`<html><body><h1>Please log in to continue</h1></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, KindLoginRequired, page.Kind)
}

func TestParseEmptyCourse(t *testing.T) {
	page, err := Parse(`<html><body><table></table></body></html>`)
	require.NoError(t, err)
	assert.Equal(t, KindCourse, page.Kind)
	assert.Empty(t, page.Cells)
}

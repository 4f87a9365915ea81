package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDefaultsAndClamping(t *testing.T) {
	p := Parse(httptest.NewRequest("GET", "/api/courses", nil))
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultSize, p.Size)

	p = Parse(httptest.NewRequest("GET", "/api/courses?page=3&size=25", nil))
	require.Equal(t, 3, p.Page)
	require.Equal(t, 25, p.Size)
	require.Equal(t, 50, p.Offset())

	// Oversized requests are clamped, not rejected
	p = Parse(httptest.NewRequest("GET", "/api/courses?size=5000", nil))
	require.Equal(t, MaxSize, p.Size)

	// Garbage falls back to defaults
	p = Parse(httptest.NewRequest("GET", "/api/courses?page=-1&size=abc", nil))
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultSize, p.Size)
}

func TestNewPage(t *testing.T) {
	p := Params{Page: 2, Size: 10}

	page := NewPage(23, p, []int{1, 2, 3})
	require.Equal(t, 23, page.Total)
	require.Equal(t, 2, page.Page)
	require.Equal(t, 3, page.Pages)

	// Empty results report page 0 / pages 0
	empty := NewPage(0, p, []int{})
	require.Equal(t, 0, empty.Total)
	require.Equal(t, 0, empty.Page)
	require.Equal(t, 0, empty.Pages)

	exact := NewPage(30, Params{Page: 1, Size: 10}, []int{})
	require.Equal(t, 3, exact.Pages)
}

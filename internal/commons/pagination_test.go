package commons

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/clients", nil)

	p := ParsePage(r)

	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePageExplicit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/clients?page=3&per_page=20", nil)

	p := ParsePage(r)

	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 40, p.Offset())
}

func TestParsePageClampsAndIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/clients?page=abc&per_page=5000", nil)

	p := ParsePage(r)

	assert.Equal(t, 1, p.Number)
	assert.Equal(t, MaxPerPage, p.PerPage)
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(Page{Number: 2, PerPage: 15}, 31)

	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 31, meta.Total)
	assert.Equal(t, 3, meta.LastPage)

	empty := NewPageMeta(Page{Number: 1, PerPage: 15}, 0)
	assert.Equal(t, 1, empty.LastPage)
}

package commons

import (
	"net/http"
	"strconv"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

type Page struct {
	Number  int
	PerPage int
}

func ParsePage(r *http.Request) Page {
	p := Page{Number: 1, PerPage: DefaultPerPage}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.Number = n
		}
	}

	if raw := r.URL.Query().Get("per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			p.PerPage = n
		}
	}

	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	return p
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) Limit() int {
	return p.PerPage
}

type PageMeta struct {
	Page     int `json:"page"`
	PerPage  int `json:"per_page"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

func NewPageMeta(p Page, total int) PageMeta {
	lastPage := total / p.PerPage
	if total%p.PerPage != 0 {
		lastPage++
	}
	if lastPage == 0 {
		lastPage = 1
	}

	return PageMeta{
		Page:     p.Number,
		PerPage:  p.PerPage,
		Total:    total,
		LastPage: lastPage,
	}
}

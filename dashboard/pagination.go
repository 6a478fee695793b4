package dashboard

import "fmt"

type Page[T any] struct {
	Items      []T    `json:"items"`
	Page       int    `json:"pagina"`
	PageSize   int    `json:"tamano_pagina"`
	TotalPages int    `json:"total_paginas"`
	TotalItems int    `json:"total_items"`
	Label      string `json:"etiqueta"`
}

func PageLabel(page int, totalPages int) string {
	return fmt.Sprintf("Página %d de %d", page, totalPages)
}

// Paginate slices items to the requested page, clamping page into [1, totalPages].
// An empty list still has one (empty) page.
func Paginate[T any](items []T, page int, size int) Page[T] {
	if size <= 0 {
		size = 1
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
		TotalItems: len(items),
		Label:      PageLabel(page, totalPages),
	}
}

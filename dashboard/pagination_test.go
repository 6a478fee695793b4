package dashboard

import "testing"

func TestPaginate(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i + 1
	}

	tests := []struct {
		name      string
		items     []int
		page      int
		size      int
		wantPage  int
		wantLen   int
		wantFirst int
		wantLabel string
	}{
		{"last partial page", items, 3, 10, 3, 3, 21, "Página 3 de 3"},
		{"first page", items, 1, 10, 1, 10, 1, "Página 1 de 3"},
		{"page below range clamps to first", items, 0, 10, 1, 10, 1, "Página 1 de 3"},
		{"page above range clamps to last", items, 9, 10, 3, 3, 21, "Página 3 de 3"},
		{"exact multiple", items[:20], 2, 10, 2, 10, 11, "Página 2 de 2"},
		{"empty list has one page", nil, 1, 10, 1, 0, 0, "Página 1 de 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(tt.items, tt.page, tt.size)
			if p.Page != tt.wantPage || len(p.Items) != tt.wantLen || p.Label != tt.wantLabel {
				t.Fatalf("got page=%d len=%d label=%q", p.Page, len(p.Items), p.Label)
			}
			if tt.wantLen > 0 && p.Items[0] != tt.wantFirst {
				t.Fatalf("expected first item %d, got %d", tt.wantFirst, p.Items[0])
			}
			if p.TotalItems != len(tt.items) {
				t.Fatalf("expected total %d, got %d", len(tt.items), p.TotalItems)
			}
		})
	}
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	items := []int{1, 2, 3}
	p := Paginate(items, 1, 2)
	p.Items[0] = 99
	if items[0] != 1 {
		t.Fatalf("page items share storage with the input")
	}
}

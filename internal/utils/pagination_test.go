package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 10, 10},
		// valid ints
		{"42", 0, 42},
		{"-13", 1, -13},
		{"0012", 99, 12},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestClampPagination(t *testing.T) {
	cases := []struct {
		page, size string
		wantPage   int
		wantSize   int
	}{
		// defaults
		{"", "", DefaultPage, DefaultPageSize},
		// plain values pass through
		{"3", "50", 3, 50},
		// below bounds
		{"0", "0", 1, 1},
		{"-2", "-9", 1, 1},
		// above page-size cap
		{"2", "5000", 2, MaxPageSize},
		// garbage -> defaults
		{"abc", "xyz", DefaultPage, DefaultPageSize},
	}

	for _, tc := range cases {
		p, s := ClampPagination(tc.page, tc.size)
		if p != tc.wantPage || s != tc.wantSize {
			t.Fatalf("ClampPagination(%q, %q) = (%d, %d); want (%d, %d)",
				tc.page, tc.size, p, s, tc.wantPage, tc.wantSize)
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		size  int
		want  int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 7, 15},
		// guard against a zero divisor
		{50, 0, 0},
	}

	for _, tc := range cases {
		if got := TotalPages(tc.total, tc.size); got != tc.want {
			t.Fatalf("TotalPages(%d, %d) = %d; want %d", tc.total, tc.size, got, tc.want)
		}
	}
}

package ui

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{"  hello  ", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"hello", 0, "hello"},
		{"Berita Baru Hari Ini", 11, "Berita B..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestCell(t *testing.T) {
	if got := cell("line one\nline two", 12); got != "line one ..." {
		t.Fatalf("cell = %q, want %q", got, "line one ...")
	}
	if got := cell("ab", 4); got != "ab  " {
		t.Fatalf("cell(ab, 4) = %q, want %q", got, "ab  ")
	}
}

func TestSingleLine(t *testing.T) {
	if got := singleLine("a\n\n b\tc "); got != "a b c" {
		t.Fatalf("singleLine = %q, want %q", got, "a b c")
	}
}

func TestColumnWidths(t *testing.T) {
	got := columnWidths(100, []int{1, 3, 1})
	want := []int{20, 60, 20}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("columnWidths = %v, want %v", got, want)
	}
	got = columnWidths(10, []int{1, 1, 1})
	if got[0]+got[1]+got[2] != 10 || got[2] != 4 {
		t.Fatalf("columnWidths remainder = %v, want last column to absorb it", got)
	}
	if got := columnWidths(0, []int{1}); got[0] != 0 {
		t.Fatalf("columnWidths(0) = %v, want zeros", got)
	}
}

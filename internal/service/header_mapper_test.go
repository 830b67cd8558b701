package service

import (
	"errors"
	"testing"
)

func TestMapHeaders(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		want    map[int]string
		wantErr bool
	}{
		{
			name:   "plain headers",
			header: []string{"title", "category", "ingredients"},
			want:   map[int]string{0: "title", 1: "category", 2: "ingredients"},
		},
		{
			name:   "case insensitive",
			header: []string{"Title", "CATEGORY", "Created_At"},
			want:   map[int]string{0: "title", 1: "category", 2: "created_at"},
		},
		{
			name:   "bom and quotes stripped",
			header: []string{"\ufefftitle", "\"category\"", "`status`", " rating "},
			want:   map[int]string{0: "title", 1: "category", 2: "status", 3: "rating"},
		},
		{
			name:   "unrecognized columns dropped silently",
			header: []string{"title", "chef_name", "category", "kitchen_id"},
			want:   map[int]string{0: "title", 2: "category"},
		},
		{
			name:    "no recognized headers",
			header:  []string{"chef_name", "kitchen_id"},
			wantErr: true,
		},
		{
			name:    "empty header row",
			header:  []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MapHeaders(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error, got none")
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("error should wrap ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("MapHeaders() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d mapped columns, want %d: %v", len(got), len(tt.want), got)
			}
			for i, field := range tt.want {
				if got[i] != field {
					t.Errorf("column %d mapped to %q, want %q", i, got[i], field)
				}
			}
		})
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"\ufeffid", "id"},
		{"\"quoted\"", "quoted"},
		{"`ticked`", "ticked"},
		{"  padded  ", "padded"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		if got := cleanCell(tt.input); got != tt.want {
			t.Errorf("cleanCell(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

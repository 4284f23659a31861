package encoding

import (
	"strings"
	"testing"
)

func TestCanonicalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "sorted keys",
			input: map[string]any{"z": 1, "a": 2, "m": 3},
			want:  `{"a":2,"m":3,"z":1}`,
		},
		{
			name:  "nested objects sorted",
			input: map[string]any{"b": map[string]any{"d": 1, "c": 2}, "a": 3},
			want:  `{"a":3,"b":{"c":2,"d":1}}`,
		},
		{
			name:  "array order kept",
			input: []any{3, 1, 2},
			want:  `[3,1,2]`,
		},
		{
			name:  "no html escaping",
			input: map[string]any{"owner": "<a&b>"},
			want:  `{"owner":"<a&b>"}`,
		},
		{
			name:  "large integers kept exact",
			input: map[string]any{"n": uint64(18446744073709551615)},
			want:  `{"n":18446744073709551615}`,
		},
		{
			name:  "struct fields sorted by tag",
			input: Record{Width: 2, Height: 1, Cells: "10", Owner: "alice"},
			want:  `{"cells":"10","height":1,"owner":"alice","width":2}`,
		},
		{
			name:  "empty containers",
			input: map[string]any{"o": map[string]any{}, "a": []any{}},
			want:  `{"a":[],"o":{}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalJSON(tt.input)
			if err != nil {
				t.Fatalf("CanonicalJSON: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("CanonicalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanonicalJSONRejectsUnmarshalable(t *testing.T) {
	if _, err := CanonicalJSON(map[string]any{"ch": make(chan int)}); err == nil {
		t.Fatal("expected error for channel value")
	}
}

func TestContentHash(t *testing.T) {
	a, err := ContentHash(map[string]any{"x": 1, "y": 2})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	b, err := ContentHash(map[string]any{"y": 2, "x": 1})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	if a != b {
		t.Fatalf("hash depends on key order: %s != %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64", len(a))
	}
	if strings.ToLower(a) != a {
		t.Fatalf("hash %s is not lowercase", a)
	}

	c, err := ContentHash(map[string]any{"x": 1, "y": 3})
	if err != nil {
		t.Fatalf("ContentHash: %v", err)
	}
	if a == c {
		t.Fatal("different content produced the same hash")
	}
}

package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "object with surrounding prose",
			in:   "Sure, here you go:\n{\"a\":1}\nLet me know!",
			want: `{"a":1}`,
		},
		{
			name: "fenced code block",
			in:   "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "array",
			in:   "result: [1,2,3] done",
			want: `[1,2,3]`,
		},
		{
			name: "nested object keeps outer braces",
			in:   `prefix {"a":{"b":2}} suffix`,
			want: `{"a":{"b":2}}`,
		},
		{
			name: "no json returns trimmed input",
			in:   "  just some text  ",
			want: "just some text",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSONObject(tt.in))
		})
	}
}

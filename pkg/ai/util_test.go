package ai

import (
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  entity
	}{
		{
			name:  "valid json object",
			input: `{"name":"FAIR"}`,
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'FAIR'}`,
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"FAIR",}`,
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"FAIR`,
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'FAIR'}"`,
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"FAIR\"\n}\n",
			want:  entity{Name: "FAIR"},
		},
		{
			name:  "duplicate leading brace no newlines",
			input: `{ { "name": "FAIR" }`,
			want:  entity{Name: "FAIR"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got entity
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want.Name || got.Type != tc.want.Type {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ArrayVariants(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	}

	input := `[{name:'FAIR'},{name:'GraphGen',}]`
	var got []entity
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "FAIR" || got[1].Name != "GraphGen" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two entities FAIR,GraphGen", got)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	}

	var got entity
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestUnmarshalFlexible_NestedExamples(t *testing.T) {
	type relation struct {
		Source   string   `json:"source"`
		Target   string   `json:"target"`
		Keywords []string `json:"keywords"`
	}

	tests := []struct {
		name  string
		input string
		want  relation
	}{
		{
			name:  "simple stringified",
			input: `"{ \"source\": \"FAIR\", \"target\": \"Linux\", \"keywords\": [ \"hosts\", \"platform\" ] }"`,
			want:  relation{Source: "FAIR", Target: "Linux", Keywords: []string{"hosts", "platform"}},
		},
		{
			name:  "stringified with newlines",
			input: `"{\n  \"source\": \"FAIR\",\n  \"target\": \"Linux\",\n  \"keywords\": [\"hosts\", \"platform\", \"operating system (e.g., kernel, distribution)\"]\n  }\n"`,
			want:  relation{Source: "FAIR", Target: "Linux", Keywords: []string{"hosts", "platform", "operating system (e.g., kernel, distribution)"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got relation
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Source != tc.want.Source || got.Target != tc.want.Target {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
			if len(got.Keywords) != len(tc.want.Keywords) {
				t.Fatalf("UnmarshalFlexible() keywords length got = %d, want %d", len(got.Keywords), len(tc.want.Keywords))
			}
			for i := range got.Keywords {
				if got.Keywords[i] != tc.want.Keywords[i] {
					t.Fatalf("UnmarshalFlexible() keywords[%d] = %q, want %q", i, got.Keywords[i], tc.want.Keywords[i])
				}
			}
		})
	}
}

package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseJSONDataset(t *testing.T) {
	data := []byte(`[
		{"query": "Who leads FAIR?", "answer": "Linux"},
		{"query": "  padded  ", "answer": "  trimmed  "},
		{"query": "", "answer": "dropped"},
		{"query": "dropped too", "answer": ""}
	]`)

	units, err := ParseDataset("dataset.json", data)
	if err != nil {
		t.Fatalf("ParseDataset() error = %v", err)
	}
	if len(units) != 2 {
		t.Fatalf("units = %d, want 2 (blank pairs dropped)", len(units))
	}
	if units[0].Query != "Who leads FAIR?" || units[0].Answer != "Linux" {
		t.Errorf("units[0] = %+v", units[0])
	}
	if units[1].Query != "padded" || units[1].Answer != "trimmed" {
		t.Errorf("units[1] = %+v, want trimmed fields", units[1])
	}
}

func TestParseCSVDataset(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{
			name: "standard header",
			data: "query,answer\nWho leads FAIR?,Linux\nWho funds FAIR?,DARPA\n",
			want: 2,
		},
		{
			name: "reordered columns with extras",
			data: "id,answer,query\n1,Linux,Who leads FAIR?\n",
			want: 1,
		},
		{
			name: "alias headers",
			data: "question,incorrect_answer\nWho leads FAIR?,Linux\n",
			want: 1,
		},
		{
			name: "quoted fields",
			data: "query,answer\n\"Who, exactly, leads FAIR?\",Linux\n",
			want: 1,
		},
		{
			name: "blank rows skipped",
			data: "query,answer\nWho leads FAIR?,Linux\n,\n ,  \n",
			want: 1,
		},
		{
			name:    "missing answer column",
			data:    "query,result\nWho leads FAIR?,Linux\n",
			wantErr: true,
		},
		{
			name:    "header only",
			data:    "query,answer\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units, err := ParseDataset("dataset.csv", []byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataset() error = %v", err)
			}
			if len(units) != tt.want {
				t.Errorf("units = %d, want %d", len(units), tt.want)
			}
		})
	}
}

func TestParseDatasetUnsupportedExtension(t *testing.T) {
	if _, err := ParseDataset("dataset.xlsx", []byte("x")); err == nil {
		t.Error("expected an error for unsupported formats")
	}
}

func TestParseDatasetEmpty(t *testing.T) {
	if _, err := ParseDataset("dataset.json", []byte("[]")); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("error = %v, want ErrEmptyDataset", err)
	}
	if _, err := ParseDataset("dataset.csv", []byte("")); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("error = %v, want ErrEmptyDataset", err)
	}
}

func TestLoadDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.json")
	content := `[{"query": "Who leads FAIR?", "answer": "Linux"}]`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	units, err := LoadDataset(path)
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if len(units) != 1 || units[0].Answer != "Linux" {
		t.Errorf("units = %+v", units)
	}

	if _, err := LoadDataset(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

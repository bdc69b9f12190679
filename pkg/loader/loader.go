package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
)

// ErrEmptyDataset is returned when a dataset parses fine but yields no
// usable query units.
var ErrEmptyDataset = errors.New("dataset contains no query units")

// LoadDataset reads a dataset file and parses it by extension. Supported
// formats are .json (an array of {query, answer} objects) and .csv (a
// header row naming query and answer columns).
func LoadDataset(path string) ([]common.QueryUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(filepath.Base(path), data)
}

// ParseDataset parses raw dataset content. The name is only used to pick
// the format by extension, which makes the function usable for both local
// files and objects fetched from remote storage.
func ParseDataset(name string, data []byte) ([]common.QueryUnit, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return parseJSONDataset(data)
	case ".csv":
		return parseCSVDataset(data)
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(name))
	}
}

func parseJSONDataset(data []byte) ([]common.QueryUnit, error) {
	var units []common.QueryUnit
	if err := json.Unmarshal(data, &units); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
	}

	cleaned := make([]common.QueryUnit, 0, len(units))
	for _, unit := range units {
		unit.Query = strings.TrimSpace(unit.Query)
		unit.Answer = strings.TrimSpace(unit.Answer)
		if unit.Query == "" || unit.Answer == "" {
			continue
		}
		cleaned = append(cleaned, unit)
	}

	if len(cleaned) == 0 {
		return nil, ErrEmptyDataset
	}
	return cleaned, nil
}

func parseCSVDataset(data []byte) ([]common.QueryUnit, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	queryCol, answerCol := -1, -1
	for i, field := range header {
		switch strings.ToLower(strings.TrimSpace(field)) {
		case "query", "question":
			if queryCol == -1 {
				queryCol = i
			}
		case "answer", "incorrect_answer":
			if answerCol == -1 {
				answerCol = i
			}
		}
	}
	if queryCol == -1 || answerCol == -1 {
		return nil, fmt.Errorf("CSV header must name query and answer columns, got %v", header)
	}

	var units []common.QueryUnit
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if queryCol >= len(record) || answerCol >= len(record) {
			continue
		}

		query := strings.TrimSpace(record[queryCol])
		answer := strings.TrimSpace(record[answerCol])
		if query == "" || answer == "" {
			continue
		}

		units = append(units, common.QueryUnit{Query: query, Answer: answer})
	}

	if len(units) == 0 {
		return nil, ErrEmptyDataset
	}
	return units, nil
}

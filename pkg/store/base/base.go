package base

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/OFFIS-RIT/gift/backend/pkg/common"
	"github.com/OFFIS-RIT/gift/backend/pkg/graph"
	"github.com/OFFIS-RIT/gift/backend/pkg/logger"
	"github.com/OFFIS-RIT/gift/backend/pkg/poison"
)

// Output file names. These are interchange format with downstream
// collaborators; do not rename.
const (
	RawDataFile       = "raw_data.json"
	GraphDataFile     = "graph_data.json"
	FailedQueriesFile = "failed_queries.json"
	PoisonTextsFile   = "poison_texts.json"
	EnhancedTextsFile = "enhanced_poison_texts.json"
	MergedTextsFile   = "merged_poison_texts.json"
	MergedReportFile  = "merged_poison_texts.txt"
	StatsFile         = "stats.json"
)

// RunStorage is the file-backed store.RunStorage implementation: every
// output is a JSON document (plus the TXT report) under one directory.
//
// A RunStorage should be created using NewRunStorage.
type RunStorage struct {
	dir string
}

// NewRunStorageParams defines the configuration parameters for creating a
// new RunStorage. Dir is the output directory; it is created if missing.
type NewRunStorageParams struct {
	Dir string
}

// NewRunStorage creates a file-backed RunStorage rooted at the configured
// directory.
func NewRunStorage(params NewRunStorageParams) (*RunStorage, error) {
	if params.Dir == "" {
		return nil, errors.New("output directory is required")
	}
	if err := os.MkdirAll(params.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &RunStorage{dir: params.Dir}, nil
}

// Dir returns the output directory.
func (s *RunStorage) Dir() string {
	return s.dir
}

// SaveGraphStage writes the three graph-stage outputs. The writes are
// independent; one file failing does not block the others, and every
// failure is reported.
func (s *RunStorage) SaveGraphStage(
	ctx context.Context,
	fragments []common.Fragment,
	graphData map[string]common.GraphData,
	failed []common.QueryUnit,
) error {
	if fragments == nil {
		fragments = []common.Fragment{}
	}
	if failed == nil {
		failed = []common.QueryUnit{}
	}

	return errors.Join(
		s.writeJSON(RawDataFile, fragments),
		s.writeJSON(GraphDataFile, graphData),
		s.writeJSON(FailedQueriesFile, failed),
	)
}

// LoadGraphStage reloads the graph-stage outputs. All three files must
// exist; the persisted data is trusted as-is.
func (s *RunStorage) LoadGraphStage(ctx context.Context) ([]common.Fragment, map[string]common.GraphData, []common.QueryUnit, error) {
	var fragments []common.Fragment
	if err := s.readJSON(RawDataFile, &fragments); err != nil {
		return nil, nil, nil, err
	}

	graphData := make(map[string]common.GraphData)
	if err := s.readJSON(GraphDataFile, &graphData); err != nil {
		return nil, nil, nil, err
	}

	var failed []common.QueryUnit
	if err := s.readJSON(FailedQueriesFile, &failed); err != nil {
		return nil, nil, nil, err
	}

	return fragments, graphData, failed, nil
}

func (s *RunStorage) SavePoisonTexts(ctx context.Context, results map[string]poison.GeneratorResult) error {
	return s.writeJSON(PoisonTextsFile, results)
}

func (s *RunStorage) LoadPoisonTexts(ctx context.Context) (map[string]poison.GeneratorResult, error) {
	results := make(map[string]poison.GeneratorResult)
	if err := s.readJSON(PoisonTextsFile, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *RunStorage) SaveEnhancedTexts(ctx context.Context, results map[string]poison.EnhancementResult) error {
	return s.writeJSON(EnhancedTextsFile, results)
}

func (s *RunStorage) LoadEnhancedTexts(ctx context.Context) (map[string]poison.EnhancementResult, error) {
	results := make(map[string]poison.EnhancementResult)
	if err := s.readJSON(EnhancedTextsFile, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// SaveMergedTexts writes the merged JSON map and the TXT report. The two
// writes are independent.
func (s *RunStorage) SaveMergedTexts(ctx context.Context, merged map[string]poison.MergedText, report string) error {
	jsonErr := s.writeJSON(MergedTextsFile, merged)

	reportPath := filepath.Join(s.dir, MergedReportFile)
	reportErr := os.WriteFile(reportPath, []byte(report), 0o644)
	if reportErr != nil {
		logger.Error("[Store] Failed to write file", "file", MergedReportFile, "err", reportErr)
		reportErr = fmt.Errorf("failed to write %s: %w", MergedReportFile, reportErr)
	}

	return errors.Join(jsonErr, reportErr)
}

func (s *RunStorage) LoadMergedTexts(ctx context.Context) (map[string]poison.MergedText, error) {
	merged := make(map[string]poison.MergedText)
	if err := s.readJSON(MergedTextsFile, &merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *RunStorage) SaveStats(ctx context.Context, stats graph.Stats) error {
	return s.writeJSON(StatsFile, stats)
}

func (s *RunStorage) writeJSON(name string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Error("[Store] Failed to write file", "file", name, "err", err)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	return nil
}

func (s *RunStorage) readJSON(name string, out any) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return nil
}

// Package storage keeps benchmark runs on disk: a JSON metadata file and a
// CSV of visible flake samples per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/snowfall/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Preset        string             `json:"preset"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Count         int                `json:"count"`
	Width         float64            `json:"width"`
	Height        float64            `json:"height"`
	Dt            float64            `json:"dt_ms"`
	Duration      float64            `json:"duration_ms"`
	Steps         int                `json:"steps"`
	ElapsedMS     float64            `json:"elapsed_ms"`
	StepsPerSec   float64            `json:"steps_per_sec"`
	Metrics       map[string]float64 `json:"metrics"`
	ErrorMessages []string           `json:"errors,omitempty"`
}

// Save writes meta and the result's samples under a new run directory and
// returns the run ID. meta's ID, Timestamp and run figures are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.Timestamp = time.Now()
	meta.ID = fmt.Sprintf("%s_%d_seed%d", meta.Preset, meta.Timestamp.Unix(), result.Seed)
	meta.Seed = result.Seed
	meta.Steps = result.StepsTaken
	meta.ElapsedMS = float64(result.Elapsed) / float64(time.Millisecond)
	meta.StepsPerSec = result.StepsPerSecond()
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.ErrorMessages = append(meta.ErrorMessages, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"time_ms", "visible"}); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			strconv.FormatFloat(result.Times[i], 'f', 3, 64),
			strconv.Itoa(result.Visible[i]),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads back the sample times and visible counts of a run.
func (s *Store) LoadSamples(runID string) ([]float64, []int, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []int{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	visible := make([]int, 0, len(records)-1)
	for _, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		v, err := strconv.Atoi(record[1])
		if err != nil {
			continue
		}
		times = append(times, t)
		visible = append(visible, v)
	}
	return times, visible, nil
}

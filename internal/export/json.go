package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/storage"
)

// Sample is one visible-flake count.
type Sample struct {
	TimeMS  float64 `json:"time_ms"`
	Visible int     `json:"visible"`
}

// Report is a benchmark run in one JSON document.
type Report struct {
	Run     storage.RunMetadata `json:"run"`
	Samples []Sample            `json:"samples"`
}

func NewReport(meta storage.RunMetadata, result *sim.Result) Report {
	meta.Seed = result.Seed
	meta.Steps = result.StepsTaken
	meta.StepsPerSec = result.StepsPerSecond()
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.ErrorMessages = append(meta.ErrorMessages, err.Error())
	}

	samples := make([]Sample, len(result.Times))
	for i, t := range result.Times {
		samples[i] = Sample{TimeMS: t, Visible: result.Visible[i]}
	}
	return Report{Run: meta, Samples: samples}
}

// WriteJSON encodes the report with two-space indentation.
func WriteJSON(w io.Writer, meta storage.RunMetadata, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(meta, result))
}

// ExportJSON writes the report to path, or to stdout when path is "-".
func ExportJSON(path string, meta storage.RunMetadata, result *sim.Result) error {
	if path == "-" {
		return WriteJSON(os.Stdout, meta, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, meta, result)
}

// Package sampleio reads sample sets and previous frames from JSON and writes
// layout frames back out. It is the file format of the embedworld CLI.
package sampleio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bytedance/sonic"

	"github.com/TFMV/embedworld/pkg/engine"
	"github.com/TFMV/embedworld/pkg/vectortypes"
)

// ErrEmptyID is returned for a sample record without an id.
var ErrEmptyID = errors.New("sample record has no id")

// SampleRecord is the on-disk form of a sample.
type SampleRecord struct {
	ID     string    `json:"id"`
	Vector []float32 `json:"vector"`
	Tier   string    `json:"tier,omitempty"`
}

// SampleFile is a sample set document. A bare JSON array of records is
// accepted as well.
type SampleFile struct {
	Samples []SampleRecord `json:"samples"`
}

// DecodeSamples parses a sample set.
func DecodeSamples(data []byte) ([]vectortypes.Sample, error) {
	var records []SampleRecord
	if err := sonic.Unmarshal(data, &records); err != nil {
		var file SampleFile
		if objErr := sonic.Unmarshal(data, &file); objErr != nil {
			return nil, fmt.Errorf("failed to decode samples: %w", err)
		}
		records = file.Samples
	}

	samples := make([]vectortypes.Sample, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("%w: record %d", ErrEmptyID, i)
		}
		tier, err := vectortypes.ParseTier(r.Tier)
		if err != nil {
			return nil, fmt.Errorf("sample %q: %w", r.ID, err)
		}
		samples[i] = vectortypes.Sample{ID: r.ID, Vector: r.Vector, Tier: tier}
	}
	return samples, nil
}

// EncodeSamples renders samples in the document form.
func EncodeSamples(samples []vectortypes.Sample) ([]byte, error) {
	file := SampleFile{Samples: make([]SampleRecord, len(samples))}
	for i, s := range samples {
		file.Samples[i] = SampleRecord{ID: s.ID, Vector: s.Vector, Tier: s.Tier.String()}
	}
	return sonic.ConfigStd.MarshalIndent(file, "", "  ")
}

// ReadSamples reads a sample set from path, or stdin when path is "-".
func ReadSamples(path string) ([]vectortypes.Sample, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}
	return DecodeSamples(data)
}

// ReadCoords reads a previous frame. Both a bare id-to-point object and a
// full Frame document are accepted.
func ReadCoords(path string) (vectortypes.Coords, error) {
	data, err := readAll(path)
	if err != nil {
		return nil, err
	}

	var frame Frame
	if err := sonic.Unmarshal(data, &frame); err == nil && frame.Coords != nil {
		return frame.Coords, nil
	}

	var coords vectortypes.Coords
	if err := sonic.Unmarshal(data, &coords); err != nil {
		return nil, fmt.Errorf("failed to decode coordinates from %s: %w", path, err)
	}
	return coords, nil
}

func readAll(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// LineRecord is a drawable graph edge.
type LineRecord struct {
	Source string            `json:"source"`
	Target string            `json:"target"`
	From   vectortypes.Point `json:"from"`
	To     vectortypes.Point `json:"to"`
	Weight float64           `json:"weight"`
	Bucket string            `json:"bucket"`
	Stroke float64           `json:"stroke"`
}

// SlotRecord is a chosen anchor and how the frame's strategy treats it.
type SlotRecord struct {
	Slot   int               `json:"slot"`
	ID     string            `json:"id"`
	Status engine.SlotStatus `json:"status"`
}

// PathStep is one hop of the shortest path, ending at ID.
type PathStep struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight,omitempty"`
	Bucket string  `json:"bucket,omitempty"`
	Glyph  string  `json:"glyph,omitempty"`
}

// Frame is the serialized output of one layout computation.
type Frame struct {
	Strategy          string              `json:"strategy"`
	Incomplete        bool                `json:"incomplete,omitempty"`
	TierLockReleased  bool                `json:"tier_lock_released,omitempty"`
	Selection         []SlotRecord        `json:"selection,omitempty"`
	Highlighted       []string            `json:"highlighted,omitempty"`
	Signs             [2]float64          `json:"signs"`
	ExplainedVariance []float64           `json:"explained_variance,omitempty"`
	Coords            vectortypes.Coords  `json:"coords"`
	Screen            vectortypes.Coords  `json:"screen,omitempty"`
	Lines             []LineRecord        `json:"lines,omitempty"`
	Path              []PathStep          `json:"path,omitempty"`
	Diagnostics       *engine.Diagnostics `json:"diagnostics,omitempty"`
}

// NewFrame flattens a result and its optional diagnostics.
func NewFrame(result *engine.Result, diag *engine.Diagnostics) Frame {
	frame := Frame{
		Strategy:          result.Strategy.String(),
		Incomplete:        result.Incomplete,
		TierLockReleased:  result.TierLockReleased,
		Signs:             [2]float64{result.Signs.X, result.Signs.Y},
		ExplainedVariance: result.ExplainedVariance,
		Coords:            result.Coords,
		Diagnostics:       diag,
	}

	for i, id := range result.Selection {
		if id != "" {
			frame.Selection = append(frame.Selection, SlotRecord{
				Slot:   i,
				ID:     id,
				Status: result.Selection.Status(i, result.Strategy),
			})
		}
	}
	frame.Highlighted = result.Selection.Filled(result.Strategy)

	for _, line := range result.Lines {
		frame.Lines = append(frame.Lines, LineRecord{
			Source: line.Source,
			Target: line.Target,
			From:   line.From,
			To:     line.To,
			Weight: line.Weight,
			Bucket: line.Bucket.String(),
			Stroke: line.Bucket.StrokeWidth(),
		})
	}

	for i, id := range result.Path {
		step := PathStep{ID: id}
		if i > 0 {
			b := result.PathBuckets[i-1]
			step.Weight = result.PathWeights[i-1]
			step.Bucket = b.String()
			step.Glyph = b.Character()
		}
		frame.Path = append(frame.Path, step)
	}
	return frame
}

// EncodeFrame renders a frame as indented JSON.
func EncodeFrame(frame Frame) ([]byte, error) {
	data, err := sonic.ConfigStd.MarshalIndent(frame, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	return data, nil
}

// WriteFrame writes a frame to w followed by a newline.
func WriteFrame(w io.Writer, frame Frame) error {
	data, err := EncodeFrame(frame)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// SortedIDs returns the coordinate IDs in lexical order for stable printing.
func SortedIDs(coords vectortypes.Coords) []string {
	ids := make([]string, 0, len(coords))
	for id := range coords {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

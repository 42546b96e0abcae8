// Package segmentfile reads diarization output files into speaker segments.
// Two dialects are recognized by sniffing the JSON shape: the WhisperX-style
// object ({"segments":[{start,end,text,speaker}]}) and a bare segment array
// ([{speaker,speaker_id,start,end}]). Junk rows are skipped; structurally
// unusable files are errors.
package segmentfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"cutaway/internal/types"
)

// ErrUnknownFormat reports a file that is valid JSON but neither dialect.
var ErrUnknownFormat = errors.New("unrecognized segment file format")

type Adapter struct{}

func New() *Adapter { return &Adapter{} }

// segmentRow is the superset of both dialects' per-segment fields.
type segmentRow struct {
	Speaker   string  `json:"speaker"`
	SpeakerID string  `json:"speaker_id"`
	Label     string  `json:"label"`
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	Text      string  `json:"text"`
}

// ReadSegments loads and converts one diarization file. Row order is
// preserved; the resolver sorts and normalizes downstream.
func (a *Adapter) ReadSegments(ctx context.Context, path string) ([]types.SpeakerSegment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read segments: %w", err)
	}

	rows, err := decodeRows(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	out := make([]types.SpeakerSegment, 0, len(rows))
	for _, r := range rows {
		if !usableSpan(r.Start, r.End) {
			continue
		}
		label := strings.TrimSpace(r.Speaker)
		if label == "" {
			label = strings.TrimSpace(r.Label)
		}
		out = append(out, types.SpeakerSegment{
			Label:     label,
			SpeakerID: strings.TrimSpace(r.SpeakerID),
			Start:     secDur(r.Start),
			End:       secDur(r.End),
		})
	}
	return out, nil
}

func decodeRows(data []byte) ([]segmentRow, error) {
	switch firstToken(data) {
	case '{':
		var payload struct {
			Segments *[]segmentRow `json:"segments"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("parse segments json: %w", err)
		}
		if payload.Segments == nil {
			return nil, fmt.Errorf("%w: object has no segments field", ErrUnknownFormat)
		}
		return *payload.Segments, nil
	case '[':
		var rows []segmentRow
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("parse segments json: %w", err)
		}
		return rows, nil
	default:
		return nil, ErrUnknownFormat
	}
}

func firstToken(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func usableSpan(start, end float64) bool {
	if math.IsNaN(start) || math.IsInf(start, 0) || math.IsNaN(end) || math.IsInf(end, 0) {
		return false
	}
	return end > start
}

func secDur(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

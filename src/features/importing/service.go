package importing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/contre95/maichart/src/catalog"
	"github.com/contre95/maichart/src/features/config"
	"github.com/google/uuid"
)

const filteredAtLayout = "2006-01-02T15:04:05.000000"

// Recorder receives the outcome of every run.
type Recorder interface {
	ImportCompleted(valid, invalid int)
}

// Summary is the result of a single Run.
type Summary struct {
	Info            FilteringInfo
	Output          string
	ErrorReport     string // empty when every record was valid or the report could not be written
	ProcessingTime  time.Duration
	InvalidExamples []InvalidRecord
}

// Result holds the records kept and rejected by Validate.
type Result struct {
	Valid   []json.RawMessage
	Invalid []InvalidRecord
}

// Service filters raw song exports down to the records the catalog accepts.
type Service struct {
	config   *config.Manager
	recorder Recorder
	now      func() time.Time
}

// NewService creates a new importing service. recorder may be nil.
func NewService(cfg *config.Manager, recorder Recorder) *Service {
	return &Service{
		config:   cfg,
		recorder: recorder,
		now:      time.Now,
	}
}

// Validate coerces every record and keeps the original bytes of those that pass.
func (s *Service) Validate(ctx context.Context, records []json.RawMessage) (*Result, error) {
	cfg := s.config.Get().Import
	today := catalog.NewDate(s.now().Date())
	result := &Result{Valid: make([]json.RawMessage, 0, len(records))}

	for i, raw := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if cfg.ProgressEvery > 0 && i%cfg.ProgressEvery == 0 {
			slog.Info("Processing songs", "current", i+1, "total", len(records))
		}

		id := identify(raw)
		if id.badDate != "" {
			slog.Warn("Invalid release date format", "title", id.title, "releaseDate", id.badDate)
		}

		if _, err := catalog.CoerceSong(raw, today); err != nil {
			invalid := InvalidRecord{
				Index:  i,
				SongID: id.songID,
				Title:  id.title,
				Error:  fmt.Sprintf("validation error for song %q: %v", id.title, err),
			}
			if len(result.Invalid) < cfg.LogInvalidLimit {
				slog.Warn("Invalid song", "index", i, "songId", id.songID, "error", invalid.Error)
			}
			result.Invalid = append(result.Invalid, invalid)
			continue
		}
		result.Valid = append(result.Valid, raw)
	}
	return result, nil
}

// Run validates the export at input and writes the accepted records to output.
// The error report is written next to output when any record was rejected.
func (s *Service) Run(ctx context.Context, input, output string) (*Summary, error) {
	start := s.now()
	slog.Info("Loading songs", "input", input)

	doc, err := readInput(input)
	if err != nil {
		return nil, err
	}
	slog.Info("Validating songs", "count", len(doc.Songs))

	result, err := s.Validate(ctx, doc.Songs)
	if err != nil {
		return nil, err
	}

	info := FilteringInfo{
		RunID:         uuid.New().String(),
		FilteredAt:    s.now().Format(filteredAtLayout),
		OriginalCount: len(doc.Songs),
		ValidCount:    len(result.Valid),
		InvalidCount:  len(result.Invalid),
		SuccessRate:   successRate(len(result.Valid), len(doc.Songs)),
	}

	if err := writeJSON(output, outputDocument{
		URLSource:     doc.URLSource,
		Date:          doc.Date,
		FilteringInfo: info,
		Songs:         result.Valid,
	}); err != nil {
		return nil, err
	}
	slog.Info("Filtered songs saved", "output", output)

	summary := &Summary{
		Info:            info,
		Output:          output,
		InvalidExamples: result.Invalid[:min(len(result.Invalid), s.config.Get().Import.LogInvalidLimit)],
	}
	if len(result.Invalid) > 0 {
		report := errorReportPath(output)
		if err := writeJSON(report, errorReport{FilteringInfo: info, Errors: result.Invalid}); err != nil {
			slog.Warn("Could not save error report", "path", report, "error", err)
		} else {
			summary.ErrorReport = report
			slog.Info("Error report saved", "path", report)
		}
	}

	if s.recorder != nil {
		s.recorder.ImportCompleted(info.ValidCount, info.InvalidCount)
	}
	summary.ProcessingTime = s.now().Sub(start)
	return summary, nil
}

type identity struct {
	songID  string
	title   string
	badDate string
}

// identify extracts what the error report needs from a record that may not validate.
func identify(raw json.RawMessage) identity {
	id := identity{songID: "Unknown", title: "Unknown"}
	var fields struct {
		SongID      any `json:"songId"`
		Title       any `json:"title"`
		ReleaseDate any `json:"releaseDate"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return id
	}
	if fields.SongID != nil {
		id.songID = fmt.Sprint(fields.SongID)
	}
	if fields.Title != nil {
		id.title = fmt.Sprint(fields.Title)
	}
	if date, ok := fields.ReleaseDate.(string); ok {
		if _, err := catalog.ParseReleaseDate(date); err != nil {
			id.badDate = date
		}
	}
	return id
}

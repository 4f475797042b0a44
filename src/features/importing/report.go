package importing

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilteringInfo describes one validation run. It is written into both the output and the error report.
type FilteringInfo struct {
	RunID         string `json:"run_id"`
	FilteredAt    string `json:"filtered_at"`
	OriginalCount int    `json:"original_count"`
	ValidCount    int    `json:"valid_count"`
	InvalidCount  int    `json:"invalid_count"`
	SuccessRate   string `json:"success_rate"`
}

// InvalidRecord is an entry of the error report.
type InvalidRecord struct {
	Index  int    `json:"index"`
	SongID string `json:"song_id"`
	Title  string `json:"title"`
	Error  string `json:"error"`
}

type inputDocument struct {
	URLSource json.RawMessage   `json:"url_source"`
	Date      json.RawMessage   `json:"date"`
	Songs     []json.RawMessage `json:"songs"`
}

type outputDocument struct {
	URLSource     json.RawMessage   `json:"url_source"`
	Date          json.RawMessage   `json:"date"`
	FilteringInfo FilteringInfo     `json:"filtering_info"`
	Songs         []json.RawMessage `json:"songs"`
}

type errorReport struct {
	FilteringInfo FilteringInfo   `json:"filtering_info"`
	Errors        []InvalidRecord `json:"errors"`
}

var emptyString = json.RawMessage(`""`)

func readInput(path string) (*inputDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var doc inputDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if len(doc.URLSource) == 0 {
		doc.URLSource = emptyString
	}
	if len(doc.Date) == 0 {
		doc.Date = emptyString
	}
	return &doc, nil
}

// writeJSON writes v indented with non-ASCII text kept as is, creating parent directories.
func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// errorReportPath returns "<dir>/<stem>_errors.json" for the given output path.
func errorReportPath(output string) string {
	base := filepath.Base(output)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(output), stem+"_errors.json")
}

func successRate(valid, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(valid)/float64(total)*100)
}

package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// Format is an export document type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// ParseFormat accepts csv, json and txt (or text), case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds a timestamped download name
func (f Format) FileName(now time.Time) string {
	return fmt.Sprintf("action_items_%s.%s", now.UTC().Format("20060102_150405"), f)
}

// Render serializes items in the given format
func Render(f Format, items []entities.ActionItem, meetingID string, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case FormatCSV:
		err = WriteCSV(&buf, items)
	case FormatJSON:
		err = WriteJSON(&buf, items, meetingID, now)
	case FormatText:
		err = WriteText(&buf, items, now)
	default:
		err = fmt.Errorf("unsupported export format %q", f)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

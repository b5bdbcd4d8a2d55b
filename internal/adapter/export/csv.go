package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
)

// Columns is the fixed header of board and export files. New columns are only
// ever appended.
var Columns = []string{
	"id",
	"task",
	"assignee",
	"deadline",
	"priority",
	"status",
	"source",
	"created_at",
	"meeting_id",
	"context",
}

// ErrMissingID marks a stored row that has no identifier
var ErrMissingID = errors.New("row has no id")

// taskAliases are accepted in place of a task column on import
var taskAliases = []string{"task", "description", "title", "action_item"}

// WriteCSV writes the header followed by one row per item
func WriteCSV(w io.Writer, items []entities.ActionItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, item := range items {
		if err := cw.Write(itemRow(item)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func itemRow(item entities.ActionItem) []string {
	created := ""
	if !item.CreatedAt.IsZero() {
		created = item.CreatedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		item.ID,
		item.Task,
		item.Assignee,
		entities.FormatDeadline(item.Deadline),
		string(item.Priority),
		string(item.Status),
		string(item.Source),
		created,
		item.MeetingID,
		item.Context,
	}
}

// ReadRows reads a CSV document into maps keyed by lower-cased header name.
// Short rows are padded, so files written before a column existed still load.
func ReadRows(r io.Reader) ([]map[string]string, error) {
	_, rows, err := readRecords(csv.NewReader(r), func(line int, err error) error {
		return fmt.Errorf("read row %d: %w", line, err)
	})
	return rows, err
}

// readRecords reads the header and every non-blank row. onBadRecord decides
// what a malformed record does: a returned error aborts the read, nil keeps a
// nil row in its place and carries on.
func readRecords(cr *csv.Reader, onBadRecord func(line int, err error) error) ([]string, []map[string]string, error) {
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, nil, err
			}
			if abort := onBadRecord(parseErr.StartLine, err); abort != nil {
				return nil, nil, abort
			}
			rows = append(rows, nil)
			continue
		}
		if blankRecord(record) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ItemFromRow decodes a stored row. Unknown or missing values fall back to the
// board defaults; only a missing id is an error.
func ItemFromRow(row map[string]string) (entities.ActionItem, error) {
	id := row["id"]
	if id == "" {
		return entities.ActionItem{}, ErrMissingID
	}

	item := entities.ActionItem{
		ID:        id,
		Task:      row["task"],
		Assignee:  row["assignee"],
		Priority:  entities.PriorityMedium,
		Status:    entities.StatusToDo,
		Source:    entities.SourceManual,
		MeetingID: row["meeting_id"],
		Context:   row["context"],
	}
	if item.Assignee == "" {
		item.Assignee = entities.DefaultAssignee
	}
	if d, err := entities.ParseDeadline(row["deadline"]); err == nil {
		item.Deadline = d
	}
	if p, err := entities.ParsePriority(row["priority"]); err == nil {
		item.Priority = p
	}
	if s, err := entities.ParseStatus(row["status"]); err == nil {
		item.Status = s
	}
	if s, err := entities.ParseSource(row["source"]); err == nil {
		item.Source = s
	}
	if t, err := time.Parse(time.RFC3339, row["created_at"]); err == nil {
		item.CreatedAt = t.UTC()
	}
	return item, nil
}

// ParseImport reads an import file into rows. The file needs a task column
// (or one of its aliases); every other column is optional. Stray quotes are
// taken literally and a record that still cannot be parsed comes back as a
// malformed row, so one bad line never drops the rest of the file.
func ParseImport(r io.Reader) ([]entities.ImportRow, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	header, rows, err := readRecords(cr, func(int, error) error { return nil })
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []entities.ImportRow{}, nil
	}

	taskColumn := ""
	for _, alias := range taskAliases {
		if containsString(header, alias) {
			taskColumn = alias
			break
		}
	}
	if taskColumn == "" {
		return nil, fmt.Errorf("import file needs a task column")
	}

	out := make([]entities.ImportRow, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			out = append(out, entities.ImportRow{Malformed: true})
			continue
		}
		out = append(out, entities.ImportRow{
			Task:      row[taskColumn],
			Assignee:  row["assignee"],
			Deadline:  row["deadline"],
			Priority:  row["priority"],
			Status:    row["status"],
			Context:   row["context"],
			MeetingID: row["meeting_id"],
		})
	}
	return out, nil
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-action-board/internal/adapter/repository"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/actionitem"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/board"
	"github.com/johnquangdev/meeting-action-board/internal/usecase/extraction"
)

type cannedCompleter string

func (c cannedCompleter) CompleteJSON(context.Context, string, string) (string, error) {
	return string(c), nil
}

// fileLoader reopens the CSV board on every command, like the real binary
func fileLoader(path string) Loader {
	return func(ctx context.Context) (*Runtime, error) {
		store := actionitem.NewStore(repository.NewCSVBoardRepository(path, nil), nil)
		if err := store.Load(ctx); err != nil {
			return nil, err
		}
		engine := extraction.NewEngine(cannedCompleter(`{"action_items":[{"task":"Draft the plan","assignee":"Dana","priority":"Low"}]}`), 0, nil)
		return &Runtime{Controller: board.NewController(store, engine, nil, nil)}, nil
	}
}

func run(t *testing.T, load Loader, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(load, "test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func boardItems(t *testing.T, path string) []entities.ActionItem {
	t.Helper()
	items, err := repository.NewCSVBoardRepository(path, nil).Load(context.Background())
	require.NoError(t, err)
	return items
}

func TestAddMoveEditDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.csv")
	load := fileLoader(path)

	out, err := run(t, load, "", "add", "Prepare agenda", "--assignee", "Eve", "--deadline", "2026-10-21", "--priority", "high")
	require.NoError(t, err)
	assert.Contains(t, out, "Added ")

	items := boardItems(t, path)
	require.Len(t, items, 1)
	id := items[0].ID
	assert.Equal(t, entities.PriorityHigh, items[0].Priority)

	_, err = run(t, load, "", "move", id, "in progress")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, boardItems(t, path)[0].Status)

	_, err = run(t, load, "", "edit", id, "--assignee", "Frank", "--deadline", "")
	require.NoError(t, err)
	edited := boardItems(t, path)[0]
	assert.Equal(t, "Frank", edited.Assignee)
	assert.Nil(t, edited.Deadline)
	assert.Equal(t, "Prepare agenda", edited.Task)

	out, err = run(t, load, "", "list", "--status", "in_progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Prepare agenda")
	assert.Contains(t, out, "Frank")

	_, err = run(t, load, "", "move", "missing", "done")
	assert.Error(t, err)

	_, err = run(t, load, "", "delete", id)
	require.NoError(t, err)
	assert.Empty(t, boardItems(t, path))

	out, err = run(t, load, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No action items.")
}

func TestImportExportAndClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.csv")
	load := fileLoader(path)

	out, err := run(t, load, "task,assignee,deadline,priority\nWrite notes,Gus,2026-10-30,High\n,Nobody,,\nCall vendor,,,\n", "import", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 items, skipped 1 rows")

	exportPath := filepath.Join(dir, "out.csv")
	_, err = run(t, load, "", "export", "--format", "csv", "--out", exportPath)
	require.NoError(t, err)

	// the export reads back as an import with the same fields
	fresh := filepath.Join(dir, "fresh.csv")
	_, err = run(t, fileLoader(fresh), "", "import", exportPath)
	require.NoError(t, err)

	got := boardItems(t, fresh)
	require.Len(t, got, 2)
	assert.Equal(t, "Write notes", got[0].Task)
	assert.Equal(t, "Gus", got[0].Assignee)
	assert.Equal(t, "2026-10-30", entities.FormatDeadline(got[0].Deadline))
	assert.Equal(t, entities.PriorityHigh, got[0].Priority)

	out, err = run(t, load, "", "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"item_count": 2`)

	_, err = run(t, load, "", "clear")
	assert.Error(t, err)
	out, err = run(t, load, "", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 2 items")
	assert.Empty(t, boardItems(t, path))
}

func TestExtractFromStdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.csv")
	load := fileLoader(path)

	out, err := run(t, load, "Dana: I'll draft the plan.", "extract", "--file", "-", "--meeting-id", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Added: 1  Duplicates: 0")

	out, err = run(t, load, "Dana: I'll draft the plan.", "extract", "--file", "-", "--meeting-id", "weekly")
	require.NoError(t, err)
	assert.Contains(t, out, "Added: 0  Duplicates: 1")

	items := boardItems(t, path)
	require.Len(t, items, 1)
	assert.Equal(t, entities.SourceAIExtracted, items[0].Source)
	assert.Equal(t, "weekly", items[0].MeetingID)

	_, err = run(t, load, "", "extract")
	assert.Error(t, err)
}

func TestMeetingsWithoutSource(t *testing.T) {
	nowFunc = func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }()

	_, err := run(t, fileLoader(filepath.Join(t.TempDir(), "board.csv")), "", "meetings", "--code", "abc")
	assert.Error(t, err)
}

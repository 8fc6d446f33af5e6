package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/tessro/tokyobox/internal/core"
)

// Table provides a simple table formatter.
type Table struct {
	w       *tabwriter.Writer
	headers []string
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return NewTableWriter(os.Stdout, headers...)
}

// NewTableWriter creates a table writing to a specific writer.
func NewTableWriter(out io.Writer, headers ...string) *Table {
	t := &Table{
		w:       tabwriter.NewWriter(out, 0, 0, 2, ' ', 0),
		headers: headers,
	}
	if len(headers) > 0 {
		_, _ = t.w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	}
	return t
}

// Row adds a row to the table.
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output.
func (t *Table) Flush() {
	_ = t.w.Flush()
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// StatusIcon returns an icon for the given boolean status.
func StatusIcon(active bool) string {
	if active {
		return "●"
	}
	return "○"
}

// PlayIcon returns the playback icon for a playing flag.
func PlayIcon(playing bool) string {
	if playing {
		return "▶"
	}
	return "⏸"
}

// FormatVolume renders a volume level as a bar followed by the percentage.
func FormatVolume(volume, width int) string {
	volume = core.ClampVolume(volume)
	filled := volume * width / 100
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("━", filled), strings.Repeat("─", width-filled), volume)
}

// writeQueue prints a queue snapshot, marking the current entry.
func writeQueue(w io.Writer, q core.QueueSnapshot, limit int) {
	if len(q.Tracks) == 0 {
		fmt.Fprintln(w, "Queue is empty")
		return
	}

	tracks := q.Tracks
	if limit > 0 && len(tracks) > limit {
		tracks = tracks[:limit]
	}

	t := NewTableWriter(w, "", "#", "TITLE", "ARTIST", "DURATION", "ID")
	for i, tr := range tracks {
		marker := " "
		if i == q.CurrentIndex {
			marker = "▶"
		}
		t.Row(marker, fmt.Sprint(i+1), tr.Title, tr.Artist, tr.Duration, tr.ID)
	}
	t.Flush()

	if len(q.Tracks) > len(tracks) {
		fmt.Fprintf(w, "\n... and %d more tracks\n", len(q.Tracks)-len(tracks))
	}
	fmt.Fprintf(w, "\nshuffle: %s  repeat: %s\n", onOff(q.Shuffled), q.RepeatMode)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

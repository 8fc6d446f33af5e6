package tail

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
)

const clock = "15:04:05"

var eventNames = map[EventType]struct {
	name  string
	emoji string
}{
	EventTrackChange:   {"track_change", "🎵"},
	EventPause:         {"pause", "⏸️"},
	EventResume:        {"resume", "▶️"},
	EventVolumeChange:  {"volume_change", "🔊"},
	EventShuffleChange: {"shuffle_change", "🔀"},
	EventRepeatChange:  {"repeat_change", "🔁"},
	EventShow:          {"show", "📺"},
	EventHide:          {"hide", "💤"},
}

// String returns the snake_case event name.
func (t EventType) String() string {
	if n, ok := eventNames[t]; ok {
		return n.name
	}
	return "unknown"
}

// Emoji returns the icon shown before the event line.
func (t EventType) Emoji() string {
	if n, ok := eventNames[t]; ok {
		return n.emoji
	}
	return "❓"
}

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	jsonLines     bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) { f.showEmoji = enabled }
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) { f.showTimestamp = enabled }
}

// WithJSON renders each event as one JSON object per line. It takes
// precedence over a template.
func WithJSON(enabled bool) FormatterOption {
	return func(f *Formatter) { f.jsonLines = enabled }
}

// WithTemplate sets a custom format template. An invalid template is ignored.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl == "" {
			return
		}
		if t, err := template.New("event").Parse(tmpl); err == nil {
			f.template = t
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{showEmoji: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fields is the flat view of an event exposed to templates and JSON output.
type Fields struct {
	Type        string    `json:"type"`
	Emoji       string    `json:"-"`
	Timestamp   time.Time `json:"timestamp"`
	Time        string    `json:"-"`
	Description string    `json:"description"`
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title,omitempty"`
	Artist      string    `json:"artist,omitempty"`
	Duration    string    `json:"duration,omitempty"`
	Playing     bool      `json:"playing"`
	Volume      int       `json:"volume"`
	Shuffle     bool      `json:"shuffle"`
	Repeat      string    `json:"repeat"`
}

// FieldsOf flattens e.
func FieldsOf(e Event) Fields {
	fields := Fields{
		Type:        e.Type.String(),
		Emoji:       e.Type.Emoji(),
		Timestamp:   e.Timestamp,
		Time:        e.Timestamp.Format(clock),
		Description: describe(e),
	}

	if s := e.Current; s != nil {
		if t := s.CurrentTrack; t != nil {
			fields.ID = t.ID
			fields.Title = t.Title
			fields.Artist = t.Artist
			fields.Duration = t.Duration
		}
		fields.Playing = s.IsPlaying
		fields.Volume = s.Volume
		fields.Shuffle = s.Shuffle
		fields.Repeat = string(s.Repeat)
	}
	return fields
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	fields := FieldsOf(e)

	switch {
	case f.jsonLines:
		data, err := json.Marshal(fields)
		if err != nil {
			return f.line(fields)
		}
		return string(data)
	case f.template != nil:
		var buf bytes.Buffer
		if err := f.template.Execute(&buf, fields); err != nil {
			return f.line(fields)
		}
		return buf.String()
	default:
		return f.line(fields)
	}
}

func (f *Formatter) line(fields Fields) string {
	parts := make([]string, 0, 3)
	if f.showTimestamp {
		parts = append(parts, fields.Time)
	}
	if f.showEmoji {
		parts = append(parts, fields.Emoji)
	}
	return strings.Join(append(parts, fields.Description), " ")
}

// describe returns a human-readable description of the event.
func describe(e Event) string {
	s := e.Current

	switch e.Type {
	case EventTrackChange:
		if s != nil && s.CurrentTrack != nil {
			return "Now playing: " + s.CurrentTrack.DisplayName()
		}
		return "Track changed"
	case EventPause:
		return "Paused"
	case EventResume:
		return "Resumed"
	case EventVolumeChange:
		if s == nil {
			return "Volume changed"
		}
		return fmt.Sprintf("Volume: %d%%", s.Volume)
	case EventShuffleChange:
		if s != nil && s.Shuffle {
			return "Shuffle on"
		}
		return "Shuffle off"
	case EventRepeatChange:
		if s == nil {
			return "Repeat changed"
		}
		return "Repeat: " + string(s.Repeat)
	case EventShow:
		return "Overlay opened"
	case EventHide:
		return "Overlay closed"
	}
	return "Unknown event"
}

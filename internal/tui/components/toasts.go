package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tessro/tokyobox/internal/notify"
	"github.com/tessro/tokyobox/internal/search"
	"github.com/tessro/tokyobox/internal/tui/styles"
)

// Toasts displays active notifications, newest at the bottom
type Toasts struct{}

// NewToasts creates a new Toasts component
func NewToasts() *Toasts {
	return &Toasts{}
}

// Render renders up to maxItems toasts that have not expired at now.
// It returns an empty string when there is nothing to show.
func (t *Toasts) Render(items []notify.Notification, now time.Time, width, maxItems int) string {
	var visible []notify.Notification
	for _, n := range items {
		if !n.Expired(now) {
			visible = append(visible, n)
		}
	}
	if len(visible) == 0 {
		return ""
	}
	if maxItems > 0 && len(visible) > maxItems {
		visible = visible[len(visible)-maxItems:]
	}

	boxes := make([]string, 0, len(visible))
	for _, n := range visible {
		icon := lipgloss.NewStyle().Foreground(styles.LevelColor(n.Level)).Render(levelIcon(n.Level))
		msg := search.Truncate(n.Message, width-6)
		boxes = append(boxes, styles.Toast(n.Level).Width(width-2).Render(icon+" "+msg))
	}

	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func levelIcon(level notify.Level) string {
	switch level {
	case notify.Success:
		return "✓"
	case notify.Warning:
		return "!"
	case notify.Error:
		return "✗"
	default:
		return "i"
	}
}

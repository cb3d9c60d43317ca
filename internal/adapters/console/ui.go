// Package console renders controller state on the terminal.
package console

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/lumen-labs/moodamp/internal/core/domain"
	"github.com/lumen-labs/moodamp/internal/core/ports"
)

// UI prints status, mood and per-expression confidence lines. Mood and
// score updates arrive every second; status lines only when something
// changes, so status is logged and the live values are one rewritable
// line.
type UI struct {
	mu     sync.Mutex
	mood   string
	scores domain.ExpressionScores
}

var _ ports.UI = (*UI)(nil)

// New returns a console UI.
func New() *UI { return &UI{} }

func (u *UI) SetStatus(msg string) {
	log.Printf("status: %s", msg)
}

func (u *UI) SetMood(label string) {
	u.mu.Lock()
	changed := label != u.mood
	u.mood = label
	u.mu.Unlock()
	if changed {
		u.render()
	}
}

func (u *UI) UpdateScores(scores domain.ExpressionScores) {
	u.mu.Lock()
	u.scores = scores
	u.mu.Unlock()
	u.render()
}

func (u *UI) ClearScores() {
	u.mu.Lock()
	u.scores = nil
	u.mu.Unlock()
	u.render()
}

func (u *UI) render() {
	u.mu.Lock()
	mood := u.mood
	scores := u.scores
	u.mu.Unlock()

	if mood == "" {
		mood = "(none)"
	}
	line := "mood: " + mood
	if len(scores) > 0 {
		parts := make([]string, 0, len(scores))
		for m, v := range scores {
			parts = append(parts, fmt.Sprintf("%s=%.2f", m, v))
		}
		sort.Strings(parts)
		line += "  [" + strings.Join(parts, " ") + "]"
	}
	// \r keeps the live line in place between status logs.
	fmt.Printf("\r%-100s", line)
}

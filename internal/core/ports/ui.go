package ports

import "github.com/lumen-labs/moodamp/internal/core/domain"

// UI is the presentation surface the controller drives. Implemented
// externally (console, web page); the controller only pushes updates.
type UI interface {
	SetStatus(msg string)
	SetMood(label string)
	UpdateScores(scores domain.ExpressionScores)
	ClearScores()
}

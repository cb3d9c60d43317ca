// Package domain holds the core types for mood-driven playback:
// the canonical mood label set, expression confidence scores, and
// the dominant-mood resolver shared by client and server.
package domain

import "errors"

// Mood is one of the seven canonical facial-expression labels.
type Mood string

const (
	MoodNeutral   Mood = "neutral"
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodAngry     Mood = "angry"
	MoodFearful   Mood = "fearful"
	MoodDisgusted Mood = "disgusted"
	MoodSurprised Mood = "surprised"
)

// CanonicalMoods lists every recognised mood label. The order is
// significant: DominantMood breaks score ties in favour of the label
// that appears first here.
var CanonicalMoods = []Mood{
	MoodNeutral,
	MoodHappy,
	MoodSad,
	MoodAngry,
	MoodFearful,
	MoodDisgusted,
	MoodSurprised,
}

// ErrUnknownMood indicates a label outside the canonical seven-label set.
var ErrUnknownMood = errors.New("domain: unknown mood label")

// ParseMood validates a raw label against the canonical set. Labels are
// rejected rather than coerced so the boundary stays strict.
func ParseMood(raw string) (Mood, error) {
	for _, m := range CanonicalMoods {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", ErrUnknownMood
}

// IsValid reports whether m is a recognised mood label.
func (m Mood) IsValid() bool {
	_, err := ParseMood(string(m))
	return err == nil
}

// ExpressionScores maps mood labels to detection confidences in [0,1].
// Scores need not sum to 1 and missing labels count as 0.
type ExpressionScores map[Mood]float64

// DominantMood resolves a score mapping to a single label. Labels are
// scanned in canonical order with a strict greater-than comparison, so
// the earliest label wins among ties. An empty or all-zero mapping
// resolves to neutral.
func DominantMood(scores ExpressionScores) Mood {
	best := CanonicalMoods[0]
	bestScore := scores[best]
	for _, m := range CanonicalMoods[1:] {
		if scores[m] > bestScore {
			best = m
			bestScore = scores[m]
		}
	}
	return best
}

// Detection is one result from the facial-expression capability:
// either no face was visible, or a score per canonical label.
type Detection struct {
	FaceFound bool
	Scores    ExpressionScores
}

// Dominant resolves the detection to a single mood label. It must only
// be called when a face was found.
func (d Detection) Dominant() Mood {
	return DominantMood(d.Scores)
}

package models

import "time"

// Distortion is a cognitive distortion label attached to a reframe.
type Distortion string

const (
	DistortionAllOrNothing        Distortion = "all_or_nothing"
	DistortionOvergeneralization  Distortion = "overgeneralization"
	DistortionMentalFilter        Distortion = "mental_filter"
	DistortionDiscountingPositive Distortion = "discounting_positive"
	DistortionJumpingToConclusion Distortion = "jumping_to_conclusions"
	DistortionMagnification       Distortion = "magnification"
	DistortionEmotionalReasoning  Distortion = "emotional_reasoning"
	DistortionShouldStatements    Distortion = "should_statements"
	DistortionLabeling            Distortion = "labeling"
	DistortionPersonalization     Distortion = "personalization"
)

// Distortions lists every known distortion in display order.
func Distortions() []Distortion {
	return []Distortion{
		DistortionAllOrNothing, DistortionOvergeneralization, DistortionMentalFilter,
		DistortionDiscountingPositive, DistortionJumpingToConclusion, DistortionMagnification,
		DistortionEmotionalReasoning, DistortionShouldStatements, DistortionLabeling,
		DistortionPersonalization,
	}
}

// WorryCategory groups worries.
type WorryCategory string

const (
	WorryHealth        WorryCategory = "health"
	WorryWork          WorryCategory = "work"
	WorryRelationships WorryCategory = "relationships"
	WorryFinances      WorryCategory = "finances"
	WorryFuture        WorryCategory = "future"
	WorryOther         WorryCategory = "other"
)

func WorryCategories() []WorryCategory {
	return []WorryCategory{WorryHealth, WorryWork, WorryRelationships, WorryFinances, WorryFuture, WorryOther}
}

// WinCategory groups micro-wins.
type WinCategory string

const (
	WinSelfCare     WinCategory = "self_care"
	WinSocial       WinCategory = "social"
	WinProductivity WinCategory = "productivity"
	WinHealth       WinCategory = "health"
	WinMindset      WinCategory = "mindset"
	WinOther        WinCategory = "other"
)

func WinCategories() []WinCategory {
	return []WinCategory{WinSelfCare, WinSocial, WinProductivity, WinHealth, WinMindset, WinOther}
}

// ReframeEntry captures an automatic thought and a more balanced alternative.
type ReframeEntry struct {
	ID               string       `json:"id" yaml:"id"`
	Situation        string       `json:"situation" yaml:"situation"`
	AutomaticThought string       `json:"automatic_thought" yaml:"automatic_thought"`
	Distortions      []Distortion `json:"distortions" yaml:"distortions"`
	BalancedThought  string       `json:"balanced_thought" yaml:"balanced_thought"`
	IntensityBefore  int          `json:"intensity_before" yaml:"intensity_before"` // 1-10
	IntensityAfter   int          `json:"intensity_after" yaml:"intensity_after"`   // 1-10, 0 when not rated
	CreatedAt        time.Time    `json:"created_at" yaml:"created_at"`
}

// WorryEntry is a worry parked for later review.
type WorryEntry struct {
	ID           string        `json:"id" yaml:"id"`
	Worry        string        `json:"worry" yaml:"worry"`
	Category     WorryCategory `json:"category" yaml:"category"`
	Controllable bool          `json:"controllable" yaml:"controllable"`
	ActionStep   string        `json:"action_step" yaml:"action_step"`
	Intensity    int           `json:"intensity" yaml:"intensity"` // 1-10
	Resolved     bool          `json:"resolved" yaml:"resolved"`
	CreatedAt    time.Time     `json:"created_at" yaml:"created_at"`
	ResolvedAt   *time.Time    `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
}

// MicroWin is a small accomplishment worth noticing.
type MicroWin struct {
	ID          string      `json:"id" yaml:"id"`
	Description string      `json:"description" yaml:"description"`
	Category    WinCategory `json:"category" yaml:"category"`
	CreatedAt   time.Time   `json:"created_at" yaml:"created_at"`
}

// CategoryCount is a grouped count used by the journal insights.
type CategoryCount struct {
	Category string
	Count    int
}

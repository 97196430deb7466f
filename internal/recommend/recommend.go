// Package recommend maps a mood label to a fixed set of wellness suggestions.
package recommend

import (
	"fmt"
	"strings"
)

// Recommendation is one suggestion card. Icon names a glyph the renderer
// picks (heart, brain, activity, smile).
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
}

const fallback = "neutral"

var catalog = map[string][]Recommendation{
	"excellent": {
		{Title: "Keep the momentum going", Description: "You're feeling great! Share your positive energy with others.", Action: "Practice gratitude", Category: "Mindfulness", Icon: "heart"},
		{Title: "Celebrate your wins", Description: "Take time to acknowledge what's going well in your life.", Action: "Journal your achievements", Category: "Self-care", Icon: "smile"},
	},
	"good": {
		{Title: "Maintain your routine", Description: "You're doing well. Keep up with healthy habits that support you.", Action: "Plan tomorrow", Category: "Planning", Icon: "activity"},
		{Title: "Connect with others", Description: "Reach out to friends or family for meaningful conversations.", Action: "Schedule a call", Category: "Social", Icon: "heart"},
	},
	"neutral": {
		{Title: "Try a mindfulness exercise", Description: "Take 5 minutes for deep breathing or meditation.", Action: "Start breathing exercise", Category: "Mindfulness", Icon: "brain"},
		{Title: "Get some fresh air", Description: "A short walk outside can help shift your perspective.", Action: "Take a 10-minute walk", Category: "Movement", Icon: "activity"},
	},
	"low": {
		{Title: "Practice self-compassion", Description: "Be gentle with yourself. It's okay to have difficult days.", Action: "Try self-compassion meditation", Category: "Self-care", Icon: "heart"},
		{Title: "Reach out for support", Description: "Consider talking to a trusted friend, family member, or counselor.", Action: "Contact support", Category: "Support", Icon: "brain"},
	},
	"poor": {
		{Title: "You're not alone", Description: "Consider reaching out to a mental health professional or crisis helpline.", Action: "Find resources", Category: "Crisis Support", Icon: "heart"},
		{Title: "Focus on basics", Description: "Prioritize sleep, nutrition, and staying hydrated today.", Action: "Self-care checklist", Category: "Basics", Icon: "activity"},
	},
}

// For returns the suggestions for label. Matching ignores case and
// surrounding space; unknown labels get the neutral list. The result is a
// fresh slice the caller may modify.
func For(label string) []Recommendation {
	recs, ok := catalog[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		recs = catalog[fallback]
	}
	out := make([]Recommendation, len(recs))
	copy(out, recs)
	return out
}

// Markdown renders the suggestions for label as a markdown document.
func Markdown(label string) string {
	var sb strings.Builder
	sb.WriteString("# Wellness Recommendations\n\n")
	sb.WriteString("_Personalized suggestions based on how you're feeling_\n\n")
	for _, r := range For(label) {
		fmt.Fprintf(&sb, "## %s %s\n\n", iconGlyph(r.Icon), r.Title)
		fmt.Fprintf(&sb, "`%s`\n\n", r.Category)
		fmt.Fprintf(&sb, "%s\n\n", r.Description)
		fmt.Fprintf(&sb, "**→ %s**\n\n", r.Action)
	}
	return sb.String()
}

func iconGlyph(icon string) string {
	switch icon {
	case "heart":
		return "♥"
	case "brain":
		return "✦"
	case "activity":
		return "⚡"
	case "smile":
		return "☺"
	default:
		return "•"
	}
}

package assessment

import "fmt"

// Archetype is the label and narrative attached to a dominant focus.
type Archetype struct {
	Category Category `json:"category" yaml:"category"`
	Label    string   `json:"label" yaml:"label"`
	Summary  string   `json:"summary" yaml:"summary"`
	Tips     []string `json:"tips" yaml:"tips"`
}

// Catalog maps each category to its archetype.
type Catalog map[Category]Archetype

// DefaultCatalog returns the built-in archetypes.
func DefaultCatalog() Catalog {
	return Catalog{
		Past: {
			Category: Past,
			Label:    "The Nostalgic",
			Summary:  "You tend to reflect on past experiences. Try channeling those memories into wisdom without getting stuck in regret.",
			Tips: []string{
				"Write down one lesson a past experience taught you, then one way to apply it this week.",
				"When a regret surfaces, name it, then redirect to something you can act on today.",
				"Revisit a meaningful memory deliberately instead of letting it replay on its own.",
			},
		},
		Present: {
			Category: Present,
			Label:    "The Flow-Seeker",
			Summary:  "You thrive in the moment. Consider how staying grounded helps you enjoy life and stay resilient.",
			Tips: []string{
				"Protect a daily block of uninterrupted time for the activity that puts you in flow.",
				"Pair your present focus with a short weekly review so long-term goals are not forgotten.",
				"Use a brief breathing or grounding exercise when you feel pulled out of the moment.",
			},
		},
		Future: {
			Category: Future,
			Label:    "The Visionary",
			Summary:  "You’re future-focused. Harness your vision, but don’t forget to enjoy the present journey.",
			Tips: []string{
				"Break your long-term vision into one concrete step you can finish today.",
				"Celebrate progress already made before planning the next milestone.",
				"Schedule time with no planning at all to let yourself enjoy where you are.",
			},
		},
	}
}

// Validate ensures every category has an archetype with a label.
func (c Catalog) Validate() error {
	for _, cat := range Categories() {
		a, ok := c[cat]
		if !ok {
			return fmt.Errorf("archetype for %s is missing", cat)
		}
		if a.Label == "" {
			return fmt.Errorf("archetype for %s has no label", cat)
		}
	}
	return nil
}

// Dominant returns the category with the highest normalized score.
// Ties resolve to the earlier category in Categories() order, so the
// priority is Past > Present > Future regardless of input order.
func Dominant(scores []CategoryScore) Category {
	var (
		best  Category
		top   float64
		found bool
	)
	for _, c := range Categories() {
		v := ScoreOf(scores, c)
		if !found || v > top {
			best, top, found = c, v, true
		}
	}
	return best
}

// Classify selects the dominant category and its archetype.
func Classify(catalog Catalog, scores []CategoryScore) (Category, Archetype, error) {
	dominant := Dominant(scores)
	a, ok := catalog[dominant]
	if !ok {
		return dominant, Archetype{}, fmt.Errorf("no archetype configured for %s", dominant)
	}
	a.Category = dominant
	return dominant, a, nil
}

package ai

import (
	"fmt"
	"strings"

	"github.com/tableside/concierge/internal/model/restaurant"
)

// PromptTemplate defines extra guidance layered on a restaurant's own hints.
type PromptTemplate struct {
	SystemPrompt string
	ContextRules []string
}

// PromptManager holds per-cuisine templates.
type PromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPromptManager creates a manager with the default cuisine templates.
func NewPromptManager() *PromptManager {
	pm := &PromptManager{templates: make(map[string]*PromptTemplate)}
	pm.loadDefaultTemplates()
	return pm
}

// BuildSystemPrompt renders the concierge system prompt for r at tableID.
func (pm *PromptManager) BuildSystemPrompt(r *restaurant.Restaurant, tableID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the AI concierge of %s, a %s restaurant.\n", r.Name, strings.ToLower(r.Cuisine))
	if r.Tone != "" {
		fmt.Fprintf(&b, "Speak in a %s tone.\n", r.Tone)
	}
	if tableID != "" {
		fmt.Fprintf(&b, "The guest is seated at table %s.\n", tableID)
	}
	if len(r.Highlights) > 0 {
		fmt.Fprintf(&b, "House specialties: %s.\n", strings.Join(r.Highlights, ", "))
	}
	if r.Hours != "" {
		fmt.Fprintf(&b, "Opening hours: %s.\n", r.Hours)
	}
	if r.PromptHint != "" {
		b.WriteString(r.PromptHint)
		b.WriteString("\n")
	}

	rules := []string{
		"Only answer questions about this restaurant, its menu and the guest's visit.",
		"Never invent prices or dishes that are not listed.",
	}
	if tpl, ok := pm.templates[strings.ToLower(r.Cuisine)]; ok {
		b.WriteString(tpl.SystemPrompt)
		b.WriteString("\n")
		rules = append(rules, tpl.ContextRules...)
	}
	b.WriteString("\nRules:\n- ")
	b.WriteString(strings.Join(rules, "\n- "))
	return b.String()
}

func (pm *PromptManager) loadDefaultTemplates() {
	pm.templates["northern italian"] = &PromptTemplate{
		SystemPrompt: "Suggest wine pairings from Piedmont when a guest picks a main course.",
		ContextRules: []string{"Use Italian dish names, with a short English gloss."},
	}
	pm.templates["seafood"] = &PromptTemplate{
		SystemPrompt: "Describe the origin of the catch when it is known.",
		ContextRules: []string{"Ask about shellfish allergies before recommending raw bar items."},
	}
	pm.templates["ramen"] = &PromptTemplate{
		SystemPrompt: "Explain broth styles in one sentence at most.",
	}
}

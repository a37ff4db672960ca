package restaurant

// Profile is the per-restaurant capability document returned by the backend.
type Profile struct {
	TextSupport    bool   `json:"textSupport"`
	AudioSupport   bool   `json:"audioSupport"`
	VideoSupport   bool   `json:"videoSupport"`
	Name           string `json:"name,omitempty"`
	WelcomeMessage string `json:"welcomeMessage,omitempty"`
}

// Restaurant captures the concierge attributes the backend keeps per venue.
type Restaurant struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	Tone           string   `json:"tone"`
	PromptHint     string   `json:"promptHint"`
	WelcomeMessage string   `json:"welcomeMessage"`
	Tables         []string `json:"tables,omitempty"`
	Agents         []string `json:"agents,omitempty"`
	Highlights     []string `json:"highlights,omitempty"` // 招牌菜与推荐
	Hours          string   `json:"hours,omitempty"`
	TextSupport    bool     `json:"textSupport"`
	AudioSupport   bool     `json:"audioSupport"`
	VideoSupport   bool     `json:"videoSupport"`
}

// Profile projects the capability document exposed to clients.
func (r Restaurant) Profile() Profile {
	return Profile{
		TextSupport:    r.TextSupport,
		AudioSupport:   r.AudioSupport,
		VideoSupport:   r.VideoSupport,
		Name:           r.Name,
		WelcomeMessage: r.WelcomeMessage,
	}
}

// HasTable reports whether tableID belongs to the restaurant. Restaurants
// without a table list accept any table.
func (r Restaurant) HasTable(tableID string) bool {
	if len(r.Tables) == 0 {
		return true
	}
	for _, t := range r.Tables {
		if t == tableID {
			return true
		}
	}
	return false
}

// Seed provides the development venues served by the local backend.
func Seed() []Restaurant {
	return []Restaurant{
		{
			ID:             "42",
			Name:           "Trattoria Alba",
			Cuisine:        "Northern Italian",
			Tone:           "warm, unhurried, a little playful",
			PromptHint:     "Recommend pairings and mention seasonal truffle dishes when relevant.",
			WelcomeMessage: "Benvenuti! Ask me anything about tonight's menu at Trattoria Alba.",
			Tables:         []string{"1", "2", "3", "4", "5", "6", "7", "8"},
			Agents:         []string{"9"},
			Highlights:     []string{"tajarin al tartufo", "vitello tonnato", "bonet"},
			Hours:          "17:00-23:00",
			TextSupport:    true,
			AudioSupport:   true,
			VideoSupport:   false,
		},
		{
			ID:             "77",
			Name:           "Harbor Oyster Bar",
			Cuisine:        "Seafood",
			Tone:           "breezy and precise",
			PromptHint:     "Always flag shellfish allergens when suggesting dishes.",
			WelcomeMessage: "Welcome aboard! Ask me about today's catch.",
			Agents:         []string{"12"},
			Highlights:     []string{"oysters on the half shell", "lobster roll", "clam chowder"},
			Hours:          "11:30-22:00",
			TextSupport:    false,
			AudioSupport:   false,
			VideoSupport:   true,
		},
		{
			ID:          "13",
			Name:        "Noodle Counter",
			Cuisine:     "Ramen",
			Tone:        "brief",
			PromptHint:  "Keep answers short.",
			Agents:      []string{"5"},
			Highlights:  []string{"tonkotsu", "shoyu"},
			TextSupport: false,
		},
	}
}

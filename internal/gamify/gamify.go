// Package gamify maps progress numbers to the study companion's state.
// Everything here is a pure function of streak and accumulated hours.
package gamify

type Mood struct {
	Name      string
	Accessory string
	Color     string
}

// MoodFor returns the companion's mood for a streak length.
func MoodFor(streak int) Mood {
	switch {
	case streak <= 0:
		return Mood{Name: "Resting", Accessory: "💤", Color: "#999999"}
	case streak < 3:
		return Mood{Name: "Happy", Accessory: "🌱", Color: "#4CAF50"}
	case streak < 7:
		return Mood{Name: "Fired Up", Accessory: "🔥", Color: "#FF9800"}
	case streak < 14:
		return Mood{Name: "Elite", Accessory: "🕶️", Color: "#2196F3"}
	default:
		return Mood{Name: "Legendary", Accessory: "👑", Color: "#FFD700"}
	}
}

type Evolution struct {
	Stage string
	Emoji string
}

// EvolutionFor maps cumulative focus hours to the companion's visual stage.
func EvolutionFor(hours float64) Evolution {
	switch {
	case hours < 2:
		return Evolution{Stage: "Egg", Emoji: "🥚"}
	case hours < 4:
		return Evolution{Stage: "Hatchling", Emoji: "🐣"}
	default:
		return Evolution{Stage: "Scholar Owl", Emoji: "🦉"}
	}
}

type Milestone struct {
	ID        int
	Title     string
	Icon      string
	Threshold int
	Unlocked  bool
}

// Milestones returns the fixed badge ladder with unlock state for a streak.
func Milestones(streak int) []Milestone {
	badges := []Milestone{
		{ID: 1, Title: "Day One", Icon: "🌅", Threshold: 1},
		{ID: 2, Title: "3 Day Heat", Icon: "🔥", Threshold: 3},
		{ID: 3, Title: "Full Week", Icon: "📅", Threshold: 7},
		{ID: 4, Title: "Unstoppable", Icon: "⚡", Threshold: 14},
		{ID: 5, Title: "Legendary Streak", Icon: "👑", Threshold: 30},
	}
	for i := range badges {
		badges[i].Unlocked = streak >= badges[i].Threshold
	}
	return badges
}

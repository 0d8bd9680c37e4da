// Package site holds the fixed portfolio content: showcased projects,
// published books and Alexa skills. Outbound URLs are opaque strings; the
// server never validates or health-checks them.
package site

// Project is one entry in the home page showcase.
type Project struct {
	Title    string
	Subtitle string
	Summary  string
	Link     string
	External bool
}

// Book is a published title with markdown blurb copy.
type Book struct {
	Title    string
	Subtitle string
	Blurb    string
	Link     string
}

// Skill is a voice-assistant skill with its launch link.
type Skill struct {
	Title       string
	Description string
	Category    string
	LaunchURL   string
}

// Projects returns the home page showcase in display order.
func Projects() []Project {
	return []Project{
		{
			Title:    "Jericho's Odyssey",
			Subtitle: "From Code to Creation",
			Summary:  "A fantasy novel about a programmer pulled into the world he wrote.",
			Link:     "/books",
		},
		{
			Title:    "Orphans",
			Subtitle: "Building Engaging Experiences",
			Summary:  "The follow-up novel exploring the fallout of Jericho's choices.",
			Link:     "/books",
		},
		{
			Title:    "Small & Furious",
			Subtitle: "Browser racing game",
			Summary:  "A top-down racer built for the web.",
			Link:     "https://smallandfurious.example.com",
			External: true,
		},
		{
			Title:    "Unofficial Fallout Game",
			Subtitle: "Fan game project",
			Summary:  "A fan-made wasteland adventure.",
			Link:     "/fallout",
		},
		{
			Title:    "Reef Unity Game",
			Subtitle: "Underwater exploration",
			Summary:  "An exploration game set on a coral reef.",
			Link:     "/reef",
		},
		{
			Title:    "Alexa Skills",
			Subtitle: "Voice experiences",
			Summary:  "Games, trivia and utilities for voice assistants.",
			Link:     "/alexa",
		},
		{
			Title:    "Resume",
			Subtitle: "Experience and skills",
			Summary:  "Where I have worked and what I work with.",
			Link:     "/resume",
		},
	}
}

// Books returns the published titles in display order.
func Books() []Book {
	return []Book{
		{
			Title:    "Jericho's Odyssey",
			Subtitle: "From Code to Creation",
			Blurb: "Jericho built worlds in code until one of them built itself around him.\n\n" +
				"**A fantasy debut** about creation, consequence, and the bugs we leave behind.",
			Link: "https://www.amazon.com/dp/example-jericho",
		},
		{
			Title:    "Orphans",
			Subtitle: "Building Engaging Experiences",
			Blurb: "The world Jericho left behind did not stop running.\n\n" +
				"The sequel follows the characters orphaned by their creator's departure.",
			Link: "https://www.amazon.com/dp/example-orphans",
		},
	}
}

// Skills returns every published voice skill in display order.
func Skills() []Skill {
	return []Skill{
		{
			Title:       "Pet Tales",
			Description: "Interactive stories told from your pet's point of view.",
			Category:    "Entertainment",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.8c41b116-0a0c-42a0-92c2-141dafa32e51/launch",
		},
		{
			Title:       "Cards of Wonder",
			Description: "A voice-driven card battle game.",
			Category:    "Games",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.d0823ef7-f666-43c3-b673-9ca8a461e08e/launch",
		},
		{
			Title:       "Powers",
			Description: "Guess the hero from their powers.",
			Category:    "Games",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.1d68c9c5-f1d6-4dbf-a19b-3d20dabc760e/launch",
		},
		{
			Title:       "Unofficial Marvel Facts",
			Description: "Daily facts from across the Marvel universe.",
			Category:    "Education",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.0aca28e6-8ba7-4b37-942d-44b1b1b737b7/launch",
		},
		{
			Title:       "Unofficial Marvel Trivia",
			Description: "Trivia rounds for comic readers and film fans.",
			Category:    "Education",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.b59d78aa-2096-415e-9cb9-c03bf3d5e504/launch",
		},
		{
			Title:       "Rainbow Words",
			Description: "Spelling practice for early readers.",
			Category:    "Education",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.9f09bebe-17b2-46c2-aedf-126e7b7a8648/launch",
		},
		{
			Title:       "Character Name Generator",
			Description: "Names for your next campaign or draft.",
			Category:    "Utility",
			LaunchURL:   "https://alexa-skills.amazon.com/apis/custom/skills/amzn1.ask.skill.b59d78aa-2096-415e-9cb9-c03bf3d5e505/launch",
		},
	}
}

// SkillCategories lists "All" plus each distinct skill category in first-seen
// order.
func SkillCategories(skills []Skill) []string {
	categories := []string{"All"}
	seen := make(map[string]struct{})
	for _, skill := range skills {
		if _, ok := seen[skill.Category]; ok {
			continue
		}
		seen[skill.Category] = struct{}{}
		categories = append(categories, skill.Category)
	}
	return categories
}

// FilterSkills keeps skills in the given category; "All" or "" is identity.
func FilterSkills(skills []Skill, category string) []Skill {
	if category == "" || category == "All" {
		return skills
	}
	filtered := make([]Skill, 0, len(skills))
	for _, skill := range skills {
		if skill.Category == category {
			filtered = append(filtered, skill)
		}
	}
	return filtered
}

package site

// Experience is one resume entry.
type Experience struct {
	Title   string
	Company string
	Period  string
	Summary string
}

// Experiences returns resume entries, most recent first.
func Experiences() []Experience {
	return []Experience{
		{
			Title:   "Lead Developer",
			Company: "Interactive Media Studio",
			Period:  "2021 – present",
			Summary: "Leads a small team shipping web and voice experiences.",
		},
		{
			Title:   "Content Developer",
			Company: "Voice Platform Partner",
			Period:  "2018 – 2021",
			Summary: "Designed and built voice-assistant skills end to end.",
		},
		{
			Title:   "Property Management Assistant",
			Company: "Riverside Properties",
			Period:  "2016 – 2018",
			Summary: "Kept operations running while learning to automate them.",
		},
		{
			Title:   "Operations Manager",
			Company: "Family Retail Business",
			Period:  "2013 – 2016",
			Summary: "Ran day-to-day operations for a small retail shop.",
		},
	}
}

// ResumeSkills returns skill labels for the resume page.
func ResumeSkills() []string {
	return []string{
		"Go", "TypeScript", "React", "Unity", "C#",
		"Voice interfaces", "Content modeling", "CI/CD",
	}
}

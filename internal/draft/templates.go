package draft

// Template is a named preset of draft field values offered on the
// wizard's first step.
type Template struct {
	ID       string
	Name     string
	Category string
	Preview  Preview
}

// Preview holds the field values a template writes into the draft.
type Preview struct {
	Title       string
	Description string
	YesText     string
	NoText      string
}

// Templates returns the built-in presets in display order. The custom
// option is not a template; it is the wizard's SkipToCustom shortcut.
func Templates() []Template {
	return builtinTemplates
}

var builtinTemplates = []Template{
	{
		ID:       "meeting_virtual",
		Name:     "Virtual Meeting",
		Category: "Professional",
		Preview: Preview{
			Title:       "Team Meeting",
			Description: "Join us for our weekly team sync to discuss project progress",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
	{
		ID:       "meeting_physical",
		Name:     "In-Person Meeting",
		Category: "Professional",
		Preview: Preview{
			Title:       "Office Meeting",
			Description: "Please join us for an important discussion",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
	{
		ID:       "birthday",
		Name:     "Birthday Party",
		Category: "Social",
		Preview: Preview{
			Title:       "Birthday Celebration",
			Description: "You're invited to celebrate with us!",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
	{
		ID:       "wedding",
		Name:     "Wedding",
		Category: "Formal",
		Preview: Preview{
			Title:       "Wedding Invitation",
			Description: "We request the honor of your presence at our wedding",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
	{
		ID:       "conference",
		Name:     "Conference",
		Category: "Professional",
		Preview: Preview{
			Title:       "Annual Conference",
			Description: "Join us for insights and networking",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
	{
		ID:       "social_gathering",
		Name:     "Social Gathering",
		Category: "Social",
		Preview: Preview{
			Title:       "Get Together",
			Description: "Let's catch up and have some fun!",
			YesText:     "Accept",
			NoText:      "Decline",
		},
	},
}

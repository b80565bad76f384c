package engine

// ContactMilestone is one address-book row with a known birth year,
// reduced to what the calendar feed needs.
type ContactMilestone struct {
	// UID is a name-based UUID, stable across syncs for the same contact.
	UID string

	// Name is the display name (Formatted Name or Structured Name).
	Name string

	// Result holds the parsed birth date and the computed milestone.
	Result Result
}

package domain

// Draft accumulates one user's questionnaire answers before submission. It is
// owned exclusively by the user's conversation session and never persisted.
type Draft struct {
	UserID int64
	Locale string

	Name     string
	Phone    string
	Telegram string
	City     string
	Social   string

	Directions []string
	Methods    []string
	Education  string
	Experience string

	WorkFormats  []string
	ClientsCount string
	AverageCheck string
	Requests     []string

	Audience    string
	Positioning string

	PhotoURL string
}

// NewDraft seeds a draft for one user. Multi-select sets start empty so
// toggling never has to distinguish nil from empty.
func NewDraft(userID int64, locale string) *Draft {
	return &Draft{
		UserID:      userID,
		Locale:      locale,
		Directions:  []string{},
		Methods:     []string{},
		WorkFormats: []string{},
		Requests:    []string{},
	}
}

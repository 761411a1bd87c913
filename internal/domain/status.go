package domain

import "strings"

// Status is the moderation state of a profile record. The external store
// decorates status values with presentation markers and stores them in either
// of two locales; ParseStatus folds all spellings into this enum.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusApproved
	StatusDeclined
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusApproved:
		return "Approved"
	case StatusDeclined:
		return "Declined"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the status is a moderation outcome users are
// notified about.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDeclined
}

// Label returns the store-facing spelling of the status for a locale.
func (s Status) Label(locale string) string {
	if locale == LocaleRU {
		switch s {
		case StatusPending:
			return "На проверке"
		case StatusApproved:
			return "Одобрено"
		case StatusDeclined:
			return "Отклонено"
		}
	}
	return s.String()
}

// statusSpellings maps every known plain spelling, lowercased, to the enum.
// Presentation markers are stripped before lookup.
var statusSpellings = map[string]Status{
	"pending":     StatusPending,
	"на проверке": StatusPending,
	"approved":    StatusApproved,
	"одобрено":    StatusApproved,
	"declined":    StatusDeclined,
	"отклонено":   StatusDeclined,
}

// decorations seen in front of status values in the store.
var decorations = []string{"🟢", "🟡", "🔴", "⚪", "✅", "⚠️"}

// ParseStatus normalizes a raw status value from the store. Decorated and
// plain spellings of the same logical status compare equal; anything
// unrecognized maps to StatusUnknown rather than passing through.
func ParseStatus(raw string) Status {
	s := strings.TrimSpace(raw)
	for _, d := range decorations {
		s = strings.ReplaceAll(s, d, "")
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if st, ok := statusSpellings[s]; ok {
		return st
	}
	return StatusUnknown
}

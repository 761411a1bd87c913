package domain

// Locales supported by the questionnaire and the store.
const (
	LocaleRU = "ru"
	LocaleEN = "en"
)

// NormalizeLocale folds arbitrary locale hints into a supported locale.
func NormalizeLocale(hint string) string {
	if len(hint) >= 2 && hint[:2] == "en" {
		return LocaleEN
	}
	return LocaleRU
}

// Profile is the durable entity in the external record store, as this system
// sees it: identity fields, localized choice values, moderation status, and
// the notified flag owned by the reconciliation loop.
type Profile struct {
	RecordID   string
	UserID     int64
	Name       string
	City       string
	Telegram   string
	Locale     string
	Status     Status
	RawStatus  string
	Notified   bool
	Direction  string
	PhotoURL   string
	SubmitDate string
}

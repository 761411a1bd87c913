package recordstore

import (
	"strconv"
	"strings"

	"pazlcollab/internal/domain"
)

// Field names of the expert table. The store is schema-flexible; these are
// the names this system reads and writes.
const (
	FieldName         = "Name"
	FieldPhone        = "Phone"
	FieldTelegram     = "Telegram"
	FieldCity         = "City"
	FieldSocial       = "Social"
	FieldLanguage     = "Language"
	FieldEducation    = "Education"
	FieldExperience   = "Experience"
	FieldClients      = "Clients"
	FieldAverageCheck = "AverageCheck"
	FieldDirection    = "Direction"
	FieldMethods      = "Methods"
	FieldFormat       = "Format"
	FieldRequests     = "Requests"
	FieldAudience     = "Audience"
	FieldPositioning  = "Positioning"
	FieldTelegramID   = "TelegramID"
	FieldPhoto        = "Photo"
	FieldStatus       = "Status"
	FieldNotified     = "Notified"
	FieldSubmitDate   = "SubmitDate"
)

// ProfileFromRecord maps a raw record onto the domain view of a profile.
// Unparseable telegram identifiers map to zero; callers that key on the user
// must skip those records.
func ProfileFromRecord(rec Record) domain.Profile {
	f := rec.Fields
	userID, _ := strconv.ParseInt(strings.TrimSpace(f.String(FieldTelegramID)), 10, 64)
	raw := f.String(FieldStatus)
	return domain.Profile{
		RecordID:   rec.ID,
		UserID:     userID,
		Name:       f.String(FieldName),
		City:       f.String(FieldCity),
		Telegram:   f.String(FieldTelegram),
		Locale:     domain.NormalizeLocale(f.String(FieldLanguage)),
		Status:     domain.ParseStatus(raw),
		RawStatus:  raw,
		Notified:   f.Bool(FieldNotified),
		Direction:  strings.Join(f.Strings(FieldDirection), ", "),
		PhotoURL:   f.AttachmentURL(FieldPhoto),
		SubmitDate: f.String(FieldSubmitDate),
	}
}

// Package catalog serves the read side: approved expert profiles, cached,
// filtered, and paginated over HTTP for the web app.
package catalog

import (
	"strings"

	"pazlcollab/internal/domain"
	"pazlcollab/internal/recordstore"
)

// Expert is the public JSON shape of one approved profile. Field names are
// part of the web app contract; do not rename.
type Expert struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	City         string   `json:"city"`
	Language     string   `json:"language"`
	Telegram     string   `json:"telegram"`
	TelegramID   string   `json:"telegram_id"`
	PhotoURL     string   `json:"photo_url"`
	Status       string   `json:"status"`
	Education    string   `json:"education"`
	Experience   string   `json:"experience"`
	Clients      string   `json:"clients"`
	AverageCheck string   `json:"average_check"`
	Direction    []string `json:"direction"`
	Methods      []string `json:"methods"`
	Formats      []string `json:"formats"`
	Requests     []string `json:"requests"`
	Audience     string   `json:"audience"`
	Positioning  string   `json:"positioning"`
}

func expertFromRecord(rec recordstore.Record) Expert {
	f := rec.Fields
	return Expert{
		ID:           rec.ID,
		Name:         f.String(recordstore.FieldName),
		City:         f.String(recordstore.FieldCity),
		Language:     domain.NormalizeLocale(f.String(recordstore.FieldLanguage)),
		Telegram:     f.String(recordstore.FieldTelegram),
		TelegramID:   f.String(recordstore.FieldTelegramID),
		PhotoURL:     f.AttachmentURL(recordstore.FieldPhoto),
		Status:       domain.ParseStatus(f.String(recordstore.FieldStatus)).String(),
		Education:    f.String(recordstore.FieldEducation),
		Experience:   f.String(recordstore.FieldExperience),
		Clients:      f.String(recordstore.FieldClients),
		AverageCheck: f.String(recordstore.FieldAverageCheck),
		Direction:    f.Strings(recordstore.FieldDirection),
		Methods:      f.Strings(recordstore.FieldMethods),
		Formats:      f.Strings(recordstore.FieldFormat),
		Requests:     f.Strings(recordstore.FieldRequests),
		Audience:     f.String(recordstore.FieldAudience),
		Positioning:  f.String(recordstore.FieldPositioning),
	}
}

// matches applies the catalog filters; empty filter values match everything.
func (e Expert) matches(lang, city, direction string) bool {
	if lang != "" && e.Language != domain.NormalizeLocale(lang) {
		return false
	}
	if city != "" && !strings.EqualFold(e.City, city) {
		return false
	}
	if direction != "" {
		found := false
		for _, d := range e.Direction {
			if strings.Contains(strings.ToLower(d), strings.ToLower(direction)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Package fieldmap translates internal option codes to the localized labels
// the record store holds, and back-stops writes by filtering values the
// store's constrained-choice validation would reject. It is a pure lookup
// layer with no state.
package fieldmap

import "pazlcollab/internal/domain"

func localeKey(locale string) string {
	if locale == domain.LocaleEN {
		return "en"
	}
	return "ru"
}

// Options returns the selectable options for a field in a locale, in display
// order. Unknown fields return nil.
func Options(field, locale string) []Option {
	return tables[field][localeKey(locale)]
}

// Label maps one internal code to its localized label. Unknown codes pass
// through unchanged so store-side manual edits survive a round trip.
func Label(field, locale, code string) string {
	if field == FieldRequests {
		if canonical, ok := requestAliases[code]; ok {
			code = canonical
		}
	}
	for _, opt := range tables[field][localeKey(locale)] {
		if opt.Code == code {
			return opt.Label
		}
	}
	return code
}

// Labels maps a set of internal codes to localized labels, preserving order.
// Empty codes are skipped; unknown codes pass through unchanged.
func Labels(field, locale string, codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" {
			continue
		}
		out = append(out, Label(field, locale, code))
	}
	return out
}

// Filter keeps only values present in the current valid label set for the
// field, across both locales. Multi-valued fields must pass through here
// before a write or the store rejects the whole record.
func Filter(field string, values []string) []string {
	known := make(map[string]struct{})
	for _, byLocale := range []string{"ru", "en"} {
		for _, opt := range tables[field][byLocale] {
			known[opt.Label] = struct{}{}
		}
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := known[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

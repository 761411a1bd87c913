package recordstore

import "time"

// Fields is the raw field set of one record. The store is schema-flexible, so
// values come back as loosely typed JSON; the accessors below cover the
// shapes this system reads.
type Fields map[string]any

// Record is one entity in the external store.
type Record struct {
	ID          string    `json:"id"`
	CreatedTime time.Time `json:"createdTime"`
	Fields      Fields    `json:"fields"`
}

// String returns a string field, or "" when absent or differently typed.
func (f Fields) String(key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}

// Strings returns a list field. Single string values are wrapped so callers
// do not care whether the store kept a list or collapsed it.
func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Bool returns a boolean field; absent fields read as false (the store omits
// unchecked checkboxes entirely).
func (f Fields) Bool(key string) bool {
	v, _ := f[key].(bool)
	return v
}

// AttachmentURL returns the URL of the first attachment in an attachment
// field, or "".
func (f Fields) AttachmentURL(key string) string {
	list, ok := f[key].([]any)
	if !ok || len(list) == 0 {
		return ""
	}
	att, ok := list[0].(map[string]any)
	if !ok {
		return ""
	}
	url, _ := att["url"].(string)
	return url
}

// Attachment builds the attachment-list value the store expects for image
// fields.
func Attachment(url string) []map[string]string {
	return []map[string]string{{"url": url}}
}

// ListOptions narrows a List call.
type ListOptions struct {
	// Formula is a store-side filter expression; empty means all records.
	Formula string
	// Fields projects the response down to the named fields.
	Fields []string
	// MaxRecords caps the result; 0 means the store default.
	MaxRecords int
}

package erp

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	AddressNotAvailable = "📍 *Address:* not available"
	AddressFetchFailed  = "📍 *Address:* could not be retrieved at the moment"

	customFieldPrefix = "custom_"
)

// AllowedCustomFields are the only custom-document fields rendered, in display order.
var AllowedCustomFields = []string{
	"custom_building_name",
	"custom_flat_number",
	"custom_area",
	"custom_landmark",
	"custom_makani_number",
	"custom_delivery_notes",
	"custom_preferred_delivery_time",
}

// fallbackCustomFields are tried when no allow-listed field carries a value.
var fallbackCustomFields = []string{"address_line1", "city", "pincode"}

// FormatAddress renders an address block. Empty fields are omitted.
func FormatAddress(a *Address) string {
	if a == nil {
		return AddressNotAvailable
	}

	var lines []string
	for _, v := range []string{a.AddressTitle, a.AddressLine1, a.AddressLine2, locationLine(a), a.Country} {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, v)
		}
	}
	if p := strings.TrimSpace(a.Phone); p != "" {
		lines = append(lines, "Phone: "+p)
	}
	if e := strings.TrimSpace(a.EmailID); e != "" {
		lines = append(lines, "Email: "+e)
	}

	if len(lines) == 0 {
		return AddressNotAvailable
	}
	return "📍 *Address:*\n" + strings.Join(lines, "\n")
}

// locationLine joins city, state and pincode as "city, state - pincode",
// placing each separator only when something precedes it.
func locationLine(a *Address) string {
	var b strings.Builder
	if c := strings.TrimSpace(a.City); c != "" {
		b.WriteString(c)
	}
	if s := strings.TrimSpace(a.State); s != "" {
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s)
	}
	if p := strings.TrimSpace(a.Pincode); p != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(p)
	}
	return b.String()
}

// FormatCustomDocument renders the allow-listed fields of doc, one per line.
// It returns false when neither the allow-list nor the fallback fields have a value.
func FormatCustomDocument(doc Document, allowed []string) (string, bool) {
	if lines := fieldLines(doc, allowed); len(lines) > 0 {
		return strings.Join(lines, "\n"), true
	}
	if lines := fieldLines(doc, fallbackCustomFields); len(lines) > 0 {
		return strings.Join(lines, "\n"), true
	}
	return "", false
}

func fieldLines(doc Document, fields []string) []string {
	var lines []string
	for _, f := range fields {
		v := valueString(doc[f])
		if v == "" {
			continue
		}
		lines = append(lines, FieldLabel(f)+": "+v)
	}
	return lines
}

// fallbackLabels names the standard fields shown when a document has no
// custom values.
var fallbackLabels = map[string]string{
	"address_line1": "Address",
	"city":          "City",
	"pincode":       "Pincode",
}

// FieldLabel converts "custom_flat_number" into "Flat Number". Fields without
// the custom prefix keep their name unless they are known fallbacks.
func FieldLabel(field string) string {
	name, ok := strings.CutPrefix(field, customFieldPrefix)
	if !ok {
		if label, known := fallbackLabels[field]; known {
			return label
		}
		return field
	}
	// Casers are stateful, so one per call.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

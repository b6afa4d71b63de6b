// Package barcode turns raw scanner payloads into a SKU and optional dates.
package barcode

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

var skuPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// Format identifies which payload shape a scanned string matched.
type Format uint8

const (
	FormatBare Format = iota
	FormatVendorURL
	FormatHashDelimited
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatVendorURL:
		return "vendor_url"
	case FormatHashDelimited:
		return "hash_delimited"
	default:
		return "bare"
	}
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

const (
	vendorMarker = "cii1"
	gs1Prefix    = "00"
	skuLength    = 8
	dateLayout   = "20060102"

	// DateFormat is the layout used when rendering parsed dates.
	DateFormat = "2006-01-02"
)

// Result is the normalized outcome of parsing a payload.
type Result struct {
	Format         Format
	SKU            string
	ExpiryDate     *time.Time
	ProductionDate *time.Time
}

// ExpiryDateString returns the expiry date as YYYY-MM-DD, or nil when unset.
func (r Result) ExpiryDateString() *string {
	if r.ExpiryDate == nil {
		return nil
	}
	s := r.ExpiryDate.Format(DateFormat)
	return &s
}

// Detect reports the format Parse would use for raw.
func Detect(raw string) Format {
	return Parse(raw).Format
}

// Parse extracts a SKU and optional dates from raw. Unrecognized input is
// never an error: it is returned verbatim (trimmed) as a bare SKU.
func Parse(raw string) Result {
	raw = strings.TrimSpace(raw)

	if res, ok := parseVendorURL(raw); ok {
		return res
	}
	if res, ok := parseHashDelimited(raw); ok {
		return res
	}

	return Result{Format: FormatBare, SKU: raw}
}

// parseVendorURL handles .../cii1/<ai>&<field>&...&<YYYYMMDD>#/ payloads.
func parseVendorURL(raw string) (Result, bool) {
	if !strings.Contains(raw, vendorMarker) {
		return Result{}, false
	}

	path := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		path = u.Path
	} else if i := strings.IndexAny(path, "#?"); i >= 0 {
		path = path[:i]
	}

	segments := strings.Split(path, "/")
	payload := ""
	found := false
	for i, seg := range segments {
		if seg == vendorMarker && i+1 < len(segments) {
			payload = segments[i+1]
			found = true
			break
		}
	}
	if !found || payload == "" {
		return Result{}, false
	}

	fields := strings.Split(payload, "&")
	sku, production := splitAI(fields[0])
	if sku == "" {
		return Result{}, false
	}

	res := Result{
		Format:         FormatVendorURL,
		SKU:            sku,
		ProductionDate: production,
	}
	if len(fields) > 1 {
		res.ExpiryDate = parseDate(fields[len(fields)-1])
	}

	return res, true
}

// parseHashDelimited handles 00<sku>[<production>]#<field>#<YYYYMMDD> payloads.
func parseHashDelimited(raw string) (Result, bool) {
	parts := strings.Split(raw, "#")
	if len(parts) < 3 {
		return Result{}, false
	}

	sku, production := splitAI(strings.TrimSpace(parts[0]))
	if sku == "" {
		return Result{}, false
	}

	return Result{
		Format:         FormatHashDelimited,
		SKU:            sku,
		ProductionDate: production,
		ExpiryDate:     parseDate(strings.TrimSpace(parts[2])),
	}, true
}

// splitAI strips the GS1 "00" identifier and splits the remainder into an
// 8 character (rune) SKU and an optional trailing production date.
func splitAI(field string) (string, *time.Time) {
	field = strings.TrimPrefix(field, gs1Prefix)
	chars := []rune(field)
	if len(chars) <= skuLength {
		return field, nil
	}

	rest := chars[skuLength:]
	if len(rest) > len(dateLayout) {
		rest = rest[:len(dateLayout)]
	}

	return string(chars[:skuLength]), parseDate(string(rest))
}

// ValidSKU reports whether s is a SKU that can be stored and queried:
// 1-64 letters, digits, dots, dashes or underscores. Parse does not enforce
// this, so bare fallbacks may need checking before use.
func ValidSKU(s string) bool {
	return skuPattern.MatchString(s)
}

// parseDate parses an exact 8 digit YYYYMMDD field, returning nil for
// anything else including impossible calendar dates.
func parseDate(s string) *time.Time {
	if len(s) != len(dateLayout) {
		return nil
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return nil
		}
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

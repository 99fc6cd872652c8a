package mpesa

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout    = "2/1/06"
	clockLayout   = "2/1/06 3:04 PM"
	dueDateLayout = "02/01/06"

	// maxMessageLen bounds matching cost on adversarial input; real
	// notification messages are a few hundred characters.
	maxMessageLen = 4096
)

// CleanAmount normalizes a raw monetary span into a non-negative decimal.
// It strips thousands separators and embedded spaces, prepends a zero to a
// leading decimal point, drops trailing stray periods, and collapses the
// "12.0.00" artifact of upstream formatting to its first and last segments.
// The function is idempotent over its own output. An empty or non-numeric
// span is a MalformedAmountError.
func CleanAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if strings.HasPrefix(cleaned, ".") {
		cleaned = "0" + cleaned
	}
	cleaned = strings.TrimRight(strings.TrimSpace(cleaned), ".")
	if strings.Count(cleaned, ".") > 1 {
		parts := strings.Split(cleaned, ".")
		cleaned = parts[0] + "." + parts[len(parts)-1]
	}
	if cleaned == "" {
		return decimal.Zero, &MalformedAmountError{Raw: raw}
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero, &MalformedAmountError{Raw: raw}
	}
	return d, nil
}

// cleanField is CleanAmount with the owning field name attached to the error.
func cleanField(field, raw string) (decimal.Decimal, error) {
	d, err := CleanAmount(raw)
	if err != nil {
		return decimal.Zero, &MalformedAmountError{Field: field, Raw: raw}
	}
	return d, nil
}

// cleanOptional normalizes an optional span into dst. An uncaptured span
// leaves dst nil; a captured span that fails to normalize is an error.
func cleanOptional(field, raw string, dst **decimal.Decimal) error {
	if raw == "" {
		return nil
	}
	d, err := cleanField(field, raw)
	if err != nil {
		return err
	}
	*dst = &d
	return nil
}

// parseOccurredAt combines a captured date and optional clock span into a
// timestamp. The returned bool reports whether a clock component was present.
func parseOccurredAt(dateRaw, clockRaw string) (time.Time, bool, error) {
	if clockRaw == "" {
		t, err := time.Parse(dateLayout, dateRaw)
		if err != nil {
			return time.Time{}, false, &MalformedTimestampError{Raw: dateRaw, Err: err}
		}
		return t, false, nil
	}
	combined := dateRaw + " " + normalizeClock(clockRaw)
	t, err := time.Parse(clockLayout, combined)
	if err != nil {
		return time.Time{}, false, &MalformedTimestampError{Raw: combined, Err: err}
	}
	return t, true, nil
}

// normalizeClock ensures a single space before the AM/PM marker; messages
// sometimes run the meridiem into the minutes ("7:18PM").
func normalizeClock(raw string) string {
	c := strings.ToUpper(strings.TrimSpace(raw))
	c = strings.ReplaceAll(c, "AM", " AM")
	c = strings.ReplaceAll(c, "PM", " PM")
	return strings.Join(strings.Fields(c), " ")
}

// collapseSpaces trims a captured span and collapses internal whitespace
// runs to single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

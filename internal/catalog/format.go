package catalog

import (
	"strconv"
	"strings"
)

// FormatReviewCount renders counts of 1000 and up in thousands with one
// decimal and a "B" (bin) suffix; the first ".0" is dropped: 1000 -> "1B",
// 1250 -> "1.3B", 1150 -> "1.1B".
//
// Rounding follows the binary value of n/1000, the way a browser's
// toFixed(1) does: 1.15 is stored just below the tie and rounds down.
// Exact binary ties (n%500 == 250) round up.
func FormatReviewCount(n int) string {
	if n < 1000 {
		return strconv.Itoa(n)
	}
	var s string
	if n%500 == 250 {
		t := (n + 50) / 100
		s = strconv.Itoa(t/10) + "." + strconv.Itoa(t%10)
	} else {
		s = strconv.FormatFloat(float64(n)/1000, 'f', 1, 64)
	}
	return strings.Replace(s, ".0", "", 1) + "B"
}

// StatusLabel is the Turkish label used on the summary pills.
func StatusLabel(s Status) string {
	switch s {
	case StatusOpen:
		return "Açık"
	case StatusRestoration:
		return "Restorasyonda"
	case StatusClosed:
		return "Kapalı"
	}
	return string(s)
}

// BadgeLabel is the card badge text. Unknown statuses render as closed.
func BadgeLabel(s Status) string {
	switch s {
	case StatusOpen:
		return "AÇIK"
	case StatusRestoration:
		return "⚠️ RESTORASYONDA"
	}
	return "KAPALI"
}

type StatusCount struct {
	Status Status `json:"status"`
	Label  string `json:"label"`
	Count  int    `json:"count"`
}

// StatusCounts counts records per known status, in display order.
func StatusCounts(records []Museum) []StatusCount {
	out := make([]StatusCount, len(Statuses))
	for i, s := range Statuses {
		out[i] = StatusCount{Status: s, Label: StatusLabel(s)}
	}
	for _, m := range records {
		for i := range out {
			if out[i].Status == m.Status {
				out[i].Count++
				break
			}
		}
	}
	return out
}

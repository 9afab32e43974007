package reconcile

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LabelLayout is the weekday and month/day format of a day selector label
const LabelLayout = "Monday, 01/02"

const degree = "°"

// DayLabels returns n consecutive calendar-day labels starting at now's date
func DayLabels(now time.Time, n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = now.AddDate(0, 0, i).Format(LabelLayout)
	}
	return labels
}

// ResolveSelection keeps prev's position in labels, or resets to 0 when it is
// no longer present.
func ResolveSelection(labels []string, prev string) int {
	for i, label := range labels {
		if label == prev {
			return i
		}
	}
	return 0
}

// Ordinal formats a day of the month with its English suffix
func Ordinal(day int) string {
	suffix := "th"
	if mod := day % 100; mod < 11 || mod > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}

// LongDate formats now as "Tuesday, October 14th  |  03:04 PM"
func LongDate(now time.Time) string {
	return now.Format("Monday, January") + " " + Ordinal(now.Day()) + "  |  " + now.Format("03:04 PM")
}

// Degrees truncates a temperature toward zero and appends a degree mark
func Degrees(temp float64) string {
	return strconv.Itoa(int(temp)) + degree
}

// Percent truncates a percentage to an integer
func Percent(pct float64) string {
	return strconv.Itoa(int(pct)) + "%"
}

// Speed truncates a wind speed and appends the unit suffix
func Speed(speed float64, suffix string) string {
	return strconv.Itoa(int(speed)) + " " + suffix
}

// wordCapitalizer upper-cases the first letter of every space-separated word,
// leaving the rest of each word untouched.
type wordCapitalizer struct {
	caser cases.Caser
}

func newWordCapitalizer(tag language.Tag) *wordCapitalizer {
	return &wordCapitalizer{caser: cases.Title(tag, cases.NoLower)}
}

func (w *wordCapitalizer) String(s string) string {
	words := strings.Split(s, " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		_, size := utf8.DecodeRuneInString(word)
		words[i] = w.caser.String(word[:size]) + word[size:]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

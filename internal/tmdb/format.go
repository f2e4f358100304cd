package tmdb

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ImageSize is one of the poster widths served by the image host.
type ImageSize string

const (
	SizeW200     ImageSize = "w200"
	SizeW300     ImageSize = "w300"
	SizeW500     ImageSize = "w500"
	SizeOriginal ImageSize = "original"

	// DefaultImageSize is used when no recognized size is given.
	DefaultImageSize = SizeW500

	// ImageBaseURL is the image host prefix.
	ImageBaseURL = "https://image.tmdb.org/t/p"
	// PlaceholderImage is returned when a movie has no poster.
	PlaceholderImage = "/placeholder-movie.svg"

	// InvalidDate is rendered for unparseable release dates.
	InvalidDate = "Invalid Date"
)

// Valid reports whether s is a recognized size token.
func (s ImageSize) Valid() bool {
	switch s {
	case SizeW200, SizeW300, SizeW500, SizeOriginal:
		return true
	}
	return false
}

// ImageURL builds the absolute URL of a poster. A nil or empty path yields
// the placeholder regardless of size.
func ImageURL(path *string, size ImageSize) string {
	if path == nil || *path == "" {
		return PlaceholderImage
	}
	if !size.Valid() {
		size = DefaultImageSize
	}
	return ImageBaseURL + "/" + string(size) + *path
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO-8601 date in the Korean long form, e.g. "2024년 3월 15일".
func FormatDate(iso string) string {
	return FormatDateLocale(iso, DefaultLanguage)
}

// FormatDateLocale renders an ISO-8601 date in the long form of locale.
// Supported locales are ko-KR and en-US; anything else uses ko-KR.
func FormatDateLocale(iso, locale string) string {
	t, ok := parseDate(iso)
	if !ok {
		return InvalidDate
	}
	switch locale {
	case "en-US":
		return t.Format("January 2, 2006")
	default:
		return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
	}
}

// FormatVoteAverage renders a rating with exactly one decimal digit.
// Halves round away from zero: 7.05 becomes "7.1".
func FormatVoteAverage(value float64) string {
	return strconv.FormatFloat(roundToOneDecimal(value), 'f', 1, 64)
}

func roundToOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10.0
}

package sourcekey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotMonthFolder is returned by Parse for names that are not "<month>.<year>".
var ErrNotMonthFolder = errors.New("not a month folder")

// Key identifies one month of source data, e.g. "2024/03.2024".
type Key struct {
	YearFolder string
	Month      string // zero-padded, "01".."12"
	Year       string
}

// Parse builds a Key from a year folder name and a "<month>.<year>" folder
// name. "3.2024" and "03.2024" yield the same key.
func Parse(yearFolder, folder string) (Key, error) {
	if !isDigits(yearFolder) {
		return Key{}, fmt.Errorf("year folder %q: %w", yearFolder, ErrNotMonthFolder)
	}

	month, year, ok := splitPair(strings.TrimSpace(folder))
	if !ok {
		return Key{}, fmt.Errorf("folder %q: %w", folder, ErrNotMonthFolder)
	}

	m, err := strconv.Atoi(month)
	if err != nil {
		return Key{}, fmt.Errorf("invalid month in folder %q: %w", folder, err)
	}
	if m < 1 || m > 12 {
		return Key{}, fmt.Errorf("invalid month %d in folder %q", m, folder)
	}

	return Key{YearFolder: yearFolder, Month: pad(m), Year: year}, nil
}

// String returns the canonical form "<yearFolder>/<mm>.<year>".
func (k Key) String() string {
	return fmt.Sprintf("%s/%s.%s", k.YearFolder, k.Month, k.Year)
}

// Date returns the first day of the key's month in UTC.
func (k Key) Date() time.Time {
	y, _ := strconv.Atoi(k.Year)
	m, _ := strconv.Atoi(k.Month)
	return time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
}

// MonthName returns the English calendar name of the key's month.
func (k Key) MonthName() string {
	m, _ := strconv.Atoi(k.Month)
	return time.Month(m).String()
}

// Normalize canonicalizes a Source value read back from a combined file.
// Values containing "/" are already canonical; bare "<m>.<y>" pairs get a
// padded month; anything else is returned trimmed but otherwise unchanged.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		return s
	}
	month, year, ok := splitPair(s)
	if !ok {
		return s
	}
	m, err := strconv.Atoi(month)
	if err != nil {
		return s
	}
	return pad(m) + "." + year
}

func splitPair(s string) (string, string, bool) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 || !isDigits(parts[0]) || !isDigits(parts[1]) {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func pad(m int) string {
	return fmt.Sprintf("%02d", m)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

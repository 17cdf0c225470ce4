package quotes

import (
	"fmt"
	"regexp"
	"strconv"
)

var numberPattern = regexp.MustCompile(`^Q-(\d{4})-(\d{3,})$`)

// NextNumber generates the next quote number, Q-<year>-<3digit>. The running
// suffix continues from the highest suffix seen across all years, matching
// how numbers were always assigned.
func NextNumber(existing []string, year int) string {
	max := 0
	for _, n := range existing {
		m := numberPattern.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		if suffix, err := strconv.Atoi(m[2]); err == nil && suffix > max {
			max = suffix
		}
	}
	return fmt.Sprintf("Q-%d-%03d", year, max+1)
}

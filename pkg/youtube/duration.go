package youtube

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// ParseDuration converts an ISO-8601 duration such as PT1H2M30S into minutes
func ParseDuration(iso string) (float64, error) {
	m := isoDurationRE.FindStringSubmatch(iso)
	if m == nil || iso == "P" || iso == "PT" {
		return 0, fmt.Errorf("unexpected duration format %q", iso)
	}

	var minutes float64
	units := []float64{24 * 60, 60, 1, 1.0 / 60}
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseFloat(m[i+1], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing duration %q: %w", iso, err)
		}
		minutes += n * unit
	}
	return minutes, nil
}

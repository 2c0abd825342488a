package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	clockRe = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	unitsRe = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?(?:(\d+)s)?$`)
	secsRe  = regexp.MustCompile(`^\d+$`)
)

// Duration normalizes a runtime value to H:MM:SS, or M:SS when there are no hours.
// Accepted forms are clock strings (1:02:03, 75:05), unit strings (1h2m3s, 95m12s)
// and a plain number of seconds (3723). Anything else is returned as is,
// blank input gives an empty string.
func Duration(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if clockRe.MatchString(s) {
		parts := strings.Split(s, ":")
		nums := make([]int, len(parts))
		for i, p := range parts {
			nums[i], _ = strconv.Atoi(p) // digits only, guaranteed by clockRe
		}
		// two parts are always minutes and seconds, even past 59 minutes
		if len(nums) == 2 {
			return fmt.Sprintf("%d:%02d", nums[0], nums[1])
		}
		return fmt.Sprintf("%d:%02d:%02d", nums[0], nums[1], nums[2])
	}

	if m := unitsRe.FindStringSubmatch(strings.ToLower(s)); m != nil && (m[1] != "" || m[2] != "" || m[3] != "") {
		return formatClock(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}

	if secsRe.MatchString(s) {
		total, err := strconv.Atoi(s)
		if err != nil {
			return s // too large for int
		}
		return formatClock(total/3600, total%3600/60, total%60)
	}

	return s
}

func formatClock(h, m, s int) string {
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

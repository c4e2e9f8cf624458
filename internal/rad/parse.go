package rad

import (
	"strconv"
	"strings"
)

// splitFields tokenizes a whitespace-separated entity value string (keys
// like "origin" and "_color" store "x y z").
func splitFields(s string) []string {
	return strings.Fields(s)
}

func atof(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// parseFirstToken parses the first whitespace-separated token of s as a
// float into out, returning the number of tokens consumed (0 or 1).
func parseFirstToken(s string, out *float64) (int, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, nil
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, err
	}
	*out = f
	return 1, nil
}

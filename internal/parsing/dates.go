// Package parsing holds small input parsing helpers.
package parsing

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// ParseDate parses a user supplied date string in any common format.
func ParseDate(dateString string) (time.Time, error) {
	t, err := dateparse.ParseAny(dateString)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse date: %s", dateString)
	}
	return t, nil
}

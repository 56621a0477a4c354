package orders

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	orderNumberPrefix  = "ORD"
	base36Alphabet     = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomSuffixLength = 4
)

// GenerateOrderNumber produces a human-readable order number of the form
// ORD-<base36 millisecond timestamp>-<4 random base36 chars>, all uppercase.
// The format is load-bearing: the tracking UI parses it, so keep it stable.
func GenerateOrderNumber(now time.Time) (string, error) {
	timeComponent := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))

	buf := make([]byte, randomSuffixLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random suffix: %w", err)
	}
	suffix := make([]byte, randomSuffixLength)
	for i, b := range buf {
		suffix[i] = base36Alphabet[int(b)%len(base36Alphabet)]
	}

	return fmt.Sprintf("%s-%s-%s", orderNumberPrefix, timeComponent, string(suffix)), nil
}

package card

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigitRE = regexp.MustCompile(`[^0-9]`)
	timeRE     = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	amountRE   = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// ClampBattery strips everything but digits from the input ("87%" -> 87)
// and clamps the result to 0-100. Empty input counts as 0.
func ClampBattery(s string) int {
	digits := nonDigitRE.ReplaceAllString(s, "")
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// longer than an int; treat as over-range
		return 100
	}
	return max(0, min(100, n))
}

// ValidateTime accepts 8:52, 08:52 or 8.52 and normalizes to HH:MM.
// Minutes must be two digits; hours 0-23, minutes 00-59.
func ValidateTime(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	m := timeRE.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("time must look like HH:MM (e.g. 08:52)")
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if hh > 23 || mm > 59 {
		return "", fmt.Errorf("time out of range")
	}
	return fmt.Sprintf("%02d:%02d", hh, mm), nil
}

// NormalizeAmount accepts 0.5589 or 0,5589 and returns the dot form
// unchanged otherwise, so the final amount line has no gaps.
func NormalizeAmount(s string) (string, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if !amountRE.MatchString(s) {
		return "", fmt.Errorf("amount must be a number, e.g. 0.558938487")
	}
	return s, nil
}

// ValidateWallet trims the address and requires a minimum length. No
// blockchain verification is performed.
func ValidateWallet(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return "", fmt.Errorf("wallet address looks too short")
	}
	return s, nil
}

// NewOpID generates an operation identifier of the form WD + 7 digits.
// IDs are drawn uniformly; duplicates across renders are tolerated.
func NewOpID() string {
	return fmt.Sprintf("WD%d", 1000000+rand.Intn(9000000))
}

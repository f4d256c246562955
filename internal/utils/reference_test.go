package utils_test

import (
    "regexp"
    "testing"

    "github.com/nexis-travel/bookit-server/internal/utils"
)

func TestNewBookingReferenceFormat(t *testing.T) {
    re := regexp.MustCompile(`^BK-[0-9A-F]{10}$`)
    seen := make(map[string]bool)
    for i := 0; i < 100; i++ {
        ref, err := utils.NewBookingReference()
        if err != nil {
            t.Fatalf("unexpected error: %v", err)
        }
        if !re.MatchString(ref) {
            t.Fatalf("reference %q does not match expected format", ref)
        }
        if seen[ref] {
            t.Fatalf("reference %q repeated within 100 draws", ref)
        }
        seen[ref] = true
    }
}

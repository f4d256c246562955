package utils

import (
    "crypto/rand"
    "encoding/hex"
    "strings"
)

// NewBookingReference generates a short human-readable booking reference of
// the form "BK-XXXXXXXXXX" (10 upper-case hex characters).  References are
// random rather than sequential so they cannot be enumerated; the UNIQUE
// index on bookings.booking_reference catches the astronomically unlikely
// collision.
func NewBookingReference() (string, error) {
    buf := make([]byte, 5)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return "BK-" + strings.ToUpper(hex.EncodeToString(buf)), nil
}

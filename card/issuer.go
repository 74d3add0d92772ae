// Package card issues payment cards and validates card-number checksums.
package card

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go-card-ledger/model"
)

// IssuerPrefix is the fixed 6-digit prefix of every card number we issue.
const IssuerPrefix = "610433"

// NumberLength is the full card number length, check digit included.
const NumberLength = 16

// Issue generates a new card: the issuer prefix, 9 random digits, and the
// Luhn check digit over the resulting 15 digits. The CVV is an independent
// random draw in [100, 999] and the expiry lands between 1 and 5 years out.
//
// Issue does not know about already-issued numbers; the registry retries
// issuance on collision.
func Issue() model.Card {
	var b strings.Builder
	b.WriteString(IssuerPrefix)
	for i := 0; i < NumberLength-len(IssuerPrefix)-1; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	payload := b.String()

	return model.Card{
		Number: payload + strconv.Itoa(checkDigit(payload)),
		CVV:    strconv.Itoa(rand.IntN(900) + 100),
		Expiry: time.Now().AddDate(0, 0, rand.IntN(1461)+365),
	}
}

// ValidChecksum reports whether number passes the Luhn check: walking from
// the rightmost digit, every second digit is doubled (minus 9 when the
// double exceeds 9) and the total must be a multiple of 10. Any non-digit
// input fails.
func ValidChecksum(number string) bool {
	if number == "" {
		return false
	}
	sum := 0
	for i := 0; i < len(number); i++ {
		c := number[len(number)-1-i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return sum%10 == 0
}

// checkDigit computes the Luhn check digit for a digit payload, i.e. the
// digit that makes payload+digit pass ValidChecksum. With the check digit
// appended, the payload's rightmost digit becomes the doubled one.
func checkDigit(payload string) int {
	sum := 0
	for i := 0; i < len(payload); i++ {
		d := int(payload[len(payload)-1-i] - '0')
		if i%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

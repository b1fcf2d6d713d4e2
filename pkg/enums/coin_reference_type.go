package enums

import "fmt"

// CoinReferenceType names the source of a ledger entry. Together with the
// reference id it forms the idempotency key of a credit.
type CoinReferenceType string

const (
	CoinReferenceChallengeComplete CoinReferenceType = "challenge_complete"
)

var validCoinReferenceTypes = []CoinReferenceType{
	CoinReferenceChallengeComplete,
}

func (t CoinReferenceType) IsValid() bool {
	for _, candidate := range validCoinReferenceTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

func ParseCoinReferenceType(value string) (CoinReferenceType, error) {
	for _, candidate := range validCoinReferenceTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid coin reference type %q", value)
}

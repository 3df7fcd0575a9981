package enum

import (
	"encoding/json"
	"strings"
)

// PaymentMethod represents how the customer pays
type PaymentMethod int

const (
	PaymentMethodNone    PaymentMethod = 0
	PaymentMethodEWallet PaymentMethod = 1
	PaymentMethodCard    PaymentMethod = 2
	PaymentMethodCash    PaymentMethod = 3
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodEWallet:
		return "e-wallet"
	case PaymentMethodCard:
		return "card"
	case PaymentMethodCash:
		return "cash"
	default:
		return ""
	}
}

// ParsePaymentMethod resolves "e-wallet", "card" or "cash" (case-insensitive).
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "e-wallet":
		return PaymentMethodEWallet, true
	case "card":
		return PaymentMethodCard, true
	case "cash":
		return PaymentMethodCash, true
	}
	return PaymentMethodNone, false
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	if m == PaymentMethodNone {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

// PaymentStatus represents the outcome of the latest payment attempt
type PaymentStatus int

const (
	PaymentStatusUnset      PaymentStatus = 0
	PaymentStatusSuccessful PaymentStatus = 1
	PaymentStatusFailed     PaymentStatus = 2
)

func (s PaymentStatus) String() string {
	return [...]string{"", "successful", "failed"}[s]
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	if s == PaymentStatusUnset {
		return []byte("null"), nil
	}
	return json.Marshal(s.String())
}

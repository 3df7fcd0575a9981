package enum

import (
	"encoding/json"
	"fmt"
)

// Screen represents a mode of the kiosk session state machine
type Screen int

const (
	ScreenHome       Screen = 0
	ScreenScanning   Screen = 1
	ScreenDiscounts  Screen = 2
	ScreenPayment    Screen = 3
	ScreenScanQR     Screen = 4
	ScreenCardReader Screen = 5
	ScreenComplete   Screen = 6
	ScreenReceipt    Screen = 7
)

var screenNames = [...]string{"home", "scanning", "discounts", "payment", "scanQR", "cardReader", "complete", "receipt"}

// AllScreens lists every legal screen in flow order.
func AllScreens() []Screen {
	return []Screen{
		ScreenHome, ScreenScanning, ScreenDiscounts, ScreenPayment,
		ScreenScanQR, ScreenCardReader, ScreenComplete, ScreenReceipt,
	}
}

// IsValid reports whether s is one of the eight enumerated screens.
func (s Screen) IsValid() bool {
	return s >= ScreenHome && s <= ScreenReceipt
}

func (s Screen) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("screen(%d)", int(s))
	}
	return screenNames[s]
}

// ParseScreen resolves a screen by its name.
func ParseScreen(name string) (Screen, bool) {
	for i, n := range screenNames {
		if n == name {
			return Screen(i), true
		}
	}
	return -1, false
}

func (s Screen) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Screen) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = Screen(i)
		return nil
	}
	parsed, ok := ParseScreen(str)
	if !ok {
		return fmt.Errorf("unknown screen %q", str)
	}
	*s = parsed
	return nil
}

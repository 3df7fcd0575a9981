package service

import (
	"sync/atomic"

	"github.com/sangkips/selfcheckout-kiosk/internal/domain/enum"
	"github.com/sangkips/selfcheckout-kiosk/pkg/apperror"
)

// ScreenController owns the current screen of the session.
// Reads are lock-free so the scan worker can poll it at any time.
type ScreenController struct {
	current atomic.Int32
}

// NewScreenController creates a controller positioned on the home screen
func NewScreenController() *ScreenController {
	c := &ScreenController{}
	c.current.Store(int32(enum.ScreenHome))
	return c
}

// Current returns the current screen
func (c *ScreenController) Current() enum.Screen {
	return enum.Screen(c.current.Load())
}

// In reports whether the current screen is one of screens
func (c *ScreenController) In(screens ...enum.Screen) bool {
	cur := c.Current()
	for _, s := range screens {
		if s == cur {
			return true
		}
	}
	return false
}

// NavigateTo replaces the current screen and returns it.
func (c *ScreenController) NavigateTo(screen enum.Screen) (enum.Screen, error) {
	if !screen.IsValid() {
		return c.Current(), apperror.NewUnknownScreen(screen.String())
	}
	c.current.Store(int32(screen))
	return screen, nil
}

package core

// Color is the role a cell plays on the track. The platform decides how each
// role is styled; the game only says what it is drawing.
type Color uint8

const (
	ColorDefault Color = iota
	// ColorTrack is the centerline and the boundaries.
	ColorTrack
	// ColorSolid marks obstacles that kill on contact.
	ColorSolid
	// ColorBreakable marks obstacles a dash smashes.
	ColorBreakable
	ColorRunner
	// ColorDash is the runner and its trail while dashing.
	ColorDash
	ColorDeath
	// ColorHUD is highlighted HUD text and countdowns.
	ColorHUD
)

// String returns the role's name.
func (c Color) String() string {
	switch c {
	case ColorTrack:
		return "track"
	case ColorSolid:
		return "solid"
	case ColorBreakable:
		return "breakable"
	case ColorRunner:
		return "runner"
	case ColorDash:
		return "dash"
	case ColorDeath:
		return "death"
	case ColorHUD:
		return "hud"
	default:
		return "default"
	}
}

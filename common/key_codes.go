package common

// Key codes delivered to scene input handlers.
// Printable keys use their ASCII value and the rest follow GLFW numbering, so a glfw.Key converts directly.
const (
	KeySpace = 32
	KeyA     = 65
	KeyD     = 68
	KeyE     = 69
	KeyQ     = 81
	KeyR     = 82
	KeyS     = 83
	KeyW     = 87

	KeyEsc   = 256
	KeyEnter = 257
	KeyTab   = 258
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
	KeyF1    = 290
)

var keyNames = map[uint32]string{
	KeySpace: "space",
	KeyA:     "a",
	KeyD:     "d",
	KeyE:     "e",
	KeyQ:     "q",
	KeyR:     "r",
	KeyS:     "s",
	KeyW:     "w",
	KeyEsc:   "escape",
	KeyEnter: "enter",
	KeyTab:   "tab",
	KeyRight: "right",
	KeyLeft:  "left",
	KeyDown:  "down",
	KeyUp:    "up",
	KeyF1:    "f1",
}

// KeyName returns a lowercase name for a key code, or "unknown".
func KeyName(key uint32) string {
	if name, ok := keyNames[key]; ok {
		return name
	}
	return "unknown"
}

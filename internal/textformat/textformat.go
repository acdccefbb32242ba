// Package textformat maps the "&x" colour tokens admins type to the "§x"
// format codes the game client renders.
package textformat

const (
	Escape = "§"

	Black       = Escape + "0"
	DarkBlue    = Escape + "1"
	DarkGreen   = Escape + "2"
	DarkAqua    = Escape + "3"
	DarkRed     = Escape + "4"
	DarkPurple  = Escape + "5"
	Gold        = Escape + "6"
	Gray        = Escape + "7"
	DarkGray    = Escape + "8"
	Blue        = Escape + "9"
	Green       = Escape + "a"
	Aqua        = Escape + "b"
	Red         = Escape + "c"
	LightPurple = Escape + "d"
	Yellow      = Escape + "e"
	White       = Escape + "f"

	Reset = Escape + "r"
)

// DefaultColorToken is used whenever a stored or requested colour is unknown.
const DefaultColorToken = "&c"

var colorsByToken = map[string]string{
	"&0": Black,
	"&1": DarkBlue,
	"&2": DarkGreen,
	"&3": DarkAqua,
	"&4": DarkRed,
	"&5": DarkPurple,
	"&6": Gold,
	"&7": Gray,
	"&8": DarkGray,
	"&9": Blue,
	"&a": Green,
	"&b": Aqua,
	"&c": Red,
	"&d": LightPurple,
	"&e": Yellow,
	"&f": White,
}

// ParseColorToken reports whether token is a known colour token.
func ParseColorToken(token string) (string, bool) {
	code, ok := colorsByToken[token]
	return code, ok
}

// NormalizeColorToken returns token if it is known, DefaultColorToken otherwise.
func NormalizeColorToken(token string) string {
	if _, ok := ParseColorToken(token); ok {
		return token
	}
	return DefaultColorToken
}

// Color returns the format code for token, falling back to red.
func Color(token string) string {
	if code, ok := ParseColorToken(token); ok {
		return code
	}
	return Red
}

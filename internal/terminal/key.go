package terminal

import (
	"bufio"
	"unicode/utf8"
)

// KeyKind identifies a decoded key.
type KeyKind uint8

const (
	KeyRune KeyKind = iota // printable character, see Key.Rune
	KeyCtrl                // control chord, Key.Rune holds the lowercase letter
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEsc
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlUp
	KeyCtrlDown
	KeyCtrlLeft
	KeyCtrlRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyDelete
)

// Key is one decoded key press.
type Key struct {
	Kind KeyKind
	Rune rune
}

// Ctrl returns the key for a control chord, e.g. Ctrl('q').
func Ctrl(r rune) Key { return Key{Kind: KeyCtrl, Rune: r} }

// decodeKey reads one key press. Escape sequences for arrows, ctrl-arrows,
// home/end variants, page keys and delete are decoded; bytes that do not
// form valid UTF-8 are discarded and decoding resumes at the next byte.
func decodeKey(r *bufio.Reader) (Key, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		switch {
		case b == '\r' || b == '\n':
			return Key{Kind: KeyEnter}, nil
		case b == '\t':
			return Key{Kind: KeyTab}, nil
		case b == 0x7f || b == 0x08: // DEL or ^H
			return Key{Kind: KeyBackspace}, nil
		case b == 0x1b:
			return decodeEscape(r)
		case b < 0x20:
			return Key{Kind: KeyCtrl, Rune: rune(b | 0x60)}, nil
		case b < utf8.RuneSelf:
			return Key{Kind: KeyRune, Rune: rune(b)}, nil
		default:
			k, ok, err := decodeMultibyte(r, b)
			if err != nil {
				return Key{}, err
			}
			if ok {
				return k, nil
			}
			// Malformed input: drop it and keep reading.
		}
	}
}

// decodeMultibyte assembles a UTF-8 rune whose leading byte was b.
func decodeMultibyte(r *bufio.Reader, b byte) (Key, bool, error) {
	var n int
	switch {
	case b&0xe0 == 0xc0:
		n = 2
	case b&0xf0 == 0xe0:
		n = 3
	case b&0xf8 == 0xf0:
		n = 4
	default:
		return Key{}, false, nil // stray continuation byte
	}
	buf := make([]byte, 1, n)
	buf[0] = b
	for len(buf) < n {
		nb, err := r.ReadByte()
		if err != nil {
			return Key{}, false, err
		}
		buf = append(buf, nb)
	}
	c, _ := utf8.DecodeRune(buf)
	if c == utf8.RuneError {
		return Key{}, false, nil
	}
	return Key{Kind: KeyRune, Rune: c}, true, nil
}

// decodeEscape decodes the tail of an escape sequence. A lone ESC (nothing
// buffered behind it) is the escape key itself; terminals deliver real
// sequences in one burst, so their bytes are already buffered.
func decodeEscape(r *bufio.Reader) (Key, error) {
	if r.Buffered() == 0 {
		return Key{Kind: KeyEsc}, nil
	}
	b0, err := r.ReadByte()
	if err != nil {
		return Key{}, err
	}
	switch b0 {
	case '[':
		return decodeCSI(r)
	case 'O':
		b1, err := r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		switch b1 {
		case 'A':
			return Key{Kind: KeyUp}, nil
		case 'B':
			return Key{Kind: KeyDown}, nil
		case 'C':
			return Key{Kind: KeyRight}, nil
		case 'D':
			return Key{Kind: KeyLeft}, nil
		case 'H':
			return Key{Kind: KeyHome}, nil
		case 'F':
			return Key{Kind: KeyEnd}, nil
		}
		return Key{Kind: KeyEsc}, nil
	}
	return Key{Kind: KeyEsc}, nil
}

func decodeCSI(r *bufio.Reader) (Key, error) {
	var params []byte
	var final byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return Key{}, err
		}
		if b >= '0' && b <= '9' || b == ';' {
			params = append(params, b)
			continue
		}
		final = b
		break
	}

	ctrl := hasCtrlModifier(params)
	switch final {
	case 'A':
		if ctrl {
			return Key{Kind: KeyCtrlUp}, nil
		}
		return Key{Kind: KeyUp}, nil
	case 'B':
		if ctrl {
			return Key{Kind: KeyCtrlDown}, nil
		}
		return Key{Kind: KeyDown}, nil
	case 'C':
		if ctrl {
			return Key{Kind: KeyCtrlRight}, nil
		}
		return Key{Kind: KeyRight}, nil
	case 'D':
		if ctrl {
			return Key{Kind: KeyCtrlLeft}, nil
		}
		return Key{Kind: KeyLeft}, nil
	case 'H':
		return Key{Kind: KeyHome}, nil
	case 'F':
		return Key{Kind: KeyEnd}, nil
	case '~':
		switch string(params) {
		case "1", "7":
			return Key{Kind: KeyHome}, nil
		case "3":
			return Key{Kind: KeyDelete}, nil
		case "4", "8":
			return Key{Kind: KeyEnd}, nil
		case "5":
			return Key{Kind: KeyPageUp}, nil
		case "6":
			return Key{Kind: KeyPageDown}, nil
		}
	}
	return Key{Kind: KeyEsc}, nil
}

// hasCtrlModifier reports whether CSI params carry the ctrl modifier,
// e.g. "1;5" in ESC [1;5C for ctrl-right.
func hasCtrlModifier(params []byte) bool {
	for i := 0; i < len(params); i++ {
		if params[i] == ';' && i+1 < len(params) && params[i+1] == '5' {
			return true
		}
	}
	return false
}

//go:build linux

package evdevkbd

import (
	"github.com/holoplot/go-evdev"

	"github.com/BrandonKowalski/skinrt/pkg/skins/platform"
)

var modifierKeys = map[evdev.EvCode]platform.Modifier{
	evdev.KEY_LEFTALT:    platform.ModAlt,
	evdev.KEY_RIGHTALT:   platform.ModAlt,
	evdev.KEY_LEFTCTRL:   platform.ModCtrl,
	evdev.KEY_RIGHTCTRL:  platform.ModCtrl,
	evdev.KEY_LEFTSHIFT:  platform.ModShift,
	evdev.KEY_RIGHTSHIFT: platform.ModShift,
}

// Key codes match the ones skin shortcuts parse to.
var keyCodes = map[evdev.EvCode]int{
	evdev.KEY_A: 'A', evdev.KEY_B: 'B', evdev.KEY_C: 'C', evdev.KEY_D: 'D',
	evdev.KEY_E: 'E', evdev.KEY_F: 'F', evdev.KEY_G: 'G', evdev.KEY_H: 'H',
	evdev.KEY_I: 'I', evdev.KEY_J: 'J', evdev.KEY_K: 'K', evdev.KEY_L: 'L',
	evdev.KEY_M: 'M', evdev.KEY_N: 'N', evdev.KEY_O: 'O', evdev.KEY_P: 'P',
	evdev.KEY_Q: 'Q', evdev.KEY_R: 'R', evdev.KEY_S: 'S', evdev.KEY_T: 'T',
	evdev.KEY_U: 'U', evdev.KEY_V: 'V', evdev.KEY_W: 'W', evdev.KEY_X: 'X',
	evdev.KEY_Y: 'Y', evdev.KEY_Z: 'Z',

	evdev.KEY_0: '0', evdev.KEY_1: '1', evdev.KEY_2: '2', evdev.KEY_3: '3',
	evdev.KEY_4: '4', evdev.KEY_5: '5', evdev.KEY_6: '6', evdev.KEY_7: '7',
	evdev.KEY_8: '8', evdev.KEY_9: '9',

	evdev.KEY_SPACE:     ' ',
	evdev.KEY_ENTER:     '\r',
	evdev.KEY_TAB:       '\t',
	evdev.KEY_ESC:       0x1b,
	evdev.KEY_BACKSPACE: 0x08,
	evdev.KEY_DELETE:    0x7f,
	evdev.KEY_MINUS:     '-',
	evdev.KEY_EQUAL:     '=',
	evdev.KEY_COMMA:     ',',
	evdev.KEY_DOT:       '.',
	evdev.KEY_SLASH:     '/',
}

package platform

import (
	"fmt"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
)

// Code identifies the kind of an Event. Native events use codes below
// constants.MessageBase, semantic host messages use the reserved open
// interval (MessageBase, WindowBase), and window control messages start at
// WindowBase.
type Code uint32

// Native events produced by backends.
const (
	EventNone Code = iota
	EventKeyDown
	EventKeyUp
	EventMouseDown
	EventMouseUp
	EventMouseMove
	EventExpose
	EventClose
	EventQuit
)

// Semantic host messages.
const (
	MsgShow Code = Code(constants.MessageBase) + 1 + iota
	MsgHide
	MsgQuit
	MsgIntfRefresh
	MsgPlay
	MsgPause
	MsgStop
	MsgNext
	MsgPrev
	MsgVolume
	MsgSeek
	MsgLoadSkin
	MsgChangeTray
	MsgChangeTaskbar
	MsgTimer
)

// Window control messages.
const (
	CtrlRepaint Code = Code(constants.WindowBase) + iota
)

// Volume message sub-commands carried in Param1 of MsgVolume.
const (
	VolumeSet int64 = iota
	VolumeUp
	VolumeDown
	VolumeMute
)

// Modifier is a bit mask of keyboard modifiers held during a key event.
type Modifier uint32

const (
	ModAlt Modifier = 1 << iota
	ModCtrl
	ModShift
)

// Event is a platform event or a posted message.
//
// For key events Param1 is the key code and Param2 the Modifier mask. For
// mouse events Param1 and Param2 are window-relative coordinates.
type Event struct {
	Code    Code
	Target  Handle
	Param1  int64
	Param2  int64
	Payload any
}

// IsSemantic reports whether c falls in the reserved host message range.
func IsSemantic(c Code) bool {
	return uint32(c) > constants.MessageBase && uint32(c) < constants.WindowBase
}

// Message builds a broadcast semantic message.
func Message(code Code, p1, p2 int64) Event {
	return Event{Code: code, Param1: p1, Param2: p2}
}

// KeyDown builds a key press event for the given window.
func KeyDown(target Handle, key int, mods Modifier) Event {
	return Event{Code: EventKeyDown, Target: target, Param1: int64(key), Param2: int64(mods)}
}

var codeNames = map[Code]string{
	EventKeyDown:     "key_down",
	EventKeyUp:       "key_up",
	EventMouseDown:   "mouse_down",
	EventMouseUp:     "mouse_up",
	EventMouseMove:   "mouse_move",
	EventExpose:      "expose",
	EventClose:       "close",
	EventQuit:        "quit_native",
	MsgShow:          "show",
	MsgHide:          "hide",
	MsgQuit:          "quit",
	MsgIntfRefresh:   "intf_refresh",
	MsgPlay:          "play",
	MsgPause:         "pause",
	MsgStop:          "stop",
	MsgNext:          "next",
	MsgPrev:          "prev",
	MsgVolume:        "volume",
	MsgSeek:          "seek",
	MsgLoadSkin:      "load_skin",
	MsgChangeTray:    "change_tray",
	MsgChangeTaskbar: "change_taskbar",
	MsgTimer:         "timer",
	CtrlRepaint:      "ctrl_repaint",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%#x)", uint32(c))
}

// MessageByName resolves the action names used in skin definitions.
func MessageByName(name string) (Code, bool) {
	for code, n := range codeNames {
		if n == name && IsSemantic(code) {
			return code, true
		}
	}
	return EventNone, false
}

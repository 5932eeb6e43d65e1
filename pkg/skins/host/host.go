// Package host describes the playback engine the skin runtime is embedded
// in. The runtime only reads input state and sends playlist commands; the
// engine owns both objects and shares them with its own goroutines.
package host

// Stream is a read of the current input position, taken under the input's
// lock.
type Stream struct {
	Tell     int64 // bytes consumed
	Size     int64 // total bytes, 0 when unknown
	Seekable bool
	ByteRate int64 // bytes per second, 0 when unknown
}

// Input is a reference-counted handle on the stream being played. Stream and
// Seek must be called between Lock and Unlock.
type Input interface {
	Lock()
	Unlock()
	Stream() Stream
	Seek(offset int64)

	// Dead reports that the input finished and should be released.
	Dead() bool
	Release()
}

// Playlist receives transport commands.
type Playlist interface {
	Play()
	Pause()
	Stop()
	Next()
	Prev()
	Release()
}

// Engine is the host side the runtime is attached to.
type Engine interface {
	// FindInput returns a new reference to the current input, or nil.
	FindInput() Input
	// FindPlaylist returns a new reference to the playlist, or nil.
	FindPlaylist() Playlist

	// Volume is in [0, constants.VolumeMax].
	Volume() int
	SetVolume(v int)

	// Dying reports that the host asked every interface to close.
	Dying() bool
}

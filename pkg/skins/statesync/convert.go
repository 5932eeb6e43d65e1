package statesync

import (
	"fmt"

	"github.com/BrandonKowalski/skinrt/pkg/skins/constants"
)

// PositionValue maps tell/size onto [0, rng]. Unknown sizes map to 0.
func PositionValue(tell, size int64, rng int) int {
	if size <= 0 || tell <= 0 {
		return 0
	}
	if tell >= size {
		return rng
	}
	return int(int64(rng) * tell / size)
}

// VolumeValue rescales a host volume in [0, VolumeMax] to the slider range,
// rounding to nearest.
func VolumeValue(v int) int {
	v = clamp(v, 0, constants.VolumeMax)
	return (v*constants.SliderRange + constants.VolumeMax/2) / constants.VolumeMax
}

// VolumeFromSlider is the inverse of VolumeValue.
func VolumeFromSlider(s int) int {
	s = clamp(s, 0, constants.SliderRange)
	return (s*constants.VolumeMax + constants.SliderRange/2) / constants.SliderRange
}

// SeekOffset maps a slider position back to a byte offset.
func SeekOffset(value int, size int64) int64 {
	if size <= 0 {
		return 0
	}
	value = clamp(value, 0, constants.SliderRange)
	return size * int64(value) / constants.SliderRange
}

// FormatOffset renders a byte offset as h:mm:ss using the stream byte rate.
// Unknown rates render as "-:--:--".
func FormatOffset(offset, byteRate int64) string {
	if byteRate <= 0 {
		return "-:--:--"
	}
	if offset < 0 {
		offset = 0
	}
	secs := offset / byteRate
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

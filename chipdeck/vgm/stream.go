// Package vgm decodes Video Game Music streams recorded for the Sega
// Master System's SN76489 PSG and replays them as timed register
// writes. Supports VGM format 1.50:
// https://www.smspower.org/uploads/Music/vgmspec150.txt
package vgm

import (
	"encoding/binary"
	"fmt"

	"github.com/chipdeck/go-chipdeck/chipdeck/psg"
)

// Wait units are the VGM time base: 1/44100 of a second.
const (
	UnitsPerSecond = 44100
	FrameUnits     = 735 // one NTSC frame, 1/60 s
	PALFrameUnits  = 882 // one PAL frame, 1/50 s
)

// VGM 1.50 header layout (field offsets, all values 32-bit
// little-endian).
const (
	headerSize       = 0x40
	eofOffsetField   = 0x04
	versionField     = 0x08
	psgClockField    = 0x0C
	loopOffsetField  = 0x1C
	dataOffsetField  = 0x34
	supportedVersion = 0x150
)

const ident = "Vgm "

// Stream is an immutable, validated VGM blob. Offsets into it are
// absolute: dataStart points at the first command, loopStart at the
// loop point (0 when the track does not loop).
type Stream struct {
	data      []byte
	dataStart int
	loopStart int
	version   uint32
}

// Load parses and validates a VGM 1.50 blob. The data is copied, so
// the caller's buffer may be reused afterwards.
func Load(data []byte) (*Stream, error) {
	if len(data) < headerSize {
		return nil, &LoadError{Reason: fmt.Sprintf("truncated header: %d bytes, want at least %d", len(data), headerSize)}
	}
	if string(data[:4]) != ident {
		return nil, &LoadError{Reason: "invalid file identifier"}
	}

	version := binary.LittleEndian.Uint32(data[versionField:])
	if version != supportedVersion {
		return nil, &LoadError{Reason: fmt.Sprintf("unsupported VGM version %#x, want %#x", version, supportedVersion)}
	}

	clock := binary.LittleEndian.Uint32(data[psgClockField:])
	if clock != psg.ClockHz {
		return nil, &LoadError{Reason: fmt.Sprintf("unexpected PSG clock %d Hz, want %d", clock, psg.ClockHz)}
	}

	// The EoF offset is relative to its own field: file length - 4.
	fileLen := int(binary.LittleEndian.Uint32(data[eofOffsetField:])) + 4
	if fileLen < headerSize || fileLen > len(data) {
		return nil, &LoadError{Reason: fmt.Sprintf("EoF offset declares %d bytes, have %d", fileLen, len(data))}
	}

	dataStart := headerSize
	if rel := binary.LittleEndian.Uint32(data[dataOffsetField:]); rel != 0 {
		// 0 means 0x40 for backwards compatibility with pre-1.50 files.
		dataStart = dataOffsetField + int(rel)
	}
	if dataStart < headerSize || dataStart >= fileLen {
		return nil, &LoadError{Reason: fmt.Sprintf("data offset %#x outside the stream", dataStart)}
	}

	loopStart := 0
	if rel := binary.LittleEndian.Uint32(data[loopOffsetField:]); rel != 0 {
		loopStart = loopOffsetField + int(rel)
		if loopStart < dataStart || loopStart >= fileLen {
			return nil, &LoadError{Reason: fmt.Sprintf("loop offset %#x outside the data region", loopStart)}
		}
	}

	s := &Stream{
		data:      make([]byte, fileLen),
		dataStart: dataStart,
		loopStart: loopStart,
		version:   version,
	}
	copy(s.data, data[:fileLen])

	return s, nil
}

// HasLoop reports whether the track declares a loop point.
func (s *Stream) HasLoop() bool {
	return s.loopStart != 0
}

// DataStart returns the absolute offset of the first command.
func (s *Stream) DataStart() int {
	return s.dataStart
}

// LoopStart returns the absolute loop offset, 0 when there is none.
func (s *Stream) LoopStart() int {
	return s.loopStart
}

// Len returns the stream length in bytes.
func (s *Stream) Len() int {
	return len(s.data)
}

// Version returns the VGM header version (0x150).
func (s *Stream) Version() uint32 {
	return s.version
}

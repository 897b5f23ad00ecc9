package vgm

import "fmt"

// LoadError reports a blob rejected during header parsing. A failed
// load installs nothing: the previously loaded stream, if any, keeps
// playing.
type LoadError struct {
	Reason string
}

func (e *LoadError) Error() string {
	return "vgm: " + e.Reason
}

// MalformedStreamError reports a command stream that cannot be decoded
// safely. Playback halts on it: guessing an operand width would
// misalign every byte that follows.
type MalformedStreamError struct {
	Offset int    // byte offset of the offending command
	Opcode byte   // command byte, zero when the stream simply ran out
	Reason string
}

func (e *MalformedStreamError) Error() string {
	return fmt.Sprintf("vgm: %s at offset %#x", e.Reason, e.Offset)
}

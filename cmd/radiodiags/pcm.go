package main

import (
	"encoding/binary"
	"io"
)

// writePCM writes samples as little-endian 16-bit signed mono PCM, the
// wire format spec.md §6 requires of PCM egress.
func writePCM(w io.Writer, samples []int16) error {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	_, err := w.Write(buf)
	return err
}

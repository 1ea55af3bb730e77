package archive

import "encoding/binary"

// Btrieve File Control Record fields.
const (
	fcrKeyCountOffset    = 0x14
	fcrRecordCountOffset = 0x1C
	fcrMinLen            = 0x20
)

// Header holds the counts read from a Btrieve File Control Record.
type Header struct {
	Records int
	Keys    int
}

// ReadHeader reads the FCR at the start of a Btrieve data file. It reports
// false when buf is too short to hold one.
func ReadHeader(buf []byte) (Header, bool) {
	if len(buf) < fcrMinLen {
		return Header{}, false
	}
	return Header{
		Records: int(binary.LittleEndian.Uint32(buf[fcrRecordCountOffset : fcrRecordCountOffset+4])),
		Keys:    int(binary.LittleEndian.Uint16(buf[fcrKeyCountOffset : fcrKeyCountOffset+2])),
	}, true
}

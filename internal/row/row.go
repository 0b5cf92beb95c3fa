// Package row implements the one fixed schema the shell understands:
// (id uint32, username [33]byte, email [256]byte). A Row is the thing
// the shell works with; the btree only ever sees its serialized form,
// an opaque fixed-width byte string.
package row

import (
	"encoding/binary"
	"fmt"
)

const (
	UsernameSize = 32
	EmailSize    = 255

	idSize       = 4
	usernameSize = UsernameSize + 1 // null terminator, matching the C layout this schema is drawn from
	emailSize    = EmailSize + 1

	// Size is the full serialized width of a row, including the
	// redundant copy of id inside the payload — this is the value the
	// btree stores verbatim and is what spec.md's LEAF_MAX=13 is
	// computed against.
	Size = idSize + usernameSize + emailSize

	idOffset       = 0
	usernameOffset = idOffset + idSize
	emailOffset    = usernameOffset + usernameSize
)

// Row is one record: a numeric id plus two null-padded ASCII strings.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Validate checks field widths before a row is ever serialized. A
// negative id cannot be represented (ID is unsigned here), so callers
// parsing user input must reject negative text themselves and report
// "id must be non-negative"; Validate only enforces the width limits.
func Validate(username, email string) error {
	if len(username) > UsernameSize {
		return fmt.Errorf("row: string is too long")
	}
	if len(email) > EmailSize {
		return fmt.Errorf("row: string is too long")
	}
	return nil
}

// Serialize packs r into a Size-byte value suitable for btree.Insert.
func Serialize(r Row) []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint32(buf[idOffset:idOffset+idSize], r.ID)
	copy(buf[usernameOffset:usernameOffset+usernameSize], r.Username)
	copy(buf[emailOffset:emailOffset+emailSize], r.Email)
	return buf
}

// Deserialize unpacks a Size-byte btree value back into a Row.
func Deserialize(buf []byte) (Row, error) {
	if len(buf) != Size {
		return Row{}, fmt.Errorf("row: value is %d bytes, want %d", len(buf), Size)
	}
	return Row{
		ID:       binary.LittleEndian.Uint32(buf[idOffset : idOffset+idSize]),
		Username: cString(buf[usernameOffset : usernameOffset+usernameSize]),
		Email:    cString(buf[emailOffset : emailOffset+emailSize]),
	}, nil
}

// cString trims a null-padded byte slice down to its printable prefix.
func cString(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// Package announce defines the discovery wire payloads and their
// MessagePack codec.
package announce

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MaxPacketSize bounds a received discovery datagram. Oversized
// announcements are truncated by the receive buffer and then fail to
// decode, which drops them.
const MaxPacketSize = 4096

// Announcement is the periodic self-description each node multicasts:
// its display name (the identity key) and the service port it accepts
// application traffic on. The source port of the datagram is ephemeral
// and unrelated to Port.
type Announcement struct {
	Name string `msgpack:"name"`
	Port uint16 `msgpack:"port"`
}

// Marshal encodes the announcement for wire transmission.
func (a Announcement) Marshal() ([]byte, error) {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshaling announcement: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a received datagram into an Announcement. A
// payload without a name is rejected: the name is the peer identity
// key, and a structurally valid datagram that omits it (an empty
// msgpack map decodes to the zero value) must not reach the registry.
func Unmarshal(data []byte) (Announcement, error) {
	var a Announcement
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return Announcement{}, fmt.Errorf("unmarshaling announcement: %w", err)
	}
	if a.Name == "" {
		return Announcement{}, fmt.Errorf("announcement missing name")
	}
	return a, nil
}

package announce

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestAnnouncement_RoundTrip(t *testing.T) {
	original := Announcement{
		Name: "arcade-1",
		Port: 8080,
	}

	data, err := original.Marshal()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("marshaled data is empty")
	}

	decoded, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.Name != original.Name {
		t.Errorf("Name: got %s, want %s", decoded.Name, original.Name)
	}
	if decoded.Port != original.Port {
		t.Errorf("Port: got %d, want %d", decoded.Port, original.Port)
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	if _, err := Unmarshal([]byte{0xc1, 0xff, 0x00}); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestUnmarshal_Empty(t *testing.T) {
	if _, err := Unmarshal(nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func TestUnmarshal_MissingName(t *testing.T) {
	// An empty msgpack map is structurally valid but carries no
	// identity; it must fail to decode.
	if _, err := Unmarshal([]byte{0x80}); err == nil {
		t.Error("expected error for empty map payload")
	}

	// Same for a payload that has a port but no name.
	data, err := msgpack.Marshal(struct {
		Port uint16 `msgpack:"port"`
	}{Port: 9090})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := Unmarshal(data); err == nil {
		t.Error("expected error for payload without name")
	}
}

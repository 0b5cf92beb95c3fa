package row

import (
	"strings"
	"testing"
)

func TestSizeMatchesReferenceSchema(t *testing.T) {
	if Size != 293 {
		t.Fatalf("Size = %d, want 293", Size)
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	r := Row{ID: 7, Username: "alice", Email: "alice@example.com"}
	buf := Serialize(r)
	if len(buf) != Size {
		t.Fatalf("Serialize() returned %d bytes, want %d", len(buf), Size)
	}

	got, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if got != r {
		t.Errorf("Deserialize() = %+v, want %+v", got, r)
	}
}

func TestDeserializeWrongSize(t *testing.T) {
	if _, err := Deserialize(make([]byte, Size-1)); err == nil {
		t.Fatalf("Deserialize() with short buffer succeeded, want error")
	}
}

func TestValidateRejectsOverlongUsername(t *testing.T) {
	long := strings.Repeat("x", UsernameSize+1)
	if err := Validate(long, "ok@example.com"); err == nil {
		t.Fatalf("Validate() with overlong username succeeded, want error")
	}
}

func TestValidateRejectsOverlongEmail(t *testing.T) {
	long := strings.Repeat("x", EmailSize+1)
	if err := Validate("bob", long); err == nil {
		t.Fatalf("Validate() with overlong email succeeded, want error")
	}
}

func TestValidateAcceptsMaxWidth(t *testing.T) {
	u := strings.Repeat("u", UsernameSize)
	e := strings.Repeat("e", EmailSize)
	if err := Validate(u, e); err != nil {
		t.Fatalf("Validate() at max width error = %v", err)
	}
}

func TestEmptyFieldsRoundTrip(t *testing.T) {
	r := Row{ID: 0, Username: "", Email: ""}
	buf := Serialize(r)
	got, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if got != r {
		t.Errorf("Deserialize() = %+v, want %+v", got, r)
	}
}

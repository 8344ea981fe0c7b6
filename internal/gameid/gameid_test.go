package gameid

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerate(t *testing.T) {
	id := Generate()

	if len(id) != Length {
		t.Errorf("expected %d characters, got %d", Length, len(id))
	}

	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}
}

func TestGenerateUnique(t *testing.T) {
	ids := make(map[string]bool)

	for i := 0; i < 100; i++ {
		id := Generate()
		if ids[id] {
			t.Errorf("duplicate ID generated: %s", id)
		}
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	var ids []string

	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(time.Millisecond)
	}

	for i := 1; i < len(ids); i++ {
		if strings.Compare(ids[i-1], ids[i]) >= 0 {
			t.Errorf("IDs not sorted: %s >= %s", ids[i-1], ids[i])
		}
	}
}

func TestGeneratorWithReader(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xab}, 64)))

	id, err := gen.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := Validate(id); err != nil {
		t.Errorf("generated ID failed validation: %v", err)
	}

	u, err := Decode(id)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if u.Version() != 7 {
		t.Errorf("expected version 7, got %d", u.Version())
	}
}

func TestGeneratorReaderExhausted(t *testing.T) {
	gen := NewGenerator(bytes.NewReader(nil))
	if _, err := gen.Generate(); err == nil {
		t.Error("expected error from empty entropy source")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ids := []uuid.UUID{
		{},
		uuid.Must(uuid.Parse("01890a5d-ac96-774b-bcce-b302099a8057")),
		uuid.Must(uuid.Parse("ffffffff-ffff-ffff-ffff-ffffffffffff")),
	}
	for _, want := range ids {
		enc := Encode(want)
		got, err := Decode(enc)
		if err != nil {
			t.Fatalf("Decode(%s): %v", enc, err)
		}
		if got != want {
			t.Errorf("round trip mismatch: got %s want %s", got, want)
		}
	}

	if got := Encode(uuid.UUID{}); got != strings.Repeat("0", Length) {
		t.Errorf("nil UUID encoded as %s", got)
	}
	if got := Encode(uuid.Must(uuid.Parse("ffffffff-ffff-ffff-ffff-ffffffffffff"))); got[0] != '7' {
		t.Errorf("max UUID must start with 7, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{
			name:    "valid ID",
			id:      "01h5n0et5q6mt3v7ms1234abcd",
			wantErr: false,
		},
		{
			name:    "too short",
			id:      "01h5n0et5q6mt3v7ms123",
			wantErr: true,
		},
		{
			name:    "too long",
			id:      "01h5n0et5q6mt3v7ms1234abcdef",
			wantErr: true,
		},
		{
			name:    "first char too high",
			id:      "81h5n0et5q6mt3v7ms1234abcd",
			wantErr: true,
		},
		{
			name:    "invalid character",
			id:      "01h5n0et5q6mt3v7ms1234abci",
			wantErr: true,
		},
		{
			name:    "uppercase not allowed",
			id:      "01H5N0ET5Q6MT3V7MS1234ABCD",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

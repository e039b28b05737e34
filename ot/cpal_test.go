package ot

import (
	"encoding/binary"
	"testing"
)

// buildCpalV0 builds a minimal version-0 CPAL table with numPalettes
// palettes of numEntries colors each, all colors set to their flat index.
func buildCpalV0(numPalettes, numEntries int) []byte {
	numColorRecords := numPalettes * numEntries
	colorArrayOffset := 12 + numPalettes*2

	data := make([]byte, colorArrayOffset+numColorRecords*4)
	binary.BigEndian.PutUint16(data[0:], 0) // version
	binary.BigEndian.PutUint16(data[2:], uint16(numEntries))
	binary.BigEndian.PutUint16(data[4:], uint16(numPalettes))
	binary.BigEndian.PutUint16(data[6:], uint16(numColorRecords))
	binary.BigEndian.PutUint32(data[8:], uint32(colorArrayOffset))

	for p := 0; p < numPalettes; p++ {
		binary.BigEndian.PutUint16(data[12+p*2:], uint16(p*numEntries))
	}

	for i := 0; i < numColorRecords; i++ {
		o := colorArrayOffset + i*4
		data[o] = byte(i)   // blue
		data[o+1] = byte(i) // green
		data[o+2] = byte(i) // red
		data[o+3] = 0xFF    // alpha
	}

	return data
}

func TestParseCpalV0(t *testing.T) {
	data := buildCpalV0(2, 3)
	cpal, err := ParseCpal(data)
	if err != nil {
		t.Fatalf("ParseCpal: %v", err)
	}
	if cpal.NumPalettes() != 2 {
		t.Errorf("NumPalettes() = %d, want 2", cpal.NumPalettes())
	}
	if cpal.NumPaletteEntries() != 3 {
		t.Errorf("NumPaletteEntries() = %d, want 3", cpal.NumPaletteEntries())
	}

	c, ok := cpal.Color(1, 2)
	if !ok {
		t.Fatal("Color(1, 2) reported not found")
	}
	// Palette 1 entry 2 is flat index 1*3+2 = 5.
	if c.Blue != 5 || c.Green != 5 || c.Red != 5 || c.Alpha != 0xFF {
		t.Errorf("Color(1, 2) = %+v, want {5,5,5,255}", c)
	}
}

func TestParseCpalOutOfRangeLookup(t *testing.T) {
	data := buildCpalV0(1, 2)
	cpal, err := ParseCpal(data)
	if err != nil {
		t.Fatalf("ParseCpal: %v", err)
	}
	if _, ok := cpal.Color(-1, 0); ok {
		t.Error("Color with negative palette should report not found")
	}
	if _, ok := cpal.Color(0, 99); ok {
		t.Error("Color with out-of-range index should report not found")
	}
	if _, ok := cpal.Color(5, 0); ok {
		t.Error("Color with out-of-range palette should report not found")
	}
}

func TestParseCpalVersion0HasNoLabels(t *testing.T) {
	data := buildCpalV0(1, 1)
	cpal, err := ParseCpal(data)
	if err != nil {
		t.Fatalf("ParseCpal: %v", err)
	}
	if cpal.Flags(0) != 0 {
		t.Errorf("Flags(0) on a v0 table = %v, want 0", cpal.Flags(0))
	}
	if cpal.PaletteLabel(0) != 0xFFFF {
		t.Errorf("PaletteLabel(0) on a v0 table = %#x, want 0xFFFF", cpal.PaletteLabel(0))
	}
	if cpal.EntryLabel(0) != 0xFFFF {
		t.Errorf("EntryLabel(0) on a v0 table = %#x, want 0xFFFF", cpal.EntryLabel(0))
	}
}

func TestParseCpalTruncatedTable(t *testing.T) {
	if _, err := ParseCpal([]byte{0, 0}); err == nil {
		t.Error("ParseCpal on a too-short table should fail")
	}
}

func TestParseCpalInvalidVersion(t *testing.T) {
	data := buildCpalV0(1, 1)
	binary.BigEndian.PutUint16(data[0:], 7)
	if _, err := ParseCpal(data); err == nil {
		t.Error("ParseCpal with an unsupported version should fail")
	}
}

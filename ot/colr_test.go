package ot

import (
	"encoding/binary"
	"testing"
)

// buildColrV0 builds a version-0 COLR table with the base glyph records and
// layer records given directly, matching the S1 scenario from spec.md §8:
// baseGlyphRecords=[{10,0,2},{20,2,2}] over four layer records.
func buildColrV0(recs []BaseGlyphRecord, layers []LayerRecord) []byte {
	const headerSize = 14
	baseGlyphRecordsOffset := headerSize
	layerRecordsOffset := baseGlyphRecordsOffset + len(recs)*6

	data := make([]byte, layerRecordsOffset+len(layers)*4)
	binary.BigEndian.PutUint16(data[0:], 0) // version
	binary.BigEndian.PutUint16(data[2:], uint16(len(recs)))
	binary.BigEndian.PutUint32(data[4:], uint32(baseGlyphRecordsOffset))
	binary.BigEndian.PutUint32(data[8:], uint32(layerRecordsOffset))
	binary.BigEndian.PutUint16(data[12:], uint16(len(layers)))

	for i, r := range recs {
		o := baseGlyphRecordsOffset + i*6
		binary.BigEndian.PutUint16(data[o:], uint16(r.GlyphID))
		binary.BigEndian.PutUint16(data[o+2:], r.FirstLayerIndex)
		binary.BigEndian.PutUint16(data[o+4:], r.NumLayers)
	}
	for i, l := range layers {
		o := layerRecordsOffset + i*4
		binary.BigEndian.PutUint16(data[o:], uint16(l.GlyphID))
		binary.BigEndian.PutUint16(data[o+2:], l.PaletteIndex)
	}
	return data
}

func TestParseColrV0Lookup(t *testing.T) {
	recs := []BaseGlyphRecord{
		{GlyphID: 10, FirstLayerIndex: 0, NumLayers: 2},
		{GlyphID: 20, FirstLayerIndex: 2, NumLayers: 2},
	}
	layers := []LayerRecord{
		{GlyphID: 100, PaletteIndex: 0},
		{GlyphID: 101, PaletteIndex: 1},
		{GlyphID: 102, PaletteIndex: 0},
		{GlyphID: 103, PaletteIndex: 1},
	}
	data := buildColrV0(recs, layers)

	c, err := ParseColr(data)
	if err != nil {
		t.Fatalf("ParseColr: %v", err)
	}

	got := c.ColorLayers(10)
	if len(got) != 2 || got[0] != layers[0] || got[1] != layers[1] {
		t.Errorf("ColorLayers(10) = %+v, want %+v", got, layers[0:2])
	}

	got = c.ColorLayers(20)
	if len(got) != 2 || got[0] != layers[2] || got[1] != layers[3] {
		t.Errorf("ColorLayers(20) = %+v, want %+v", got, layers[2:4])
	}

	if got := c.ColorLayers(15); got != nil {
		t.Errorf("ColorLayers(15) = %+v, want nil", got)
	}

	if !c.HasColorGlyph(10) {
		t.Error("HasColorGlyph(10) = false, want true")
	}
	if c.HasColorGlyph(15) {
		t.Error("HasColorGlyph(15) = true, want false")
	}
}

func TestParseColrV0TruncatedTable(t *testing.T) {
	if _, err := ParseColr([]byte{0, 0}); err == nil {
		t.Error("ParseColr on a too-short table should fail")
	}
}

func TestParseColrInvalidVersion(t *testing.T) {
	data := buildColrV0(nil, nil)
	binary.BigEndian.PutUint16(data[0:], 7)
	if _, err := ParseColr(data); err == nil {
		t.Error("ParseColr with an unsupported version should fail")
	}
}

// buildColrV1Composite builds a v1-only COLR table with a single base glyph
// (id 5) whose paint is a Composite node: a Solid source over a
// LinearGradient backdrop, exercising the leaf, gradient, and structural
// paint families and the affine-free paint-DAG wiring in one tree.
//
//	root (Composite, offset 44)
//	  +-- source   (Solid, offset 52)
//	  +-- backdrop (LinearGradient, offset 57, -> ColorLine at 73)
func buildColrV1Composite() []byte {
	const (
		rootOffset     = 44
		sourceOffset   = 52
		backdropOffset = 57
		colorLineOffset = 73
		totalLen       = 88
	)

	data := make([]byte, totalLen)

	// Header: version 1, no v0 content.
	binary.BigEndian.PutUint16(data[0:], 1)
	binary.BigEndian.PutUint16(data[2:], 0)
	binary.BigEndian.PutUint32(data[4:], 0)
	binary.BigEndian.PutUint32(data[8:], 0)
	binary.BigEndian.PutUint16(data[12:], 0)

	// v1 directory.
	binary.BigEndian.PutUint32(data[14:], 34) // baseGlyphListOffset
	binary.BigEndian.PutUint32(data[18:], 0)  // layerListOffset
	binary.BigEndian.PutUint32(data[22:], 0)  // clipListOffset
	binary.BigEndian.PutUint32(data[26:], 0)  // varIndexMapOffset
	binary.BigEndian.PutUint32(data[30:], 0)  // itemVarStoreOffset

	// BaseGlyphList at 34: one entry, glyph 5 -> paint at rootOffset.
	binary.BigEndian.PutUint32(data[34:], 1)
	binary.BigEndian.PutUint16(data[38:], 5)
	binary.BigEndian.PutUint32(data[40:], uint32(rootOffset-34))

	// Root: Composite. format, srcOff(24), mode, backdropOff(24).
	data[rootOffset] = byte(PaintFormatComposite)
	putOffset24(data[rootOffset+1:], uint32(sourceOffset-rootOffset))
	data[rootOffset+4] = byte(CompositeSrcOver)
	putOffset24(data[rootOffset+5:], uint32(backdropOffset-rootOffset))

	// Source: Solid. format, paletteIndex(u16), alpha(F2Dot14).
	data[sourceOffset] = byte(PaintFormatSolid)
	binary.BigEndian.PutUint16(data[sourceOffset+1:], 7)
	binary.BigEndian.PutUint16(data[sourceOffset+3:], uint16(int16(16384))) // 1.0

	// Backdrop: LinearGradient. format, clOff(24), x0,y0,x1,y1,x2,y2 (FWord).
	data[backdropOffset] = byte(PaintFormatLinearGradient)
	putOffset24(data[backdropOffset+1:], uint32(colorLineOffset-backdropOffset))
	binary.BigEndian.PutUint16(data[backdropOffset+4:], uint16(int16(1)))
	binary.BigEndian.PutUint16(data[backdropOffset+6:], uint16(int16(2)))
	binary.BigEndian.PutUint16(data[backdropOffset+8:], uint16(int16(3)))
	binary.BigEndian.PutUint16(data[backdropOffset+10:], uint16(int16(4)))
	binary.BigEndian.PutUint16(data[backdropOffset+12:], uint16(int16(5)))
	binary.BigEndian.PutUint16(data[backdropOffset+14:], uint16(int16(6)))

	// ColorLine at 73: extend, numStops, 2 stops (stopOffset, paletteIndex, alpha).
	data[colorLineOffset] = byte(ExtendPad)
	binary.BigEndian.PutUint16(data[colorLineOffset+1:], 2)
	binary.BigEndian.PutUint16(data[colorLineOffset+3:], 0)
	binary.BigEndian.PutUint16(data[colorLineOffset+5:], 3)
	binary.BigEndian.PutUint16(data[colorLineOffset+7:], uint16(int16(16384)))
	binary.BigEndian.PutUint16(data[colorLineOffset+9:], uint16(int16(16384)))
	binary.BigEndian.PutUint16(data[colorLineOffset+11:], 9)
	binary.BigEndian.PutUint16(data[colorLineOffset+13:], uint16(int16(16384)))

	return data
}

func putOffset24(b []byte, v uint32) {
	b[0] = byte(v >> 16)
	b[1] = byte(v >> 8)
	b[2] = byte(v)
}

func TestParseColrV1PaintDag(t *testing.T) {
	data := buildColrV1Composite()
	c, err := ParseColr(data)
	if err != nil {
		t.Fatalf("ParseColr: %v", err)
	}

	p, err := c.ColorPaint(5)
	if err != nil {
		t.Fatalf("ColorPaint(5): %v", err)
	}
	if p == nil {
		t.Fatal("ColorPaint(5) = nil, want a paint")
	}
	if p.Format != PaintFormatComposite {
		t.Fatalf("root Format = %v, want PaintFormatComposite", p.Format)
	}
	if p.CompositeOp != CompositeSrcOver {
		t.Errorf("CompositeOp = %v, want CompositeSrcOver", p.CompositeOp)
	}

	if p.Source == nil || p.Source.Format != PaintFormatSolid {
		t.Fatalf("Source = %+v, want a Solid paint", p.Source)
	}
	if p.Source.PaletteIndex != 7 {
		t.Errorf("Source.PaletteIndex = %d, want 7", p.Source.PaletteIndex)
	}

	if p.Backdrop == nil || p.Backdrop.Format != PaintFormatLinearGradient {
		t.Fatalf("Backdrop = %+v, want a LinearGradient paint", p.Backdrop)
	}
	if p.Backdrop.X0 != 1 || p.Backdrop.Y2 != 6 {
		t.Errorf("Backdrop gradient coords = %+v, want X0=1, Y2=6", p.Backdrop)
	}
	if p.Backdrop.ColorLine == nil || len(p.Backdrop.ColorLine.Stops) != 2 {
		t.Fatalf("Backdrop.ColorLine = %+v, want 2 stops", p.Backdrop.ColorLine)
	}
	if p.Backdrop.ColorLine.Stops[1].PaletteIndex != 9 {
		t.Errorf("second stop PaletteIndex = %d, want 9", p.Backdrop.ColorLine.Stops[1].PaletteIndex)
	}

	if got, err := c.ColorPaint(6); err != nil || got != nil {
		t.Errorf("ColorPaint(6) = (%+v, %v), want (nil, nil)", got, err)
	}

	if !c.HasColorGlyph(5) {
		t.Error("HasColorGlyph(5) = false, want true")
	}
	if c.HasColorGlyph(6) {
		t.Error("HasColorGlyph(6) = true, want false")
	}
}

// buildColrV1TranslateChain builds a v1 COLR table whose single base glyph
// (id 7) resolves to a chain of n nested Translate paints, each pointing to
// the next via a relative Offset24, to probe the paint-DAG recursion bound.
// When terminate is true the last node's child offset is 0 (no further
// paint); otherwise it still points forward, so following it recurses one
// level past the last real node.
func buildColrV1TranslateChain(n int, terminate bool) []byte {
	const (
		baseGlyphListOffset = 34
		chainStart          = 44
		nodeSize            = 8 // format(1) + paintOff(3) + dx(2) + dy(2)
	)

	data := make([]byte, chainStart+n*nodeSize)

	binary.BigEndian.PutUint16(data[0:], 1)
	binary.BigEndian.PutUint16(data[2:], 0)
	binary.BigEndian.PutUint32(data[4:], 0)
	binary.BigEndian.PutUint32(data[8:], 0)
	binary.BigEndian.PutUint16(data[12:], 0)

	binary.BigEndian.PutUint32(data[14:], baseGlyphListOffset)
	binary.BigEndian.PutUint32(data[18:], 0)
	binary.BigEndian.PutUint32(data[22:], 0)
	binary.BigEndian.PutUint32(data[26:], 0)
	binary.BigEndian.PutUint32(data[30:], 0)

	binary.BigEndian.PutUint32(data[baseGlyphListOffset:], 1)
	binary.BigEndian.PutUint16(data[baseGlyphListOffset+4:], 7)
	binary.BigEndian.PutUint32(data[baseGlyphListOffset+6:], uint32(chainStart-baseGlyphListOffset))

	for i := 0; i < n; i++ {
		o := chainStart + i*nodeSize
		data[o] = byte(PaintFormatTranslate)
		if terminate && i == n-1 {
			putOffset24(data[o+1:], 0)
		} else {
			putOffset24(data[o+1:], nodeSize) // points at the next node
		}
		binary.BigEndian.PutUint16(data[o+4:], 0)
		binary.BigEndian.PutUint16(data[o+6:], 0)
	}

	return data
}

func TestParseColrPaintRecursionDepthLimit(t *testing.T) {
	// maxPaintDepth is 64. A chain of 65 nodes reaches depths 0..64
	// successfully, but the last node's outgoing child reference asks for
	// depth 65 and must fail regardless of where it points.
	data := buildColrV1TranslateChain(65, false)
	c, err := ParseColr(data)
	if err != nil {
		t.Fatalf("ParseColr: %v", err)
	}
	if _, err := c.ColorPaint(7); err == nil {
		t.Error("ColorPaint over a paint chain deeper than maxPaintDepth should fail")
	}
}

func TestParseColrPaintRecursionWithinLimit(t *testing.T) {
	// A chain of exactly 65 nodes (depths 0..64) whose last node terminates
	// reaches the maxPaintDepth boundary exactly and must parse cleanly.
	data := buildColrV1TranslateChain(65, true)
	c, err := ParseColr(data)
	if err != nil {
		t.Fatalf("ParseColr: %v", err)
	}
	if _, err := c.ColorPaint(7); err != nil {
		t.Errorf("ColorPaint over a paint chain reaching exactly maxPaintDepth failed: %v", err)
	}
}

// buildColrCombined builds a COLR table carrying both v0 and v1 content so
// HasColorGlyph can be exercised across all four combinations: v0-only,
// v1-only, both, and neither.
func buildColrCombined() []byte {
	const (
		headerSize             = 14
		directorySize          = 20
		baseGlyphRecordsOffset = headerSize + directorySize
		numBaseGlyphRecords    = 2
		layerRecordsOffset     = baseGlyphRecordsOffset + numBaseGlyphRecords*6
		numLayerRecords        = 2
		baseGlyphListOffset    = layerRecordsOffset + numLayerRecords*4
		paintFor20             = baseGlyphListOffset + 4 + 2*6
		paintFor30             = paintFor20 + 5
		totalLen               = paintFor30 + 5
	)

	data := make([]byte, totalLen)

	binary.BigEndian.PutUint16(data[0:], 1)
	binary.BigEndian.PutUint16(data[2:], numBaseGlyphRecords)
	binary.BigEndian.PutUint32(data[4:], baseGlyphRecordsOffset)
	binary.BigEndian.PutUint32(data[8:], layerRecordsOffset)
	binary.BigEndian.PutUint16(data[12:], numLayerRecords)

	binary.BigEndian.PutUint32(data[14:], baseGlyphListOffset)
	binary.BigEndian.PutUint32(data[18:], 0)
	binary.BigEndian.PutUint32(data[22:], 0)
	binary.BigEndian.PutUint32(data[26:], 0)
	binary.BigEndian.PutUint32(data[30:], 0)

	// baseGlyphRecords: glyph 10 (v0-only) and glyph 30 (both v0 and v1).
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset:], 10)
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset+2:], 0)
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset+4:], 1)
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset+6:], 30)
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset+8:], 1)
	binary.BigEndian.PutUint16(data[baseGlyphRecordsOffset+10:], 1)

	binary.BigEndian.PutUint16(data[layerRecordsOffset:], 50)
	binary.BigEndian.PutUint16(data[layerRecordsOffset+2:], 0)
	binary.BigEndian.PutUint16(data[layerRecordsOffset+4:], 51)
	binary.BigEndian.PutUint16(data[layerRecordsOffset+6:], 1)

	// baseGlyphList: glyph 20 (v1-only) and glyph 30 (both).
	binary.BigEndian.PutUint32(data[baseGlyphListOffset:], 2)
	entry0 := baseGlyphListOffset + 4
	binary.BigEndian.PutUint16(data[entry0:], 20)
	binary.BigEndian.PutUint32(data[entry0+2:], uint32(paintFor20-baseGlyphListOffset))
	entry1 := entry0 + 6
	binary.BigEndian.PutUint16(data[entry1:], 30)
	binary.BigEndian.PutUint32(data[entry1+2:], uint32(paintFor30-baseGlyphListOffset))

	data[paintFor20] = byte(PaintFormatSolid)
	binary.BigEndian.PutUint16(data[paintFor20+1:], 1)
	binary.BigEndian.PutUint16(data[paintFor20+3:], uint16(int16(16384)))

	data[paintFor30] = byte(PaintFormatSolid)
	binary.BigEndian.PutUint16(data[paintFor30+1:], 2)
	binary.BigEndian.PutUint16(data[paintFor30+3:], uint16(int16(16384)))

	return data
}

func TestHasColorGlyphInvariant(t *testing.T) {
	data := buildColrCombined()
	c, err := ParseColr(data)
	if err != nil {
		t.Fatalf("ParseColr: %v", err)
	}

	tests := []struct {
		name    string
		glyphID GlyphID
		wantV0  bool
		wantV1  bool
	}{
		{"v0 only", 10, true, false},
		{"v1 only", 20, false, true},
		{"both v0 and v1", 30, true, true},
		{"neither", 40, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layers := c.ColorLayers(tt.glyphID)
			if (layers != nil) != tt.wantV0 {
				t.Errorf("ColorLayers(%d) != nil = %v, want %v", tt.glyphID, layers != nil, tt.wantV0)
			}

			paint, err := c.ColorPaint(tt.glyphID)
			if err != nil {
				t.Fatalf("ColorPaint(%d): %v", tt.glyphID, err)
			}
			if (paint != nil) != tt.wantV1 {
				t.Errorf("ColorPaint(%d) != nil = %v, want %v", tt.glyphID, paint != nil, tt.wantV1)
			}

			want := tt.wantV0 || tt.wantV1
			if got := c.HasColorGlyph(tt.glyphID); got != want {
				t.Errorf("HasColorGlyph(%d) = %v, want %v (hasColorGlyph(g) <=> colorLayers(g)!=nil || colorPaint(g)!=nil)", tt.glyphID, got, want)
			}
		})
	}
}

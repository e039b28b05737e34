package ot

import (
	"encoding/binary"
	"sort"
)

// maxPaintDepth bounds recursion through the COLR v1 paint graph. A
// malformed or malicious font can otherwise describe a cyclic or
// unboundedly deep paint DAG and exhaust the stack.
const maxPaintDepth = 64

// BaseGlyphRecord maps a glyph to a contiguous run of layer records (COLR v0).
type BaseGlyphRecord struct {
	GlyphID         GlyphID
	FirstLayerIndex uint16
	NumLayers       uint16
}

// LayerRecord is one glyph+palette-index pair referenced by a v0 base glyph.
type LayerRecord struct {
	GlyphID      GlyphID
	PaletteIndex uint16
}

// PaintFormat identifies one of the 33 COLR v1 paint table formats.
type PaintFormat uint8

const (
	PaintFormatColrLayers               PaintFormat = 1
	PaintFormatSolid                    PaintFormat = 2
	PaintFormatVarSolid                 PaintFormat = 3
	PaintFormatLinearGradient           PaintFormat = 4
	PaintFormatVarLinearGradient        PaintFormat = 5
	PaintFormatRadialGradient           PaintFormat = 6
	PaintFormatVarRadialGradient        PaintFormat = 7
	PaintFormatSweepGradient             PaintFormat = 8
	PaintFormatVarSweepGradient          PaintFormat = 9
	PaintFormatGlyph                    PaintFormat = 10
	PaintFormatColrGlyph                PaintFormat = 11
	PaintFormatTransform                PaintFormat = 12
	PaintFormatVarTransform              PaintFormat = 13
	PaintFormatTranslate                PaintFormat = 14
	PaintFormatVarTranslate              PaintFormat = 15
	PaintFormatScale                    PaintFormat = 16
	PaintFormatVarScale                 PaintFormat = 17
	PaintFormatScaleAroundCenter         PaintFormat = 18
	PaintFormatVarScaleAroundCenter      PaintFormat = 19
	PaintFormatScaleUniform              PaintFormat = 20
	PaintFormatVarScaleUniform           PaintFormat = 21
	PaintFormatScaleUniformAroundCenter  PaintFormat = 22
	PaintFormatVarScaleUniformAroundCenter PaintFormat = 23
	PaintFormatRotate                   PaintFormat = 24
	PaintFormatVarRotate                PaintFormat = 25
	PaintFormatRotateAroundCenter        PaintFormat = 26
	PaintFormatVarRotateAroundCenter     PaintFormat = 27
	PaintFormatSkew                     PaintFormat = 28
	PaintFormatVarSkew                  PaintFormat = 29
	PaintFormatSkewAroundCenter          PaintFormat = 30
	PaintFormatVarSkewAroundCenter       PaintFormat = 31
	PaintFormatComposite                PaintFormat = 32
)

// CompositeMode is a closed enumeration of Porter-Duff and blend composite
// modes used by PaintComposite.
type CompositeMode uint8

const (
	CompositeClear CompositeMode = iota
	CompositeSrc
	CompositeDest
	CompositeSrcOver
	CompositeDestOver
	CompositeSrcIn
	CompositeDestIn
	CompositeSrcOut
	CompositeDestOut
	CompositeSrcAtop
	CompositeDestAtop
	CompositeXor
	CompositePlus
	CompositeScreen
	CompositeOverlay
	CompositeDarken
	CompositeLighten
	CompositeColorDodge
	CompositeColorBurn
	CompositeHardLight
	CompositeSoftLight
	CompositeDifference
	CompositeExclusion
	CompositeMultiply
	CompositeHue
	CompositeSaturation
	CompositeColor
	CompositeLuminosity
)

// ColorStop is one entry of a ColorLine gradient ramp.
type ColorStop struct {
	StopOffset   F2Dot14
	PaletteIndex uint16
	Alpha        F2Dot14
}

// ColorLineExtend controls how a gradient repeats past its stops.
type ColorLineExtend uint8

const (
	ExtendPad ColorLineExtend = iota
	ExtendRepeat
	ExtendReflect
)

// ColorLine is the gradient ramp referenced by linear/radial/sweep paints.
type ColorLine struct {
	Extend ColorLineExtend
	Stops  []ColorStop
}

// Affine2x3 is a 2D affine transform {xx, yx, xy, yy, dx, dy}, all Fixed
// (16.16) values.
type Affine2x3 struct {
	XX, YX, XY, YY, DX, DY Fixed
}

// ClipBox is the (optionally variable) bounding box of a clip-list entry.
type ClipBox struct {
	XMin, YMin, XMax, YMax FWord
	VarIndexBase           uint32
	HasVarIndex            bool
}

// Paint is a node of the COLR v1 paint DAG. Exactly one of the typed fields
// below is populated, selected by Format; children are stored by value
// (through further *Paint pointers) rather than by arena handle, since the
// recursion is already explicitly bounded by maxPaintDepth during parsing.
type Paint struct {
	Format PaintFormat

	// ColrLayers
	NumLayers       uint8
	FirstLayerIndex uint32

	// Solid / VarSolid
	PaletteIndex uint16
	Alpha        F2Dot14
	VarIndexBase uint32

	// Linear/Radial/Sweep gradients
	ColorLine          *ColorLine
	X0, Y0, X1, Y1, X2, Y2 FWord
	Radius0, Radius1   UFWord
	StartAngle, EndAngle F2Dot14

	// Glyph / ColrGlyph
	GlyphID GlyphID
	Paint   *Paint // Glyph: the paint being clipped by the glyph outline

	// Affine wrappers (Transform/Translate/Scale*/Rotate*/Skew*)
	Affine        Affine2x3
	Transformed   *Paint
	Dx, Dy        FWord
	ScaleX, ScaleY F2Dot14
	CenterX, CenterY FWord
	Rotation      F2Dot14
	SkewX, SkewY  F2Dot14

	// Composite
	Source       *Paint
	CompositeOp  CompositeMode
	Backdrop     *Paint
}

// Colr is a parsed COLR table (v0 and/or v1 content).
type Colr struct {
	data []byte

	version uint16

	baseGlyphRecords []BaseGlyphRecord
	layerRecords     []LayerRecord

	// v1
	baseGlyphList      []v1BaseGlyphEntry
	baseGlyphListBase  int
	layerList          []uint32 // paint-table offsets, relative to layerList start
	layerListBase      int

	clipList []clipListEntry

	varStore *ItemVariationStore
	varMap   *DeltaSetIndexMap
}

type v1BaseGlyphEntry struct {
	glyphID     GlyphID
	paintOffset uint32 // relative to the start of the base-glyph-paint list
}

type clipListEntry struct {
	startGlyphID, endGlyphID GlyphID
	clipBox                  ClipBox
}

// ParseColr parses a COLR table (version 0 or 1).
func ParseColr(data []byte) (*Colr, error) {
	if len(data) < 14 {
		return nil, ErrInvalidTable
	}

	version := binary.BigEndian.Uint16(data[0:])
	if version > 1 {
		return nil, ErrInvalidFormat
	}

	c := &Colr{data: data, version: version}

	numBaseGlyphRecords := binary.BigEndian.Uint16(data[2:])
	baseGlyphRecordsOffset := binary.BigEndian.Uint32(data[4:])
	layerRecordsOffset := binary.BigEndian.Uint32(data[8:])
	numLayerRecords := binary.BigEndian.Uint16(data[12:])

	if numBaseGlyphRecords > 0 {
		recs, err := parseBaseGlyphRecords(data, baseGlyphRecordsOffset, numBaseGlyphRecords)
		if err != nil {
			return nil, err
		}
		c.baseGlyphRecords = recs
	}
	if numLayerRecords > 0 {
		layers, err := parseLayerRecords(data, layerRecordsOffset, numLayerRecords)
		if err != nil {
			return nil, err
		}
		c.layerRecords = layers
	}

	if version == 1 {
		if len(data) < 14+5*4 {
			return nil, ErrInvalidTable
		}
		baseGlyphListOffset := binary.BigEndian.Uint32(data[14:])
		layerListOffset := binary.BigEndian.Uint32(data[18:])
		clipListOffset := binary.BigEndian.Uint32(data[22:])
		varIndexMapOffset := binary.BigEndian.Uint32(data[26:])
		itemVarStoreOffset := binary.BigEndian.Uint32(data[30:])

		if baseGlyphListOffset != 0 {
			entries, err := parseV1BaseGlyphList(data, baseGlyphListOffset)
			if err != nil {
				return nil, err
			}
			c.baseGlyphList = entries
			c.baseGlyphListBase = int(baseGlyphListOffset)
		}
		if layerListOffset != 0 {
			offsets, err := parseLayerList(data, layerListOffset)
			if err != nil {
				return nil, err
			}
			c.layerList = offsets
			c.layerListBase = int(layerListOffset)
		}
		if clipListOffset != 0 {
			entries, err := parseClipList(data, clipListOffset)
			if err != nil {
				return nil, err
			}
			c.clipList = entries
		}
		if varIndexMapOffset != 0 {
			if int(varIndexMapOffset) >= len(data) {
				return nil, ErrInvalidOffset
			}
			dm, err := parseDeltaSetIndexMap(data[varIndexMapOffset:])
			if err != nil {
				return nil, err
			}
			c.varMap = dm
		}
		if itemVarStoreOffset != 0 {
			if int(itemVarStoreOffset) >= len(data) {
				return nil, ErrInvalidOffset
			}
			vs, err := parseItemVariationStore(data[itemVarStoreOffset:])
			if err != nil {
				return nil, err
			}
			c.varStore = vs
		}
	}

	return c, nil
}

func parseBaseGlyphRecords(data []byte, offset uint32, count uint16) ([]BaseGlyphRecord, error) {
	const recSize = 6
	start := int(offset)
	end := start + int(count)*recSize
	if start < 0 || end > len(data) {
		return nil, ErrInvalidOffset
	}
	recs := make([]BaseGlyphRecord, count)
	for i := 0; i < int(count); i++ {
		o := start + i*recSize
		recs[i] = BaseGlyphRecord{
			GlyphID:         binary.BigEndian.Uint16(data[o:]),
			FirstLayerIndex: binary.BigEndian.Uint16(data[o+2:]),
			NumLayers:       binary.BigEndian.Uint16(data[o+4:]),
		}
	}
	return recs, nil
}

func parseLayerRecords(data []byte, offset uint32, count uint16) ([]LayerRecord, error) {
	const recSize = 4
	start := int(offset)
	end := start + int(count)*recSize
	if start < 0 || end > len(data) {
		return nil, ErrInvalidOffset
	}
	recs := make([]LayerRecord, count)
	for i := 0; i < int(count); i++ {
		o := start + i*recSize
		recs[i] = LayerRecord{
			GlyphID:      binary.BigEndian.Uint16(data[o:]),
			PaletteIndex: binary.BigEndian.Uint16(data[o+2:]),
		}
	}
	return recs, nil
}

func parseV1BaseGlyphList(data []byte, offset uint32) ([]v1BaseGlyphEntry, error) {
	start := int(offset)
	if start < 0 || start+4 > len(data) {
		return nil, ErrInvalidOffset
	}
	count := binary.BigEndian.Uint32(data[start:])
	const recSize = 6
	recStart := start + 4
	end := recStart + int(count)*recSize
	if end > len(data) {
		return nil, ErrInvalidOffset
	}
	entries := make([]v1BaseGlyphEntry, count)
	for i := 0; i < int(count); i++ {
		o := recStart + i*recSize
		entries[i] = v1BaseGlyphEntry{
			glyphID:     binary.BigEndian.Uint16(data[o:]),
			paintOffset: binary.BigEndian.Uint32(data[o+2:]),
		}
	}
	// Required to be sorted by glyph ID so we can binary search it (C3 invariant).
	sort.Slice(entries, func(i, j int) bool { return entries[i].glyphID < entries[j].glyphID })
	return entries, nil
}

func parseLayerList(data []byte, offset uint32) ([]uint32, error) {
	start := int(offset)
	if start < 0 || start+4 > len(data) {
		return nil, ErrInvalidOffset
	}
	count := binary.BigEndian.Uint32(data[start:])
	recStart := start + 4
	end := recStart + int(count)*4
	if end > len(data) {
		return nil, ErrInvalidOffset
	}
	offsets := make([]uint32, count)
	for i := 0; i < int(count); i++ {
		offsets[i] = binary.BigEndian.Uint32(data[recStart+i*4:])
	}
	return offsets, nil
}

func parseClipList(data []byte, offset uint32) ([]clipListEntry, error) {
	start := int(offset)
	if start < 0 || start+5 > len(data) {
		return nil, ErrInvalidOffset
	}
	// format byte, then uint32 count
	count := binary.BigEndian.Uint32(data[start+1:])
	const recSize = 7
	recStart := start + 5
	end := recStart + int(count)*recSize
	if end > len(data) {
		return nil, ErrInvalidOffset
	}
	entries := make([]clipListEntry, count)
	for i := 0; i < int(count); i++ {
		o := recStart + i*recSize
		startGID := binary.BigEndian.Uint16(data[o:])
		endGID := binary.BigEndian.Uint16(data[o+2:])
		// Offset24, relative to the start of the ClipList table (the byte
		// holding its format field, i.e. `start`).
		clipBoxOffset := uint32(data[o+4])<<16 | uint32(data[o+5])<<8 | uint32(data[o+6])
		box, err := parseClipBox(data, start+int(clipBoxOffset))
		if err != nil {
			return nil, err
		}
		entries[i] = clipListEntry{startGlyphID: startGID, endGlyphID: endGID, clipBox: box}
	}
	return entries, nil
}

func parseClipBox(data []byte, offset int) (ClipBox, error) {
	if offset < 0 || offset+9 > len(data) {
		return ClipBox{}, ErrInvalidOffset
	}
	format := data[offset]
	box := ClipBox{
		XMin: FWord(binary.BigEndian.Uint16(data[offset+1:])),
		YMin: FWord(binary.BigEndian.Uint16(data[offset+3:])),
		XMax: FWord(binary.BigEndian.Uint16(data[offset+5:])),
		YMax: FWord(binary.BigEndian.Uint16(data[offset+7:])),
	}
	if format == 2 {
		if offset+13 > len(data) {
			return ClipBox{}, ErrInvalidOffset
		}
		box.VarIndexBase = binary.BigEndian.Uint32(data[offset+9:])
		box.HasVarIndex = true
	}
	return box, nil
}

// ColorLayers returns the v0 layer records for a glyph, or nil if the
// glyph has no v0 color-layer entry. baseGlyphRecords is sorted by
// GlyphID (an invariant of the table itself), so lookup is a binary search.
func (c *Colr) ColorLayers(glyphID GlyphID) []LayerRecord {
	if c == nil {
		return nil
	}
	recs := c.baseGlyphRecords
	idx := sort.Search(len(recs), func(i int) bool { return recs[i].GlyphID >= glyphID })
	if idx >= len(recs) || recs[idx].GlyphID != glyphID {
		return nil
	}
	rec := recs[idx]
	start := int(rec.FirstLayerIndex)
	end := start + int(rec.NumLayers)
	if start < 0 || end > len(c.layerRecords) {
		return nil
	}
	return c.layerRecords[start:end]
}

// ColorPaint returns the root of the v1 paint DAG for a glyph, or nil if
// the glyph has no v1 entry.
func (c *Colr) ColorPaint(glyphID GlyphID) (*Paint, error) {
	if c == nil || c.baseGlyphList == nil {
		return nil, nil
	}
	entries := c.baseGlyphList
	idx := sort.Search(len(entries), func(i int) bool { return entries[i].glyphID >= glyphID })
	if idx >= len(entries) || entries[idx].glyphID != glyphID {
		return nil, nil
	}
	// paintOffset is relative to the start of the BaseGlyphList table
	// itself (the 4-byte count header), matching how baseGlyphListOffset
	// anchors the entries we already parsed from that same position.
	return c.parsePaintAt(c.baseGlyphListBase+int(entries[idx].paintOffset), 0)
}

// HasColorGlyph returns true if the glyph has either a v0 or v1 color
// definition.
func (c *Colr) HasColorGlyph(glyphID GlyphID) bool {
	if c.ColorLayers(glyphID) != nil {
		return true
	}
	p, err := c.ColorPaint(glyphID)
	return err == nil && p != nil
}

// ClipBoxFor returns the clip box for a glyph, scanning the clip list for the
// first inclusive [startGlyphID, endGlyphID] range containing it.
func (c *Colr) ClipBoxFor(glyphID GlyphID) (ClipBox, bool) {
	for _, e := range c.clipList {
		if glyphID >= e.startGlyphID && glyphID <= e.endGlyphID {
			return e.clipBox, true
		}
	}
	return ClipBox{}, false
}

// LayerPaint returns the shared layer-list paint at index, used by
// PaintColrLayers to resolve its layer run.
func (c *Colr) LayerPaint(index int) (*Paint, error) {
	if index < 0 || index >= len(c.layerList) {
		return nil, nil
	}
	return c.parsePaintAt(c.layerListBase+int(c.layerList[index]), 0)
}

// VariationDelta evaluates this table's ItemVariationStore for a raw
// varIndexBase, mapping through the DeltaSetIndexMap if present. coords
// are normalized F2DOT14 axis values.
func (c *Colr) VariationDelta(varIndexBase uint32, coords []int) float64 {
	if c == nil || c.varStore == nil {
		return 0
	}
	idx := varIndexBase
	if c.varMap != nil {
		idx = c.varMap.Map(varIndexBase)
	}
	return c.varStore.EvaluateDelta(idx, coords)
}

// parsePaintAt parses the paint sub-table whose format byte sits at the
// given absolute offset into the COLR table, recursing into child paints.
//
// Every child reference in the v1 paint graph is a 24-bit offset measured
// from the first byte of the *enclosing* paint's format field -- not from
// the current read position and not from any table-wide anchor. So a
// child's absolute position is always `offset + childOffset`, where offset
// is this call's own starting position. depth enforces maxPaintDepth so a
// cyclic or pathologically deep graph fails fast instead of blowing the
// stack.
func (c *Colr) parsePaintAt(offset int, depth int) (*Paint, error) {
	if depth > maxPaintDepth {
		return nil, ErrInvalidFormat
	}
	data := c.data
	if offset < 0 || offset >= len(data) {
		return nil, ErrInvalidOffset
	}

	format := PaintFormat(data[offset])
	p := &Paint{Format: format}
	r := offset + 1 // read cursor for fields after the format byte

	readU8 := func() (uint8, error) {
		if r >= len(data) {
			return 0, ErrInvalidOffset
		}
		v := data[r]
		r++
		return v, nil
	}
	readU16 := func() (uint16, error) {
		if r+2 > len(data) {
			return 0, ErrInvalidOffset
		}
		v := binary.BigEndian.Uint16(data[r:])
		r += 2
		return v, nil
	}
	readU24 := func() (uint32, error) {
		if r+3 > len(data) {
			return 0, ErrInvalidOffset
		}
		v := uint32(data[r])<<16 | uint32(data[r+1])<<8 | uint32(data[r+2])
		r += 3
		return v, nil
	}
	readU32 := func() (uint32, error) {
		if r+4 > len(data) {
			return 0, ErrInvalidOffset
		}
		v := binary.BigEndian.Uint32(data[r:])
		r += 4
		return v, nil
	}
	readF2Dot14 := func() (F2Dot14, error) {
		v, err := readU16()
		return F2Dot14(int16(v)), err
	}
	readFWord := func() (FWord, error) {
		v, err := readU16()
		return FWord(int16(v)), err
	}
	readUFWord := func() (UFWord, error) {
		return readU16()
	}

	var err error
	childAt := func(childOffset uint32) (*Paint, error) {
		if childOffset == 0 {
			return nil, nil
		}
		return c.parsePaintAt(offset+int(childOffset), depth+1)
	}

	switch format {
	case PaintFormatColrLayers:
		n, e1 := readU8()
		first, e2 := readU32()
		if e1 != nil || e2 != nil {
			return nil, ErrInvalidOffset
		}
		p.NumLayers = n
		p.FirstLayerIndex = first

	case PaintFormatSolid, PaintFormatVarSolid:
		idx, e1 := readU16()
		alpha, e2 := readF2Dot14()
		if e1 != nil || e2 != nil {
			return nil, ErrInvalidOffset
		}
		p.PaletteIndex = idx
		p.Alpha = alpha
		if format == PaintFormatVarSolid {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatLinearGradient, PaintFormatVarLinearGradient:
		clOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.X0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.X1, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y1, err = readFWord(); err != nil {
			return nil, err
		}
		if p.X2, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y2, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarLinearGradient {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}
		if p.ColorLine, err = c.parseColorLineAt(offset + int(clOff)); err != nil {
			return nil, err
		}

	case PaintFormatRadialGradient, PaintFormatVarRadialGradient:
		clOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.X0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Radius0, err = readUFWord(); err != nil {
			return nil, err
		}
		if p.X1, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y1, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Radius1, err = readUFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarRadialGradient {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}
		if p.ColorLine, err = c.parseColorLineAt(offset + int(clOff)); err != nil {
			return nil, err
		}

	case PaintFormatSweepGradient, PaintFormatVarSweepGradient:
		clOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.X0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Y0, err = readFWord(); err != nil {
			return nil, err
		}
		if p.StartAngle, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.EndAngle, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarSweepGradient {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}
		if p.ColorLine, err = c.parseColorLineAt(offset + int(clOff)); err != nil {
			return nil, err
		}

	case PaintFormatGlyph:
		paintOff, e1 := readU24()
		gid, e2 := readU16()
		if e1 != nil || e2 != nil {
			return nil, ErrInvalidOffset
		}
		p.GlyphID = gid
		if p.Paint, err = childAt(paintOff); err != nil {
			return nil, err
		}

	case PaintFormatColrGlyph:
		gid, e := readU16()
		if e != nil {
			return nil, e
		}
		p.GlyphID = gid

	case PaintFormatTransform, PaintFormatVarTransform:
		paintOff, e1 := readU24()
		affineOff, e2 := readU24()
		if e1 != nil || e2 != nil {
			return nil, ErrInvalidOffset
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if affineOff != 0 {
			if p.Affine, p.VarIndexBase, err = c.parseAffineAt(offset+int(affineOff), format == PaintFormatVarTransform); err != nil {
				return nil, err
			}
		}

	case PaintFormatTranslate, PaintFormatVarTranslate:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.Dx, err = readFWord(); err != nil {
			return nil, err
		}
		if p.Dy, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarTranslate {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatScale, PaintFormatVarScale:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.ScaleX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.ScaleY, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarScale {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatScaleAroundCenter, PaintFormatVarScaleAroundCenter:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.ScaleX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.ScaleY, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.CenterX, err = readFWord(); err != nil {
			return nil, err
		}
		if p.CenterY, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarScaleAroundCenter {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatScaleUniform, PaintFormatVarScaleUniform:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.ScaleX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		p.ScaleY = p.ScaleX
		if format == PaintFormatVarScaleUniform {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatScaleUniformAroundCenter, PaintFormatVarScaleUniformAroundCenter:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.ScaleX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		p.ScaleY = p.ScaleX
		if p.CenterX, err = readFWord(); err != nil {
			return nil, err
		}
		if p.CenterY, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarScaleUniformAroundCenter {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatRotate, PaintFormatVarRotate:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.Rotation, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarRotate {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatRotateAroundCenter, PaintFormatVarRotateAroundCenter:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.Rotation, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.CenterX, err = readFWord(); err != nil {
			return nil, err
		}
		if p.CenterY, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarRotateAroundCenter {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatSkew, PaintFormatVarSkew:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.SkewX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.SkewY, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarSkew {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatSkewAroundCenter, PaintFormatVarSkewAroundCenter:
		paintOff, e := readU24()
		if e != nil {
			return nil, e
		}
		if p.Transformed, err = childAt(paintOff); err != nil {
			return nil, err
		}
		if p.SkewX, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.SkewY, err = readF2Dot14(); err != nil {
			return nil, err
		}
		if p.CenterX, err = readFWord(); err != nil {
			return nil, err
		}
		if p.CenterY, err = readFWord(); err != nil {
			return nil, err
		}
		if format == PaintFormatVarSkewAroundCenter {
			if p.VarIndexBase, err = readU32(); err != nil {
				return nil, err
			}
		}

	case PaintFormatComposite:
		srcOff, e1 := readU24()
		mode, e2 := readU8()
		backdropOff, e3 := readU24()
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, ErrInvalidOffset
		}
		p.CompositeOp = CompositeMode(mode)
		if p.Source, err = childAt(srcOff); err != nil {
			return nil, err
		}
		if p.Backdrop, err = childAt(backdropOff); err != nil {
			return nil, err
		}

	default:
		return nil, ErrInvalidFormat
	}

	return p, nil
}

// parseColorLineAt parses a ColorLine table at an absolute offset.
func (c *Colr) parseColorLineAt(offset int) (*ColorLine, error) {
	data := c.data
	if offset < 0 || offset+3 > len(data) {
		return nil, ErrInvalidOffset
	}
	extend := ColorLineExtend(data[offset])
	numStops := binary.BigEndian.Uint16(data[offset+1:])
	const stopSize = 6
	stopsStart := offset + 3
	if stopsStart+int(numStops)*stopSize > len(data) {
		return nil, ErrInvalidOffset
	}
	stops := make([]ColorStop, numStops)
	for i := 0; i < int(numStops); i++ {
		o := stopsStart + i*stopSize
		stops[i] = ColorStop{
			StopOffset:   F2Dot14(int16(binary.BigEndian.Uint16(data[o:]))),
			PaletteIndex: binary.BigEndian.Uint16(data[o+2:]),
			Alpha:        F2Dot14(int16(binary.BigEndian.Uint16(data[o+4:]))),
		}
	}
	return &ColorLine{Extend: extend, Stops: stops}, nil
}

// parseAffineAt parses an Affine2x3 (or VarAffine2x3, which appends a
// trailing varIndexBase) table at an absolute offset.
func (c *Colr) parseAffineAt(offset int, hasVarIndex bool) (Affine2x3, uint32, error) {
	data := c.data
	if offset < 0 || offset+24 > len(data) {
		return Affine2x3{}, 0, ErrInvalidOffset
	}
	readFixed := func(o int) Fixed { return Fixed(int32(binary.BigEndian.Uint32(data[o:]))) }
	aff := Affine2x3{
		XX: readFixed(offset),
		YX: readFixed(offset + 4),
		XY: readFixed(offset + 8),
		YY: readFixed(offset + 12),
		DX: readFixed(offset + 16),
		DY: readFixed(offset + 20),
	}
	var varIndex uint32
	if hasVarIndex {
		if offset+28 > len(data) {
			return Affine2x3{}, 0, ErrInvalidOffset
		}
		varIndex = binary.BigEndian.Uint32(data[offset+24:])
	}
	return aff, varIndex, nil
}

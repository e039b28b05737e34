package ot

import (
	"encoding/binary"
	"math"
	"strconv"
)

// CFF2 represents the structure of a CFF2 table: its Top DICT, the
// FDArray/FDSelect font-dict split, and the embedded ItemVariationStore.
// Charstring execution is out of scope; CharStrings is exposed only as
// the raw per-glyph byte slices from its INDEX.
type CFF2 struct {
	data []byte

	TopDict     CFF2TopDict
	GlobalSubrs [][]byte
	CharStrings [][]byte
	FDArray     []CFF2FontDict
	FDSelect    []uint8 // per-glyph FD index, resolved from whichever FDSelect format is present

	VarStore *ItemVariationStore
}

// CFF2TopDict holds the Top DICT operators relevant to table structure.
type CFF2TopDict struct {
	FontMatrix      [6]float64 // defaults to the CFF2 identity matrix if absent
	CharStrings     int        // offset to the CharStrings INDEX
	FDArray         int        // offset to the FDArray INDEX
	FDSelect        int        // offset to the FDSelect table
	VariationStore  int        // offset to the embedded ItemVariationStore
	HasFontMatrix   bool
	HasVariationStore bool
}

// CFF2FontDict is one entry of the FDArray: a Private DICT plus its local
// subroutines.
type CFF2FontDict struct {
	PrivateSize   int
	PrivateOffset int
	LocalSubrs    [][]byte
}

// CFF2 Top DICT operators (two-byte operators are 1200+n).
const (
	cff2TopFontMatrix     = 1207
	cff2TopCharStrings    = 17
	cff2TopFDArray        = 1236
	cff2TopFDSelect       = 1237
	cff2TopVariationStore = 24
)

// CFF2 Private DICT operators.
const (
	cff2PrivSubrs = 19
)

var cff2IdentityMatrix = [6]float64{1, 0, 0, 1, 0, 0}

// ParseCFF2 parses a CFF2 table.
func ParseCFF2(data []byte) (*CFF2, error) {
	if len(data) < 5 {
		return nil, ErrInvalidTable
	}
	major := data[0]
	if major != 2 {
		return nil, ErrInvalidFormat
	}
	headerSize := int(data[2])
	topDictLength := int(binary.BigEndian.Uint16(data[3:]))

	if headerSize < 5 || headerSize+topDictLength > len(data) {
		return nil, ErrInvalidTable
	}

	topDictData := data[headerSize : headerSize+topDictLength]
	topDict, err := parseCFF2TopDict(topDictData)
	if err != nil {
		return nil, err
	}

	offset := headerSize + topDictLength

	globalSubrs, consumed, err := parseINDEX2(data[offset:])
	if err != nil {
		return nil, err
	}
	offset += consumed

	c := &CFF2{
		data:        data,
		TopDict:     topDict,
		GlobalSubrs: globalSubrs,
	}

	if topDict.CharStrings > 0 && topDict.CharStrings < len(data) {
		charStrings, _, err := parseINDEX2(data[topDict.CharStrings:])
		if err != nil {
			return nil, err
		}
		c.CharStrings = charStrings
	}

	if topDict.FDArray > 0 && topDict.FDArray < len(data) {
		fdDicts, _, err := parseINDEX2(data[topDict.FDArray:])
		if err != nil {
			return nil, err
		}
		c.FDArray = make([]CFF2FontDict, len(fdDicts))
		for i, fd := range fdDicts {
			c.FDArray[i], err = parseCFF2FontDict(data, fd)
			if err != nil {
				return nil, err
			}
		}
	}

	if topDict.FDSelect > 0 && topDict.FDSelect < len(data) && len(c.CharStrings) > 0 {
		sel, err := parseFDSelect(data, topDict.FDSelect, len(c.CharStrings))
		if err != nil {
			return nil, err
		}
		c.FDSelect = sel
	}

	if topDict.HasVariationStore && topDict.VariationStore > 0 && topDict.VariationStore < len(data) {
		// The VariationStore operator points at a length-prefixed region:
		// a uint16 giving the ItemVariationStore's byte length, then the
		// store itself immediately following.
		vsOff := topDict.VariationStore
		if vsOff+2 > len(data) {
			return nil, ErrInvalidOffset
		}
		vsLen := int(binary.BigEndian.Uint16(data[vsOff:]))
		start := vsOff + 2
		if start+vsLen > len(data) {
			return nil, ErrInvalidOffset
		}
		vs, err := parseItemVariationStore(data[start : start+vsLen])
		if err != nil {
			return nil, err
		}
		c.VarStore = vs
	}

	return c, nil
}

// parseINDEX2 parses a CFF2 INDEX (a 4-byte count, unlike CFF1's 2-byte
// count; an absent offSize byte when count is 0).
func parseINDEX2(data []byte) ([][]byte, int, error) {
	if len(data) < 4 {
		return nil, 0, ErrInvalidTable
	}
	count := int(binary.BigEndian.Uint32(data[0:4]))
	if count == 0 {
		return nil, 4, nil
	}
	if len(data) < 5 {
		return nil, 0, ErrInvalidTable
	}
	offSize := int(data[4])
	if offSize < 1 || offSize > 4 {
		return nil, 0, ErrInvalidFormat
	}

	headerSize := 5 + (count+1)*offSize
	if len(data) < headerSize {
		return nil, 0, ErrInvalidTable
	}

	offsets := make([]int, count+1)
	for i := 0; i <= count; i++ {
		offsets[i] = readOffset(data[5+i*offSize:], offSize)
	}

	dataStart := headerSize
	dataEnd := dataStart + offsets[count] - 1
	if dataEnd > len(data) {
		return nil, 0, ErrInvalidTable
	}

	items := make([][]byte, count)
	for i := 0; i < count; i++ {
		start := dataStart + offsets[i] - 1
		end := dataStart + offsets[i+1] - 1
		if start < 0 || end > len(data) || start > end {
			return nil, 0, ErrInvalidTable
		}
		items[i] = data[start:end]
	}

	return items, dataEnd, nil
}

func readOffset(data []byte, size int) int {
	switch size {
	case 1:
		return int(data[0])
	case 2:
		return int(binary.BigEndian.Uint16(data))
	case 3:
		return int(data[0])<<16 | int(data[1])<<8 | int(data[2])
	case 4:
		return int(binary.BigEndian.Uint32(data))
	}
	return 0
}

func parseCFF2TopDict(data []byte) (CFF2TopDict, error) {
	dict := CFF2TopDict{FontMatrix: cff2IdentityMatrix}

	operands := make([]float64, 0, 16)
	pos := 0

	for pos < len(data) {
		b := data[pos]

		if b >= 32 && b <= 254 || b == 28 || b == 29 || b == 30 {
			val, consumed := decodeCFF2DictOperand(data[pos:])
			operands = append(operands, val)
			pos += consumed
			continue
		}

		op := int(b)
		pos++
		if b == 12 && pos < len(data) {
			op = 1200 + int(data[pos])
			pos++
		}

		switch op {
		case cff2TopFontMatrix:
			if len(operands) >= 6 {
				copy(dict.FontMatrix[:], operands[len(operands)-6:])
				dict.HasFontMatrix = true
			}
		case cff2TopCharStrings:
			if len(operands) > 0 {
				dict.CharStrings = int(operands[len(operands)-1])
			}
		case cff2TopFDArray:
			if len(operands) > 0 {
				dict.FDArray = int(operands[len(operands)-1])
			}
		case cff2TopFDSelect:
			if len(operands) > 0 {
				dict.FDSelect = int(operands[len(operands)-1])
			}
		case cff2TopVariationStore:
			if len(operands) > 0 {
				dict.VariationStore = int(operands[len(operands)-1])
				dict.HasVariationStore = true
			}
		}

		operands = operands[:0]
	}

	return dict, nil
}

func parseCFF2FontDict(data []byte, dictData []byte) (CFF2FontDict, error) {
	var fd CFF2FontDict
	operands := make([]float64, 0, 4)
	pos := 0

	for pos < len(dictData) {
		b := dictData[pos]
		if b >= 32 && b <= 254 || b == 28 || b == 29 || b == 30 {
			val, consumed := decodeCFF2DictOperand(dictData[pos:])
			operands = append(operands, val)
			pos += consumed
			continue
		}

		op := int(b)
		pos++
		if b == 12 && pos < len(dictData) {
			op = 1200 + int(dictData[pos])
			pos++
		}

		// Private operator (18) carries [size, offset].
		if op == 18 && len(operands) >= 2 {
			fd.PrivateSize = int(operands[len(operands)-2])
			fd.PrivateOffset = int(operands[len(operands)-1])
		}

		operands = operands[:0]
	}

	if fd.PrivateSize > 0 && fd.PrivateOffset > 0 {
		end := fd.PrivateOffset + fd.PrivateSize
		if end <= len(data) {
			subrsOff := parseCFF2PrivateSubrsOffset(data[fd.PrivateOffset:end])
			if subrsOff > 0 {
				absOff := fd.PrivateOffset + subrsOff
				if absOff < len(data) {
					subrs, _, err := parseINDEX2(data[absOff:])
					if err == nil {
						fd.LocalSubrs = subrs
					}
				}
			}
		}
	}

	return fd, nil
}

func parseCFF2PrivateSubrsOffset(data []byte) int {
	operands := make([]float64, 0, 4)
	pos := 0
	subrs := 0

	for pos < len(data) {
		b := data[pos]
		if b >= 32 && b <= 254 || b == 28 || b == 29 || b == 30 {
			val, consumed := decodeCFF2DictOperand(data[pos:])
			operands = append(operands, val)
			pos += consumed
			continue
		}

		op := int(b)
		pos++
		if b == 12 && pos < len(data) {
			op = 1200 + int(data[pos])
			pos++
		}

		if op == cff2PrivSubrs && len(operands) > 0 {
			subrs = int(operands[len(operands)-1])
		}

		operands = operands[:0]
	}

	return subrs
}

// decodeCFF2DictOperand decodes a single DICT operand, including the
// real-number (BCD) encoding that CFF2 Top/Font DICTs use for FontMatrix.
func decodeCFF2DictOperand(data []byte) (float64, int) {
	if len(data) == 0 {
		return 0, 0
	}
	b0 := data[0]

	if b0 >= 32 && b0 <= 246 {
		return float64(int(b0) - 139), 1
	}
	if b0 >= 247 && b0 <= 250 {
		if len(data) < 2 {
			return 0, 1
		}
		return float64((int(b0)-247)*256 + int(data[1]) + 108), 2
	}
	if b0 >= 251 && b0 <= 254 {
		if len(data) < 2 {
			return 0, 1
		}
		return float64(-(int(b0)-251)*256 - int(data[1]) - 108), 2
	}
	if b0 == 28 {
		if len(data) < 3 {
			return 0, 1
		}
		return float64(int16(binary.BigEndian.Uint16(data[1:3]))), 3
	}
	if b0 == 29 {
		if len(data) < 5 {
			return 0, 1
		}
		return float64(int32(binary.BigEndian.Uint32(data[1:5]))), 5
	}
	if b0 == 30 {
		return decodeRealOperand(data)
	}
	return 0, 1
}

// decodeRealOperand decodes operator 30's packed-BCD real number.
func decodeRealOperand(data []byte) (float64, int) {
	var sb []byte
	pos := 1
loop:
	for pos < len(data) {
		b := data[pos]
		pos++
		for _, nibble := range []byte{b >> 4, b & 0x0f} {
			switch {
			case nibble <= 9:
				sb = append(sb, '0'+nibble)
			case nibble == 0xa:
				sb = append(sb, '.')
			case nibble == 0xb:
				sb = append(sb, 'E')
			case nibble == 0xc:
				sb = append(sb, 'E', '-')
			case nibble == 0xe:
				sb = append(sb, '-')
			case nibble == 0xf:
				break loop
			}
		}
	}
	v, err := parseFloatLoose(string(sb))
	if err != nil {
		return 0, pos
	}
	return v, pos
}

// parseFloatLoose parses the ASCII form produced by decodeRealOperand,
// tolerating an empty mantissa (CFF2 real numbers permit "1." and ".5").
func parseFloatLoose(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	result, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(result) {
		return 0, err
	}
	return result, nil
}

func parseFDSelect(data []byte, offset int, numGlyphs int) ([]uint8, error) {
	if offset < 0 || offset >= len(data) {
		return nil, ErrInvalidOffset
	}
	format := data[offset]
	sel := make([]uint8, numGlyphs)

	switch format {
	case 0:
		if offset+1+numGlyphs > len(data) {
			return nil, ErrInvalidOffset
		}
		copy(sel, data[offset+1:offset+1+numGlyphs])
	case 3:
		if offset+3 > len(data) {
			return nil, ErrInvalidOffset
		}
		nRanges := int(binary.BigEndian.Uint16(data[offset+1:]))
		pos := offset + 3
		for i := 0; i < nRanges; i++ {
			if pos+5 > len(data) {
				return nil, ErrInvalidOffset
			}
			first := int(binary.BigEndian.Uint16(data[pos:]))
			fd := data[pos+2]
			next := int(binary.BigEndian.Uint16(data[pos+3:]))
			for g := first; g < next && g < numGlyphs; g++ {
				sel[g] = fd
			}
			pos += 3
		}
	default:
		return nil, ErrInvalidFormat
	}

	return sel, nil
}

// VariationDelta evaluates the embedded ItemVariationStore for a varIndex
// packed as (outer<<16)|inner, rounding the result -- unlike COLR's
// unrounded accumulator, CFF2 blend deltas round immediately since they
// feed a single charstring operand, not a cross-table sum.
func (c *CFF2) VariationDelta(varIdx uint32, coords []int) int32 {
	if c == nil || c.VarStore == nil {
		return 0
	}
	return int32(math.Round(c.VarStore.EvaluateDelta(varIdx, coords)))
}

// FDForGlyph returns the FDArray index selected for a glyph by FDSelect,
// or 0 if the font has no FDSelect (all glyphs share FDArray[0]).
func (c *CFF2) FDForGlyph(gid GlyphID) int {
	if int(gid) >= len(c.FDSelect) {
		return 0
	}
	return int(c.FDSelect[gid])
}

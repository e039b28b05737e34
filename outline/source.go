package outline

// Source is the outline source contract: a pure lookup from (font,
// glyph) to a GlyphPath, or nil for a glyph that does not exist. The
// GlyphID type is left as uint16 here to avoid importing the ot package
// from this leaf contract; callers adapt their own font type to this
// signature.
type Source func(glyphID uint16) *GlyphPath

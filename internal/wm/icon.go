package wm

// This file implements the _NET_WM_ICON decode/select/scale pipeline of
// spec §4.5 and §6. The wire parsing and nearest-neighbour scaling are kept
// as pure functions of []uint32/[]argb so they can be unit tested without
// an X connection; nothing in this file touches xgraphics (loadIcon in
// decorate.go copies the result into an xgraphics image).

// argbIcon is one decoded (w, h, pixels) record from the _NET_WM_ICON
// property, pixels in ARGB32 (A high byte, then R, G, B per spec §6).
type argbIcon struct {
	W, H int
	Pix  []uint32
}

// decodeWMIcon parses the CARDINAL[] wire format bit-exactly per spec §6:
// repeated (w, h, w*h pixels) records, stopping once fewer than w*h+2 words
// remain (a truncated trailing record is simply not emitted).
func decodeWMIcon(words []uint32) []argbIcon {
	var icons []argbIcon
	i := 0
	for i+2 <= len(words) {
		w := int(words[i])
		h := int(words[i+1])
		need := w*h + 2
		if i+need > len(words) || w <= 0 || h <= 0 {
			break
		}
		pix := make([]uint32, w*h)
		copy(pix, words[i+2:i+2+w*h])
		icons = append(icons, argbIcon{W: w, H: h, Pix: pix})
		i += need
	}
	return icons
}

// selectIcon implements spec §4.5's pick rule: the smallest record whose
// width is >= 16; if none qualifies, the largest available.
func selectIcon(icons []argbIcon, minWidth int) (argbIcon, bool) {
	if len(icons) == 0 {
		return argbIcon{}, false
	}
	var best argbIcon
	haveBest := false
	for _, ic := range icons {
		if ic.W < minWidth {
			continue
		}
		if !haveBest || ic.W < best.W {
			best = ic
			haveBest = true
		}
	}
	if haveBest {
		return best, true
	}
	var largest argbIcon
	for _, ic := range icons {
		if ic.W*ic.H > largest.W*largest.H {
			largest = ic
		}
	}
	return largest, true
}

// scaleNearest resizes an ARGB32 pixel buffer to dstW x dstH using
// nearest-neighbour sampling (spec §4.5).
func scaleNearest(src []uint32, srcW, srcH, dstW, dstH int) []uint32 {
	dst := make([]uint32, dstW*dstH)
	if srcW == 0 || srcH == 0 {
		return dst
	}
	for y := 0; y < dstH; y++ {
		sy := y * srcH / dstH
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < dstW; x++ {
			sx := x * srcW / dstW
			if sx >= srcW {
				sx = srcW - 1
			}
			dst[y*dstW+x] = src[sy*srcW+sx]
		}
	}
	return dst
}

// premultiplyAgainst blends every ARGB32 pixel's RGB channels against a
// background colour (0x00RRGGBB) weighted by its own alpha, then forces
// alpha to fully opaque, per spec §4.5 ("premultiplying against the
// titlebar background colour so the pixmap is opaque").
func premultiplyAgainst(pix []uint32, bg uint32) []uint32 {
	bgR := uint32((bg >> 16) & 0xff)
	bgG := uint32((bg >> 8) & 0xff)
	bgB := uint32(bg & 0xff)
	out := make([]uint32, len(pix))
	for i, p := range pix {
		a := (p >> 24) & 0xff
		r := (p >> 16) & 0xff
		g := (p >> 8) & 0xff
		b := p & 0xff
		blend := func(fg, base uint32) uint32 {
			return (fg*a + base*(255-a)) / 255
		}
		r = blend(r, bgR)
		g = blend(g, bgG)
		b = blend(b, bgB)
		out[i] = 0xff000000 | (r << 16) | (g << 8) | b
	}
	return out
}

// buildIconPixels runs the full §4.5 pipeline and returns a 16x16 ARGB32
// buffer ready to hand to xgraphics, or ok=false if there was no usable
// icon data.
func buildIconPixels(words []uint32, bg uint32) ([]uint32, bool) {
	const targetSize = 16
	icons := decodeWMIcon(words)
	if len(icons) == 0 {
		return nil, false
	}
	chosen, ok := selectIcon(icons, targetSize)
	if !ok {
		return nil, false
	}
	scaled := scaleNearest(chosen.Pix, chosen.W, chosen.H, targetSize, targetSize)
	return premultiplyAgainst(scaled, bg), true
}

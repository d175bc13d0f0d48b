package wm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func solidIconWords(w, h int, argb uint32) []uint32 {
	words := []uint32{uint32(w), uint32(h)}
	for i := 0; i < w*h; i++ {
		words = append(words, argb)
	}
	return words
}

func TestDecodeWMIconSingleRecord(t *testing.T) {
	words := solidIconWords(2, 2, 0xff112233)
	icons := decodeWMIcon(words)
	if assert.Len(t, icons, 1) {
		assert.Equal(t, 2, icons[0].W)
		assert.Equal(t, 2, icons[0].H)
		assert.Equal(t, []uint32{0xff112233, 0xff112233, 0xff112233, 0xff112233}, icons[0].Pix)
	}
}

func TestDecodeWMIconStopsOnTruncatedRecord(t *testing.T) {
	full := solidIconWords(4, 4, 0xffaabbcc)
	truncated := append(solidIconWords(2, 2, 0xff000000), full[:len(full)-1]...)
	icons := decodeWMIcon(truncated)
	assert.Len(t, icons, 1)
	assert.Equal(t, 2, icons[0].W)
}

func TestSelectIconPrefersSmallestAboveMinWidth(t *testing.T) {
	icons := []argbIcon{
		{W: 48, H: 48},
		{W: 16, H: 16},
		{W: 32, H: 32},
	}
	chosen, ok := selectIcon(icons, 16)
	assert.True(t, ok)
	assert.Equal(t, 16, chosen.W)
}

func TestSelectIconFallsBackToLargest(t *testing.T) {
	icons := []argbIcon{
		{W: 8, H: 8},
		{W: 12, H: 12},
	}
	chosen, ok := selectIcon(icons, 16)
	assert.True(t, ok)
	assert.Equal(t, 12, chosen.W)
}

func TestBuildIconPixelsScalesTo16(t *testing.T) {
	words := solidIconWords(48, 48, 0x80ff0000)
	pix, ok := buildIconPixels(words, 0x00ffffff)
	assert.True(t, ok)
	assert.Len(t, pix, 16*16)
	for _, p := range pix {
		assert.Equal(t, uint32(0xff), p>>24)
	}
}

func TestPremultiplyAgainstOpaqueSourceUnchanged(t *testing.T) {
	out := premultiplyAgainst([]uint32{0xff0000ff}, 0x00000000)
	assert.Equal(t, uint32(0xff0000ff), out[0])
}

func TestPremultiplyAgainstTransparentYieldsBackground(t *testing.T) {
	out := premultiplyAgainst([]uint32{0x00112233}, 0x00aabbcc)
	assert.Equal(t, uint32(0xffaabbcc), out[0])
}

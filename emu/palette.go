package emu

import (
	"image"

	"cyclenes/hw"
)

// Palette maps the 64 NES colors to 0xRRGGBB values.
var Palette = [64]uint32{
	0x656565, 0x002D69, 0x131F7F, 0x3C137C,
	0x600B62, 0x730A37, 0x710F07, 0x5A1A00,
	0x342800, 0x0B3400, 0x003C00, 0x003D10,
	0x003840, 0x000000, 0x000000, 0x000000,
	0xAEAEAE, 0x0F63B3, 0x4051D0, 0x7841CC,
	0xA736A9, 0xC03470, 0xBD3C30, 0x9F4A00,
	0x6D5C00, 0x366D00, 0x077704, 0x00793D,
	0x00727D, 0x000000, 0x000000, 0x000000,
	0xFEFEFF, 0x5DB3FF, 0x8FA1FF, 0xC890FF,
	0xF785FA, 0xFF83C0, 0xFF8B7F, 0xEF9A49,
	0xBDAC2C, 0x85BC2F, 0x55C753, 0x3CC98C,
	0x3EC2CD, 0x4E4E4E, 0x000000, 0x000000,
	0xFEFEFE, 0xBCDFFF, 0xD1D8FF, 0xE8D1FF,
	0xFBCDFD, 0xFFCCE5, 0xFFCFCA, 0xF8D5B4,
	0xE4DCA8, 0xCCE3A9, 0xB9E8B8, 0xAEE8D0,
	0xAFE5EA, 0xB6B6B6, 0x000000, 0x000000,
}

// FrameToRGBA converts the palette indices of f into RGBA pixels, in dst
// which must hold at least 256x240x4 bytes.
func FrameToRGBA(f *hw.Frame, dst []byte) {
	_ = dst[len(f)*4-1]
	for i, idx := range f {
		rgb := Palette[idx&0x3F]
		dst[i*4+0] = uint8(rgb >> 16)
		dst[i*4+1] = uint8(rgb >> 8)
		dst[i*4+2] = uint8(rgb)
		dst[i*4+3] = 0xFF
	}
}

// FrameImage returns f as an image.
func FrameImage(f *hw.Frame) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, hw.ScreenWidth, hw.ScreenHeight))
	FrameToRGBA(f, img.Pix)
	return img
}

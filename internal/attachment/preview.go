package attachment

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

// Thumbnail renders att as a block of half-height cells no larger than
// cols x rows. Each cell shows two vertically stacked pixels: the upper one
// as foreground, the lower one as background. Formats the standard library
// cannot decode (webp, heic, ...) fall back to the label.
func Thumbnail(att Attachment, cols, rows int) string {
	if cols <= 0 || rows <= 0 {
		return att.Label()
	}
	raw, err := att.Bytes()
	if err != nil {
		return att.Label()
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return att.Label()
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return att.Label()
	}
	tw, th := fit(w, h, cols, rows*2)
	if th%2 == 1 {
		th++
	}

	var sb strings.Builder
	for y := 0; y < th; y += 2 {
		for x := 0; x < tw; x++ {
			top := sample(img, b, x, y, tw, th)
			bottom := sample(img, b, x, y+1, tw, th)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hex(top))).
				Background(lipgloss.Color(hex(bottom))).
				Render(halfBlock))
		}
		if y+2 < th {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// fit scales w x h into maxW x maxH keeping the aspect ratio. Terminal cells
// are roughly twice as tall as wide, which the half-block rows already cancel out.
func fit(w, h, maxW, maxH int) (int, int) {
	tw, th := maxW, h*maxW/w
	if th > maxH {
		th = maxH
		tw = w * maxH / h
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	return tw, th
}

func sample(img image.Image, b image.Rectangle, x, y, tw, th int) color.Color {
	if y >= th {
		y = th - 1
	}
	sx := b.Min.X + x*b.Dx()/tw
	sy := b.Min.Y + y*b.Dy()/th
	return img.At(sx, sy)
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Block characters for half-block rendering.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// fadeLevels is how many brightness steps a faded ink can take.
const fadeLevels = 4

// Ink is a palette slot on a Canvas. The zero Ink is transparent.
type Ink uint8

type inkKey struct {
	hex   string
	level int
}

type cell struct {
	top, bottom Ink
}

// Canvas is a colored drawing buffer with 2x vertical resolution using
// half-block characters. Logical coordinates are scaled to terminal pixels.
// Render only emits cells that changed since the previous frame.
type Canvas struct {
	termWidth      int
	termHeight     int
	subPixelHeight int   // termHeight * 2
	pixels         []Ink // Flat slice: [y * termWidth + x]
	prev           []cell
	forceRedraw    bool

	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// 0-based terminal offsets for centering the render area.
	offsetCol int
	offsetRow int

	palette []colorful.Color // Index 0 is unused (transparent)
	inks    map[inkKey]Ink

	renderBuf strings.Builder
	numBuf    [20]byte
}

// NewScaledCanvas creates a canvas that maps a logicalWidth x logicalHeight
// space onto termWidth x termHeight terminal cells.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
		palette:       []colorful.Color{{}},
		inks:          make(map[inkKey]Ink),
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping the
// logical size. A real size change forces a full redraw.
func (c *Canvas) Resize(termWidth, termHeight int) {
	termWidth = max(termWidth, 0)
	termHeight = max(termHeight, 0)
	if termWidth != c.termWidth || termHeight != c.termHeight || c.pixels == nil {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Ink, c.subPixelHeight*termWidth)
		c.prev = make([]cell, termHeight*termWidth)
		c.forceRedraw = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the 0-based column and row offset of the render area.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the render area width in columns.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the render area height in rows.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// ForceRedraw makes the next Render emit every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear resets all pixels. The previous frame is kept for diffing.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// Ink returns the palette slot for a "#rrggbb" color dimmed to alpha in
// [0,1]. Unparseable colors fall back to white. Alpha <= 0 is transparent.
func (c *Canvas) Ink(hex string, alpha float64) Ink {
	if alpha <= 0 {
		return 0
	}
	level := int(math.Ceil(math.Min(alpha, 1) * fadeLevels))
	key := inkKey{hex: hex, level: level}
	if ink, ok := c.inks[key]; ok {
		return ink
	}
	if len(c.palette) > math.MaxUint8 {
		return Ink(math.MaxUint8) // palette full; reuse the last slot
	}

	col, err := colorful.Hex(hex)
	if err != nil {
		col = colorful.Color{R: 1, G: 1, B: 1}
	}
	if level < fadeLevels {
		col = colorful.Color{}.BlendRgb(col, float64(level)/fadeLevels)
	}

	ink := Ink(len(c.palette))
	c.palette = append(c.palette, col)
	c.inks[key] = ink
	return ink
}

func (c *Canvas) setPixel(x, y int, ink Ink) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = ink
	}
}

// FillRect paints a logical rectangle. Anything with a positive size covers
// at least one pixel.
func (c *Canvas) FillRect(x, y, w, h float64, ink Ink) {
	if ink == 0 || w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := max(int(math.Ceil((x+w)*c.scaleX)), x0+1)
	y1 := max(int(math.Ceil((y+h)*c.scaleY)), y0+1)

	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)
	for py := y0; py < y1; py++ {
		row := c.pixels[py*c.termWidth:]
		for px := x0; px < x1; px++ {
			row[px] = ink
		}
	}
}

// SetFloat sets the pixel under a logical point.
func (c *Canvas) SetFloat(x, y float64, ink Ink) {
	c.setPixel(int(math.Round(x*c.scaleX)), int(math.Round(y*c.scaleY)), ink)
}

// maxChunkSize is the maximum bytes to write at once for smooth network flow.
const maxChunkSize = 1400

// Render writes every changed cell to w using half-block characters and
// 24-bit color escapes.
func (c *Canvas) Render(w io.Writer) {
	c.renderBuf.Reset()
	fg, bg := Ink(0), Ink(0)

	for row := 0; row < c.termHeight; row++ {
		for col := 0; col < c.termWidth; col++ {
			cur := cell{
				top:    c.pixels[row*2*c.termWidth+col],
				bottom: c.pixels[(row*2+1)*c.termWidth+col],
			}
			i := row*c.termWidth + col
			if !c.forceRedraw && c.prev[i] == cur {
				continue
			}
			c.prev[i] = cur

			c.moveCursor(col+1+c.offsetCol, row+1+c.offsetRow)
			wantFg, wantBg, ch := glyph(cur)
			if wantFg != fg {
				c.writeColor(38, wantFg)
				fg = wantFg
			}
			if wantBg != bg {
				c.writeColor(48, wantBg)
				bg = wantBg
			}
			c.renderBuf.WriteRune(ch)
		}
	}
	if fg != 0 || bg != 0 {
		c.renderBuf.WriteString("\033[0m")
	}
	c.forceRedraw = false

	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		_, _ = io.WriteString(w, chunk)
		data = data[len(chunk):]
	}
}

// glyph picks the character and colors that show a cell's two pixels.
func glyph(cl cell) (fg, bg Ink, ch rune) {
	switch {
	case cl.top == 0 && cl.bottom == 0:
		return 0, 0, ' '
	case cl.top == cl.bottom:
		return cl.top, 0, BlockFull
	case cl.bottom == 0:
		return cl.top, 0, BlockUpperHalf
	case cl.top == 0:
		return cl.bottom, 0, BlockLowerHalf
	default:
		return cl.top, cl.bottom, BlockUpperHalf
	}
}

func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor emits an SGR for the foreground (38) or background (48).
// Ink 0 restores the terminal default.
func (c *Canvas) writeColor(layer int, ink Ink) {
	if ink == 0 {
		c.renderBuf.WriteString("\033[")
		c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer+1), 10))
		c.renderBuf.WriteByte('m')
		return
	}
	r, g, b := c.palette[ink].RGB255()
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(layer), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(r), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(g), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendUint(c.numBuf[:0], uint64(b), 10))
	c.renderBuf.WriteByte('m')
}

// RenderBorder draws a box around the render area when there is room for it.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1
	line := strings.Repeat("─", c.termWidth)

	cw := NewChunkWriter(w, 0, 0)
	if hasV {
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(left+1, top, line)
			cw.WriteAt(left+1, bottom, line)
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			cw.WriteAt(left, row, "│")
			cw.WriteAt(right, row, "│")
		}
	}
	_ = cw.Flush()
}

// FitArea clamps a terminal to maxCols x maxRows, shrinks one axis so the
// area keeps the logical aspect ratio (two sub-pixels per row), and centers
// it. Offsets are 0-based.
func FitArea(termCols, termRows, maxCols, maxRows int, logicalWidth, logicalHeight float64) (cols, rows, offsetCol, offsetRow int) {
	cols = min(termCols, maxCols)
	rows = min(termRows, maxRows)
	if cols <= 0 || rows <= 0 {
		return 0, 0, 0, 0
	}

	aspect := logicalWidth / logicalHeight
	if want := int(math.Round(float64(rows*2) * aspect)); want < cols {
		cols = want
	} else if want := int(math.Round(float64(cols) / aspect / 2)); want < rows {
		rows = want
	}
	cols, rows = max(cols, 1), max(rows, 1)

	offsetCol = (termCols - cols) / 2
	offsetRow = (termRows - rows) / 2
	return cols, rows, offsetCol, offsetRow
}

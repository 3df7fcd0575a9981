package printer

import (
	"bytes"
	"fmt"
	"strings"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Text alignment
const (
	AlignLeft   = 0
	AlignCenter = 1
	AlignRight  = 2
)

// Font size
const (
	FontNormal = 0x00
	FontDouble = 0x11 // Double width + double height
)

// Document builds a receipt either as an ESC/POS byte stream or as plain text.
// In plain mode control commands are dropped and centering is done with spaces.
type Document struct {
	buf   bytes.Buffer
	width int // print width in characters (32 for 58mm, 48 for 80mm)
	plain bool
	align int
}

// NewDocument creates a new ESC/POS document with the given character width.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 32
	}
	d := &Document{width: charWidth}
	d.Init()
	return d
}

// NewPlainDocument creates a document that renders plain text only.
func NewPlainDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = 40
	}
	return &Document{width: charWidth, plain: true}
}

// Width returns the print width in characters.
func (d *Document) Width() int { return d.width }

// Init sends the ESC @ (initialize printer) command.
func (d *Document) Init() *Document {
	d.command(ESC, '@')
	return d
}

func (d *Document) command(b ...byte) {
	if d.plain {
		return
	}
	d.buf.Write(b)
}

// LineFeed sends a line feed.
func (d *Document) LineFeed() *Document {
	d.buf.WriteByte(LF)
	return d
}

// FeedLines sends n line feeds.
func (d *Document) FeedLines(n int) *Document {
	for i := 0; i < n; i++ {
		d.buf.WriteByte(LF)
	}
	return d
}

// SetAlign sets text alignment: AlignLeft, AlignCenter, AlignRight.
func (d *Document) SetAlign(align int) *Document {
	d.align = align
	d.command(ESC, 'a', byte(align))
	return d
}

// SetBold enables or disables bold text.
func (d *Document) SetBold(on bool) *Document {
	b := byte(0)
	if on {
		b = 1
	}
	d.command(ESC, 'E', b)
	return d
}

// SetFontSize sets the character size. Use FontNormal or FontDouble.
func (d *Document) SetFontSize(size byte) *Document {
	d.command(GS, '!', size)
	return d
}

// Text writes a line of text followed by a line feed.
func (d *Document) Text(s string) *Document {
	if d.plain {
		s = d.pad(s)
	}
	d.buf.WriteString(s)
	d.buf.WriteByte(LF)
	return d
}

// TextF writes a formatted line of text followed by a line feed.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

func (d *Document) pad(s string) string {
	gap := d.width - len(s)
	if gap <= 0 {
		return s
	}
	switch d.align {
	case AlignCenter:
		return strings.Repeat(" ", gap/2) + s
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// Separator prints a full-width separator line (e.g. "--------------------------------").
func (d *Document) Separator(char byte) *Document {
	d.buf.WriteString(strings.Repeat(string(char), d.width))
	d.buf.WriteByte(LF)
	return d
}

// KeyValue prints a left-aligned key and right-aligned value on the same line.
// Example: "Subtotal           $100.00"
func (d *Document) KeyValue(key, value string) *Document {
	spaces := d.width - len(key) - len(value)
	if spaces < 1 {
		spaces = 1
	}
	d.buf.WriteString(key)
	d.buf.WriteString(strings.Repeat(" ", spaces))
	d.buf.WriteString(value)
	d.buf.WriteByte(LF)
	return d
}

// ItemLine prints a name and a right-aligned amount, truncating the name to fit.
// Example: "Milk                      $3.49"
func (d *Document) ItemLine(name, amount string) *Document {
	room := d.width - len(amount) - 1
	if room > 0 && len(name) > room {
		name = name[:room]
	}
	return d.KeyValue(name, amount)
}

// Cut sends the paper cut command (full cut).
func (d *Document) Cut() *Document {
	d.command(GS, 'V', 0x00)
	return d
}

// PartialCut sends the partial cut command.
func (d *Document) PartialCut() *Document {
	d.command(GS, 'V', 0x01)
	return d
}

// Bytes returns the accumulated byte stream.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// String returns the accumulated output as text.
func (d *Document) String() string {
	return d.buf.String()
}

// Reset clears the buffer and reinitializes the document.
func (d *Document) Reset() *Document {
	d.buf.Reset()
	d.align = AlignLeft
	d.Init()
	return d
}

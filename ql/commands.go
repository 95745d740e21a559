package ql

// RasterCommand is the closed set of control codes the printer's raster
// protocol accepts. Encoding is total: every command lowers to a fixed
// byte sequence with no failure mode. See the Raster Command Reference
// for the exact byte layouts this file implements.
type RasterCommand interface {
	encode() []byte
}

// Invalidate clears the printer's receive buffer: 400 zero bytes.
type Invalidate struct{}

func (Invalidate) encode() []byte { return make([]byte, 400) }

// Initialize resets the printer into a known state.
type Initialize struct{}

func (Initialize) encode() []byte { return []byte{0x1b, 0x40} }

// StatusInformationRequest asks the printer to emit a status reply.
type StatusInformationRequest struct{}

func (StatusInformationRequest) encode() []byte { return []byte{0x1b, 0x69, 0x53} }

// dynamicCommandMode selects which command dialect the printer expects.
// Raster is the only mode this driver ever emits.
type dynamicCommandMode byte

const modeRaster dynamicCommandMode = 0x01

// SwitchDynamicCommandMode puts the printer into raster command mode.
type SwitchDynamicCommandMode struct{}

func (SwitchDynamicCommandMode) encode() []byte {
	return []byte{0x1b, 0x69, 0x61, byte(modeRaster)}
}

// SwitchAutomaticStatusNotification turns automatic phase-change status
// replies on or off.
type SwitchAutomaticStatusNotification struct {
	Notify bool
}

func (c SwitchAutomaticStatusNotification) encode() []byte {
	var n byte
	if !c.Notify {
		n = 1
	}
	return []byte{0x1b, 0x69, 0x21, n}
}

// PrintInformation describes the page about to be transferred: media
// geometry, line count, and whether it is the first page of the job.
type PrintInformation struct {
	Media           Media
	QualityPriority bool
	RecoveryOn      bool
	NoLines         uint32
	FirstPage       bool
}

func (c PrintInformation) encode() []byte {
	// Media width and media type are always valid.
	validFlag := byte(0x02 | 0x04)

	mediaType := c.Media.labelType.code()
	var mediaLength byte
	if lengthMM, ok := c.Media.LengthMM(); ok {
		mediaLength = lengthMM
		validFlag |= 0x08
	}
	if c.QualityPriority {
		validFlag |= 0x40
	}
	if c.RecoveryOn {
		validFlag |= 0x80
	}

	// The line count is written little-endian, least significant byte
	// first, despite the Raster Command Reference prose calling it
	// big-endian; this matches the bytes the printer actually expects
	// (see DESIGN.md).
	n := c.NoLines
	n1 := byte(n)
	n2 := byte(n >> 8)
	n3 := byte(n >> 16)
	n4 := byte(n >> 24)

	var firstPageFlag byte
	if !c.FirstPage {
		firstPageFlag = 1
	}

	return []byte{
		0x1b, 0x69, 0x7a,
		validFlag,
		byte(mediaType),
		c.Media.WidthMM(),
		mediaLength,
		n1, n2, n3, n4,
		firstPageFlag,
		0x00,
	}
}

// VariousMode toggles the auto-cutter.
type VariousMode struct {
	AutoCut bool
}

func (c VariousMode) encode() []byte {
	var v byte
	if c.AutoCut {
		v = 0x40
	}
	return []byte{0x1b, 0x69, 0x4d, v}
}

// SpecifyPageNumber sets the auto-cutter's cut-every-n-pages count.
type SpecifyPageNumber struct {
	CutEvery byte
}

func (c SpecifyPageNumber) encode() []byte {
	return []byte{0x1b, 0x69, 0x41, c.CutEvery}
}

// ExpandedMode configures two-color printing, end-of-job cutting, and
// high-DPI feed.
type ExpandedMode struct {
	TwoColor bool
	CutAtEnd bool
	HighDPI  bool
}

func (c ExpandedMode) encode() []byte {
	var flags byte
	if c.TwoColor {
		flags |= 1 << 0
	}
	if c.CutAtEnd {
		flags |= 1 << 3
	}
	if c.HighDPI {
		flags |= 1 << 6
	}
	return []byte{0x1b, 0x69, 0x4b, flags}
}

// SpecifyMarginAmount sets the feed margin, in dots.
type SpecifyMarginAmount struct {
	MarginDots uint16
}

func (c SpecifyMarginAmount) encode() []byte {
	lo := byte(c.MarginDots)
	hi := byte(c.MarginDots >> 8)
	return []byte{0x1b, 0x69, 0x64, lo, hi}
}

// SelectCompressionMode toggles TIFF packbits compression for the raster
// data that follows. Compression is always disabled by this driver (see
// DESIGN.md): the field exists so the byte stream stays self-describing.
type SelectCompressionMode struct {
	TIFF bool
}

func (c SelectCompressionMode) encode() []byte {
	cm := byte(0x00)
	if c.TIFF {
		cm = 0x02
	}
	return []byte{0x4d, cm}
}

// RasterGraphicsTransfer transfers one 90-byte monochrome raster line.
type RasterGraphicsTransfer struct {
	Data [90]byte
}

func (c RasterGraphicsTransfer) encode() []byte {
	out := make([]byte, 0, 3+90)
	out = append(out, 0x67, 0x00, byte(len(c.Data)))
	return append(out, c.Data[:]...)
}

// colorPower selects which of the two-color printer's inks a raster line
// applies to.
type colorPower byte

const (
	colorPowerHighEnergy colorPower = 0x01 // black
	colorPowerLowEnergy  colorPower = 0x02 // red
)

// TwoColorRasterGraphicsTransfer transfers one 90-byte raster line for
// either the black (high-energy) or red (low-energy) layer.
type TwoColorRasterGraphicsTransfer struct {
	Data  [90]byte
	Color colorPower
}

func (c TwoColorRasterGraphicsTransfer) encode() []byte {
	out := make([]byte, 0, 3+90)
	out = append(out, 0x77, byte(c.Color), byte(len(c.Data)))
	return append(out, c.Data[:]...)
}

// Print ends a page, cutting according to the prevailing mode.
type Print struct{}

func (Print) encode() []byte { return []byte{0x0c} }

// PrintWithFeed ends the final page of a job, feeding the label out.
type PrintWithFeed struct{}

func (PrintWithFeed) encode() []byte { return []byte{0x1a} }

// rasterCommands accumulates a sequence of RasterCommand values and
// concatenates their encodings on demand.
type rasterCommands struct {
	chunks [][]byte
}

func (r *rasterCommands) add(cmd RasterCommand) {
	r.chunks = append(r.chunks, cmd.encode())
}

func (r *rasterCommands) build() []byte {
	n := 0
	for _, c := range r.chunks {
		n += len(c)
	}
	out := make([]byte, 0, n)
	for _, c := range r.chunks {
		out = append(out, c...)
	}
	return out
}

// createPreamble builds the fixed two-command sequence every print
// session begins with: Invalidate (400 zero bytes) then Initialize.
func createPreamble() *rasterCommands {
	r := &rasterCommands{}
	r.add(Invalidate{})
	r.add(Initialize{})
	return r
}

// Package ql is a driver for Brother QL-series label printers: it encodes
// the raster command protocol, decodes status replies, rasterizes images
// to the printer's bit-packed line format, and drives a print session over
// a byte transport.
package ql

import "fmt"

// LabelType distinguishes continuous tape from pre-sized die-cut labels.
type LabelType int

const (
	// Continuous is a roll that the printer cuts to an arbitrary length.
	Continuous LabelType = iota
	// DieCut is pre-cut labels of a fixed length.
	DieCut
)

func (t LabelType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case DieCut:
		return "die-cut"
	default:
		return fmt.Sprintf("LabelType(%d)", int(t))
	}
}

// mediaTypeCode is the on-wire media type byte used by both
// PrintInformation (command) and the status reply (offset 11).
type mediaTypeCode byte

const (
	mediaTypeCodeContinuous mediaTypeCode = 0x0a
	mediaTypeCodeDieCut     mediaTypeCode = 0x0b
)

func (t LabelType) code() mediaTypeCode {
	if t == DieCut {
		return mediaTypeCodeDieCut
	}
	return mediaTypeCodeContinuous
}

// Media describes one tape/label product Brother QL printers accept.
// All attributes are immutable, fixed geometry; there is no runtime
// mutation of the catalogue.
type Media struct {
	name string

	labelType     LabelType
	widthMM       uint8
	widthDots     uint32
	leftMargin    uint32
	supportsColor bool

	// lengthMM and lengthDots are only meaningful when labelType == DieCut.
	lengthMM   uint8
	lengthDots uint32
}

func (m Media) String() string { return m.name }

// LabelType reports whether m is continuous tape or die-cut labels.
func (m Media) LabelType() LabelType { return m.labelType }

// WidthMM is the tape-edge width measurement, in millimetres.
func (m Media) WidthMM() uint8 { return m.widthMM }

// WidthDots is the printable raster width, in print-head dots (<= 720).
func (m Media) WidthDots() uint32 { return m.widthDots }

// LeftMargin is the dot offset of the printable area from the print
// head's dot 0.
func (m Media) LeftMargin() uint32 { return m.leftMargin }

// SupportsColor reports whether this media supports red/black printing.
func (m Media) SupportsColor() bool { return m.supportsColor }

// LengthMM is the label length in millimetres, and ok is false for
// continuous media (which has no fixed length).
func (m Media) LengthMM() (mm uint8, ok bool) {
	if m.labelType != DieCut {
		return 0, false
	}
	return m.lengthMM, true
}

// LengthDots is the label length in print-head dots, and ok is false for
// continuous media.
func (m Media) LengthDots() (dots uint32, ok bool) {
	if m.labelType != DieCut {
		return 0, false
	}
	return m.lengthDots, true
}

// Media catalogue. Geometry matches the Brother QL raster reference; for
// die-cut sizes without an official published geometry the table carries
// the best available measurement (noted per entry below).
var (
	C12 = Media{name: "C12", labelType: Continuous, widthMM: 12, widthDots: 106, leftMargin: 585}
	C29 = Media{name: "C29", labelType: Continuous, widthMM: 29, widthDots: 306, leftMargin: 408}
	C38 = Media{name: "C38", labelType: Continuous, widthMM: 38, widthDots: 413, leftMargin: 295}
	C50 = Media{name: "C50", labelType: Continuous, widthMM: 50, widthDots: 554, leftMargin: 154}
	C54 = Media{name: "C54", labelType: Continuous, widthMM: 54, widthDots: 590, leftMargin: 130}
	C62 = Media{name: "C62", labelType: Continuous, widthMM: 62, widthDots: 696, leftMargin: 12}
	// C62R is the only media variant with red/black two-color support.
	C62R = Media{name: "C62R", labelType: Continuous, widthMM: 62, widthDots: 696, leftMargin: 12, supportsColor: true}

	D17x54 = Media{name: "D17x54", labelType: DieCut, widthMM: 17, widthDots: 165, leftMargin: 555, lengthMM: 54, lengthDots: 566}
	D17x87 = Media{name: "D17x87", labelType: DieCut, widthMM: 17, widthDots: 165, leftMargin: 555, lengthMM: 87, lengthDots: 912}
	D23x23 = Media{name: "D23x23", labelType: DieCut, widthMM: 23, widthDots: 236, leftMargin: 442, lengthMM: 23, lengthDots: 236}
	// D29x42, D39x48 and D52x29 have no officially published geometry;
	// values are carried over from the upstream reference unchanged.
	D29x42  = Media{name: "D29x42", labelType: DieCut, widthMM: 29, widthDots: 306, leftMargin: 408, lengthMM: 42, lengthDots: 442}
	D29x90  = Media{name: "D29x90", labelType: DieCut, widthMM: 29, widthDots: 306, leftMargin: 408, lengthMM: 90, lengthDots: 944}
	D38x90  = Media{name: "D38x90", labelType: DieCut, widthMM: 38, widthDots: 413, leftMargin: 295, lengthMM: 90, lengthDots: 944}
	D39x48  = Media{name: "D39x48", labelType: DieCut, widthMM: 39, widthDots: 425, leftMargin: 289, lengthMM: 48, lengthDots: 512}
	D52x29  = Media{name: "D52x29", labelType: DieCut, widthMM: 52, widthDots: 578, leftMargin: 142, lengthMM: 29, lengthDots: 318}
	D54x29  = Media{name: "D54x29", labelType: DieCut, widthMM: 54, widthDots: 602, leftMargin: 59, lengthMM: 29, lengthDots: 318}
	D60x86  = Media{name: "D60x86", labelType: DieCut, widthMM: 60, widthDots: 672, leftMargin: 24, lengthMM: 86, lengthDots: 902}
	D62x29  = Media{name: "D62x29", labelType: DieCut, widthMM: 62, widthDots: 696, leftMargin: 12, lengthMM: 29, lengthDots: 318}
	D62x100 = Media{name: "D62x100", labelType: DieCut, widthMM: 62, widthDots: 696, leftMargin: 12, lengthMM: 100, lengthDots: 1104}
	// D12, D24 and D58 are round die-cut labels: width and length coincide.
	D12 = Media{name: "D12", labelType: DieCut, widthMM: 12, widthDots: 94, leftMargin: 513, lengthMM: 12, lengthDots: 94}
	D24 = Media{name: "D24", labelType: DieCut, widthMM: 24, widthDots: 236, leftMargin: 442, lengthMM: 24, lengthDots: 236}
	D58 = Media{name: "D58", labelType: DieCut, widthMM: 58, widthDots: 618, leftMargin: 51, lengthMM: 58, lengthDots: 630}
)

// AllMedia lists every catalogued media variant, in declaration order.
func AllMedia() []Media {
	return []Media{
		C12, C29, C38, C50, C54, C62, C62R,
		D17x54, D17x87, D23x23, D29x42, D29x90, D38x90, D39x48, D52x29,
		D54x29, D60x86, D62x29, D62x100, D12, D24, D58,
	}
}

// matchMedia reverse-maps a status reply's (media type code, width in mm,
// length in mm) triple back to a catalogue entry. This is a best-effort
// lookup used to diagnose media mismatches; it returns false if no
// catalogue entry matches exactly.
func matchMedia(code mediaTypeCode, widthMM, lengthMM uint8) (Media, bool) {
	for _, m := range AllMedia() {
		if m.labelType.code() != code || m.widthMM != widthMM {
			continue
		}
		switch m.labelType {
		case Continuous:
			return m, true
		case DieCut:
			if m.lengthMM == lengthMM {
				return m, true
			}
		}
	}
	return Media{}, false
}

// PrinterModel identifies one physical Brother QL printer model.
type PrinterModel struct {
	name string

	// productID is the USB product ID used to enumerate a transport.
	productID uint16
	// modelCode is the byte a status reply carries at offset 4.
	modelCode byte
}

func (m PrinterModel) String() string { return m.name }

// ProductID is the USB product ID (vendor ID is always 0x04F9, Brother).
func (m PrinterModel) ProductID() uint16 { return m.productID }

// ModelCode is the status-reply model byte (offset 4) identifying m.
func (m PrinterModel) ModelCode() byte { return m.modelCode }

// USBVendorID is Brother's USB vendor ID, shared by every model.
const USBVendorID uint16 = 0x04f9

// Printer model catalogue. Model codes for QL-800, QL-810W and
// QL-820NWB are confirmed by independent field observation; the rest are
// assigned for catalogue completeness and are not independently
// confirmed against real hardware (see DESIGN.md).
var (
	QL500    = PrinterModel{name: "QL-500", productID: 0x2015, modelCode: 0x30}
	QL550    = PrinterModel{name: "QL-550", productID: 0x2016, modelCode: 0x31}
	QL560    = PrinterModel{name: "QL-560", productID: 0x2027, modelCode: 0x32}
	QL570    = PrinterModel{name: "QL-570", productID: 0x2028, modelCode: 0x33}
	QL580N   = PrinterModel{name: "QL-580N", productID: 0x2029, modelCode: 0x34}
	QL600    = PrinterModel{name: "QL-600", productID: 0x20af, modelCode: 0x3c}
	QL650TD  = PrinterModel{name: "QL-650TD", productID: 0x201b, modelCode: 0x35}
	QL700    = PrinterModel{name: "QL-700", productID: 0x2042, modelCode: 0x36}
	QL710W   = PrinterModel{name: "QL-710W", productID: 0x2043, modelCode: 0x37}
	QL720NW  = PrinterModel{name: "QL-720NW", productID: 0x2044, modelCode: 0x3a}
	QL800    = PrinterModel{name: "QL-800", productID: 0x209b, modelCode: 0x38}
	QL810W   = PrinterModel{name: "QL-810W", productID: 0x209c, modelCode: 0x39}
	QL820NWB = PrinterModel{name: "QL-820NWB", productID: 0x209d, modelCode: 0x41}
)

// AllPrinterModels lists every catalogued printer model.
func AllPrinterModels() []PrinterModel {
	return []PrinterModel{
		QL500, QL550, QL560, QL570, QL580N, QL600, QL650TD,
		QL700, QL710W, QL720NW, QL800, QL810W, QL820NWB,
	}
}

func printerModelByCode(code byte) (PrinterModel, bool) {
	for _, m := range AllPrinterModels() {
		if m.modelCode == code {
			return m, true
		}
	}
	return PrinterModel{}, false
}

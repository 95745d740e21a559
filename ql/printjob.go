package ql

import "image"

// cutKind is the closed set of automatic-cutter policies.
type cutKind byte

const (
	cutNone cutKind = iota
	cutEach
	cutEvery
	cutAtEnd
)

// CutBehavior controls when the printer's automatic cutter fires.
type CutBehavior struct {
	kind cutKind
	n    byte // meaningful only when kind == cutEvery
}

// CutNone disables the automatic cutter entirely.
func CutNone() CutBehavior { return CutBehavior{kind: cutNone} }

// CutEach cuts after every page.
func CutEach() CutBehavior { return CutBehavior{kind: cutEach} }

// CutEvery cuts after every n pages, n in [1, 255]. If the job's page
// count isn't a multiple of n, an extra cut is added after the last page.
func CutEvery(n byte) CutBehavior { return CutBehavior{kind: cutEvery, n: n} }

// CutAtEnd cuts only after the job's last page.
func CutAtEnd() CutBehavior { return CutBehavior{kind: cutAtEnd} }

func defaultCutBehavior(media Media) CutBehavior {
	if media.LabelType() == DieCut {
		return CutAtEnd()
	}
	return CutEach()
}

// PrintJob is a fully rasterized, ready-to-lower print job: one or more
// images, all validated against the same media, plus printer settings.
// A PrintJob is built once via PrintJobBuilder and consumed by Compile
// or a Session's Print method.
type PrintJob struct {
	Media           Media
	Images          []RasterImage
	Copies          uint8
	HighDPI         bool
	Compressed      bool
	QualityPriority bool
	Cut             CutBehavior
}

func (j *PrintJob) pageCount() int { return int(j.Copies) * len(j.Images) }

// PrintJobBuilder accumulates settings before any image has been added.
// Build is not defined on this type: the type-state transition performed
// by AddImage is the only way to reach a buildable job, so "at least one
// image" is a compile-time guarantee rather than a runtime check.
type PrintJobBuilder struct {
	media           Media
	copies          uint8
	highDPI         bool
	compressed      bool
	qualityPriority bool
	cut             CutBehavior
	cutSet          bool
}

// NewPrintJobBuilder starts a builder for a job targeting media, with
// defaults: 1 copy, 300 DPI, no compression, quality priority on, and
// the cut behavior appropriate to the media's label type.
func NewPrintJobBuilder(media Media) *PrintJobBuilder {
	return &PrintJobBuilder{
		media:           media,
		copies:          1,
		qualityPriority: true,
	}
}

// Copies sets the number of copies of each image to print.
func (b *PrintJobBuilder) Copies(n uint8) *PrintJobBuilder {
	b.copies = n
	return b
}

// HighDPI enables 600 DPI feed instead of the default 300 DPI.
func (b *PrintJobBuilder) HighDPI(v bool) *PrintJobBuilder {
	b.highDPI = v
	return b
}

// QualityPriority toggles print-quality-over-speed. It has no effect on
// two-color jobs, which always run at normal speed.
func (b *PrintJobBuilder) QualityPriority(v bool) *PrintJobBuilder {
	b.qualityPriority = v
	return b
}

// Compressed is accepted for forward compatibility but currently forced
// to false at lowering time: TIFF packbits compression isn't implemented.
func (b *PrintJobBuilder) Compressed(v bool) *PrintJobBuilder {
	b.compressed = v
	return b
}

// Cut overrides the default cut behavior for the target media.
func (b *PrintJobBuilder) Cut(c CutBehavior) *PrintJobBuilder {
	b.cut, b.cutSet = c, true
	return b
}

// AddImage rasterizes img against the builder's media and transitions to
// a NonEmptyPrintJobBuilder, the only state Build is reachable from.
func (b *PrintJobBuilder) AddImage(img image.Image) (*NonEmptyPrintJobBuilder, error) {
	n := &NonEmptyPrintJobBuilder{b: b}
	return n.AddImage(img)
}

// NonEmptyPrintJobBuilder is a PrintJobBuilder with at least one
// rasterized image; only this type can Build.
type NonEmptyPrintJobBuilder struct {
	b      *PrintJobBuilder
	images []RasterImage
}

// AddImage rasterizes and appends another image to the job.
func (n *NonEmptyPrintJobBuilder) AddImage(img image.Image) (*NonEmptyPrintJobBuilder, error) {
	var ri RasterImage
	var err error
	if n.b.media.SupportsColor() {
		ri, err = NewTwoColorImage(img, n.b.media)
	} else {
		ri, err = NewMonochromeImage(img, n.b.media)
	}
	if err != nil {
		return nil, err
	}
	n.images = append(n.images, ri)
	return n, nil
}

// Build yields the finished PrintJob.
func (n *NonEmptyPrintJobBuilder) Build() *PrintJob {
	cut := n.b.cut
	if !n.b.cutSet {
		cut = defaultCutBehavior(n.b.media)
	}
	return &PrintJob{
		Media:           n.b.media,
		Images:          n.images,
		Copies:          n.b.copies,
		HighDPI:         n.b.highDPI,
		Compressed:      n.b.compressed,
		QualityPriority: n.b.qualityPriority,
		Cut:             cut,
	}
}

// Compile lowers j to the full raster command byte stream: a preamble
// followed by one page block per (copy, image) pair.
func (j *PrintJob) Compile() []byte {
	out := createPreamble().build()
	pageCount := j.pageCount()
	pageNo := 0
	for copyNo := uint8(0); copyNo < j.Copies; copyNo++ {
		for _, image := range j.Images {
			out = append(out, j.lowerPage(image, pageNo, pageCount)...)
			pageNo++
		}
	}
	return out
}

func (j *PrintJob) lowerPage(img RasterImage, pageNo, pageCount int) []byte {
	cmds := &rasterCommands{}

	cmds.add(SwitchDynamicCommandMode{})
	cmds.add(SwitchAutomaticStatusNotification{Notify: true})

	qualityPriority := j.QualityPriority && !img.TwoColor
	cmds.add(PrintInformation{
		Media:           j.Media,
		QualityPriority: qualityPriority,
		// Forced false: the driver never requests recovery mode (see DESIGN.md).
		RecoveryOn: false,
		NoLines:    uint32(img.Len()),
		FirstPage:  pageNo == 0,
	})

	cmds.add(VariousMode{AutoCut: j.Cut.kind != cutNone})
	switch j.Cut.kind {
	case cutEvery:
		cmds.add(SpecifyPageNumber{CutEvery: j.Cut.n})
	case cutEach:
		cmds.add(SpecifyPageNumber{CutEvery: 1})
	}

	expandedCutAtEnd := false
	switch j.Cut.kind {
	case cutAtEnd:
		expandedCutAtEnd = true
	case cutEvery:
		expandedCutAtEnd = pageCount%int(j.Cut.n) != 0 && pageNo == pageCount-1
	}
	cmds.add(ExpandedMode{
		TwoColor: j.Media.SupportsColor(),
		CutAtEnd: expandedCutAtEnd,
		HighDPI:  j.HighDPI,
	})

	margin := uint16(0)
	if j.Media.LabelType() == Continuous {
		margin = 35
	}
	cmds.add(SpecifyMarginAmount{MarginDots: margin})

	// Compression is always disabled: TIFF packbits isn't implemented.
	cmds.add(SelectCompressionMode{TIFF: false})

	if img.TwoColor {
		for i := range img.Black {
			cmds.add(TwoColorRasterGraphicsTransfer{Data: img.Black[i], Color: colorPowerHighEnergy})
			cmds.add(TwoColorRasterGraphicsTransfer{Data: img.Red[i], Color: colorPowerLowEnergy})
		}
	} else {
		for _, line := range img.Black {
			cmds.add(RasterGraphicsTransfer{Data: line})
		}
	}

	if pageNo == pageCount-1 {
		cmds.add(PrintWithFeed{})
	} else {
		cmds.add(Print{})
	}

	return cmds.build()
}

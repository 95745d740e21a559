package ql

import (
	"image"
	"image/color"
	"testing"
)

// pageHeaderLen is the byte length of the fixed commands preceding the
// raster transfers in a lowered page: SwitchDynamicCommandMode (4),
// SwitchAutomaticStatusNotification (4), PrintInformation (13),
// VariousMode (4), optional SpecifyPageNumber (4), ExpandedMode (4),
// SpecifyMarginAmount (5), SelectCompressionMode (2).
func pageHeaderLen(withPageNumber bool) int {
	n := 4 + 4 + 13 + 4 + 4 + 5 + 2
	if withPageNumber {
		n += 4
	}
	return n
}

func buildJob(t *testing.T, media Media, img image.Image) *PrintJob {
	t.Helper()
	nonEmpty, err := NewPrintJobBuilder(media).AddImage(img)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	return nonEmpty.Build()
}

func TestCompileC62SinglePageMonochrome(t *testing.T) {
	img := solidImage(int(C62.WidthDots()), 300, color.White)
	job := buildJob(t, C62, img)
	out := job.Compile()

	wantLen := 402 + pageHeaderLen(true) + 300*93 + 1
	if len(out) != wantLen {
		t.Fatalf("len(Compile()) = %d, want %d", len(out), wantLen)
	}

	for i := 0; i < 400; i++ {
		if out[i] != 0x00 {
			t.Fatalf("out[%d] = 0x%02x, want 0x00", i, out[i])
		}
	}
	if out[400] != 0x1b || out[401] != 0x40 {
		t.Fatalf("initialize bytes = % x, want 1b 40", out[400:402])
	}

	// The page block starts at offset 402 with the mode switches, so
	// PrintInformation lands at 402+4+4.
	if string(out[402:406]) != string([]byte{0x1b, 0x69, 0x61, 0x01}) {
		t.Fatalf("SwitchDynamicCommandMode = % x", out[402:406])
	}
	if string(out[406:410]) != string([]byte{0x1b, 0x69, 0x21, 0x00}) {
		t.Fatalf("SwitchAutomaticStatusNotification = % x", out[406:410])
	}
	wantInfo := []byte{
		0x1b, 0x69, 0x7a,
		0x46,                   // width, type and quality-priority valid
		0x0a,                   // continuous
		0x3e,                   // 62mm
		0x00,                   // no fixed length
		0x2c, 0x01, 0x00, 0x00, // 300 lines
		0x00, // first page
		0x00,
	}
	if string(out[410:423]) != string(wantInfo) {
		t.Fatalf("PrintInformation = % x, want % x", out[410:423], wantInfo)
	}

	// Default for continuous media is CutEach: auto-cut on, cut every 1.
	if string(out[423:427]) != string([]byte{0x1b, 0x69, 0x4d, 0x40}) {
		t.Fatalf("VariousMode = % x", out[423:427])
	}
	if string(out[427:431]) != string([]byte{0x1b, 0x69, 0x41, 0x01}) {
		t.Fatalf("SpecifyPageNumber = % x", out[427:431])
	}
	if string(out[431:435]) != string([]byte{0x1b, 0x69, 0x4b, 0x00}) {
		t.Fatalf("ExpandedMode = % x", out[431:435])
	}
	if string(out[435:440]) != string([]byte{0x1b, 0x69, 0x64, 35, 0x00}) {
		t.Fatalf("SpecifyMarginAmount = % x", out[435:440])
	}
	if string(out[440:442]) != string([]byte{0x4d, 0x00}) {
		t.Fatalf("SelectCompressionMode = % x", out[440:442])
	}

	transfers := 402 + pageHeaderLen(true)
	for i := 0; i < 300; i++ {
		line := out[transfers+i*93:]
		if line[0] != 0x67 || line[1] != 0x00 || line[2] != 90 {
			t.Fatalf("transfer %d header = % x, want 67 00 5a", i, line[:3])
		}
	}

	if out[len(out)-1] != 0x1a {
		t.Fatalf("terminator = 0x%02x, want 0x1a (PrintWithFeed)", out[len(out)-1])
	}
}

func TestCompileD24DieCut(t *testing.T) {
	img := solidImage(int(D24.WidthDots()), int(mustLengthDots(t, D24)), color.White)
	job := buildJob(t, D24, img)
	out := job.Compile()

	info := out[410:423]
	if info[3] != 0x4e {
		t.Errorf("valid_flag = 0x%02x, want 0x4e", info[3])
	}
	if info[4] != 0x0b {
		t.Errorf("media_type = 0x%02x, want 0x0b (die-cut)", info[4])
	}
	if info[6] != 0x18 {
		t.Errorf("length_mm = 0x%02x, want 0x18", info[6])
	}

	// Die-cut defaults to CutAtEnd: no SpecifyPageNumber, ExpandedMode
	// carries bit3, margin is zero.
	expanded := out[402+4+4+13+4:]
	if string(expanded[:4]) != string([]byte{0x1b, 0x69, 0x4b, 0x08}) {
		t.Errorf("ExpandedMode = % x, want 1b 69 4b 08", expanded[:4])
	}
	if string(expanded[4:9]) != string([]byte{0x1b, 0x69, 0x64, 0x00, 0x00}) {
		t.Errorf("SpecifyMarginAmount = % x, want zero margin", expanded[4:9])
	}
}

func TestCompileD24WrongHeight(t *testing.T) {
	h := int(mustLengthDots(t, D24))
	img := solidImage(int(D24.WidthDots()), h+1, color.White)
	_, err := NewPrintJobBuilder(D24).AddImage(img)
	mismatch, ok := err.(*DimensionMismatchError)
	if !ok {
		t.Fatalf("error type = %T, want *DimensionMismatchError", err)
	}
	if mismatch.ExpectedHeight != uint32(h) || mismatch.ActualHeight != uint32(h+1) {
		t.Fatalf("mismatch = %+v, want expected height %d, actual %d", mismatch, h, h+1)
	}
}

func TestCompileC62RTwoColor(t *testing.T) {
	w := int(C62R.WidthDots())
	img := image.NewRGBA(image.Rect(0, 0, w, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < w; x++ {
			if y < 2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255}) // red stripe
			} else {
				img.Set(x, y, color.Black) // black stripe
			}
		}
	}

	nonEmpty, err := NewPrintJobBuilder(C62R).QualityPriority(true).AddImage(img)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	out := nonEmpty.Build().Compile()

	// Quality priority is forced off for two-color pages regardless of
	// the user flag, so the valid flag drops back to 0x06.
	info := out[410:423]
	if info[3] != 0x06 {
		t.Errorf("valid_flag = 0x%02x, want 0x06", info[3])
	}

	expanded := out[402+4+4+13+4+4:]
	if expanded[3]&0x01 == 0 {
		t.Errorf("ExpandedMode = 0x%02x, want bit0 (two-color) set", expanded[3])
	}

	// Transfers interleave black (high energy) then red (low energy),
	// one pair per line.
	transfers := out[402+pageHeaderLen(true) : len(out)-1]
	if len(transfers) != 4*2*93 {
		t.Fatalf("transfer block = %d bytes, want %d", len(transfers), 4*2*93)
	}
	for i := 0; i < 4; i++ {
		pair := transfers[i*2*93:]
		if pair[0] != 0x77 || pair[1] != 0x01 || pair[2] != 90 {
			t.Fatalf("line %d black header = % x, want 77 01 5a", i, pair[:3])
		}
		if pair[93] != 0x77 || pair[94] != 0x02 || pair[95] != 90 {
			t.Fatalf("line %d red header = % x, want 77 02 5a", i, pair[93:96])
		}
	}
}

func TestCompileMultiPageTerminators(t *testing.T) {
	img := solidImage(int(C62.WidthDots()), 8, color.White)
	nonEmpty, err := NewPrintJobBuilder(C62).Copies(2).AddImage(img)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	job := nonEmpty.Build()
	if job.pageCount() != 2 {
		t.Fatalf("pageCount() = %d, want 2", job.pageCount())
	}
	out := job.Compile()

	pageLen := pageHeaderLen(true) + 8*93 + 1
	page1End := 402 + pageLen
	if out[page1End-1] != 0x0c {
		t.Errorf("page 1 terminator = 0x%02x, want 0x0c (Print)", out[page1End-1])
	}
	if out[len(out)-1] != 0x1a {
		t.Errorf("page 2 terminator = 0x%02x, want 0x1a (PrintWithFeed)", out[len(out)-1])
	}

	// The second page's PrintInformation is no longer marked first-page.
	info2 := out[page1End+4+4 : page1End+4+4+13]
	if info2[11] != 0x01 {
		t.Errorf("page 2 first_page flag = 0x%02x, want 0x01", info2[11])
	}
}

func TestCompileCutEveryTrailingGroup(t *testing.T) {
	img := solidImage(int(C62.WidthDots()), 4, color.White)
	nonEmpty, err := NewPrintJobBuilder(C62).Copies(3).Cut(CutEvery(2)).AddImage(img)
	if err != nil {
		t.Fatalf("AddImage: %v", err)
	}
	job := nonEmpty.Build()
	out := job.Compile()

	// 3 pages, cut every 2: the trailing group of 1 gets cut_at_end on
	// the last page only.
	pageLen := pageHeaderLen(true) + 4*93 + 1
	for pageNo := 0; pageNo < 3; pageNo++ {
		start := 402 + pageNo*pageLen
		pageNumber := out[start+4+4+13+4:]
		if string(pageNumber[:4]) != string([]byte{0x1b, 0x69, 0x41, 0x02}) {
			t.Errorf("page %d SpecifyPageNumber = % x, want cut_every 2", pageNo, pageNumber[:4])
		}
		expanded := pageNumber[4:8]
		wantCut := pageNo == 2
		gotCut := expanded[3]&0x08 != 0
		if gotCut != wantCut {
			t.Errorf("page %d cut_at_end = %v, want %v", pageNo, gotCut, wantCut)
		}
	}
}

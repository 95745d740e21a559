package ql

import "testing"

func TestPreambleByteCount(t *testing.T) {
	preamble := createPreamble().build()
	if len(preamble) != 402 {
		t.Fatalf("len(preamble) = %d, want 402", len(preamble))
	}
	for i := 0; i < 400; i++ {
		if preamble[i] != 0x00 {
			t.Fatalf("preamble[%d] = 0x%02x, want 0x00", i, preamble[i])
		}
	}
	if preamble[400] != 0x1b || preamble[401] != 0x40 {
		t.Fatalf("preamble tail = % x, want 1b 40", preamble[400:402])
	}
}

func TestCodecDeterminism(t *testing.T) {
	cmd := PrintInformation{Media: C62, QualityPriority: true, NoLines: 300, FirstPage: true}
	a, b := cmd.encode(), cmd.encode()
	if string(a) != string(b) {
		t.Fatalf("encode is not deterministic: % x != % x", a, b)
	}
}

func TestPrintInformationEncodeC62(t *testing.T) {
	// C62 single-page monochrome: media width 62mm, 300 lines, first page.
	got := PrintInformation{
		Media: C62, QualityPriority: true, RecoveryOn: false,
		NoLines: 300, FirstPage: true,
	}.encode()
	want := []byte{0x1b, 0x69, 0x7a, 0x46, 0x0a, 0x3e, 0x00, 0x2c, 0x01, 0x00, 0x00, 0x00, 0x00}
	if string(got) != string(want) {
		t.Fatalf("encode() = % x, want % x", got, want)
	}
}

func TestPrintInformationEncodeD24(t *testing.T) {
	got := PrintInformation{
		Media: D24, QualityPriority: true, RecoveryOn: false,
		NoLines: 236, FirstPage: true,
	}.encode()
	if got[3] != 0x4e {
		t.Fatalf("valid_flag = 0x%02x, want 0x4e", got[3])
	}
	if got[4] != 0x0b {
		t.Fatalf("media_type = 0x%02x, want 0x0b", got[4])
	}
	if got[6] != 0x18 {
		t.Fatalf("length_mm = 0x%02x, want 0x18", got[6])
	}
}

func TestPrintInformationValidFlagComposition(t *testing.T) {
	cases := []struct {
		name  string
		cmd   PrintInformation
		flag  byte
	}{
		{"continuous, no quality, no recovery", PrintInformation{Media: C62}, 0x06},
		{"continuous, quality", PrintInformation{Media: C62, QualityPriority: true}, 0x46},
		{"continuous, recovery", PrintInformation{Media: C62, RecoveryOn: true}, 0x86},
		{"die-cut adds length-valid bit", PrintInformation{Media: D24}, 0x0e},
		{"die-cut, quality, recovery", PrintInformation{Media: D24, QualityPriority: true, RecoveryOn: true}, 0xce},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := c.cmd.encode()[3]
			if got != c.flag {
				t.Fatalf("valid_flag = 0x%02x, want 0x%02x", got, c.flag)
			}
		})
	}
}

func TestSwitchAutomaticStatusNotificationEncoding(t *testing.T) {
	if got := (SwitchAutomaticStatusNotification{Notify: true}).encode(); got[3] != 0x00 {
		t.Fatalf("notify=true byte = 0x%02x, want 0x00", got[3])
	}
	if got := (SwitchAutomaticStatusNotification{Notify: false}).encode(); got[3] != 0x01 {
		t.Fatalf("notify=false byte = 0x%02x, want 0x01", got[3])
	}
}

func TestRasterGraphicsTransferLength(t *testing.T) {
	var data [90]byte
	got := RasterGraphicsTransfer{Data: data}.encode()
	if len(got) != 93 {
		t.Fatalf("len(encode()) = %d, want 93", len(got))
	}
	if got[0] != 0x67 || got[1] != 0x00 || got[2] != 90 {
		t.Fatalf("header = % x, want 67 00 5a", got[:3])
	}
}

func TestTwoColorRasterGraphicsTransferColorByte(t *testing.T) {
	var data [90]byte
	black := TwoColorRasterGraphicsTransfer{Data: data, Color: colorPowerHighEnergy}.encode()
	red := TwoColorRasterGraphicsTransfer{Data: data, Color: colorPowerLowEnergy}.encode()
	if black[1] != 0x01 {
		t.Fatalf("black color byte = 0x%02x, want 0x01", black[1])
	}
	if red[1] != 0x02 {
		t.Fatalf("red color byte = 0x%02x, want 0x02", red[1])
	}
}

func TestExpandedModeBits(t *testing.T) {
	got := ExpandedMode{TwoColor: true, CutAtEnd: true, HighDPI: true}.encode()
	if got[3] != 0x49 { // bit0 | bit3 | bit6 = 0x01|0x08|0x40
		t.Fatalf("flags = 0x%02x, want 0x49", got[3])
	}
}

func TestSpecifyMarginAmountEndianness(t *testing.T) {
	got := SpecifyMarginAmount{MarginDots: 0x0123}.encode()
	want := []byte{0x1b, 0x69, 0x64, 0x23, 0x01}
	if string(got) != string(want) {
		t.Fatalf("encode() = % x, want % x", got, want)
	}
}

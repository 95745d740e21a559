package ql

import "testing"

// readyFrame builds a syntactically valid 32-byte status reply for a
// QL-820NWB with 62mm continuous media loaded and no errors, matching
// scenario 4.
func readyFrame() []byte {
	b := make([]byte, 32)
	b[0] = 0x80
	b[1] = 0x20
	b[2] = 0x42
	b[3] = 0x34
	b[4] = 0x41 // QL-820NWB
	b[5] = 0x30
	b[6] = 0x00 // unchecked
	b[7] = 0x00
	b[8], b[9] = 0x00, 0x00 // no errors
	b[10] = 62              // media width mm
	b[11] = 0x0a            // continuous
	b[12] = 0x00
	b[13] = 0x00
	b[14] = 0x00 // unchecked
	b[15] = 0x00
	b[16] = 0x00
	b[17] = 0 // media length mm
	b[18] = 0x00
	b[19], b[20], b[21] = 0x00, 0x00, 0x00 // receiving
	b[22] = 0x00
	b[23] = 0x00
	b[24] = 0x00
	return b
}

func TestParseStatusReady(t *testing.T) {
	st, err := ParseStatus(readyFrame())
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if st.Phase != Receiving {
		t.Errorf("Phase = %v, want Receiving", st.Phase)
	}
	if st.Type != StatusRequestReply {
		t.Errorf("Type = %v, want StatusRequestReply", st.Type)
	}
	if st.Errors.HasErrors() {
		t.Errorf("Errors = %v, want none", st.Errors)
	}
	if !st.HasModel || st.Model != QL820NWB {
		t.Errorf("Model = (%v, %v), want (QL820NWB, true)", st.Model, st.HasModel)
	}
	if !st.HasMedia || st.Media != C62 {
		t.Errorf("Media = (%v, %v), want (C62, true)", st.Media, st.HasMedia)
	}
}

func TestParseStatusNoMediaError(t *testing.T) {
	b := readyFrame()
	b[8], b[9] = 0x01, 0x00
	b[18] = 0x02 // ErrorOccurred

	st, err := ParseStatus(b)
	if err != nil {
		t.Fatalf("ParseStatus: %v", err)
	}
	if !st.Errors.HasErrors() || st.Errors&ErrorNoMedia == 0 {
		t.Errorf("Errors = %v, want ErrorNoMedia set", st.Errors)
	}
	if st.Type != ErrorOccurred {
		t.Errorf("Type = %v, want ErrorOccurred", st.Type)
	}
}

func TestParseStatusWrongLength(t *testing.T) {
	if _, err := ParseStatus(make([]byte, 31)); err == nil {
		t.Fatal("expected an error for a 31-byte frame")
	}
}

func TestParseStatusFixedFieldRejection(t *testing.T) {
	offsets := []int{0, 1, 2, 3, 5, 7, 12, 13, 16, 23, 24}
	for _, off := range offsets {
		b := readyFrame()
		b[off] ^= 0xff
		if _, err := ParseStatus(b); err == nil {
			t.Errorf("offset %d: mutated fixed field did not fail parsing", off)
		}
	}
}

func TestParseStatusOffsets6And14NotChecked(t *testing.T) {
	b := readyFrame()
	b[6] = 0xff
	b[14] = 0xff
	if _, err := ParseStatus(b); err != nil {
		t.Fatalf("ParseStatus with offsets 6/14 perturbed: %v", err)
	}
}

func TestErrorFlagsRetainsUnknownBits(t *testing.T) {
	f := ErrorFlags(1 << 3) // reserved bit
	if !f.HasErrors() {
		t.Fatal("reserved bit should still count as an error")
	}
	if f.String() == "none" {
		t.Fatal("reserved bit was dropped from the rendering")
	}
}

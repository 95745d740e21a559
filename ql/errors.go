package ql

import "fmt"

// DimensionMismatchError is returned when an image's dimensions don't
// match the media it is being rasterized against.
type DimensionMismatchError struct {
	ExpectedWidth     uint32
	ActualWidth       uint32
	ExpectedHeight    uint32 // zero if HasExpectedHeight is false
	HasExpectedHeight bool
	ActualHeight      uint32
}

func (e *DimensionMismatchError) Error() string {
	if e.HasExpectedHeight {
		return fmt.Sprintf(
			"image dimensions %dx%d don't match media requirements (width %d, height %d)",
			e.ActualWidth, e.ActualHeight, e.ExpectedWidth, e.ExpectedHeight)
	}
	return fmt.Sprintf(
		"image dimensions %dx%d don't match media requirements (width %d)",
		e.ActualWidth, e.ActualHeight, e.ExpectedWidth)
}

// StatusParsingError reports that a 32-byte status reply was malformed.
type StatusParsingError struct {
	Reason string
}

func (e *StatusParsingError) Error() string {
	return "failed to parse status information: " + e.Reason
}

// ErrNoResponse is returned when the printer does not produce a full
// 32-byte status reply within the read retry budget (~3s).
var ErrNoResponse = fmt.Errorf("printer did not respond within the retry budget")

// ErrIncompleteWrite is returned by a transport when it could not write
// every byte handed to it.
var ErrIncompleteWrite = fmt.Errorf("incomplete write to transport")

// PrinterError reports that the printer's status reply carried a
// non-zero error bitfield.
type PrinterError struct {
	Flags ErrorFlags
}

func (e *PrinterError) Error() string {
	return fmt.Sprintf("printer reported errors: %s", e.Flags)
}

// UnexpectedStatusError reports that a status reply's (type, phase) pair
// did not match what the session driver expected at that point in the
// print sequence.
type UnexpectedStatusError struct {
	ExpectedType  StatusType
	ExpectedPhase Phase
	ActualType    StatusType
	ActualPhase   Phase
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("unexpected printer status: expected %s/%s, got %s/%s",
		e.ExpectedType, e.ExpectedPhase, e.ActualType, e.ActualPhase)
}

// MediaMismatchError reports that the printer's installed media does not
// match what the print job was built for.
type MediaMismatchError struct {
	Expected Media
	// Reported is the media the status reply's (type, width, length)
	// triple best-effort maps to; HasReported is false if no catalogue
	// entry matches.
	Reported    Media
	HasReported bool
}

func (e *MediaMismatchError) Error() string {
	if e.HasReported {
		return fmt.Sprintf("print job requires %s tape but printer reported %s", e.Expected, e.Reported)
	}
	return fmt.Sprintf("print job requires %s tape but printer reported unrecognized media", e.Expected)
}

// PrintError is the top-level error returned from a print session. PageNo
// is 0 for pre-loop validation failures and 1..N for page k+1.
type PrintError struct {
	PageNo uint32
	Err    error
}

func (e *PrintError) Error() string {
	return fmt.Sprintf("print error on page %d: %s", e.PageNo, e.Err)
}

func (e *PrintError) Unwrap() error { return e.Err }

func wrapPage(pageNo uint32, err error) error {
	if err == nil {
		return nil
	}
	return &PrintError{PageNo: pageNo, Err: err}
}

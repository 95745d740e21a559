package ql

import "time"

const (
	statusSize     = 32
	maxReadRetries = 60
	readRetryWait  = 50 * time.Millisecond
)

// Session drives a print job or a standalone status query over a
// Transport. A Session owns its transport exclusively for the duration
// of a call; it carries no state between calls.
type Session struct {
	Transport Transport
}

// NewSession wraps t in a Session.
func NewSession(t Transport) *Session { return &Session{Transport: t} }

// readStatus reads exactly 32 bytes via a bounded retry loop: reads
// until the buffer is full, or until 60 consecutive zero-byte reads
// (~3s at 50ms apart) elapse without any progress, in which case it
// fails with ErrNoResponse. Any partial read resets the retry counter.
func (s *Session) readStatus() (*Status, error) {
	buf := make([]byte, statusSize)
	got := 0
	retries := 0
	for got < statusSize {
		n, err := s.Transport.Read(buf[got:])
		if err != nil {
			return nil, err
		}
		if n == 0 {
			retries++
			if retries >= maxReadRetries {
				return nil, ErrNoResponse
			}
			time.Sleep(readRetryWait)
			continue
		}
		got += n
		retries = 0
	}
	return ParseStatus(buf)
}

// mediaMatches compares the job's media against the (type, width, length)
// triple a status reply carries. The comparison is on the triple rather
// than on catalogue identity: the reply cannot distinguish variants that
// share the same geometry (C62 and C62R report identically).
func mediaMatches(job *PrintJob, st *Status) bool {
	if !st.MediaPresent ||
		st.MediaType != job.Media.LabelType() ||
		st.MediaWidthMM != job.Media.WidthMM() {
		return false
	}
	lengthMM, _ := job.Media.LengthMM() // zero for continuous
	return st.MediaLengthMM == lengthMM
}

// validateStatus checks a status reply against the job's media and the
// expected (type, phase) pair, in the order the session driver requires:
// media match, then error flags, then type/phase.
func validateStatus(job *PrintJob, st *Status, expectedType StatusType, expectedPhase Phase) error {
	if !mediaMatches(job, st) {
		return &MediaMismatchError{Expected: job.Media, Reported: st.Media, HasReported: st.HasMedia}
	}
	if st.Errors.HasErrors() {
		return &PrinterError{Flags: st.Errors}
	}
	if st.Type != expectedType || st.Phase != expectedPhase {
		return &UnexpectedStatusError{
			ExpectedType: expectedType, ExpectedPhase: expectedPhase,
			ActualType: st.Type, ActualPhase: st.Phase,
		}
	}
	return nil
}

func (s *Session) expectStatus(job *PrintJob, t StatusType, ph Phase, pageNo int) error {
	st, err := s.readStatus()
	if err != nil {
		return wrapPage(uint32(pageNo+1), err)
	}
	if err := validateStatus(job, st, t, ph); err != nil {
		return wrapPage(uint32(pageNo+1), err)
	}
	return nil
}

// Print runs the full session state machine for job: write the
// preamble, query and validate readiness, then for each page write its
// command block and validate the three status replies the printer sends
// back (phase change to printing, printing completed, phase change back
// to receiving). Every failure is wrapped with the page index it
// occurred on (0 for pre-loop failures, 1..N for page k+1).
func (s *Session) Print(job *PrintJob) error {
	if err := s.Transport.Write(createPreamble().build()); err != nil {
		return wrapPage(0, err)
	}
	if err := s.Transport.Write(StatusInformationRequest{}.encode()); err != nil {
		return wrapPage(0, err)
	}
	st, err := s.readStatus()
	if err != nil {
		return wrapPage(0, err)
	}
	if err := validateStatus(job, st, StatusRequestReply, Receiving); err != nil {
		return wrapPage(0, err)
	}

	pageCount := job.pageCount()
	pageNo := 0
	for copyNo := uint8(0); copyNo < job.Copies; copyNo++ {
		for _, img := range job.Images {
			pageBytes := job.lowerPage(img, pageNo, pageCount)
			if err := s.Transport.Write(pageBytes); err != nil {
				return wrapPage(uint32(pageNo+1), err)
			}
			if err := s.expectStatus(job, PhaseChange, Printing, pageNo); err != nil {
				return err
			}
			if err := s.expectStatus(job, PrintingCompleted, Printing, pageNo); err != nil {
				return err
			}
			if err := s.expectStatus(job, PhaseChange, Receiving, pageNo); err != nil {
				return err
			}
			pageNo++
		}
	}
	return nil
}

// GetStatus writes the preamble and a status request, then returns the
// single reply that comes back. Unlike Print's internal status reads,
// this is unvalidated: no media, error, or phase check is performed.
func (s *Session) GetStatus() (*Status, error) {
	if err := s.Transport.Write(createPreamble().build()); err != nil {
		return nil, err
	}
	if err := s.Transport.Write(StatusInformationRequest{}.encode()); err != nil {
		return nil, err
	}
	return s.readStatus()
}

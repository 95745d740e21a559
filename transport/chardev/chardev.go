// Package chardev implements janouch.name/brotherql/ql.Transport over a
// character-device file (e.g. /dev/usb/lp0, the Linux usblp driver's
// device node), using non-blocking reads so an unresponsive printer
// returns "no data" instead of hanging the caller.
package chardev

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"janouch.name/brotherql/ql"
)

// Transport is a ql.Transport backed by a character-device file
// descriptor opened for non-blocking I/O.
type Transport struct {
	fd int
}

// Open opens path read-write, non-blocking.
func Open(path string) (*Transport, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return &Transport{fd: fd}, nil
}

// Write writes data in full; a short write fails with ql.ErrIncompleteWrite.
func (t *Transport) Write(data []byte) error {
	n, err := unix.Write(t.fd, data)
	if err != nil {
		return errors.Wrap(err, "chardev write")
	}
	if n != len(data) {
		return ql.ErrIncompleteWrite
	}
	return nil
}

// Read fills buf from the device. EAGAIN (no data available on the
// non-blocking descriptor) is reported as (0, nil), matching the
// Transport contract's "no data right now" semantics.
func (t *Transport) Read(buf []byte) (int, error) {
	n, err := unix.Read(t.fd, buf)
	if err != nil {
		if err == unix.EAGAIN {
			return 0, nil
		}
		return 0, errors.Wrap(err, "chardev read")
	}
	return n, nil
}

// Close closes the underlying file descriptor.
func (t *Transport) Close() error {
	return unix.Close(t.fd)
}

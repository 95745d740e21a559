// Package usb implements janouch.name/brotherql/ql.Transport over a USB
// bulk connection to a Brother QL-series printer, using gousb.
package usb

import (
	"context"
	"time"

	"github.com/google/gousb"
	"github.com/pkg/errors"

	"janouch.name/brotherql/ql"
)

// VendorID is Brother's USB vendor ID, shared by every QL-series model.
const VendorID = ql.USBVendorID

const (
	interfaceNumber = 0
	outEndpointAddr = 0x02
	inEndpointAddr  = 0x81
	transferTimeout = 5 * time.Second
)

// Transport is a ql.Transport backed by a claimed USB interface's bulk
// endpoints. The zero value is not usable; construct one with Open.
type Transport struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	done func()
	in   *gousb.InEndpoint
	out  *gousb.OutEndpoint
}

// Open enumerates the first device matching VendorID and productID,
// claims its default interface, and opens the bulk IN/OUT endpoints the
// raster protocol uses.
func Open(productID uint16) (*Transport, error) {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(gousb.ID(VendorID), gousb.ID(productID))
	if err != nil {
		ctx.Close()
		return nil, errors.Wrap(err, "open USB device")
	}
	if dev == nil {
		ctx.Close()
		return nil, errors.Errorf("no USB device with product ID 0x%04x found", productID)
	}

	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return nil, errors.Wrap(err, "set auto detach")
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, errors.Wrap(err, "claim configuration")
	}
	usbif, err := cfg.Interface(interfaceNumber, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, errors.Wrap(err, "claim interface")
	}

	in, err := usbif.InEndpoint(inEndpointAddr)
	if err != nil {
		usbif.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, errors.Wrap(err, "open IN endpoint")
	}
	out, err := usbif.OutEndpoint(outEndpointAddr)
	if err != nil {
		usbif.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return nil, errors.Wrap(err, "open OUT endpoint")
	}

	return &Transport{
		ctx: ctx,
		dev: dev,
		in:  in,
		out: out,
		done: func() {
			usbif.Close()
			cfg.Close()
		},
	}, nil
}

// Write sends data over the OUT endpoint, failing if the full buffer
// wasn't accepted within the transfer timeout.
func (t *Transport) Write(data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	n, err := t.out.WriteContext(ctx, data)
	if err != nil {
		return errors.Wrap(err, "usb write")
	}
	if n != len(data) {
		return ql.ErrIncompleteWrite
	}
	return nil
}

// Read fills buf from the IN endpoint. A transfer timeout with no bytes
// read is reported as (0, nil): the session driver's own retry budget
// governs how long to keep trying, not this call.
func (t *Transport) Read(buf []byte) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), transferTimeout)
	defer cancel()
	n, err := t.in.ReadContext(ctx, buf)
	if err != nil {
		if ctx.Err() != nil {
			return n, nil
		}
		return n, errors.Wrap(err, "usb read")
	}
	return n, nil
}

// Close releases the claimed interface and the underlying device and
// context handles, in reverse acquisition order.
func (t *Transport) Close() error {
	t.done()
	t.dev.Close()
	t.ctx.Close()
	return nil
}

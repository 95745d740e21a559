// Command brother-ql is a thin front-end over the ql package: print
// images to a Brother QL-series printer, or query its status.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"janouch.name/brotherql/imgutil"
	"janouch.name/brotherql/ql"
	"janouch.name/brotherql/transport/chardev"
	"janouch.name/brotherql/transport/usb"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "print":
		runPrint(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s print|status [flags]\n", os.Args[0])
}

// openTransport opens a character device at device if given, otherwise
// probes every catalogued printer model's USB product ID for the first
// one that's actually plugged in.
func openTransport(device string) (ql.Transport, func() error, error) {
	if device != "" {
		t, err := chardev.Open(device)
		if err != nil {
			return nil, nil, err
		}
		return t, t.Close, nil
	}
	for _, m := range ql.AllPrinterModels() {
		t, err := usb.Open(m.ProductID())
		if err == nil {
			return t, t.Close, nil
		}
	}
	return nil, nil, fmt.Errorf("no suitable printer found")
}

func findMedia(name string) (ql.Media, bool) {
	for _, m := range ql.AllMedia() {
		if m.String() == name {
			return m, true
		}
	}
	return ql.Media{}, false
}

func parseCutBehavior(s string) ql.CutBehavior {
	switch {
	case s == "none":
		return ql.CutNone()
	case s == "each":
		return ql.CutEach()
	case s == "end":
		return ql.CutAtEnd()
	case strings.HasPrefix(s, "every:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "every:"))
		if err != nil || n < 1 || n > 255 {
			log.Fatalln("invalid -cut value:", s)
		}
		return ql.CutEvery(byte(n))
	default:
		log.Fatalln("invalid -cut value:", s)
		panic("unreachable")
	}
}

func loadImage(path string, scale int, rotate bool) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, err
	}
	if scale > 1 {
		img = &imgutil.Scale{Image: img, Scale: scale}
	}
	if rotate {
		img = &imgutil.LeftRotate{Image: img}
	}
	return img, nil
}

func runPrint(args []string) {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	device := fs.String("device", "", "character-device path instead of USB")
	mediaName := fs.String("media", "", "media variant name, e.g. C62 or D24")
	copies := fs.Uint("copies", 1, "number of copies of each image")
	highDPI := fs.Bool("high-dpi", false, "600 DPI feed instead of 300")
	compress := fs.Bool("compress", false, "request TIFF compression (not yet implemented)")
	scale := fs.Int("scale", 1, "integer upscaling")
	rotate := fs.Bool("rotate", false, "print sideways")
	cut := fs.String("cut", "", "cut behavior: none, each, every:N, end (default: media-appropriate)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s print [flags] IMAGE...\n", os.Args[0])
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(1)
	}
	if *mediaName == "" {
		log.Fatalln("-media is required")
	}
	media, ok := findMedia(*mediaName)
	if !ok {
		log.Fatalln("unknown media:", *mediaName)
	}

	builder := ql.NewPrintJobBuilder(media).
		Copies(uint8(*copies)).
		HighDPI(*highDPI).
		Compressed(*compress)
	if *cut != "" {
		builder = builder.Cut(parseCutBehavior(*cut))
	}

	var nonEmpty *ql.NonEmptyPrintJobBuilder
	for _, path := range fs.Args() {
		img, err := loadImage(path, *scale, *rotate)
		if err != nil {
			log.Fatalln(err)
		}
		if nonEmpty == nil {
			nonEmpty, err = builder.AddImage(img)
		} else {
			nonEmpty, err = nonEmpty.AddImage(img)
		}
		if err != nil {
			log.Fatalln(err)
		}
	}
	job := nonEmpty.Build()

	transport, closeFn, err := openTransport(*device)
	if err != nil {
		log.Fatalln(err)
	}
	defer closeFn()

	if err := ql.NewSession(transport).Print(job); err != nil {
		log.Fatalln(err)
	}
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	device := fs.String("device", "", "character-device path instead of USB")
	fs.Parse(args)

	transport, closeFn, err := openTransport(*device)
	if err != nil {
		log.Fatalln(err)
	}
	defer closeFn()

	st, err := ql.NewSession(transport).GetStatus()
	if err != nil {
		log.Fatalln(err)
	}
	fmt.Print(st)
}

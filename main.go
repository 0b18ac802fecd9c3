package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/batchcorp/thriftwire/options"
	"github.com/batchcorp/thriftwire/printer"
	"github.com/batchcorp/thriftwire/reader"
)

func main() {
	kongCtx, opts, err := options.New(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Unable to handle CLI input: %s", err)
	}

	switch {
	case opts.Quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case opts.Debug:
		logrus.SetLevel(logrus.DebugLevel)
	}

	p := printer.New()

	switch kongCtx.Command() {
	case "decode", "decode <input>":
		err = decode(opts, p)
	default:
		logrus.Fatalf("Unrecognized command: %s", kongCtx.Command())
	}

	if err != nil {
		p.Error(err.Error())
		os.Exit(1)
	}
}

func decode(opts *options.Options, p *printer.Printer) error {
	message, err := reader.ReadInput(opts.Decode.Input)
	if err != nil {
		return err
	}

	decoded, stats, err := reader.Decode(opts, message)
	if err != nil {
		return err
	}

	if err := p.PrintDecoded(decoded, opts.Decode.Pretty); err != nil {
		return err
	}

	if opts.Decode.Stats {
		p.PrintStats(stats)
	}

	return nil
}

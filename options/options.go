// Package options is a common options interface used by the CLI. Its
// purpose is primarily to store all available options for thriftwire -
// its other responsibilities are to perform "light" validation.
//
// Additional validation should be performed by the utilizers of the
// options package.
package options

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/batchcorp/thriftwire/compact"
)

var (
	VERSION = "UNSET"
)

// Options holds all CLI and env-var driven settings.
type Options struct {
	Debug bool `help:"Enable debug output" short:"d" env:"THRIFTWIRE_DEBUG"`
	Quiet bool `help:"Suppress all output except decoded payloads and errors" short:"q" env:"THRIFTWIRE_QUIET"`

	Decode DecodeOptions `cmd:"" help:"Decode a compact-protocol thrift payload to JSON"`
}

// DecodeOptions configures a single decode run.
type DecodeOptions struct {
	Input string `arg:"" optional:"" help:"Path to the payload file ('-' or empty reads stdin)"`

	ThriftDirs      []string `help:"Directories containing .thrift IDL files (enables named output)" env:"THRIFTWIRE_THRIFT_DIRS"`
	StructName      string   `help:"Fully qualified struct to decode against, ex: 'sh.batch.users.Account'" env:"THRIFTWIRE_STRUCT_NAME"`
	Convert         string   `help:"Convert the payload before decoding" enum:",base64,gzip" default:""`
	Pretty          bool     `help:"Pretty print decoded output"`
	Stats           bool     `help:"Print a decode statistics table"`
	Query           string   `help:"gjson path to extract from the decoded JSON"`
	WithMetadata    bool     `help:"Wrap decoded output in a record envelope (id, received-at)"`
	MaxDepth        int      `help:"Maximum struct/collection nesting depth" default:"64"`
	StandardFieldID bool     `name:"standard-field-id" help:"Decode the 16-bit field ID escape as a zig-zag varint (Apache-canonical) instead of raw big-endian bytes"`
	StrictBool      bool     `help:"Reject collection boolean payload bytes other than 0x00, 0x01, 0x02"`
}

// Compact translates the CLI flags into decoder options.
func (d *DecodeOptions) Compact() *compact.Options {
	return &compact.Options{
		MaxDepth:              d.MaxDepth,
		StandardFieldIDEscape: d.StandardFieldID,
		StrictBool:            d.StrictBool,
	}
}

func New(args []string) (*kong.Context, *Options, error) {
	opts := &Options{}

	maybeDisplayVersion(os.Args)

	k, err := kong.New(
		opts,
		kong.Name("thriftwire"),
		kong.Description("Schema-optional decoder for compact-protocol thrift payloads"),
		kong.ShortUsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create new kong instance")
	}

	kongCtx, err := k.Parse(args)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to parse CLI options")
	}

	if err := validate(opts); err != nil {
		return nil, nil, err
	}

	return kongCtx, opts, nil
}

// validate performs the "light" checks; anything touching the
// filesystem is left to the reader.
func validate(opts *Options) error {
	if opts.Decode.StructName != "" && len(opts.Decode.ThriftDirs) == 0 {
		return errors.New("--thrift-dirs must be set when --struct-name is provided")
	}

	if len(opts.Decode.ThriftDirs) > 0 && opts.Decode.StructName == "" {
		return errors.New("--struct-name must be set when --thrift-dirs is provided")
	}

	if opts.Decode.MaxDepth < 0 {
		return errors.New("--max-depth cannot be negative")
	}

	return nil
}

func maybeDisplayVersion(args []string) {
	for _, f := range args {
		if f == "--version" {
			fmt.Println(VERSION)
			os.Exit(0)
		}
	}
}

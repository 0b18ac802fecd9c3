// Package reader turns CLI options plus an input payload into decoded
// JSON output. It owns input acquisition, pre-decode conversion and the
// optional post-decode transforms (query extraction, metadata envelope).
package reader

import (
	"encoding/base64"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/batchcorp/thriftwire/compact"
	"github.com/batchcorp/thriftwire/options"
	"github.com/batchcorp/thriftwire/serializers"
	"github.com/batchcorp/thriftwire/util"
)

var log = util.NewLogger("reader")

// Record wraps a decoded payload with provenance metadata. Emitted when
// --with-metadata is set.
type Record struct {
	ID                  string              `json:"id"`
	ReceivedAtUnixTsUtc int64               `json:"received_at_unix_ts_utc"`
	Decoded             jsoniter.RawMessage `json:"decoded"`
}

// ReadInput reads the payload from the given path; "" or "-" reads
// stdin.
func ReadInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, errors.Wrap(err, "unable to read payload from stdin")
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read payload file '%s'", path)
	}

	return data, nil
}

// Decode runs the full decode pipeline for one payload: input
// conversion, compact-protocol parse, JSON rendering and the optional
// query/metadata transforms. Stats describe the parse itself and are
// valid whenever the returned error is nil.
func Decode(opts *options.Options, message []byte) ([]byte, *compact.Stats, error) {
	if opts == nil {
		return nil, nil, errors.New("options cannot be nil")
	}

	converted, err := convertInput(opts.Decode.Convert, message)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to complete conversion")
	}

	if len(opts.Decode.ThriftDirs) > 0 {
		if err := util.DirsExist(opts.Decode.ThriftDirs); err != nil {
			return nil, nil, errors.Wrap(err, "unable to validate thrift dirs")
		}
	}

	dec := compact.NewDecoder(converted, opts.Decode.Compact())

	st, err := dec.DecodeStruct()
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to decode thrift message")
	}

	if remaining := dec.Remaining(); remaining > 0 {
		log.Debugf("payload has %d trailing byte(s) after decoded struct", remaining)
	}

	var decoded []byte

	if opts.Decode.StructName != "" {
		decoded, err = serializers.DecodeStructWithIDL(opts.Decode.ThriftDirs, opts.Decode.StructName, st)
	} else {
		decoded, err = serializers.MarshalStruct(st)
	}

	if err != nil {
		return nil, nil, err
	}

	if opts.Decode.Query != "" {
		decoded, err = applyQuery(decoded, opts.Decode.Query)
		if err != nil {
			return nil, nil, err
		}
	}

	if opts.Decode.WithMetadata {
		decoded, err = wrapMetadata(decoded)
		if err != nil {
			return nil, nil, err
		}
	}

	stats := dec.Stats()

	return decoded, &stats, nil
}

func convertInput(convert string, message []byte) ([]byte, error) {
	switch convert {
	case "base64":
		return base64.StdEncoding.DecodeString(string(message))
	case "gzip":
		return util.Gunzip(message)
	}

	return message, nil
}

func applyQuery(decoded []byte, query string) ([]byte, error) {
	result := gjson.GetBytes(decoded, query)
	if !result.Exists() {
		return nil, errors.Errorf("query '%s' did not match anything in the decoded payload", query)
	}

	return []byte(result.Raw), nil
}

func wrapMetadata(decoded []byte) ([]byte, error) {
	record := &Record{
		ID:                  uuid.New().String(),
		ReceivedAtUnixTsUtc: time.Now().UTC().UnixNano(),
		Decoded:             decoded,
	}

	// jsoniter keeps the envelope marshaling consistent with the decoded
	// payload rendering
	js, err := jsoniter.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal record envelope")
	}

	return js, nil
}

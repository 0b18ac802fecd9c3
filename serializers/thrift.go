// Package serializers renders decoded thrift value trees as JSON, either
// schema-less (fields keyed by ID) or with field and enum names resolved
// from .thrift IDL definitions.
package serializers

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/thriftrw/ast"

	"github.com/batchcorp/thriftwire/compact"
	"github.com/batchcorp/thriftwire/types"
)

// DecodeThrift decodes a compact-protocol thrift message to JSON. When
// dirs and structName are empty the output is schema-less; otherwise the
// .thrift IDL files found in dirs are used to resolve field names and
// enum values.
func DecodeThrift(dirs []string, structName string, message []byte, copts *compact.Options) ([]byte, error) {
	if len(dirs) == 0 && structName == "" {
		return DecodeWithoutIDL(message, copts)
	}

	if len(dirs) == 0 {
		return nil, errors.New("--thrift-dirs cannot be empty")
	}
	if structName == "" {
		return nil, errors.New("--struct-name cannot be empty")
	}

	idlFiles, err := readThriftDirs(dirs)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseIDLFiles(idlFiles)
	if err != nil {
		return nil, err
	}

	return DecodeWithParsedIDL(parsed, message, structName, copts)
}

// DecodeWithoutIDL decodes a thrift message to JSON keyed by field ID.
func DecodeWithoutIDL(message []byte, copts *compact.Options) ([]byte, error) {
	st, err := compact.ParseStruct(message, copts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read thrift message")
	}

	return MarshalStruct(st)
}

// MarshalStruct renders an already-decoded value tree as JSON keyed by
// field ID.
func MarshalStruct(st *types.ThriftStruct) ([]byte, error) {
	decoded, err := structToInterface(st)
	if err != nil {
		return nil, errors.Wrap(err, "unable to interpret thrift message")
	}

	// jsoniter is needed to marshal map[interface{}]interface{} types
	js, err := jsoniter.Marshal(decoded)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal thrift message to json")
	}

	return js, nil
}

// DecodeStructWithIDL renders an already-decoded value tree as JSON
// with names resolved from the .thrift IDL files found in dirs.
func DecodeStructWithIDL(dirs []string, structPath string, st *types.ThriftStruct) ([]byte, error) {
	idlFiles, err := readThriftDirs(dirs)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseIDLFiles(idlFiles)
	if err != nil {
		return nil, err
	}

	return MarshalStructWithIDL(parsed, st, structPath)
}

// DecodeWithParsedIDL decodes a thrift message to JSON with names
// resolved from an already-parsed IDL. Prefer this over DecodeThrift
// when decoding many messages against the same IDL.
func DecodeWithParsedIDL(idlFiles map[string]*ParsedIDL, message []byte, structPath string, copts *compact.Options) ([]byte, error) {
	st, err := compact.ParseStruct(message, copts)
	if err != nil {
		return nil, errors.Wrap(err, "unable to read thrift message")
	}

	return MarshalStructWithIDL(idlFiles, st, structPath)
}

// MarshalStructWithIDL renders an already-decoded value tree as JSON
// with field and enum names resolved from a parsed IDL.
func MarshalStructWithIDL(idlFiles map[string]*ParsedIDL, st *types.ThriftStruct, structPath string) ([]byte, error) {
	structName, structNamespace, err := parseStructName(structPath)
	if err != nil {
		return nil, err
	}

	namespaceMsgs, ok := idlFiles[structNamespace]
	if !ok {
		return nil, fmt.Errorf("namespace '%s' not found in thrift IDL", structNamespace)
	}

	result, err := structToMap(namespaceMsgs, structName, st)
	if err != nil {
		return nil, err
	}

	// jsoniter is needed to marshal map[interface{}]interface{} types
	js, err := jsoniter.Marshal(result)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal decoded thrift message to JSON")
	}

	return js, nil
}

// structToMap walks the IDL struct definition and pairs each declared
// field with its decoded value, recursing into referenced structs. Field
// IDs can repeat between structs, so recursion follows the decoded tree.
func structToMap(parsed *ParsedIDL, structName string, st *types.ThriftStruct) (map[string]interface{}, error) {
	jsonMap := make(map[string]interface{})

	curStruct, err := findStruct(parsed, structName)
	if err != nil {
		return nil, err
	}

	for _, field := range curStruct.Fields {
		decoded, ok := st.Get(int16(field.ID))
		if !ok {
			// Optional field absent from the wire
			continue
		}

		if _, isRef := field.Type.(ast.TypeReference); isRef {
			// Enum fields arrive as i32
			if enums, ok := parsed.Enums[field.Type.String()]; ok {
				v, err := objectToInterface(decoded.Object, decoded.Type)
				if err != nil {
					return nil, err
				}

				enumID, ok := v.(int32)
				if !ok {
					return nil, fmt.Errorf("could not type assert ID for enum field '%s' to int32", field.Name)
				}

				jsonMap[field.Name] = enums[enumID]

				continue
			}

			// Typedefs decode like their base type
			if _, ok := parsed.Typedefs[field.Type.String()]; ok {
				v, err := objectToInterface(decoded.Object, decoded.Type)
				if err != nil {
					return nil, err
				}

				jsonMap[field.Name] = v

				continue
			}

			subStruct, ok := decoded.Object.(*types.ThriftStruct)
			if !ok {
				return nil, fmt.Errorf("could not type assert field '%s' to a struct", field.Name)
			}

			v, err := structToMap(parsed, field.Type.String(), subStruct)
			if err != nil {
				return nil, err
			}

			jsonMap[field.Name] = v

			continue
		}

		// Scalar or collection of scalars
		v, err := objectToInterface(decoded.Object, decoded.Type)
		if err != nil {
			return nil, err
		}

		jsonMap[field.Name] = v
	}

	return jsonMap, nil
}

func readThriftDirs(dirs []string) (map[string][]byte, error) {
	idlFiles := make(map[string][]byte)

	for _, dir := range dirs {
		thriftFiles, err := filepath.Glob(filepath.Clean(dir) + "/" + "*.thrift")
		if err != nil {
			return nil, errors.Wrapf(err, "unable to find thrift files in dir '%s'", dir)
		}

		for _, file := range thriftFiles {
			data, err := os.ReadFile(file)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to read file '%s'", file)
			}

			idlFiles[file] = data
		}
	}

	return idlFiles, nil
}

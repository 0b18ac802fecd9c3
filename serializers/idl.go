package serializers

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/thriftrw/ast"
	"go.uber.org/thriftrw/idl"
)

// ParsedIDL holds the AST representations of a namespace's structs plus
// mappings of its enum values and typedef names.
type ParsedIDL struct {
	Namespace string
	Structs   map[string]*ast.Struct
	Enums     map[string]map[int32]string
	Typedefs  map[string]struct{}
}

// ParseIDLFiles receives the contents of .thrift IDL files keyed by file
// name and returns parsed definitions keyed by namespace. Files sharing
// a namespace are merged.
func ParseIDLFiles(idlFiles map[string][]byte) (map[string]*ParsedIDL, error) {
	ret := make(map[string]*ParsedIDL)

	for path, contents := range idlFiles {
		parsed, err := ParseIDL(contents)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse IDL file '%s'", path)
		}

		ns, ok := ret[parsed.Namespace]
		if !ok {
			ret[parsed.Namespace] = parsed
			continue
		}

		for k := range parsed.Typedefs {
			ns.Typedefs[k] = struct{}{}
		}

		for k, v := range parsed.Structs {
			ns.Structs[k] = v
		}

		for k, v := range parsed.Enums {
			ns.Enums[k] = v
		}
	}

	return ret, nil
}

// ParseIDL parses a single IDL definition, collecting struct ASTs, enum
// int->name mappings and typedef names. All other definitions are
// ignored; constants are resolved by generated code on the producer side
// and never appear on the wire.
func ParseIDL(data []byte) (*ParsedIDL, error) {
	parsedIDL := &ParsedIDL{
		Namespace: "default",
		Structs:   make(map[string]*ast.Struct),
		Enums:     make(map[string]map[int32]string),
		Typedefs:  make(map[string]struct{}),
	}

	parsed, err := idl.Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse IDL")
	}

	// A file can declare a namespace per language scope; the first one
	// wins here.
	for _, head := range parsed.Headers {
		ns, ok := head.(*ast.Namespace)
		if !ok {
			continue
		}

		parsedIDL.Namespace = ns.Name
		break
	}

	for _, def := range parsed.Definitions {
		switch v := def.(type) {
		case *ast.Enum:
			values := make(map[int32]string)

			for _, item := range v.Items {
				if item.Value == nil {
					// Valueless enum entries pass the IDL parser; skip
					// them rather than guess at iota semantics.
					continue
				}

				values[int32(*item.Value)] = item.Name
			}

			parsedIDL.Enums[v.Name] = values

		case *ast.Typedef:
			// Only existence matters; typedefs decode like their base
			// type.
			parsedIDL.Typedefs[v.Name] = struct{}{}

		case *ast.Struct:
			parsedIDL.Structs[v.Name] = v
		}
	}

	return parsedIDL, nil
}

// findStruct resolves a struct name, optionally prefixed with the name
// of the .thrift file it was included from.
func findStruct(parsed *ParsedIDL, structName string) (*ast.Struct, error) {
	if strings.Contains(structName, ".") {
		parts := strings.Split(structName, ".")
		if len(parts) != 2 {
			return nil, fmt.Errorf("unable to handle path '%s'", structName)
		}

		msg, ok := parsed.Structs[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unable to find struct '%s' in file '%s'", parts[1], parts[0]+".thrift")
		}

		return msg, nil
	}

	msg, ok := parsed.Structs[structName]
	if !ok {
		return nil, fmt.Errorf("unable to find struct '%s' in namespace '%s'", structName, parsed.Namespace)
	}

	return msg, nil
}

// parseStructName splits "name.space.Struct" into struct name and
// namespace.
func parseStructName(in string) (string, string, error) {
	parts := strings.Split(in, ".")
	if len(parts) < 2 {
		return "", "", fmt.Errorf("'%s' must contain a namespace", in)
	}

	return parts[len(parts)-1], strings.Join(parts[0:len(parts)-1], "."), nil
}

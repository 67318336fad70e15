package travessera

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
)

// ParamType declares the shape of a parameter. Object and Array are
// body-shaped: on body-carrying methods the first such parameter becomes
// the request body.
type ParamType int

const (
	TypeString ParamType = iota
	TypeInt
	TypeFloat
	TypeBool
	TypeObject
	TypeArray
)

func (t ParamType) bodyShaped() bool {
	return t == TypeObject || t == TypeArray
}

// Param declares one endpoint parameter. HasDefault marks the parameter
// optional; Default may itself be nil, in which case an unsupplied query
// argument is simply omitted.
type Param struct {
	Name       string
	Type       ParamType
	Default    any
	HasDefault bool
}

// Required declares a parameter the caller must always supply.
func Required(name string, t ParamType) Param {
	return Param{Name: name, Type: t}
}

// Optional declares a parameter with a default used when the caller omits it.
func Optional(name string, t ParamType, def any) Param {
	return Param{Name: name, Type: t, Default: def, HasDefault: true}
}

// Function declares the callable shape of an endpoint: its registry name,
// ordered parameters and return prototype. Returns nil means the endpoint
// declares no response payload.
type Function struct {
	Name    string
	Params  []Param
	Returns any
}

// Args carries the named arguments of one call.
type Args map[string]any

type paramRole int

const (
	rolePath paramRole = iota
	roleQuery
	roleBody
)

type boundParam struct {
	Param
	role paramRole
}

// signature is the classification result computed once at registration and
// immutable afterwards.
type signature struct {
	function   string
	params     []boundParam
	index      map[string]int
	pathNames  []string
	queryNames []string
	bodyName   string
	returns    any
}

var placeholderPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// pathPlaceholders extracts the {name} placeholders of a path template in
// order of appearance.
func pathPlaceholders(path string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

func bodyMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// classifySignature assigns a role to every declared parameter:
//
//   - parameters matching a path placeholder are path parameters
//   - on POST/PUT/PATCH the first body-shaped parameter not already bound
//     to the path becomes the body; later body-shaped parameters fall back
//     to query
//   - everything else is a query parameter
//
// A placeholder with no matching declared parameter fails classification
// with *ClassificationError listing every missing name.
func classifySignature(fn Function, method, path string) (*signature, error) {
	method = strings.ToUpper(method)

	declared := make(map[string]bool, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name == "" {
			return nil, &ConfigError{Message: fmt.Sprintf("declaration %q has a parameter with no name", fn.Name)}
		}
		if declared[p.Name] {
			return nil, &ConfigError{Message: fmt.Sprintf("declaration %q repeats parameter %q", fn.Name, p.Name)}
		}
		declared[p.Name] = true
	}

	placeholders := pathPlaceholders(path)
	inPath := make(map[string]bool, len(placeholders))
	var missing []string
	for _, name := range placeholders {
		if !declared[name] {
			missing = append(missing, name)
			continue
		}
		inPath[name] = true
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &ClassificationError{Path: path, Missing: missing}
	}

	sig := &signature{
		function: fn.Name,
		params:   make([]boundParam, 0, len(fn.Params)),
		index:    make(map[string]int, len(fn.Params)),
		returns:  fn.Returns,
	}
	allowBody := bodyMethod(method)
	for _, p := range fn.Params {
		role := roleQuery
		switch {
		case inPath[p.Name]:
			role = rolePath
			sig.pathNames = append(sig.pathNames, p.Name)
		case allowBody && p.Type.bodyShaped() && sig.bodyName == "":
			role = roleBody
			sig.bodyName = p.Name
		default:
			sig.queryNames = append(sig.queryNames, p.Name)
		}
		sig.index[p.Name] = len(sig.params)
		sig.params = append(sig.params, boundParam{Param: p, role: role})
	}
	return sig, nil
}

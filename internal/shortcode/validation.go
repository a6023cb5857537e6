package shortcode

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

var (
	// ErrUnknownParameter indicates the invocation supplied an unexpected parameter.
	ErrUnknownParameter = errors.New("shortcode: unknown parameter")
	// ErrMissingParameter indicates a required parameter was not provided.
	ErrMissingParameter = errors.New("shortcode: missing required parameter")
	// ErrParameterType indicates a parameter could not be coerced to the requested type.
	ErrParameterType = errors.New("shortcode: parameter type mismatch")
)

var paramTypes = map[interfaces.ShortcodeParamType]struct{}{
	interfaces.ShortcodeParamString: {},
	interfaces.ShortcodeParamInt:    {},
	interfaces.ShortcodeParamBool:   {},
	interfaces.ShortcodeParamArray:  {},
	interfaces.ShortcodeParamURL:    {},
}

// Validator performs definition and parameter validation.
type Validator struct{}

// NewValidator returns a Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateDefinition ensures the definition carries a name and that every
// schema parameter has a unique name and a known type.
func (v *Validator) ValidateDefinition(def interfaces.ShortcodeDefinition) error {
	if strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDefinition)
	}

	seen := make(map[string]struct{}, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		name := strings.TrimSpace(param.Name)
		if name == "" {
			return fmt.Errorf("%w: schema parameter name required", ErrInvalidDefinition)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate schema parameter %q", ErrInvalidDefinition, name)
		}
		seen[name] = struct{}{}

		if _, ok := paramTypes[param.Type]; !ok {
			return fmt.Errorf("%w: parameter %q unknown type %q", ErrInvalidDefinition, name, param.Type)
		}
	}
	return nil
}

// CoerceParams validates supplied parameters against the definition schema,
// returning a normalised map with defaults applied. Positional parameters
// (param1, param2, ...) are mapped onto schema parameters in declaration order.
func (v *Validator) CoerceParams(def interfaces.ShortcodeDefinition, supplied map[string]any) (map[string]any, error) {
	if err := v.ValidateDefinition(def); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(def.Schema.Params))
	allowed := make(map[string]interfaces.ShortcodeParam, len(def.Schema.Params))
	for _, param := range def.Schema.Params {
		allowed[param.Name] = param
		if def.Schema.Defaults != nil {
			if value, ok := def.Schema.Defaults[param.Name]; ok {
				out[param.Name] = value
			}
		} else if param.Default != nil {
			out[param.Name] = param.Default
		}
	}

	supplied = resolvePositional(def, supplied)

	for key, value := range supplied {
		param, ok := allowed[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParameter, key)
		}
		coerced, err := coerceValue(param.Type, value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %v", ErrParameterType, key, err)
		}
		if param.Validate != nil {
			if err := param.Validate(coerced); err != nil {
				return nil, err
			}
		}
		out[key] = coerced
	}

	for _, param := range def.Schema.Params {
		if param.Required {
			if _, ok := out[param.Name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingParameter, param.Name)
			}
		}
	}

	return out, nil
}

// resolvePositional maps paramN keys emitted by the parser onto schema names,
// so `{{< youtube dQw4w9WgXcQ >}}` binds the bare value to the first parameter.
func resolvePositional(def interfaces.ShortcodeDefinition, supplied map[string]any) map[string]any {
	if len(supplied) == 0 || len(def.Schema.Params) == 0 {
		return supplied
	}

	resolved := make(map[string]any, len(supplied))
	for key, value := range supplied {
		if !strings.HasPrefix(key, "param") {
			resolved[key] = value
			continue
		}
		index, err := strconv.Atoi(strings.TrimPrefix(key, "param"))
		if err != nil || index < 1 || index > len(def.Schema.Params) {
			resolved[key] = value
			continue
		}
		resolved[def.Schema.Params[index-1].Name] = value
	}
	return resolved
}

func coerceValue(paramType interfaces.ShortcodeParamType, value any) (any, error) {
	switch paramType {
	case interfaces.ShortcodeParamString:
		return asString(value), nil
	case interfaces.ShortcodeParamInt:
		return asInt(value)
	case interfaces.ShortcodeParamBool:
		return asBool(value)
	case interfaces.ShortcodeParamArray:
		return asList(value)
	case interfaces.ShortcodeParamURL:
		raw := asString(value)
		if _, err := url.ParseRequestURI(raw); err != nil {
			return nil, err
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", paramType)
	}
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	if stringer, ok := value.(fmt.Stringer); ok {
		return stringer.String()
	}
	return fmt.Sprintf("%v", value)
}

func asInt(value any) (int, error) {
	if s, ok := value.(string); ok {
		return strconv.Atoi(strings.TrimSpace(s))
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return int(rv.Float()), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int", value)
	}
}

func asBool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true, nil
		case "0", "false", "f", "no", "n", "off":
			return false, nil
		}
		return false, fmt.Errorf("cannot convert %q to bool", v)
	default:
		return false, fmt.Errorf("cannot convert %T to bool", value)
	}
}

func asList(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case string:
		parts := strings.Split(v, ",")
		out := make([]any, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("cannot convert %T to array", value)
}

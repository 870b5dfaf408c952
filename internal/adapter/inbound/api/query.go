package api

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"upstreamproxy/internal/domain/failure"

	"github.com/go-viper/mapstructure/v2"
)

const queryTag = "query"

// BindQuery decodes the request's query string into dst, a pointer to a struct whose
// fields carry `query` tags. Pointer and slice fields are optional; every other field
// must be present. An absent query string fails with a QueryMissingError and any
// decoding problem with an InvalidQueryError.
func BindQuery(r *http.Request, dst any) error {
	if r.URL.RawQuery == "" {
		return &failure.QueryMissingError{}
	}
	return decodeQuery(r.URL.RawQuery, dst)
}

// BindOptionalQuery is BindQuery for endpoints whose query string may be omitted.
func BindOptionalQuery(r *http.Request, dst any) error {
	return decodeQuery(r.URL.RawQuery, dst)
}

func decodeQuery(raw string, dst any) error {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return &failure.InvalidQueryError{Query: raw, Reason: err.Error()}
	}

	input := make(map[string]any, len(values))
	for key, vs := range values {
		if len(vs) == 1 {
			input[key] = vs[0]
			continue
		}
		input[key] = vs
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          queryTag,
		WeaklyTypedInput: true,
		Metadata:         &md,
	})
	if err != nil {
		return fmt.Errorf("query decoder: %w", err)
	}

	if err := decoder.Decode(input); err != nil {
		return &failure.InvalidQueryError{Query: raw, Reason: err.Error()}
	}

	if field := missingRequired(dst, md.Unset); field != "" {
		return &failure.InvalidQueryError{Query: raw, Reason: fmt.Sprintf("missing field `%s`", field)}
	}

	return nil
}

// missingRequired returns the first required field of dst that was not set.
func missingRequired(dst any, unset []string) string {
	if len(unset) == 0 {
		return ""
	}

	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}

	isUnset := make(map[string]bool, len(unset))
	for _, name := range unset {
		isUnset[name] = true
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map:
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get(queryTag), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		if isUnset[name] {
			return name
		}
	}

	return ""
}

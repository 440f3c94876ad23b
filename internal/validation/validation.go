// Package validation runs declarative per-route field rules before a handler
// and answers 400 with every failed rule when any of them fails.
package validation

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Location says where a field is read from.
type Location int

const (
	Param Location = iota
	Query
	Body
)

func (l Location) String() string {
	switch l {
	case Param:
		return "params"
	case Query:
		return "query"
	case Body:
		return "body"
	}
	return "unknown"
}

// Check is one rule in a field chain. Tag is a validator tag applied to the
// field's string form, or to its integer value when Integer is set. A value
// that is not an integer fails an Integer check.
type Check struct {
	Tag     string
	Integer bool
	Message string
}

// Field is an ordered chain of checks on one request value.
type Field struct {
	In       Location
	Name     string
	Optional bool // skip the chain when the value is absent
	Trim     bool
	Checks   []Check
}

// FieldError describes one failed check.
type FieldError struct {
	Field    string `json:"field"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

// Response is the 400 payload.
type Response struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

// ValidationFailed is the top-level message of every 400 response.
const ValidationFailed = "Validation failed"

const valuesKey = "validation.values"

var validate = validator.New()

// Rules builds a gin middleware that evaluates fields in order. On failure
// it aborts with 400; otherwise the sanitized values are available to the
// handler through String and Int.
func Rules(fields ...Field) gin.HandlerFunc {
	needsBody := false
	for _, f := range fields {
		if f.In == Body {
			needsBody = true
		}
	}

	return func(c *gin.Context) {
		var body map[string]any
		if needsBody {
			var err error
			if body, err = readBody(c); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, Response{
					Message: ValidationFailed,
					Errors:  []FieldError{{Field: "body", Location: Body.String(), Message: "Request body must be a JSON object"}},
				})
				return
			}
		}

		values := map[string]any{}
		errs := []FieldError{}
		for _, f := range fields {
			raw, present := lookup(c, body, f)
			if !present && f.Optional {
				continue
			}
			v, fieldErrs := f.run(raw)
			if len(fieldErrs) > 0 {
				errs = append(errs, fieldErrs...)
				continue
			}
			values[f.Name] = v
		}

		if len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, Response{Message: ValidationFailed, Errors: errs})
			return
		}
		c.Set(valuesKey, values)
		c.Next()
	}
}

// run evaluates the chain and returns the sanitized value: the trimmed
// string, or the int when an Integer check passed.
func (f Field) run(raw any) (any, []FieldError) {
	str, scalar := stringForm(raw)
	if !scalar {
		errs := make([]FieldError, 0, len(f.Checks))
		for _, chk := range f.Checks {
			errs = append(errs, FieldError{Field: f.Name, Location: f.In.String(), Message: chk.Message, Value: raw})
		}
		return nil, errs
	}
	if f.Trim {
		str = strings.TrimSpace(str)
		if _, ok := raw.(string); ok {
			raw = str
		}
	}

	var out any = str
	var errs []FieldError
	for _, chk := range f.Checks {
		var err error
		if chk.Integer {
			n, convErr := strconv.Atoi(str)
			if convErr != nil {
				err = convErr
			} else {
				err = validate.Var(n, chk.Tag)
				out = n
			}
		} else {
			err = validate.Var(str, chk.Tag)
		}
		if err != nil {
			errs = append(errs, FieldError{Field: f.Name, Location: f.In.String(), Message: chk.Message, Value: raw})
		}
	}
	return out, errs
}

func lookup(c *gin.Context, body map[string]any, f Field) (any, bool) {
	switch f.In {
	case Param:
		for _, p := range c.Params {
			if p.Key == f.Name {
				return p.Value, true
			}
		}
		return nil, false
	case Query:
		v, ok := c.GetQuery(f.Name)
		if !ok {
			return nil, false
		}
		return v, true
	case Body:
		v, ok := body[f.Name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
	return nil, false
}

// readBody decodes the request body as a JSON object. An empty body is an
// empty object.
func readBody(c *gin.Context) (map[string]any, error) {
	if c.Request.Body == nil {
		return map[string]any{}, nil
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(b))
	if len(bytes.TrimSpace(b)) == 0 {
		return map[string]any{}, nil
	}
	m := map[string]any{}
	if err := binding.JSON.BindBody(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// stringForm renders a decoded JSON scalar the way the rules see it.
// Arrays and objects are not scalars.
func stringForm(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	}
	return "", false
}

// Text returns the string form a check sees for a decoded JSON value.
// Arrays, objects and null are not text.
func Text(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	return stringForm(v)
}

// Integer coerces a decoded JSON value the way an Integer check does:
// integral numbers and integer strings are accepted.
func Integer(v any) (int, bool) {
	s, ok := Text(v)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// String returns a sanitized string value set by Rules.
func String(c *gin.Context, name string) string {
	v, _ := value(c, name).(string)
	return v
}

// Int returns a sanitized integer value set by Rules and whether it was present.
func Int(c *gin.Context, name string) (int, bool) {
	v, ok := value(c, name).(int)
	return v, ok
}

func value(c *gin.Context, name string) any {
	m, ok := c.Get(valuesKey)
	if !ok {
		return nil
	}
	values, _ := m.(map[string]any)
	return values[name]
}

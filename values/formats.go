package values

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/voc/xsd"
)

// lexical extracts the lexical form of an RDF literal.
func lexical(v quad.Value) (string, bool) {
	switch v := v.(type) {
	case quad.String:
		return string(v), true
	case quad.TypedString:
		return string(v.Value), true
	case quad.LangString:
		return string(v.Value), true
	case quad.IRI:
		return string(v), true
	default:
		return "", false
	}
}

func typed(lex, datatype string) quad.TypedString {
	return quad.TypedString{Value: quad.String(lex), Type: quad.IRI(datatype)}
}

// StringFormat handles plain xsd:string literals.
type StringFormat struct{}

func (StringFormat) Datatype() string { return xsd.String }

func (StringFormat) CheckValue(v interface{}) error {
	if _, ok := v.(string); !ok {
		return ErrFormat{Value: v, Want: "string"}
	}
	return nil
}

func (f StringFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	return quad.String(v.(string)), nil
}

func (StringFormat) FromLiteral(v quad.Value) (interface{}, error) {
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: "string literal"}
	}
	return lex, nil
}

// BooleanFormat handles xsd:boolean literals.
type BooleanFormat struct{}

func (BooleanFormat) Datatype() string { return xsd.Boolean }

func (BooleanFormat) CheckValue(v interface{}) error {
	if _, ok := v.(bool); !ok {
		return ErrFormat{Value: v, Want: "bool"}
	}
	return nil
}

func (f BooleanFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	return typed(strconv.FormatBool(v.(bool)), xsd.Boolean), nil
}

func (BooleanFormat) FromLiteral(v quad.Value) (interface{}, error) {
	if b, ok := v.(quad.Bool); ok {
		return bool(b), nil
	}
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: "boolean literal"}
	}
	switch lex {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return nil, ErrFormat{Value: lex, Want: "xsd:boolean lexical form"}
}

// dateFormat handles the xsd date/dateTime/time family. The native value is
// a time.Time.
type dateFormat struct {
	datatype string
	layout   string
}

func (f dateFormat) Datatype() string { return f.datatype }

func (f dateFormat) CheckValue(v interface{}) error {
	switch v.(type) {
	case time.Time:
		return nil
	}
	return ErrFormat{Value: v, Want: "time.Time"}
}

func (f dateFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	return typed(v.(time.Time).Format(f.layout), f.datatype), nil
}

func (f dateFormat) FromLiteral(v quad.Value) (interface{}, error) {
	if t, ok := v.(quad.Time); ok {
		return time.Time(t), nil
	}
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: f.datatype}
	}
	t, err := time.Parse(f.layout, lex)
	if err != nil {
		return nil, ErrFormat{Value: lex, Want: f.datatype}
	}
	return t, nil
}

// intFormat handles the xsd integer family with optional inclusive sign
// bounds. The native value is an int64.
type intFormat struct {
	datatype string
	min, max *int64
}

func (f intFormat) Datatype() string { return f.datatype }

func asInt64(v interface{}) (int64, bool) {
	switch v := v.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func (f intFormat) CheckValue(v interface{}) error {
	i, ok := asInt64(v)
	if !ok {
		return ErrFormat{Value: v, Want: "integer"}
	}
	if f.min != nil && i < *f.min {
		return ErrFormat{Value: v, Want: fmt.Sprintf("integer >= %d", *f.min)}
	}
	if f.max != nil && i > *f.max {
		return ErrFormat{Value: v, Want: fmt.Sprintf("integer <= %d", *f.max)}
	}
	return nil
}

func (f intFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	i, _ := asInt64(v)
	return typed(strconv.FormatInt(i, 10), f.datatype), nil
}

func (f intFormat) FromLiteral(v quad.Value) (interface{}, error) {
	if i, ok := v.(quad.Int); ok {
		return int64(i), nil
	}
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: f.datatype}
	}
	i, err := strconv.ParseInt(lex, 10, 64)
	if err != nil {
		return nil, ErrFormat{Value: lex, Want: f.datatype}
	}
	if err := f.CheckValue(i); err != nil {
		return nil, err
	}
	return i, nil
}

// floatFormat handles xsd:decimal, xsd:double and xsd:float. The native
// value is a float64.
type floatFormat struct {
	datatype string
}

func (f floatFormat) Datatype() string { return f.datatype }

func (f floatFormat) CheckValue(v interface{}) error {
	switch v.(type) {
	case float32, float64:
		return nil
	}
	if _, ok := asInt64(v); ok {
		return nil
	}
	return ErrFormat{Value: v, Want: "float"}
}

func (f floatFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	var fv float64
	switch v := v.(type) {
	case float32:
		fv = float64(v)
	case float64:
		fv = v
	default:
		i, _ := asInt64(v)
		fv = float64(i)
	}
	return typed(strconv.FormatFloat(fv, 'g', -1, 64), f.datatype), nil
}

func (f floatFormat) FromLiteral(v quad.Value) (interface{}, error) {
	if fv, ok := v.(quad.Float); ok {
		return float64(fv), nil
	}
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: f.datatype}
	}
	fv, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return nil, ErrFormat{Value: lex, Want: f.datatype}
	}
	return fv, nil
}

// HexBinaryFormat handles xsd:hexBinary. The native value is the hex string
// itself, not raw bytes.
type HexBinaryFormat struct{}

func (HexBinaryFormat) Datatype() string { return xsd.HexBinary }

func (HexBinaryFormat) CheckValue(v interface{}) error {
	s, ok := v.(string)
	if !ok {
		return ErrFormat{Value: v, Want: "hex string"}
	}
	if _, err := hex.DecodeString(s); err != nil {
		return ErrFormat{Value: v, Want: "hex string"}
	}
	return nil
}

func (f HexBinaryFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	return typed(v.(string), xsd.HexBinary), nil
}

func (f HexBinaryFormat) FromLiteral(v quad.Value) (interface{}, error) {
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: xsd.HexBinary}
	}
	if err := f.CheckValue(lex); err != nil {
		return nil, err
	}
	return lex, nil
}

// EmailFormat validates email address syntax. With Mailto set the literal
// form is a mailto: IRI (as used by foaf:mbox); otherwise it is a plain
// string literal (as used by schema:email).
type EmailFormat struct {
	Mailto bool
}

func (EmailFormat) Datatype() string { return "" }

func (EmailFormat) CheckValue(v interface{}) error {
	s, ok := v.(string)
	if !ok || !govalidator.IsEmail(s) {
		return ErrFormat{Value: v, Want: "email address"}
	}
	return nil
}

func (f EmailFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	if f.Mailto {
		return quad.IRI("mailto:" + v.(string)), nil
	}
	return quad.String(v.(string)), nil
}

func (f EmailFormat) FromLiteral(v quad.Value) (interface{}, error) {
	lex, ok := lexical(v)
	if !ok {
		return nil, ErrFormat{Value: v, Want: "email address"}
	}
	lex = strings.TrimPrefix(lex, "mailto:")
	if err := f.CheckValue(lex); err != nil {
		return nil, err
	}
	return lex, nil
}

// IRIFormat handles IRI-valued (object property) attributes. The native
// value is the IRI string.
type IRIFormat struct{}

func (IRIFormat) Datatype() string { return xsd.AnyURI }

func (IRIFormat) CheckValue(v interface{}) error {
	var s string
	switch v := v.(type) {
	case string:
		s = v
	case quad.IRI:
		s = string(v)
	default:
		return ErrFormat{Value: v, Want: "IRI"}
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Opaque == "" && u.Host == "" && u.Path == "") {
		return ErrFormat{Value: v, Want: "absolute IRI with scheme and path"}
	}
	return nil
}

func (f IRIFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case quad.IRI:
		return v, nil
	default:
		return quad.IRI(v.(string)), nil
	}
}

func (IRIFormat) FromLiteral(v quad.Value) (interface{}, error) {
	iri, ok := v.(quad.IRI)
	if !ok {
		return nil, ErrFormat{Value: v, Want: "IRI"}
	}
	return string(iri), nil
}

// AnyFormat accepts any scalar native value.
type AnyFormat struct{}

func (AnyFormat) Datatype() string { return "" }

func (AnyFormat) CheckValue(v interface{}) error {
	switch v.(type) {
	case string, bool, float32, float64, time.Time, quad.IRI:
		return nil
	}
	if _, ok := asInt64(v); ok {
		return nil
	}
	return ErrFormat{Value: v, Want: "scalar value"}
}

func (f AnyFormat) ToLiteral(v interface{}) (quad.Value, error) {
	if err := f.CheckValue(v); err != nil {
		return nil, err
	}
	switch v := v.(type) {
	case string:
		return quad.String(v), nil
	case bool:
		return typed(strconv.FormatBool(v), xsd.Boolean), nil
	case float32:
		return typed(strconv.FormatFloat(float64(v), 'g', -1, 64), xsd.Double), nil
	case float64:
		return typed(strconv.FormatFloat(v, 'g', -1, 64), xsd.Double), nil
	case time.Time:
		return typed(v.Format(time.RFC3339), xsd.DateTime), nil
	case quad.IRI:
		return v, nil
	default:
		i, _ := asInt64(v)
		return typed(strconv.FormatInt(i, 10), xsd.Integer), nil
	}
}

func (AnyFormat) FromLiteral(v quad.Value) (interface{}, error) {
	switch v := v.(type) {
	case quad.String:
		return string(v), nil
	case quad.LangString:
		return string(v.Value), nil
	case quad.IRI:
		return v, nil
	case quad.Int:
		return int64(v), nil
	case quad.Float:
		return float64(v), nil
	case quad.Bool:
		return bool(v), nil
	case quad.Time:
		return time.Time(v), nil
	case quad.TypedString:
		switch string(v.Type) {
		case xsd.Boolean:
			return BooleanFormat{}.FromLiteral(v)
		case xsd.Integer, xsd.Int, xsd.Long:
			return intFormat{datatype: string(v.Type)}.FromLiteral(v)
		case xsd.Double, xsd.Float, xsd.Decimal:
			return floatFormat{datatype: string(v.Type)}.FromLiteral(v)
		case xsd.DateTime:
			return dateFormat{datatype: xsd.DateTime, layout: time.RFC3339}.FromLiteral(v)
		}
		return string(v.Value), nil
	}
	return nil, ErrFormat{Value: v, Want: "literal"}
}

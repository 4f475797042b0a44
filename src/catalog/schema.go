package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidRecord is matched by every error returned from CoerceSong.
var ErrInvalidRecord = errors.New("invalid song record")

// FieldError describes a rejected field. Field is a dotted path such as "sheets[2].levelValue".
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// RecordError collects every field rejected while coercing one record.
type RecordError struct {
	Fields []*FieldError
}

func (e *RecordError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRecord, strings.Join(parts, "; "))
}

func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report external field names so errors point at the source document.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CoerceSong turns one raw source record into a Song.
//
// Every field of the record is looked up by its external name. Absent fields take their
// default and null is only accepted for optional fields. Numbers and booleans may also be given
// as strings ("150", "12.5", "yes"); any other type mismatch is rejected. releaseDate must be a YYYY-MM-DD string and defaults to today when absent.
// Enum fields are then checked with the struct validation rules declared on Song and Sheet.
func CoerceSong(raw json.RawMessage, today Date) (Song, error) {
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil || m == nil {
		return Song{}, &RecordError{Fields: []*FieldError{{Reason: "record is not a JSON object"}}}
	}
	return coerceSong(m, today)
}

func coerceSong(m map[string]any, today Date) (Song, error) {
	var errs []*FieldError
	o := object{m: m, errs: &errs}

	song := Song{
		SongID:      o.str("songId", ""),
		Category:    o.str("category", ""),
		Title:       o.str("title", ""),
		Artist:      o.str("artist", ""),
		BPM:         o.integer("bpm", 0),
		ImageName:   o.str("imageName", ""),
		Version:     o.str("version", ""),
		ReleaseDate: o.date("releaseDate", today),
		IsNew:       o.boolean("isNew", false),
		IsLocked:    o.boolean("isLocked", false),
		Comment:     o.optStr("comment"),
		Sheets:      []Sheet{},
	}
	for i, v := range o.list("sheets") {
		if sheet, ok := o.element("sheets", i, v); ok {
			song.Sheets = append(song.Sheets, coerceSheet(sheet))
		}
	}

	if len(errs) > 0 {
		return Song{}, &RecordError{Fields: errs}
	}
	if err := validate.Struct(song); err != nil {
		return Song{}, validationError(err)
	}
	return song, nil
}

func coerceSheet(o object) Sheet {
	counts, _ := o.child("noteCounts")
	regions, _ := o.child("regions")
	return Sheet{
		Type:               SheetType(o.str("type", string(SheetTypeDX))),
		Difficulty:         Difficulty(o.str("difficulty", string(DifficultyBasic))),
		Level:              o.str("level", "1"),
		LevelValue:         o.float("levelValue", 1.0),
		InternalLevel:      o.optStr("internalLevel"),
		InternalLevelValue: o.float("internalLevelValue", 1.0),
		NoteDesigner:       o.str("noteDesigner", "-"),
		NoteCounts: NoteCounts{
			Tap:   counts.optInt("tap"),
			Hold:  counts.optInt("hold"),
			Slide: counts.optInt("slide"),
			Touch: counts.optInt("touch"),
			Break: counts.optInt("break"),
			Total: counts.optInt("total"),
		},
		Regions: Regions{
			JP:   regions.boolean("jp", false),
			Intl: regions.boolean("intl", false),
			CN:   regions.boolean("cn", false),
		},
		RegionOverrides: o.overrides("regionOverrides"),
		IsSpecial:       o.boolean("isSpecial", false),
		Version:         o.str("version", ""),
	}
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RecordError{Fields: []*FieldError{{Reason: err.Error()}}}
	}
	fields := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		reason := fmt.Sprintf("failed %q rule", fe.Tag())
		if fe.Tag() == "oneof" {
			reason = fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
		}
		fields = append(fields, &FieldError{Field: path, Reason: reason})
	}
	return &RecordError{Fields: fields}
}

// object is one JSON object of a raw record together with its path inside the record.
type object struct {
	path string
	m    map[string]any
	errs *[]*FieldError
}

func (o object) at(key string) string {
	if o.path == "" {
		return key
	}
	return o.path + "." + key
}

func (o object) fail(key, reason string) {
	*o.errs = append(*o.errs, &FieldError{Field: o.at(key), Reason: reason})
}

func (o object) str(key, def string) string {
	v, ok := o.m[key]
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr {
		o.fail(key, "expected a string")
		return def
	}
	return s
}

func (o object) optStr(key string) *string {
	v, ok := o.m[key]
	if !ok || v == nil {
		return nil
	}
	s, isStr := v.(string)
	if !isStr {
		o.fail(key, "expected a string or null")
		return nil
	}
	return &s
}

func (o object) integer(key string, def int) int {
	v, ok := o.m[key]
	if !ok {
		return def
	}
	n, isInt := toInt(v)
	if !isInt {
		o.fail(key, "expected an integer")
		return def
	}
	return n
}

func (o object) optInt(key string) *int {
	v, ok := o.m[key]
	if !ok || v == nil {
		return nil
	}
	n, isInt := toInt(v)
	if !isInt {
		o.fail(key, "expected an integer or null")
		return nil
	}
	return &n
}

// toInt accepts integral numbers and strings holding a base 10 integer.
func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.Abs(x) > math.MaxInt32 {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// toFloat accepts numbers and strings holding a decimal number.
func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

var boolWords = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

// toBool accepts booleans, the numbers 0 and 1 and the usual yes/no spellings.
func toBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case float64:
		if x == 0 || x == 1 {
			return x == 1, true
		}
	case string:
		b, ok := boolWords[strings.ToLower(strings.TrimSpace(x))]
		return b, ok
	}
	return false, false
}

func (o object) float(key string, def float64) float64 {
	v, ok := o.m[key]
	if !ok {
		return def
	}
	f, isNum := toFloat(v)
	if !isNum {
		o.fail(key, "expected a number")
		return def
	}
	return f
}

func (o object) boolean(key string, def bool) bool {
	v, ok := o.m[key]
	if !ok {
		return def
	}
	b, isBool := toBool(v)
	if !isBool {
		o.fail(key, "expected a boolean")
		return def
	}
	return b
}

func (o object) date(key string, def Date) Date {
	v, ok := o.m[key]
	if !ok {
		return def
	}
	s, isStr := v.(string)
	if !isStr {
		o.fail(key, "expected a "+DateLayout+" string")
		return def
	}
	d, err := ParseReleaseDate(s)
	if err != nil {
		o.fail(key, err.Error())
		return def
	}
	return d
}

// child returns the nested object under key. An absent key yields an empty object so every
// lookup on it falls back to defaults.
func (o object) child(key string) (object, bool) {
	nested := object{path: o.at(key), errs: o.errs}
	v, ok := o.m[key]
	if !ok {
		return nested, true
	}
	m, isObj := v.(map[string]any)
	if !isObj {
		o.fail(key, "expected an object")
		return nested, false
	}
	nested.m = m
	return nested, true
}

func (o object) list(key string) []any {
	v, ok := o.m[key]
	if !ok {
		return nil
	}
	items, isList := v.([]any)
	if !isList {
		o.fail(key, "expected an array")
		return nil
	}
	return items
}

func (o object) element(key string, i int, v any) (object, bool) {
	path := fmt.Sprintf("%s[%d]", o.at(key), i)
	m, isObj := v.(map[string]any)
	if !isObj {
		*o.errs = append(*o.errs, &FieldError{Field: path, Reason: "expected an object"})
		return object{}, false
	}
	return object{path: path, m: m, errs: o.errs}, true
}

const overrideRegion = "intl"

func (o object) overrides(key string) RegionOverrides {
	out := RegionOverrides{}
	bag, ok := o.child(key)
	if !ok {
		return out
	}
	for _, region := range slices.Sorted(maps.Keys(bag.m)) {
		values, isObj := bag.m[region].(map[string]any)
		if !isObj {
			// Only intl carries overrides; anything else under other keys is dropped.
			if region == overrideRegion {
				bag.fail(region, "expected an object")
			}
			continue
		}
		out[region] = values
	}
	return out
}

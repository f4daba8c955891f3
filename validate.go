package skema

import (
	"math"
	"regexp"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/reoring/skema/format"
	"github.com/reoring/skema/i18n"
	"github.com/reoring/skema/internal/pathstack"
	"github.com/reoring/skema/schema"
)

// Validator checks values against schema trees. It holds only immutable
// configuration and a concurrency-safe pattern cache, so one Validator can
// serve any number of goroutines.
type Validator struct {
	stride   int
	patterns sync.Map // pattern source -> *regexp.Regexp
}

// New returns a Validator for cfg.
func New(cfg Config) *Validator {
	stride := cfg.Stride
	if stride < 1 {
		stride = DefaultStride
	}
	return &Validator{stride: stride}
}

// Stride reports the sampling stride in effect.
func (v *Validator) Stride() int { return v.stride }

var defaultValidator = New(Config{})

// Validate checks value against node with the default stride.
func Validate(value any, node *schema.Node, opts Options) bool {
	return defaultValidator.Validate(value, node, opts)
}

// Check is Validate returning the violation as an error.
func Check(value any, node *schema.Node, fullScan bool) error {
	return defaultValidator.Check(value, node, fullScan)
}

// Validate reports whether value conforms to node. It stops at the first
// violation and, when opts.OnError is set, reports that violation once.
func (v *Validator) Validate(value any, node *schema.Node, opts Options) bool {
	r := run{v: v, full: opts.FullScan, path: pathstack.Get()}
	defer pathstack.Put(r.path)
	if opts.OnError != nil {
		r.sink = func(_ string, msg string) { opts.OnError(r.path.String(), msg) }
	}
	return r.check(value, node)
}

// Check validates value and returns a *ValidationError describing the first
// violation, or nil.
func (v *Validator) Check(value any, node *schema.Node, fullScan bool) error {
	var verr *ValidationError
	r := run{v: v, full: fullScan, path: pathstack.Get()}
	defer pathstack.Put(r.path)
	r.sink = func(code, msg string) {
		verr = &ValidationError{Path: r.path.String(), Pointer: r.path.Pointer(), Code: code, Message: msg}
	}
	if r.check(value, node) {
		return nil
	}
	return verr
}

// run is the state of one validation call.
type run struct {
	v    *Validator
	full bool
	path *pathstack.Stack
	sink func(code, msg string)
}

// fail reports a violation at the current path and returns false. kv holds
// message placeholder pairs; the message is only rendered when someone
// listens.
func (r *run) fail(code, msgID string, kv ...string) bool {
	if r.sink == nil {
		return false
	}
	var data map[string]string
	if len(kv) > 1 {
		data = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			data[kv[i]] = kv[i+1]
		}
	}
	r.sink(code, i18n.T(msgID, data))
	return false
}

func (r *run) check(value any, n *schema.Node) bool {
	if n == nil {
		return true
	}

	// Union members are tried as independent, silent, sampled validations.
	if len(n.AnyOf) > 0 {
		for _, m := range n.AnyOf {
			if r.v.Validate(value, m, Options{}) {
				return true
			}
		}
		return r.fail(CodeUnionMismatch, i18n.MsgUnionMismatch)
	}

	value, kind := classify(value)
	if kind == kindNull {
		if n.Type == nil || n.Type.Nullable {
			return true
		}
		return r.fail(CodeMissingValue, i18n.MsgExpectedValue)
	}

	if n.Type != nil && !typeMatches(n.Type.Base, value, kind) {
		return r.fail(CodeInvalidType, i18n.MsgExpectedType, "expected", n.Type.Base)
	}

	if len(n.Enum) > 0 && !enumContains(n.Enum, value, kind) {
		return r.fail(CodeInvalidEnum, i18n.MsgEnumMismatch)
	}

	if kind == kindNumber {
		f, _ := schema.ToFloat(value)
		if n.Minimum != nil && f < *n.Minimum {
			return r.fail(CodeOutOfRange, i18n.MsgTooSmall)
		}
		if n.Maximum != nil && f > *n.Maximum {
			return r.fail(CodeOutOfRange, i18n.MsgTooBig)
		}
		if n.MultipleOf != nil && math.Mod(f, *n.MultipleOf) != 0 {
			return r.fail(CodeOutOfRange, i18n.MsgNotMultiple, "step", strconv.FormatFloat(*n.MultipleOf, 'g', -1, 64))
		}
	}

	if kind == kindString && !r.checkString(asString(value), n) {
		return false
	}

	switch {
	case n.Type.Is(schema.TypeObject):
		return r.checkObject(viewObject(value), n)
	case n.Type.Is(schema.TypeArray):
		return r.checkArray(viewArray(value), n)
	}
	return true
}

func typeMatches(base string, value any, kind valueKind) bool {
	switch base {
	case schema.TypeString:
		return kind == kindString
	case schema.TypeNumber:
		return kind == kindNumber
	case schema.TypeInteger:
		if kind != kindNumber {
			return false
		}
		f, _ := schema.ToFloat(value)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case schema.TypeBoolean:
		return kind == kindBool
	case schema.TypeObject:
		return kind == kindObject
	case schema.TypeArray:
		return kind == kindArray
	}
	return false
}

// enumContains uses strict equality: numbers compare by value, strings by
// content, and nothing matches across kinds.
func enumContains(members []any, value any, kind valueKind) bool {
	switch kind {
	case kindNumber:
		f, _ := schema.ToFloat(value)
		for _, m := range members {
			if mf, ok := schema.ToFloat(m); ok && mf == f {
				return true
			}
		}
	case kindString:
		s := asString(value)
		for _, m := range members {
			if ms, ok := m.(string); ok && ms == s {
				return true
			}
		}
	case kindBool:
		b := asBool(value)
		for _, m := range members {
			if mb, ok := m.(bool); ok && mb == b {
				return true
			}
		}
	}
	return false
}

func (r *run) checkString(s string, n *schema.Node) bool {
	if n.MinLength != nil || n.MaxLength != nil {
		l := utf8.RuneCountInString(s)
		if n.MinLength != nil && l < *n.MinLength {
			return r.fail(CodeInvalidLength, i18n.MsgStringTooShort)
		}
		if n.MaxLength != nil && l > *n.MaxLength {
			return r.fail(CodeInvalidLength, i18n.MsgStringTooLong)
		}
	}
	if n.Pattern != "" && !r.v.pattern(n.Pattern).MatchString(s) {
		return r.fail(CodePattern, i18n.MsgPatternMismatch)
	}
	if n.Format != "" && !format.Check(n.Format, s) {
		return r.fail(CodeInvalidFormat, i18n.MsgInvalidFormat, "format", n.Format)
	}
	return true
}

var matchAll = regexp.MustCompile(".*")

// pattern compiles src once per Validator. Sources that are not valid RE2
// syntax degrade to always-match, like any other malformed constraint.
func (v *Validator) pattern(src string) *regexp.Regexp {
	if re, ok := v.patterns.Load(src); ok {
		return re.(*regexp.Regexp)
	}
	re, err := regexp.Compile(src)
	if err != nil {
		re = matchAll
	}
	actual, _ := v.patterns.LoadOrStore(src, re)
	return actual.(*regexp.Regexp)
}

package stack

import (
	"math"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/wippyai/lua-runtime/errors"
)

// AnyKind discriminates the shapes an AnyValue can hold.
type AnyKind int

const (
	AnyNil AnyKind = iota
	AnyBool
	AnyNumber
	AnyString
	AnySequence // table with exactly the keys 1..n
	AnyPairs    // any other table shape
	AnyOther    // function, userdata, thread, channel; Raw holds the value
)

func (k AnyKind) String() string {
	switch k {
	case AnyNil:
		return "nil"
	case AnyBool:
		return "bool"
	case AnyNumber:
		return "number"
	case AnyString:
		return "string"
	case AnySequence:
		return "sequence"
	case AnyPairs:
		return "pairs"
	case AnyOther:
		return "other"
	}
	return "unknown"
}

// AnyPair is one key/value entry of a generic table.
type AnyPair struct {
	Key   AnyValue
	Value AnyValue
}

// AnyValue is the bridge's dynamic value: every interpreter value decodes
// into exactly one of its kinds, so reading an AnyValue never fails. Tables
// whose keys are exactly 1..n decode as sequences, every other table as a
// pair list in iteration order, and values the bridge has no host shape for
// land in AnyOther with the raw value preserved.
//
// Pushing reverses each kind, so scalar, string, sequence and pairs values
// survive a push/read round trip structurally intact.
type AnyValue struct {
	Kind   AnyKind
	Bool   bool
	Number float64
	Str    string
	Seq    []AnyValue
	Pairs  []AnyPair
	Raw    lua.LValue
}

// String renders v for display: scalars bare, tables in constructor syntax
// with nested strings quoted. The output is for humans, not for parsing.
func (v AnyValue) String() string {
	switch v.Kind {
	case AnyNil:
		return "nil"
	case AnyBool:
		return strconv.FormatBool(v.Bool)
	case AnyNumber:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case AnyString:
		return v.Str
	case AnySequence:
		parts := make([]string, len(v.Seq))
		for i, e := range v.Seq {
			parts[i] = e.repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case AnyPairs:
		parts := make([]string, len(v.Pairs))
		for i, p := range v.Pairs {
			key := "[" + p.Key.repr() + "]"
			if p.Key.Kind == AnyString && isIdentifier(p.Key.Str) {
				key = p.Key.Str
			}
			parts[i] = key + " = " + p.Value.repr()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		if v.Raw == nil {
			return "nil"
		}
		return v.Raw.String()
	}
}

// repr is String with strings quoted, for values nested inside a table.
func (v AnyValue) repr() string {
	if v.Kind == AnyString {
		return strconv.Quote(v.Str)
	}
	return v.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// decodeAny is total by construction. It recurses into table values, so a
// cyclic table will not terminate; the bridge treats cycles as host misuse.
func decodeAny(s State, lv lua.LValue) AnyValue {
	switch x := lv.(type) {
	case *lua.LNilType:
		return AnyValue{Kind: AnyNil}
	case lua.LBool:
		return AnyValue{Kind: AnyBool, Bool: bool(x)}
	case lua.LNumber:
		return AnyValue{Kind: AnyNumber, Number: float64(x)}
	case lua.LString:
		return AnyValue{Kind: AnyString, Str: string(x)}
	case *lua.LTable:
		return decodeAnyTable(s, x)
	default:
		return AnyValue{Kind: AnyOther, Raw: lv}
	}
}

func decodeAnyTable(s State, tb *lua.LTable) AnyValue {
	var pairs []AnyPair
	sequential := true
	maxIndex := int64(0)
	count := int64(0)

	key := lua.LValue(lua.LNil)
	for {
		k, v := tb.Next(key)
		if k == lua.LNil {
			break
		}
		count++
		// Keys at or above 1<<63 do not convert portably and cannot be
		// part of a 1..n run; they demote the table to pairs.
		if n, ok := k.(lua.LNumber); ok && float64(n) == math.Trunc(float64(n)) && n >= 1 && n < 1<<63 {
			if idx := int64(n); idx > maxIndex {
				maxIndex = idx
			}
		} else {
			sequential = false
		}
		pairs = append(pairs, AnyPair{Key: decodeAny(s, k), Value: decodeAny(s, v)})
		key = k
	}

	// Keys form exactly 1..n only when the largest index equals the entry
	// count; every integral key is distinct by table semantics. maxIndex
	// equals count here, so it fits an int.
	if sequential && count == maxIndex {
		seq := make([]AnyValue, int(maxIndex))
		for _, p := range pairs {
			seq[int(p.Key.Number)-1] = p.Value
		}
		return AnyValue{Kind: AnySequence, Seq: seq}
	}
	return AnyValue{Kind: AnyPairs, Pairs: pairs}
}

// anyLValue builds the interpreter value for v without using the stack.
func anyLValue(s State, v AnyValue) (lua.LValue, error) {
	switch v.Kind {
	case AnyNil:
		return lua.LNil, nil
	case AnyBool:
		return lua.LBool(v.Bool), nil
	case AnyNumber:
		return lua.LNumber(v.Number), nil
	case AnyString:
		return lua.LString(v.Str), nil
	case AnySequence:
		tb := s.RawState().CreateTable(len(v.Seq), 0)
		for i, e := range v.Seq {
			lv, err := anyLValue(s, e)
			if err != nil {
				return nil, err
			}
			tb.RawSetInt(i+1, lv)
		}
		return tb, nil
	case AnyPairs:
		tb := s.RawState().CreateTable(0, len(v.Pairs))
		for _, p := range v.Pairs {
			k, err := anyLValue(s, p.Key)
			if err != nil {
				return nil, err
			}
			if k == lua.LNil {
				return nil, errors.New(errors.PhasePush, errors.KindUnsupported).
					Detail("table key must not be nil").Build()
			}
			val, err := anyLValue(s, p.Value)
			if err != nil {
				return nil, err
			}
			tb.RawSet(k, val)
		}
		return tb, nil
	case AnyOther:
		if v.Raw == nil {
			return lua.LNil, nil
		}
		return v.Raw, nil
	}
	return nil, errors.New(errors.PhasePush, errors.KindUnsupported).
		Detail("unknown dynamic value kind %d", int(v.Kind)).Build()
}

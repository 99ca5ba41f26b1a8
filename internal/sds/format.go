package sds

import (
	"fmt"
)

// CatPrintf formats with fmt's full verb set and appends the result.
// Go's fmt.Sprintf already grows without bound, so the stack-buffer/
// retry-on-truncation dance the C original needs is not applicable here
// (SPEC_FULL.md §4.2) — the observable contract (format, then append) is
// unchanged.
func (s String) CatPrintf(format string, args ...any) String {
	return s.AppendCStr(fmt.Sprintf(format, args...))
}

// CatFmt is the restricted formatter from spec.md §4.2: only %s (string),
// %S (sds.String), %i (int), %I (int64), %u (uint), %U (uint64) and %%
// are recognized; there is no padding or precision support. Mismatched
// argument types return an error.
func (s String) CatFmt(format string, args ...any) (String, error) {
	argi := 0
	next := func() (any, error) {
		if argi >= len(args) {
			return nil, fmt.Errorf("sds: CatFmt: not enough arguments for format %q", format)
		}
		a := args[argi]
		argi++
		return a, nil
	}

	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' || i+1 >= len(format) {
			s = s.AppendBytes([]byte{c})
			i++
			continue
		}
		verb := format[i+1]
		i += 2
		switch verb {
		case '%':
			s = s.AppendBytes([]byte{'%'})
		case 's':
			a, err := next()
			if err != nil {
				return s, err
			}
			str, ok := a.(string)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%s expects string, got %T", a)
			}
			s = s.AppendCStr(str)
		case 'S':
			a, err := next()
			if err != nil {
				return s, err
			}
			sv, ok := a.(String)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%S expects sds.String, got %T", a)
			}
			s = s.AppendSds(sv)
		case 'i':
			a, err := next()
			if err != nil {
				return s, err
			}
			v, ok := a.(int)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%i expects int, got %T", a)
			}
			s = s.AppendBytes(formatSignedInt(int64(v)))
		case 'I':
			a, err := next()
			if err != nil {
				return s, err
			}
			v, ok := a.(int64)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%I expects int64, got %T", a)
			}
			s = s.AppendBytes(formatSignedInt(v))
		case 'u':
			a, err := next()
			if err != nil {
				return s, err
			}
			v, ok := a.(uint)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%u expects uint, got %T", a)
			}
			s = s.AppendBytes(formatUnsignedInt(uint64(v)))
		case 'U':
			a, err := next()
			if err != nil {
				return s, err
			}
			v, ok := a.(uint64)
			if !ok {
				return s, fmt.Errorf("sds: CatFmt: %%U expects uint64, got %T", a)
			}
			s = s.AppendBytes(formatUnsignedInt(v))
		default:
			return s, fmt.Errorf("sds: CatFmt: unsupported directive %%%c", verb)
		}
	}
	return s, nil
}

// formatSignedInt and formatUnsignedInt convert by emitting digits
// least-significant first into a 21-byte buffer (enough for a sign plus
// every digit of MinInt64/MaxUint64) and then reversing, per the
// hand-rolled routine spec.md §4.2 calls out explicitly.
func formatSignedInt(v int64) []byte {
	var buf [21]byte
	neg := v < 0
	n := 0

	u := uint64(v)
	if neg {
		u = uint64(-v)
	}

	if u == 0 {
		buf[n] = '0'
		n++
	}
	for u > 0 {
		buf[n] = byte('0' + u%10)
		n++
		u /= 10
	}
	if neg {
		buf[n] = '-'
		n++
	}
	reverse(buf[:n])
	return append([]byte(nil), buf[:n]...)
}

func formatUnsignedInt(v uint64) []byte {
	var buf [21]byte
	n := 0
	if v == 0 {
		buf[n] = '0'
		n++
	}
	for v > 0 {
		buf[n] = byte('0' + v%10)
		n++
		v /= 10
	}
	reverse(buf[:n])
	return append([]byte(nil), buf[:n]...)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// CatRepr appends a double-quoted, backslash-escaped representation of
// data — non-printable bytes become \xHH — the inverse of SplitArgs for
// the quoted case.
func (s String) CatRepr(data []byte) String {
	s = s.AppendBytes([]byte{'"'})
	for _, c := range data {
		switch c {
		case '\\', '"':
			s = s.AppendBytes([]byte{'\\', c})
		case '\n':
			s = s.AppendBytes([]byte{'\\', 'n'})
		case '\r':
			s = s.AppendBytes([]byte{'\\', 'r'})
		case '\t':
			s = s.AppendBytes([]byte{'\\', 't'})
		case '\a':
			s = s.AppendBytes([]byte{'\\', 'a'})
		case '\b':
			s = s.AppendBytes([]byte{'\\', 'b'})
		default:
			if c < 32 || c >= 127 {
				hex := "0123456789abcdef"
				s = s.AppendBytes([]byte{'\\', 'x', hex[c>>4], hex[c&0xF]})
			} else {
				s = s.AppendBytes([]byte{c})
			}
		}
	}
	return s.AppendBytes([]byte{'"'})
}

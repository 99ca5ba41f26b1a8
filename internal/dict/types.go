package dict

// Type is the caller-supplied key/value policy (spec.md §4.3 / §6): a
// hash function over the opaque key, optional duplicators, a key
// comparator, and optional destructors. A nil duplicator means
// "borrow/assign by value"; a nil destructor means "no-op".
type Type struct {
	HashKey       func(privdata any, key any) uint64
	KeyDup        func(privdata any, key any) any
	ValDup        func(privdata any, val any) any
	KeyCompare    func(privdata any, a, b any) bool
	KeyDestructor func(privdata any, key any)
	ValDestructor func(privdata any, val any)
}

func toBytes(key any) []byte {
	switch v := key.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		panic("dict: key is not []byte or string")
	}
}

// DefaultType hashes string or []byte keys with the default
// MurmurHash2-based function and compares them byte-for-byte; keys and
// values are stored by reference (no duplication, no destructors).
func DefaultType() *Type {
	return &Type{
		HashKey: func(_ any, key any) uint64 {
			return MurmurHash2(toBytes(key))
		},
		KeyCompare: func(_ any, a, b any) bool {
			sa, ok1 := a.(string)
			sb, ok2 := b.(string)
			if ok1 && ok2 {
				return sa == sb
			}
			return string(toBytes(a)) == string(toBytes(b))
		},
	}
}

// CaseInsensitiveType hashes and compares string/[]byte keys ignoring
// ASCII case, using the DJB×33 variant from spec.md §4.3.
func CaseInsensitiveType() *Type {
	return &Type{
		HashKey: func(_ any, key any) uint64 {
			return CaseInsensitiveHash(toBytes(key))
		},
		KeyCompare: func(_ any, a, b any) bool {
			ba, bb := toBytes(a), toBytes(b)
			if len(ba) != len(bb) {
				return false
			}
			for i := range ba {
				ca, cb := ba[i], bb[i]
				if ca >= 'A' && ca <= 'Z' {
					ca += 'a' - 'A'
				}
				if cb >= 'A' && cb <= 'Z' {
					cb += 'a' - 'A'
				}
				if ca != cb {
					return false
				}
			}
			return true
		},
	}
}

// BytesXXHashType hashes []byte keys with cespare/xxhash/v2, a pluggable
// alternative to the spec-mandated MurmurHash2 default (SPEC_FULL.md
// domain stack).
func BytesXXHashType() *Type {
	return &Type{
		HashKey: func(_ any, key any) uint64 {
			return XXHash(toBytes(key))
		},
		KeyCompare: func(_ any, a, b any) bool {
			return string(toBytes(a)) == string(toBytes(b))
		},
	}
}

// StringXXHashType is BytesXXHashType specialized for string keys, with
// a key duplicator so the dict owns its own copy of each key.
func StringXXHashType() *Type {
	return &Type{
		HashKey: func(_ any, key any) uint64 {
			return XXHash([]byte(key.(string)))
		},
		KeyDup: func(_ any, key any) any {
			s := key.(string)
			return string(append([]byte(nil), s...))
		},
		KeyCompare: func(_ any, a, b any) bool {
			return a.(string) == b.(string)
		},
	}
}

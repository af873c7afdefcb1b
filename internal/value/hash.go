package value

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
)

// Hash returns a structural 64-bit hash of v. Record field order never
// affects the result; equal values always hash equally.
func (v Value) Hash() uint64 {
	h := fnv.New64a()
	v.writeTo(h)

	return h.Sum64()
}

// Fingerprint hashes the given parts as one list and renders the hash as hex.
// It is the cache key format used across the engine.
func Fingerprint(parts ...Value) string {
	return fmt.Sprintf("%016x", List(parts...).Hash())
}

func (v Value) writeTo(h hash.Hash64) {
	var buf [8]byte

	writeUint := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = h.Write(buf[:])
	}
	writeStr := func(s string) {
		writeUint(uint64(len(s)))
		_, _ = h.Write([]byte(s))
	}

	_, _ = h.Write([]byte{byte(v.kind)})

	switch v.kind {
	case KindString:
		writeStr(v.str)
	case KindNumber:
		n := v.num
		if n == 0 {
			n = 0 // folds -0
		}

		writeUint(math.Float64bits(n))
	case KindBool:
		if v.flag {
			writeUint(1)
		} else {
			writeUint(0)
		}
	case KindDate:
		writeUint(uint64(v.at.UnixNano()))
	case KindList:
		writeUint(uint64(len(v.items)))

		for _, it := range v.items {
			it.writeTo(h)
		}
	case KindRecord:
		writeUint(uint64(len(v.fields)))

		for _, k := range v.Keys() {
			writeStr(k)
			v.fields[k].writeTo(h)
		}
	}
}

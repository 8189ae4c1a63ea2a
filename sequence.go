package sds

// Unsigned is the set of types IsSequenceMoreRecent accepts.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// IsSequenceMoreRecent reports whether sequence number s1 is newer than s2,
// allowing for wrap-around: a gap of more than half the range is taken to
// mean the counter wrapped.
func IsSequenceMoreRecent[T Unsigned](s1, s2 T) bool {
	half := ^T(0) >> 1
	return (s1 > s2 && s1-s2 <= half) || (s2 > s1 && s2-s1 > half)
}

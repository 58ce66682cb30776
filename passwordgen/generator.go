// Package passwordgen synthesizes random passwords that satisfy a set of
// enabled character-class restrictions.
package passwordgen

import (
	"crypto/rand"
	"encoding/binary"
)

const (
	lowerAlphabet   = "abcdefghijklmnopqrstuvwxyz"
	upperAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitAlphabet   = "0123456789"
	specialAlphabet = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
)

// Restriction describes the desired shape of a generated password.
type Restriction struct {
	Length            int
	LowerCase         bool
	UpperCase         bool
	Numbers           bool
	SpecialCharacters bool
}

// enabledClasses returns the alphabets for every enabled character class,
// in the fixed order lower/upper/digits/specials.
func (r Restriction) enabledClasses() []string {
	var classes []string
	if r.LowerCase {
		classes = append(classes, lowerAlphabet)
	}
	if r.UpperCase {
		classes = append(classes, upperAlphabet)
	}
	if r.Numbers {
		classes = append(classes, digitAlphabet)
	}
	if r.SpecialCharacters {
		classes = append(classes, specialAlphabet)
	}
	return classes
}

// Generate synthesizes a password matching r. Output length always equals
// r.Length; every enabled class contributes at least one byte, and no
// disabled class contributes any.
func Generate(r Restriction) ([]byte, error) {
	if r.Length == 0 {
		return nil, ErrZeroLength
	}

	classes := r.enabledClasses()
	if len(classes) == 0 {
		return nil, ErrNoRestriction
	}
	if r.Length < len(classes) {
		return nil, ErrTooManyRestrictions
	}

	out := make([]byte, r.Length)

	union := ""
	for _, class := range classes {
		union += class
	}

	for i, class := range classes {
		c, err := randomByte(class)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	for i := len(classes); i < r.Length; i++ {
		c, err := randomByte(union)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}

	if err := shuffle(out); err != nil {
		return nil, err
	}
	return out, nil
}

func randomByte(alphabet string) (byte, error) {
	idx, err := randomIndex(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[idx], nil
}

// randomIndex returns a uniformly distributed index in [0, n) drawn from
// the OS CSPRNG, rejecting biased draws near the top of the uint32 range.
// n may be any value up to 2^32 (shuffle calls this with n up to a
// password's full length, not just an alphabet size).
func randomIndex(n int) (int, error) {
	if n <= 0 {
		panic("passwordgen: alphabet size out of range")
	}
	const span = 1 << 32
	limit := span - (span % uint64(n))
	for {
		var b [4]byte
		if _, err := rand.Read(b[:]); err != nil {
			return 0, err
		}
		v := uint64(binary.BigEndian.Uint32(b[:]))
		if v < limit {
			return int(v % uint64(n)), nil
		}
	}
}

// shuffle performs an in-place Fisher-Yates shuffle using the OS CSPRNG.
func shuffle(buf []byte) error {
	for i := len(buf) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return err
		}
		buf[i], buf[j] = buf[j], buf[i]
	}
	return nil
}

package blurhash

import "fmt"

// Alphabet is the base83 digit set, in digit order. It is shared with every
// other BlurHash implementation and must never be reordered.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz#$%*+,-.:;=?@[]^_{|}~"

// digitValue maps a byte to its base83 value, or -1.
var digitValue [256]int8

func init() {
	for i := range digitValue {
		digitValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		digitValue[Alphabet[i]] = int8(i)
	}
}

// EncodeBase83 writes value as exactly length base83 digits, most
// significant first, zero padded. Digits above length are dropped, so value
// must be below 83^length.
func EncodeBase83(value, length int) string {
	return string(appendBase83(make([]byte, 0, length), value, length))
}

func appendBase83(dst []byte, value, length int) []byte {
	divisor := 1
	for i := 1; i < length; i++ {
		divisor *= 83
	}
	for i := 0; i < length; i++ {
		dst = append(dst, Alphabet[(value/divisor)%83])
		divisor /= 83
	}
	return dst
}

// checkAlphabet reports the first character of s outside Alphabet, with its
// offset in s.
func checkAlphabet(s string) error {
	for i := 0; i < len(s); i++ {
		if digitValue[s[i]] < 0 {
			return fmt.Errorf("%w %q at offset %d", ErrInvalidCharacter, s[i], i)
		}
	}
	return nil
}

// DecodeBase83 parses s as a base83 number. Every character must belong to
// Alphabet.
func DecodeBase83(s string) (int, error) {
	if err := checkAlphabet(s); err != nil {
		return 0, err
	}
	value := 0
	for i := 0; i < len(s); i++ {
		value = value*83 + int(digitValue[s[i]])
	}
	return value, nil
}

// DecodeBase83N is DecodeBase83 for a fixed-width field of n digits.
func DecodeBase83N(s string, n int) (int, error) {
	if len(s) != n {
		return 0, fmt.Errorf("%w: field has %d digits, want %d", ErrInvalidLength, len(s), n)
	}
	return DecodeBase83(s)
}

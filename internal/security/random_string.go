package security

import (
	"crypto/rand"
	"errors"
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws length characters uniformly from alphabet using
// the system CSPRNG. Rejection sampling keeps the distribution unbiased
// when the alphabet size does not divide 256.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	// Largest multiple of len(alphabet) that fits in a byte.
	ceiling := byte(256 - 256%len(alphabet))
	if len(alphabet) > 256 {
		return "", errors.New("alphabet larger than a byte range")
	}

	out := make([]byte, 0, length)
	buffer := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", err
		}
		for _, raw := range buffer {
			if ceiling != 0 && raw >= ceiling {
				continue
			}
			out = append(out, alphabet[int(raw)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

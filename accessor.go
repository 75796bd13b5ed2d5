package detour

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// GetString resolves key and returns the string form of its value.
// Conversion never fails once the parameter resolves.
func (s *Store) GetString(key string) (string, error) {
	v, err := s.Resolve(key)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// GetChar resolves key to a single character. The stringified value must
// be exactly one rune long.
func (s *Store) GetChar(key string) (rune, error) {
	str, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	if utf8.RuneCountInString(str) != 1 {
		return 0, &TypeError{Key: key, Expected: "a single character", Actual: strconv.Quote(str)}
	}
	r, _ := utf8.DecodeRuneInString(str)
	return r, nil
}

// GetBool resolves key to a boolean. The parse is deliberately lenient:
// any string not case-insensitively equal to "true" is false, and
// malformed input is never an error.
func (s *Store) GetBool(key string) (bool, error) {
	str, err := s.GetString(key)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(str, "true"), nil
}

// GetInt resolves key to an int. The stringified value must parse as a
// base-10 32-bit integer.
func (s *Store) GetInt(key string) (int, error) {
	str, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(str, 10, 32)
	if err != nil {
		return 0, &TypeError{Key: key, Expected: "an integer", Actual: strconv.Quote(str)}
	}
	return int(i), nil
}

// GetInt64 resolves key to an int64.
func (s *Store) GetInt64(key string) (int64, error) {
	str, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, &TypeError{Key: key, Expected: "an integer", Actual: strconv.Quote(str)}
	}
	return i, nil
}

// GetFloat64 resolves key to a float64. The stringified value must parse
// as a decimal number.
func (s *Store) GetFloat64(key string) (float64, error) {
	str, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, &TypeError{Key: key, Expected: "a number", Actual: strconv.Quote(str)}
	}
	return f, nil
}

// GetFloat32 resolves key to a float32.
func (s *Store) GetFloat32(key string) (float32, error) {
	str, err := s.GetString(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(str, 32)
	if err != nil {
		return 0, &TypeError{Key: key, Expected: "a number", Actual: strconv.Quote(str)}
	}
	return float32(f), nil
}

// GetArray resolves key to an array. Unlike the scalar accessors this
// checks the stored kind directly; no stringified form is accepted.
func (s *Store) GetArray(key string) ([]Value, error) {
	v, err := s.Resolve(key)
	if err != nil {
		return nil, err
	}
	if v.Kind() != KindArray {
		return nil, &TypeError{Key: key, Expected: "an array", Actual: v.Kind().String()}
	}
	return v.Array(), nil
}

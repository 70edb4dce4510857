package roomcode

import (
	"errors"
	"fmt"
	"math/rand"
)

// Codes avoid 0/O and 1/I to stay readable when shared out loud.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	codeLength  = 6
	maxAttempts = 10
)

// ErrExhausted is returned when no unique value could be generated within the
// retry budget. Room creation must abort on this error.
var ErrExhausted = errors.New("roomcode: could not generate a unique value")

// Taken reports whether a candidate value is already in use.
type Taken func(value string) (bool, error)

// UniqueRoomCode generates a short join code not currently in use.
func UniqueRoomCode(taken Taken) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code := randomCode()
		inUse, err := taken(code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrExhausted
}

// UniqueDisplayName returns base if free, otherwise base with a numeric suffix.
func UniqueDisplayName(base string, taken Taken) (string, error) {
	inUse, err := taken(base)
	if err != nil {
		return "", err
	}
	if !inUse {
		return base, nil
	}

	for i := 0; i < maxAttempts; i++ {
		candidate := fmt.Sprintf("%s%d", base, rand.Intn(9000)+1000)
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrExhausted
}

func randomCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

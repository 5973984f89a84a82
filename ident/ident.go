package ident

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
)

// AdminPartition is the reserved partition value that marks an
// administrator identifier.
const AdminPartition = "00"

const (
	partitionWidth = 2
	checkWidth     = 2
	randomWidth    = 4
)

// ErrInvalidIdentifier is returned when an identifier fails shape or
// checksum validation.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// identifierShape matches the wire format: 2 partition digits, 2 check
// digits, a literal hyphen, 4 random digits.
var identifierShape = regexp.MustCompile(`^[0-9]{2}[0-9]{2}-[0-9]{4}$`)

// checksumWeights are applied left-to-right over the 6 payload digits,
// cycling every 4 positions.
var checksumWeights = [4]int{3, 7, 11, 13}

// Generate creates a new identifier. Administrators receive the reserved
// "00" partition; regular users a uniformly random partition in [01,99].
// The 4-digit random body is drawn independently per call.
//
// Generate may return an error only when the system randomness source fails.
func Generate(isAdmin bool) (string, error) {
	partition := AdminPartition
	if !isAdmin {
		n, err := randomInt(99)
		if err != nil {
			return "", err
		}
		partition = fmt.Sprintf("%02d", n+1)
	}

	body, err := randomInt(10000)
	if err != nil {
		return "", err
	}
	random := fmt.Sprintf("%04d", body)

	check, err := Checksum(partition, random)
	if err != nil {
		return "", err
	}

	return partition + check + "-" + random, nil
}

// MustGenerate is Generate panicking on randomness failure. Intended for
// tests and initialization paths where a broken entropy source is fatal.
func MustGenerate(isAdmin bool) string {
	id, err := Generate(isAdmin)
	if err != nil {
		panic(err)
	}
	return id
}

// Checksum computes the 2 check digits over a 2-digit partition and a
// 4-digit random body. Three accumulators run over the 6 payload digits:
//
//  1. Luhn: right-to-left, every second digit (1-indexed from the right)
//     is doubled, doubles above 9 subtract 9, all digits summed.
//  2. Weighted: digit i times checksumWeights[i mod 4], left-to-right.
//  3. XOR: running exclusive-or of all six digits.
//
// Result is (luhn + weighted + xor) mod 100, zero-padded. This is a
// corruption-detecting checksum, not a MAC; see the package documentation.
func Checksum(partition, random string) (string, error) {
	if len(partition) != partitionWidth || !allDigits(partition) {
		return "", fmt.Errorf("%w: partition %q", ErrInvalidIdentifier, partition)
	}
	if len(random) != randomWidth || !allDigits(random) {
		return "", fmt.Errorf("%w: random part %q", ErrInvalidIdentifier, random)
	}

	payload := partition + random
	digits := make([]int, len(payload))
	for i := range payload {
		digits[i] = int(payload[i] - '0')
	}

	luhnSum := 0
	for pos := 1; pos <= len(digits); pos++ {
		d := digits[len(digits)-pos]
		if pos%2 == 0 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		luhnSum += d
	}

	weightSum := 0
	xorResult := 0
	for i, d := range digits {
		weightSum += d * checksumWeights[i%len(checksumWeights)]
		xorResult ^= d
	}

	return fmt.Sprintf("%02d", (luhnSum+weightSum+xorResult)%100), nil
}

// Validate reports whether id matches the identifier shape and carries
// check digits consistent with its partition and random body. Validate
// never returns an error; malformed input is simply false.
func Validate(id string) bool {
	if !identifierShape.MatchString(id) {
		return false
	}

	partition := id[:partitionWidth]
	check := id[partitionWidth : partitionWidth+checkWidth]
	random := id[len(id)-randomWidth:]

	expected, err := Checksum(partition, random)
	if err != nil {
		return false
	}
	return check == expected
}

// IsAdmin reports whether id names an administrator. Identifiers that fail
// Validate are never administrators; they surface ErrInvalidIdentifier so
// the caller can distinguish "regular user" from "untrustworthy input".
func IsAdmin(id string) (bool, error) {
	if !Validate(id) {
		return false, fmt.Errorf("%w: %q", ErrInvalidIdentifier, id)
	}
	return id[:partitionWidth] == AdminPartition, nil
}

// Partition returns the 2-digit partition of a valid identifier. The
// second return is false for invalid input.
func Partition(id string) (string, bool) {
	if !Validate(id) {
		return "", false
	}
	return id[:partitionWidth], true
}

// RandomPart returns the 4-digit random body of a valid identifier. The
// second return is false for invalid input.
func RandomPart(id string) (string, bool) {
	if !Validate(id) {
		return "", false
	}
	return id[len(id)-randomWidth:], true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// randomInt returns a uniform value in [0, max) from crypto/rand.
func randomInt(max int64) (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, fmt.Errorf("identifier randomness unavailable: %w", err)
	}
	return n.Int64(), nil
}

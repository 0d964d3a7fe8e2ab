// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher performs one-way salted password hashing with a tunable work factor.
//
// # Concurrency
//
// Hasher is immutable after construction and safe for concurrent use.
type Hasher struct {
	cost int
}

// NewHasher constructs a [Hasher] with the given bcrypt cost.
// Costs outside bcrypt's supported range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a plain-text password using the bcrypt algorithm.
//
// Each call embeds a fresh random salt, so hashing the same input twice
// yields different stored values.
func (h *Hasher) Hash(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), h.cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// Verify compares a plain-text password with its hashed version.
//
// A malformed hash yields false, never an error, so callers can treat any
// mismatch uniformly.
func (h *Hasher) Verify(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

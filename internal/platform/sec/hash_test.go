// Copyright (c) 2026 DataPipeline Pro. All rights reserved.
// Author: platform@datapipeline.pro

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipeline/pro-api/internal/platform/sec"
)

// Low cost keeps the test suite fast; correctness does not depend on the work factor.
const testBcryptCost = 4

/*
TestHasher_RoundTrip verifies that a hashed password verifies against its
original plaintext and rejects any other input.
*/
func TestHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewHasher(testBcryptCost)

	hash, err := hasher.Hash("Abcd1234")
	require.NoError(t, err)
	require.NotEqual(t, "Abcd1234", hash)

	assert.True(t, hasher.Verify("Abcd1234", hash))
	assert.False(t, hasher.Verify("Abcd1235", hash))
	assert.False(t, hasher.Verify("", hash))
}

/*
TestHasher_SaltedHashesDiffer verifies that hashing the same password twice
produces different stored values (embedded random salt).
*/
func TestHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := sec.NewHasher(testBcryptCost)

	first, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)
	second, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("Sup3rSecret", first))
	assert.True(t, hasher.Verify("Sup3rSecret", second))
}

/*
TestHasher_MalformedHash verifies that a corrupted stored hash yields false
rather than an error or a panic.
*/
func TestHasher_MalformedHash(t *testing.T) {
	hasher := sec.NewHasher(testBcryptCost)

	assert.False(t, hasher.Verify("Abcd1234", "not-a-bcrypt-hash"))
	assert.False(t, hasher.Verify("Abcd1234", ""))
}

/*
TestNewHasher_CostClamping verifies that out-of-range costs still produce a
working hasher.
*/
func TestNewHasher_CostClamping(t *testing.T) {
	hasher := sec.NewHasher(99)

	hash, err := hasher.Hash("Abcd1234")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("Abcd1234", hash))
}

package testutils

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/require"
)

// Fixed keypairs so that tests are deterministic. The pubkeys are the
// compressed serializations of the corresponding privkeys.
var (
	privkeyStrs = []string{
		"bd4170b107bafff6d3fd9cfff6a3f593ef71b9643ed076719f45f4453842e8e5",
		"95d7fbe9c3284932bf879aa0ff2f8b68d0b086f54315893677c436030210900c",
		"61b62420e5a72b4a0b64a14f9a7a8800a17bdb4766f551af973509be5760dbbf",
		"99797812e57c4202e54b1a3e133615ed32209cb9878134535eac88663dc42748",
	}

	pubkeyStrs = []string{
		"033c2caebe2ac2c42ee8345b323926bb57ea990d636d34cc4835df7515c39fdaf0",
		"03e63a564909e6d5987567b5279b6f2ccc74a796d4513dd2b62b9e5b38aa3c33c1",
		"02d6b967bdbb72edf85e66f8b3f6b1c92e2f3f216fb8de30b35cc123893173d7e1",
		"03179b33c6e9792cda1adce744fc1f56f1f2d0a1971bd60b285927d77ff1d578f2",
	}
)

// GetPubkeys provides n public keys for testing.
func GetPubkeys(t *testing.T, n int) []*btcec.PublicKey {
	t.Helper()

	if len(pubkeyStrs) < n {
		t.Fatalf("testing package only has: %v pubkeys, %v requested",
			len(pubkeyStrs), n)
	}

	pubkeys := make([]*btcec.PublicKey, n)

	for i, pkStr := range pubkeyStrs[0:n] {
		pkBytes, err := hex.DecodeString(pkStr)
		require.NoError(t, err, "pubkey decode string")

		pubkeys[i], err = btcec.ParsePubKey(pkBytes)
		require.NoError(t, err, "parse pubkey")
	}

	return pubkeys
}

// GetPrivkeys provides n private keys for testing.
func GetPrivkeys(t *testing.T, n int) []*btcec.PrivateKey {
	t.Helper()

	if len(privkeyStrs) < n {
		t.Fatalf("testing package only has: %v privkeys, %v requested",
			len(privkeyStrs), n)
	}

	privkeys := make([]*btcec.PrivateKey, n)

	for i, pkStr := range privkeyStrs[0:n] {
		pkBytes, err := hex.DecodeString(pkStr)
		require.NoError(t, err, "privkey decode string")

		privkeys[i], _ = btcec.PrivKeyFromBytes(pkBytes)
	}

	return privkeys
}

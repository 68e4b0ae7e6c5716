package solana

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProgramAddress_SdkVectors(t *testing.T) {
	// Vectors from the Solana SDK test suite, including its typo.
	seedKey, err := base58.Decode("SeedPubey1111111111111111111111111111111111")
	require.NoError(t, err)
	program, err := base58.Decode("BPFLoader1111111111111111111111111111111111")
	require.NoError(t, err)

	for _, tc := range []struct {
		seeds    [][]byte
		expected string
	}{
		{[][]byte{{}, {1}}, "3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT"},
		{[][]byte{[]byte("☉")}, "7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7"},
		{[][]byte{[]byte("Talking"), []byte("Squirrels")}, "HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds"},
		{[][]byte{seedKey}, "GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K"},
	} {
		actual, err := CreateProgramAddress(program, tc.seeds...)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(actual))
	}
}

func TestCreateProgramAddress_SeedLimits(t *testing.T) {
	program, err := base58.Decode("BPFLoader1111111111111111111111111111111111")
	require.NoError(t, err)

	_, err = CreateProgramAddress(program, make([]byte, maxSeedLength+1))
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(program, []byte("short"), make([]byte, maxSeedLength+1))
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)

	_, err = CreateProgramAddress(program, make([]byte, maxSeedLength))
	assert.NoError(t, err)

	tooMany := make([][]byte, maxSeeds+1)
	_, err = CreateProgramAddress(program, tooMany...)
	assert.Equal(t, ErrTooManySeeds, err)
}

func TestFindProgramAddress_KnownAddresses(t *testing.T) {
	for _, tc := range []struct {
		program  string
		expected string
	}{
		{"4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM", "Bn9pAWUXWc5Kd849xTkQcHqiCbHUEizLFn4r5Cf8XYnd"},
		{"8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh", "oDvUHiiGdMo31xYzjefAzUekWH8EbCKrxgs2FkyTs1S"},
		{"CiDwVBFgWV9E5MvXWoLgnEgn2hK7rJikbvfWavzAQz3", "B2vBn2bmF9GuaGkebrm8oUqDC34pE6m4bagjNcVE6msv"},
		{"GcdayuLaLyrdmUu324nahyv33G5poQdLUEZ1nEytDeP", "2mN5Nfq9v1EwTV9FPTHPESZ3XiZce9wi5PQoULFuxvev"},
	} {
		program, err := base58.Decode(tc.program)
		require.NoError(t, err)

		actual, err := FindProgramAddress(program, []byte("Lil'"), []byte("Bits"))
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(actual))
	}
}

func TestFindProgramAddress_OffCurveAndVerifiable(t *testing.T) {
	for i := 0; i < 100; i++ {
		program, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		pda, err := DeriveProgramAddress(program, []byte("event"), []byte{byte(i)})
		require.NoError(t, err)
		assert.False(t, IsOnCurve(pda.Address))

		require.NoError(t, VerifyProgramAddress(program, pda.Address, pda.Bump, []byte("event"), []byte{byte(i)}))
		assert.Equal(t, ErrAddressMismatch, VerifyProgramAddress(program, pda.Address, pda.Bump, []byte("event"), []byte{byte(i + 1)}))
	}
}

func TestFindProgramAddress_Distinct(t *testing.T) {
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	a, err := FindProgramAddress(program, []byte("Talking"))
	require.NoError(t, err)
	b, err := FindProgramAddress(program, []byte("Talking"), []byte("Squirrels"))
	require.NoError(t, err)
	again, err := FindProgramAddress(program, []byte("Talking"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, a, again)
}

func TestIsOnCurve(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	assert.True(t, IsOnCurve(pub))
	assert.False(t, IsOnCurve(pub[:10]))
}

func TestFindProgramAddressAndBump_Cached(t *testing.T) {
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	address, bump, err := FindProgramAddressAndBump(program, []byte("cached"))
	require.NoError(t, err)

	_, ok := derivationCache.Retrieve(derivationCacheKey(program, [][]byte{[]byte("cached")}))
	require.True(t, ok)

	// Callers own the returned slice
	address[0] ^= 0xff

	again, againBump, err := FindProgramAddressAndBump(program, []byte("cached"))
	require.NoError(t, err)
	assert.Equal(t, bump, againBump)
	assert.NotEqual(t, address, again)
	require.NoError(t, VerifyProgramAddress(program, again, againBump, []byte("cached")))

	// Seed boundaries are part of the key
	assert.NotEqual(t,
		derivationCacheKey(program, [][]byte{[]byte("ab"), []byte("c")}),
		derivationCacheKey(program, [][]byte{[]byte("a"), []byte("bc")}),
	)
}

func TestVerifyProgramAddress_OnCurveCandidate(t *testing.T) {
	program, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	pda, err := DeriveProgramAddress(program, []byte("event"))
	require.NoError(t, err)

	// Roughly half of all candidates land on the curve, so one turns up
	// quickly among the other bumps
	var found bool
	for bump := 0; bump <= 255 && !found; bump++ {
		_, err := CreateProgramAddress(program, []byte("event"), []byte{byte(bump)})
		if err != ErrInvalidPublicKey {
			continue
		}
		found = true

		assert.Equal(t, ErrAddressMismatch, VerifyProgramAddress(program, pda.Address, uint8(bump), []byte("event")))
	}
	require.True(t, found)

	_, err = CreateProgramAddress(program, make([]byte, maxSeedLength+1))
	assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	assert.Equal(t, ErrMaxSeedLengthExceeded, VerifyProgramAddress(program, pda.Address, pda.Bump, make([]byte, maxSeedLength+1)))
}

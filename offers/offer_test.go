package offers

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/erickcestari/bolt12-offer-decoder/testutils"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/stretchr/testify/require"
)

// TestOfferEncoding tests encoding and decoding of offers. It tests each field
// in the offer individually so that each test also implicitly tests the case
// where other fields are not set.
func TestOfferEncoding(t *testing.T) {
	pubkeys := testutils.GetPubkeys(t, 4)

	var (
		chainOne = chainhash.Hash{1, 2, 3}
		chainTwo = chainhash.Hash{4, 5, 6}

		boundedQty   uint64 = 3
		unboundedQty uint64

		introChan = lnwire.NewShortChanIDFromInt(123456789)
	)

	tests := []struct {
		name  string
		offer *Offer
	}{
		{
			name: "chains",
			offer: &Offer{
				Chains: []chainhash.Hash{chainOne, chainTwo},
			},
		},
		{
			name: "metadata",
			offer: &Offer{
				Metadata: []byte{9, 8, 7},
			},
		},
		{
			name: "bitcoin amount - zeros truncated",
			offer: &Offer{
				Amount: Amount{
					Kind:  AmountBitcoin,
					Msats: lnwire.MilliSatoshi(1),
				},
				Description: "amount needs description",
			},
		},
		{
			name: "currency amount",
			offer: &Offer{
				Amount: Amount{
					Kind:     AmountCurrency,
					Currency: "USD",
					Units:    250,
				},
				Description: "amount needs description",
			},
		},
		{
			name: "description",
			offer: &Offer{
				Description: "offer description",
			},
		},
		{
			name: "features vector",
			offer: &Offer{
				Features: lnwire.NewFeatureVector(
					// Set any random feature bit to test
					// encoding.
					lnwire.NewRawFeatureVector(
						lnwire.TLVOnionPayloadRequired,
					),
					lnwire.Features,
				),
			},
		},
		{
			name: "expiry",
			offer: &Offer{
				Expiry: time.Unix(900, 0),
			},
		},
		{
			name: "path - introduction node id",
			offer: &Offer{
				Paths: []*BlindedPath{
					{
						IntroductionNode: pubkeys[0],
						BlindingPoint:    pubkeys[1],
						Hops: []*BlindedHop{
							{
								BlindedNodeID: pubkeys[2],
								EncryptedData: []byte{1, 2},
							},
							{
								BlindedNodeID: pubkeys[3],
								EncryptedData: []byte{3, 4},
							},
						},
					},
				},
			},
		},
		{
			name: "path - introduction channel",
			offer: &Offer{
				Paths: []*BlindedPath{
					{
						IntroductionChan:    &introChan,
						IntroductionChanDir: 1,
						BlindingPoint:       pubkeys[0],
						Hops: []*BlindedHop{
							{
								BlindedNodeID: pubkeys[1],
								EncryptedData: []byte{5, 6},
							},
						},
					},
				},
			},
		},
		{
			name: "issuer",
			offer: &Offer{
				Issuer: "issuer",
			},
		},
		{
			name: "quantity - bounded",
			offer: &Offer{
				QuantityMax: &boundedQty,
			},
		},
		{
			name: "quantity - unbounded",
			offer: &Offer{
				QuantityMax: &unboundedQty,
			},
		},
		{
			name: "node ID",
			offer: &Offer{
				NodeID: pubkeys[0],
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			encoded, err := EncodeOffer(testCase.offer)
			require.NoError(t, err, "encode")

			decoded, err := DecodeOffer(encoded)
			require.NoError(t, err, "decode")

			// Our decoding creates an empty feature vector if no
			// features TLV is present so that we can use the
			// non-nil vector. If our test didn't set any features,
			// fill in an empty feature vector so that we can use
			// require.Equal for the encoded/decoded values.
			if testCase.offer.Features == nil {
				testCase.offer.Features = lnwire.NewFeatureVector(
					lnwire.NewRawFeatureVector(),
					lnwire.Features,
				)
			}

			require.Equal(t, testCase.offer, decoded)
		})
	}
}

// TestSupportedQuantity tests the mapping from the raw quantity record to the
// offer's quantity policy.
func TestSupportedQuantity(t *testing.T) {
	var (
		zero  uint64
		three uint64 = 3
	)

	tests := []struct {
		name     string
		max      *uint64
		quantity Quantity
	}{
		{
			name:     "absent - exactly one",
			max:      nil,
			quantity: Quantity{Kind: QuantityOne},
		},
		{
			name:     "zero - unbounded",
			max:      &zero,
			quantity: Quantity{Kind: QuantityUnbounded},
		},
		{
			name:     "bounded",
			max:      &three,
			quantity: Quantity{Kind: QuantityBounded, Max: 3},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			offer := &Offer{QuantityMax: testCase.max}
			require.Equal(t, testCase.quantity,
				offer.SupportedQuantity())
		})
	}
}

// TestOfferValidation tests validation of decoded offers.
func TestOfferValidation(t *testing.T) {
	pubkeys := testutils.GetPubkeys(t, 2)

	tests := []struct {
		name  string
		offer *Offer
		err   error
	}{
		{
			name:  "no node id or path",
			offer: &Offer{Description: "unreachable"},
			err:   ErrNodeIDOrPathRequired,
		},
		{
			name: "path can replace node id",
			offer: &Offer{
				Paths: []*BlindedPath{
					{
						IntroductionNode: pubkeys[0],
						BlindingPoint:    pubkeys[1],
						Hops: []*BlindedHop{
							{
								BlindedNodeID: pubkeys[0],
							},
						},
					},
				},
			},
		},
		{
			name: "amount without description",
			offer: &Offer{
				Amount: Amount{
					Kind:  AmountBitcoin,
					Msats: lnwire.MilliSatoshi(10),
				},
				NodeID: pubkeys[0],
			},
			err: ErrDescriptionRequired,
		},
		{
			name: "bad currency code",
			offer: &Offer{
				Amount: Amount{
					Kind:     AmountCurrency,
					Currency: "DOLLARS",
					Units:    1,
				},
				Description: "fiat",
				NodeID:      pubkeys[0],
			},
			err: ErrInvalidCurrency,
		},
		{
			name: "minimal valid offer",
			offer: &Offer{
				NodeID: pubkeys[0],
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			err := testCase.offer.Validate()
			require.ErrorIs(t, err, testCase.err)
		})
	}
}

// TestDecodeOfferErrors tests rejection of malformed offer TLV streams.
func TestDecodeOfferErrors(t *testing.T) {
	t.Run("currency without amount", func(t *testing.T) {
		// Raw TLV stream with only a currency record: type 6,
		// length 3, "USD".
		raw := []byte{6, 3, 'U', 'S', 'D'}

		_, err := DecodeOffer(raw)
		require.ErrorIs(t, err, ErrCurrencyNoAmount)
	})

	t.Run("chains not a hash multiple", func(t *testing.T) {
		// Type 2 with a 3 byte value cannot hold a genesis hash.
		raw := []byte{2, 3, 1, 2, 3}

		_, err := DecodeOffer(raw)
		require.Error(t, err)
	})

	t.Run("node id wrong length", func(t *testing.T) {
		// Type 22 with a single byte value is not a pubkey.
		raw := []byte{22, 1, 2}

		_, err := DecodeOffer(raw)
		require.ErrorIs(t, err, ErrInvalidNodeID)
	})
}

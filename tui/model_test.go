package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erickcestari/bolt12-offer-decoder/offers"
)

// TestDeriveResult tests derivation of the decode state from raw input,
// using stub decoders so that the model is tested in isolation from the
// offers package.
func TestDeriveResult(t *testing.T) {
	stubOffer := &offers.Offer{
		Description: "stub offer",
	}

	okDecoder := offers.DecoderFunc(
		func(string) (*offers.Offer, error) {
			return stubOffer, nil
		},
	)

	errDecoder := offers.DecoderFunc(
		func(string) (*offers.Offer, error) {
			return nil, errors.New("boom")
		},
	)

	tests := []struct {
		name    string
		input   string
		decoder offers.OfferDecoder
		result  decodeResult
	}{
		{
			name:    "empty input is neutral",
			input:   "",
			decoder: errDecoder,
			result:  decodeResult{kind: resultEmpty},
		},
		{
			name:    "whitespace only input is neutral",
			input:   " \t\n ",
			decoder: errDecoder,
			result:  decodeResult{kind: resultEmpty},
		},
		{
			name:    "decoder failure",
			input:   "lno1",
			decoder: errDecoder,
			result: decodeResult{
				kind:   resultError,
				errMsg: "Failed to parse offer: boom",
			},
		},
		{
			name:    "decoder success",
			input:   "lno1",
			decoder: okDecoder,
			result: decodeResult{
				kind:  resultDecoded,
				offer: stubOffer,
			},
		},
	}

	for _, testCase := range tests {
		testCase := testCase

		t.Run(testCase.name, func(t *testing.T) {
			m := NewWithDecoder(testCase.input, testCase.decoder)

			result := m.deriveResult()
			require.Equal(t, testCase.result, result)

			// The tagged result never carries an error message and
			// an offer at the same time.
			require.False(
				t, result.errMsg != "" && result.offer != nil,
				"error and offer are mutually exclusive",
			)
		})
	}
}

// TestDerivePayload tests derivation of the diagnostic transport payload.
func TestDerivePayload(t *testing.T) {
	t.Run("empty input is neutral", func(t *testing.T) {
		payload, errMsg := New("").derivePayload()
		require.Empty(t, payload)
		require.Empty(t, errMsg)
	})

	t.Run("default offer decodes", func(t *testing.T) {
		payload, errMsg := New(DefaultOffer).derivePayload()
		require.Empty(t, errMsg)
		require.NotEmpty(t, payload)
		require.Equal(t, strings.ToLower(payload), payload,
			"payload hex is lowercase")
	})

	t.Run("wrong hrp reported", func(t *testing.T) {
		payload, errMsg := New("xyz1qqqsllhfyz").derivePayload()
		require.Empty(t, payload)
		require.Contains(t, errMsg, "hrp")
	})
}

// TestView smoke tests rendering of the three states the panel can be in.
func TestView(t *testing.T) {
	t.Run("decoded offer", func(t *testing.T) {
		view := New(DefaultOffer).View()

		require.Contains(t, view, "BOLT12 Offer Decoder")
		require.Contains(t, view, "Decoded Offer Information")
		require.Contains(t, view, "An example description")
		require.Contains(t, view, "BOLT 12 industries")
		require.Contains(t, view, "1000000 msat")
		require.Contains(t, view, "Transport payload")
	})

	t.Run("decode error", func(t *testing.T) {
		view := New("lno1+ ").View()

		require.Contains(t, view, "Error")
		require.NotContains(t, view, "Decoded Offer Information")
	})

	t.Run("empty input", func(t *testing.T) {
		view := New("").View()

		require.NotContains(t, view, "Error")
		require.NotContains(t, view, "Decoded Offer Information")
	})
}

package offers

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// offerHRP is the bech32 human readable prefix for bolt 12 offers.
const offerHRP = "lno"

var (
	// ErrInvalidOfferStr is returned when we fail to decode a bech32
	// encoded offer string.
	ErrInvalidOfferStr = errors.New("invalid offer string")

	// ErrBadHRP is returned when an offer string has the wrong bech32
	// human readable prefix.
	ErrBadHRP = fmt.Errorf("incorrect bech32 hrp, should be: %v", offerHRP)

	// ErrInvalidContinuation is returned when the "+" convention used to
	// split offer strings across lines is malformed.
	ErrInvalidContinuation = errors.New("invalid offer continuation")
)

// stripOffer removes the line-continuation convention from an offer string:
// long offers may be split across lines with "+" characters, each optionally
// followed by whitespace. Strings without a "+" are returned untouched.
//
// Each chunk between markers must be non-empty once its leading whitespace is
// dropped, and may not contain any further whitespace. On success the offer
// is returned with every "+" and whitespace character removed.
func stripOffer(offer string) (string, error) {
	if !strings.Contains(offer, "+") {
		return offer, nil
	}

	for _, chunk := range strings.Split(offer, "+") {
		chunk = strings.TrimLeftFunc(chunk, unicode.IsSpace)
		if len(chunk) == 0 {
			return "", fmt.Errorf("%w: empty chunk",
				ErrInvalidContinuation)
		}

		if strings.IndexFunc(chunk, unicode.IsSpace) >= 0 {
			return "", fmt.Errorf("%w: whitespace in chunk: %q",
				ErrInvalidContinuation, chunk)
		}
	}

	var stripped strings.Builder
	stripped.Grow(len(offer))

	for _, r := range offer {
		if r == '+' || unicode.IsSpace(r) {
			continue
		}

		stripped.WriteRune(r)
	}

	return stripped.String(), nil
}

// DecodePayload strips the continuation convention from an offer string and
// decodes it through the checksum-free bech32 encoding that bolt 12 uses,
// checking that the string carries the offer human readable prefix. The raw
// payload bytes are returned without any interpretation of their contents.
func DecodePayload(offerStr string) ([]byte, error) {
	// First, strip any joining characters / spare whitespace from the
	// offer.
	cleanOffer, err := stripOffer(offerStr)
	if err != nil {
		return nil, fmt.Errorf("strip offer: %w", err)
	}

	hrp, data, err := decodeBech32(cleanOffer)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOfferStr, err)
	}

	if hrp != offerHRP {
		return nil, fmt.Errorf("%w: got: %v", ErrBadHRP, hrp)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("convert bits: %w", err)
	}

	return payload, nil
}

// DecodeOfferStr decodes a bech32 encoded offer string, returning our offer
// type with the information contained in the offer.
func DecodeOfferStr(offerStr string) (*Offer, error) {
	offerBytes, err := DecodePayload(offerStr)
	if err != nil {
		return nil, err
	}

	log.Tracef("decoded offer payload: %v bytes", len(offerBytes))

	offer, err := DecodeOffer(offerBytes)
	if err != nil {
		return nil, fmt.Errorf("could not decode offer: %w", err)
	}

	if err := offer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid offer: %w", err)
	}

	return offer, nil
}

// EncodeOfferStr encodes an offer as a bech32 offer string, the inverse of
// DecodeOfferStr.
func EncodeOfferStr(offer *Offer) (string, error) {
	offerBytes, err := EncodeOffer(offer)
	if err != nil {
		return "", fmt.Errorf("encode offer: %w", err)
	}

	data, err := bech32.ConvertBits(offerBytes, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}

	return encodeBech32(offerHRP, data)
}

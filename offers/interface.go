package offers

// OfferDecoder is the single operation a display layer needs from this
// package: parse a user-provided offer string into an offer. Keeping it
// narrow allows front-ends to be tested against a stub decoder.
type OfferDecoder interface {
	// DecodeOfferStr decodes a bech32 encoded offer string.
	DecodeOfferStr(offerStr string) (*Offer, error)
}

// DecoderFunc adapts a plain decode function to the OfferDecoder interface.
type DecoderFunc func(offerStr string) (*Offer, error)

// DecodeOfferStr decodes a bech32 encoded offer string.
func (f DecoderFunc) DecodeOfferStr(offerStr string) (*Offer, error) {
	return f(offerStr)
}

// Compile time assertion that our package level decoder can be used as an
// OfferDecoder.
var _ OfferDecoder = DecoderFunc(DecodeOfferStr)

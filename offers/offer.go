package offers

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/tlv"
)

const (
	// chainsType is a record type listing the chains an offer is valid
	// for, expressed as genesis block hashes.
	chainsType tlv.Type = 2

	// metadataType is a record type for opaque metadata the issuing node
	// includes for its own use.
	metadataType tlv.Type = 4

	// currencyType is a record type holding the ISO 4217 code when an
	// offer is denominated in a fiat currency.
	currencyType tlv.Type = 6

	// amountType is a record type specifying the amount for an offer,
	// denominated in millisatoshi or in the currency's minor unit when a
	// currency record is present.
	amountType tlv.Type = 8

	// descriptionType is a record type for offer descriptions.
	descriptionType tlv.Type = 10

	// featuresType is a record type for the feature bits an offer requires.
	featuresType tlv.Type = 12

	// expiryType is a record type for offer expiry time.
	expiryType tlv.Type = 14

	// pathsType is a record type for the blinded paths that can be used to
	// reach the offer node.
	pathsType tlv.Type = 16

	// issuerType is a record type for identifying the issuer of an offer.
	issuerType tlv.Type = 18

	// quantityMaxType is a record type that sets the quantity of items the
	// offer supports. Zero indicates any quantity; the record's absence
	// indicates exactly one.
	quantityMaxType tlv.Type = 20

	// nodeIDType is a record for the issuing node's ID, encoded as a
	// 33 byte compressed pubkey.
	nodeIDType tlv.Type = 22
)

var (
	// ErrNodeIDOrPathRequired is returned when an offer provides neither a
	// node pubkey nor a blinded path, leaving no way to reach its issuer.
	ErrNodeIDOrPathRequired = errors.New("node pubkey or blinded path " +
		"required for offer")

	// ErrDescriptionRequired is returned when an offer sets an amount but
	// does not describe what is being offered.
	ErrDescriptionRequired = errors.New("offer description required when " +
		"amount set")

	// ErrCurrencyNoAmount is returned when an offer sets a currency code
	// without an amount denominated in it.
	ErrCurrencyNoAmount = errors.New("offer currency set without amount")

	// ErrInvalidCurrency is returned when an offer's currency code is not
	// a three letter ISO 4217 code.
	ErrInvalidCurrency = errors.New("currency must be a three letter " +
		"ISO 4217 code")

	// ErrInvalidNodeID is returned when an offer's node ID is not a valid
	// 33 byte compressed pubkey.
	ErrInvalidNodeID = errors.New("invalid offer node id")
)

// AmountKind enumerates the denominations an offer amount can take.
type AmountKind uint8

const (
	// AmountAny indicates that the offer does not set an amount at all.
	AmountAny AmountKind = iota

	// AmountBitcoin indicates an amount denominated in millisatoshi.
	AmountBitcoin

	// AmountCurrency indicates an amount denominated in the minor unit of
	// a fiat currency.
	AmountCurrency
)

// Amount is the amount an offer charges, a tagged variant of a bitcoin
// denominated amount vs a fiat denominated one.
type Amount struct {
	// Kind indicates which denomination the amount uses.
	Kind AmountKind

	// Msats is the bitcoin denominated amount, set for AmountBitcoin.
	Msats lnwire.MilliSatoshi

	// Currency is the ISO 4217 code of the fiat currency, set for
	// AmountCurrency.
	Currency string

	// Units is the amount in the currency's minor unit, set for
	// AmountCurrency.
	Units uint64
}

// QuantityKind enumerates the quantity policies an offer can express.
type QuantityKind uint8

const (
	// QuantityOne indicates that the offer is for a single item.
	QuantityOne QuantityKind = iota

	// QuantityUnbounded indicates that any quantity may be requested.
	QuantityUnbounded

	// QuantityBounded indicates that up to Max items may be requested.
	QuantityBounded
)

// Quantity is the quantity policy of an offer.
type Quantity struct {
	// Kind indicates which policy the offer uses.
	Kind QuantityKind

	// Max is the maximum quantity, set for QuantityBounded.
	Max uint64
}

// Offer represents a bolt 12 offer.
type Offer struct {
	// Chains is the set of chains the offer is valid for. An empty set
	// implies bitcoin mainnet.
	Chains []chainhash.Hash

	// Metadata is opaque data included by the issuing node for its own
	// use.
	Metadata []byte

	// Amount is an optional amount for the offer, possibly denominated in
	// a fiat currency.
	Amount Amount

	// Description is an optional description of the offer. It is required
	// when the offer sets an amount.
	Description string

	// Features are the specification features that the offer requires and
	// supports.
	Features *lnwire.FeatureVector

	// Expiry is an optional absolute expiry time of the offer.
	Expiry time.Time

	// Paths holds zero or more blinded paths that can be used to reach
	// the offer node.
	Paths []*BlindedPath

	// Issuer identifies the issuing party.
	Issuer string

	// QuantityMax is the maximum number of items for an offer. Nil when
	// the offer is for a single item, zero when any quantity is allowed.
	QuantityMax *uint64

	// NodeID is the public key advertized by the offering node, encoded
	// as a 33 byte compressed pubkey.
	NodeID *btcec.PublicKey
}

// SupportedQuantity returns the offer's quantity policy: exactly one item
// when no quantity record is set, unbounded when the record is zero valued
// and bounded by the record's value otherwise.
func (o *Offer) SupportedQuantity() Quantity {
	switch {
	case o.QuantityMax == nil:
		return Quantity{Kind: QuantityOne}

	case *o.QuantityMax == 0:
		return Quantity{Kind: QuantityUnbounded}

	default:
		return Quantity{Kind: QuantityBounded, Max: *o.QuantityMax}
	}
}

// records returns a set of tlv records for all of the offer's populated
// fields, in canonical (ascending type) order.
func (o *Offer) records() ([]tlv.Record, error) {
	var records []tlv.Record

	if len(o.Chains) > 0 {
		chains := make([]byte, 0, len(o.Chains)*chainhash.HashSize)
		for _, chain := range o.Chains {
			chain := chain
			chains = append(chains, chain[:]...)
		}

		records = append(
			records, tlv.MakePrimitiveRecord(chainsType, &chains),
		)
	}

	if len(o.Metadata) > 0 {
		metadata := o.Metadata

		records = append(
			records,
			tlv.MakePrimitiveRecord(metadataType, &metadata),
		)
	}

	switch o.Amount.Kind {
	case AmountBitcoin:
		msats := uint64(o.Amount.Msats)
		records = append(records, tu64Record(amountType, &msats))

	case AmountCurrency:
		if len(o.Amount.Currency) != 3 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCurrency,
				o.Amount.Currency)
		}

		currency := []byte(o.Amount.Currency)
		units := o.Amount.Units

		records = append(
			records,
			tlv.MakePrimitiveRecord(currencyType, &currency),
			tu64Record(amountType, &units),
		)
	}

	if o.Description != "" {
		descriptionBytes := []byte(o.Description)

		descriptionRecord := tlv.MakePrimitiveRecord(
			descriptionType, &descriptionBytes,
		)

		records = append(records, descriptionRecord)
	}

	if o.Features != nil && !o.Features.IsEmpty() {
		w := new(bytes.Buffer)

		if err := o.Features.Encode(w); err != nil {
			return nil, fmt.Errorf("encode features: %w", err)
		}

		features := w.Bytes()

		featuresRecord := tlv.MakePrimitiveRecord(
			featuresType, &features,
		)

		records = append(records, featuresRecord)
	}

	if !o.Expiry.IsZero() {
		expirySeconds := uint64(o.Expiry.Unix())

		records = append(
			records, tu64Record(expiryType, &expirySeconds),
		)
	}

	if len(o.Paths) > 0 {
		paths, err := encodeBlindedPaths(o.Paths)
		if err != nil {
			return nil, fmt.Errorf("encode paths: %w", err)
		}

		records = append(
			records, tlv.MakePrimitiveRecord(pathsType, &paths),
		)
	}

	if o.Issuer != "" {
		issuerBytes := []byte(o.Issuer)

		issuerRecord := tlv.MakePrimitiveRecord(issuerType, &issuerBytes)
		records = append(records, issuerRecord)
	}

	if o.QuantityMax != nil {
		maxRecord := tu64Record(quantityMaxType, o.QuantityMax)
		records = append(records, maxRecord)
	}

	if o.NodeID != nil {
		nodeID := o.NodeID.SerializeCompressed()

		nodeIDRecord := tlv.MakePrimitiveRecord(nodeIDType, &nodeID)
		records = append(records, nodeIDRecord)
	}

	return records, nil
}

// Validate performs the validation outlined in the specification for offers.
func (o *Offer) Validate() error {
	// The spec notes "if it sets a node ID ... otherwise MUST provide at
	// least one blinded path".
	if o.NodeID == nil && len(o.Paths) == 0 {
		return ErrNodeIDOrPathRequired
	}

	// An offer that charges an amount must say what it is charging for.
	if o.Amount.Kind != AmountAny && o.Description == "" {
		return ErrDescriptionRequired
	}

	if o.Amount.Kind == AmountCurrency && len(o.Amount.Currency) != 3 {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency,
			o.Amount.Currency)
	}

	return nil
}

// EncodeOffer encodes an offer.
func EncodeOffer(offer *Offer) ([]byte, error) {
	records, err := offer.records()
	if err != nil {
		return nil, fmt.Errorf("get records: %w", err)
	}

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return nil, fmt.Errorf("offer encode stream: %w", err)
	}

	buf := new(bytes.Buffer)
	if err := stream.Encode(buf); err != nil {
		return nil, fmt.Errorf("offer encode tlvs: %w", err)
	}

	return buf.Bytes(), nil
}

// DecodeOffer decodes a bolt 12 offer TLV stream.
func DecodeOffer(offerBytes []byte) (*Offer, error) {
	offer := &Offer{}

	var (
		chains, currency, description   []byte
		features, paths, issuer, nodeID []byte
		amount, expirySeconds, maxQty   uint64
	)

	records := []tlv.Record{
		tlv.MakePrimitiveRecord(chainsType, &chains),
		tlv.MakePrimitiveRecord(metadataType, &offer.Metadata),
		tlv.MakePrimitiveRecord(currencyType, &currency),
		tu64Record(amountType, &amount),
		tlv.MakePrimitiveRecord(descriptionType, &description),
		tlv.MakePrimitiveRecord(featuresType, &features),
		tu64Record(expiryType, &expirySeconds),
		tlv.MakePrimitiveRecord(pathsType, &paths),
		tlv.MakePrimitiveRecord(issuerType, &issuer),
		tu64Record(quantityMaxType, &maxQty),
		tlv.MakePrimitiveRecord(nodeIDType, &nodeID),
	}

	stream, err := tlv.NewStream(records...)
	if err != nil {
		return nil, fmt.Errorf("offer decode stream: %w", err)
	}

	r := bytes.NewReader(offerBytes)
	tlvMap, err := stream.DecodeWithParsedTypes(r)
	if err != nil {
		return nil, fmt.Errorf("offer decode: %w", err)
	}

	// Add typed values to our offer that were decoded using intermediate
	// vars.
	if _, ok := tlvMap[chainsType]; ok {
		offer.Chains, err = decodeChains(chains)
		if err != nil {
			return nil, fmt.Errorf("decode chains: %w", err)
		}
	}

	// The amount record is denominated in the currency's minor unit when a
	// currency record accompanies it, and in millisatoshi otherwise. A
	// currency without an amount does not make sense.
	var (
		_, haveCurrency = tlvMap[currencyType]
		_, haveAmount   = tlvMap[amountType]
	)

	switch {
	case haveCurrency && haveAmount:
		offer.Amount = Amount{
			Kind:     AmountCurrency,
			Currency: string(currency),
			Units:    amount,
		}

	case haveCurrency:
		return nil, ErrCurrencyNoAmount

	case haveAmount:
		offer.Amount = Amount{
			Kind:  AmountBitcoin,
			Msats: lnwire.MilliSatoshi(amount),
		}
	}

	if _, ok := tlvMap[descriptionType]; ok {
		offer.Description = string(description)
	}

	// We want to set a non-nil (empty) feature vector for our offer even
	// if no TLV was set, so we optionally decode the feature vector if it
	// was provided, setting an empty vector if it was not.
	rawFeatures := lnwire.NewRawFeatureVector()
	if _, ok := tlvMap[featuresType]; ok {
		err := rawFeatures.Decode(bytes.NewReader(features))
		if err != nil {
			return nil, fmt.Errorf("raw features decode: %w", err)
		}
	}
	offer.Features = lnwire.NewFeatureVector(rawFeatures, lnwire.Features)

	if _, ok := tlvMap[expiryType]; ok {
		offer.Expiry = time.Unix(int64(expirySeconds), 0)
	}

	if _, ok := tlvMap[pathsType]; ok {
		offer.Paths, err = decodeBlindedPaths(paths)
		if err != nil {
			return nil, fmt.Errorf("decode paths: %w", err)
		}
	}

	if _, ok := tlvMap[issuerType]; ok {
		offer.Issuer = string(issuer)
	}

	if _, ok := tlvMap[quantityMaxType]; ok {
		offer.QuantityMax = &maxQty
	}

	if _, ok := tlvMap[nodeIDType]; ok {
		if len(nodeID) != 33 {
			return nil, fmt.Errorf("%w: %v bytes",
				ErrInvalidNodeID, len(nodeID))
		}

		pubkey, err := btcec.ParsePubKey(nodeID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNodeID, err)
		}

		offer.NodeID = pubkey
	}

	return offer, nil
}

// decodeChains splits a chains record into its individual genesis hashes.
func decodeChains(chains []byte) ([]chainhash.Hash, error) {
	if len(chains)%chainhash.HashSize != 0 {
		return nil, fmt.Errorf("chains length: %v not a multiple "+
			"of: %v", len(chains), chainhash.HashSize)
	}

	decoded := make([]chainhash.Hash, 0, len(chains)/chainhash.HashSize)
	for i := 0; i < len(chains); i += chainhash.HashSize {
		chain, err := chainhash.NewHash(
			chains[i : i+chainhash.HashSize],
		)
		if err != nil {
			return nil, fmt.Errorf("new hash: %w", err)
		}

		decoded = append(decoded, *chain)
	}

	return decoded, nil
}

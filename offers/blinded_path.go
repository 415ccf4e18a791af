package offers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/lightningnetwork/lnd/lnwire"
)

// Sentinel first byte values for a path's introduction node reference: 0/1
// reference a channel (followed by an 8 byte short channel id, the value
// giving the direction), 2/3 are the parity byte of a compressed pubkey.
const (
	scidDirNodeOne = 0x00
	scidDirNodeTwo = 0x01
)

var (
	// ErrNoIntroductionNode is returned when a blinded path identifies its
	// introduction node neither by pubkey nor by channel reference.
	ErrNoIntroductionNode = errors.New("blinded path requires an " +
		"introduction node id or channel reference")

	// ErrNoBlindingPoint is returned when a blinded path is missing its
	// blinding point.
	ErrNoBlindingPoint = errors.New("blinded path requires a blinding " +
		"point")

	// ErrNoHops is returned when a blinded path contains no hops.
	ErrNoHops = errors.New("blinded path requires at least one hop")
)

// BlindedHop is a single blinded hop within a path to the offer node.
type BlindedHop struct {
	// BlindedNodeID is the blinded identity of the hop's node.
	BlindedNodeID *btcec.PublicKey

	// EncryptedData is an opaque blob that only the hop's node can
	// decrypt.
	EncryptedData []byte
}

// BlindedPath is a route to the offer node where every node past the
// introduction point is identity-blinded.
type BlindedPath struct {
	// IntroductionNode is the unblinded pubkey of the path's entry point.
	// Nil when the entry point is referenced by channel instead.
	IntroductionNode *btcec.PublicKey

	// IntroductionChan references the path's entry point by one of its
	// channels. Nil when IntroductionNode is set.
	IntroductionChan *lnwire.ShortChannelID

	// IntroductionChanDir selects which end of IntroductionChan is the
	// entry point, 0 for the first node and 1 for the second.
	IntroductionChanDir uint8

	// BlindingPoint is the ephemeral key the path was blinded with.
	BlindingPoint *btcec.PublicKey

	// Hops are the blinded hops that make up the path, ending at the
	// offer node.
	Hops []*BlindedHop
}

// encodeBlindedPaths serializes a set of blinded paths as the value of an
// offer paths record, which is simply the paths back to back.
func encodeBlindedPaths(paths []*BlindedPath) ([]byte, error) {
	w := new(bytes.Buffer)

	for i, path := range paths {
		if err := encodeBlindedPath(w, path); err != nil {
			return nil, fmt.Errorf("path: %v: %w", i, err)
		}
	}

	return w.Bytes(), nil
}

func encodeBlindedPath(w *bytes.Buffer, path *BlindedPath) error {
	switch {
	case path.IntroductionNode != nil:
		w.Write(path.IntroductionNode.SerializeCompressed())

	case path.IntroductionChan != nil:
		if path.IntroductionChanDir > scidDirNodeTwo {
			return fmt.Errorf("invalid channel direction: %v",
				path.IntroductionChanDir)
		}

		w.WriteByte(path.IntroductionChanDir)

		var scid [8]byte
		binary.BigEndian.PutUint64(
			scid[:], path.IntroductionChan.ToUint64(),
		)
		w.Write(scid[:])

	default:
		return ErrNoIntroductionNode
	}

	if path.BlindingPoint == nil {
		return ErrNoBlindingPoint
	}
	w.Write(path.BlindingPoint.SerializeCompressed())

	if len(path.Hops) == 0 {
		return ErrNoHops
	}
	if len(path.Hops) > 255 {
		return fmt.Errorf("too many hops: %v", len(path.Hops))
	}
	w.WriteByte(byte(len(path.Hops)))

	for _, hop := range path.Hops {
		if hop.BlindedNodeID == nil {
			return errors.New("hop requires a blinded node id")
		}
		w.Write(hop.BlindedNodeID.SerializeCompressed())

		if len(hop.EncryptedData) > 65535 {
			return fmt.Errorf("encrypted data too long: %v",
				len(hop.EncryptedData))
		}

		var encLen [2]byte
		binary.BigEndian.PutUint16(
			encLen[:], uint16(len(hop.EncryptedData)),
		)
		w.Write(encLen[:])
		w.Write(hop.EncryptedData)
	}

	return nil
}

// decodeBlindedPaths deserializes the value of an offer paths record, reading
// paths until the record is exhausted.
func decodeBlindedPaths(paths []byte) ([]*BlindedPath, error) {
	r := bytes.NewReader(paths)

	var decoded []*BlindedPath
	for r.Len() > 0 {
		path, err := decodeBlindedPath(r)
		if err != nil {
			return nil, fmt.Errorf("path: %v: %w", len(decoded),
				err)
		}

		decoded = append(decoded, path)
	}

	return decoded, nil
}

func decodeBlindedPath(r *bytes.Reader) (*BlindedPath, error) {
	path := &BlindedPath{}

	// The introduction node is either a directed channel reference or a
	// compressed pubkey, distinguished by the first byte.
	sentinel, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("introduction node: %w", err)
	}

	switch sentinel {
	case scidDirNodeOne, scidDirNodeTwo:
		var scid [8]byte
		if _, err := io.ReadFull(r, scid[:]); err != nil {
			return nil, fmt.Errorf("channel reference: %w", err)
		}

		channel := lnwire.NewShortChanIDFromInt(
			binary.BigEndian.Uint64(scid[:]),
		)

		path.IntroductionChan = &channel
		path.IntroductionChanDir = sentinel

	default:
		if err := r.UnreadByte(); err != nil {
			return nil, err
		}

		path.IntroductionNode, err = readPubKey(r)
		if err != nil {
			return nil, fmt.Errorf("introduction node: %w", err)
		}
	}

	path.BlindingPoint, err = readPubKey(r)
	if err != nil {
		return nil, fmt.Errorf("blinding point: %w", err)
	}

	hops, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("hop count: %w", err)
	}

	if hops == 0 {
		return nil, ErrNoHops
	}

	for i := 0; i < int(hops); i++ {
		hop := &BlindedHop{}

		hop.BlindedNodeID, err = readPubKey(r)
		if err != nil {
			return nil, fmt.Errorf("hop: %v: %w", i, err)
		}

		var encLen [2]byte
		if _, err := io.ReadFull(r, encLen[:]); err != nil {
			return nil, fmt.Errorf("hop: %v length: %w", i, err)
		}

		hop.EncryptedData = make(
			[]byte, binary.BigEndian.Uint16(encLen[:]),
		)
		if _, err := io.ReadFull(r, hop.EncryptedData); err != nil {
			return nil, fmt.Errorf("hop: %v data: %w", i, err)
		}

		path.Hops = append(path.Hops, hop)
	}

	return path, nil
}

// readPubKey reads a 33 byte compressed pubkey.
func readPubKey(r *bytes.Reader) (*btcec.PublicKey, error) {
	var pubkey [33]byte
	if _, err := io.ReadFull(r, pubkey[:]); err != nil {
		return nil, err
	}

	parsed, err := btcec.ParsePubKey(pubkey[:])
	if err != nil {
		return nil, fmt.Errorf("parse pubkey: %w", err)
	}

	return parsed, nil
}

package offers

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/lightningnetwork/lnd/tlv"
)

// encodeTU64 encodes a truncated uint64 tlv.
//
// Note: lnd doesn't have this functionality on its own yet (only in mpp encode)
// so it is added here.
func encodeTU64(w io.Writer, val interface{}, buf *[8]byte) error {
	if v, ok := val.(*uint64); ok {
		return tlv.ETUint64T(w, *v, buf)
	}

	return tlv.NewTypeForEncodingErr(val, "tu64")
}

// decodeTU64 decodes a truncated uint64 tlv. Truncated encoding drops all
// leading zero bytes of the value, so a zero length (meaning a zero value) is
// allowed and every non-zero length must carry a non-zero leading byte.
func decodeTU64(r io.Reader, val interface{}, buf *[8]byte, l uint64) error {
	if v, ok := val.(*uint64); ok && l <= 8 {
		if _, err := io.ReadFull(r, buf[8-l:]); err != nil {
			return err
		}

		for i := uint64(0); i < 8-l; i++ {
			buf[i] = 0
		}

		if l > 0 && buf[8-l] == 0 {
			return fmt.Errorf("tu64 value of length: %v not "+
				"minimally encoded", l)
		}

		*v = binary.BigEndian.Uint64(buf[:])
		return nil
	}

	return tlv.NewTypeForDecodingErr(val, "tu64", l, l)
}

func tu64Record(tlvType tlv.Type, value *uint64) tlv.Record {
	return tlv.MakeDynamicRecord(tlvType, value, func() uint64 {
		return tlv.SizeTUint64(*value)
	}, encodeTU64, decodeTU64)
}

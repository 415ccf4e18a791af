package offers

import (
	"fmt"
	"strings"
)

const charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

// decodeBech32 decodes a bech32 encoded string, returning the human-readable
// part and the data. This function does not expect a checksum to be included.
//
// Note: the data will be base32 encoded, that is each element of the returned
// byte array will encode 5 bits of data. Use the ConvertBits method to convert
// this to 8-bit representation.
//
// Note: This code is copied from lnd/zpay32/bech32.go @ 7662ea5d4d, full
// credit to the LL developers. Checksum verification is removed because we do
// not need it for bolt 12, and the checksum-based length bounds are relaxed
// accordingly.
func decodeBech32(bech string) (string, []byte, error) {
	// Only ASCII characters between 33 and 126 are allowed.
	for i := 0; i < len(bech); i++ {
		if bech[i] < 33 || bech[i] > 126 {
			return "", nil, fmt.Errorf("invalid character in "+
				"string: '%c'", bech[i])
		}
	}

	// The characters must be either all lowercase or all uppercase.
	lower := strings.ToLower(bech)
	upper := strings.ToUpper(bech)
	if bech != lower && bech != upper {
		return "", nil, fmt.Errorf("string not all lowercase or all " +
			"uppercase")
	}

	// We'll work with the lowercase string from now on.
	bech = lower

	// The string is invalid if the last '1' is non-existent or is the
	// first character of the string (no human-readable part). Since there
	// is no checksum, the data part only needs to be non-empty.
	// NB: The 90 character limit specified in BIP173 is skipped here, to
	// allow strings longer than 90 characters.
	one := strings.LastIndexByte(bech, '1')
	if one < 1 || one+1 == len(bech) {
		return "", nil, fmt.Errorf("invalid index of 1")
	}

	// The human-readable part is everything before the last '1'.
	hrp := bech[:one]
	data := bech[one+1:]

	// Each character corresponds to the byte with value of the index in
	// 'charset'.
	decoded, err := toBytes(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed converting data to bytes: "+
			"%v", err)
	}

	// We return the full decoded data body because we are not expecting a
	// checksum for bolt 12.
	return hrp, decoded[:], nil
}

// encodeBech32 encodes the base32 data provided into a bech32 string with the
// human-readable part given. No checksum is appended, mirroring decodeBech32.
func encodeBech32(hrp string, data []byte) (string, error) {
	for i := 0; i < len(hrp); i++ {
		if hrp[i] < 33 || hrp[i] > 126 {
			return "", fmt.Errorf("invalid character in hrp: '%c'",
				hrp[i])
		}
	}

	converted, err := toChars(data)
	if err != nil {
		return "", fmt.Errorf("failed converting data to chars: %v",
			err)
	}

	return strings.ToLower(hrp) + "1" + converted, nil
}

// toBytes converts each character in the string 'chars' to the value of the
// index of the corresponding character in 'charset'.
func toBytes(chars string) ([]byte, error) {
	decoded := make([]byte, 0, len(chars))
	for i := 0; i < len(chars); i++ {
		index := strings.IndexByte(charset, chars[i])
		if index < 0 {
			return nil, fmt.Errorf("invalid character not part of "+
				"charset: %v", chars[i])
		}
		decoded = append(decoded, byte(index))
	}
	return decoded, nil
}

// toChars converts each byte in 'data' to the character at the corresponding
// index in 'charset'.
func toChars(data []byte) (string, error) {
	result := make([]byte, 0, len(data))
	for _, b := range data {
		if int(b) >= len(charset) {
			return "", fmt.Errorf("invalid data byte: %v", b)
		}
		result = append(result, charset[b])
	}
	return string(result), nil
}

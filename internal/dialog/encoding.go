package dialog

import (
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// LegacyRoundTrip transcodes a string UTF-8 -> EUC-KR -> UTF-8 before it
// is embedded in a card payload. The downstream card consumer was built
// against an EUC-KR pipeline; for any text the codepage can represent
// this is a byte-for-byte no-op, and text it cannot represent is passed
// through unchanged rather than truncated.
func LegacyRoundTrip(s string) string {
	encoded, _, err := transform.String(korean.EUCKR.NewEncoder(), s)
	if err != nil {
		return s
	}
	decoded, _, err := transform.String(korean.EUCKR.NewDecoder(), encoded)
	if err != nil {
		return s
	}
	return decoded
}

package request

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/kochabx/requex/core/qs"
)

// Fingerprint identifies "the same logical request" for deduplication
type Fingerprint uint64

func (f Fingerprint) String() string {
	return strconv.FormatUint(uint64(f), 16)
}

// FingerprintOf hashes method, joined URL, canonical params and canonical
// payload. Map keys are sorted, so equal content yields equal fingerprints
// regardless of insertion order.
func FingerprintOf(d Descriptor) Fingerprint {
	h := xxhash.New()
	write := func(s string) {
		_, _ = h.WriteString(s)
		_, _ = h.Write([]byte{0})
	}

	write(strings.ToUpper(d.Method))
	write(d.FullURL())

	switch d.Body.Kind {
	case PayloadJSON:
		write(canonical(d.Body.JSON))
	case PayloadURLEncoded:
		write(d.Body.Encoded)
	case PayloadMultipart:
		for _, f := range d.Body.Form {
			write(f.Key)
			write(fmt.Sprint(f.Value))
		}
	default:
		write(canonical(d.Data))
	}

	return Fingerprint(h.Sum64())
}

func canonical(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	b, err := json.Marshal(m)
	if err != nil {
		return qs.Encode(m)
	}
	return string(b)
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

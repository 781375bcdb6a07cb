package identifier

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// entropyBytes is the random suffix length; 4 bytes renders as 8 hex chars.
const entropyBytes = 4

// NewOrderID returns an identifier of the form order_<unix-millis>_<hex>.
// The millisecond component keeps identifiers roughly time-ordered; the
// random suffix keeps concurrent calls within the same millisecond distinct.
func NewOrderID() string {
	return newID("order")
}

// NewCustomerID returns a fallback customer identifier using the same
// scheme, for requests that do not supply one.
func NewCustomerID() string {
	return newID("customer")
}

func newID(prefix string) string {
	buf := make([]byte, entropyBytes)
	if _, err := rand.Read(buf); err != nil {
		// The platform random source failing is a fatal process
		// condition, not a per-request error.
		panic(fmt.Sprintf("identifier: random source unavailable: %v", err))
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(buf))
}

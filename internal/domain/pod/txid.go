package pod

import (
	"fmt"
	"sync/atomic"
	"time"
)

var lastIDNanos atomic.Int64

// TransactionID genera "{product_id}-{retailer_id}-{nanos}". Los nanos son estrictamente crecientes
// dentro del proceso, así dos ids generados en el mismo instante nunca colisionan.
func TransactionID(productID, retailerID int64, at time.Time) string {
	return fmt.Sprintf("%d-%d-%d", productID, retailerID, monotonicNanos(at.UnixNano()))
}

func monotonicNanos(n int64) int64 {
	for {
		last := lastIDNanos.Load()
		next := n
		if next <= last {
			next = last + 1
		}
		if lastIDNanos.CompareAndSwap(last, next) {
			return next
		}
	}
}

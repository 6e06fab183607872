package sales

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// GenerateOrderNo builds a human-facing order number: DDMMYYYY plus five
// random digits. Collisions are possible and acceptable; order numbers are
// for the receipt, not a database key.
func GenerateOrderNo(now time.Time) string {
	return now.Format("02012006") + fmt.Sprintf("%05d", 10000+rand.IntN(90000))
}

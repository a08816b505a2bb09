package calculation

import "time"

// nowFunc stamps CalculatedAt on fresh results.
var nowFunc = time.Now

// SetNowFunc replaces the clock behind CalculatedAt. Tests pin it to make
// results comparable; pass time.Now to restore.
func SetNowFunc(f func() time.Time) { nowFunc = f }

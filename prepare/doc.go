// Package prepare cleans raw daily revenue series before modelling.
//
// Prepare sorts by date, drops duplicate dates (first occurrence wins), fills
// nulls and clips negatives to zero, adds a small stability offset and caps
// outliers above 10x the 95th percentile:
//
//	res, err := prepare.Prepare(raw, prepare.DefaultOptions())
//	if err != nil {
//	    return err // fault.ErrData: empty input, missing values or date gaps
//	}
//	fmt.Printf("%d outliers capped at %.2f\n", res.CappedCount, res.OutlierThreshold)
//
// Missing calendar days are rejected unless Options.FillGaps is set. Preparing
// an already prepared series is a no-op.
//
// Validate and Summarize report on the raw series without changing it.
package prepare

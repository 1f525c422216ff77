// Package timeseries provides the daily series type shared by every
// forecasting package, along with its CSV reader and writer.
//
// # Creating a Series
//
// Values are dated one calendar day apart:
//
//	series := timeseries.New([]float64{120.5, 98.2, 143.0})
//	series = timeseries.NewDaily(start, values)
//
// A NaN value marks a missing revenue entry. The prepare package turns such
// raw series into the sorted, gap-free, non-negative form the estimators
// expect.
//
// # Loading from CSV
//
// The reader expects a header row with a date column ("date" or "ds") and a
// value column ("revenue" by default):
//
//	series, err := timeseries.LoadCSV("revenue.csv", nil)
//
//	opts := &timeseries.CSVOptions{DateColumn: "day", ValueColumn: "earnings"}
//	series, err := timeseries.ReadCSV(reader, opts)
//
// Malformed input fails with an error classified as fault.ErrData.
//
// # Transformations
//
//	diff := series.Diff()            // First difference
//	diff2 := series.DiffN(2)         // Second difference
//	sdiff := series.SeasonalDiff(7)  // Weekly difference
//	subset := series.Slice(10, 50)   // Copy of a window
package timeseries

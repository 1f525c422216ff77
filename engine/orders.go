package engine

import (
	"github.com/sartorproj/revcast/config"
	"github.com/sartorproj/revcast/sarima"
)

// ResolveOrders decodes the configured order pair. Both must hold
// non-negative integers of the right arity within policy bounds; any
// failure invalidates the pair and is returned so the caller can fall back
// to the order search.
func ResolveOrders(rawOrder, rawSeasonal any) (sarima.Order, sarima.SeasonalOrder, error) {
	order, err := config.ParseOrder(rawOrder)
	if err != nil {
		return sarima.Order{}, sarima.SeasonalOrder{}, err
	}
	seasonal, err := config.ParseSeasonalOrder(rawSeasonal)
	if err != nil {
		return sarima.Order{}, sarima.SeasonalOrder{}, err
	}
	return order, seasonal, nil
}

package services

import (
	"fmt"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
)

// EvaluateAlerts returns the alert messages a set of check results triggers
// for a route. The availability message comes first and fires at most once;
// one price message follows per qualifying result, in result order.
func EvaluateAlerts(route config.Route, results []models.CheckResult) []string {
	var alerts []string

	if len(results) == 0 {
		return alerts
	}

	if route.AlertOnAvailability && anyAvailable(results) {
		alerts = append(alerts, fmt.Sprintf("✓ Trains available for %s", route.Name))
	}

	if route.AlertOnPriceDrop {
		for _, result := range results {
			if result.Price == nil || !withinMaxPrice(route, *result.Price) {
				continue
			}
			alerts = append(alerts, fmt.Sprintf(
				"💰 Price alert: $%.2f for %s (train %s, departs %s)",
				*result.Price, route.Name, models.OrNotAvailable(result.TrainNumber), models.OrNotAvailable(result.DepartureTime),
			))
		}
	}

	return alerts
}

func anyAvailable(results []models.CheckResult) bool {
	for _, r := range results {
		if r.Available {
			return true
		}
	}
	return false
}

// A route without max_price accepts any price
func withinMaxPrice(route config.Route, price float64) bool {
	return route.MaxPrice == nil || price <= *route.MaxPrice
}

// alertMemory suppresses messages that already fired for a route in the
// previous sweep. A message fires again once it has been absent for a sweep.
type alertMemory struct {
	last map[string]map[string]struct{}
}

func newAlertMemory() *alertMemory {
	return &alertMemory{last: make(map[string]map[string]struct{})}
}

// filter returns the messages that were not present on the previous call for
// the route and remembers the full set for the next one
func (m *alertMemory) filter(routeName string, alerts []string) []string {
	prev := m.last[routeName]
	current := make(map[string]struct{}, len(alerts))
	var fresh []string
	for _, a := range alerts {
		current[a] = struct{}{}
		if _, seen := prev[a]; !seen {
			fresh = append(fresh, a)
		}
	}
	m.last[routeName] = current
	return fresh
}

package domain

import "math"

const DefaultRatePerKm = 0.8

type FareBreakdown struct {
	DistanceKm int   `json:"distanceKm"`
	PerSeat    int64 `json:"perSeat"`
	SeatCharge int64 `json:"seatCharge"`
	MealCharge int64 `json:"mealCharge"`
	Total      int64 `json:"total"`
}

type FareCalculator struct {
	ratePerKm float64
	meals     *MealCatalog
}

func NewFareCalculator(ratePerKm float64, meals *MealCatalog) *FareCalculator {
	return &FareCalculator{ratePerKm: ratePerKm, meals: meals}
}

// PerSeat arredonda uma vez por assento, metade para longe de zero.
func (c *FareCalculator) PerSeat(distanceKm int) int64 {
	return int64(math.Round(float64(distanceKm) * c.ratePerKm))
}

// Fare precifica os assentos e as refeições escolhidas. Ids de refeição desconhecidos são
// descartados sem erro, então as linhas devolvidas só contêm refeições precificadas.
func (c *FareCalculator) Fare(distanceKm, seatCount int, selections []MealSelection) (FareBreakdown, []MealLine) {
	perSeat := c.PerSeat(distanceKm)
	fare := FareBreakdown{
		DistanceKm: distanceKm,
		PerSeat:    perSeat,
		SeatCharge: perSeat * int64(seatCount),
	}

	lines := make([]MealLine, 0, len(selections))
	for _, sel := range selections {
		line, ok := c.MealLine(sel)
		if !ok {
			continue
		}
		fare.MealCharge += line.Total
		lines = append(lines, line)
	}
	fare.Total = fare.SeatCharge + fare.MealCharge

	return fare, lines
}

func (c *FareCalculator) MealLine(sel MealSelection) (MealLine, bool) {
	meal, ok := c.meals.Get(sel.MealID)
	if !ok {
		return MealLine{}, false
	}
	return MealLine{
		MealID:          meal.ID,
		Name:            meal.Name,
		UnitPrice:       meal.Price,
		Quantity:        sel.Quantity,
		DeliveryStation: sel.DeliveryStation,
		Total:           meal.Price * int64(sel.Quantity),
	}, true
}

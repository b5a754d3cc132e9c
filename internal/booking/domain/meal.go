package domain

import "sort"

type MealType string

const (
	MealVeg    MealType = "veg"
	MealNonVeg MealType = "non-veg"
	MealJain   MealType = "jain"
)

type Meal struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Type        MealType `json:"type"`
	Available   bool     `json:"available"`
}

// MealSelection é uma refeição pedida, entregue em DeliveryStation (por padrão a estação de embarque).
type MealSelection struct {
	MealID          string `json:"mealId"`
	Quantity        int    `json:"quantity"`
	DeliveryStation string `json:"deliveryStation,omitempty"`
}

type MealCatalog struct {
	meals map[string]Meal
}

func NewMealCatalog(meals []Meal) *MealCatalog {
	byID := make(map[string]Meal, len(meals))
	for _, m := range meals {
		byID[m.ID] = m
	}
	return &MealCatalog{meals: byID}
}

// Get devolve apenas refeições oferecidas no momento.
func (c *MealCatalog) Get(id string) (Meal, bool) {
	m, ok := c.meals[id]
	if !ok || !m.Available {
		return Meal{}, false
	}
	return m, true
}

func (c *MealCatalog) List() []Meal {
	list := make([]Meal, 0, len(c.meals))
	for _, m := range c.meals {
		if m.Available {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

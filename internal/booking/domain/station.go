package domain

import (
	"fmt"
	"sort"
)

type Station struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Sequence      int    `json:"sequence"`
	DistanceKm    int    `json:"distanceKm"`
	ArrivalTime   string `json:"arrivalTime,omitempty"`
	DepartureTime string `json:"departureTime,omitempty"`
}

// Segment é um trecho semiaberto [Start, End) da rota, em km desde a origem.
type Segment struct {
	From Station
	To   Station
}

func (s Segment) Start() int { return s.From.DistanceKm }

func (s Segment) End() int { return s.To.DistanceKm }

func (s Segment) DistanceKm() int { return s.End() - s.Start() }

// Contains informa se a estação é um ponto de embarque dentro do trecho.
func (s Segment) Contains(st Station) bool {
	return st.DistanceKm >= s.Start() && st.DistanceKm < s.End()
}

// StationRegistry resolve ids de estação para coordenadas da rota. Imutável após a construção.
type StationRegistry struct {
	ordered []Station
	byID    map[string]Station
}

func NewStationRegistry(stations []Station) (*StationRegistry, error) {
	ordered := append([]Station(nil), stations...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Sequence < ordered[j].Sequence })

	byID := make(map[string]Station, len(ordered))
	for i, st := range ordered {
		if st.ID == "" {
			return nil, NewValidationError("stations", "station id is required")
		}
		if _, dup := byID[st.ID]; dup {
			return nil, NewValidationError("stations", fmt.Sprintf("duplicate station %q", st.ID))
		}
		if i > 0 {
			prev := ordered[i-1]
			if st.Sequence == prev.Sequence || st.DistanceKm <= prev.DistanceKm {
				return nil, NewValidationError("stations", fmt.Sprintf("station %q must be after %q along the route", st.ID, prev.ID))
			}
		}
		byID[st.ID] = st
	}

	return &StationRegistry{ordered: ordered, byID: byID}, nil
}

func (r *StationRegistry) Get(id string) (Station, error) {
	st, ok := r.byID[id]
	if !ok {
		return Station{}, &StationError{StationID: id}
	}
	return st, nil
}

func (r *StationRegistry) Resolve(id string) (int, error) {
	st, err := r.Get(id)
	if err != nil {
		return 0, err
	}
	return st.DistanceKm, nil
}

// ValidDirection é verdadeiro sse from vem antes de to na rota.
func (r *StationRegistry) ValidDirection(fromID, toID string) (bool, error) {
	from, err := r.Resolve(fromID)
	if err != nil {
		return false, err
	}
	to, err := r.Resolve(toID)
	if err != nil {
		return false, err
	}
	return from < to, nil
}

func (r *StationRegistry) Segment(fromID, toID string) (Segment, error) {
	valid, err := r.ValidDirection(fromID, toID)
	if err != nil {
		return Segment{}, err
	}
	if !valid {
		return Segment{}, fmt.Errorf("%w: %s must come before %s", ErrInvalidRoute, fromID, toID)
	}
	return Segment{From: r.byID[fromID], To: r.byID[toID]}, nil
}

func (r *StationRegistry) List() []Station {
	return append([]Station(nil), r.ordered...)
}

package domain

type Deck string

const (
	DeckLower Deck = "lower"
	DeckUpper Deck = "upper"
)

type Seat struct {
	ID         int  `json:"id"`
	Deck       Deck `json:"deck"`
	LadiesOnly bool `json:"ladiesOnly"`
}

// Interval é um assento seguro por uma reserva em [Start, End) numa data de viagem.
type Interval struct {
	SeatID      int    `json:"seatId"`
	BookingID   string `json:"bookingId"`
	JourneyDate string `json:"journeyDate"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Overlaps usa semântica semiaberta: encostar numa estação comum não é sobreposição.
// Intervalos em datas de viagem diferentes nunca se sobrepõem.
func (i Interval) Overlaps(journeyDate string, start, end int) bool {
	return i.JourneyDate == journeyDate && i.Start < end && i.End > start
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mateusmacedo/go-sleeper/internal/booking"
	"github.com/mateusmacedo/go-sleeper/internal/booking/application"
	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
	"github.com/mateusmacedo/go-sleeper/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-sleeper/internal/booking/reservation"
	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-sleeper/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-sleeper/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/channels/adapter"
	zapAdapter "github.com/mateusmacedo/go-sleeper/pkg/infrastructure/zaplogger/adapter"
)

// simulate dispara pedidos sobrepostos para os mesmos assentos pelo barramento de comandos e confere
// que cada assento termina com no máximo uma reserva por trecho sobreposto.
func main() {
	clients := flag.Int("clients", 50, "concurrent clients")
	seats := flag.Int("seats", 4, "seats contended by the clients")
	cancelEvery := flag.Int("cancel-every", 5, "cancel every n-th confirmed booking, 0 disables")
	level := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := zapAdapter.NewZapAppLogger("go-sleeper-simulate", *level, "console")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	ctx := context.Background()

	repo := infrastructure.NewInMemoryBookingRepository(logger)
	engine, err := reservation.NewEngine(infrastructure.SeedCatalog(), repo, pkgInfra.GenerateUUID, reservation.Config{}, logger)
	if err != nil {
		log.Fatalf("init engine: %v", err)
	}

	eventBus := channelsAdapter.NewChannelsEventBus[pkgDomain.Event[application.BookingEventData], application.BookingEventData](256, logger)
	defer eventBus.Close()

	var confirmedEvents, cancelledEvents atomic.Int64
	buses := booking.NewSimpleBuses(logger)
	booking.RegisterHandlers(buses, eventBus, engine, repo, logger)
	eventBus.RegisterHandler(application.BookingConfirmedEventName, countEvents(&confirmedEvents))
	eventBus.RegisterHandler(application.BookingCancelledEventName, countEvents(&cancelledEvents))

	stations := engine.Stations()
	var (
		wg                             sync.WaitGroup
		booked, conflicts, busy, other atomic.Int64
		mu                             sync.Mutex
		confirmed                      []string
	)

	start := time.Now()
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(client int) {
			defer wg.Done()

			from := stations[client%(len(stations)-1)]
			to := stations[len(stations)-1]
			seatIDs := make([]int, 0, 2)
			for s := 0; s < 2 && s < *seats; s++ {
				seatIDs = append(seatIDs, (client+s)%*seats+1)
			}

			bookingID := pkgInfra.GenerateUUID()
			err := buses.BookSegment.Dispatch(ctx, application.NewBookSegmentCommand(application.BookSegmentData{
				BookingID:   bookingID,
				SeatIDs:     seatIDs,
				FromStation: from.ID,
				ToStation:   to.ID,
				Contact: domain.Contact{
					Name:  fmt.Sprintf("Client %d", client),
					Email: fmt.Sprintf("client%d@example.com", client),
					Phone: "9000000000",
				},
			}))

			switch {
			case err == nil:
				booked.Add(1)
				mu.Lock()
				confirmed = append(confirmed, bookingID)
				mu.Unlock()
			case errors.Is(err, domain.ErrSeatUnavailable):
				conflicts.Add(1)
			case errors.Is(err, domain.ErrConcurrencyConflict):
				busy.Add(1)
			default:
				other.Add(1)
				pkgApp.LogError(ctx, logger, "unexpected booking failure", err, map[string]interface{}{"client": client})
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	cancelled := 0
	if *cancelEvery > 0 {
		for i, id := range confirmed {
			if i%*cancelEvery != 0 {
				continue
			}
			err := buses.CancelBooking.Dispatch(ctx, application.NewCancelBookingCommand(application.CancelBookingData{BookingID: id}))
			if err != nil {
				pkgApp.LogError(ctx, logger, "cancel failed", err, map[string]interface{}{"booking_id": id})
				continue
			}
			cancelled++
		}
	}

	stats, err := buses.Statistics.Dispatch(ctx, application.NewStatisticsQuery())
	if err != nil {
		log.Fatalf("statistics: %v", err)
	}

	// dá um tempo para os assinantes assíncronos drenarem
	time.Sleep(200 * time.Millisecond)

	fmt.Printf("clients=%d seats=%d elapsed=%s\n", *clients, *seats, elapsed)
	fmt.Printf("booked=%d conflicts=%d busy=%d failed=%d cancelled=%d\n",
		booked.Load(), conflicts.Load(), busy.Load(), other.Load(), cancelled)
	fmt.Printf("events confirmed=%d cancelled=%d\n", confirmedEvents.Load(), cancelledEvents.Load())
	fmt.Printf("stats total=%d confirmed=%d occupancy=%.2f%%\n", stats.TotalBookings, stats.ConfirmedBookings, stats.OccupancyRate)

	if err := verifyNoOverlap(engine, *seats); err != nil {
		log.Fatalf("inventory check failed: %v", err)
	}
	fmt.Println("inventory check passed: no overlapping intervals")
}

func countEvents(n *atomic.Int64) pkgApp.EventHandlerFunc[pkgDomain.Event[application.BookingEventData], application.BookingEventData] {
	return func(ctx context.Context, event pkgDomain.Event[application.BookingEventData]) error {
		n.Add(1)
		return nil
	}
}

func verifyNoOverlap(engine *reservation.Engine, seats int) error {
	for seatID := 1; seatID <= seats; seatID++ {
		intervals := engine.SeatIntervals(seatID)
		for i := 0; i < len(intervals); i++ {
			for j := i + 1; j < len(intervals); j++ {
				a, b := intervals[i], intervals[j]
				if a.Overlaps(b.JourneyDate, b.Start, b.End) {
					return fmt.Errorf("seat %d: bookings %s and %s overlap", seatID, a.BookingID, b.BookingID)
				}
			}
		}
	}
	return nil
}

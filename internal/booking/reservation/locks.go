package reservation

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/mateusmacedo/go-sleeper/internal/booking/domain"
)

// SeatLocks fornece um lock exclusivo por assento. Os conjuntos são sempre tomados em ordem
// crescente de assento, assim duas requisições sobrepostas não entram em deadlock.
type SeatLocks struct {
	mu    sync.Mutex
	locks map[int]*semaphore.Weighted
}

func NewSeatLocks() *SeatLocks {
	return &SeatLocks{locks: make(map[int]*semaphore.Weighted)}
}

func (l *SeatLocks) lock(seatID int) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.locks[seatID]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.locks[seatID] = sem
	}
	return sem
}

// Acquire bloqueia até segurar todos os assentos ou ctx terminar, caso em que nada fica preso.
// A func devolvida libera o conjunto inteiro.
func (l *SeatLocks) Acquire(ctx context.Context, seatIDs []int) (func(), error) {
	ordered := append([]int(nil), seatIDs...)
	sort.Ints(ordered)

	held := make([]*semaphore.Weighted, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}

	for _, id := range ordered {
		sem := l.lock(id)
		if err := sem.Acquire(ctx, 1); err != nil {
			release()
			return nil, fmt.Errorf("%w: seat %d: %w", domain.ErrConcurrencyConflict, id, err)
		}
		held = append(held, sem)
	}

	return release, nil
}

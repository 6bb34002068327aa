package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/seyifunmi/clinicshop/internal/booking/domain"
)

// fakeRepo enforces slot uniqueness the way the real constraint does: the
// first commit wins, every later one gets ErrSlotTaken.
type fakeRepo struct {
	mu    sync.Mutex
	slots map[string]struct{}
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: make(map[string]struct{})}
}

func (f *fakeRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := b.CategoryID + "|" + b.Date.Format("2006-01-02") + "|" + b.StartTime
	if _, taken := f.slots[key]; taken {
		return domain.Booking{}, ErrSlotTaken
	}
	f.slots[key] = struct{}{}

	b.ID = key
	return b, nil
}

func (f *fakeRepo) ListCategories(ctx context.Context) ([]domain.InjectionCategory, error) {
	return nil, nil
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	svc := NewService(repo)
	svc.now = fixedNow
	return svc, repo
}

func validRequest() BookRequest {
	return BookRequest{
		CategoryID:  "cat-1",
		PatientName: "Ada Obi",
		Phone:       "09039871169",
		Date:        time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
	}
}

func TestBookWindowBoundaries(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		start  string
		wantOK bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"20:00", true},
		{"20:01", false},
		{"garbage", false},
	}

	for _, tc := range cases {
		t.Run(tc.start, func(t *testing.T) {
			svc, _ := newTestService()
			req := validRequest()
			req.StartTime = tc.start

			_, err := svc.Book(ctx, req)
			if tc.wantOK && err != nil {
				t.Fatalf("expected accept, got %v", err)
			}
			if !tc.wantOK && !errors.Is(err, ErrInvalidSlot) {
				t.Fatalf("expected ErrInvalidSlot, got %v", err)
			}
		})
	}
}

func TestBookDateWindow(t *testing.T) {
	ctx := context.Background()

	t.Run("yesterday -> rejected", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.Date = fixedNow().AddDate(0, 0, -1)

		_, err := svc.Book(ctx, req)
		if !errors.Is(err, ErrPastDate) {
			t.Fatalf("expected ErrPastDate, got %v", err)
		}
	})

	t.Run("today -> accepted", func(t *testing.T) {
		svc, _ := newTestService()
		req := validRequest()
		req.Date = fixedNow()

		if _, err := svc.Book(ctx, req); err != nil {
			t.Fatalf("expected accept, got %v", err)
		}
	})
}

func TestBookMissingFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	req := validRequest()
	req.PatientName = "   "

	_, err := svc.Book(ctx, req)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConcurrentBookingsOneWinner(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	const N = 20
	var wins, conflicts int
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < N; i++ {
		g.Go(func() error {
			_, err := svc.Book(ctx, validRequest())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrSlotTaken):
				conflicts++
			default:
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wins != 1 || conflicts != N-1 {
		t.Fatalf("expected exactly 1 winner and %d conflicts, got %d/%d", N-1, wins, conflicts)
	}
	if len(repo.slots) != 1 {
		t.Fatalf("expected a single committed booking, got %d", len(repo.slots))
	}
}

func TestDifferentCategorySameTimeIsFree(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	if _, err := svc.Book(ctx, validRequest()); err != nil {
		t.Fatal(err)
	}

	req := validRequest()
	req.CategoryID = "cat-2"
	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("different category must not collide, got %v", err)
	}
}

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/repository"
	"github.com/jinzhu/now"
)

const defaultRecentLimit = 5

var ErrHotelNotFound = errors.New("hotel not found")

type Stats struct {
	Hotel                 domain.Hotel
	TodaysArrivals        int
	TodaysDepartures      int
	RevenueThisMonthCents int64
	NewBookingsThisMonth  int
	RecentActivities      []domain.Booking
}

type DashboardUseCase interface {
	Stats(ctx context.Context, hotelID string) (*Stats, error)
}

type DashboardService struct {
	bookings    repository.BookingRepository
	hotels      repository.HotelRepository
	recentLimit int
	now         func() time.Time
}

type Option func(*DashboardService)

func WithRecentLimit(limit int) Option {
	return func(s *DashboardService) {
		if limit > 0 {
			s.recentLimit = limit
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *DashboardService) {
		s.now = clock
	}
}

func NewDashboardService(bookings repository.BookingRepository, hotels repository.HotelRepository, opts ...Option) *DashboardService {
	s := &DashboardService{
		bookings:    bookings,
		hotels:      hotels,
		recentLimit: defaultRecentLimit,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats is recomputed from the hotel's bookings on every call.
func (s *DashboardService) Stats(ctx context.Context, hotelID string) (*Stats, error) {
	hotel, err := s.hotels.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("get hotel: %w", err)
	}

	bookings, err := s.bookings.ListByHotel(ctx, hotelID, domain.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	current := s.now()
	today := current.Format(domain.DateLayout)
	monthStart := now.With(current).BeginningOfMonth()

	stats := &Stats{Hotel: *hotel}
	for i := range bookings {
		b := &bookings[i]
		active := b.Status.CountsTowardRevenue()

		if active && b.Period.CheckInDate.Format(domain.DateLayout) == today {
			stats.TodaysArrivals++
		}
		if active && b.Period.CheckOutDate.Format(domain.DateLayout) == today {
			stats.TodaysDepartures++
		}
		if !b.CreatedAt.Before(monthStart) {
			stats.NewBookingsThisMonth++
			if active {
				stats.RevenueThisMonthCents += b.CoreData.TotalPriceCents
			}
		}
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	if len(bookings) > s.recentLimit {
		bookings = bookings[:s.recentLimit]
	}
	stats.RecentActivities = bookings
	return stats, nil
}

var _ DashboardUseCase = (*DashboardService)(nil)

package hotels

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/Domenick1991/guestportal/internal/repository"
)

var ErrHotelNotFound = errors.New("hotel not found")

type HotelUseCase interface {
	List(ctx context.Context) ([]domain.Hotel, error)
	GetByID(ctx context.Context, id string) (*domain.Hotel, error)
}

type HotelCache interface {
	GetHotels(ctx context.Context) ([]domain.Hotel, error)
	SetHotels(ctx context.Context, hotels []domain.Hotel) error
}

type HotelService struct {
	repo  repository.HotelRepository
	cache HotelCache
}

func NewHotelService(repo repository.HotelRepository, cache HotelCache) *HotelService {
	return &HotelService{repo: repo, cache: cache}
}

// List serves the hotel selector. A cache miss or a cache failure falls back
// to the repository.
func (s *HotelService) List(ctx context.Context) ([]domain.Hotel, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetHotels(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	hotels, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list hotels: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.SetHotels(ctx, hotels); err != nil {
			log.Printf("WARNING: failed to cache hotels: %v", err)
		}
	}
	return hotels, nil
}

func (s *HotelService) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	hotel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHotelNotFound
		}
		return nil, fmt.Errorf("get hotel: %w", err)
	}
	return hotel, nil
}

var _ HotelUseCase = (*HotelService)(nil)

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/guestportal/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type hotelModel struct {
	ID   string `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
}

func (hotelModel) TableName() string { return "hotels" }

type bookingModel struct {
	ID                string         `gorm:"column:id;primaryKey"`
	HotelID           string         `gorm:"column:hotel_id;not null;index:idx_bookings_hotel_created,priority:1"`
	Status            string         `gorm:"column:status;not null"`
	Token             string         `gorm:"column:token;not null;uniqueIndex"`
	GuestFirstName    string         `gorm:"column:guest_first_name;not null"`
	GuestLastName     string         `gorm:"column:guest_last_name;not null"`
	CheckInDate       time.Time      `gorm:"column:check_in_date;not null"`
	CheckOutDate      time.Time      `gorm:"column:check_out_date;not null"`
	Catering          string         `gorm:"column:catering;not null"`
	TotalPriceCents   int64          `gorm:"column:total_price_cents;not null"`
	GuestFormLanguage string         `gorm:"column:guest_form_language;not null"`
	Rooms             datatypes.JSON `gorm:"column:rooms;not null"`
	InternalNotes     *string        `gorm:"column:internal_notes"`
	Guest             *string        `gorm:"column:guest"`
	Revision          int64          `gorm:"column:revision;not null;default:1"`
	CreatedAt         time.Time      `gorm:"column:created_at;index:idx_bookings_hotel_created,priority:2"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) (*domain.Booking, error) {
	b := &domain.Booking{
		ID:      m.ID,
		HotelID: m.HotelID,
		Status:  domain.BookingStatus(m.Status),
		Token:   m.Token,
		GuestInfo: domain.GuestInfo{
			FirstName: m.GuestFirstName,
			LastName:  m.GuestLastName,
		},
		Period: domain.BookingPeriod{
			CheckInDate:  m.CheckInDate.UTC(),
			CheckOutDate: m.CheckOutDate.UTC(),
		},
		CoreData: domain.CoreData{
			Catering:          domain.Catering(m.Catering),
			TotalPriceCents:   m.TotalPriceCents,
			GuestFormLanguage: m.GuestFormLanguage,
		},
		InternalNotes: m.InternalNotes,
		Revision:      m.Revision,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	var guest []byte
	if m.Guest != nil {
		guest = []byte(*m.Guest)
	}
	if err := unmarshalBookingJSON(b, m.Rooms, guest); err != nil {
		return nil, err
	}
	return b, nil
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	rooms, err := json.Marshal(b.Rooms)
	if err != nil {
		return bookingModel{}, fmt.Errorf("marshal rooms: %w", err)
	}
	m := bookingModel{
		ID:                b.ID,
		HotelID:           b.HotelID,
		Status:            string(b.Status),
		Token:             b.Token,
		GuestFirstName:    b.GuestInfo.FirstName,
		GuestLastName:     b.GuestInfo.LastName,
		CheckInDate:       b.Period.CheckInDate,
		CheckOutDate:      b.Period.CheckOutDate,
		Catering:          string(b.CoreData.Catering),
		TotalPriceCents:   b.CoreData.TotalPriceCents,
		GuestFormLanguage: b.CoreData.GuestFormLanguage,
		Rooms:             datatypes.JSON(rooms),
		InternalNotes:     b.InternalNotes,
		Revision:          b.Revision,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.Guest != nil {
		data, err := json.Marshal(b.Guest)
		if err != nil {
			return bookingModel{}, fmt.Errorf("marshal guest submission: %w", err)
		}
		s := string(data)
		m.Guest = &s
	}
	return m, nil
}

// GormBookingRepository serves the same contract as the pgx repository on top
// of gorm, so local setups can run on SQLite.
type GormBookingRepository struct {
	db *gorm.DB
}

func NewGormBookingRepository(db *gorm.DB) BookingRepository {
	return &GormBookingRepository{db: db}
}

// MigrateGorm creates or updates the hotels and bookings tables.
func MigrateGorm(db *gorm.DB) error {
	return db.AutoMigrate(&hotelModel{}, &bookingModel{})
}

func (r *GormBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	m, err := toBookingModel(booking)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *GormBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormBookingRepository) GetByToken(ctx context.Context, token string) (*domain.Booking, error) {
	return r.first(ctx, "token = ?", token)
}

func (r *GormBookingRepository) ListByHotel(ctx context.Context, hotelID string, filter domain.BookingFilter) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).Where("hotel_id = ?", hotelID)
	if filter.HasStatus() {
		q = q.Where("status = ?", string(filter.Status))
	}

	var rows []bookingModel
	if err := q.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		b, err := toDomainBooking(m)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, nil
}

func (r *GormBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	m, err := toBookingModel(booking)
	if err != nil {
		return err
	}

	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND hotel_id = ? AND revision = ?", booking.ID, booking.HotelID, booking.Revision).
		Updates(map[string]any{
			"guest_first_name":    m.GuestFirstName,
			"guest_last_name":     m.GuestLastName,
			"check_in_date":       m.CheckInDate,
			"check_out_date":      m.CheckOutDate,
			"catering":            m.Catering,
			"total_price_cents":   m.TotalPriceCents,
			"guest_form_language": m.GuestFormLanguage,
			"rooms":               m.Rooms,
			"internal_notes":      m.InternalNotes,
			"revision":            gorm.Expr("revision + 1"),
			"updated_at":          time.Now().UTC(),
		})
	if err := r.checkAffected(ctx, booking.ID, res); err != nil {
		return err
	}

	updated, err := r.GetByID(ctx, booking.ID)
	if err != nil {
		return err
	}
	*booking = *updated
	return nil
}

func (r *GormBookingRepository) SubmitGuest(ctx context.Context, id string, expectedRevision int64, submission domain.GuestSubmission) (*domain.Booking, error) {
	data, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("marshal guest submission: %w", err)
	}

	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ? AND guest IS NULL AND revision = ?", id, string(domain.BookingStatusPendingGuest), expectedRevision).
		Updates(map[string]any{
			"guest":      string(data),
			"status":     string(domain.BookingStatusConfirmed),
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now().UTC(),
		})
	if err := r.checkAffected(ctx, id, res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *GormBookingRepository) UpdateStatus(ctx context.Context, id string, expectedRevision int64, status domain.BookingStatus) (*domain.Booking, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND revision = ?", id, expectedRevision).
		Updates(map[string]any{
			"status":     string(status),
			"revision":   gorm.Expr("revision + 1"),
			"updated_at": time.Now().UTC(),
		})
	if err := r.checkAffected(ctx, id, res); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *GormBookingRepository) Delete(ctx context.Context, id, hotelID string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND hotel_id = ?", id, hotelID).Delete(&bookingModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormBookingRepository) first(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toDomainBooking(m)
}

func (r *GormBookingRepository) checkAffected(ctx context.Context, id string, res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrConflict
	}
	return ErrNotFound
}

type GormHotelRepository struct {
	db *gorm.DB
}

func NewGormHotelRepository(db *gorm.DB) HotelRepository {
	return &GormHotelRepository{db: db}
}

func (r *GormHotelRepository) List(ctx context.Context) ([]domain.Hotel, error) {
	var rows []hotelModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	hotels := make([]domain.Hotel, 0, len(rows))
	for _, h := range rows {
		hotels = append(hotels, domain.Hotel{ID: h.ID, Name: h.Name})
	}
	return hotels, nil
}

func (r *GormHotelRepository) GetByID(ctx context.Context, id string) (*domain.Hotel, error) {
	var h hotelModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &domain.Hotel{ID: h.ID, Name: h.Name}, nil
}

func (r *GormHotelRepository) Seed(ctx context.Context, hotels []domain.Hotel) error {
	if len(hotels) == 0 {
		return nil
	}
	rows := make([]hotelModel, 0, len(hotels))
	for _, h := range hotels {
		rows = append(rows, hotelModel{ID: h.ID, Name: h.Name})
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(&rows).Error
}

var (
	_ BookingRepository = (*GormBookingRepository)(nil)
	_ HotelRepository   = (*GormHotelRepository)(nil)
)

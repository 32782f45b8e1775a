package utils

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"rentverse/src/config"
	"rentverse/src/db"
	"rentverse/src/models"
	"rentverse/src/types"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CancellationResult is what cancelling a booking reports back to the caller.
type CancellationResult struct {
	RefundAmount     float64   `json:"refund_amount"`
	PenaltyAmount    float64   `json:"penalty_amount"`
	CancellationDate time.Time `json:"cancellation_date"`
}

func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(config.DATE_PARSE_FORMAT, value)
	if err != nil {
		return time.Time{}, types.WrapAppError(types.ErrCodeValidation, "invalid date format, use YYYY-MM-DD", err)
	}
	return date, nil
}

// Today returns the current calendar date at midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// lockForUpdate takes a row lock so two concurrent booking requests for the
// same listing serialize on the availability check. sqlite has no row locks;
// its single writer already serializes the transaction.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() != "postgres" {
		return tx
	}
	return tx.Clauses(clause.Locking{
		Strength: "UPDATE",
		Table:    clause.Table{Name: clause.CurrentTable},
	})
}

// FindCouponByCode looks a coupon up leniently: any miss or error yields nil
// so booking creation degrades to a zero discount instead of failing.
func FindCouponByCode(tx *gorm.DB, code string) *models.Coupon {
	var coupon models.Coupon
	err := tx.
		Model(&models.Coupon{}).
		Where(&models.Coupon{Code: code, IsActive: true}).
		First(&coupon).
		Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Error looking up coupon %s: %s\n", code, err.Error())
		}
		return nil
	}
	return &coupon
}

// HasOverlappingBooking reports whether the listing already holds a pending
// or confirmed booking overlapping [start, end]. Endpoints count as overlap.
func HasOverlappingBooking(tx *gorm.DB, listingID uint, start, end time.Time) (bool, error) {
	var count int64
	err := tx.
		Model(&models.Booking{}).
		Where(&models.Booking{ListingID: listingID}).
		Where(clause.IN{Column: "status", Values: []any{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}}).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// QuotePrice computes the itemized breakdown for a listing and date range
// without touching any booking state. Calling it twice with the same inputs
// returns the same quote.
func QuotePrice(listingID uint, start, end time.Time, couponCode *string) (*models.BookingQuote, error) {
	db := db.GetDb()
	var listing models.Listing
	if err := db.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: listingID}).
		First(&listing).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.ErrCodeNotFound, "listing not found")
		}
		return nil, err
	}
	var coupon *models.Coupon
	if couponCode != nil && *couponCode != "" {
		coupon = FindCouponByCode(db, *couponCode)
	}
	return models.CalculateBookingTotal(listing.Price, start, end, coupon, time.Now().UTC())
}

// CreateBooking runs the whole booking request: date validation, listing
// status check, availability check, pricing, and persistence, in one
// transaction. Coupon redemption happens in the same transaction as the
// booking row so a failed usage write never leaves an uncredited discount.
func CreateBooking(renterID uint, params *types.CreateBookingRequestBody) (*models.Booking, error) {
	start, err := ParseDate(params.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(params.EndDate)
	if err != nil {
		return nil, err
	}
	today := Today()
	if start.Before(today) {
		return nil, types.NewAppError(types.ErrCodeValidation, "start date cannot be in the past")
	}
	if start.After(today.AddDate(0, 0, config.MAX_ADVANCE_DAYS)) {
		return nil, types.NewAppError(types.ErrCodeValidation, "booking cannot be more than 1 year in advance")
	}
	if !end.After(start) {
		return nil, types.NewAppError(types.ErrCodeValidation, "end date must be after start date")
	}

	var booking models.Booking
	db := db.GetDb()
	err = db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := lockForUpdate(tx).
			Where(&models.Listing{ID: params.ListingID}).
			First(&listing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAppError(types.ErrCodeNotFound, "listing not found")
			}
			return err
		}
		if !listing.Bookable() {
			return types.NewAppError(types.ErrCodeValidation, "this listing is not available for booking")
		}

		overlaps, err := HasOverlappingBooking(tx, listing.ID, start, end)
		if err != nil {
			return err
		}
		if overlaps {
			return types.NewAppError(types.ErrCodeConflict, "this listing is already booked for the selected dates")
		}

		var coupon *models.Coupon
		if params.CouponCode != nil && *params.CouponCode != "" {
			coupon = FindCouponByCode(tx, *params.CouponCode)
		}
		quote, err := models.CalculateBookingTotal(listing.Price, start, end, coupon, time.Now().UTC())
		if err != nil {
			return err
		}

		booking = models.Booking{
			ListingID:            listing.ID,
			RenterID:             renterID,
			StartDate:            start,
			EndDate:              end,
			TotalAmount:          quote.Total,
			ServiceFee:           quote.ServiceFee,
			Status:               types.BOOKING_PENDING,
			PaymentStatus:        types.PAYMENT_PENDING,
			CancellationPolicyID: params.CancellationPolicyID,
			SpecialRequests:      params.SpecialRequests,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if coupon != nil && quote.Discount > 0 {
			if err := redeemCoupon(tx, coupon, renterID, &booking, quote); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// redeemCoupon increments used_count and writes the usage row inside the
// booking transaction. The increment is a compare-and-increment guarded by
// the usage limit, so concurrent redemptions cannot push a coupon past its
// cap. If the coupon ran out between pricing and here the discount is
// dropped and the booking is re-priced without it (lenient coupon policy).
func redeemCoupon(tx *gorm.DB, coupon *models.Coupon, renterID uint, booking *models.Booking, quote *models.BookingQuote) error {
	res := tx.
		Model(&models.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", coupon.ID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		log.Printf("Coupon %s ran out before redemption, dropping discount\n", coupon.Code)
		total := models.Round2(quote.BaseAmount + quote.ServiceFee)
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Update("total_amount", total).
			Error; err != nil {
			return err
		}
		booking.TotalAmount = total
		quote.Discount = 0
		quote.Total = total
		return nil
	}
	usage := models.CouponUsage{
		CouponID:       coupon.ID,
		UserID:         renterID,
		BookingID:      booking.ID,
		DiscountAmount: quote.Discount,
	}
	if err := tx.Create(&usage).Error; err != nil {
		return err
	}
	return nil
}

// CancelBooking cancels a pending or confirmed booking on behalf of its
// renter or the listing's owner, computes the refund split under the
// booking's cancellation policy, and records a refund payment when due.
func CancelBooking(bookingID uint, requesterID uint, reason string) (*CancellationResult, error) {
	if reason == "" {
		reason = "No reason provided"
	}
	var result CancellationResult
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Preload("Listing").
			Preload("CancellationPolicy").
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAppError(types.ErrCodeNotFound, "booking not found")
			}
			return err
		}
		if booking.Status.Terminal() {
			return types.NewAppError(types.ErrCodeInvalidTransition, "booking cannot be cancelled")
		}
		if booking.RenterID != requesterID && (booking.Listing == nil || booking.Listing.OwnerID != requesterID) {
			return types.NewAppError(types.ErrCodeUnauthorized, "you do not have permission to cancel this booking")
		}

		refund, penalty := models.CalculateRefund(&booking, booking.CancellationPolicy, Today())
		now := time.Now().UTC()
		paymentStatus := types.PAYMENT_PENDING
		if refund > 0 {
			paymentStatus = types.PAYMENT_REFUNDED
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Updates(&models.Booking{
				Status:             types.BOOKING_CANCELED,
				PaymentStatus:      paymentStatus,
				CancellationReason: &reason,
				CancellationDate:   &now,
			}).
			Error; err != nil {
			return err
		}
		if refund > 0 {
			payment := models.Payment{
				BookingID:     booking.ID,
				Amount:        refund,
				TransactionID: uuid.NewString(),
				Status:        types.PAYMENT_RECORD_SUCCESS,
				PaymentType:   types.PAYMENT_TYPE_REFUND,
				ProcessedAt:   &now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		result = CancellationResult{
			RefundAmount:     refund,
			PenaltyAmount:    penalty,
			CancellationDate: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ConfirmBooking moves a pending booking to confirmed. Only the listing's
// owner accepts a booking request.
func ConfirmBooking(bookingID uint, requesterID uint) (*models.Booking, error) {
	var booking models.Booking
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: bookingID}).
			Preload("Listing").
			First(&booking).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewAppError(types.ErrCodeNotFound, "booking not found")
			}
			return err
		}
		if booking.Listing == nil || booking.Listing.OwnerID != requesterID {
			return types.NewAppError(types.ErrCodeUnauthorized, "you do not have permission to confirm this booking")
		}
		if booking.Status != types.BOOKING_PENDING {
			return types.NewAppError(types.ErrCodeInvalidTransition, "only pending bookings can be confirmed")
		}
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ID: booking.ID}).
			Update("status", types.BOOKING_CONFIRMED).
			Error; err != nil {
			return err
		}
		booking.Status = types.BOOKING_CONFIRMED
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// CompleteElapsedBookings marks confirmed bookings whose end date has passed
// as completed. Runs on a schedule.
func CompleteElapsedBookings() {
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.
			Model(&models.Booking{}).
			Where("status = ?", types.BOOKING_CONFIRMED).
			Where("end_date < ?", Today()).
			Update("status", types.BOOKING_COMPLETED)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			log.Printf("Completed %d elapsed bookings\n", res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		log.Printf("Error completing elapsed bookings: %s\n", err.Error())
	}
}

// DeactivateListing takes a listing off the market. Blocked while future
// pending or confirmed bookings exist against it.
func DeactivateListing(listingID uint, requesterID uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		listing, err := findOwnedListing(tx, listingID, requesterID)
		if err != nil {
			return err
		}
		var active int64
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ListingID: listing.ID}).
			Where(clause.IN{Column: "status", Values: []any{types.BOOKING_PENDING, types.BOOKING_CONFIRMED}}).
			Where("start_date > ?", Today()).
			Count(&active).
			Error; err != nil {
			return err
		}
		if active > 0 {
			return types.NewAppError(types.ErrCodeConflict, "cannot deactivate listing with active bookings, cancel them first")
		}
		return tx.
			Model(&models.Listing{}).
			Where(&models.Listing{ID: listing.ID}).
			Update("status", types.LISTING_INACTIVE).
			Error
	})
}

// ReactivateListing puts a listing back on the market.
func ReactivateListing(listingID uint, requesterID uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		listing, err := findOwnedListing(tx, listingID, requesterID)
		if err != nil {
			return err
		}
		return tx.
			Model(&models.Listing{}).
			Where(&models.Listing{ID: listing.ID}).
			Update("status", types.LISTING_ACTIVE).
			Error
	})
}

// DeleteListing removes a listing and its images. Blocked while any booking,
// whatever its status, still references the listing.
func DeleteListing(listingID uint, requesterID uint) error {
	db := db.GetDb()
	return db.Transaction(func(tx *gorm.DB) error {
		listing, err := findOwnedListing(tx, listingID, requesterID)
		if err != nil {
			return err
		}
		var bookings int64
		if err := tx.
			Model(&models.Booking{}).
			Where(&models.Booking{ListingID: listing.ID}).
			Count(&bookings).
			Error; err != nil {
			return err
		}
		if bookings > 0 {
			return types.NewAppError(types.ErrCodeConflict, "cannot delete listing with bookings, deactivate instead")
		}
		if err := tx.
			Where(&models.ListingImage{ListingID: listing.ID}).
			Delete(&models.ListingImage{}).
			Error; err != nil {
			return err
		}
		return tx.Delete(&models.Listing{}, listing.ID).Error
	})
}

func findOwnedListing(tx *gorm.DB, listingID uint, requesterID uint) (*models.Listing, error) {
	var listing models.Listing
	if err := tx.
		Model(&models.Listing{}).
		Where(&models.Listing{ID: listingID}).
		First(&listing).
		Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewAppError(types.ErrCodeNotFound, "listing not found")
		}
		return nil, err
	}
	if listing.OwnerID != requesterID {
		return nil, types.NewAppError(types.ErrCodeUnauthorized, "you do not have permission to manage this listing")
	}
	return &listing, nil
}

// GenerateJWT issues a bearer token for a user. The routing layer owns real
// session handling; this keeps the middleware testable.
func GenerateJWT(email string, userID uint) (string, error) {
	jwtKey := []byte(os.Getenv("JWT_SECRET"))
	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &types.Claims{
		Username: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(int(userID)),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

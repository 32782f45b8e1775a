package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentverse/src/boot"
	"rentverse/src/config"
	"rentverse/src/db"
	"rentverse/src/middlewares"
	"rentverse/src/models"
	"rentverse/src/types"
	"rentverse/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/tidwall/gjson"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type RouteTestSuite struct {
	suite.Suite
	DB         *gorm.DB
	Owner      models.User
	Renter     models.User
	Listing    models.Listing
	Token      *string
	OwnerToken *string
}

func (s *RouteTestSuite) SetupSuite() {
	gormDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		log.Fatalf("An error '%s' was not expected when opening the test database", err)
	}
	db.NewDB(gormDB)
	s.DB = gormDB

	err = gormDB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.ListingImage{},
		&models.CancellationPolicy{},
		&models.Booking{},
		&models.Coupon{},
		&models.CouponUsage{},
		&models.Payment{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}
	boot.SeedDefaults(gormDB)

	s.Owner = models.User{Name: "Test Owner", Email: "owner@example.com", IsActive: true}
	s.Renter = models.User{Name: "Test Renter", Email: "renter@example.com", IsActive: true}
	for _, user := range []*models.User{&s.Owner, &s.Renter} {
		if err := gormDB.Create(user).Error; err != nil {
			log.Fatalf("Could not create user due to error: %s\n", err.Error())
		}
	}

	s.Listing = models.Listing{
		Title:       "Road bike",
		Description: "A road bike for weekend rides",
		Price:       1000,
		Location:    "Mumbai",
		CategoryID:  1,
		OwnerID:     s.Owner.ID,
		Status:      types.LISTING_ACTIVE,
	}
	if err := gormDB.Create(&s.Listing).Error; err != nil {
		log.Fatalf("Could not create listing due to error: %s\n", err.Error())
	}

	token, err := utils.GenerateJWT(s.Renter.Email, s.Renter.ID)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.Token = &token
	ownerToken, err := utils.GenerateJWT(s.Owner.Email, s.Owner.ID)
	if err != nil {
		log.Fatalf("Error generating JWT token: %s\n", err.Error())
	}
	s.OwnerToken = &ownerToken
}

func (s *RouteTestSuite) TearDownSuite() {
	inner, err := s.DB.DB()
	if err != nil {
		log.Printf("Error accessing inner db instance: %s\n", err.Error())
		return
	}
	inner.Close()
}

func (s *RouteTestSuite) appRouter() *gin.Engine {
	router := setupRouter()
	public := apiv1Group(router)
	couponHandlers(public)
	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	listingHandlers(apiv1)
	bookingHandlers(apiv1)
	return router
}

func futureDate(days int) string {
	return utils.Today().AddDate(0, 0, days).Format(config.DATE_PARSE_FORMAT)
}

func (s *RouteTestSuite) TestPingRoute() {
	router := setupRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(s.T(), 200, w.Code)
}

func (s *RouteTestSuite) TestRejectsMissingToken() {
	router := s.appRouter()

	s.Run("Should return 401 without an Authorization header", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return 401 for a bearer header without a token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})

	s.Run("Should return 401 for an empty bearer token", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer ")
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 401, w.Code)
	})
}

func (s *RouteTestSuite) TestCouponRoutes() {
	router := s.appRouter()

	s.Run("Should return the seeded coupon with 200 status", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/coupons/WELCOME10", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), "WELCOME10", gjson.Get(sjson, "code").String())
		assert.Equal(s.T(), "percentage", gjson.Get(sjson, "type").String())
		assert.Equal(s.T(), 10.0, gjson.Get(sjson, "value").Float())
	})

	s.Run("Should return a 404 error for an unknown code", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/coupons/NO-SUCH-CODE", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 404, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "Invalid coupon code", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Should return a 400 error for an expired code", func() {
		expired := models.Coupon{
			Code: "LASTYEAR", Name: "Expired promo",
			Type: types.COUPON_PERCENTAGE, Value: 5,
			ValidFrom:  time.Now().UTC().AddDate(-1, 0, 0),
			ValidUntil: time.Now().UTC().AddDate(0, -1, 0),
			IsActive:   true,
		}
		s.Require().NoError(s.DB.Create(&expired).Error)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/coupons/LASTYEAR", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "Coupon has expired", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Should return the seeded categories", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/categories", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(6), gjson.Get(sjson, "count").Int())
		assert.Equal(s.T(), "Vehicles", gjson.Get(sjson, "data.0.name").String())
	})

	s.Run("Should return the seeded cancellation policies", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/cancellation_policies", nil)
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), int64(3), gjson.Get(sjson, "count").Int())
		assert.Equal(s.T(), "Flexible", gjson.Get(sjson, "data.0.name").String())
	})
}

func (s *RouteTestSuite) TestListingRoutes() {
	router := s.appRouter()
	token := *s.OwnerToken

	s.Run("Should create a published listing with 201 status", func() {
		reqBody := types.CreateListingRequestBody{
			Title:       "Mirrorless camera",
			Description: "A mirrorless camera with two lenses",
			Price:       750,
			Location:    "Pune",
			CategoryID:  4,
			Images:      []string{"https://cdn.example.com/camera.jpg"},
			Publish:     true,
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/listings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 201, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(resbytes)
		assert.Equal(s.T(), "active", gjson.Get(sjson, "data.status").String())
		assert.Equal(s.T(), "mirrorless-camera", gjson.Get(sjson, "data.slug").String())
		assert.Equal(s.T(), int64(1), gjson.Get(sjson, "data.images.#").Int())
	})

	s.Run("Should return a 400 error for a listing without a price", func() {
		reqBody := map[string]any{
			"title":       "Free stuff",
			"description": "No price on this listing",
			"location":    "Pune",
			"category_id": 1,
		}
		rbytes, _ := json.Marshal(&reqBody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/listings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should return an itemized quote", func() {
		url := fmt.Sprintf("/api/v1/listings/%d/quote?start=%s&end=%s", s.Listing.ID, futureDate(60), futureDate(62))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), 3000.0, gjson.Get(sjson, "data.base_amount").Float())
		assert.Equal(s.T(), 300.0, gjson.Get(sjson, "data.service_fee").Float())
		assert.Equal(s.T(), 3300.0, gjson.Get(sjson, "data.total").Float())
	})

	s.Run("Should apply a coupon to the quote", func() {
		url := fmt.Sprintf("/api/v1/listings/%d/quote?start=%s&end=%s&coupon=WELCOME10", s.Listing.ID, futureDate(60), futureDate(62))
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", url, nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *s.Token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(rbytes)
		assert.Equal(s.T(), 330.0, gjson.Get(sjson, "data.discount").Float())
		assert.Equal(s.T(), 2970.0, gjson.Get(sjson, "data.total").Float())
	})
}

func (s *RouteTestSuite) TestBookingRoutes() {
	router := s.appRouter()
	token := *s.Token

	var bookingID int64
	s.Run("Should create a booking with 201 status", func() {
		policyID := uint(2)
		reqBody := types.CreateBookingRequestBody{
			ListingID:            s.Listing.ID,
			StartDate:            futureDate(10),
			EndDate:              futureDate(12),
			CancellationPolicyID: &policyID,
		}
		rbytes, err := json.Marshal(&reqBody)
		assert.Nil(s.T(), err)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 201, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(resbytes)
		assert.Equal(s.T(), "Booking request sent successfully", gjson.Get(sjson, "message").String())
		assert.Equal(s.T(), 3300.0, gjson.Get(sjson, "data.total_amount").Float())
		assert.Equal(s.T(), "pending", gjson.Get(sjson, "data.status").String())
		bookingID = gjson.Get(sjson, "data.id").Int()
		assert.Greater(s.T(), bookingID, int64(0))
	})

	s.Run("Should return a 409 error for overlapping dates", func() {
		reqBody := types.CreateBookingRequestBody{
			ListingID: s.Listing.ID,
			StartDate: futureDate(11),
			EndDate:   futureDate(13),
		}
		rbytes, _ := json.Marshal(&reqBody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 409, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "this listing is already booked for the selected dates", gjson.Get(string(rbytes), "error").String())
	})

	s.Run("Should return a 400 error for a past start date", func() {
		reqBody := types.CreateBookingRequestBody{
			ListingID: s.Listing.ID,
			StartDate: futureDate(-2),
			EndDate:   futureDate(3),
		}
		rbytes, _ := json.Marshal(&reqBody)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/bookings", strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should confirm the booking as the listing owner", func() {
		w := httptest.NewRecorder()
		url := fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID)
		req, _ := http.NewRequest("PUT", url, nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", *s.OwnerToken))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Equal(s.T(), "confirmed", gjson.Get(string(rbytes), "data.status").String())
	})

	s.Run("Should cancel the booking and report the refund split", func() {
		reqBody := types.CancelBookingRequestBody{Reason: "plans changed"}
		rbytes, _ := json.Marshal(&reqBody)

		w := httptest.NewRecorder()
		url := fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID)
		req, _ := http.NewRequest("PUT", url, strings.NewReader(string(rbytes)))
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		resbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		sjson := string(resbytes)
		// ten days of notice against the seeded Moderate policy's 48 hour window
		assert.Equal(s.T(), 3300.0, gjson.Get(sjson, "refund_amount").Float())
		assert.Equal(s.T(), 0.0, gjson.Get(sjson, "penalty_amount").Float())
	})

	s.Run("Should return a 400 error when cancelling again", func() {
		w := httptest.NewRecorder()
		url := fmt.Sprintf("/api/v1/bookings/%d/cancel", bookingID)
		req, _ := http.NewRequest("PUT", url, nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 400, w.Code)
	})

	s.Run("Should list the renter's bookings", func() {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/bookings", nil)
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
		router.ServeHTTP(w, req)

		assert.Equal(s.T(), 200, w.Code)
		rbytes, err := io.ReadAll(w.Body)
		assert.Nil(s.T(), err)
		assert.Greater(s.T(), gjson.Get(string(rbytes), "count").Int(), int64(0))
	})
}

func TestRouteRunner(t *testing.T) {
	suite.Run(t, new(RouteTestSuite))
}

package boot

import (
	"log"
	"time"

	"rentverse/src/db"
	"rentverse/src/lib"
	"rentverse/src/models"
	"rentverse/src/types"
	"rentverse/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
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

	SeedDefaults(db)
	return db
}

// SeedDefaults creates the baseline categories, cancellation policies and
// starter coupons on an empty database.
func SeedDefaults(db *gorm.DB) {
	var categories int64
	db.Model(&models.Category{}).Count(&categories)
	if categories == 0 {
		defaults := []models.Category{
			{Name: "Vehicles", Icon: "car", SortOrder: 1, IsActive: true},
			{Name: "Electronics", Icon: "laptop", SortOrder: 2, IsActive: true},
			{Name: "Furniture", Icon: "chair", SortOrder: 3, IsActive: true},
			{Name: "Photography", Icon: "camera", SortOrder: 4, IsActive: true},
			{Name: "Home Services", Icon: "tools", SortOrder: 5, IsActive: true},
			{Name: "Professional Services", Icon: "briefcase", SortOrder: 6, IsActive: true},
		}
		if err := db.Create(&defaults).Error; err != nil {
			log.Printf("Error seeding categories: %s\n", err.Error())
		}
	}

	var policies int64
	db.Model(&models.CancellationPolicy{}).Count(&policies)
	if policies == 0 {
		defaults := []models.CancellationPolicy{
			{Name: "Flexible", PenaltyPercentage: 10, EffectiveDurationHours: 24, IsActive: true},
			{Name: "Moderate", PenaltyPercentage: 50, EffectiveDurationHours: 48, IsActive: true},
			{Name: "Strict", PenaltyPercentage: 100, EffectiveDurationHours: 168, IsActive: true},
		}
		if err := db.Create(&defaults).Error; err != nil {
			log.Printf("Error seeding cancellation policies: %s\n", err.Error())
		}
	}

	var coupons int64
	db.Model(&models.Coupon{}).Count(&coupons)
	if coupons == 0 {
		maxDiscount := 1000.0
		usageLimit := 100
		welcome := models.Coupon{
			Code:        "WELCOME10",
			Name:        "Welcome discount",
			Type:        types.COUPON_PERCENTAGE,
			Value:       10,
			MinAmount:   500,
			MaxDiscount: &maxDiscount,
			UsageLimit:  &usageLimit,
			ValidFrom:   time.Now().UTC(),
			ValidUntil:  time.Now().UTC().AddDate(1, 0, 0),
			IsActive:    true,
		}
		if err := db.Create(&welcome).Error; err != nil {
			log.Printf("Error seeding coupons: %s\n", err.Error())
		}
	}
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	jobId, err := lib.CreateCronJob(utils.CompleteElapsedBookings, 1*time.Hour)
	if err != nil {
		log.Printf("Error scheduling booking completion job: %s\n", err.Error())
		return
	}
	log.Printf("Scheduled booking completion job: %s\n", *jobId)
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
	}
}

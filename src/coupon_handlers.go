package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"rentverse/src/db"
	"rentverse/src/lib"
	"rentverse/src/models"

	"github.com/gin-gonic/gin"
)

const couponCacheTTL = 5 * time.Minute

// couponHandlers exposes the strict coupon surface. Unlike booking creation,
// where a bad coupon silently drops to a zero discount, the validate endpoint
// tells the client exactly why a code is unusable.
func couponHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/coupons/:code", func(ctx *gin.Context) {
			code := ctx.Params.ByName("code")
			coupon, ok := cachedCoupon(code)
			if !ok {
				db := db.GetDb()
				var found models.Coupon
				if err := db.
					Model(&models.Coupon{}).
					Where(&models.Coupon{Code: code, IsActive: true}).
					First(&found).
					Error; err != nil {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "Invalid coupon code"})
					return
				}
				coupon = &found
				cacheCoupon(coupon)
			}
			if coupon.Expired(time.Now().UTC()) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Coupon has expired"})
				return
			}
			if coupon.LimitReached() {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "Coupon usage limit exceeded"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{
				"id":           coupon.ID,
				"code":         coupon.Code,
				"name":         coupon.Name,
				"type":         coupon.Type,
				"value":        coupon.Value,
				"min_amount":   coupon.MinAmount,
				"max_discount": coupon.MaxDiscount,
			})
		}).
		GET("/cancellation_policies", func(ctx *gin.Context) {
			db := db.GetDb()
			var policies []models.CancellationPolicy
			if err := db.
				Model(&models.CancellationPolicy{}).
				Where(&models.CancellationPolicy{IsActive: true}).
				Order("id asc").
				Find(&policies).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": policies, "count": len(policies)})
		}).
		GET("/categories", func(ctx *gin.Context) {
			db := db.GetDb()
			var categories []models.Category
			if err := db.
				Model(&models.Category{}).
				Where(&models.Category{IsActive: true}).
				Order("sort_order asc").
				Find(&categories).
				Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": categories, "count": len(categories)})
		})
	return g
}

func couponCacheKey(code string) string {
	return fmt.Sprintf("coupon:%s", code)
}

func cachedCoupon(code string) (*models.Coupon, bool) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return nil, false
	}
	raw, err := rd.Get(context.Background(), couponCacheKey(code)).Result()
	if err != nil {
		return nil, false
	}
	var coupon models.Coupon
	if err := json.Unmarshal([]byte(raw), &coupon); err != nil {
		log.Printf("Error decoding cached coupon %s: %s\n", code, err.Error())
		return nil, false
	}
	return &coupon, true
}

func cacheCoupon(coupon *models.Coupon) {
	rd := lib.GetRedisClient()
	if rd == nil {
		return
	}
	raw, err := json.Marshal(coupon)
	if err != nil {
		return
	}
	if err := rd.SetEx(context.Background(), couponCacheKey(coupon.Code), string(raw), couponCacheTTL).Err(); err != nil {
		log.Printf("Error caching coupon %s: %s\n", coupon.Code, err.Error())
	}
}

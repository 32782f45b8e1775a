package main

import (
	"log"
	"net/http"

	"rentverse/src/db"
	"rentverse/src/models"
	"rentverse/src/types"
	"rentverse/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

func listingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/listings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			db := db.GetDb()
			var listings []models.Listing
			err := db.
				Model(&models.Listing{}).
				Where(&models.Listing{OwnerID: userId}).
				Preload("Images").
				Find(&listings).
				Error
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listings, "count": len(listings)})
		}).
		GET("/listings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var listing models.Listing
			if err := db.
				Model(&models.Listing{}).
				Where(&models.Listing{ID: params.ID}).
				Preload("Images").
				First(&listing).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": listing})
		}).
		POST("/listings", func(ctx *gin.Context) {
			userId := ctx.GetUint("id")
			var body types.CreateListingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			status := types.LISTING_DRAFT
			if body.Publish {
				status = types.LISTING_ACTIVE
			}
			listingType := types.ListingType(body.Type)
			if listingType == "" {
				listingType = types.LISTING_PRODUCT
			}
			listing := models.Listing{
				Title:       body.Title,
				Slug:        slug.Make(body.Title),
				Description: body.Description,
				Price:       body.Price,
				Location:    body.Location,
				CategoryID:  body.CategoryID,
				OwnerID:     userId,
				Type:        listingType,
				Status:      status,
			}
			for i, imageUrl := range body.Images {
				listing.Images = append(listing.Images, models.ListingImage{
					ImageURL:  imageUrl,
					SortOrder: i,
					IsPrimary: i == 0,
				})
			}
			db := db.GetDb()
			if err := db.Create(&listing).Error; err != nil {
				log.Printf("Error creating listing: %s\n", err.Error())
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not create listing"})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": listing})
		}).
		GET("/listings/:id/quote", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.QuoteRequestQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			start, err := utils.ParseDate(query.StartDate)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			end, err := utils.ParseDate(query.EndDate)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			quote, err := utils.QuotePrice(params.ID, start, end, query.CouponCode)
			if err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": quote})
		}).
		POST("/listings/:id/deactivate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.DeactivateListing(params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Listing deactivated successfully"})
		}).
		POST("/listings/:id/reactivate", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.ReactivateListing(params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Listing reactivated successfully"})
		}).
		DELETE("/listings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			userId := ctx.GetUint("id")
			if err := utils.DeleteListing(params.ID, userId); err != nil {
				abortWithError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
		})
	return g
}

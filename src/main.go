package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"rentverse/src/boot"
	"rentverse/src/config"
	"rentverse/src/middlewares"
	"rentverse/src/types"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
)

const (
	apiPrefix string = "/api/v1"
)

var calendarDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	return err == nil
}

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	parsed, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !parsed.Before(today)
}

var gtdate validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.DATE_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	field := fl.Parent().FieldByName(fl.Param())
	fieldValue, ok := field.Interface().(string)
	if !ok {
		return false
	}
	fielddatetime, err := time.Parse(config.DATE_PARSE_FORMAT, fieldValue)
	if err != nil {
		return false
	}
	return datetime.After(fielddatetime)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("calendardate", calendarDateValidatorFunc)
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
		v.RegisterValidation("gtdate", gtdate)
	}
}

// abortWithError writes the HTTP rendition of a core error: typed business
// failures map to 4xx statuses, anything else is a 500 with a generic body.
func abortWithError(ctx *gin.Context, err error) {
	status := types.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Could not complete request: %s\n", err.Error())
	}
	ctx.JSON(status, gin.H{"error": types.ErrorMessage(err)})
}

func setupRouter() *gin.Engine {
	registerValidators()
	r := gin.Default()
	r.Use(cors.Default())
	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func apiv1Group(r *gin.Engine) *gin.RouterGroup {
	return r.Group(apiPrefix)
}

func main() {
	boot.InitDb()
	boot.InitScheduler()
	defer boot.StopScheduler()

	router := setupRouter()

	public := apiv1Group(router)
	couponHandlers(public)

	apiv1 := apiv1Group(router)
	apiv1.Use(middlewares.AuthMiddleware)
	listingHandlers(apiv1)
	bookingHandlers(apiv1)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Error starting server: %s\n", err.Error())
	}
}

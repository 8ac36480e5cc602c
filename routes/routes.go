package routes

import (
	"handmade-store/controllers"
	"handmade-store/middleware"
	"handmade-store/models"
	"handmade-store/services"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Dependencies carries everything the HTTP layer needs.
type Dependencies struct {
	Auth     *services.AuthService
	Products *services.ProductService
	Uploads  *services.UploadService
	Cookies  middleware.CookieOptions
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	authCtrl := controllers.NewAuthController(deps.Auth, deps.Cookies)
	productCtrl := controllers.NewProductController(deps.Products)
	uploadCtrl := controllers.NewUploadController(deps.Uploads)
	categoryCtrl := &controllers.CategoryController{}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"}) })

	router.POST("/auth/login", authCtrl.Login)
	router.POST("/auth/logout", authCtrl.Logout)
	router.GET("/auth/status", authCtrl.Status)
	router.GET("/categories", categoryCtrl.GetCategories)
	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)

	admin := router.Group("/")
	admin.Use(middleware.AdminMiddleware(deps.Auth, deps.Cookies))
	{
		admin.POST("/auth/change-password", authCtrl.ChangePassword)

		admin.POST("/products", productCtrl.CreateProduct)
		admin.PUT("/products/:id", productCtrl.UpdateProduct)
		admin.DELETE("/products/:id", productCtrl.DeleteProduct)

		admin.POST("/upload", uploadCtrl.UploadImages)
	}
}

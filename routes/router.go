package routes

import (
	"handmade-store/config"
	"handmade-store/libs"
	"handmade-store/middleware"
	"handmade-store/models"
	"handmade-store/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// BuildDependencies wires the services on top of an open datastore. Optional
// collaborators (media host, mail) are left out when not configured.
func BuildDependencies(cfg *config.Config, store *config.Datastore) Dependencies {
	var notifier services.PasswordChangeNotifier
	if mailer, err := libs.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.AdminNotifyEmail); err == nil {
		notifier = mailer
	} else {
		log.Debug("password change notifications disabled: ", err)
	}

	var uploader services.MediaUploader
	if cfg.MediaConfigured() {
		cld, err := libs.NewCloudinaryUploader(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		if err != nil {
			log.WithError(err).Error("cloudinary init failed, uploads disabled")
		} else {
			uploader = cld
		}
	} else {
		log.Warn("cloudinary credentials not set, image uploads will fail")
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	auth := services.NewAuthService(store.Admins, tokens, notifier)
	if cfg.PasswordHash != "" {
		auth.WithHashAlgorithm(cfg.PasswordHash)
	}

	return Dependencies{
		Auth:     auth,
		Products: services.NewProductService(store.Products),
		Uploads:  services.NewUploadService(uploader, cfg.UploadTmpDir, cfg.MaxUploadSize),
		Cookies:  middleware.CookieOptions{ForceSecure: cfg.CookieSecure},
	}
}

func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	if err := models.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("failed to register validators")
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadSize
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.OriginURL))

	SetupRoutes(router, deps)
	return router
}

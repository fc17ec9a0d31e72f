package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"rumal.store/web/internal/auth"
	"rumal.store/web/internal/config"
	"rumal.store/web/internal/events"
	"rumal.store/web/internal/http/flash"
	"rumal.store/web/internal/http/handlers"
	adminh "rumal.store/web/internal/http/handlers/admin"
	vendorh "rumal.store/web/internal/http/handlers/vendor"
	"rumal.store/web/internal/http/middleware"
	"rumal.store/web/internal/http/render"
	"rumal.store/web/internal/modules/admin"
	"rumal.store/web/internal/modules/cart"
	"rumal.store/web/internal/modules/catalog"
	"rumal.store/web/internal/modules/orders"
	"rumal.store/web/internal/modules/reviews"
	"rumal.store/web/internal/modules/vendors"
	"rumal.store/web/internal/modules/wishlist"
	"rumal.store/web/internal/storage"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Logger    *slog.Logger
	Config    *config.Config
	DB        *gorm.DB
	Templates *template.Template
	Manager   *auth.Manager
	Bus       *events.Bus
	Heartbeat time.Duration

	Catalog     *catalog.Service
	Cart        *cart.Service
	Wishlist    *wishlist.Service
	Orders      *orders.Service
	OrdersAdmin *orders.AdminService
	Reviews     *reviews.Service
	Vendors     *vendors.Service
	Admin       *admin.Service
	Images      *storage.Images
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(d.Templates)
	r.MaxMultipartMemory = storage.MaxImageBytes + 1<<20

	cfg := d.Config
	signer := d.Manager.Signer()
	flashCodec := flash.NewCodec(signer, "rumal_flash", cfg.Session.Secure)
	sessCfg := middleware.SessionCfg{
		Manager:    d.Manager,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		TTL:        cfg.Session.TTL,
		Logger:     d.Logger,
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.Recovery(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.FlashMiddleware(flashCodec),
		middleware.SessionMiddleware(sessCfg),
		middleware.Header(middleware.HeaderCfg{Cart: d.Cart, Wishlist: d.Wishlist, Logger: d.Logger}),
	)

	if cfg.Storage.Driver == "" || cfg.Storage.Driver == "local" {
		r.Static(cfg.Storage.LocalURLPrefix, cfg.Storage.LocalDir)
	}

	health := handlers.NewHealthHandler(d.DB)
	r.GET("/healthz", health.Healthz)

	authH := handlers.NewAuthHandler(d.Manager, sessCfg, flashCodec, d.Logger)
	r.GET("/login", authH.Login)
	r.GET("/callback", authH.Callback)
	r.POST("/logout", authH.Logout)

	r.GET("/events", d.Bus.Stream(middleware.EventScope, d.Heartbeat))
	badge := handlers.NewBadgeHandler(d.Cart, d.Wishlist)
	r.GET("/badge/cart", badge.Cart)
	r.GET("/badge/wishlist", badge.Wishlist)

	store := handlers.NewStoreHandler(d.Catalog, d.Reviews, flashCodec, d.Logger)
	wish := handlers.NewWishlistHandler(d.Wishlist, flashCodec, d.Logger)
	r.GET("/", store.Home)
	r.GET("/products", store.Products)
	r.GET("/products/:id", store.Product)
	r.GET("/products/:id/variation", store.Variation)
	r.GET("/api/products/:id/variation", store.Variation)
	r.GET("/categories", store.Categories)
	r.GET("/promotions", store.Promotions)
	r.GET("/wishlist/shared/:token", wish.Shared)

	requireAuth := middleware.RequireAuth(flashCodec)
	r.POST("/products/:id/reviews", requireAuth, store.CreateReview)

	cartH := handlers.NewCartHandler(d.Cart, flashCodec)
	cg := r.Group("/cart", requireAuth)
	cg.GET("", cartH.Show)
	cg.POST("/items", cartH.Add)
	cg.POST("/items/:id", cartH.Update)
	cg.POST("/items/:id/delete", cartH.Remove)
	cg.POST("/clear", cartH.Clear)

	wg := r.Group("/wishlist", requireAuth)
	wg.GET("", wish.Show)
	wg.POST("/items", wish.Add)
	wg.POST("/items/:id/delete", wish.Remove)
	wg.POST("/items/:id/move-to-cart", wish.MoveToCart)
	wg.POST("/clear", wish.Clear)
	wg.POST("/collections", wish.CreateCollection)
	wg.GET("/collections/:id", wish.ShowCollection)
	wg.POST("/collections/:id", wish.UpdateCollection)
	wg.POST("/collections/:id/delete", wish.DeleteCollection)
	wg.POST("/collections/:id/share", wish.Share)
	wg.POST("/collections/:id/unshare", wish.Unshare)
	wg.POST("/collections/:id/email", wish.EmailShare)

	acct := handlers.NewAccountHandler(d.Orders, d.Vendors, flashCodec)
	ag := r.Group("/account", requireAuth)
	ag.GET("/orders", acct.ListOrders)
	ag.GET("/orders/:id", acct.ShowOrder)
	ag.POST("/orders/:id/cancel", acct.Cancel)
	ag.GET("/insights", acct.Insights)

	vend := vendorh.NewHandler(d.Vendors, d.Orders, d.Reviews, d.Catalog, d.Images, flashCodec)
	vg := r.Group("/vendor", middleware.RequireVendor(flashCodec))
	vg.GET("", vend.Dashboard)
	vg.GET("/orders", vend.Orders)
	vg.POST("/orders/:id/status", vend.UpdateOrderStatus)
	vg.GET("/reviews", vend.Reviews)
	vg.POST("/reviews/:id/reply", vend.Reply)
	vg.GET("/payouts", vend.Payouts)
	vg.GET("/profile", vend.Profile)
	vg.POST("/profile", vend.UpdateProfile)
	vg.GET("/products", vend.Products)
	vg.GET("/products/new", vend.NewProduct)
	vg.POST("/products", vend.CreateProduct)
	vg.GET("/products/:id/edit", vend.EditProduct)
	vg.POST("/products/:id", vend.UpdateProduct)
	vg.POST("/products/:id/delete", vend.DeleteProduct)
	vg.POST("/products/:id/images", vend.UploadImage)

	adm := adminh.NewHandler(d.Admin, d.OrdersAdmin, flashCodec)
	adg := r.Group("/admin", middleware.RequireAdmin(flashCodec))
	adg.GET("", adm.Dashboard)
	adg.GET("/orders", adm.Orders)
	adg.POST("/orders/:id/status", adm.UpdateOrderStatus)
	adg.GET("/products", adm.Products)
	adg.POST("/products/:id/active", adm.SetProductActive)
	adg.GET("/payments", adm.Payments)
	adg.GET("/reviews", adm.Reviews)
	adg.POST("/reviews/:id/moderate", adm.ModerateReview)
	adg.GET("/sessions", adm.Sessions)
	adg.POST("/sessions/:id/revoke", adm.RevokeSession)
	adg.GET("/settings", adm.Settings)
	adg.POST("/settings/flags/:key", adm.ToggleFlag)
	adg.POST("/settings/values/:key", adm.UpdateSetting)
	adg.GET("/api-keys", adm.APIKeys)
	adg.POST("/api-keys", adm.CreateAPIKey)
	adg.POST("/api-keys/:id/revoke", adm.RevokeAPIKey)
	adg.GET("/access-audit", adm.AccessAudit)

	r.NoRoute(func(c *gin.Context) {
		render.ErrorPage(c, http.StatusNotFound, "We could not find that page.")
	})

	return r
}

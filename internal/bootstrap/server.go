package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/anticafe/api"
	"github.com/Domenick1991/anticafe/config"
	"github.com/Domenick1991/anticafe/internal/authz"
	"github.com/Domenick1991/anticafe/internal/service/billing"
	"github.com/Domenick1991/anticafe/internal/service/booking"
	"github.com/Domenick1991/anticafe/internal/service/catalog"
	"github.com/Domenick1991/anticafe/internal/service/payment"
	"github.com/Domenick1991/anticafe/internal/service/session"
	"github.com/Domenick1991/anticafe/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services bundles everything the HTTP surface exposes.
type Services struct {
	Users    users.UserUseCase
	Catalog  catalog.CatalogUseCase
	Bookings booking.BookingUseCase
	Sessions session.SessionUseCase
	Billing  billing.BillingUseCase
	Payments payment.PaymentUseCase
	Tokens   api.TokenParser
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svc),
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// newRouter wires every engine operation to a route behind its explicit
// role set. The sets are not hierarchical: session routes are staff-only,
// admin is not implicitly allowed anywhere it is not named.
func newRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authenticated := router.Group("", api.Authenticate(svc.Tokens))
	anyRole := authenticated.Group("", api.RequireRoles(authz.AnyRole))
	staffOnly := authenticated.Group("", api.RequireRoles(authz.StaffOnly))
	adminStaff := authenticated.Group("", api.RequireRoles(authz.AdminStaff))
	admin := authenticated.Group("/admin", api.RequireRoles(authz.AdminOnly))

	api.NewAuthHandler(svc.Users).Register(router, anyRole)
	api.NewUserHandler(svc.Users).Register(admin)
	api.NewResourceHandler(svc.Catalog).Register(anyRole, admin)
	api.NewBookingHandler(svc.Bookings, cfg.Venue.OpenHour, cfg.Venue.CloseHour).Register(anyRole, adminStaff)
	api.NewSessionHandler(svc.Sessions).Register(staffOnly)
	api.NewPaymentHandler(svc.Payments, svc.Billing).Register(adminStaff, admin)

	return router
}

package server

import (
	"net/http"

	"github.com/WYLDWAGNER/accordous-next-sub000/internal/handler"
	appmiddleware "github.com/WYLDWAGNER/accordous-next-sub000/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	jwtSecret      string
	billingHandler *handler.BillingHandler
	webhookHandler *handler.WebhookHandler
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(jwtSecret string, billingHandler *handler.BillingHandler, webhookHandler *handler.WebhookHandler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		jwtSecret:      jwtSecret,
		billingHandler: billingHandler,
		webhookHandler: webhookHandler,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- billing (session required) --------
	invoices := api.Group("/invoices", appmiddleware.JWTAuth(s.jwtSecret))
	invoices.POST("/generate", s.billingHandler.GenerateInvoices)

	// -------- provider webhooks (public, dedup inside) --------
	webhooks := api.Group("/webhooks")
	webhooks.POST("/cakto", s.webhookHandler.CaktoWebhook)
}

// Echo exposes the underlying router, mainly for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spacehub/spacehub-backend/internal/ai"
	"github.com/spacehub/spacehub-backend/internal/handler"
	appmw "github.com/spacehub/spacehub-backend/internal/middleware"
	"github.com/spacehub/spacehub-backend/internal/notifcache"
	"github.com/spacehub/spacehub-backend/internal/repository"
	"github.com/spacehub/spacehub-backend/internal/service"
	"gorm.io/gorm"
)

type Server struct {
	e                *echo.Echo
	requestRepo      repository.RequestRepository
	quoteRepo        repository.QuoteRepository
	paymentRepo      repository.PaymentRepository
	refundRepo       repository.RefundRepository
	notificationRepo repository.NotificationRepository
	walletRepo       repository.WalletRepository
	convRepo         repository.ConversationRepository
	sha              string
	build            string
}

// New wires the full HTTP surface. db may be nil at startup; SetDB injects
// the connection once it is ready and handlers answer 503 until then.
func New(db *gorm.DB, cache *notifcache.Cache, sha, buildTime string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		AllowOriginFunc: func(origin string) (bool, error) {
			low := strings.ToLower(origin)
			if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
				strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
				return true, nil
			}
			u, err := url.Parse(origin)
			if err != nil {
				return false, nil
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return false, nil
			}
			host := u.Hostname()
			if strings.HasSuffix(host, "vercel.app") {
				return true, nil
			}
			return false, nil
		},
	}))

	requestRepo := repository.NewRequestRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	convRepo := repository.NewConversationRepository(db)

	notifySvc := service.NewNotificationService(notificationRepo, cache)
	walletSvc := service.NewWalletService(walletRepo, notifySvc)
	requestSvc := service.NewRequestService(requestRepo)
	quoteSvc := service.NewQuoteService(quoteRepo, requestRepo, notifySvc)
	paymentSvc := service.NewPaymentService(paymentRepo, quoteRepo, walletSvc, notifySvc)
	refundSvc := service.NewRefundService(refundRepo, paymentRepo, walletSvc, notifySvc)
	convSvc := service.NewConversationService(convRepo, requestRepo, notifySvc)

	requestHandler := handler.NewRequestHandler(requestSvc)
	quoteHandler := handler.NewQuoteHandler(quoteSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	refundHandler := handler.NewRefundHandler(refundSvc)
	notificationHandler := handler.NewNotificationHandler(notifySvc)
	walletHandler := handler.NewWalletHandler(walletSvc)
	convHandler := handler.NewConversationHandler(convSvc)
	aiHandler := handler.NewAIHandler(ai.NewIntakeClient(nil))

	authMw, err := appmw.NewAuthMiddleware(context.Background())
	if err != nil {
		e.Logger.Fatalf("failed to init firebase auth: %v", err)
	}
	var userHandler *handler.UserHandler
	if authMw != nil && authMw.Client() != nil {
		userHandler = handler.NewUserHandler(authMw.Client())
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"ok":         "true",
			"git_sha":    sha,
			"build_time": buildTime,
		})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")
	if authMw != nil {
		api.POST("/requests", requestHandler.Create, authMw.RequireAuth)
		api.GET("/me/requests", requestHandler.ListMine, authMw.RequireAuth)
		api.PUT("/requests/:id", requestHandler.Update, authMw.RequireAuth)
		api.DELETE("/requests/:id", requestHandler.Delete, authMw.RequireAuth)
		api.POST("/requests/:id/quotes", quoteHandler.Submit, authMw.RequireAuth)
		api.GET("/requests/:id/quotes", quoteHandler.ListByRequest, authMw.RequireAuth)
		api.GET("/quotes/:id", quoteHandler.Get, authMw.RequireAuth)
		api.GET("/me/quotes", quoteHandler.ListMine, authMw.RequireAuth)
		api.POST("/quotes/:id/payments", paymentHandler.CreateFromQuote, authMw.RequireAuth)
		api.GET("/payments/:id", paymentHandler.Get, authMw.RequireAuth)
		api.POST("/payments/:id/complete", paymentHandler.Complete, authMw.RequireAuth)
		api.POST("/payments/:id/cancel", paymentHandler.Cancel, authMw.RequireAuth)
		api.GET("/me/payments", paymentHandler.ListMine, authMw.RequireAuth)
		api.GET("/me/sales", paymentHandler.ListSales, authMw.RequireAuth)
		api.POST("/payments/:id/refunds", refundHandler.Request, authMw.RequireAuth)
		api.GET("/refunds/:id", refundHandler.Get, authMw.RequireAuth)
		api.GET("/me/refunds", refundHandler.ListMine, authMw.RequireAuth)
		api.POST("/refunds/:id/process", refundHandler.MarkProcessing, authMw.RequireAuth)
		api.POST("/refunds/:id/complete", refundHandler.Complete, authMw.RequireAuth)
		api.POST("/refunds/:id/reject", refundHandler.Reject, authMw.RequireAuth)
		api.GET("/notifications", notificationHandler.List, authMw.RequireAuth)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead, authMw.RequireAuth)
		api.POST("/notifications/read-all", notificationHandler.MarkAllRead, authMw.RequireAuth)
		api.GET("/me/wallet", walletHandler.Get, authMw.RequireAuth)
		api.POST("/me/wallet/charges", walletHandler.Charge, authMw.RequireAuth)
		api.POST("/me/wallet/deductions", walletHandler.Deduct, authMw.RequireAuth)
		api.GET("/me/wallet/history", walletHandler.History, authMw.RequireAuth)
		api.GET("/me/wallet/history/export", walletHandler.ExportHistory, authMw.RequireAuth)
		api.GET("/me/wallet/autocharge", walletHandler.GetAutoCharge, authMw.RequireAuth)
		api.PUT("/me/wallet/autocharge", walletHandler.PutAutoCharge, authMw.RequireAuth)
		api.POST("/requests/:id/conversations", convHandler.OpenFromRequest, authMw.RequireAuth)
		api.GET("/conversations", convHandler.List, authMw.RequireAuth)
		api.GET("/conversations/:id/messages", convHandler.ListMessages, authMw.RequireAuth)
		api.POST("/conversations/:id/messages", convHandler.PostMessage, authMw.RequireAuth)
		api.POST("/conversations/:id/read", convHandler.MarkRead, authMw.RequireAuth)
		api.POST("/ai/parse-query", aiHandler.ParseQuery, authMw.RequireAuth)
	} else {
		api.POST("/requests", requestHandler.Create)
		api.GET("/me/requests", requestHandler.ListMine)
		api.PUT("/requests/:id", requestHandler.Update)
		api.DELETE("/requests/:id", requestHandler.Delete)
		api.POST("/requests/:id/quotes", quoteHandler.Submit)
		api.GET("/requests/:id/quotes", quoteHandler.ListByRequest)
		api.GET("/quotes/:id", quoteHandler.Get)
		api.GET("/me/quotes", quoteHandler.ListMine)
		api.POST("/quotes/:id/payments", paymentHandler.CreateFromQuote)
		api.GET("/payments/:id", paymentHandler.Get)
		api.POST("/payments/:id/complete", paymentHandler.Complete)
		api.POST("/payments/:id/cancel", paymentHandler.Cancel)
		api.GET("/me/payments", paymentHandler.ListMine)
		api.GET("/me/sales", paymentHandler.ListSales)
		api.POST("/payments/:id/refunds", refundHandler.Request)
		api.GET("/refunds/:id", refundHandler.Get)
		api.GET("/me/refunds", refundHandler.ListMine)
		api.POST("/refunds/:id/process", refundHandler.MarkProcessing)
		api.POST("/refunds/:id/complete", refundHandler.Complete)
		api.POST("/refunds/:id/reject", refundHandler.Reject)
		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications/:id/read", notificationHandler.MarkRead)
		api.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		api.GET("/me/wallet", walletHandler.Get)
		api.POST("/me/wallet/charges", walletHandler.Charge)
		api.POST("/me/wallet/deductions", walletHandler.Deduct)
		api.GET("/me/wallet/history", walletHandler.History)
		api.GET("/me/wallet/history/export", walletHandler.ExportHistory)
		api.GET("/me/wallet/autocharge", walletHandler.GetAutoCharge)
		api.PUT("/me/wallet/autocharge", walletHandler.PutAutoCharge)
		api.POST("/requests/:id/conversations", convHandler.OpenFromRequest)
		api.GET("/conversations", convHandler.List)
		api.GET("/conversations/:id/messages", convHandler.ListMessages)
		api.POST("/conversations/:id/messages", convHandler.PostMessage)
		api.POST("/conversations/:id/read", convHandler.MarkRead)
		api.POST("/ai/parse-query", aiHandler.ParseQuery)
	}
	api.GET("/requests/open", requestHandler.ListOpen)
	api.GET("/requests/:id", requestHandler.Get)
	if userHandler != nil {
		api.GET("/users/:uid/public", userHandler.GetPublic)
	}

	return &Server{
		e:                e,
		requestRepo:      requestRepo,
		quoteRepo:        quoteRepo,
		paymentRepo:      paymentRepo,
		refundRepo:       refundRepo,
		notificationRepo: notificationRepo,
		walletRepo:       walletRepo,
		convRepo:         convRepo,
		sha:              sha,
		build:            buildTime,
	}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) SetDB(db *gorm.DB) {
	s.requestRepo.SetDB(db)
	s.quoteRepo.SetDB(db)
	s.paymentRepo.SetDB(db)
	s.refundRepo.SetDB(db)
	s.notificationRepo.SetDB(db)
	s.walletRepo.SetDB(db)
	s.convRepo.SetDB(db)
}

// Package httpapi exposes the thin JSON surface the dashboards call:
// transfers, balances, transaction history, identity resolution and
// credential anchoring. All domain logic lives in the pkg packages; the
// handlers only translate JSON bodies to intents and lookups.
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/internal/config"
	"github.com/healthpay/hec-core/pkg/identity"
	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/vc"
	"github.com/healthpay/hec-core/pkg/wallet"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

// submitter submits payment intents.
type submitter interface {
	Submit(ctx context.Context, intent payment.Intent) (string, error)
}

// resolver resolves did:xrpl identities.
type resolver interface {
	Resolve(ctx context.Context, did string) (*identity.Document, error)
}

// anchorer anchors credentials on the ledger.
type anchorer interface {
	Anchor(ctx context.Context, issuer *wallet.Wallet, subjectAddress string, cred *vc.Credential) (string, error)
}

// ledgerSession is the read-only slice of the ledger client the balance
// and history handlers use.
type ledgerSession interface {
	AccountState(ctx context.Context, address string) (*xrpl.AccountState, error)
	TransactionHistory(ctx context.Context, address string, limit int) ([]xrpl.TransactionRecord, error)
	Close() error
}

// Server is the HTTP API server.
type Server struct {
	cfg       *config.Config
	submitter submitter
	resolver  resolver
	anchorer  anchorer
	dial      func(ctx context.Context) (ledgerSession, error)
	logger    *zap.Logger
	echo      *echo.Echo
}

// NewServer wires the API against a loaded configuration.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	sub := payment.NewSubmitter(payment.EndpointDialer(cfg.Endpoint), logger)
	s := &Server{
		cfg:       cfg,
		submitter: sub,
		resolver:  identity.NewResolver(identity.EndpointDialer(cfg.Endpoint), logger),
		anchorer:  identity.NewAnchorer(sub, cfg.Network),
		dial: func(context.Context) (ledgerSession, error) {
			return xrpl.Dial(cfg.Endpoint)
		},
		logger: logger,
	}
	s.echo = s.routes()
	return s
}

// routes builds the echo instance and registers all handlers.
func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	api := e.Group("/api")
	api.POST("/hec/transfer", s.handleTransfer)
	api.GET("/balance/:address", s.handleBalance)
	api.GET("/hec/history/:address", s.handleHistory)
	api.GET("/did/:did", s.handleResolve)
	api.POST("/vc/anchor", s.handleAnchor)

	return e
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http api listening", zap.String("addr", s.cfg.Listen))
	err := s.echo.Start(s.cfg.Listen)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

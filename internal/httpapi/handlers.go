package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/healthpay/hec-core/internal/config"
	"github.com/healthpay/hec-core/pkg/identity"
	"github.com/healthpay/hec-core/pkg/payment"
	"github.com/healthpay/hec-core/pkg/vc"
	"github.com/healthpay/hec-core/pkg/xrpl"
)

// transferRequest is the JSON body the dashboards post for payments.
type transferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Kind   string `json:"kind,omitempty"`
	Memo   string `json:"memo,omitempty"`
}

// transferResponse mirrors the original API's success shape.
type transferResponse struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transactionId"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleTransfer builds a payment intent from the request and submits
// it. The intent kind is stated by the caller; it is never inferred from
// the addresses involved.
func (s *Server) handleTransfer(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.From == "" || req.To == "" || req.Amount == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "from, to and amount are required"})
	}

	kind := payment.Kind(req.Kind)
	if kind == "" {
		kind = payment.KindTransfer
	}

	sender, err := s.cfg.WalletFor(req.From)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	issuer, ok := s.cfg.Keys[config.RoleIssuer]
	if !ok {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "issuer is not configured"})
	}

	intent := payment.Intent{
		Kind:        kind,
		Sender:      sender,
		Destination: req.To,
		Amount:      xrpl.IssuedAmount(s.cfg.Currency, issuer.Address, req.Amount),
	}
	if req.Memo != "" {
		memo := xrpl.TextMemo(req.Memo)
		intent.Memo = &memo
	}

	hash, err := s.submitter.Submit(c.Request().Context(), intent)
	if err != nil {
		return s.paymentError(c, err)
	}
	return c.JSON(http.StatusOK, transferResponse{Success: true, TransactionID: hash})
}

// handleBalance returns the account's healthcare-credit trust line
// balance, or "0" when no line exists.
func (s *Server) handleBalance(c echo.Context) error {
	address := c.Param("address")

	session, err := s.dial(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "ledger unavailable, try again"})
	}
	defer session.Close()

	state, err := session.AccountState(c.Request().Context(), address)
	if err != nil {
		if errors.Is(err, xrpl.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "account not found"})
		}
		return s.ledgerError(c, err)
	}

	balance := "0"
	currency := xrpl.CurrencyCode(s.cfg.Currency)
	issuer := s.cfg.Keys[config.RoleIssuer].Address
	for _, line := range state.Lines {
		if line.Currency == currency && (issuer == "" || line.Account == issuer) {
			balance = line.Balance
			break
		}
	}
	return c.JSON(http.StatusOK, map[string]string{
		"address": address,
		"balance": balance,
	})
}

// handleHistory returns the account's recent transactions, newest first.
func (s *Server) handleHistory(c echo.Context) error {
	address := c.Param("address")

	session, err := s.dial(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "ledger unavailable, try again"})
	}
	defer session.Close()

	records, err := session.TransactionHistory(c.Request().Context(), address, xrpl.DefaultHistoryLimit)
	if err != nil {
		return s.ledgerError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"address":      address,
		"transactions": records,
	})
}

// handleResolve resolves a did:xrpl reference and attaches the
// credential-set classification.
func (s *Server) handleResolve(c echo.Context) error {
	did := c.Param("did")

	doc, err := s.resolver.Resolve(c.Request().Context(), did)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "identity not found"})
		case errors.Is(err, identity.ErrInvalidDID), errors.Is(err, identity.ErrUnsupportedMethod):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			return s.ledgerError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"document":       doc,
		"classification": vc.Classify(doc.Credentials),
	})
}

// anchorRequest is the JSON body for credential anchoring.
type anchorRequest struct {
	Subject    string         `json:"subject"`
	Credential *vc.Credential `json:"credential"`
}

// handleAnchor anchors a credential from the issuer to a subject.
func (s *Server) handleAnchor(c echo.Context) error {
	var req anchorRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if req.Subject == "" || req.Credential == nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "subject and credential are required"})
	}

	issuer, err := s.cfg.Wallet(config.RoleIssuer)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	hash, err := s.anchorer.Anchor(c.Request().Context(), issuer, req.Subject, req.Credential)
	if err != nil {
		return s.paymentError(c, err)
	}
	return c.JSON(http.StatusOK, transferResponse{Success: true, TransactionID: hash})
}

// paymentError maps submission failures: terminal ledger dispositions
// carry the ledger's own code for diagnosis, everything else is a
// generic "try again".
func (s *Server) paymentError(c echo.Context, err error) error {
	var rpcErr *xrpl.RPCError
	if errors.As(err, &rpcErr) {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "ledger rejected transaction: " + rpcErr.Code})
	}
	if errors.Is(err, xrpl.ErrAccountNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "account not found"})
	}
	var validationErr error
	for _, ve := range []error{payment.ErrNoSender, payment.ErrNoDestination, payment.ErrNoAmount} {
		if errors.Is(err, ve) {
			validationErr = ve
			break
		}
	}
	if validationErr != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
	}
	s.logger.Error("payment submission failed", zap.Error(err))
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "submission failed, try again"})
}

// ledgerError maps read-path failures.
func (s *Server) ledgerError(c echo.Context, err error) error {
	if errors.Is(err, xrpl.ErrMalformedResponse) {
		s.logger.Error("malformed ledger response", zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "malformed ledger response"})
	}
	s.logger.Warn("ledger read failed", zap.Error(err))
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "ledger unavailable, try again"})
}

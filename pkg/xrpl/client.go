package xrpl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single ledger round trip. Ledger closes are
// roughly periodic at a few seconds, so anything beyond this is a stall.
const DefaultTimeout = 20 * time.Second

// DefaultHistoryLimit is the page size for transaction history queries.
const DefaultHistoryLimit = 100

// Client is one session to a rippled JSON-RPC endpoint. A Client is
// scoped to a single logical operation: acquire it with Dial, release it
// with Close on every exit path. Clients are not shared across
// concurrent callers.
type Client struct {
	endpoint string
	http     *http.Client
}

// Dial opens a session to the given JSON-RPC endpoint URL.
func Dial(endpoint string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ledger endpoint %q", endpoint)
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

// Close releases the session. Forgetting to close leaks the underlying
// connections.
func (c *Client) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

// rpcRequest is the rippled JSON-RPC request envelope: a method name and
// a single-element params array.
type rpcRequest struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// rpcStatus is the part of every result rippled uses to report errors.
type rpcStatus struct {
	Status       string `json:"status"`
	Error        string `json:"error"`
	ErrorMessage string `json:"error_message"`
}

// call performs one JSON-RPC round trip and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params any, out any) error {
	reqBody := rpcRequest{Method: method}
	if params != nil {
		reqBody.Params = []any{params}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil || len(envelope.Result) == 0 {
		return fmt.Errorf("%w: %s response is not a JSON-RPC result", ErrMalformedResponse, method)
	}

	var status rpcStatus
	if err := json.Unmarshal(envelope.Result, &status); err != nil {
		return fmt.Errorf("%w: %s result is not an object", ErrMalformedResponse, method)
	}
	if status.Status == "error" {
		return &RPCError{Code: status.Error, Message: status.ErrorMessage}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("%w: failed to decode %s result: %v", ErrMalformedResponse, method, err)
		}
	}
	return nil
}

// LedgerHeight returns the index of the in-progress ledger.
func (c *Client) LedgerHeight(ctx context.Context) (uint32, error) {
	var result struct {
		LedgerCurrentIndex uint32 `json:"ledger_current_index"`
	}
	if err := c.call(ctx, "ledger_current", nil, &result); err != nil {
		return 0, err
	}
	if result.LedgerCurrentIndex == 0 {
		return 0, fmt.Errorf("%w: ledger_current reported index 0", ErrMalformedResponse)
	}
	return result.LedgerCurrentIndex, nil
}

// AccountState returns the current state of an account, including its
// trust lines. A nonexistent account yields ErrAccountNotFound.
func (c *Client) AccountState(ctx context.Context, address string) (*AccountState, error) {
	var info struct {
		AccountData struct {
			Account  string `json:"Account"`
			Balance  string `json:"Balance"`
			Sequence uint32 `json:"Sequence"`
			Flags    uint32 `json:"Flags"`
			Domain   string `json:"Domain"`
		} `json:"account_data"`
	}
	err := c.call(ctx, "account_info", map[string]any{
		"account":      address,
		"ledger_index": "current",
	}, &info)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == "actNotFound" {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	state := &AccountState{
		Address:  info.AccountData.Account,
		Balance:  info.AccountData.Balance,
		Sequence: info.AccountData.Sequence,
		Flags:    info.AccountData.Flags,
		Domain:   info.AccountData.Domain,
	}

	var lines struct {
		Lines []TrustLine `json:"lines"`
	}
	err = c.call(ctx, "account_lines", map[string]any{
		"account":      address,
		"ledger_index": "validated",
	}, &lines)
	if err != nil {
		return nil, err
	}
	state.Lines = lines.Lines

	return state, nil
}

// Submit submits a pre-signed transaction blob and returns the ledger's
// preliminary disposition.
func (c *Client) Submit(ctx context.Context, blob string) (*SubmitResult, error) {
	var result struct {
		EngineResult        string `json:"engine_result"`
		EngineResultMessage string `json:"engine_result_message"`
		Accepted            bool   `json:"accepted"`
		TxJSON              struct {
			Hash string `json:"hash"`
		} `json:"tx_json"`
	}
	err := c.call(ctx, "submit", map[string]any{
		"tx_blob": blob,
	}, &result)
	if err != nil {
		return nil, err
	}
	if result.EngineResult == "" {
		return nil, fmt.Errorf("%w: submit reported no engine result", ErrMalformedResponse)
	}
	return &SubmitResult{
		EngineResult:        result.EngineResult,
		EngineResultMessage: result.EngineResultMessage,
		Hash:                result.TxJSON.Hash,
		Accepted:            result.Accepted,
	}, nil
}

// TransactionHistory returns up to limit transactions touching the
// account, most recent first.
func (c *Client) TransactionHistory(ctx context.Context, address string, limit int) ([]TransactionRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	var result struct {
		Transactions []struct {
			Tx struct {
				Hash            string        `json:"hash"`
				TransactionType string        `json:"TransactionType"`
				Account         string        `json:"Account"`
				Destination     string        `json:"Destination"`
				Amount          *Amount       `json:"Amount"`
				Memos           []MemoWrapper `json:"Memos"`
				LedgerIndex     uint32        `json:"ledger_index"`
			} `json:"tx"`
			Validated bool `json:"validated"`
		} `json:"transactions"`
	}
	err := c.call(ctx, "account_tx", map[string]any{
		"account": address,
		"limit":   limit,
		// forward=false yields newest-first ordering.
		"forward": false,
	}, &result)
	if err != nil {
		return nil, err
	}

	records := make([]TransactionRecord, 0, len(result.Transactions))
	for _, entry := range result.Transactions {
		rec := TransactionRecord{
			Hash:        entry.Tx.Hash,
			Type:        entry.Tx.TransactionType,
			Account:     entry.Tx.Account,
			Destination: entry.Tx.Destination,
			Amount:      entry.Tx.Amount,
			LedgerIndex: entry.Tx.LedgerIndex,
			Validated:   entry.Validated,
		}
		for _, m := range entry.Tx.Memos {
			rec.Memos = append(rec.Memos, m.Memo)
		}
		records = append(records, rec)
	}
	return records, nil
}

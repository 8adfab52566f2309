package integration

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/healthpay/hec-core/pkg/xrpl"
)

// fakeLedger is an in-memory rippled speaking just enough of the
// JSON-RPC dialect for the client: account_info, account_lines,
// ledger_current, submit and account_tx. Submitted payments are applied
// to account state and recorded in history, so anchoring and resolution
// can be exercised end to end without a network.
type fakeLedger struct {
	mu sync.Mutex

	height   uint32
	accounts map[string]*fakeAccount

	// redundantBudget makes the next N submissions answer temREDUNDANT,
	// simulating the expiry race.
	redundantBudget int

	submits int
}

type fakeAccount struct {
	balance  uint64
	sequence uint32
	domain   string // hex
	lines    []xrpl.TrustLine
	history  []json.RawMessage // signed tx JSON, newest first
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		height:   1000,
		accounts: make(map[string]*fakeAccount),
	}
}

func (l *fakeLedger) createAccount(address string, drops uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[address] = &fakeAccount{balance: drops, sequence: 1}
}

func (l *fakeLedger) setDomain(address, domain string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts[address].domain = xrpl.ToHex(domain)
}

func (l *fakeLedger) serve() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(l.handle))
}

func (l *fakeLedger) handle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string            `json:"method"`
		Params []json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var params map[string]any
	if len(req.Params) > 0 {
		_ = json.Unmarshal(req.Params[0], &params)
	}

	l.mu.Lock()
	result := l.dispatch(req.Method, params)
	l.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"result": result})
}

func (l *fakeLedger) dispatch(method string, params map[string]any) map[string]any {
	switch method {
	case "ledger_current":
		// Every query advances the ledger, like time passing.
		l.height++
		return map[string]any{"status": "success", "ledger_current_index": l.height}

	case "account_info":
		acct, ok := l.accounts[str(params["account"])]
		if !ok {
			return rpcError("actNotFound", "Account not found.")
		}
		return map[string]any{
			"status": "success",
			"account_data": map[string]any{
				"Account":  str(params["account"]),
				"Balance":  strconv.FormatUint(acct.balance, 10),
				"Sequence": acct.sequence,
				"Domain":   acct.domain,
			},
		}

	case "account_lines":
		acct, ok := l.accounts[str(params["account"])]
		if !ok {
			return rpcError("actNotFound", "Account not found.")
		}
		return map[string]any{"status": "success", "lines": acct.lines}

	case "submit":
		return l.applySubmit(str(params["tx_blob"]))

	case "account_tx":
		acct, ok := l.accounts[str(params["account"])]
		if !ok {
			return rpcError("actNotFound", "Account not found.")
		}
		txs := make([]map[string]any, 0, len(acct.history))
		for _, raw := range acct.history {
			var tx map[string]any
			_ = json.Unmarshal(raw, &tx)
			tx["ledger_index"] = l.height
			txs = append(txs, map[string]any{"tx": tx, "validated": true})
		}
		return map[string]any{"status": "success", "transactions": txs}
	}
	return rpcError("unknownCmd", "Unknown method.")
}

// applySubmit decodes the signed blob, applies the payment and records
// it in the destination's history.
func (l *fakeLedger) applySubmit(blob string) map[string]any {
	l.submits++
	if l.redundantBudget > 0 {
		l.redundantBudget--
		return map[string]any{
			"status":                "success",
			"engine_result":         xrpl.EngineResultRedundant,
			"engine_result_message": "The transaction is redundant.",
		}
	}

	raw, err := hex.DecodeString(blob)
	if err != nil {
		return rpcError("invalidTransaction", "Blob is not hex.")
	}
	var tx struct {
		TransactionType string `json:"TransactionType"`
		Account         string `json:"Account"`
		Destination     string `json:"Destination"`
	}
	if err := json.Unmarshal(raw, &tx); err != nil {
		return rpcError("invalidTransaction", "Blob is not a transaction.")
	}

	sender, ok := l.accounts[tx.Account]
	if !ok {
		return map[string]any{
			"status":                "success",
			"engine_result":         "terNO_ACCOUNT",
			"engine_result_message": "The source account does not exist.",
		}
	}
	sender.sequence++

	if tx.TransactionType == "Payment" {
		if dest, ok := l.accounts[tx.Destination]; ok {
			dest.history = append([]json.RawMessage{json.RawMessage(raw)}, dest.history...)
		}
	}

	return map[string]any{
		"status":                "success",
		"engine_result":         xrpl.EngineResultSuccess,
		"engine_result_message": "The transaction was applied.",
		"accepted":              true,
	}
}

func rpcError(code, message string) map[string]any {
	return map[string]any{"status": "error", "error": code, "error_message": message}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

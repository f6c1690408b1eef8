package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/upnetwork-v/webpay-sub001/internal/common"
	"github.com/upnetwork-v/webpay-sub001/internal/config"
	"github.com/upnetwork-v/webpay-sub001/internal/model"
	"github.com/upnetwork-v/webpay-sub001/internal/monitor"
	"github.com/upnetwork-v/webpay-sub001/phantom"
	"github.com/upnetwork-v/webpay-sub001/solana"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
)

// callbackTimeout bounds how long the callback endpoint waits for the
// background decrypt to report.
const callbackTimeout = 10 * time.Second

// PaymentHandler wires the deep-link payment flow to HTTP.
type PaymentHandler struct {
	session *phantom.Session
	monitor *monitor.Monitor
	log     zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(session *phantom.Session, mon *monitor.Monitor, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{session: session, monitor: mon, log: log}
}

// PayLink handles POST /pay/link
// @Summary      Build a wallet deep link for an order
// @Description  Builds the unsigned transfer transaction, encrypts the sign request and returns the wallet deep link with a QR code
// @Tags         pay
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayLinkRequest  true  "Order and token data"
// @Success      200      {object}  model.PayLinkResponse
// @Router       /pay/link [post]
func (h *PaymentHandler) PayLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PayLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.OrderID == "" || req.MerchantAddress == "" || req.PayerAddress == "" || req.PayTokenAmount == "" {
		writeError(w, http.StatusBadRequest, "orderId, merchantAddress, payerAddress and payTokenAmount are required")
		return
	}

	if err := h.session.Connect(req.WalletPublicKey); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	txReq, err := buildTransactionRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	link, err := h.session.Dispatch(txReq)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, solana.ErrInvalidAmount) ||
			errors.Is(err, solana.ErrMissingTokenAccount) ||
			errors.Is(err, phantom.ErrRequestPending) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	displayDecimals := common.SOLDecimals
	if txReq.TokenMint != "" {
		displayDecimals = int(txReq.TokenDecimals)
	}
	h.log.Info().
		Str("order_id", req.OrderID).
		Str("amount", common.FromBaseUnits(txReq.AmountBaseUnits, displayDecimals)).
		Msg("payment link created")

	resp := model.PayLinkResponse{DeepLink: link}
	if png, err := qrcode.Encode(link, qrcode.Medium, 256); err == nil {
		resp.QR = base64.StdEncoding.EncodeToString(png)
	} else {
		h.log.Debug().Err(err).Msg("failed to render QR code")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Callback handles GET /pay/callback
// @Summary      Wallet redirect target
// @Description  Classifies the wallet's redirect parameters, decrypts the response if needed and reports the payment outcome
// @Tags         pay
// @Produce      json
// @Param        signature     query  string  false  "Plaintext transaction signature (legacy path)"
// @Param        data          query  string  false  "Encrypted response data"
// @Param        nonce         query  string  false  "Encrypted response nonce"
// @Param        errorCode     query  string  false  "Wallet error code"
// @Param        errorMessage  query  string  false  "Wallet error message"
// @Success      200  {object}  model.CallbackResponse
// @Router       /pay/callback [get]
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	params := map[string]string{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	resultCh := make(chan model.CallbackResponse, 1)
	handled := h.session.HandleReturn(params, nil,
		func(signature string) {
			resultCh <- model.CallbackResponse{
				Status:      "success",
				Signature:   signature,
				ExplorerURL: solana.ExplorerURL(config.GetExplorerHost(), signature, config.GetCluster()),
			}
		},
		func(message string) {
			resultCh <- model.CallbackResponse{Status: "error", Error: message}
		},
	)

	w.Header().Set("Content-Type", "application/json")

	if !handled {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(model.CallbackResponse{Status: "ignored"})
		return
	}

	select {
	case resp := <-resultCh:
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	case <-time.After(callbackTimeout):
		w.WriteHeader(http.StatusGatewayTimeout)
		json.NewEncoder(w).Encode(model.CallbackResponse{Status: "error", Error: "timed out processing wallet response"})
	}
}

// AuditRecords handles GET /audit/records
// @Summary      List recorded suspicious activity
// @Tags         audit
// @Produce      json
// @Success      200  {array}  model.SuspiciousActivityRecord
// @Router       /audit/records [get]
func (h *PaymentHandler) AuditRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(h.monitor.List())
}

// buildTransactionRequest normalizes the order and token data into the
// builder's input. Amounts arrive as decimal strings and are scaled to
// base units here.
func buildTransactionRequest(req *model.PayLinkRequest) (*model.TransactionRequest, error) {
	txReq := &model.TransactionRequest{
		FromAddress: req.PayerAddress,
		ToAddress:   req.MerchantAddress,
		OrderID:     req.OrderID,
	}

	decimals := common.SOLDecimals
	if !req.Token.IsNative {
		txReq.TokenMint = req.Token.Address
		if txReq.TokenMint == "" {
			txReq.TokenMint = config.GetPayTokenMint()
		}
		if req.Token.Decimals != nil {
			txReq.TokenDecimals = *req.Token.Decimals
		} else {
			txReq.TokenDecimals = config.GetPayTokenDecimals()
		}
		decimals = int(txReq.TokenDecimals)
	}

	amount, err := common.ToBaseUnits(req.PayTokenAmount, decimals)
	if err != nil {
		return nil, errors.New("invalid payTokenAmount: " + err.Error())
	}
	txReq.AmountBaseUnits = amount

	return txReq, nil
}

// writeError writes the consistent JSON error shape.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}

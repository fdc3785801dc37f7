package handler

import (
	"net/http"
)

type paymentResponse struct {
	Course   courseResponse `json:"course"`
	VPA      string         `json:"vpa"`
	Payee    string         `json:"payee"`
	Amount   int64          `json:"amount"`
	Currency string         `json:"currency"`
	DeepLink string         `json:"deepLink"`
}

// GetPayment возвращает реквизиты и ссылку UPI для оплаты выбранного курса.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.PaymentDetails()
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, paymentResponse{
		Course:   newCourseResponse(d.Course, h.service.CurrentUser().IsEnrolled(d.Course.ID)),
		VPA:      d.UPI.VPA,
		Payee:    d.UPI.Name,
		Amount:   d.Course.Price,
		Currency: d.Currency,
		DeepLink: d.DeepLink,
	})
}

// CopyUPI возвращает платёжный адрес для копирования.
func (h *Handler) CopyUPI(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"vpa": h.service.CopyUPI()})
}

type submitPaymentRequest struct {
	TransactionID string `json:"transactionId"`
}

// SubmitPayment принимает номер транзакции (UTR) для ручной проверки оплаты.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	var req submitPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.SubmitPayment(req.TransactionID); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

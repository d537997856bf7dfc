package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"loanapproval/internal/domain"
	"loanapproval/internal/loan"
	pkgerrors "loanapproval/pkg/errors"
	"loanapproval/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

// LoanService is the approval workflow as seen by the API.
type LoanService interface {
	SubmitBatch(ctx context.Context, batch []loan.IntakeRequest) error
	RecordApproval(ctx context.Context, approverID, customerID string) error
	Pending(ctx context.Context, customerID string) (*domain.LoanRequest, error)
}

// StatisticsService answers windowed statistics queries.
type StatisticsService interface {
	Gather(ctx context.Context, periodStart, periodEnd string) (domain.Statistics, error)
}

type LoanHandler struct {
	loans     LoanService
	stats     StatisticsService
	validator *validator.Validator
	logger    Logger
}

func NewLoanHandler(loans LoanService, stats StatisticsService, val *validator.Validator, log Logger) *LoanHandler {
	return &LoanHandler{loans: loans, stats: stats, validator: val, logger: log}
}

// Register mounts the loan routes on r.
func (h *LoanHandler) Register(r *mux.Router) {
	r.HandleFunc("/loan/requests", h.SubmitRequests).Methods(http.MethodPost)
	r.HandleFunc("/loan/requests/{customerId}", h.GetPending).Methods(http.MethodGet)
	r.HandleFunc("/loan/approvals", h.Approve).Methods(http.MethodPut)
	r.HandleFunc("/loan/statistics", h.Statistics).Methods(http.MethodGet)
}

type loanRequestItem struct {
	CustomerID string           `json:"customerId" validate:"required,customer_id"`
	Amount     *decimal.Decimal `json:"amount" validate:"required"`
	Approvers  []string         `json:"approvers" validate:"required,min=1,distinct_max=3,dive,notblank"`
}

type submitRequestsBody struct {
	Requests []loanRequestItem `json:"requests" validate:"required,min=1,dive"`
}

type approvalBody struct {
	Username   string `json:"username" validate:"required,notblank"`
	CustomerID string `json:"customerId" validate:"required,customer_id"`
}

type approvalView struct {
	Username string `json:"username"`
	Approved bool   `json:"approved"`
}

type pendingResponse struct {
	CustomerID string         `json:"customerId"`
	Amount     json.Number    `json:"amount"`
	Approvals  []approvalView `json:"approvals"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type statisticsResponse struct {
	Count int         `json:"count"`
	Sum   json.Number `json:"sum,omitempty"`
	Avg   json.Number `json:"avg,omitempty"`
	Max   json.Number `json:"max,omitempty"`
	Min   json.Number `json:"min,omitempty"`
}

func (h *LoanHandler) SubmitRequests(w http.ResponseWriter, r *http.Request) {
	var body submitRequestsBody
	if !h.decode(w, r, &body) {
		return
	}

	batch := make([]loan.IntakeRequest, 0, len(body.Requests))
	for _, item := range body.Requests {
		batch = append(batch, loan.IntakeRequest{
			CustomerID: item.CustomerID,
			Amount:     *item.Amount,
			Approvers:  item.Approvers,
		})
	}

	if err := h.loans.SubmitBatch(r.Context(), batch); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var body approvalBody
	if !h.decode(w, r, &body) {
		return
	}

	if err := h.loans.RecordApproval(r.Context(), body.Username, body.CustomerID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

func (h *LoanHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	customerID := mux.Vars(r)["customerId"]

	req, err := h.loans.Pending(r.Context(), customerID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	resp := pendingResponse{
		CustomerID: req.CustomerID,
		Amount:     json.Number(req.Amount.String()),
		Approvals:  make([]approvalView, 0, len(req.Approvals)),
		CreatedAt:  req.CreatedAt,
	}
	for _, id := range req.Approvers() {
		resp.Approvals = append(resp.Approvals, approvalView{Username: id, Approved: req.Approvals[id].Approved})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	stats, err := h.stats.Gather(r.Context(), q.Get("periodStart"), q.Get("periodEnd"))
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	resp := statisticsResponse{Count: stats.Count}
	if a := stats.Amounts; a != nil {
		resp.Sum = json.Number(a.Sum.String())
		resp.Avg = json.Number(a.Avg.StringFixed(2))
		resp.Max = json.Number(a.Max.String())
		resp.Min = json.Number(a.Min.String())
	}
	respondJSON(w, http.StatusOK, resp)
}

// decode reads and validates a JSON body, writing the 400 response itself on failure.
func (h *LoanHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if errs := h.validator.ValidateStructured(dst); errs != nil {
		respondValidationErrors(w, errs)
		return false
	}
	return true
}

func (h *LoanHandler) respondServiceError(w http.ResponseWriter, err error) {
	kind, ok := pkgerrors.KindOf(err)
	if !ok {
		h.logger.Error("Request failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	switch kind {
	case pkgerrors.KindRequestNotFound:
		respondError(w, http.StatusNotFound, err.Error())
	case pkgerrors.KindValidation,
		pkgerrors.KindDuplicateRequest,
		pkgerrors.KindUnknownApprover,
		pkgerrors.KindPeriodFormat,
		pkgerrors.KindPeriodOrder:
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Request failed", map[string]interface{}{"error": err.Error()})
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

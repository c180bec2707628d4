package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wagewise-hr/payroll-backend-go/internal/domain/payroll"
	"github.com/wagewise-hr/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	// Cycles
	CreateCycle(w http.ResponseWriter, r *http.Request)
	ListCycles(w http.ResponseWriter, r *http.Request)
	DeleteCycle(w http.ResponseWriter, r *http.Request)
	LockCycle(w http.ResponseWriter, r *http.Request)
	RebuildCycle(w http.ResponseWriter, r *http.Request)
	ValidateCycleData(w http.ResponseWriter, r *http.Request)

	// Payslips
	ListPayslips(w http.ResponseWriter, r *http.Request)
	AddPayment(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	cycleService payroll.CycleService
}

func NewPayrollHandler(cycleService payroll.CycleService) PayrollHandler {
	return &payrollHandlerImpl{cycleService: cycleService}
}

// ========== CYCLES ==========

func (h *payrollHandlerImpl) CreateCycle(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.cycleService.CreateCycle(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll cycle created", result)
}

func (h *payrollHandlerImpl) ListCycles(w http.ResponseWriter, r *http.Request) {
	result, err := h.cycleService.GetCycles(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")

	result, err := h.cycleService.DeleteCycle(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle deleted", result)
}

func (h *payrollHandlerImpl) LockCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")

	if err := h.cycleService.LockCycle(r.Context(), cycleID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle locked", nil)
}

func (h *payrollHandlerImpl) RebuildCycle(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")

	result, err := h.cycleService.RebuildCycle(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle rebuilt", result)
}

func (h *payrollHandlerImpl) ValidateCycleData(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")

	result, err := h.cycleService.ValidateCycleData(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	cycleID := chi.URLParam(r, "cycleID")

	result, err := h.cycleService.GetPayslips(r.Context(), cycleID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) AddPayment(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "payslipID")

	var req payroll.AddPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.cycleService.AddPayment(r.Context(), payslipID, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment recorded", nil)
}

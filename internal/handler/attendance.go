package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/attendance"
)

func (h *Handler) CheckInOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action" validate:"required,oneof=CHECK_IN CHECK_OUT"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	action, err := attendance.ParseAction(req.Action)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.checkInOut(w, r, action)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.checkInOut(w, r, attendance.ActionCheckIn)
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.checkInOut(w, r, attendance.ActionCheckOut)
}

func (h *Handler) checkInOut(w http.ResponseWriter, r *http.Request, action attendance.Action) {
	shiftID, err := h.idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "班次ID无效")
		return
	}

	caller := callerFrom(r)
	result, err := h.service.CheckInOut(caller.ID, shiftID, action, h.now())
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateWorkedMinutes(r.Context(), caller.ID)
	h.successResponse(w, r, result.Message, result)
}

func (h *Handler) GetTodayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetTodayStatus(callerFrom(r).ID, h.now())
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, status.StatusMessage, status)
}

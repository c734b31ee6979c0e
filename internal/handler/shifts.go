package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/utils"
)

func (h *Handler) GenerateShifts(w http.ResponseWriter, r *http.Request) {
	applicationID, err := h.idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "申请ID无效")
		return
	}

	shifts, err := h.service.GenerateShiftsForApplication(r.Context(), callerFrom(r), applicationID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	shiftIDs := make([]int64, 0, len(shifts))
	for _, shift := range shifts {
		shiftIDs = append(shiftIDs, shift.ID)
	}

	data := map[string]any{
		"shiftIDs": shiftIDs,
		"count":    len(shifts),
	}
	if len(shifts) == 0 {
		h.successResponse(w, r, "招聘信息没有匹配的工作日，未生成班次", data)
		return
	}

	h.successResponse(w, r, "生成班次成功", data)
}

func (h *Handler) GetShiftsInRange(w http.ResponseWriter, r *http.Request) {
	from, to, err := utils.ParseDateRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"), h.service.Location())
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	shifts, err := h.service.GetShiftsInRange(callerFrom(r), from, to)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", shifts)
}

func (h *Handler) GetShiftDetail(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "班次ID无效")
		return
	}

	shift, err := h.service.GetShiftDetail(callerFrom(r), shiftID)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) SetShiftStatus(w http.ResponseWriter, r *http.Request) {
	shiftID, err := h.idParam(r)
	if err != nil {
		h.errorResponse(w, r, http.StatusBadRequest, "班次ID无效")
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=SCHEDULED PRESENT LATE ABSENT COMPLETED"`
	}
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	status, err := domain.ParseWorkStatus(req.Status)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	shift, err := h.service.SetShiftStatus(callerFrom(r), shiftID, status, h.now())
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateWorkedMinutes(r.Context(), shift.WorkerID)
	h.successResponse(w, r, "修改班次状态成功", shift)
}

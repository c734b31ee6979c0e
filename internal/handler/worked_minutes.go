package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/attendance"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// 每个员工一个 hash，field 是查询区间，签到签退后整体删除
func workedMinutesCacheKey(workerID int64) string {
	return fmt.Sprintf("worked_minutes:%d", workerID)
}

// 每次清除缓存都会递增代数，计算开始前记下的代数不一致时不再写入，避免旧结果覆盖清除
func workedMinutesGenerationKey(workerID int64) string {
	return fmt.Sprintf("worked_minutes_gen:%d", workerID)
}

const workedMinutesGenerationTTL = 24 * time.Hour

// KEYS[1] 缓存 hash，KEYS[2] 代数；ARGV 依次为 计算前的代数、field、内容、过期毫秒数
var cacheWorkedMinutesScript = redis.NewScript(`
local gen = redis.call("GET", KEYS[2]) or "0"
if gen ~= ARGV[1] then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[2], ARGV[3])
redis.call("PEXPIRE", KEYS[1], ARGV[4])
return 1
`)

func (h *Handler) rangeFromQuery(r *http.Request) (time.Time, time.Time, error) {
	loc := h.service.Location()
	q := r.URL.Query()
	if period := q.Get("period"); period != "" {
		return attendance.PeriodRange(period, h.now(), loc)
	}
	return utils.ParseDateRange(q.Get("from"), q.Get("to"), loc)
}

func (h *Handler) GetWorkedMinutes(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeFromQuery(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	workerID := callerFrom(r).ID
	field := from.Format(time.DateOnly) + "_" + to.Format(time.DateOnly)

	if report, ok := h.cachedWorkedMinutes(r.Context(), workerID, field); ok {
		h.successResponse(w, r, "获取工时统计成功", report)
		return
	}

	generation := h.workedMinutesGeneration(r.Context(), workerID)
	report, err := h.service.GetWorkedMinutes(workerID, from, to)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.cacheWorkedMinutes(r.Context(), workerID, generation, field, report)
	h.successResponse(w, r, "获取工时统计成功", report)
}

func (h *Handler) ExportWorkedMinutes(w http.ResponseWriter, r *http.Request) {
	from, to, err := h.rangeFromQuery(r)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	caller := callerFrom(r)
	workerID := caller.ID
	if raw := r.URL.Query().Get("workerID"); raw != "" {
		workerID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "员工ID无效")
			return
		}
	} else if caller.Role == domain.RoleManager {
		h.errorResponse(w, r, http.StatusBadRequest, "缺少员工ID")
		return
	}

	// 先写到内存中，出错时还能返回 JSON
	var buf bytes.Buffer
	if err := h.service.ExportWorkedMinutes(&buf, caller, workerID, from, to); err != nil {
		h.domainError(w, r, err)
		return
	}

	filename := fmt.Sprintf("worked_minutes_%d_%s_%s.xlsx", workerID, from.Format("20060102"), to.Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("无法写入导出文件", "requestID", r.Context().Value(RequestIDCtxKey), "error", err)
	}
}

func (h *Handler) redisContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Second)
}

// 缓存只是加速，读写失败都退回到数据库
func (h *Handler) cachedWorkedMinutes(ctx context.Context, workerID int64, field string) (*domain.WorkedMinutesReport, bool) {
	if h.redisClient == nil {
		return nil, false
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	raw, err := h.redisClient.HGet(ctx, workedMinutesCacheKey(workerID), field).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("无法读取工时缓存", "workerID", workerID, "error", err)
		}
		return nil, false
	}

	report := &domain.WorkedMinutesReport{}
	if err := json.Unmarshal(raw, report); err != nil {
		slog.Warn("工时缓存内容无效", "workerID", workerID, "error", err)
		return nil, false
	}
	return report, true
}

// workedMinutesGeneration 返回当前代数，取不到时返回空串，之后的写入会被跳过
func (h *Handler) workedMinutesGeneration(ctx context.Context, workerID int64) string {
	if h.redisClient == nil {
		return ""
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	gen, err := h.redisClient.Get(ctx, workedMinutesGenerationKey(workerID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "0"
		}
		slog.Warn("无法读取工时缓存代数", "workerID", workerID, "error", err)
		return ""
	}
	return gen
}

func (h *Handler) cacheWorkedMinutes(ctx context.Context, workerID int64, generation, field string, report *domain.WorkedMinutesReport) {
	if h.redisClient == nil || generation == "" {
		return
	}

	raw, err := json.Marshal(report)
	if err != nil {
		slog.Warn("无法序列化工时统计", "workerID", workerID, "error", err)
		return
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	keys := []string{workedMinutesCacheKey(workerID), workedMinutesGenerationKey(workerID)}
	ttl := time.Duration(h.config.Redis.WorkedMinutesTTL) * time.Second
	written, err := cacheWorkedMinutesScript.Run(ctx, h.redisClient, keys, generation, field, raw, ttl.Milliseconds()).Int()
	if err != nil {
		slog.Warn("无法写入工时缓存", "workerID", workerID, "error", err)
		return
	}
	if written == 0 {
		slog.Debug("工时统计期间缓存已被清除，跳过写入", "workerID", workerID)
	}
}

func (h *Handler) invalidateWorkedMinutes(ctx context.Context, workerID int64) {
	if h.redisClient == nil {
		return
	}

	ctx, cancel := h.redisContext(ctx)
	defer cancel()

	genKey := workedMinutesGenerationKey(workerID)
	pipe := h.redisClient.TxPipeline()
	pipe.Incr(ctx, genKey)
	pipe.Expire(ctx, genKey, workedMinutesGenerationTTL)
	pipe.Del(ctx, workedMinutesCacheKey(workerID))
	if _, err := pipe.Exec(ctx); err != nil {
		slog.Warn("无法清除工时缓存", "workerID", workerID, "error", err)
	}
}

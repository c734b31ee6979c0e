package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/attendance"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-attendance/backend/internal/domain"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	service     *attendance.Service
	translator  ut.Translator
	redisClient *redis.Client
	now         func() time.Time

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, service *attendance.Service, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		service:     service,
		translator:  trans,
		redisClient: rdb,
		now:         time.Now,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证由账户子系统完成，这里只校验令牌
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Post("/applications/{id}/shifts", h.GenerateShifts)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", h.GetShiftsInRange)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetShiftDetail)
				r.With(h.RequiredRole([]domain.Role{domain.RoleManager})).Patch("/status", h.SetShiftStatus)
				r.Group(func(r chi.Router) {
					r.Use(h.RequiredRole([]domain.Role{domain.RoleWorker}))
					r.Post("/attendance", h.CheckInOut)
					r.Post("/check-in", h.CheckIn)
					r.Post("/check-out", h.CheckOut)
				})
			})
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleWorker}))
			r.Get("/today", h.GetTodayStatus)
		})

		r.Route("/worked-minutes", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleWorker})).Get("/", h.GetWorkedMinutes)
			r.Get("/export", h.ExportWorkedMinutes)
		})
	})
}

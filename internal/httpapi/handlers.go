package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/notify"
)

// Handler serves the plan API on top of the use cases.
type Handler struct {
	personalize app.PersonalizeUseCase
	allocate    app.AllocateUseCase
	adjust      app.AdjustUseCase
	streak      app.StreakUseCase
	plans       app.PlanUseCase
	deviations  app.DeviationUseCase
	catalog     app.CatalogUseCase
	events      *notify.Registry
	log         *zap.Logger
}

func NewHandler(deps Deps) *Handler {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		personalize: deps.Personalize,
		allocate:    deps.Allocate,
		adjust:      deps.Adjust,
		streak:      deps.Streak,
		plans:       deps.Plans,
		deviations:  deps.Deviations,
		catalog:     deps.Catalog,
		events:      deps.Events,
		log:         log.With(zap.String("component", "httpapi")),
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// POST /v1/users/:user/plans/:date/personalize
func (h *Handler) Personalize(c *gin.Context) {
	date, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		h.writeError(c, invalid("%s", err.Error()))
		return
	}
	resp, err := h.personalize.PersonalizeForDate(c.Request.Context(), app.PersonalizeRequest{
		UserID: c.Param("user"),
		Date:   date,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	fallback := resp.FallbackUsed
	if fallback == nil {
		fallback = []string{}
	}
	respondOK(c, personalizeJSON{
		Success:      resp.Success,
		Date:         resp.Date.Format(domain.DateLayout),
		Count:        resp.Count,
		FallbackUsed: fallback,
		Slots:        toPlannedJSON(resp.Plan),
	})
}

// GET /v1/users/:user/plans/:date
func (h *Handler) GetPlan(c *gin.Context) {
	date, err := domain.ParseDay(c.Param("date"))
	if err != nil {
		h.writeError(c, invalid("%s", err.Error()))
		return
	}
	resp, err := h.plans.PlanForDate(c.Request.Context(), app.PlanRequest{UserID: c.Param("user"), Date: date})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, planJSON{
		UserID: resp.UserID,
		Date:   resp.Date.Format(domain.DateLayout),
		Slots:  toPlannedJSON(resp.Slots),
	})
}

// POST /v1/users/:user/weeks/:start/allocate
func (h *Handler) AllocateWeek(c *gin.Context) {
	start, err := domain.ParseDay(c.Param("start"))
	if err != nil {
		h.writeError(c, invalid("%s", err.Error()))
		return
	}
	resp, err := h.allocate.AllocateWeek(c.Request.Context(), app.AllocateRequest{UserID: c.Param("user"), StartDate: start})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, allocateJSON{
		StartDate:    resp.StartDate.Format(domain.DateLayout),
		DaysPlanned:  resp.DaysPlanned,
		ItemsCreated: resp.ItemsCreated,
		SlotsFilled:  resp.SlotsFilled,
	})
}

// POST /v1/users/:user/adjustments
// The body is optional; an empty trigger means manual.
func (h *Handler) ApplyAdjustments(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(c, invalid("invalid body: %s", err.Error()))
		return
	}
	resp, err := h.adjust.ApplyAdjustments(c.Request.Context(), app.AdjustRequest{
		UserID:  c.Param("user"),
		Trigger: domain.AdjustTrigger(req.Trigger),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, toAdjustJSON(resp))
}

// GET /v1/users/:user/streak
func (h *Handler) Streak(c *gin.Context) {
	resp, err := h.streak.ComputeStreak(c.Request.Context(), app.StreakRequest{UserID: c.Param("user")})
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, streakJSON{
		CurrentStreak: resp.CurrentStreak,
		LongestStreak: resp.LongestStreak,
		TodayComplete: resp.TodayComplete,
	})
}

// POST /v1/users/:user/deviations
func (h *Handler) LogDeviation(c *gin.Context) {
	var req deviationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalid("invalid body: %s", err.Error()))
		return
	}
	ev := domain.DeviationEvent{
		UserID:         c.Param("user"),
		Type:           domain.DeviationType(req.Type),
		Reason:         domain.ReasonCode(req.Reason),
		ImpactCalories: req.ImpactCalories,
		ImpactBudget:   req.ImpactBudget,
	}
	if req.OccurredAt != nil {
		ev.OccurredAt = req.OccurredAt.UTC()
	}
	resp, err := h.deviations.Log(c.Request.Context(), app.LogDeviationRequest{
		Event:            ev,
		ApplyAdjustments: domain.DerefOr(true, req.ApplyAdjustments),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := deviationJSON{
		ID:             resp.Event.ID,
		Type:           resp.Event.Type,
		Reason:         resp.Event.Reason,
		OccurredAt:     resp.Event.OccurredAt,
		ImpactCalories: resp.Event.ImpactCalories,
		ImpactBudget:   resp.Event.ImpactBudget,
	}
	if resp.Adjustment != nil {
		out.Adjustment = toAdjustJSON(resp.Adjustment)
	}
	c.JSON(http.StatusCreated, out)
}

// POST /v1/slots/:slot/complete
func (h *Handler) CompleteSlot(c *gin.Context) {
	resp, err := h.plans.CompleteSlot(c.Request.Context(), c.Param("slot"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	respondOK(c, completeJSON{Slot: toSlotJSON(resp.Slot), ItemCompleted: resp.ItemCompleted})
}

// GET /v1/templates?kind=meal|workout
func (h *Handler) ListTemplates(c *gin.Context) {
	templates, err := h.catalog.List(c.Request.Context(), domain.Kind(c.Query("kind")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]templateJSON, 0, len(templates))
	for _, t := range templates {
		out = append(out, toTemplateJSON(t))
	}
	respondOK(c, gin.H{"templates": out})
}

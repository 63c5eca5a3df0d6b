// controllers/bonus_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/astrixglobal/astrix_backend/config"
	"github.com/astrixglobal/astrix_backend/models"
	"github.com/astrixglobal/astrix_backend/services"
	"github.com/astrixglobal/astrix_backend/utils"
)

// ManualRunRequest optionally targets a past window. Without a date the
// pass runs against the most recently closed half-day window, same as a
// scheduled run.
type ManualRunRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Slot string `json:"slot" validate:"omitempty,oneof=am pm"`
}

// BonusController exposes the manual trigger surface for the bonus passes.
type BonusController struct {
	matching *services.MatchingBonusService
	direct   *services.DirectSalesService
	infinity *services.InfinityBonusService
}

// NewBonusController creates a new bonus controller
func NewBonusController(matching *services.MatchingBonusService, direct *services.DirectSalesService, infinity *services.InfinityBonusService) *BonusController {
	return &BonusController{
		matching: matching,
		direct:   direct,
		infinity: infinity,
	}
}

// resolveWindow binds and validates the optional backfill body. Echo skips
// binding on an empty body, so an error here means a malformed one.
func resolveWindow(c echo.Context) (utils.BonusWindow, error) {
	var req ManualRunRequest
	if err := c.Bind(&req); err != nil {
		return utils.BonusWindow{}, err
	}
	if req.Date == "" {
		return utils.PreviousBonusWindow(time.Now()), nil
	}
	if err := c.Validate(&req); err != nil {
		return utils.BonusWindow{}, err
	}
	return utils.ParseWindowDate(req.Date, req.Slot)
}

// withJobLock runs fn under the named Redis job lock so a manual trigger
// cannot overlap the scheduled run of the same job.
func (bc *BonusController) withJobLock(c echo.Context, jobName string, fn func(ctx context.Context) (int, error)) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Minute)
	defer cancel()

	locked, err := config.AcquireJobLock(ctx, jobName, 30*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to acquire job lock",
			Data:    err.Error(),
		})
	}
	if !locked {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "A " + jobName + " bonus job is already running",
		})
	}
	defer config.ReleaseJobLock(ctx, jobName)

	created, err := fn(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Bonus pass failed",
			Data:    err.Error(),
		})
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Bonus pass completed",
		Data:    map[string]interface{}{"payoutsCreated": created},
	})
}

// RunMatchingBonus triggers one matching bonus pass.
func (bc *BonusController) RunMatchingBonus(c echo.Context) error {
	window, err := resolveWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid window request",
			Data:    err.Error(),
		})
	}
	return bc.withJobLock(c, "daily", func(ctx context.Context) (int, error) {
		return bc.matching.Run(ctx, window)
	})
}

// RunDirectSalesBonus triggers one direct sales bonus pass.
func (bc *BonusController) RunDirectSalesBonus(c echo.Context) error {
	window, err := resolveWindow(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid window request",
			Data:    err.Error(),
		})
	}
	return bc.withJobLock(c, "daily", func(ctx context.Context) (int, error) {
		return bc.direct.Run(ctx, window)
	})
}

// RunInfinityBonus triggers one infinity propagation pass.
func (bc *BonusController) RunInfinityBonus(c echo.Context) error {
	return bc.withJobLock(c, "fortnightly", func(ctx context.Context) (int, error) {
		return bc.infinity.Run(ctx, time.Now())
	})
}

// RunDailyJob chains matching then direct sales, same as the scheduler.
func (bc *BonusController) RunDailyJob(c echo.Context) error {
	return bc.withJobLock(c, "daily", func(ctx context.Context) (int, error) {
		window := utils.PreviousBonusWindow(time.Now())
		matched, err := bc.matching.Run(ctx, window)
		if err != nil {
			return matched, err
		}
		direct, err := bc.direct.Run(ctx, window)
		return matched + direct, err
	})
}

// RunFortnightlyJob runs the infinity job as the scheduler would.
func (bc *BonusController) RunFortnightlyJob(c echo.Context) error {
	return bc.withJobLock(c, "fortnightly", func(ctx context.Context) (int, error) {
		return bc.infinity.Run(ctx, time.Now())
	})
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ptcoach/fitness-planner/internal/planner"
	"ptcoach/fitness-planner/internal/service"
)

// ProgressHandler serves the derived views: history, stats and calendar.
type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// LastInstanceResponse wraps the newest completed occurrence. Found is false
// when the user never completed the exercise.
type LastInstanceResponse struct {
	Found bool `json:"found"`
	*planner.LastInstance
}

// CalendarDayResponse is one cell of the month grid.
type CalendarDayResponse struct {
	Date        string                `json:"date"`
	Status      planner.Status        `json:"status"`
	Selectable  bool                  `json:"selectable"`
	CloneTarget bool                  `json:"cloneTarget"`
	Plans       []planner.PlanSummary `json:"plans"`
}

type DayResolutionResponse struct {
	Date       string            `json:"date"`
	Status     planner.Status    `json:"status"`
	Selectable bool              `json:"selectable"`
	Mode       string            `json:"mode"`
	PlanID     int64             `json:"planId,omitempty"`
	Title      string            `json:"title"`
	Exercises  []PlanExerciseDTO `json:"exercises"`
}

// GetHistory godoc
// @Summary Per-exercise history
// @Description Completed occurrences keyed by exercise name, each list in ascending date order.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} planner.History
// @Failure 403 {object} gin.H "Forbidden"
// @Router /users/{userId}/history [get]
func (h *ProgressHandler) GetHistory(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	history, err := h.progressService.History(c.Request.Context(), actor, userID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to build history")
		return
	}
	c.JSON(http.StatusOK, history)
}

// GetLastInstance godoc
// @Summary Last completed instance of an exercise
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param name query string true "Exercise name"
// @Success 200 {object} LastInstanceResponse
// @Failure 400 {object} gin.H "Missing name"
// @Router /users/{userId}/exercises/last [get]
func (h *ProgressHandler) GetLastInstance(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	inst, found, err := h.progressService.LastInstance(c.Request.Context(), actor, userID, c.Query("name"))
	if err != nil {
		respondWithServiceError(c, err, "Failed to look up exercise")
		return
	}
	resp := LastInstanceResponse{Found: found}
	if found {
		resp.LastInstance = &inst
	}
	c.JSON(http.StatusOK, resp)
}

// GetStats godoc
// @Summary Progress statistics
// @Description Monthly completion, sessions per plan title and daily streaks.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} planner.Stats
// @Router /users/{userId}/stats [get]
func (h *ProgressHandler) GetStats(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	stats, err := h.progressService.Stats(c.Request.Context(), actor, userID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetCalendar godoc
// @Summary Month calendar
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param year query int true "Year"
// @Param month query int true "Month 1-12"
// @Param cloning query bool false "Highlight clone targets"
// @Success 200 {array} CalendarDayResponse
// @Failure 400 {object} gin.H "Invalid year or month"
// @Router /users/{userId}/calendar [get]
func (h *ProgressHandler) GetCalendar(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	year, errYear := strconv.Atoi(c.Query("year"))
	month, errMonth := strconv.Atoi(c.Query("month"))
	if errYear != nil || errMonth != nil {
		abortWithError(c, http.StatusBadRequest, "year and month query parameters are required")
		return
	}
	cloning, _ := strconv.ParseBool(c.DefaultQuery("cloning", "false"))

	days, err := h.progressService.Calendar(c.Request.Context(), actor, userID, year, time.Month(month), cloning)
	if err != nil {
		respondWithServiceError(c, err, "Failed to build calendar")
		return
	}
	out := make([]CalendarDayResponse, len(days))
	for i, d := range days {
		out[i] = CalendarDayResponse{
			Date:        d.Date.Format(dateLayout),
			Status:      d.Status,
			Selectable:  d.Selectable,
			CloneTarget: d.CloneTarget,
			Plans:       d.Plans,
		}
	}
	c.JSON(http.StatusOK, out)
}

// ResolveDay godoc
// @Summary Resolve a clicked calendar day
// @Description Returns the first unfinished plan of the day in edit mode, or an empty create form.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param date path string true "Day, YYYY-MM-DD"
// @Success 200 {object} DayResolutionResponse
// @Router /users/{userId}/calendar/{date} [get]
func (h *ProgressHandler) ResolveDay(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	date, err := parseDate(c.Param("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}

	res, err := h.progressService.ResolveDay(c.Request.Context(), actor, userID, date)
	if err != nil {
		respondWithServiceError(c, err, "Failed to resolve day")
		return
	}
	c.JSON(http.StatusOK, DayResolutionResponse{
		Date:       res.Date.Format(dateLayout),
		Status:     res.Status,
		Selectable: res.Selectable,
		Mode:       res.Mode,
		PlanID:     res.PlanID,
		Title:      res.Title,
		Exercises:  mapExercisesToDTO(res.Exercises),
	})
}

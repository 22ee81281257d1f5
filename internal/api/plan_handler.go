package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/service"
)

// PlanHandler serves plan CRUD, the client toggle and cloning.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

// PlanExerciseDTO is one plan entry on the wire, in both directions.
type PlanExerciseDTO struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	VideoURL   string  `json:"videoUrl,omitempty"`
	Sets       string  `json:"sets"`
	Reps       string  `json:"reps"`
	Done       bool    `json:"done"`
	Weight     string  `json:"weight,omitempty"`
	WeightKg   string  `json:"weightKg"`
	WeightLbs  string  `json:"weightLbs"`
	CoachNote  string  `json:"coachNote"`
	UserNote   string  `json:"userNote"`
	SupersetID *string `json:"supersetId"`
}

type PlanResponse struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"userId"`
	Title     string            `json:"title"`
	Date      string            `json:"date"` // YYYY-MM-DD
	Status    string            `json:"status"`
	Exercises []PlanExerciseDTO `json:"exercises"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type CreatePlanRequest struct {
	UserID    int64             `json:"userId" binding:"required"`
	Title     string            `json:"title" binding:"required"`
	Date      string            `json:"date" binding:"required"`
	Exercises []PlanExerciseDTO `json:"exercises" binding:"required"`
}

type UpdatePlanRequest struct {
	Title     string            `json:"title" binding:"required"`
	Exercises []PlanExerciseDTO `json:"exercises" binding:"required"`
}

// ToggleExerciseRequest addresses the exercise by exerciseId, or by the
// legacy exerciseIndex when no id is given.
type ToggleExerciseRequest struct {
	ExerciseID    string  `json:"exerciseId"`
	ExerciseIndex *int    `json:"exerciseIndex"`
	Done          *bool   `json:"done" binding:"required"`
	WeightKg      string  `json:"weightKg"`
	WeightLbs     string  `json:"weightLbs"`
	UserNote      *string `json:"userNote"`
}

type ClonePlanRequest struct {
	Date   string `json:"date" binding:"required"`
	UserID int64  `json:"userId"` // Defaults to the source plan's owner
}

func mapExerciseFromDTO(d PlanExerciseDTO) domain.PlanExercise {
	return domain.PlanExercise{
		ID:         d.ID,
		Name:       d.Name,
		VideoURL:   d.VideoURL,
		Sets:       d.Sets,
		Reps:       d.Reps,
		Done:       d.Done,
		Weight:     d.Weight,
		WeightKg:   d.WeightKg,
		WeightLbs:  d.WeightLbs,
		CoachNote:  d.CoachNote,
		UserNote:   d.UserNote,
		SupersetID: d.SupersetID,
	}
}

func mapExercisesFromDTO(dtos []PlanExerciseDTO) []domain.PlanExercise {
	out := make([]domain.PlanExercise, len(dtos))
	for i := range dtos {
		out[i] = mapExerciseFromDTO(dtos[i])
	}
	return out
}

func mapExercisesToDTO(exercises []domain.PlanExercise) []PlanExerciseDTO {
	out := make([]PlanExerciseDTO, len(exercises))
	for i, ex := range exercises {
		out[i] = PlanExerciseDTO{
			ID:         ex.ID,
			Name:       ex.Name,
			VideoURL:   ex.VideoURL,
			Sets:       ex.Sets,
			Reps:       ex.Reps,
			Done:       ex.Done,
			Weight:     ex.Weight,
			WeightKg:   ex.WeightKg,
			WeightLbs:  ex.WeightLbs,
			CoachNote:  ex.CoachNote,
			UserNote:   ex.UserNote,
			SupersetID: ex.SupersetID,
		}
	}
	return out
}

// MapPlanToResponse converts a domain.Plan to its DTO.
func MapPlanToResponse(p *domain.Plan) PlanResponse {
	if p == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Title:     p.Title,
		Date:      p.Date.Format(dateLayout),
		Status:    p.Status,
		Exercises: mapExercisesToDTO(p.Exercises),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = MapPlanToResponse(&plans[i])
	}
	return out
}

// --- Handler Methods ---

// ListUserPlans godoc
// @Summary List a user's plans
// @Description Newest date first. Clients may only list their own plans.
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {array} PlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Router /users/{userId}/plans [get]
func (h *PlanHandler) ListUserPlans(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	plans, err := h.planService.ListPlans(c.Request.Context(), actor, userID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve plans")
		return
	}
	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// GetPlan godoc
// @Summary Get one plan
// @Tags Plans
// @Produce json
// @Security BearerAuth
// @Param planId path int true "Plan ID"
// @Success 200 {object} PlanResponse
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := paramID(c, "planId")
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), actor, planID)
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve plan")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// CreatePlan godoc
// @Summary Create a plan
// @Description Assigns a dated plan to a user. Logged results in the body are discarded.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "User not found"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), service.CreatePlanInput{
		UserID:    req.UserID,
		Title:     req.Title,
		Date:      date,
		Exercises: mapExercisesFromDTO(req.Exercises),
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to create plan")
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// UpdatePlan godoc
// @Summary Replace a plan's title and exercises
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path int true "Plan ID"
// @Param plan body UpdatePlanRequest true "Plan"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	planID, ok := paramID(c, "planId")
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), planID, req.Title, mapExercisesFromDTO(req.Exercises))
	if err != nil {
		respondWithServiceError(c, err, "Failed to update plan")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// ToggleExercise godoc
// @Summary Mark an exercise done or undone
// @Description Logs weight (kg or lbs, the other unit is derived) and a note. Undoing clears the weights.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path int true "Plan ID"
// @Param toggle body ToggleExerciseRequest true "Toggle"
// @Success 200 {object} PlanResponse
// @Failure 400 {object} gin.H "Exercise not in plan"
// @Failure 403 {object} gin.H "Forbidden"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId}/exercises [patch]
func (h *PlanHandler) ToggleExercise(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	planID, ok := paramID(c, "planId")
	if !ok {
		return
	}
	var req ToggleExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.planService.ToggleExercise(c.Request.Context(), actor, planID, service.ToggleInput{
		ExerciseID:    req.ExerciseID,
		ExerciseIndex: req.ExerciseIndex,
		Done:          *req.Done,
		WeightKg:      req.WeightKg,
		WeightLbs:     req.WeightLbs,
		UserNote:      req.UserNote,
	})
	if err != nil {
		respondWithServiceError(c, err, "Failed to update exercise")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a plan
// @Tags Plans
// @Security BearerAuth
// @Param planId path int true "Plan ID"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /plans/{planId} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID, ok := paramID(c, "planId")
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), planID); err != nil {
		respondWithServiceError(c, err, "Failed to delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// ClonePlan godoc
// @Summary Clone a plan to another date or user
// @Description The copy starts with nothing done. Cloning onto an occupied day of the same user is rejected.
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param planId path int true "Source plan ID"
// @Param clone body ClonePlanRequest true "Target"
// @Success 201 {object} PlanResponse
// @Failure 404 {object} gin.H "Plan or user not found"
// @Failure 409 {object} gin.H "Target date already has a plan"
// @Router /plans/{planId}/clone [post]
func (h *PlanHandler) ClonePlan(c *gin.Context) {
	planID, ok := paramID(c, "planId")
	if !ok {
		return
	}
	var req ClonePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD.")
		return
	}

	plan, err := h.planService.ClonePlan(c.Request.Context(), planID, service.CloneInput{Date: date, UserID: req.UserID})
	if err != nil {
		respondWithServiceError(c, err, "Failed to clone plan")
		return
	}
	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

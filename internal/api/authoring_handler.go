package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ptcoach/fitness-planner/internal/planner"
	"ptcoach/fitness-planner/internal/service"
)

// AuthoringHandler replays editor operations for clients that keep the
// draft on their side.
type AuthoringHandler struct {
	authoringService service.AuthoringService
}

func NewAuthoringHandler(authoringService service.AuthoringService) *AuthoringHandler {
	return &AuthoringHandler{authoringService: authoringService}
}

type AuthoringOperationDTO struct {
	Type              planner.OpType    `json:"type" binding:"required"`
	Index             int               `json:"index"`
	Direction         planner.Direction `json:"direction"`
	SupersetID        string            `json:"supersetId"`
	LibraryExerciseID int64             `json:"libraryExerciseId"`
	Sets              string            `json:"sets"`
	Reps              string            `json:"reps"`
	CoachNote         string            `json:"coachNote"`
}

type ApplyAuthoringRequest struct {
	Exercises  []PlanExerciseDTO       `json:"exercises"`
	Selection  []int                   `json:"selection"`
	Operations []AuthoringOperationDTO `json:"operations" binding:"required,dive"`
}

type AuthoringUnitDTO struct {
	SupersetID string            `json:"supersetId,omitempty"`
	Exercises  []PlanExerciseDTO `json:"exercises"`
}

type AuthoringStateResponse struct {
	Exercises []PlanExerciseDTO  `json:"exercises"`
	Selection []int              `json:"selection"`
	Units     []AuthoringUnitDTO `json:"units"`
}

// Apply godoc
// @Summary Apply editor operations to a plan draft
// @Description Replays add, remove, toggleSelection, group, ungroup and move onto the posted draft and returns the new state. Malformed operations are ignored.
// @Tags Authoring
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param draft body ApplyAuthoringRequest true "Draft and operations"
// @Success 200 {object} AuthoringStateResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Router /authoring/apply [post]
func (h *AuthoringHandler) Apply(c *gin.Context) {
	var req ApplyAuthoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	ops := make([]service.AuthoringOperation, len(req.Operations))
	for i, op := range req.Operations {
		ops[i] = service.AuthoringOperation{
			Type:              op.Type,
			Index:             op.Index,
			Direction:         op.Direction,
			SupersetID:        op.SupersetID,
			LibraryExerciseID: op.LibraryExerciseID,
			Sets:              op.Sets,
			Reps:              op.Reps,
			CoachNote:         op.CoachNote,
		}
	}

	state, err := h.authoringService.Apply(c.Request.Context(), mapExercisesFromDTO(req.Exercises), req.Selection, ops)
	if err != nil {
		respondWithServiceError(c, err, "Failed to apply operations")
		return
	}

	units := make([]AuthoringUnitDTO, len(state.Units))
	for i, u := range state.Units {
		units[i] = AuthoringUnitDTO{SupersetID: u.SupersetID, Exercises: mapExercisesToDTO(u.Exercises)}
	}
	c.JSON(http.StatusOK, AuthoringStateResponse{
		Exercises: mapExercisesToDTO(state.Exercises),
		Selection: state.Selection,
		Units:     units,
	})
}

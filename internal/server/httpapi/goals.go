package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/gin-gonic/gin"
)

type goalIDRequest struct {
	GoalID int64 `json:"goal_id"`
}

// goalView adds the derived completion flag to a goal.
type goalView struct {
	models.Goal
	Completed bool `json:"completed"`
}

func viewOf(g models.Goal) goalView {
	return goalView{Goal: g, Completed: g.Completed()}
}

func (h *Handler) createGoal(c *gin.Context) {
	var in models.GoalInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	g, err := h.goals.CreateGoal(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal created", "goal_id": g.ID, "goal": viewOf(*g)})
}

func (h *Handler) viewGoals(c *gin.Context) {
	list, err := h.goals.ListGoals(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	out := make([]goalView, 0, len(list))
	for _, g := range list {
		out = append(out, viewOf(g))
	}
	c.JSON(http.StatusOK, gin.H{"goals": out})
}

func (h *Handler) updateGoal(c *gin.Context) {
	var in goalIDRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.GoalID <= 0 {
		badRequest(c, "goal_id is required")
		return
	}

	v, err := h.goals.RecomputeGoal(c.Request.Context(), userID(c), in.GoalID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal updated", "current_value": v})
}

func (h *Handler) deleteGoal(c *gin.Context) {
	var in goalIDRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.GoalID <= 0 {
		badRequest(c, "goal_id is required")
		return
	}

	if err := h.goals.DeleteGoal(c.Request.Context(), userID(c), in.GoalID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}

func (h *Handler) createActivity(c *gin.Context) {
	var in models.ActivityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	a, err := h.goals.CreateActivity(c.Request.Context(), userID(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "activity created", "activity_id": a.ID, "activity": a})
}

func (h *Handler) viewActivity(c *gin.Context) {
	var in goalIDRequest
	if err := c.ShouldBindJSON(&in); err != nil || in.GoalID <= 0 {
		badRequest(c, "goal_id is required")
		return
	}

	list, err := h.goals.ListGoalActivities(c.Request.Context(), userID(c), in.GoalID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list})
}

func (h *Handler) allActivities(c *gin.Context) {
	list, err := h.goals.ListActivities(c.Request.Context(), userID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activities": list})
}

func (h *Handler) weeklyReport(c *gin.Context) {
	report, err := h.goals.WeeklyReport(c.Request.Context(), userID(c), h.now())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

package handlers

import (
	"net/http"

	"taskflow/internal/auth"
	"taskflow/internal/domain"
	"taskflow/internal/dto"
	"taskflow/internal/repo"
	"taskflow/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List godoc
// @Summary      List the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id   path      string  true   "User ID"
// @Param        status    query     string  false  "Filter by status"    Enums(pending, in-progress, completed)
// @Param        priority  query     string  false  "Filter by priority"  Enums(low, medium, high)
// @Success      200  {object}  dto.TaskListEnvelope
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	list, err := h.svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListEnvelope{
		Status: dto.StatusSuccess,
		Data:   tasksToResponses(list),
		Meta:   dto.ListMeta{Total: len(list)},
	})
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string                 true  "User ID"
// @Param        body     body      dto.CreateTaskRequest  true  "Task body"
// @Success      201  {object}  dto.TaskEnvelope
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), userID, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.Priority(req.Priority),
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TaskEnvelope{
		Status:  dto.StatusSuccess,
		Data:    taskToResponse(t),
		Message: "Task created successfully",
	})
}

// GetByID godoc
// @Summary      Get a task by ID
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Param        task_id  path      string  true  "Task ID"
// @Success      200  {object}  dto.TaskEnvelope
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks/{task_id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	t, err := h.svc.Get(c.Request.Context(), userID, id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskEnvelope{Status: dto.StatusSuccess, Data: taskToResponse(t)})
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string                 true  "User ID"
// @Param        task_id  path      string                 true  "Task ID"
// @Param        body     body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200  {object}  dto.TaskEnvelope
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks/{task_id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if !bindJSON(c, &req) {
		return
	}
	in := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		st := domain.Status(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}
	t, err := h.svc.Update(c.Request.Context(), userID, id, in)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskEnvelope{
		Status:  dto.StatusSuccess,
		Data:    taskToResponse(t),
		Message: "Task updated successfully",
	})
}

// Delete godoc
// @Summary      Delete a task (soft delete)
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Param        task_id  path      string  true  "Task ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks/{task_id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := parseTaskID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, id); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewMessage("Task deleted successfully"))
}

// Search godoc
// @Summary      Search the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path      string  true  "User ID"
// @Param        q        query     string  true  "Search query (title/description)"
// @Success      200  {object}  dto.TaskListEnvelope
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /{user_id}/tasks/search [get]
func (h *TaskHandler) Search(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	list, err := h.svc.Search(c.Request.Context(), userID, c.Query("q"))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskListEnvelope{
		Status: dto.StatusSuccess,
		Data:   tasksToResponses(list),
		Meta:   dto.ListMeta{Total: len(list)},
	})
}

// currentUser returns the authenticated user id. The auth middleware has
// already run; a missing identity here means a wiring bug, answered with 401.
func currentUser(c *gin.Context) (string, bool) {
	u, ok := auth.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewError(dto.CodeUnauthorized, "authorization required"))
		return "", false
	}
	return u.ID, true
}

func parseTaskID(c *gin.Context) (string, bool) {
	raw := c.Param("task_id")
	if _, err := uuid.Parse(raw); err != nil {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationError("invalid task id", []dto.FieldError{
				{Field: "task_id", Message: "must be a valid UUID", Type: "uuid"},
			}))
		return "", false
	}
	return raw, true
}

func parseFilter(c *gin.Context) (repo.TaskFilter, bool) {
	var f repo.TaskFilter
	if raw, ok := c.GetQuery("status"); ok {
		st := domain.Status(raw)
		if !st.UpdatableByClient() {
			c.JSON(http.StatusUnprocessableEntity,
				dto.NewValidationError("invalid status filter", []dto.FieldError{
					{Field: "status", Message: "must be one of: pending in-progress completed", Type: "oneof"},
				}))
			return f, false
		}
		f.Status = &st
	}
	if raw, ok := c.GetQuery("priority"); ok {
		p := domain.Priority(raw)
		if !p.Valid() {
			c.JSON(http.StatusUnprocessableEntity,
				dto.NewValidationError("invalid priority filter", []dto.FieldError{
					{Field: "priority", Message: "must be one of: low medium high", Type: "oneof"},
				}))
			return f, false
		}
		f.Priority = &p
	}
	return f, true
}

func taskToResponse(t domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func tasksToResponses(list []domain.Task) []dto.TaskResponse {
	out := make([]dto.TaskResponse, len(list))
	for i := range list {
		out[i] = taskToResponse(list[i])
	}
	return out
}

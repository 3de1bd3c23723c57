package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpilot/lead-distribution/internal/core/domain"
	"github.com/leadpilot/lead-distribution/internal/core/ports"
)

type AgentHandler struct {
	agentService ports.AgentService
}

func NewAgentHandler(agentService ports.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

type createAgentRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Create registers a new sales agent.
//
// @Summary      Create an agent
// @Tags         agents
// @Accept       json
// @Produce      json
// @Param        body  body      createAgentRequest  true  "Agent details"
// @Success      201   {object}  map[string]any
// @Failure      400   {object}  map[string]any
// @Router       /agents [post]
// @Security     BearerAuth
func (h *AgentHandler) Create(c echo.Context) error {
	var req createAgentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	agent, err := h.agentService.Create(c.Request().Context(), ports.CreateAgentInput{
		Name:     req.Name,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	// New agents have no assignments yet; the view still carries an empty
	// customers list so the response shape matches GET /agents.
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "agent created successfully",
		"agent": ports.AgentView{
			ID:        agent.ID,
			Name:      agent.Name,
			Email:     agent.Email,
			Mobile:    agent.Mobile,
			Active:    agent.Active,
			CreatedAt: agent.CreatedAt,
			Customers: []domain.Customer{},
		},
	})
}

// List returns all agents with their assigned customers resolved.
//
// @Summary      List agents
// @Tags         agents
// @Produce      json
// @Success      200   {object}  map[string]any
// @Router       /agents [get]
// @Security     BearerAuth
func (h *AgentHandler) List(c echo.Context) error {
	agents, err := h.agentService.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"agents":  agents,
	})
}

// Delete removes an agent and its assigned customers.
//
// @Summary      Delete an agent
// @Tags         agents
// @Produce      json
// @Param        id   path      string  true  "Agent ID"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /agents/{id} [delete]
// @Security     BearerAuth
func (h *AgentHandler) Delete(c echo.Context) error {
	if err := h.agentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "agent deleted successfully",
	})
}

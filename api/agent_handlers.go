package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"luxestate/agent"
)

func (s *Server) handleAgentDirectory(c echo.Context) error {
	f := agent.DirectoryFilter{
		Term:      c.QueryParam("q"),
		Specialty: c.QueryParam("specialty"),
	}

	agents, err := s.agents.Directory(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load agents"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": toAgentList(agents),
		"total": len(agents),
	})
}

// handleStreamAgents delivers directory snapshots over server-sent
// events, re-queried on every agents table change.
func (s *Server) handleStreamAgents(c echo.Context) error {
	f := agent.DirectoryFilter{
		Term:      c.QueryParam("q"),
		Specialty: c.QueryParam("specialty"),
	}

	res := sseStart(c)
	snapshots, errs := s.agentStream.Watch(c.Request().Context(), f)

	for {
		select {
		case agents, ok := <-snapshots:
			if !ok {
				select {
				case <-errs:
					sseSend(res, "error", echo.Map{"error": "Failed to load agents"})
				default:
				}
				return nil
			}
			if err := sseSend(res, "snapshot", toAgentList(agents)); err != nil {
				return nil
			}
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func (s *Server) handleGetAgent(c echo.Context) error {
	a, err := s.agents.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load agent"})
	}
	return c.JSON(http.StatusOK, toAgentResponse(a))
}

type registerAgentRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Bio          string   `json:"bio"`
	ProfileImage string   `json:"profileImage"`
	Specialties  []string `json:"specialties"`
}

func (s *Server) handleRegisterAgent(c echo.Context) error {
	var req registerAgentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Name and email are required"})
	}

	a, err := s.agents.Register(c.Request().Context(), agent.CreateParams{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Bio:          req.Bio,
		ProfileImage: req.ProfileImage,
		Specialties:  req.Specialties,
	})
	if err != nil {
		if errors.Is(err, agent.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "Email already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to submit application"})
	}
	return c.JSON(http.StatusCreated, toAgentResponse(a))
}

func (s *Server) handlePendingAgents(c echo.Context) error {
	agents, err := s.agents.Pending(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load pending agents"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": toAgentList(agents),
		"total": len(agents),
	})
}

func (s *Server) handleApproveAgent(c echo.Context) error {
	a, err := s.agents.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to approve agent"})
	}
	return c.JSON(http.StatusOK, toAgentResponse(a))
}

func (s *Server) handleRejectAgent(c echo.Context) error {
	err := s.agents.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, agent.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Agent not found"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Agent application rejected"})
}

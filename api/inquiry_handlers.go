package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"luxestate/inquiry"
)

type submitInquiryRequest struct {
	PropertyID    string `json:"propertyId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message"`
	PreferredDate string `json:"preferredDate"`
}

func (s *Server) handleSubmitInquiry(c echo.Context) error {
	var req submitInquiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	params := inquiry.CreateParams{
		PropertyID: req.PropertyID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Message:    req.Message,
	}
	if req.PreferredDate != "" {
		date, err := time.Parse("2006-01-02", req.PreferredDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid preferredDate, expected YYYY-MM-DD"})
		}
		params.PreferredDate = &date
	}

	inq, err := s.inquiries.Submit(c.Request().Context(), params)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, toInquiryResponse(inq))
}

func (s *Server) handleListInquiries(c echo.Context) error {
	var status *inquiry.Status
	if raw := c.QueryParam("status"); raw != "" {
		st := inquiry.Status(raw)
		switch st {
		case inquiry.StatusNew, inquiry.StatusInProgress, inquiry.StatusClosed:
			status = &st
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("unknown status %q", raw)})
		}
	}

	inquiries, err := s.inquiries.List(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load inquiries"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": toInquiryList(inquiries),
		"total": len(inquiries),
	})
}

// handleStreamInquiries delivers inquiry snapshots over server-sent
// events for the admin board.
func (s *Server) handleStreamInquiries(c echo.Context) error {
	var status *inquiry.Status
	if raw := c.QueryParam("status"); raw != "" {
		st := inquiry.Status(raw)
		switch st {
		case inquiry.StatusNew, inquiry.StatusInProgress, inquiry.StatusClosed:
			status = &st
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("unknown status %q", raw)})
		}
	}

	res := sseStart(c)
	snapshots, errs := s.inquiryStream.Watch(c.Request().Context(), status)

	for {
		select {
		case inquiries, ok := <-snapshots:
			if !ok {
				select {
				case <-errs:
					sseSend(res, "error", echo.Map{"error": "Failed to load inquiries"})
				default:
				}
				return nil
			}
			if err := sseSend(res, "snapshot", toInquiryList(inquiries)); err != nil {
				return nil
			}
		case <-c.Request().Context().Done():
			return nil
		}
	}
}

func (s *Server) handleAssignInquiry(c echo.Context) error {
	var req struct {
		AgentID string `json:"agentId"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if req.AgentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "agentId is required"})
	}

	inq, err := s.inquiries.Assign(c.Request().Context(), c.Param("id"), req.AgentID)
	if err != nil {
		switch {
		case errors.Is(err, inquiry.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Inquiry not found"})
		case errors.Is(err, inquiry.ErrAlreadyAssigned):
			return c.JSON(http.StatusConflict, echo.Map{"error": "Inquiry already assigned"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to assign inquiry"})
		}
	}
	return c.JSON(http.StatusOK, toInquiryResponse(inq))
}

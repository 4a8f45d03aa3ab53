package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"luxestate/property"
)

// filterFromQuery builds a listing filter from the request query. Price
// bounds ride along on the filter but are evaluated against snapshots,
// never pushed into the store query.
func filterFromQuery(c echo.Context) (property.Filter, error) {
	var f property.Filter

	if city := c.QueryParam("city"); city != "" {
		f.City = &city
	}
	if raw := c.QueryParam("type"); raw != "" {
		t := property.Type(raw)
		if !property.ValidType(t) {
			return property.Filter{}, fmt.Errorf("unknown property type %q", raw)
		}
		f.PropertyType = &t
	}
	if raw := c.QueryParam("bedrooms"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return property.Filter{}, fmt.Errorf("invalid bedrooms %q", raw)
		}
		f.Bedrooms = &n
	}
	if raw := c.QueryParam("featured"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return property.Filter{}, fmt.Errorf("invalid featured %q", raw)
		}
		f.Featured = &b
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return property.Filter{}, fmt.Errorf("invalid min_price %q", raw)
		}
		f.MinPrice = &v
	}
	if raw := c.QueryParam("max_price"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return property.Filter{}, fmt.Errorf("invalid max_price %q", raw)
		}
		f.MaxPrice = &v
	}

	return f, nil
}

func (s *Server) handleListProperties(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	props, err := s.properties.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load properties"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": toPropertyList(props),
		"total": len(props),
	})
}

// handleStreamProperties delivers listing snapshots over server-sent
// events. Every change to the properties table produces a fresh
// snapshot; the stream ends when the client disconnects.
func (s *Server) handleStreamProperties(c echo.Context) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	res := sseStart(c)

	sub := s.stream.Watch(c.Request().Context(), f)
	defer sub.Close()

	for snapshot := range sub.Updates() {
		visible := f.ApplyPriceBounds(snapshot)
		if err := sseSend(res, "snapshot", toPropertyList(visible)); err != nil {
			return nil
		}
	}

	if sub.Err() != nil {
		sseSend(res, "error", echo.Map{"error": "Failed to load properties"})
	}
	return nil
}

func (s *Server) handleGetProperty(c echo.Context) error {
	id := c.Param("id")

	prop, err := s.properties.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load property"})
	}

	// A detail read counts as a view. Losing the bump is acceptable.
	if err := s.properties.RecordView(c.Request().Context(), id); err != nil {
		c.Logger().Warnf("record view %s: %v", id, err)
	}

	return c.JSON(http.StatusOK, toPropertyResponse(prop))
}

func (s *Server) handlePublishProperty(c echo.Context) error {
	params, err := publishParamsFromForm(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	prop, err := s.properties.Publish(c.Request().Context(), params)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list property"})
	}

	return c.JSON(http.StatusCreated, toPropertyResponse(prop))
}

// publishParamsFromForm reads a multipart listing submission: the
// record fields as form values plus the image and video files.
func publishParamsFromForm(c echo.Context) (property.PublishParams, error) {
	var params property.PublishParams

	params.Title = c.FormValue("title")
	params.Description = c.FormValue("description")
	params.AgentID = c.FormValue("agent_id")
	if params.AgentID == "" {
		if userID, ok := c.Get(ctxUserID).(string); ok {
			params.AgentID = userID
		}
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil {
		return property.PublishParams{}, fmt.Errorf("invalid price")
	}
	params.Price = price

	params.Location = property.Location{
		Address: c.FormValue("address"),
		City:    c.FormValue("city"),
		State:   c.FormValue("state"),
		ZipCode: c.FormValue("zip_code"),
	}
	if raw := c.FormValue("lat"); raw != "" {
		if params.Location.Lat, err = strconv.ParseFloat(raw, 64); err != nil {
			return property.PublishParams{}, fmt.Errorf("invalid lat")
		}
	}
	if raw := c.FormValue("lng"); raw != "" {
		if params.Location.Lng, err = strconv.ParseFloat(raw, 64); err != nil {
			return property.PublishParams{}, fmt.Errorf("invalid lng")
		}
	}

	params.Specifications.PropertyType = property.Type(c.FormValue("property_type"))
	if params.Specifications.Bedrooms, err = strconv.Atoi(c.FormValue("bedrooms")); err != nil {
		return property.PublishParams{}, fmt.Errorf("invalid bedrooms")
	}
	if params.Specifications.Bathrooms, err = strconv.ParseFloat(c.FormValue("bathrooms"), 64); err != nil {
		return property.PublishParams{}, fmt.Errorf("invalid bathrooms")
	}
	if params.Specifications.Sqft, err = strconv.Atoi(c.FormValue("sqft")); err != nil {
		return property.PublishParams{}, fmt.Errorf("invalid sqft")
	}
	if raw := c.FormValue("lot_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return property.PublishParams{}, fmt.Errorf("invalid lot_size")
		}
		params.Specifications.LotSize = &n
	}
	if raw := c.FormValue("year_built"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return property.PublishParams{}, fmt.Errorf("invalid year_built")
		}
		params.Specifications.YearBuilt = &n
	}

	if raw := c.FormValue("amenities"); raw != "" {
		for _, a := range strings.Split(raw, ",") {
			if a = strings.TrimSpace(a); a != "" {
				params.Amenities = append(params.Amenities, a)
			}
		}
	}
	if raw := c.FormValue("virtual_tour_url"); raw != "" {
		params.VirtualTourURL = &raw
	}
	if raw := c.FormValue("featured"); raw != "" {
		if params.Featured, err = strconv.ParseBool(raw); err != nil {
			return property.PublishParams{}, fmt.Errorf("invalid featured")
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return property.PublishParams{}, fmt.Errorf("multipart form required")
	}
	for _, fh := range form.File["images"] {
		file, err := fh.Open()
		if err != nil {
			return property.PublishParams{}, fmt.Errorf("open image %s: %w", fh.Filename, err)
		}
		params.Images = append(params.Images, property.Upload{Filename: fh.Filename, Data: file})
	}
	if videos := form.File["video"]; len(videos) > 0 {
		file, err := videos[0].Open()
		if err != nil {
			return property.PublishParams{}, fmt.Errorf("open video %s: %w", videos[0].Filename, err)
		}
		params.Video = &property.Upload{Filename: videos[0].Filename, Data: file}
	}

	return params, nil
}

func (s *Server) handlePropertyStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	status := property.Status(req.Status)
	if !property.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("unknown status %q", req.Status)})
	}

	prop, err := s.properties.ChangeStatus(c.Request().Context(), c.Param("id"), status)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update property status"})
	}
	return c.JSON(http.StatusOK, toPropertyResponse(prop))
}

func (s *Server) handlePropertyFeatured(c echo.Context) error {
	var req struct {
		Featured bool `json:"featured"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	prop, err := s.properties.ToggleFeatured(c.Request().Context(), c.Param("id"), req.Featured)
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update property"})
	}
	return c.JSON(http.StatusOK, toPropertyResponse(prop))
}

func (s *Server) handleDeleteProperty(c echo.Context) error {
	err := s.properties.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, property.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to delete property"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Property deleted successfully"})
}

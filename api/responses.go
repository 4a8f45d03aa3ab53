package api

import (
	"time"

	"luxestate/agent"
	"luxestate/inquiry"
	"luxestate/property"
)

type locationResponse struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	ZipCode string  `json:"zipCode"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type specificationsResponse struct {
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	Sqft         int     `json:"sqft"`
	LotSize      *int    `json:"lotSize,omitempty"`
	YearBuilt    *int    `json:"yearBuilt,omitempty"`
	PropertyType string  `json:"propertyType"`
}

type propertyResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Price          float64                `json:"price"`
	Location       locationResponse       `json:"location"`
	Specifications specificationsResponse `json:"specifications"`
	Images         []string               `json:"images"`
	VideoURL       *string                `json:"videoUrl,omitempty"`
	VirtualTourURL *string                `json:"virtualTourUrl,omitempty"`
	Amenities      []string               `json:"amenities"`
	Status         string                 `json:"status"`
	Featured       bool                   `json:"featured"`
	AgentID        string                 `json:"agentId"`
	CreatedAt      string                 `json:"createdAt"`
	UpdatedAt      string                 `json:"updatedAt"`
	ViewCount      int                    `json:"viewCount"`
}

func toPropertyResponse(p property.Property) propertyResponse {
	return propertyResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Location: locationResponse{
			Address: p.Location.Address,
			City:    p.Location.City,
			State:   p.Location.State,
			ZipCode: p.Location.ZipCode,
			Lat:     p.Location.Lat,
			Lng:     p.Location.Lng,
		},
		Specifications: specificationsResponse{
			Bedrooms:     p.Specifications.Bedrooms,
			Bathrooms:    p.Specifications.Bathrooms,
			Sqft:         p.Specifications.Sqft,
			LotSize:      p.Specifications.LotSize,
			YearBuilt:    p.Specifications.YearBuilt,
			PropertyType: string(p.Specifications.PropertyType),
		},
		Images:         p.Images,
		VideoURL:       p.VideoURL,
		VirtualTourURL: p.VirtualTourURL,
		Amenities:      p.Amenities,
		Status:         string(p.Status),
		Featured:       p.Featured,
		AgentID:        p.AgentID,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
		ViewCount:      p.ViewCount,
	}
}

func toPropertyList(props []property.Property) []propertyResponse {
	out := make([]propertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, toPropertyResponse(p))
	}
	return out
}

type agentResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Bio          string   `json:"bio"`
	ProfileImage string   `json:"profileImage"`
	Specialties  []string `json:"specialties"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	Active       bool     `json:"active"`
	CreatedAt    string   `json:"createdAt"`
}

func toAgentResponse(a agent.Agent) agentResponse {
	return agentResponse{
		ID:           a.ID,
		Name:         a.Name,
		Email:        a.Email,
		Phone:        a.Phone,
		Bio:          a.Bio,
		ProfileImage: a.ProfileImage,
		Specialties:  a.Specialties,
		Rating:       a.Rating,
		ReviewCount:  a.ReviewCount,
		Active:       a.Active,
		CreatedAt:    a.CreatedAt.Format(time.RFC3339),
	}
}

func toAgentList(agents []agent.Agent) []agentResponse {
	out := make([]agentResponse, 0, len(agents))
	for _, a := range agents {
		out = append(out, toAgentResponse(a))
	}
	return out
}

type inquiryResponse struct {
	ID              string  `json:"id"`
	PropertyID      string  `json:"propertyId"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Message         string  `json:"message"`
	PreferredDate   *string `json:"preferredDate,omitempty"`
	Status          string  `json:"status"`
	AssignedAgentID *string `json:"assignedAgentId,omitempty"`
	CreatedAt       string  `json:"createdAt"`
}

func toInquiryResponse(i inquiry.Inquiry) inquiryResponse {
	var preferred *string
	if i.PreferredDate != nil {
		s := i.PreferredDate.Format(time.RFC3339)
		preferred = &s
	}
	return inquiryResponse{
		ID:              i.ID,
		PropertyID:      i.PropertyID,
		Name:            i.Name,
		Email:           i.Email,
		Phone:           i.Phone,
		Message:         i.Message,
		PreferredDate:   preferred,
		Status:          string(i.Status),
		AssignedAgentID: i.AssignedAgentID,
		CreatedAt:       i.CreatedAt.Format(time.RFC3339),
	}
}

func toInquiryList(inquiries []inquiry.Inquiry) []inquiryResponse {
	out := make([]inquiryResponse, 0, len(inquiries))
	for _, i := range inquiries {
		out = append(out, toInquiryResponse(i))
	}
	return out
}

type userResponse struct {
	ID       string  `json:"id"`
	Email    string  `json:"email"`
	FullName string  `json:"fullName"`
	Phone    *string `json:"phone,omitempty"`
	Role     string  `json:"role"`
}

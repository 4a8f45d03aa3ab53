// Package api exposes the HTTP surface of the marketplace on Echo.
// Handlers depend on narrow service interfaces so they can be exercised
// against stubs.
package api

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"luxestate/admin"
	"luxestate/agent"
	"luxestate/auth"
	"luxestate/inquiry"
	"luxestate/property"
)

// PropertyService is the slice of the property service the handlers use.
type PropertyService interface {
	List(ctx context.Context, f property.Filter) ([]property.Property, error)
	Get(ctx context.Context, id string) (property.Property, error)
	RecordView(ctx context.Context, id string) error
	Publish(ctx context.Context, params property.PublishParams) (property.Property, error)
	ChangeStatus(ctx context.Context, id string, status property.Status) (property.Property, error)
	ToggleFeatured(ctx context.Context, id string, featured bool) (property.Property, error)
	Remove(ctx context.Context, id string) error
}

// PropertyStreamer opens live listing subscriptions for the SSE stream.
type PropertyStreamer interface {
	Watch(ctx context.Context, f property.Filter) *property.Subscription
}

// AgentService is the slice of the agent service the handlers use.
type AgentService interface {
	Register(ctx context.Context, params agent.CreateParams) (agent.Agent, error)
	Get(ctx context.Context, id string) (agent.Agent, error)
	Directory(ctx context.Context, f agent.DirectoryFilter) ([]agent.Agent, error)
	Pending(ctx context.Context) ([]agent.Agent, error)
	Approve(ctx context.Context, id string) (agent.Agent, error)
	Reject(ctx context.Context, id string) error
}

// AgentStreamer opens live directory subscriptions.
type AgentStreamer interface {
	Watch(ctx context.Context, f agent.DirectoryFilter) (<-chan []agent.Agent, <-chan error)
}

// InquiryService is the slice of the inquiry service the handlers use.
type InquiryService interface {
	Submit(ctx context.Context, params inquiry.CreateParams) (inquiry.Inquiry, error)
	Get(ctx context.Context, id string) (inquiry.Inquiry, error)
	List(ctx context.Context, status *inquiry.Status) ([]inquiry.Inquiry, error)
	Assign(ctx context.Context, id, agentID string) (inquiry.Inquiry, error)
}

// InquiryStreamer opens live inquiry subscriptions for the admin board.
type InquiryStreamer interface {
	Watch(ctx context.Context, status *inquiry.Status) (<-chan []inquiry.Inquiry, <-chan error)
}

// AuthService is the slice of the auth service the handlers use.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.User, error)
	Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResult, error)
	VerifyToken(tokenString string) (string, auth.Role, error)
}

// AdminService is the slice of the admin service the handlers use.
type AdminService interface {
	Dashboard(ctx context.Context) (admin.DashboardStats, error)
}

// MediaOpener serves stored blobs by ID.
type MediaOpener interface {
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
}

// Deps bundles everything the handlers depend on.
type Deps struct {
	Properties     PropertyService
	PropertyStream PropertyStreamer
	Agents         AgentService
	AgentStream    AgentStreamer
	Inquiries      InquiryService
	InquiryStream  InquiryStreamer
	Auth           AuthService
	Admin          AdminService
	Media          MediaOpener
}

// Server holds the handler dependencies.
type Server struct {
	properties    PropertyService
	stream        PropertyStreamer
	agents        AgentService
	agentStream   AgentStreamer
	inquiries     InquiryService
	inquiryStream InquiryStreamer
	authSvc       AuthService
	adminSvc      AdminService
	media         MediaOpener
}

// NewServer wires a Server from its dependencies.
func NewServer(d Deps) *Server {
	return &Server{
		properties:    d.Properties,
		stream:        d.PropertyStream,
		agents:        d.Agents,
		agentStream:   d.AgentStream,
		inquiries:     d.Inquiries,
		inquiryStream: d.InquiryStream,
		authSvc:       d.Auth,
		adminSvc:      d.Admin,
		media:         d.Media,
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/media/:id", s.handleMedia)

	api := e.Group("/api")

	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/signin", s.handleSignin)

	api.GET("/properties", s.handleListProperties)
	api.GET("/properties/stream", s.handleStreamProperties)
	api.GET("/properties/:id", s.handleGetProperty)
	api.POST("/properties", s.handlePublishProperty, s.requireAuth, s.requireRole(auth.RoleAgent, auth.RoleAdmin))
	api.PATCH("/properties/:id/status", s.handlePropertyStatus, s.requireAuth, s.requireRole(auth.RoleAdmin))
	api.PATCH("/properties/:id/featured", s.handlePropertyFeatured, s.requireAuth, s.requireRole(auth.RoleAdmin))
	api.DELETE("/properties/:id", s.handleDeleteProperty, s.requireAuth, s.requireRole(auth.RoleAdmin))

	api.GET("/agents", s.handleAgentDirectory)
	api.GET("/agents/stream", s.handleStreamAgents)
	api.GET("/agents/:id", s.handleGetAgent)
	api.POST("/agents", s.handleRegisterAgent)

	api.POST("/inquiries", s.handleSubmitInquiry)
	api.GET("/inquiries", s.handleListInquiries, s.requireAuth, s.requireRole(auth.RoleAgent, auth.RoleAdmin))
	api.PATCH("/inquiries/:id/assign", s.handleAssignInquiry, s.requireAuth, s.requireRole(auth.RoleAdmin))

	api.POST("/mortgage/calculate", s.handleCalculateMortgage)

	adm := api.Group("/admin", s.requireAuth, s.requireRole(auth.RoleAdmin))
	adm.GET("/dashboard", s.handleDashboard)
	adm.GET("/agents/pending", s.handlePendingAgents)
	adm.POST("/agents/:id/approve", s.handleApproveAgent)
	adm.DELETE("/agents/:id", s.handleRejectAgent)
	adm.GET("/inquiries/stream", s.handleStreamInquiries)
}

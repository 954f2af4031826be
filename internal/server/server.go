package server

import (
	"context"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/MiraclePlan/miracleplan-backend/config"
	"github.com/MiraclePlan/miracleplan-backend/internal/auth"
	"github.com/MiraclePlan/miracleplan-backend/internal/service"
)

// Server is the HTTP front of the service. All handlers go through the
// service layer; nothing here touches storage directly.
type Server struct {
	cfg      *config.Config
	echo     *echo.Echo
	auth     *auth.Authenticator
	users    *service.UserService
	todos    *service.TodoService
	groups   *service.GroupService
	calendar *service.CalendarService
}

func New(cfg *config.Config, a *auth.Authenticator, users *service.UserService,
	todos *service.TodoService, groups *service.GroupService, calendar *service.CalendarService) *Server {

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		cfg:      cfg,
		echo:     e,
		auth:     a,
		users:    users,
		todos:    todos,
		groups:   groups,
		calendar: calendar,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	e := s.echo

	// Public routes
	e.POST("/user", s.handleRegister)
	e.POST("/token", s.handleToken)
	e.POST("/token/refresh", s.handleTokenRefresh)

	// Bearer-token authenticated routes
	api := e.Group("")
	api.Use(echojwt.WithConfig(echojwt.Config{
		KeyFunc: s.auth.KeyFunc,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		// Missing and malformed tokens get the same 401 as invalid ones.
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	}))

	api.POST("/todo", s.handleCreateTodo)
	api.GET("/todo", s.handleListTodos)
	api.GET("/todo/completed", s.handleListCompletedTodos)
	api.PUT("/todo/:id/complete", s.handleCompleteTodo)
	api.DELETE("/todo/:id", s.handleDeleteTodo)

	api.POST("/group", s.handleCreateGroup)
	api.DELETE("/group/:id", s.handleDeleteGroup)
	api.POST("/group/:id/join", s.handleJoinGroup)
	api.POST("/group/:id/leave", s.handleLeaveGroup)
	api.GET("/group/joined", s.handleJoinedGroups)
	api.GET("/group/not-joined", s.handleNotJoinedGroups)
	api.GET("/group/:id/members", s.handleGroupMembers)

	api.GET("/calendar-status", s.handleCalendarStatus)
	api.GET("/calendar-status.ics", s.handleCalendarStatusICS)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start() error {
	return s.echo.Start(":" + s.cfg.ServerPort)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

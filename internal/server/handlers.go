package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/MiraclePlan/miracleplan-backend/internal/auth"
	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

type createTodoRequest struct {
	Title     string      `json:"title"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
}

type completeTodoRequest struct {
	Completed bool `json:"completed"`
}

type createGroupRequest struct {
	Name string `json:"name"`
}

// toHTTPError maps service-layer sentinel errors onto the response
// status. Anything unrecognized falls through as a 500.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, domain.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
	case errors.Is(err, domain.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}

// currentUserID pulls the authenticated user out of the verified token.
// Refresh tokens pass signature checks too, so the token type claim is
// what keeps them off the API routes.
func currentUserID(c echo.Context) (int64, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.TokenType != auth.TokenTypeAccess {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
	}
	return claims.UserID, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// === Users & tokens ===

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := s.users.Register(req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleToken(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := s.users.Authenticate(req.Username, req.Password)
	if err != nil {
		return toHTTPError(err)
	}

	access, err := s.auth.IssueAccessToken(user)
	if err != nil {
		return err
	}
	refresh, err := s.auth.IssueRefreshToken(user)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	})
}

func (s *Server) handleTokenRefresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims, err := s.auth.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	user, err := s.users.Get(claims.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	access, err := s.auth.IssueAccessToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: access,
		TokenType:   "bearer",
	})
}

// === Todos ===

func (s *Server) handleCreateTodo(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := s.todos.Create(userID, req.Title, req.StartDate, req.EndDate)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, todo)
}

func (s *Server) handleListTodos(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	todos, err := s.todos.List(userID)
	if err != nil {
		return toHTTPError(err)
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}
	return c.JSON(http.StatusOK, todos)
}

func (s *Server) handleListCompletedTodos(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	todos, err := s.todos.ListCompleted(userID)
	if err != nil {
		return toHTTPError(err)
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}
	return c.JSON(http.StatusOK, todos)
}

func (s *Server) handleCompleteTodo(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req completeTodoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	todo, err := s.todos.SetCompleted(id, userID, req.Completed)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, todo)
}

func (s *Server) handleDeleteTodo(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.todos.Delete(id, userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// === Groups ===

func (s *Server) handleCreateGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	group, err := s.groups.Create(userID, req.Name)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

func (s *Server) handleDeleteGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.groups.Delete(id, userID); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleJoinGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	group, err := s.groups.Join(id, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, group)
}

func (s *Server) handleLeaveGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	group, err := s.groups.Leave(id, userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, group)
}

func (s *Server) handleJoinedGroups(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := s.groups.Joined(userID)
	if err != nil {
		return toHTTPError(err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) handleNotJoinedGroups(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := s.groups.NotJoined(userID)
	if err != nil {
		return toHTTPError(err)
	}
	if groups == nil {
		groups = []*domain.Group{}
	}
	return c.JSON(http.StatusOK, groups)
}

func (s *Server) handleGroupMembers(c echo.Context) error {
	if _, err := currentUserID(c); err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	members, err := s.groups.Members(id)
	if err != nil {
		return toHTTPError(err)
	}
	if members == nil {
		members = []*domain.User{}
	}
	return c.JSON(http.StatusOK, members)
}

// === Calendar ===

func (s *Server) handleCalendarStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	statuses, err := s.calendar.Statuses(userID)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, statuses)
}

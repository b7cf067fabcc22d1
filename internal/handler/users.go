package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/LuckylisaBemeye/Bomahub/internal/model"
	"github.com/LuckylisaBemeye/Bomahub/internal/view"
	"github.com/LuckylisaBemeye/Bomahub/pkg/client"
	"github.com/LuckylisaBemeye/Bomahub/pkg/logger"
)

// UserRequest is the add/edit form of a user account.
type UserRequest struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Email    string `form:"email"`
	Name     string `form:"name"`
	Role     string `form:"role"`
	Age      string `form:"age"`
}

func (r UserRequest) user(requirePassword bool) (model.NewUser, error) {
	u := model.NewUser{
		Username: strings.TrimSpace(r.Username),
		Password: r.Password,
		Email:    strings.TrimSpace(r.Email),
		Name:     strings.TrimSpace(r.Name),
		Role:     model.ParseRole(r.Role),
	}
	if v := strings.TrimSpace(r.Age); v != "" {
		age, err := strconv.Atoi(v)
		if err != nil || age < 0 {
			return u, client.Validation("Age must be a positive number")
		}
		u.Age = &age
	}
	switch {
	case u.Username == "":
		return u, client.Validation("Username is required")
	case requirePassword && u.Password == "":
		return u, client.Validation("Password is required")
	}
	return u, nil
}

type usersPage struct {
	view.Page[[]model.User]
	Roles   []model.Role
	Editing *model.User
}

// ListUsers shows every account. ?edit=ID opens the edit form.
func (h *Handler) ListUsers(c echo.Context) error {
	cl := api(c)
	page := usersPage{
		Roles: []model.Role{model.RoleUser, model.RoleManager, model.RoleAdmin},
	}

	var users []model.User
	g, ctx := errgroup.WithContext(reqCtx(c))
	g.Go(func() (err error) {
		users, err = cl.ListUsers(ctx)
		return err
	})
	if edit := queryID(c, "edit"); edit > 0 {
		g.Go(func() error {
			u, err := cl.GetUser(ctx, edit)
			if client.IsNotFound(err) {
				return nil
			}
			page.Editing = u
			return err
		})
	}
	err := g.Wait()
	if done, rerr := loadError(c, err); done {
		return rerr
	}

	page.Page = view.Load(users, err)
	return h.render(c, "users", "Users", "users", page)
}

// CreateUser registers a new account.
func (h *Handler) CreateUser(c echo.Context) error {
	log := logger.FromEcho(c)

	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	in, err := req.user(true)
	if err == nil {
		_, err = api(c).Register(reqCtx(c), in)
	}
	if err == nil {
		log.Info("User registered",
			zap.String("username", in.Username),
			zap.String("role", string(in.Role)))
	}
	return finish(c, "user", "create", err, fmt.Sprintf("User %s created", in.Username), "Failed to create user", "/users")
}

// UpdateUser saves the edit form. An empty password keeps the current one.
func (h *Handler) UpdateUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req UserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request data")
	}
	in, err := req.user(false)
	if err == nil {
		_, err = api(c).UpdateUser(reqCtx(c), id, in)
	}
	return finish(c, "user", "update", err, "User updated", "Failed to update user", "/users")
}

// DeleteUser removes an account. Deleting the signed-in account is refused.
func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if me := currentUser(c); me != nil && me.ID == id {
		return finish(c, "user", "delete", client.Validation("You cannot delete your own account"), "", "", "/users")
	}
	err = api(c).DeleteUser(reqCtx(c), id)
	return finish(c, "user", "delete", err, "User deleted", "Failed to delete user", "/users")
}

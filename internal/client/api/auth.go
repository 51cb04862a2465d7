package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"biokeeper/internal/shared/models"
)

const authFailed = "Authentication failed"

// Login exchanges credentials for the user's numeric id.
func (c *Client) Login(ctx context.Context, login, password string) (int64, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/user/login", models.LoginRequest{Login: login, Password: password})
	if err != nil {
		return 0, authError(err)
	}
	var id int64
	if err := decode(resp, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// Register creates an account and returns it as stored by the service.
func (c *Client) Register(ctx context.Context, u models.User) (models.User, error) {
	resp, err := c.send(ctx, http.MethodPost, UserResource.createPath(0), u.Payload())
	if err != nil {
		if StatusOf(err) == http.StatusInternalServerError {
			return models.User{}, ErrAlreadyRegistered
		}
		return models.User{}, authError(err)
	}
	var created models.User
	if err := decode(resp, &created); err != nil {
		return models.User{}, err
	}
	return created, nil
}

// Role fetches the access rights of user id. The service answers with a
// JSON string; a bare word is accepted too.
func (c *Client) Role(ctx context.Context, id int64) (models.AccessRights, error) {
	resp, err := c.send(ctx, http.MethodGet, fmt.Sprintf("/api/user/role/id/%d", id), nil)
	if err != nil {
		return "", fmt.Errorf("Failed to fetch user role: %w", err)
	}
	var role string
	if err := json.Unmarshal(resp.Body(), &role); err != nil {
		role = strings.TrimSpace(string(resp.Body()))
	}
	return models.AccessRights(role), nil
}

// authError keeps the service message if there is one and replaces a bare
// status with the generic authentication failure.
func authError(err error) error {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindNetwork {
		return err
	}
	if e.Kind == KindStatus {
		return &Error{Kind: KindDetail, Status: e.Status, Detail: authFailed}
	}
	return e
}

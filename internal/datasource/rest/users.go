package rest

import (
	"context"
	"net/http"

	"github.com/Reagan-marera/imoflames-sub000/internal/domain"
)

// CurrentUser resolves the user behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.CurrentUser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/users/me", http.NoBody, token)
	if err != nil {
		return domain.CurrentUser{}, err
	}

	var user domain.CurrentUser
	if err := c.do(ctx, "get current user", req, &user); err != nil {
		return domain.CurrentUser{}, err
	}
	return user, nil
}

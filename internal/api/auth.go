package api

import (
	"context"
	"net/http"

	"github.com/xenking/storefront/internal/domain/session"
)

var _ session.Authenticator = (*Client)(nil)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn implements session.Authenticator. A 401 here means bad credentials
// and surfaces as session.ErrUnauthorized with the server's message.
func (cl *Client) SignIn(ctx context.Context, creds session.Credentials) (*session.Grant, error) {
	var resp wireGrant
	if err := cl.do(ctx, call{
		op:     "SignIn",
		method: http.MethodPost,
		path:   "/auth/signin",
		json:   signInRequest{Email: creds.Email, Password: creds.Password},
	}, &resp); err != nil {
		return nil, err
	}

	g := &session.Grant{Token: resp.Token, Role: resp.Role}
	if resp.Data != nil {
		if g.Token == "" {
			g.Token = resp.Data.Token
		}
		if g.Role == "" {
			g.Role = resp.Data.Role
		}
	}
	return g, nil
}

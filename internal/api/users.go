package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// UserClient wraps the /api/user endpoints (double /api prefix, as mounted
// by the backend).
type UserClient struct {
	client *Client
}

// NewUserClient creates a UserClient on top of the shared HTTP wrapper.
func NewUserClient(c *Client) *UserClient {
	return &UserClient{client: c}
}

// UserListParams are the query parameters of the paginated user list.
type UserListParams struct {
	Page   int
	Limit  int
	Search string
	Status models.UserStatus
}

// UserList is one page of users plus paging metadata.
type UserList struct {
	Users      []models.User
	Pagination models.Pagination
}

// The user list endpoint has returned paging metadata both nested and at
// the top level across backend versions; accept either.
type userListEnvelope struct {
	Success     bool               `json:"success"`
	Data        []models.User      `json:"data"`
	Pagination  *models.Pagination `json:"pagination,omitempty"`
	CurrentPage int                `json:"currentPage,omitempty"`
	TotalPages  int                `json:"totalPages,omitempty"`
	TotalItems  int                `json:"totalItems,omitempty"`
	Message     string             `json:"message,omitempty"`
}

type userEnvelope struct {
	Success bool         `json:"success"`
	Data    *models.User `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

// NewUser is the admin add-user payload. Role is a pointer so that "no
// role" serializes as an explicit null. The backend mails the generated
// credentials to the new user.
type NewUser struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Status  models.UserStatus `json:"status"`
	Role    *string           `json:"role"`
	Picture string            `json:"picture,omitempty"`
}

// UserUpdate is a partial user update; nil fields are left untouched.
type UserUpdate struct {
	Name   *string            `json:"name,omitempty"`
	Email  *string            `json:"email,omitempty"`
	Status *models.UserStatus `json:"status,omitempty"`
	Role   *string            `json:"role,omitempty"`
}

// List fetches one page of users.
func (u *UserClient) List(ctx context.Context, params UserListParams) (*UserList, error) {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}

	var envelope userListEnvelope
	if err := u.client.get(ctx, "/api/user", query, &envelope); err != nil {
		return nil, err
	}

	list := &UserList{Users: envelope.Data}
	if envelope.Pagination != nil {
		list.Pagination = *envelope.Pagination
	} else {
		list.Pagination = models.Pagination{
			CurrentPage: envelope.CurrentPage,
			TotalPages:  envelope.TotalPages,
			TotalItems:  envelope.TotalItems,
		}
	}
	return list, nil
}

// Get fetches a single user.
func (u *UserClient) Get(ctx context.Context, id string) (*models.User, error) {
	var envelope userEnvelope
	if err := u.client.get(ctx, "/api/user/"+url.PathEscape(id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("user %s: empty response", id)
	}
	return envelope.Data, nil
}

// Create adds a user account on behalf of an admin.
func (u *UserClient) Create(ctx context.Context, user NewUser) (*models.User, error) {
	var envelope userEnvelope
	if err := u.client.post(ctx, "/api/user", user, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Update applies a partial update to a user.
func (u *UserClient) Update(ctx context.Context, id string, update UserUpdate) (*models.User, error) {
	var envelope userEnvelope
	if err := u.client.put(ctx, "/api/user/"+url.PathEscape(id), update, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Delete removes a user.
func (u *UserClient) Delete(ctx context.Context, id string) error {
	return u.client.delete(ctx, "/api/user/"+url.PathEscape(id), nil)
}

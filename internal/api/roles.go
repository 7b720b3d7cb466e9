package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// RoleClient wraps the /role endpoints.
type RoleClient struct {
	client *Client
}

// NewRoleClient creates a RoleClient on top of the shared HTTP wrapper.
func NewRoleClient(c *Client) *RoleClient {
	return &RoleClient{client: c}
}

// RoleListParams are the query parameters of the paginated role list.
type RoleListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// RoleList is one page of roles plus paging metadata.
type RoleList struct {
	Roles      []models.Role
	Pagination models.Pagination
}

type roleListEnvelope struct {
	Success    bool              `json:"success"`
	Data       []models.Role     `json:"data"`
	Pagination models.Pagination `json:"pagination"`
	Message    string            `json:"message,omitempty"`
}

type roleEnvelope struct {
	Success bool         `json:"success"`
	Data    *models.Role `json:"data,omitempty"`
	Message string       `json:"message,omitempty"`
}

// List fetches one page of roles.
func (r *RoleClient) List(ctx context.Context, params RoleListParams) (*RoleList, error) {
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
	if params.SortBy != "" {
		query.Set("sortBy", params.SortBy)
	}
	if params.SortOrder != "" {
		query.Set("sortOrder", params.SortOrder)
	}

	var envelope roleListEnvelope
	if err := r.client.get(ctx, "/role", query, &envelope); err != nil {
		return nil, err
	}
	return &RoleList{Roles: envelope.Data, Pagination: envelope.Pagination}, nil
}

// All fetches every role without pagination, for pickers.
func (r *RoleClient) All(ctx context.Context) ([]models.Role, error) {
	var envelope roleListEnvelope
	if err := r.client.get(ctx, "/role/all", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Get fetches a single role.
func (r *RoleClient) Get(ctx context.Context, id string) (*models.Role, error) {
	var envelope roleEnvelope
	if err := r.client.get(ctx, "/role/"+url.PathEscape(id), nil, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("role %s: empty response", id)
	}
	return envelope.Data, nil
}

// Create creates a role from the editor's name, description, and selected
// permission codes.
func (r *RoleClient) Create(ctx context.Context, name, description string, permissions []int) (*models.Role, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"permissions": permissions,
	}
	var envelope roleEnvelope
	if err := r.client.post(ctx, "/role", body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Update replaces a role's name, description, and permissions.
func (r *RoleClient) Update(ctx context.Context, id, name, description string, permissions []int) (*models.Role, error) {
	body := map[string]any{
		"name":        name,
		"description": description,
		"permissions": permissions,
	}
	var envelope roleEnvelope
	if err := r.client.put(ctx, "/role/"+url.PathEscape(id), body, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// Delete removes a role.
func (r *RoleClient) Delete(ctx context.Context, id string) error {
	return r.client.delete(ctx, "/role/"+url.PathEscape(id), nil)
}

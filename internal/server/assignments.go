package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/domain"
	"backstage/internal/engine"
)

// roleKey addresses a role by id, or by position when it has none.
func roleKey(i int, r domain.Role) string {
	if r.ID != "" {
		return r.ID
	}
	return strconv.Itoa(i)
}

func assignments(st domain.State, item domain.ShowItem) AssignmentsResponse {
	out := AssignmentsResponse{
		ItemID:    item.ID,
		Roles:     []RoleAssignment{},
		Channels:  []ChannelAssignment{},
		Required:  []string{},
		MicStatus: engine.MicStatusOf(item),
	}
	if item.Stage == nil {
		return out
	}
	people := st.PeopleOf(item.ShowID)
	for i, r := range item.Stage.Roles {
		key := roleKey(i, r)
		opts := engine.RoleOptions(item, key, people)
		if opts == nil {
			opts = []domain.Person{}
		}
		out.Roles = append(out.Roles, RoleAssignment{Key: key, Role: r, Options: opts})
	}
	for _, ch := range st.Channels(item.ShowID) {
		opts := engine.MicOptions(item, ch.ID)
		if opts == nil {
			opts = []string{}
		}
		out.Channels = append(out.Channels, ChannelAssignment{
			Channel:  ch,
			PersonID: item.Stage.Mics[ch.ID],
			Options:  opts,
		})
	}
	if req := engine.RequiredMicPeople(item); req != nil {
		out.Required = req
	}
	return out
}

func (h handlers) itemAssignments(st domain.State, itemID string) (*struct {
	Body AssignmentsResponse `json:"body"`
}, error) {
	item, ok := st.FindItem(itemID)
	if !ok {
		return nil, handleError(engine.NotFoundError{Kind: "item", ID: itemID})
	}
	return &struct {
		Body AssignmentsResponse `json:"body"`
	}{Body: assignments(st, item)}, nil
}

func (h handlers) registerAssignments(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-assignments",
		Method:      http.MethodGet,
		Path:        "/items/{id}/assignments",
		Summary:     "Roles, channels and the options for each",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body AssignmentsResponse `json:"body"`
	}, error) {
		return h.itemAssignments(h.sess.State(), input.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-role",
		Method:        http.MethodPost,
		Path:          "/items/{id}/roles",
		Summary:       "Add a role to an item",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string      `path:"id"`
		Body RoleRequest `json:"body"`
	}) (*struct {
		Body domain.Role `json:"body"`
	}, error) {
		var created domain.Role
		_, err := h.mutate(ctx, "add_role", func(s domain.State) (domain.State, error) {
			next, r, err := h.sess.Engine.AddRole(s, input.ID, input.Body.Name, input.Body.NeedsMic)
			created = r
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Role `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-role",
		Method:      http.MethodPut,
		Path:        "/items/{id}/roles/{key}",
		Summary:     "Rename a role or toggle its mic",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string      `path:"id"`
		Key  string      `path:"key"`
		Body RoleRequest `json:"body"`
	}) (*struct {
		Body AssignmentsResponse `json:"body"`
	}, error) {
		st, err := h.mutate(ctx, "rename_role", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.RenameRole(s, input.ID, input.Key, input.Body.Name, input.Body.NeedsMic)
		})
		if err != nil {
			return nil, err
		}
		return h.itemAssignments(st, input.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-role",
		Method:      http.MethodDelete,
		Path:        "/items/{id}/roles/{key}",
		Summary:     "Remove a role",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID  string `path:"id"`
		Key string `path:"key"`
	}) (*struct {
		Body AssignmentsResponse `json:"body"`
	}, error) {
		st, err := h.mutate(ctx, "remove_role", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.RemoveRole(s, input.ID, input.Key)
		})
		if err != nil {
			return nil, err
		}
		return h.itemAssignments(st, input.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-role",
		Method:      http.MethodPost,
		Path:        "/items/{id}/roles/assign",
		Summary:     "Put a person in a role",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body AssignRoleRequest `json:"body"`
	}) (*struct {
		Body AssignmentsResponse `json:"body"`
	}, error) {
		st, err := h.mutate(ctx, "assign_role", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.AssignRole(s, input.ID, input.Body.PersonID, input.Body.RoleKey)
		})
		if err != nil {
			return nil, err
		}
		return h.itemAssignments(st, input.ID)
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-mic",
		Method:      http.MethodPut,
		Path:        "/items/{id}/mics/{channel}",
		Summary:     "Put a person on a mic channel; empty person clears it",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID      string           `path:"id"`
		Channel string           `path:"channel"`
		Body    AssignMicRequest `json:"body"`
	}) (*struct {
		Body AssignmentsResponse `json:"body"`
	}, error) {
		st, err := h.mutate(ctx, "assign_mic", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.AssignMic(s, input.ID, input.Channel, input.Body.PersonID)
		})
		if err != nil {
			return nil, err
		}
		return h.itemAssignments(st, input.ID)
	})
}

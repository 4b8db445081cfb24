package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/domain"
	"backstage/internal/engine"
)

func (h handlers) registerState(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/state",
		Summary:     "Get the whole document",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.State `json:"body"`
	}, error) {
		return &struct {
			Body domain.State `json:"body"`
		}{Body: h.sess.State()}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-state",
		Method:      http.MethodPut,
		Path:        "/state",
		Summary:     "Replace the whole document",
		Errors:      []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		Body domain.State `json:"body"`
	}) (*struct {
		Body domain.State `json:"body"`
	}, error) {
		st, err := h.sess.Replace(ctx, input.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.State `json:"body"`
		}{Body: st}, nil
	})
}

func (h handlers) registerShows(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-shows",
		Method:      http.MethodGet,
		Path:        "/shows",
		Summary:     "List shows",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Show `json:"body"`
	}, error) {
		return &struct {
			Body []domain.Show `json:"body"`
		}{Body: h.sess.State().Shows}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-show",
		Method:        http.MethodPost,
		Path:          "/shows",
		Summary:       "Create show",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		Body CreateShowRequest `json:"body"`
	}) (*struct {
		Body domain.Show `json:"body"`
	}, error) {
		var created domain.Show
		_, err := h.mutate(ctx, "create_show", func(s domain.State) (domain.State, error) {
			next, show, err := h.sess.Engine.CreateShow(s, domain.Show{
				Name:           input.Body.Name,
				Date:           input.Body.Date,
				StartTime:      input.Body.StartTime,
				BreakAfterItem: input.Body.BreakAfterItem,
				BreakMinutes:   input.Body.BreakMinutes,
				Headsets:       input.Body.Headsets,
				Handhelds:      input.Body.Handhelds,
			})
			created = show
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Show `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-show",
		Method:      http.MethodGet,
		Path:        "/shows/{id}",
		Summary:     "Get a show with everything scoped to it",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.ShowBundle `json:"body"`
	}, error) {
		b, ok := h.sess.State().Bundle(input.ID)
		if !ok {
			return nil, handleError(engine.NotFoundError{Kind: "show", ID: input.ID})
		}
		return &struct {
			Body domain.ShowBundle `json:"body"`
		}{Body: b}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-show",
		Method:      http.MethodPatch,
		Path:        "/shows/{id}",
		Summary:     "Update show",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body UpdateShowRequest `json:"body"`
	}) (*struct {
		Body domain.Show `json:"body"`
	}, error) {
		var updated domain.Show
		_, err := h.mutate(ctx, "update_show", func(s domain.State) (domain.State, error) {
			next, show, err := h.sess.Engine.UpdateShow(s, input.ID, input.Body.patch())
			updated = show
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Show `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-show",
		Method:        http.MethodDelete,
		Path:          "/shows/{id}",
		Summary:       "Delete show and everything scoped to it",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		_, err := h.mutate(ctx, "delete_show", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.DeleteShow(s, input.ID)
		})
		if err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "duplicate-show",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/duplicate",
		Summary:       "Copy a show under fresh ids",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.Show `json:"body"`
	}, error) {
		var created domain.Show
		_, err := h.mutate(ctx, "duplicate_show", func(s domain.State) (domain.State, error) {
			next, show, err := h.sess.Engine.DuplicateShow(s, input.ID)
			created = show
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Show `json:"body"`
		}{Body: created}, nil
	})
}

func (h handlers) registerItems(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-items",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/items",
		Summary:     "List a show's items in running order",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.ShowItem `json:"body"`
	}, error) {
		st := h.sess.State()
		if _, ok := st.FindShow(input.ID); !ok {
			return nil, handleError(engine.NotFoundError{Kind: "show", ID: input.ID})
		}
		items := st.ItemsOf(input.ID)
		if items == nil {
			items = []domain.ShowItem{}
		}
		return &struct {
			Body []domain.ShowItem `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-item",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/items",
		Summary:       "Append an item to the running order",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body CreateItemRequest `json:"body"`
	}) (*struct {
		Body domain.ShowItem `json:"body"`
	}, error) {
		defaults := engine.ItemDefaults{Title: input.Body.Title, DurationMin: input.Body.DurationMin}
		for _, r := range input.Body.Roles {
			defaults.Roles = append(defaults.Roles, domain.Role{Name: r.Name, NeedsMic: r.NeedsMic})
		}
		var created domain.ShowItem
		_, err := h.mutate(ctx, "add_item", func(s domain.State) (domain.State, error) {
			next, it, err := h.sess.Engine.AddItem(s, input.ID, input.Body.Kind, defaults)
			created = it
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.ShowItem `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-item",
		Method:      http.MethodPatch,
		Path:        "/items/{id}",
		Summary:     "Update an item; a new order moves it",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string            `path:"id"`
		Body UpdateItemRequest `json:"body"`
	}) (*struct {
		Body domain.ShowItem `json:"body"`
	}, error) {
		var updated domain.ShowItem
		_, err := h.mutate(ctx, "update_item", func(s domain.State) (domain.State, error) {
			next, it, err := h.sess.Engine.UpdateItem(s, input.ID, input.Body.patch())
			updated = it
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.ShowItem `json:"body"`
		}{Body: updated}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "remove-item",
		Method:        http.MethodDelete,
		Path:          "/items/{id}",
		Summary:       "Remove an item",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		_, err := h.mutate(ctx, "remove_item", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.RemoveItem(s, input.ID)
		})
		if err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "move-item",
		Method:      http.MethodPost,
		Path:        "/items/{id}/move",
		Summary:     "Move an item directly before another",
		Errors:      []int{http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string          `path:"id"`
		Body MoveItemRequest `json:"body"`
	}) (*struct {
		Body []domain.ShowItem `json:"body"`
	}, error) {
		st, err := h.mutate(ctx, "move_item", func(s domain.State) (domain.State, error) {
			return h.sess.Engine.MoveItem(s, input.ID, input.Body.OverID), nil
		})
		if err != nil {
			return nil, err
		}
		items := []domain.ShowItem{}
		if it, ok := st.FindItem(input.ID); ok {
			items = st.ItemsOf(it.ShowID)
		}
		return &struct {
			Body []domain.ShowItem `json:"body"`
		}{Body: items}, nil
	})
}

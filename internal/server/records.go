package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/domain"
	"backstage/internal/engine"
)

// showScoped fails with 404 when the show is unknown.
func showScoped[T any](st domain.State, showID string, list func(string) []T) ([]T, error) {
	if _, ok := st.FindShow(showID); !ok {
		return nil, handleError(engine.NotFoundError{Kind: "show", ID: showID})
	}
	out := list(showID)
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// remove registers a DELETE on path that runs fn through the session.
func (h handlers) remove(api huma.API, id, path, summary, op string, fn func(domain.State, string) (domain.State, error)) {
	huma.Register(api, huma.Operation{
		OperationID:   id,
		Method:        http.MethodDelete,
		Path:          path,
		Summary:       summary,
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		_, err := h.mutate(ctx, op, func(s domain.State) (domain.State, error) {
			return fn(s, input.ID)
		})
		if err != nil {
			return nil, err
		}
		return &struct{}{}, nil
	})
}

func (h handlers) registerRecords(api huma.API) {
	eng := h.sess.Engine

	huma.Register(api, huma.Operation{
		OperationID: "list-people",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/people",
		Summary:     "List a show's cast",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.Person `json:"body"`
	}, error) {
		st := h.sess.State()
		people, err := showScoped(st, input.ID, st.PeopleOf)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body []domain.Person `json:"body"`
		}{Body: people}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-person",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/people",
		Summary:       "Add a person to a show",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string              `path:"id"`
		Body CreatePersonRequest `json:"body"`
	}) (*struct {
		Body domain.Person `json:"body"`
	}, error) {
		var created domain.Person
		_, err := h.mutate(ctx, "add_person", func(s domain.State) (domain.State, error) {
			next, p, err := eng.AddPerson(s, input.ID, domain.Person{
				FirstName: input.Body.FirstName,
				LastName:  input.Body.LastName,
				Category:  input.Body.Category,
				Tags:      input.Body.Tags,
			})
			created = p
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Person `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-person",
		Method:      http.MethodPatch,
		Path:        "/people/{id}",
		Summary:     "Update a person",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string              `path:"id"`
		Body UpdatePersonRequest `json:"body"`
	}) (*struct {
		Body domain.Person `json:"body"`
	}, error) {
		var updated domain.Person
		_, err := h.mutate(ctx, "update_person", func(s domain.State) (domain.State, error) {
			next, p, err := eng.UpdatePerson(s, input.ID, input.Body.patch())
			updated = p
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Person `json:"body"`
		}{Body: updated}, nil
	})

	h.remove(api, "remove-person", "/people/{id}", "Remove a person and clear their assignments", "remove_person", eng.RemovePerson)

	huma.Register(api, huma.Operation{
		OperationID:   "add-mic",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/mics",
		Summary:       "Add a named mic",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string           `path:"id"`
		Body CreateMicRequest `json:"body"`
	}) (*struct {
		Body domain.Mic `json:"body"`
	}, error) {
		var created domain.Mic
		_, err := h.mutate(ctx, "add_mic", func(s domain.State) (domain.State, error) {
			next, m, err := eng.AddMic(s, input.ID, domain.Mic{Name: input.Body.Name, Kind: input.Body.Kind})
			created = m
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Mic `json:"body"`
		}{Body: created}, nil
	})

	h.remove(api, "remove-mic", "/mics/{id}", "Remove a mic and clear it from every item", "remove_mic", eng.RemoveMic)

	huma.Register(api, huma.Operation{
		OperationID: "list-rehearsals",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/rehearsals",
		Summary:     "List a show's rehearsals",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.Rehearsal `json:"body"`
	}, error) {
		st := h.sess.State()
		out, err := showScoped(st, input.ID, st.RehearsalsOf)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body []domain.Rehearsal `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-rehearsal",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/rehearsals",
		Summary:       "Schedule a rehearsal",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string                 `path:"id"`
		Body CreateRehearsalRequest `json:"body"`
	}) (*struct {
		Body domain.Rehearsal `json:"body"`
	}, error) {
		var created domain.Rehearsal
		_, err := h.mutate(ctx, "add_rehearsal", func(s domain.State) (domain.State, error) {
			next, r, err := eng.AddRehearsal(s, input.ID, domain.Rehearsal{
				Date:      input.Body.Date,
				Location:  input.Body.Location,
				Type:      input.Body.Type,
				Comments:  input.Body.Comments,
				Absentees: input.Body.Absentees,
			})
			created = r
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Rehearsal `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-absentees",
		Method:      http.MethodPut,
		Path:        "/rehearsals/{id}/absentees",
		Summary:     "Replace a rehearsal's absentee list",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string              `path:"id"`
		Body SetAbsenteesRequest `json:"body"`
	}) (*struct {
		Body domain.Rehearsal `json:"body"`
	}, error) {
		var updated domain.Rehearsal
		_, err := h.mutate(ctx, "set_absentees", func(s domain.State) (domain.State, error) {
			next, r, err := eng.SetAbsentees(s, input.ID, input.Body.Absentees)
			updated = r
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.Rehearsal `json:"body"`
		}{Body: updated}, nil
	})

	h.remove(api, "remove-rehearsal", "/rehearsals/{id}", "Remove a rehearsal", "remove_rehearsal", eng.RemoveRehearsal)

	huma.Register(api, huma.Operation{
		OperationID: "list-pr-items",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/pr",
		Summary:     "List a show's publicity tasks",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.PRItem `json:"body"`
	}, error) {
		st := h.sess.State()
		out, err := showScoped(st, input.ID, st.PRItemsOf)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body []domain.PRItem `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "add-pr-item",
		Method:        http.MethodPost,
		Path:          "/shows/{id}/pr",
		Summary:       "Add a publicity task",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string              `path:"id"`
		Body CreatePRItemRequest `json:"body"`
	}) (*struct {
		Body domain.PRItem `json:"body"`
	}, error) {
		var created domain.PRItem
		_, err := h.mutate(ctx, "add_pr_item", func(s domain.State) (domain.State, error) {
			next, p, err := eng.AddPRItem(s, input.ID, domain.PRItem{
				Title:   input.Body.Title,
				Channel: input.Body.Channel,
				Status:  input.Body.Status,
				Due:     input.Body.Due,
				Notes:   input.Body.Notes,
			})
			created = p
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.PRItem `json:"body"`
		}{Body: created}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-pr-item",
		Method:      http.MethodPatch,
		Path:        "/pr/{id}",
		Summary:     "Update a publicity task",
		Errors:      []int{http.StatusBadRequest, http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID   string              `path:"id"`
		Body UpdatePRItemRequest `json:"body"`
	}) (*struct {
		Body domain.PRItem `json:"body"`
	}, error) {
		var updated domain.PRItem
		_, err := h.mutate(ctx, "update_pr_item", func(s domain.State) (domain.State, error) {
			next, p, err := eng.UpdatePRItem(s, input.ID, input.Body.patch())
			updated = p
			return next, err
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body domain.PRItem `json:"body"`
		}{Body: updated}, nil
	})

	h.remove(api, "remove-pr-item", "/pr/{id}", "Remove a publicity task", "remove_pr_item", eng.RemovePRItem)
}

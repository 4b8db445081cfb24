package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/conflict"
	"backstage/internal/domain"
	"backstage/internal/engine"
	"backstage/internal/runsheet"
)

type RunSheetResponse struct {
	runsheet.Sheet
	Blocks []runsheet.Segment `json:"blocks,omitempty"`
}

func (h handlers) registerViews(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-channels",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/channels",
		Summary:     "List named mics and generated slots",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []domain.Channel `json:"body"`
	}, error) {
		st := h.sess.State()
		out, err := showScoped(st, input.ID, st.Channels)
		if err != nil {
			return nil, err
		}
		return &struct {
			Body []domain.Channel `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-runsheet",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/runsheet",
		Summary:     "Timed running order",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID     string `path:"id"`
		Blocks bool   `query:"blocks" doc:"Group consecutive acts into blocks"`
	}) (*struct {
		Body RunSheetResponse `json:"body"`
	}, error) {
		st := h.sess.State()
		show, ok := st.FindShow(input.ID)
		if !ok {
			return nil, handleError(engine.NotFoundError{Kind: "show", ID: input.ID})
		}
		resp := RunSheetResponse{Sheet: runsheet.Build(show, st.ItemsOf(show.ID), h.schedule)}
		if input.Blocks {
			resp.Blocks = runsheet.Blocks(resp.Sheet)
		}
		return &struct {
			Body RunSheetResponse `json:"body"`
		}{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-conflicts",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/conflicts",
		Summary:     "Quick-change and mic hand-off warnings",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body []conflict.Warning `json:"body"`
	}, error) {
		st := h.sess.State()
		if _, ok := st.FindShow(input.ID); !ok {
			return nil, handleError(engine.NotFoundError{Kind: "show", ID: input.ID})
		}
		warnings := conflict.Detect(st.ItemsOf(input.ID), st.PeopleOf(input.ID))
		if warnings == nil {
			warnings = []conflict.Warning{}
		}
		return &struct {
			Body []conflict.Warning `json:"body"`
		}{Body: warnings}, nil
	})
}

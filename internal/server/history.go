package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/app"
	"backstage/internal/domain"
)

func (h handlers) registerHistory(api huma.API) {
	step := func(id, path, summary string, fn func(context.Context) (bool, error)) {
		huma.Register(api, huma.Operation{
			OperationID: id,
			Method:      http.MethodPost,
			Path:        path,
			Summary:     summary,
			Errors:      []int{http.StatusServiceUnavailable},
		}, func(ctx context.Context, _ *struct{}) (*struct {
			Body HistoryResponse `json:"body"`
		}, error) {
			applied, err := fn(ctx)
			if err != nil {
				return nil, handleError(err)
			}
			return &struct {
				Body HistoryResponse `json:"body"`
			}{Body: HistoryResponse{Applied: applied, CanUndo: h.sess.CanUndo(), CanRedo: h.sess.CanRedo()}}, nil
		})
	}
	step("undo", "/history/undo", "Step back one mutation", h.sess.Undo)
	step("redo", "/history/redo", "Reapply the last undone mutation", h.sess.Redo)

	huma.Register(api, huma.Operation{
		OperationID: "list-versions",
		Method:      http.MethodGet,
		Path:        "/versions",
		Summary:     "List named versions",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []app.VersionInfo `json:"body"`
	}, error) {
		out, err := h.sess.ListVersions(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		if out == nil {
			out = []app.VersionInfo{}
		}
		return &struct {
			Body []app.VersionInfo `json:"body"`
		}{Body: out}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "save-version",
		Method:        http.MethodPost,
		Path:          "/versions",
		Summary:       "Snapshot the document under a label",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Body SaveVersionRequest `json:"body"`
	}) (*struct {
		Body app.VersionInfo `json:"body"`
	}, error) {
		v, err := h.sess.SaveVersion(ctx, input.Body.Label)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body app.VersionInfo `json:"body"`
		}{Body: v}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-version",
		Method:      http.MethodPost,
		Path:        "/versions/{id}/restore",
		Summary:     "Replace the document with a version; undoable",
		Errors:      []int{http.StatusNotFound, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.State `json:"body"`
	}, error) {
		st, err := h.sess.RestoreVersion(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.State `json:"body"`
		}{Body: st}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-version",
		Method:        http.MethodDelete,
		Path:          "/versions/{id}",
		Summary:       "Delete a version",
		DefaultStatus: http.StatusNoContent,
		Errors:        []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := h.sess.DeleteVersion(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

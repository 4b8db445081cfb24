package server

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"backstage/internal/domain"
	"backstage/internal/transfer"
)

func (h handlers) registerTransfer(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "export-show",
		Method:      http.MethodGet,
		Path:        "/shows/{id}/export",
		Summary:     "Export a show as a standalone document",
		Errors:      []int{http.StatusNotFound, http.StatusNotImplemented},
	}, func(ctx context.Context, input *struct {
		ID      string `path:"id"`
		Archive bool   `query:"archive" doc:"Also write the document to the export store"`
	}) (*struct {
		ArchiveKey string            `header:"X-Archive-Key"`
		Body       transfer.Document `json:"body"`
	}, error) {
		doc, err := transfer.Export(h.sess.State(), input.ID, h.sess.Engine.Now())
		if err != nil {
			return nil, handleError(err)
		}
		out := &struct {
			ArchiveKey string            `header:"X-Archive-Key"`
			Body       transfer.Document `json:"body"`
		}{Body: doc}
		if input.Archive {
			if h.exports == nil {
				return nil, newAPIError(http.StatusNotImplemented, "exports_disabled", "no export store configured", nil)
			}
			info, err := transfer.Archive(ctx, h.exports, doc)
			if err != nil {
				return nil, handleError(err)
			}
			out.ArchiveKey = info.Key
		}
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "import-show",
		Method:        http.MethodPost,
		Path:          "/import",
		Summary:       "Import an exported show under fresh ids",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusServiceUnavailable},
	}, func(ctx context.Context, input *struct {
		Body transfer.Document `json:"body"`
	}) (*struct {
		Body ImportResponse `json:"body"`
	}, error) {
		var showID string
		_, err := h.mutate(ctx, "import_show", func(s domain.State) (domain.State, error) {
			next, id := transfer.Import(s, input.Body, h.sess.Engine.IDs)
			showID = id
			return next, nil
		})
		if err != nil {
			return nil, err
		}
		return &struct {
			Body ImportResponse `json:"body"`
		}{Body: ImportResponse{ShowID: showID}}, nil
	})
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/jihowes/free-trial-snetinal-sub000/api/responses"
	"github.com/jihowes/free-trial-snetinal-sub000/internal/directory"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/enums"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

// DirectoryList returns the curated trial catalog with optional search,
// category filter and ordering.
func DirectoryList(svc directory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "directory service unavailable"))
			return
		}

		sort, err := enums.ParseDirectorySort(r.URL.Query().Get("sort"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sort"))
			return
		}

		entries, err := svc.List(ctx, directory.ListParams{
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Sort:     sort,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

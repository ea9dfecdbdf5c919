package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jihowes/free-trial-snetinal-sub000/api/responses"
	pkgerrors "github.com/jihowes/free-trial-snetinal-sub000/pkg/errors"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/favicon"
	"github.com/jihowes/free-trial-snetinal-sub000/pkg/logger"
)

const faviconCacheControl = "public, max-age=86400, stale-while-revalidate=604800"

// Favicon proxies a site icon for the requested url so the dashboard never
// hits third-party icon services from the browser.
func Favicon(fetcher *favicon.Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if fetcher == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "favicon fetcher unavailable"))
			return
		}

		raw := strings.TrimSpace(r.URL.Query().Get("url"))
		if raw == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "url is required"))
			return
		}

		domain, err := favicon.NormalizeDomain(raw)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid url"))
			return
		}

		icon, err := fetcher.Fetch(ctx, domain)
		if err != nil {
			if errors.Is(err, favicon.ErrAllSourcesFailed) {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "favicon lookup failed"))
				return
			}
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "favicon lookup failed"))
			return
		}

		w.Header().Set("Content-Type", icon.ContentType)
		w.Header().Set("Cache-Control", faviconCacheControl)
		w.Header().Set("X-Favicon-Source", icon.Source)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(icon.Data)
	}
}

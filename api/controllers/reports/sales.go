package reports

import (
	"net/http"

	"github.com/marvindelacruz/hardwarehub-backend/api/responses"
	"github.com/marvindelacruz/hardwarehub-backend/api/validators"
	"github.com/marvindelacruz/hardwarehub-backend/internal/analytics"
	pkgerrors "github.com/marvindelacruz/hardwarehub-backend/pkg/errors"
	"github.com/marvindelacruz/hardwarehub-backend/pkg/logger"
)

// Sales returns the rolling-window sales report. The window defaults to
// seven days; the upper bound is enforced by the analytics service.
func Sales(svc analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service unavailable"))
			return
		}

		days, err := validators.ParseQueryInt(r, "days", 0, 0, 3650)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.SalesReport(r.Context(), days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

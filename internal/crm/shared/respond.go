package shared

import (
	"errors"
	"net/http"

	"github.com/vertex-crm/vertex-crm/internal/gateway"
	"github.com/vertex-crm/vertex-crm/internal/platform/httpx"
)

// RespondServiceError maps service-layer errors to HTTP. Partial batch
// failures keep every per-record message distinct instead of collapsing into
// one undifferentiated error.
func RespondServiceError(w http.ResponseWriter, err error) {
	var batch *gateway.BatchError
	if errors.As(err, &batch) {
		httpx.ProblemWithErrors(w, http.StatusUnprocessableEntity, "Partial Failure", err.Error(), batch.AllMessages())
		return
	}
	httpx.RespondError(w, err)
}

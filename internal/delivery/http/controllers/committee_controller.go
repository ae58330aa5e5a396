package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"committeehub/internal/delivery/http/helpers"
	"committeehub/internal/domain"
)

// ListCommitteesSuccessResponse is the success envelope for GET /committees (200).
type ListCommitteesSuccessResponse struct {
	Data  domain.CommitteeList `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// GetCommitteeSuccessResponse is the success envelope for GET /committees/{id} (200).
type GetCommitteeSuccessResponse struct {
	Data  *domain.Committee `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CommitteeController serves read-only committee endpoints. Mutations go through the event channel.
type CommitteeController struct {
	Logger  *slog.Logger
	Service domain.CommitteeService
}

// NewCommitteeController creates a CommitteeController with the given logger and service.
func NewCommitteeController(logger *slog.Logger, svc domain.CommitteeService) *CommitteeController {
	return &CommitteeController{Logger: logger, Service: svc}
}

// ListCommittees godoc
// @Summary List committees
// @Description Returns every committee as {id, title} together with the count.
// @Tags committees
// @Produce json
// @Success 200 {object} controllers.ListCommitteesSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees [get]
func (c *CommitteeController) ListCommittees(w http.ResponseWriter, r *http.Request) {
	committees, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Committees couldn't be retrieved.")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, domain.NewCommitteeList(committees))
}

// GetCommittee godoc
// @Summary Get a committee
// @Description Returns the full committee record for the given id.
// @Tags committees
// @Produce json
// @Param id path string true "Committee id (title lowercased, spaces removed)"
// @Success 200 {object} controllers.GetCommitteeSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /committees/{id} [get]
func (c *CommitteeController) GetCommittee(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	committee, err := c.Service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrCommitteeNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "Committee doesn't exist.")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "Committee couldn't be retrieved.")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, committee)
}

package api

import (
	"net/http"
	"strconv"

	"identity-console/internal/domain"
)

type auditListResponse struct {
	Data          []auditRow `json:"data"`
	Total         int64      `json:"total"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

func optionalParam(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

// pageFromParams extracts a PageRequest from max_results/page_token params.
func pageFromParams(r *http.Request) (domain.PageRequest, error) {
	p := domain.PageRequest{PageToken: r.URL.Query().Get("page_token")}
	if s := r.URL.Query().Get("max_results"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, domain.ErrInvalidPage("max_results must be an integer, got %q", s)
		}
		p.MaxResults = n
	}
	return p, nil
}

func (h *Handler) listAudit(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	entries, total, err := h.audit.List(r.Context(), domain.AuditFilter{
		Actor:    optionalParam(r, "actor"),
		Action:   optionalParam(r, "action"),
		TargetID: optionalParam(r, "target_id"),
		Page:     page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := auditListResponse{
		Data:          make([]auditRow, 0, len(entries)),
		Total:         total,
		NextPageToken: domain.NextPageToken(page.Offset(), page.Limit(), total),
	}
	for _, e := range entries {
		out.Data = append(out.Data, auditEntryToAPI(e))
	}
	writeJSON(w, http.StatusOK, out)
}

package api

import (
	"net/url"
	"strconv"
	"strings"

	"identity-console/internal/domain"
)

// parseTableRequest reads a DataTables-style page request:
//
//	draw, start, length, search[value],
//	columns[i][data], order[0][column], order[0][dir]
//
// draw is opaque and echoed verbatim. A missing length means
// domain.DefaultTableLength. order[0][dir] is
// ascending when empty or "asc" and descending otherwise.
func parseTableRequest(q url.Values) (domain.TableRequest, error) {
	req := domain.TableRequest{
		Draw:   q.Get("draw"),
		Filter: q.Get("search[value]"),
		Length: domain.DefaultTableLength,
	}
	var err error
	if req.Start, err = intParam(q, "start", 0); err != nil {
		return req, err
	}
	if req.Length, err = intParam(q, "length", domain.DefaultTableLength); err != nil {
		return req, err
	}

	col := q.Get("order[0][column]")
	if col == "" {
		return req, nil
	}
	idx, err := strconv.Atoi(col)
	if err != nil || idx < 0 {
		return req, domain.ErrInvalidPage("order column %q is not a column index", col)
	}
	key := "columns[" + strconv.Itoa(idx) + "][data]"
	if _, ok := q[key]; !ok {
		return req, domain.ErrInvalidPage("order column %d has no matching column", idx)
	}
	req.SortColumn = q.Get(key)
	if dir := strings.TrimSpace(q.Get("order[0][dir]")); dir != "" && !strings.EqualFold(dir, "asc") {
		req.Descending = true
	}
	return req, nil
}

func intParam(q url.Values, name string, def int) (int, error) {
	s := strings.TrimSpace(q.Get(name))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, domain.ErrInvalidPage("%s must be an integer, got %q", name, s)
	}
	return n, nil
}

// tableResponse is the wire form of a table page.
type tableResponse[R any] struct {
	Draw            string `json:"draw"`
	RecordsTotal    int    `json:"recordsTotal"`
	RecordsFiltered int    `json:"recordsFiltered"`
	Data            []R    `json:"data"`
}

func toTableResponse[T, R any](res *domain.TableResult[T], project func(T) R) tableResponse[R] {
	out := tableResponse[R]{
		Draw:            res.Draw,
		RecordsTotal:    res.RecordsTotal,
		RecordsFiltered: res.RecordsFiltered,
		Data:            make([]R, 0, len(res.Data)),
	}
	for _, row := range res.Data {
		out.Data = append(out.Data, project(row))
	}
	return out
}

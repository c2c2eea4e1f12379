package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// PaginatedResponse is a token-paged list (used by the audit endpoint).
type PaginatedResponse struct {
	Data          []interface{} `json:"data"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// FetchAllPages follows nextPageToken until it is empty and returns every
// item. baseQuery is not modified.
func FetchAllPages(c *Client, method, path string, baseQuery url.Values) ([]interface{}, error) {
	var all []interface{}
	token := ""
	for {
		q := cloneQuery(baseQuery)
		if token != "" {
			q.Set("page_token", token)
		}
		var page PaginatedResponse
		if err := fetchPage(c, method, path, q, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		if page.NextPageToken == "" {
			return all, nil
		}
		token = page.NextPageToken
	}
}

// TableResponse is one page of a table endpoint (users, roles).
type TableResponse struct {
	Draw            string        `json:"draw"`
	RecordsTotal    int           `json:"recordsTotal"`
	RecordsFiltered int           `json:"recordsFiltered"`
	Data            []interface{} `json:"data"`
}

// TableQuery builds the query of a table endpoint request.
type TableQuery struct {
	Search     string
	SortColumn string
	Descending bool
	Start      int
	Length     int
}

// Values encodes q in the table request wire form.
func (q TableQuery) Values(draw int) url.Values {
	v := url.Values{}
	v.Set("draw", strconv.Itoa(draw))
	v.Set("start", strconv.Itoa(q.Start))
	if q.Length > 0 {
		v.Set("length", strconv.Itoa(q.Length))
	}
	if q.Search != "" {
		v.Set("search[value]", q.Search)
	}
	if q.SortColumn != "" {
		v.Set("columns[0][data]", q.SortColumn)
		v.Set("order[0][column]", "0")
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		v.Set("order[0][dir]", dir)
	}
	return v
}

// FetchTable requests one page of a table endpoint.
func FetchTable(ctx context.Context, c *Client, path string, q TableQuery) (*TableResponse, error) {
	var page TableResponse
	if err := c.Call(ctx, http.MethodGet, path, q.Values(1), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FetchAllRows pages through a table endpoint from q.Start until every
// filtered record has been read. The returned response carries the counts
// of the last page and all collected rows.
func FetchAllRows(ctx context.Context, c *Client, path string, q TableQuery) (*TableResponse, error) {
	if q.Length <= 0 {
		q.Length = 100
	}
	out := &TableResponse{}
	for draw := 1; ; draw++ {
		var page TableResponse
		if err := c.Call(ctx, http.MethodGet, path, q.Values(draw), nil, &page); err != nil {
			return nil, err
		}
		out.Draw = page.Draw
		out.RecordsTotal = page.RecordsTotal
		out.RecordsFiltered = page.RecordsFiltered
		out.Data = append(out.Data, page.Data...)
		q.Start += len(page.Data)
		if len(page.Data) == 0 || q.Start >= page.RecordsFiltered {
			return out, nil
		}
	}
}

func fetchPage(c *Client, method, path string, q url.Values, out interface{}) error {
	resp, err := c.Do(method, path, q, nil)
	if err != nil {
		return err
	}
	if err := CheckError(resp); err != nil {
		return err
	}
	data, err := ReadBody(resp)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func cloneQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}

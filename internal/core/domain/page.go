package domain

// DefaultPageLimit is the number of rows requested per page.
const DefaultPageLimit = 200

// PageQuery is the parameter set for one page request.
// A query either starts a report (Path, Limit, Filter) or continues one (Token), never both.
type PageQuery struct {
	Path   string
	Limit  int
	Filter string

	Token string
}

// InitialQuery builds the query for the first page of a report.
func InitialQuery(path string, limit int, filter string) PageQuery {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	return PageQuery{Path: path, Limit: limit, Filter: filter}
}

// ContinueQuery builds the query for a follow-up page.
func ContinueQuery(token string) PageQuery {
	return PageQuery{Token: token}
}

// IsContinuation returns true if the query carries a resumption token.
func (q PageQuery) IsContinuation() bool {
	return q.Token != ""
}

// Page is one successfully parsed result envelope.
type Page struct {
	// Rows holds the raw rows in source order. May be empty.
	Rows []RawRow

	// Token is the resumption token, valid when HasToken is set.
	Token    string
	HasToken bool

	// Finished is true once the service reports no further pages.
	Finished bool
}

// ResumptionState is the single-threaded cursor of one report fetch.
// The zero value is the initial state.
type ResumptionState struct {
	token string
}

// Continuing returns true once a token has been received.
func (s *ResumptionState) Continuing() bool {
	return s.token != ""
}

// Token returns the current resumption token.
func (s *ResumptionState) Token() string {
	return s.token
}

// Advance records the token of a page. A token always supersedes the previous one.
func (s *ResumptionState) Advance(p *Page) {
	if p != nil && p.HasToken && p.Token != "" {
		s.token = p.Token
	}
}

// Next returns the query for the next request.
func (s *ResumptionState) Next(path string, limit int, filter string) PageQuery {
	if s.Continuing() {
		return ContinueQuery(s.token)
	}
	return InitialQuery(path, limit, filter)
}

package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type QueryAgent interface {
	Answer(ctx context.Context, userID, question string) (string, error)
}

type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

type ReadOnlyQuerier interface {
	ReadOnlyQuery(ctx context.Context, query string, maxRows int, timeout time.Duration, args ...interface{}) ([]map[string]interface{}, error)
}

type table struct {
	name    string
	columns []string
}

// queryable is everything the model may read. Anything else, users and
// notifications included, is rejected before the statement reaches the store.
var queryable = []table{
	{name: "books", columns: []string{"id", "title", "author", "category", "language", "pages", "total_copies", "available_copies", "price", "status"}},
	{name: "loans", columns: []string{"id", "book_id", "user_id", "name", "book_title", "author", "category", "issued_date", "due_date", "copies_lent", "fine_per_day", "price", "status", "returned_at"}},
	{name: "reservations", columns: []string{"id", "user_id", "book_id", "reserved_date", "queue_position"}},
	{name: "fines", columns: []string{"id", "loan_id", "user_id", "amount", "reason", "status", "created_at"}},
}

var schemaPrompt = func() string {
	var b strings.Builder
	b.WriteString("You are a helpful library assistant with read-only access to a PostgreSQL database.\nTables:\n")
	for _, t := range queryable {
		fmt.Fprintf(&b, "  %s(%s)\n", t.name, strings.Join(t.columns, ", "))
	}
	b.WriteString(`loans.status is 'Borrowed' or 'Returned'. fines.status is 'pending', 'paid' or 'waived'.
No other tables exist.
Write exactly one PostgreSQL SELECT statement that answers the question. Never modify data.
Return only the SQL, without explanation.`)
	return b.String()
}()

const memberNote = "Rows in loans, reservations and fines already belong to the person asking; do not filter them by user_id."

const answerPrompt = `You are a helpful library assistant. Answer the user's question based strictly on the query result below.
If the result does not contain the answer, say so politely.`

// SQLAgent lets the model write a query, runs it read-only and lets the
// model phrase the answer from the rows. Members only see their own loans,
// reservations and fines; admins see every row.
type SQLAgent struct {
	llm     Completer
	db      ReadOnlyQuerier
	maxRows int
	timeout time.Duration
	log     *zap.Logger
}

func NewSQLAgent(llm Completer, db ReadOnlyQuerier, log *zap.Logger) *SQLAgent {
	return &SQLAgent{llm: llm, db: db, maxRows: 50, timeout: 5 * time.Second, log: log}
}

func (a *SQLAgent) Answer(ctx context.Context, userID, question string) (string, error) {
	admin := auth.IsAdmin(ctx)
	prompt := schemaPrompt
	if !admin {
		prompt += "\n" + memberNote
	}
	generated, err := a.llm.Complete(ctx, []Message{system(prompt), user(question)})
	if err != nil {
		return "", err
	}
	stmt, err := readOnlyStatement(generated)
	if err != nil {
		return "", err
	}

	query, args := stmt, []interface{}(nil)
	if !admin {
		query, args = scopeToCaller(stmt), []interface{}{userID}
	}
	a.log.Debug("sql agent", zap.String("query", query), zap.Bool("admin", admin))

	rows, err := a.db.ReadOnlyQuery(ctx, query, a.maxRows, a.timeout, args...)
	if err != nil {
		return "", errors.Wrap(err, "Error executing database query")
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return a.llm.Complete(ctx, []Message{
		system(answerPrompt),
		user(fmt.Sprintf("Question: %s\nSQL: %s\nResult: %s", question, stmt, data)),
	})
}

const callerTables = "with loans as (select * from loans where user_id = $1), " +
	"reservations as (select * from reservations where user_id = $1), " +
	"fines as (select * from fines where user_id = $1)"

// scopeToCaller shadows the per-member tables with CTEs bound to $1. A
// non-recursive CTE cannot see its own name, so the inner reference is the
// real table.
func scopeToCaller(stmt string) string {
	if loc := withRe.FindStringIndex(stmt); loc != nil {
		return callerTables + ", " + strings.TrimSpace(stmt[loc[1]:])
	}
	return callerTables + " " + stmt
}

var (
	fence      = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")
	literal    = regexp.MustCompile(`'(?:[^']|'')*'`)
	forbidden  = regexp.MustCompile(`(?i)\b(insert|update|delete|merge|drop|alter|create|truncate|grant|revoke|copy|call|do|vacuum|lock|set|into|execute|prepare|listen|notify)\b`)
	// restricted covers tables outside the queryable set and functions
	// that can read beyond it.
	restricted = regexp.MustCompile(`(?i)\b(users|notifications|password_hash|public|recursive|information_schema|pg_\w*|lo_\w+|dblink\w*|\w*_to_xml\w*|current_setting|set_config)\b`)
	special    = regexp.MustCompile(`\$|--|/\*|"|\\`)
	source     = regexp.MustCompile(`(?i)\b(?:from|join)\s+([a-z_][a-z0-9_]*)(\s*[.(])?`)
	cteName    = regexp.MustCompile(`(?i)\b([a-z_][a-z0-9_]*)\s+as\s*\(`)
	selectRe   = regexp.MustCompile(`(?i)^(select|with)\b`)
	withRe     = regexp.MustCompile(`(?i)^with\b`)
)

// known holds the names that may follow FROM or JOIN besides CTEs:
// tables, plus columns and date keywords for extract(... from x).
var known = func() map[string]struct{} {
	m := map[string]struct{}{"current_date": {}, "current_timestamp": {}, "localtimestamp": {}}
	for _, t := range queryable {
		m[t.name] = struct{}{}
		for _, c := range t.columns {
			m[c] = struct{}{}
		}
	}
	return m
}()

// readOnlyStatement pulls the statement out of a model reply and rejects
// anything but a single SELECT over the queryable tables. The READ ONLY
// transaction is the last guard.
func readOnlyStatement(reply string) (string, error) {
	stmt := reply
	if m := fence.FindStringSubmatch(reply); m != nil {
		stmt = m[1]
	}
	stmt = strings.TrimSpace(stmt)
	stmt = strings.TrimSpace(strings.TrimSuffix(stmt, ";"))

	// keywords inside string literals are data
	bare := literal.ReplaceAllString(stmt, "''")

	switch {
	case stmt == "":
		return "", errors.New("empty query")
	case !selectRe.MatchString(stmt):
		return "", errors.New("only SELECT queries are allowed")
	case strings.Contains(bare, ";"):
		return "", errors.New("multiple statements are not allowed")
	case special.MatchString(bare) || strings.Count(bare, "'")%2 != 0:
		return "", errors.New("unsupported syntax in query")
	case forbidden.MatchString(bare):
		return "", errors.New("query is not read-only")
	case restricted.MatchString(bare):
		return "", errors.Errorf("query touches %q", strings.ToLower(restricted.FindString(bare)))
	}

	ctes := make(map[string]struct{})
	for _, m := range cteName.FindAllStringSubmatch(bare, -1) {
		ctes[strings.ToLower(m[1])] = struct{}{}
	}
	for _, m := range source.FindAllStringSubmatch(bare, -1) {
		if m[2] != "" {
			continue
		}
		name := strings.ToLower(m[1])
		_, isKnown := known[name]
		_, isCTE := ctes[name]
		if !isKnown && !isCTE {
			return "", errors.Errorf("table %q is not available", name)
		}
	}
	return stmt, nil
}

type Library interface {
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	ListUserLoans(ctx context.Context, userID string, status model.LoanStatus) ([]model.Loan, error)
	FineSummary(ctx context.Context, userID string) (model.FineSummary, error)
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "any": {}, "you": {}, "have": {}, "has": {},
	"what": {}, "which": {}, "who": {}, "how": {}, "many": {}, "there": {}, "about": {},
	"book": {}, "books": {}, "copy": {}, "copies": {}, "available": {}, "availability": {},
	"author": {}, "authors": {}, "title": {}, "does": {}, "can": {}, "borrow": {}, "library": {},
	"find": {}, "show": {}, "list": {}, "with": {}, "from": {}, "written": {}, "wrote": {}, "stock": {},
}

// LookupAgent answers the common questions straight from the store. It is
// used when no model or no SQL database is configured.
type LookupAgent struct {
	lib Library
}

func NewLookupAgent(lib Library) *LookupAgent {
	return &LookupAgent{lib: lib}
}

func (a *LookupAgent) Answer(ctx context.Context, userID, question string) (string, error) {
	ws := words(question)
	has := func(keys ...string) bool {
		for _, w := range ws {
			for _, k := range keys {
				if w == k {
					return true
				}
			}
		}
		return false
	}

	switch {
	case userID != "" && has("fine", "fines", "owe", "overdue"):
		return a.fines(ctx, userID)
	case userID != "" && has("my", "loan", "loans", "borrowed", "due"):
		return a.loans(ctx, userID)
	}
	return a.search(ctx, ws)
}

func (a *LookupAgent) fines(ctx context.Context, userID string) (string, error) {
	s, err := a.lib.FineSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(s.OverdueBooks) == 0 {
		return fmt.Sprintf("You have no overdue books. Your account cost is %s.", s.AccountCost.StringFixed(2)), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d overdue book(s) with fines totalling %s:", len(s.OverdueBooks), s.TotalFines.StringFixed(2))
	for _, o := range s.OverdueBooks {
		fmt.Fprintf(&b, "\n- %s, due %s, %d day(s) late: %s", o.Title, o.DueDate, o.OverdueDays, o.FineAmount.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nYour account cost is %s.", s.AccountCost.StringFixed(2))
	return b.String(), nil
}

func (a *LookupAgent) loans(ctx context.Context, userID string) (string, error) {
	loans, err := a.lib.ListUserLoans(ctx, userID, model.LoanBorrowed)
	if err != nil {
		return "", err
	}
	if len(loans) == 0 {
		return "You have no books on loan.", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You have %d loan(s):", len(loans))
	for _, l := range loans {
		fmt.Fprintf(&b, "\n- %s by %s, %d cop(ies), due %s", l.BookTitle, l.Author, l.CopiesLent, l.DueDate.Format("02/01/2006"))
	}
	return b.String(), nil
}

func (a *LookupAgent) search(ctx context.Context, ws []string) (string, error) {
	const limit = 5
	seen := make(map[string]struct{})
	found := make([]model.Book, 0, limit)
	for _, w := range ws {
		if _, skip := stopWords[w]; skip || len(w) < 3 || len(found) == limit {
			continue
		}
		books, err := a.lib.ListBooks(ctx, model.BookFilter{Query: w, Page: 1, Size: limit})
		if err != nil {
			return "", err
		}
		for _, bk := range books.Items {
			if _, ok := seen[bk.ID]; ok || len(found) == limit {
				continue
			}
			seen[bk.ID] = struct{}{}
			found = append(found, bk)
		}
	}
	if len(found) == 0 {
		return "I couldn't find any books matching your question.", nil
	}
	var b strings.Builder
	b.WriteString("Here is what I found:")
	for _, bk := range found {
		fmt.Fprintf(&b, "\n- %s by %s: %d of %d copies available (%s)",
			bk.Title, bk.Author, bk.AvailableCopies, bk.TotalCopies, bk.Status)
	}
	return b.String(), nil
}

const chatPrompt = `You are a friendly and helpful Library AI assistant.
Engage in polite conversation with the user.
If they ask about library rules generally, you can answer.
Do not make up facts about specific books in the inventory; guide them to ask specific queries if they want to check stock.`

type LLMResponder struct {
	llm Completer
}

func NewLLMResponder(llm Completer) *LLMResponder {
	return &LLMResponder{llm: llm}
}

func (r *LLMResponder) Respond(ctx context.Context, text string) (string, error) {
	return r.llm.Complete(ctx, []Message{system(chatPrompt), user(text)})
}

// CannedResponder is the small talk of a deployment without a model.
type CannedResponder struct{}

func (CannedResponder) Respond(context.Context, string) (string, error) {
	return "Hello! I'm the library assistant. Ask me about books, their availability, your loans or your fines.", nil
}

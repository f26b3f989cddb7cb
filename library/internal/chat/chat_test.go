package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type completerFunc func(ctx context.Context, msgs []Message) (string, error)

func (f completerFunc) Complete(ctx context.Context, msgs []Message) (string, error) {
	return f(ctx, msgs)
}

type staticAgent struct {
	reply string
	err   error
}

func (a staticAgent) Answer(context.Context, string, string) (string, error) { return a.reply, a.err }

func (a staticAgent) Respond(context.Context, string) (string, error) { return a.reply, a.err }

func TestKeywordClassifier(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{text: "Is Dune available?", want: DatabaseQuery},
		{text: "How many FINES do I have", want: DatabaseQuery},
		{text: "books by Tolkien", want: DatabaseQuery},
		{text: "Hello there!", want: GeneralChat},
		{text: "tell me a joke", want: GeneralChat},
	}
	for _, tt := range tests {
		got, err := KeywordClassifier{}.Classify(context.Background(), tt.text)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, tt.text)
	}
}

func TestLLMClassifier(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		err     error
		want    Intent
		wantErr bool
	}{
		{name: "query", reply: " database_query\n", want: DatabaseQuery},
		{name: "chat", reply: "GENERAL_CHAT", want: GeneralChat},
		{name: "garbage", reply: "not sure", want: GeneralChat},
		{name: "error", err: errors.New("boom"), wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := NewLLMClassifier(completerFunc(func(_ context.Context, msgs []Message) (string, error) {
				require.Len(t, msgs, 2)
				require.Equal(t, "system", msgs[0].Role)
				return tt.reply, tt.err
			}))
			got, err := c.Classify(context.Background(), "anything")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRouter_Handle(t *testing.T) {
	tests := []struct {
		name       string
		classifier Classifier
		query      staticAgent
		responder  staticAgent
		want       string
	}{
		{
			name:       "database query",
			classifier: KeywordClassifier{},
			query:      staticAgent{reply: "Dune is available"},
			want:       "Dune is available",
		},
		{
			name:       "agent error",
			classifier: KeywordClassifier{},
			query:      staticAgent{err: errors.New(`pq: relation "users" does not exist`)},
			want:       failedReply,
		},
		{
			name:       "classifier error",
			classifier: NewLLMClassifier(completerFunc(func(context.Context, []Message) (string, error) { return "", errors.New("quota") })),
			want:       failedReply,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewRouter(tt.classifier, tt.query, tt.responder, zap.NewExample())
			got := r.Handle(context.Background(), "u1", "is the book available")
			require.Equal(t, tt.want, got)
			require.NotContains(t, got, "users")
			require.NotContains(t, got, "quota")
		})
	}

	r := NewRouter(KeywordClassifier{}, staticAgent{}, CannedResponder{}, zap.NewExample())
	require.Contains(t, r.Handle(context.Background(), "", "hi"), "library assistant")
}

func TestReadOnlyStatement(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    string
		wantErr bool
	}{
		{name: "plain", reply: "SELECT title FROM books;", want: "SELECT title FROM books"},
		{name: "fenced", reply: "Here:\n```sql\nselect count(*) from loans where status = 'Borrowed'\n```", want: "select count(*) from loans where status = 'Borrowed'"},
		{name: "cte", reply: "WITH x AS (SELECT 1) SELECT * FROM x", want: "WITH x AS (SELECT 1) SELECT * FROM x"},
		{name: "column names are fine", reply: "select created_at, updated_at from fines", want: "select created_at, updated_at from fines"},
		{name: "keywords in literals", reply: "select title from books where title ilike '%set%' or category = 'Do it; now'", want: "select title from books where title ilike '%set%' or category = 'Do it; now'"},
		{name: "escaped quote", reply: "select id from books where title = 'Ender''s Game'", want: "select id from books where title = 'Ender''s Game'"},
		{name: "join", reply: "select b.title, l.due_date from loans l join books b on b.id = l.book_id", want: "select b.title, l.due_date from loans l join books b on b.id = l.book_id"},
		{name: "extract", reply: "select extract(year from issued_date) as y, count(*) from loans group by y", want: "select extract(year from issued_date) as y, count(*) from loans group by y"},
		{name: "users table", reply: "select email, password_hash from users", wantErr: true},
		{name: "users subquery", reply: "select * from books where id in (select id from users)", wantErr: true},
		{name: "notifications", reply: "select message from notifications", wantErr: true},
		{name: "unknown table", reply: "select * from goose_db_version", wantErr: true},
		{name: "catalog", reply: "select usename from pg_user", wantErr: true},
		{name: "schema qualified", reply: "select * from public.users", wantErr: true},
		{name: "query as text", reply: "select query_to_xml('select * from users', true, true, '')", wantErr: true},
		{name: "quoted identifier", reply: `select * from "users"`, wantErr: true},
		{name: "dollar quoting", reply: "select $$x$$", wantErr: true},
		{name: "comment", reply: "select title from books -- ; drop", wantErr: true},
		{name: "unterminated literal", reply: "select title from books where title = 'x", wantErr: true},
		{name: "set outside literal", reply: "select set_config('a', 'b', true)", wantErr: true},
		{name: "delete", reply: "DELETE FROM books", wantErr: true},
		{name: "stacked", reply: "select 1; drop table books", wantErr: true},
		{name: "select into", reply: "select * into copy_books from books", wantErr: true},
		{name: "cte with update", reply: "with d as (update books set pages = 0 returning *) select * from d", wantErr: true},
		{name: "empty", reply: "  ", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := readOnlyStatement(tt.reply)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

type fakeDB struct {
	query string
	args  []interface{}
	rows  []map[string]interface{}
}

func (f *fakeDB) ReadOnlyQuery(_ context.Context, query string, maxRows int, _ time.Duration, args ...interface{}) ([]map[string]interface{}, error) {
	f.query, f.args = query, args
	if len(f.rows) > maxRows {
		return f.rows[:maxRows], nil
	}
	return f.rows, nil
}

func TestSQLAgent_Answer(t *testing.T) {
	const generated = "```sql\nSELECT title, available_copies FROM books WHERE title ILIKE '%dune%'\n```"
	newAgent := func(db *fakeDB, sqlReply string) *SQLAgent {
		calls := 0
		llm := completerFunc(func(_ context.Context, msgs []Message) (string, error) {
			calls++
			if calls == 1 {
				return sqlReply, nil
			}
			require.Contains(t, msgs[1].Content, `"title":"Dune"`)
			require.NotContains(t, msgs[1].Content, "$1")
			return "Dune has 2 copies available.", nil
		})
		return NewSQLAgent(llm, db, zap.NewExample())
	}
	rows := []map[string]interface{}{{"title": "Dune", "available_copies": 2}}

	t.Run("member rows are scoped", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: rows}
		ctx := auth.SetAuthContext(context.Background(), "u1", auth.RoleStandard)
		got, err := newAgent(db, generated).Answer(ctx, "u1", "is dune available?")
		require.NoError(t, err)
		require.Equal(t, "Dune has 2 copies available.", got)
		require.Equal(t, callerTables+" SELECT title, available_copies FROM books WHERE title ILIKE '%dune%'", db.query)
		require.Equal(t, []interface{}{"u1"}, db.args)
	})

	t.Run("member cte is merged", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: rows}
		ctx := auth.SetAuthContext(context.Background(), "u1", auth.RoleStandard)
		_, err := newAgent(db, "WITH due AS (SELECT * FROM loans) SELECT count(*) FROM due").Answer(ctx, "u1", "how many loans")
		require.NoError(t, err)
		require.Equal(t, callerTables+", due AS (SELECT * FROM loans) SELECT count(*) FROM due", db.query)
	})

	t.Run("admin is not scoped", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: rows}
		ctx := auth.SetAuthContext(context.Background(), "a1", auth.RoleAdmin)
		_, err := newAgent(db, generated).Answer(ctx, "a1", "is dune available?")
		require.NoError(t, err)
		require.Equal(t, "SELECT title, available_copies FROM books WHERE title ILIKE '%dune%'", db.query)
		require.Empty(t, db.args)
	})

	t.Run("rejected statement never runs", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{rows: rows}
		ctx := auth.SetAuthContext(context.Background(), "u1", auth.RoleStandard)
		for _, reply := range []string{"UPDATE books SET available_copies = 0", "SELECT email, password_hash FROM users"} {
			_, err := newAgent(db, reply).Answer(ctx, "u1", "break it")
			require.Error(t, err)
		}
		require.Empty(t, db.query)
	})
}

type fakeLibrary struct {
	books []model.Book
	loans []model.Loan
	fines model.FineSummary
}

func (f fakeLibrary) ListBooks(_ context.Context, filter model.BookFilter) (model.ListBooks, error) {
	var out []model.Book
	for _, b := range f.books {
		if containsFold(b.Title, filter.Query) || containsFold(b.Author, filter.Query) {
			out = append(out, b)
		}
	}
	return model.ListBooks{Items: out}, nil
}

func (f fakeLibrary) ListUserLoans(context.Context, string, model.LoanStatus) ([]model.Loan, error) {
	return f.loans, nil
}

func (f fakeLibrary) FineSummary(context.Context, string) (model.FineSummary, error) {
	return f.fines, nil
}

func containsFold(s, sub string) bool {
	return sub != "" && strings.Contains(strings.ToLower(s), sub)
}

func TestLookupAgent_Answer(t *testing.T) {
	lib := fakeLibrary{
		books: []model.Book{
			{ID: "b1", Title: "Dune", Author: "Frank Herbert", TotalCopies: 3, AvailableCopies: 1, Status: model.BookAvailable},
			{ID: "b2", Title: "Emma", Author: "Jane Austen", TotalCopies: 1, Status: model.BookBorrowed},
		},
		loans: []model.Loan{
			{BookTitle: "Emma", Author: "Jane Austen", CopiesLent: 1, DueDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)},
		},
		fines: model.FineSummary{
			TotalFines:  decimal.NewFromInt(20),
			AccountCost: decimal.NewFromInt(70),
			OverdueBooks: []model.OverdueBook{
				{Title: "Emma", DueDate: "03/05/2024", OverdueDays: 4, FineAmount: decimal.NewFromInt(20)},
			},
		},
	}
	agent := NewLookupAgent(lib)

	tests := []struct {
		name     string
		userID   string
		question string
		want     []string
	}{
		{name: "catalog", question: "Is Dune available?", want: []string{"Dune by Frank Herbert: 1 of 3 copies available (Available)"}},
		{name: "by author", question: "books by austen", want: []string{"Emma by Jane Austen"}},
		{name: "nothing", question: "any books about zebras", want: []string{"couldn't find"}},
		{name: "fines", userID: "u1", question: "what fines do I owe?", want: []string{"fines totalling 20.00", "Emma, due 03/05/2024, 4 day(s) late", "account cost is 70.00"}},
		{name: "loans", userID: "u1", question: "which books have I borrowed", want: []string{"You have 1 loan(s)", "Emma by Jane Austen, 1 cop(ies), due 03/05/2024"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := agent.Answer(context.Background(), tt.userID, tt.question)
			require.NoError(t, err)
			for _, w := range tt.want {
				require.Contains(t, got, w)
			}
		})
	}
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		w.Header().Set("Content-Type", "application/json")
		if req.Messages[len(req.Messages)-1].Content == "fail" {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests","param":null,"code":null}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"test-model",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":" GENERAL_CHAT "},"finish_reason":"stop"}],` +
			`"usage":{"prompt_tokens":1,"completion_tokens":1,"total_tokens":2}}`))
	}))
	defer srv.Close()

	c := NewOpenAIClient(Config{BaseURL: srv.URL + "/v1/", APIKey: "key", Model: "test-model", Timeout: time.Second})
	got, err := c.Complete(context.Background(), []Message{user("hi")})
	require.NoError(t, err)
	require.Equal(t, "GENERAL_CHAT", got)

	_, err = c.Complete(context.Background(), []Message{user("fail")})
	require.EqualError(t, err, "llm status 429: rate limited")
}

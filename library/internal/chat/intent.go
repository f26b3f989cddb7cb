package chat

import (
	"context"
	"strings"
	"unicode"
)

type Intent string

const (
	DatabaseQuery Intent = "DATABASE_QUERY"
	GeneralChat   Intent = "GENERAL_CHAT"
)

type Classifier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

var libraryWords = map[string]struct{}{
	"book": {}, "books": {}, "author": {}, "authors": {}, "title": {}, "titles": {},
	"available": {}, "availability": {}, "copy": {}, "copies": {}, "stock": {},
	"borrow": {}, "borrowed": {}, "lend": {}, "lent": {}, "loan": {}, "loans": {},
	"return": {}, "returned": {}, "due": {}, "overdue": {}, "fine": {}, "fines": {},
	"reserve": {}, "reserved": {}, "reservation": {}, "reservations": {},
	"category": {}, "genre": {}, "catalog": {}, "catalogue": {},
}

// KeywordClassifier routes by vocabulary alone and never fails.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, text string) (Intent, error) {
	for _, w := range words(text) {
		if _, ok := libraryWords[w]; ok {
			return DatabaseQuery, nil
		}
	}
	return GeneralChat, nil
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

const intentPrompt = `Classify the following user input into one of two categories: DATABASE_QUERY or GENERAL_CHAT.

DATABASE_QUERY: Questions asking about books, authors, availability, fines, user details, or anything specific to the library's data.
GENERAL_CHAT: Greetings, pleasantries, philosophical questions, or requests for creative writing unrelated to library data lookup.

Return ONLY the category name.`

type LLMClassifier struct {
	llm Completer
}

func NewLLMClassifier(llm Completer) *LLMClassifier {
	return &LLMClassifier{llm: llm}
}

func (c *LLMClassifier) Classify(ctx context.Context, text string) (Intent, error) {
	out, err := c.llm.Complete(ctx, []Message{system(intentPrompt), user(text)})
	if err != nil {
		return "", err
	}
	if strings.Contains(strings.ToUpper(out), string(DatabaseQuery)) {
		return DatabaseQuery, nil
	}
	return GeneralChat, nil
}

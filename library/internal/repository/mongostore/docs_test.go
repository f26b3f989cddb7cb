package mongostore

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDecimal128(t *testing.T) {
	tests := []struct {
		name string
		in   decimal.Decimal
	}{
		{name: "zero", in: decimal.Zero},
		{name: "price", in: decimal.RequireFromString("12.50")},
		{name: "negative", in: decimal.RequireFromString("-300")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fromDecimal128(toDecimal128(tt.in))
			require.True(t, tt.in.Equal(got), "want %s got %s", tt.in, got)
		})
	}

	require.True(t, fromDecimal128(primitive.Decimal128{}).IsZero())
}

func TestLoanDoc_TruncatesDates(t *testing.T) {
	loan := model.Loan{
		ID:         "l1",
		IssuedDate: time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC),
		DueDate:    time.Date(2024, 3, 5, 23, 0, 0, 0, time.UTC),
		CopiesLent: 2,
		Price:      decimal.NewFromInt(10),
	}
	got := newLoanDoc(loan).model()
	require.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.IssuedDate)
	require.Equal(t, int64(4), got.Days())
	require.True(t, decimal.NewFromInt(80).Equal(got.Accrual()))
}

func TestEbookDoc(t *testing.T) {
	e := model.Ebook{
		ID: "e1", Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Format: "epub",
		Size: 2048, UploadedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
	fileID := primitive.NewObjectID()
	doc := newEbookDoc(e, fileID)
	require.Equal(t, fileID, doc.FileID)
	require.Equal(t, e, doc.model())
}

func TestCountingReader(t *testing.T) {
	src := &countingReader{r: strings.NewReader("%PDF-1.7 body")}
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.EqualValues(t, len(data), src.n)
}

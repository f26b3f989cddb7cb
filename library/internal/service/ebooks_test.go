package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_UploadEbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		format  string
	}{
		{name: "pdf", file: "go.pdf", content: "%PDF-1.7", format: "pdf"},
		{name: "upper case extension", file: "Dune.EPUB", content: "epub", format: "epub"},
		{name: "mobi", file: "book.mobi", content: "mobi", format: "mobi"},
		{name: "wrong format", file: "notes.txt", content: "text", wantErr: errs.ErrValidation},
		{name: "no extension", file: "book", content: "x", wantErr: errs.ErrValidation},
		{name: "empty", file: "empty.pdf", wantErr: errs.ErrValidation},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			e, err := f.svc.UploadEbook(ctx, model.EbookUpload{
				Title: " Title ", Author: "Author", Category: "Programming", FileName: tt.file,
			}, strings.NewReader(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.format, e.Format)
			require.Equal(t, "Title", e.Title)
			require.EqualValues(t, len(tt.content), e.Size)
			require.NotEmpty(t, e.ID)
		})
	}

	list, err := f.svc.ListEbooks(ctx, "Programming")
	require.NoError(t, err)
	require.Equal(t, 3, list.Total)
	list, err = f.svc.ListEbooks(ctx, "Fiction")
	require.NoError(t, err)
	require.Zero(t, list.Total)
}

func TestService_UploadEbookTooLarge(t *testing.T) {
	f := newFixture(t)
	big := io.LimitReader(zeroReader{}, MaxEbookSize+1)
	_, err := f.svc.UploadEbook(context.Background(), model.EbookUpload{
		Title: "Big", Author: "A", Category: "C", FileName: "big.pdf",
	}, big)
	require.ErrorIs(t, err, errs.ErrValidation)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

func TestService_OpenEbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	content := strings.Repeat("x", 3<<19)
	e, err := f.svc.UploadEbook(ctx, model.EbookUpload{Title: "Dune", Author: "Frank Herbert", Category: "Fiction", FileName: "dune.epub"}, strings.NewReader(content))
	require.NoError(t, err)
	require.Equal(t, "1.5", e.SizeMB.String())

	got, rc, err := f.svc.OpenEbook(ctx, e.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
	require.Equal(t, "Dune.epub", got.FileName())

	_, _, err = f.svc.OpenEbook(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestService_EbooksDisabled(t *testing.T) {
	svc := NewService(memory.New(), &mailBox{}, zap.NewNop())
	_, err := svc.ListEbooks(context.Background(), "")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

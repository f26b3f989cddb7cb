package service

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxEbookSize bounds a single upload.
const MaxEbookSize = 50 << 20

var ebookFormats = map[string]struct{}{"pdf": {}, "epub": {}, "mobi": {}}

var bytesPerMB = decimal.NewFromInt(1 << 20)

func withSizeMB(e model.Ebook) model.Ebook {
	e.SizeMB = decimal.NewFromInt(e.Size).DivRound(bytesPerMB, 2)
	return e
}

func (s *Service) ebookStore() (repository.EbookStore, error) {
	if s.ebooks == nil {
		return nil, errors.Wrap(errs.ErrNotFound, "e-books are not enabled")
	}
	return s.ebooks, nil
}

// UploadEbook stores a pdf, epub or mobi file. The format comes from the
// file name extension.
func (s *Service) UploadEbook(ctx context.Context, req model.EbookUpload, content io.Reader) (model.Ebook, error) {
	store, err := s.ebookStore()
	if err != nil {
		return model.Ebook{}, err
	}
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(req.FileName), "."))
	if _, ok := ebookFormats[format]; !ok {
		return model.Ebook{}, errors.Wrap(errs.ErrValidation, "Invalid file format. Allowed: pdf, epub, mobi")
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxEbookSize+1))
	if err != nil {
		return model.Ebook{}, errors.Wrap(err, "read upload")
	}
	switch {
	case len(data) == 0:
		return model.Ebook{}, errors.Wrap(errs.ErrValidation, "file is empty")
	case len(data) > MaxEbookSize:
		return model.Ebook{}, errors.Wrap(errs.ErrValidation, "file is larger than 50 MB")
	}

	e, err := store.CreateEbook(ctx, model.Ebook{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(req.Title),
		Author:   strings.TrimSpace(req.Author),
		Category: strings.TrimSpace(req.Category),
		Format:   format,
	}, bytes.NewReader(data))
	if err != nil {
		return model.Ebook{}, err
	}
	return withSizeMB(e), nil
}

func (s *Service) ListEbooks(ctx context.Context, category string) (model.ListEbooks, error) {
	store, err := s.ebookStore()
	if err != nil {
		return model.ListEbooks{}, err
	}
	items, err := store.ListEbooks(ctx, category)
	if err != nil {
		return model.ListEbooks{}, err
	}
	for i := range items {
		items[i] = withSizeMB(items[i])
	}
	return model.ListEbooks{Items: items, Total: len(items)}, nil
}

// OpenEbook hands back the file for download. The caller closes it.
func (s *Service) OpenEbook(ctx context.Context, id string) (model.Ebook, io.ReadCloser, error) {
	store, err := s.ebookStore()
	if err != nil {
		return model.Ebook{}, nil, err
	}
	e, rc, err := store.OpenEbook(ctx, id)
	if err != nil {
		return model.Ebook{}, nil, err
	}
	return withSizeMB(e), rc, nil
}

package app

import (
	"context"
	"testing"

	"github.com/Astemirdum/library-lending/library/config"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMemoryCore(t *testing.T) *Core {
	t.Helper()
	core, err := NewCore(context.Background(), &config.Config{Store: config.StoreMemory}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(core.Close)
	return core
}

func TestSeed(t *testing.T) {
	t.Parallel()
	core := newMemoryCore(t)
	ctx := context.Background()

	var titles []string
	require.NoError(t, Seed(ctx, core, func(id, title string) {
		require.NotEmpty(t, id)
		titles = append(titles, title)
	}))
	require.Len(t, titles, len(sampleBooks))

	books, err := core.Repo.ListBooks(ctx, model.BookFilter{Page: 1, Size: 50})
	require.NoError(t, err)
	require.Len(t, books.Items, len(sampleBooks))
}

func TestCreateAdminAndPromote(t *testing.T) {
	t.Parallel()
	core := newMemoryCore(t)
	ctx := context.Background()

	id, err := CreateAdmin(ctx, core, "Root", "Root@Example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	admin, err := core.Repo.GetUserByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, admin.Role)

	_, err = CreateAdmin(ctx, core, "Short", "short@example.com", "123")
	require.Error(t, err)

	_, err = core.Service.Register(ctx, model.RegisterRequest{Name: "Ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.NoError(t, Promote(ctx, core, "ann@example.com"))
	ann, err := core.Repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, auth.RoleAdmin, ann.Role)
}

func TestNewCore_EbooksWired(t *testing.T) {
	t.Parallel()
	core := newMemoryCore(t)
	list, err := core.Service.ListEbooks(context.Background(), "")
	require.NoError(t, err)
	require.Zero(t, list.Total)
}

package userrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-agent/internal/domain/auth"
)

func TestMemoryRepositoryIdentityUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	user, err := repo.Create(ctx, "admin@example.com", "Admin", "hash")
	require.NoError(t, err)
	_, err = repo.Create(ctx, "admin@example.com", "Other", "hash")
	require.ErrorIs(t, err, auth.ErrEmailExists)

	_, err = repo.UpsertIdentity(ctx, auth.Identity{UserID: user.ID, Provider: "google", ProviderSubject: "sub-1", RefreshToken: "r1"})
	require.NoError(t, err)
	updated, err := repo.UpsertIdentity(ctx, auth.Identity{UserID: user.ID, Provider: "google", ProviderSubject: "sub-1"})
	require.NoError(t, err)
	require.Equal(t, "r1", updated.RefreshToken)

	byUser, ok, err := repo.GetIdentityByUser(ctx, user.ID, "google")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "sub-1", byUser.ProviderSubject)
}

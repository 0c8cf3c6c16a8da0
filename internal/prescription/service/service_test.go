package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authModels "anuragmeds/internal/auth/models"
	"anuragmeds/internal/prescription/models"
	"anuragmeds/internal/prescription/store"
	dErrors "anuragmeds/pkg/domain-errors"
)

const testAdminLimit = 200

func identity(id int64, role authModels.Role) authModels.Identity {
	return authModels.Identity{ID: id, Email: fmt.Sprintf("u%d@example.com", id), Role: role}
}

func anonymous() authModels.Identity {
	return authModels.Identity{}
}

func createRecord(t *testing.T, svc *Service, caller authModels.Identity, fullName string, file []byte) int64 {
	t.Helper()
	req := models.CreateRequest{
		FullName: fullName,
		Phone:    "9876543210",
		Address:  "12 Main St",
	}
	if file != nil {
		req.FileName = "rx.pdf"
		req.FileMime = "application/pdf"
		req.FileData = file
	}
	id, err := svc.Create(context.Background(), caller, req)
	require.NoError(t, err)
	return id
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("binds ownership to the authenticated caller", func(t *testing.T) {
		mem := store.NewInMemory()
		svc := New(mem, testAdminLimit)

		id := createRecord(t, svc, identity(7, authModels.RoleUser), "Alice", nil)

		meta, err := mem.FindMeta(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, meta.UserID)
		assert.Equal(t, int64(7), *meta.UserID)
	})

	t.Run("anonymous submissions stay orphaned", func(t *testing.T) {
		mem := store.NewInMemory()
		svc := New(mem, testAdminLimit)

		id := createRecord(t, svc, anonymous(), "Walk-in", nil)

		meta, err := mem.FindMeta(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, meta.UserID)
	})

	t.Run("requires fullName and phone", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)

		for _, req := range []models.CreateRequest{
			{FullName: "", Phone: "123"},
			{FullName: "Alice", Phone: ""},
			{FullName: "   ", Phone: "   "},
		} {
			_, err := svc.Create(ctx, identity(1, authModels.RoleUser), req)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects anonymous callers", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)

		_, err := svc.List(ctx, anonymous())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("users see only their own records", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		alice := identity(1, authModels.RoleUser)
		bob := identity(2, authModels.RoleUser)

		createRecord(t, svc, alice, "Alice One", nil)
		createRecord(t, svc, bob, "Bob One", nil)
		createRecord(t, svc, alice, "Alice Two", nil)
		createRecord(t, svc, anonymous(), "Walk-in", nil)

		records, err := svc.List(ctx, alice)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, rec := range records {
			require.NotNil(t, rec.UserID)
			assert.Equal(t, alice.ID, *rec.UserID)
		}
	})

	t.Run("admins see everything including orphans, newest first", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)

		first := createRecord(t, svc, identity(1, authModels.RoleUser), "Owned", nil)
		second := createRecord(t, svc, anonymous(), "Orphan", nil)

		records, err := svc.List(ctx, identity(99, authModels.RoleAdmin))
		require.NoError(t, err)
		require.Len(t, records, 2)
		// Ties on created_at fall back to descending id.
		assert.Equal(t, second, records[0].ID)
		assert.Equal(t, first, records[1].ID)
	})

	t.Run("admin listing is capped", func(t *testing.T) {
		svc := New(store.NewInMemory(), 3)
		owner := identity(1, authModels.RoleUser)

		for i := 0; i < 5; i++ {
			createRecord(t, svc, owner, fmt.Sprintf("Record %d", i), nil)
		}

		adminView, err := svc.List(ctx, identity(99, authModels.RoleAdmin))
		require.NoError(t, err)
		assert.Len(t, adminView, 3)

		// Owners are never capped.
		ownerView, err := svc.List(ctx, owner)
		require.NoError(t, err)
		assert.Len(t, ownerView, 5)
	})
}

func TestFetchFile(t *testing.T) {
	ctx := context.Background()
	payload := []byte("%PDF-1.4 fake prescription bytes")

	t.Run("owner gets the exact stored bytes", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		owner := identity(1, authModels.RoleUser)
		id := createRecord(t, svc, owner, "Alice", payload)

		file, err := svc.FetchFile(ctx, id, owner)
		require.NoError(t, err)
		assert.Equal(t, payload, file.Bytes)
		assert.Equal(t, "rx.pdf", file.Name)
		assert.Equal(t, "application/pdf", file.Mime)
	})

	t.Run("admin may fetch any record's file", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		id := createRecord(t, svc, identity(1, authModels.RoleUser), "Alice", payload)

		file, err := svc.FetchFile(ctx, id, identity(99, authModels.RoleAdmin))
		require.NoError(t, err)
		assert.Equal(t, payload, file.Bytes)
	})

	t.Run("another user is forbidden", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		id := createRecord(t, svc, identity(1, authModels.RoleUser), "Alice", payload)

		_, err := svc.FetchFile(ctx, id, identity(2, authModels.RoleUser))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("orphaned records are forbidden to non-admins", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		id := createRecord(t, svc, anonymous(), "Walk-in", payload)

		_, err := svc.FetchFile(ctx, id, identity(1, authModels.RoleUser))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("missing record is not found", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)

		_, err := svc.FetchFile(ctx, 404, identity(1, authModels.RoleUser))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	t.Run("record without a file is not found", func(t *testing.T) {
		svc := New(store.NewInMemory(), testAdminLimit)
		owner := identity(1, authModels.RoleUser)
		id := createRecord(t, svc, owner, "Alice", nil)

		_, err := svc.FetchFile(ctx, id, owner)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/post"
	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryStorage(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewCategoryStorage(db)

	travel := &models.Category{Title: "Travel", Slug: "travel", IsPublished: true}
	require.NoError(t, s.CreateCategory(ctx, travel))
	require.NoError(t, s.CreateCategory(ctx, &models.Category{Title: "Art", Slug: "art"}))

	t.Run("Duplicate slug", func(t *testing.T) {
		err := s.CreateCategory(ctx, &models.Category{Title: "Other", Slug: "travel"})
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Get by slug", func(t *testing.T) {
		got, err := s.GetCategoryBySlug(ctx, "travel")
		require.NoError(t, err)
		assert.Equal(t, travel.ID, got.ID)
		assert.True(t, got.IsPublished)

		_, err = s.GetCategoryBySlug(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("All categories sorted by title", func(t *testing.T) {
		all, err := s.GetAllCategories(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Art", all[0].Title)
		assert.Equal(t, "Travel", all[1].Title)
	})
}

func TestCategoryStorage_DeleteKeepsPosts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewCategoryStorage(db)
	posts := NewPostStorage(db)
	author := createTestUser(t, db, "author")
	c := createTestCategory(t, db, "gone", true)
	p := createTestPost(t, db, author, c, -time.Hour)

	require.NoError(t, s.DeleteCategoryBySlug(ctx, "gone"))

	got, err := posts.GetPostById(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Nil(t, got.Category)

	// пост без категории по-прежнему виден
	visible, total, err := posts.ListPosts(ctx, post.Query{Published: true, Now: now()})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, p.ID, visible[0].ID)

	assert.ErrorIs(t, s.DeleteCategoryBySlug(ctx, "gone"), storage.ErrNotFound)
}

func TestLocationStorage(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewLocationStorage(db)
	posts := NewPostStorage(db)
	author := createTestUser(t, db, "author")

	loc := &models.Location{Name: "Paris", IsPublished: true}
	require.NoError(t, s.CreateLocation(ctx, loc))
	require.NoError(t, s.CreateLocation(ctx, &models.Location{Name: "Berlin"}))

	all, err := s.GetAllLocations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Berlin", all[0].Name)

	p := createTestPost(t, db, author, nil, -time.Hour)
	p.LocationID = &loc.ID
	require.NoError(t, posts.UpdatePost(ctx, p))

	require.NoError(t, s.DeleteLocationById(ctx, loc.ID))

	got, err := posts.GetPostById(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.LocationID)
	assert.Nil(t, got.Location)

	assert.ErrorIs(t, s.DeleteLocationById(ctx, loc.ID), storage.ErrNotFound)
}

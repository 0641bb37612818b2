package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/blogicum/internal/storage"
	"github.com/VitaminP8/blogicum/internal/user"
	"github.com/VitaminP8/blogicum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStorage_RegisterUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful user registration", func(t *testing.T) {
		s := NewUserStorage(setupTestDB(t))

		u, err := s.RegisterUser(ctx, "testuser", "password123")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.Equal(t, "testuser", u.Username)
		assert.NotEqual(t, "password123", u.Password, "password must be hashed")
	})

	t.Run("Register user with duplicate username", func(t *testing.T) {
		s := NewUserStorage(setupTestDB(t))

		_, err := s.RegisterUser(ctx, "duplicateuser", "password123")
		require.NoError(t, err)

		_, err = s.RegisterUser(ctx, "duplicateuser", "anotherpassword")
		assert.ErrorIs(t, err, storage.ErrConflict)
		assert.Contains(t, err.Error(), "already exists")
	})
}

func TestUserStorage_LoginUser(t *testing.T) {
	ctx := context.Background()
	s := NewUserStorage(setupTestDB(t))
	_, err := s.RegisterUser(ctx, "loginuser", "loginpassword123")
	require.NoError(t, err)

	t.Run("Successful login", func(t *testing.T) {
		u, err := s.LoginUser(ctx, "loginuser", "loginpassword123")
		require.NoError(t, err)
		assert.Equal(t, "loginuser", u.Username)
	})

	t.Run("Wrong password", func(t *testing.T) {
		u, err := s.LoginUser(ctx, "loginuser", "wrong")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		u, err := s.LoginUser(ctx, "nobody", "loginpassword123")
		assert.Nil(t, u)
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	})
}

func TestUserStorage_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewUserStorage(db)
	alice := createTestUser(t, db, "alice")
	createTestUser(t, db, "bob")

	t.Run("Updates fields", func(t *testing.T) {
		alice.FirstName = "Alice"
		alice.LastName = "Liddell"
		alice.Email = "alice@example.com"
		alice.Username = "alice2"
		require.NoError(t, s.UpdateProfile(ctx, alice))

		got, err := s.GetUserByUsername(ctx, "alice2")
		require.NoError(t, err)
		assert.Equal(t, "Alice Liddell", got.FullName())
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("Username taken by another user", func(t *testing.T) {
		alice.Username = "bob"
		err := s.UpdateProfile(ctx, alice)
		assert.ErrorIs(t, err, storage.ErrConflict)
	})

	t.Run("Get by id", func(t *testing.T) {
		got, err := s.GetUserById(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", got.Username)

		_, err = s.GetUserById(ctx, 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestUserStorage_DeleteUser(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	s := NewUserStorage(db)
	posts := NewPostStorage(db)
	comments := NewCommentStorage(db)

	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	authorPost := createTestPost(t, db, author, nil, -time.Hour)
	readerPost := createTestPost(t, db, reader, nil, -time.Hour)

	onAuthorPost := &models.Comment{Text: "reader on author", PostID: authorPost.ID, AuthorID: reader.ID}
	onReaderPost := &models.Comment{Text: "author on reader", PostID: readerPost.ID, AuthorID: author.ID}
	readerOwn := &models.Comment{Text: "reader on reader", PostID: readerPost.ID, AuthorID: reader.ID}
	for _, c := range []*models.Comment{onAuthorPost, onReaderPost, readerOwn} {
		require.NoError(t, comments.CreateComment(ctx, c))
	}

	require.NoError(t, s.DeleteUser(ctx, author.ID))

	_, err := posts.GetPostById(ctx, authorPost.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = comments.GetCommentById(ctx, onAuthorPost.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = comments.GetCommentById(ctx, onReaderPost.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// чужие данные остаются
	_, err = posts.GetPostById(ctx, readerPost.ID)
	assert.NoError(t, err)
	_, err = comments.GetCommentById(ctx, readerOwn.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.DeleteUser(ctx, author.ID), storage.ErrNotFound)
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-project/backend/internal/service"
	"github.com/foodgram-project/backend/internal/testhelpers"
)

func TestFollow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, user.ID, author.ID))
	assert.ErrorIs(t, svc.Follow(ctx, user.ID, author.ID), service.ErrAlreadyExists)

	subscribed, err := svc.IsSubscribed(ctx, &user.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	// The reverse direction is untouched.
	subscribed, err = svc.IsSubscribed(ctx, &author.ID, user.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestFollowSelf(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)

	user := testhelpers.CreateTestUser(t, db, "alice")

	err := svc.Follow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, service.ErrSelfFollow)
}

func TestFollowUnknownAuthor(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)

	user := testhelpers.CreateTestUser(t, db, "alice")

	err := svc.Follow(context.Background(), user.ID, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUnfollow(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")

	require.NoError(t, svc.Follow(ctx, user.ID, author.ID))
	require.NoError(t, svc.Unfollow(ctx, user.ID, author.ID))
	assert.ErrorIs(t, svc.Unfollow(ctx, user.ID, author.ID), service.ErrNotFound)
}

func TestIsSubscribedAnonymous(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)

	author := testhelpers.CreateTestUser(t, db, "bob")

	subscribed, err := svc.IsSubscribed(context.Background(), nil, author.ID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestSubscriptions(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)
	ctx := context.Background()

	user := testhelpers.CreateTestUser(t, db, "alice")
	author := testhelpers.CreateTestUser(t, db, "bob")
	other := testhelpers.CreateTestUser(t, db, "carol")

	for _, name := range []string{"Pancakes", "Waffles", "Crepes"} {
		testhelpers.CreateTestRecipe(t, db, author.ID, name)
	}

	require.NoError(t, svc.Follow(ctx, user.ID, author.ID))
	require.NoError(t, svc.Follow(ctx, user.ID, other.ID))

	subs, total, err := svc.Subscriptions(ctx, user.ID, 2, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, subs, 2)

	for _, sub := range subs {
		switch sub.Author.ID {
		case author.ID:
			// The preview is capped but the count is not.
			assert.Len(t, sub.Recipes, 2)
			assert.Equal(t, int64(3), sub.RecipesCount)
		case other.ID:
			assert.Empty(t, sub.Recipes)
			assert.Equal(t, int64(0), sub.RecipesCount)
		default:
			t.Fatalf("unexpected author %s in subscriptions", sub.Author.ID)
		}
	}
}

func TestListUsers(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := service.NewUserService(db)

	testhelpers.CreateTestUser(t, db, "carol")
	testhelpers.CreateTestUser(t, db, "alice")
	testhelpers.CreateTestUser(t, db, "bob")

	users, total, err := svc.ListUsers(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
}

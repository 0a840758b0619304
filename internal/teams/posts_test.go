package teams

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePostRequiresTeam(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	user := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	_, err := service.CreatePost(user.ID, event.ID, "Hi", "Looking for teammates")
	assert.ErrorIs(t, err, ErrNotJoinedEvent)

	require.NoError(t, service.JoinEvent(user.ID, event.ID))

	_, err = service.CreatePost(user.ID, event.ID, "Hi", "Looking for teammates")
	assert.ErrorIs(t, err, ErrNotInTeam)

	team, err := service.CreateTeam(user.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	post, err := service.CreatePost(user.ID, event.ID, "Hi", "Looking for teammates")
	require.NoError(t, err)
	assert.Equal(t, team.ID, post.TeamID)
	assert.Equal(t, user.ID, post.AuthorID)
}

func TestPostLifecycle(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	author := createUser(t, database, 1)
	other := createUser(t, database, 2)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(author.ID, event.ID))

	_, err := service.CreateTeam(author.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	post, err := service.CreatePost(author.ID, event.ID, "Hi", "original")
	require.NoError(t, err)

	// Only the author may edit or delete.
	_, err = service.UpdatePost(other.ID, post.ID, "Nope", "nope")
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.ErrorIs(t, service.DeletePost(other.ID, post.ID), ErrPostNotFound)

	updated, err := service.UpdatePost(author.ID, post.ID, "Hello", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	posts, err := service.ListPosts()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	require.NoError(t, service.DeletePost(author.ID, post.ID))

	posts, err = service.ListPosts()
	require.NoError(t, err)
	assert.Empty(t, posts)

	// Deleting twice reports not found.
	assert.ErrorIs(t, service.DeletePost(author.ID, post.ID), ErrPostNotFound)
}

func TestPostSurvivesAuthorLeaving(t *testing.T) {
	database := setupTestDB(t)
	service := NewService(database)

	author := createUser(t, database, 1)
	event := createEvent(t, database, "Hackathon")

	require.NoError(t, service.JoinEvent(author.ID, event.ID))

	_, err := service.CreateTeam(author.ID, event.ID, "Alpha", "")
	require.NoError(t, err)

	_, err = service.CreatePost(author.ID, event.ID, "Hi", "still here")
	require.NoError(t, err)

	require.NoError(t, service.LeaveTeam(author.ID, event.ID))

	posts, err := service.ListPosts()
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

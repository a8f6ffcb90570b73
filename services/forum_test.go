package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhub/hobbyhub/models"
)

func TestValidateContent(t *testing.T) {
	_, err := ValidateContent("")
	assert.ErrorIs(t, err, ErrContentRequired)

	_, err = ValidateContent("   \t\n ")
	assert.ErrorIs(t, err, ErrContentRequired)

	got, err := ValidateContent(" a ")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	got, err = ValidateContent(strings.Repeat("x", MaxPostContentLength))
	require.NoError(t, err)
	assert.Len(t, got, MaxPostContentLength)

	_, err = ValidateContent(strings.Repeat("x", MaxPostContentLength+1))
	assert.ErrorIs(t, err, ErrContentTooLong)
}

func TestCreatePost(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	post, err := svc.CreatePost(ctx, hobby.ID, user.ID, "  first post  ")
	require.NoError(t, err)
	assert.Equal(t, "first post", post.Content)
	assert.Nil(t, post.ParentPostID)

	_, err = svc.CreatePost(ctx, hobby.ID+99, user.ID, "orphan")
	assert.ErrorIs(t, err, ErrHobbyNotFound)
}

func TestCreateReply(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")
	parent, err := svc.CreatePost(ctx, hobby.ID, user.ID, "parent")
	require.NoError(t, err)

	reply, err := svc.CreateReply(ctx, hobby.ID, parent.ID, user.ID, "reply")
	require.NoError(t, err)
	require.NotNil(t, reply.ParentPostID)
	assert.Equal(t, parent.ID, *reply.ParentPostID)
}

func TestCreateReplyParentMustBelongToHobby(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	painting := createHobby(t, db, "Painting", "Creative")
	hiking := createHobby(t, db, "Hiking", "Outdoor")
	parent, err := svc.CreatePost(ctx, painting.ID, user.ID, "parent")
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, hiking.ID, parent.ID, user.ID, "wrong hobby")
	assert.ErrorIs(t, err, ErrParentPostNotFound)

	_, err = svc.CreateReply(ctx, painting.ID, parent.ID+99, user.ID, "missing parent")
	assert.ErrorIs(t, err, ErrParentPostNotFound)

	_, err = svc.CreateReply(ctx, painting.ID+99, parent.ID, user.ID, "missing hobby")
	assert.ErrorIs(t, err, ErrHobbyNotFound)
}

func TestCreateReplyRejectsReplyParent(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")
	parent, err := svc.CreatePost(ctx, hobby.ID, user.ID, "parent")
	require.NoError(t, err)
	reply, err := svc.CreateReply(ctx, hobby.ID, parent.ID, user.ID, "reply")
	require.NoError(t, err)

	_, err = svc.CreateReply(ctx, hobby.ID, reply.ID, user.ID, "nested")
	assert.ErrorIs(t, err, ErrParentPostNotFound)
}

func TestListThreadOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := createPost(t, db, user, hobby, "older", base, nil)
	newer := createPost(t, db, user, hobby, "newer", base.Add(time.Hour), nil)
	lateReply := createPost(t, db, user, hobby, "late reply", base.Add(2*time.Hour), &older.ID)
	earlyReply := createPost(t, db, user, hobby, "early reply", base.Add(time.Minute), &older.ID)

	thread, err := svc.ListThread(ctx, hobby.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)

	// Top-level newest first, replies oldest first.
	assert.Equal(t, newer.ID, thread[0].ID)
	assert.Equal(t, older.ID, thread[1].ID)
	require.Len(t, thread[1].Replies, 2)
	assert.Equal(t, earlyReply.ID, thread[1].Replies[0].ID)
	assert.Equal(t, lateReply.ID, thread[1].Replies[1].ID)
	assert.Equal(t, "alice", thread[0].UserName)
}

func TestListThreadUnknownHobby(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)

	_, err := svc.ListThread(context.Background(), 42)
	assert.ErrorIs(t, err, ErrHobbyNotFound)
}

func TestDeletePostCascadesReplies(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	doomed := createPost(t, db, user, hobby, "doomed", base, nil)
	createPost(t, db, user, hobby, "reply one", base.Add(time.Minute), &doomed.ID)
	createPost(t, db, user, hobby, "reply two", base.Add(2*time.Minute), &doomed.ID)
	survivor := createPost(t, db, user, hobby, "survivor", base.Add(time.Hour), nil)
	survivorReply := createPost(t, db, user, hobby, "survivor reply", base.Add(2*time.Hour), &survivor.ID)

	_, err := svc.DeletePost(ctx, hobby.ID, doomed.ID)
	require.NoError(t, err)

	var remaining []models.ForumPost
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)

	thread, err := svc.ListThread(ctx, hobby.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, survivor.ID, thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, survivorReply.ID, thread[0].Replies[0].ID)
}

func TestDeleteReplyLeavesSiblings(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	parent := createPost(t, db, user, hobby, "parent", base, nil)
	doomed := createPost(t, db, user, hobby, "doomed reply", base.Add(time.Minute), &parent.ID)
	sibling := createPost(t, db, user, hobby, "sibling reply", base.Add(2*time.Minute), &parent.ID)

	_, err := svc.DeletePost(ctx, hobby.ID, doomed.ID)
	require.NoError(t, err)

	thread, err := svc.ListThread(ctx, hobby.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, sibling.ID, thread[0].Replies[0].ID)
}

func TestDeletePostScopedToHobby(t *testing.T) {
	db := newTestDB(t)
	svc := NewForumService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	painting := createHobby(t, db, "Painting", "Creative")
	hiking := createHobby(t, db, "Hiking", "Outdoor")
	post := createPost(t, db, user, painting, "post", time.Now().UTC(), nil)

	_, err := svc.DeletePost(ctx, hiking.ID, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

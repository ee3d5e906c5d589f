package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prensa-cms/prensa/pkg/prensa"
	"github.com/prensa-cms/prensa/pkg/prensa/repo/memory"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestUserIDsAreMonotonic(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	first, err := repo.AddUser(ctx, &prensa.User{Username: "a"})
	require.NoError(t, err)
	second, err := repo.AddUser(ctx, &prensa.User{Username: "b"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	// Counters are per entity kind.
	siteID, err := repo.AddSite(ctx, &prensa.Site{Name: "s"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), siteID)
}

func TestGetUserReturnsCopy(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	id, err := repo.AddUser(ctx, &prensa.User{Username: "a", FirstName: "Ada"})
	require.NoError(t, err)

	got, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	got.FirstName = "changed"

	again, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FirstName, "stored state is isolated from callers")
}

func TestGetUserByUsername(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	_, err := repo.AddUser(ctx, &prensa.User{Username: "joana"})
	require.NoError(t, err)

	user, err := repo.GetUserByUsername(ctx, "joana")
	require.NoError(t, err)
	assert.Equal(t, "joana", user.Username)

	_, err = repo.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, prensa.ErrUserNotFound)
}

func TestPostsAreDeepCopied(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	lang := prensa.Language{Code: "pt-br"}
	post := &prensa.Post{
		SiteID: 1,
		Contents: map[string]prensa.Content{
			"pt-br": {
				Title:    "Olá",
				Language: lang,
				Blocks:   []prensa.Block{&prensa.TextBlock{Order: 1, Text: "oi"}},
			},
		},
		DefaultLanguage: lang,
	}
	id, err := repo.AddPost(ctx, post)
	require.NoError(t, err)

	got, err := repo.GetPost(ctx, id)
	require.NoError(t, err)
	got.Contents["pt-br"].Blocks[0].(*prensa.TextBlock).Text = "mutated"
	got.Contents["en-us"] = prensa.Content{Title: "Hello"}

	again, err := repo.GetPost(ctx, id)
	require.NoError(t, err)
	content := again.Contents["pt-br"]
	assert.Equal(t, "oi", content.Blocks[0].(*prensa.TextBlock).Text)
	assert.False(t, again.HasLanguage("en-us"))
}

func TestListVisiblePostsEvaluatesAtReadTime(t *testing.T) {
	clock := newFakeClock()
	repo := memory.New(memory.WithClock(clock))
	ctx := context.Background()

	_, err := repo.AddPost(ctx, &prensa.Post{
		SiteID:      1,
		ScheduledTo: clock.Now().Add(time.Hour),
		Contents:    map[string]prensa.Content{},
	})
	require.NoError(t, err)
	_, err = repo.AddPost(ctx, &prensa.Post{
		SiteID:      1,
		ScheduledTo: clock.Now(),
		Contents:    map[string]prensa.Content{},
	})
	require.NoError(t, err)

	posts, err := repo.ListVisiblePosts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	clock.Advance(2 * time.Hour)

	posts, err = repo.ListVisiblePosts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, posts, 2, "the same call sees the post once it is due")
}

func TestGrantPermissionIsIdempotent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	require.NoError(t, repo.GrantPermission(ctx, 1, 1))
	require.NoError(t, repo.GrantPermission(ctx, 1, 1))
	require.NoError(t, repo.GrantPermission(ctx, 2, 1))

	ok, err := repo.HasPermission(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.HasPermission(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ids, err := repo.SiteManagerIDs(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
}

func TestRemoveMediaIsIdempotent(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	id, err := repo.AddMedia(ctx, &prensa.Media{SiteID: 1, Filename: "a.jpg"})
	require.NoError(t, err)

	require.NoError(t, repo.RemoveMedia(ctx, id))
	require.NoError(t, repo.RemoveMedia(ctx, id))
	require.NoError(t, repo.RemoveMedia(ctx, 999))

	_, err = repo.GetMedia(ctx, id)
	assert.ErrorIs(t, err, prensa.ErrMediaNotFound)
}

func TestRecentEntriesOrderAndClamp(t *testing.T) {
	clock := newFakeClock()
	repo := memory.New(memory.WithClock(clock))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.LogEntry(ctx, &prensa.SiteEntry{
			EntryMeta: prensa.EntryMeta{ActorID: 1, CreatedAt: clock.Now()},
			SiteID:    1,
			Action:    prensa.SiteAccess,
		})
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	entries, err := repo.RecentEntries(ctx, 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, int64(3), entries[0].Meta().ID, "the newest three, oldest first")
	assert.Equal(t, int64(5), entries[2].Meta().ID)

	all, err := repo.RecentEntries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5, "non-positive limit returns everything")

	all, err = repo.RecentEntries(ctx, 50)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestCountActions(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	log := func(entry prensa.Entry) {
		_, err := repo.LogEntry(ctx, entry)
		require.NoError(t, err)
	}

	log(&prensa.SiteEntry{SiteID: 1, Action: prensa.SiteAccess})
	log(&prensa.SiteEntry{SiteID: 1, Action: prensa.SiteAccess})
	log(&prensa.SiteEntry{SiteID: 2, Action: prensa.SiteAccess})
	log(&prensa.PostEntry{SiteID: 1, PostID: 7, Action: prensa.PostView})
	log(&prensa.PostEntry{SiteID: 1, PostID: 8, Action: prensa.PostView})
	log(&prensa.PostEntry{SiteID: 1, PostID: 7, Action: prensa.PostShare})

	n, err := repo.CountSiteActions(ctx, 1, prensa.SiteAccess)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.CountPostActions(ctx, 7, prensa.PostView)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = repo.CountSitePostActions(ctx, 1, prensa.PostView)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpdateSite(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	id, err := repo.AddSite(ctx, &prensa.Site{Name: "s", Template: prensa.TemplateLatestPosts})
	require.NoError(t, err)

	site, err := repo.GetSite(ctx, id)
	require.NoError(t, err)
	site.Template = prensa.TemplateTopViewed
	require.NoError(t, repo.UpdateSite(ctx, site))

	got, err := repo.GetSite(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, prensa.TemplateTopViewed, got.Template)

	err = repo.UpdateSite(ctx, &prensa.Site{ID: 999})
	assert.ErrorIs(t, err, prensa.ErrSiteNotFound)
}

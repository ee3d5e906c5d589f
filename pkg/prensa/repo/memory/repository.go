// Package memory provides an in-memory repository implementation.
// All data is stored in maps guarded by one mutex and lost when the
// process exits. Useful for development, demos and testing.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

type permissionKey struct {
	userID int64
	siteID int64
}

// repository is an in-memory implementation of prensa.Repository.
type repository struct {
	mu sync.RWMutex

	users       map[int64]*prensa.User
	sites       map[int64]*prensa.Site
	posts       map[int64]*prensa.Post
	comments    map[int64]*prensa.Comment
	media       map[int64]*prensa.Media
	permissions map[permissionKey]*prensa.Permission
	entries     []prensa.Entry

	userSeq    int64
	siteSeq    int64
	postSeq    int64
	commentSeq int64
	mediaSeq   int64
	entrySeq   int64

	clock prensa.Clock
}

// Option configures the repository.
type Option func(*repository)

// WithClock sets the clock used for read-time post visibility.
func WithClock(clock prensa.Clock) Option {
	return func(r *repository) {
		r.clock = clock
	}
}

// New creates a new empty in-memory repository.
func New(options ...Option) prensa.Repository {
	r := &repository{
		users:       make(map[int64]*prensa.User),
		sites:       make(map[int64]*prensa.Site),
		posts:       make(map[int64]*prensa.Post),
		comments:    make(map[int64]*prensa.Comment),
		media:       make(map[int64]*prensa.Media),
		permissions: make(map[permissionKey]*prensa.Permission),
		clock:       prensa.SystemClock(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// User operations

func (r *repository) AddUser(ctx context.Context, user *prensa.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.userSeq++
	user.ID = r.userSeq

	stored := *user
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *repository) GetUser(ctx context.Context, id int64) (*prensa.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, prensa.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (r *repository) GetUserByUsername(ctx context.Context, username string) (*prensa.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, prensa.ErrUserNotFound
}

func (r *repository) ListUsers(ctx context.Context) ([]*prensa.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*prensa.User, 0, len(r.users))
	for _, user := range r.users {
		result := *user
		users = append(users, &result)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// Site operations

func (r *repository) AddSite(ctx context.Context, site *prensa.Site) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.siteSeq++
	site.ID = r.siteSeq

	stored := *site
	r.sites[stored.ID] = &stored
	return stored.ID, nil
}

func (r *repository) GetSite(ctx context.Context, id int64) (*prensa.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	site, ok := r.sites[id]
	if !ok {
		return nil, prensa.ErrSiteNotFound
	}
	result := *site
	return &result, nil
}

func (r *repository) UpdateSite(ctx context.Context, site *prensa.Site) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sites[site.ID]; !ok {
		return prensa.ErrSiteNotFound
	}
	stored := *site
	r.sites[stored.ID] = &stored
	return nil
}

func (r *repository) ListSites(ctx context.Context) ([]*prensa.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := make([]*prensa.Site, 0, len(r.sites))
	for _, site := range r.sites {
		result := *site
		sites = append(sites, &result)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

func (r *repository) ListSitesByOwner(ctx context.Context, ownerID int64) ([]*prensa.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sites := make([]*prensa.Site, 0)
	for _, site := range r.sites {
		if site.OwnerID == ownerID {
			result := *site
			sites = append(sites, &result)
		}
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].ID < sites[j].ID })
	return sites, nil
}

// Permission operations

func (r *repository) GrantPermission(ctx context.Context, userID, siteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := permissionKey{userID: userID, siteID: siteID}
	if _, ok := r.permissions[key]; ok {
		return nil
	}
	r.permissions[key] = &prensa.Permission{
		UserID:    userID,
		SiteID:    siteID,
		GrantedAt: r.clock.Now(),
	}
	return nil
}

func (r *repository) HasPermission(ctx context.Context, userID, siteID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.permissions[permissionKey{userID: userID, siteID: siteID}]
	return ok, nil
}

func (r *repository) SiteManagerIDs(ctx context.Context, siteID int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0)
	for key := range r.permissions {
		if key.siteID == siteID {
			ids = append(ids, key.userID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Post operations

func (r *repository) AddPost(ctx context.Context, post *prensa.Post) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.postSeq++
	post.ID = r.postSeq

	r.posts[post.ID] = clonePost(post)
	return post.ID, nil
}

func (r *repository) GetPost(ctx context.Context, id int64) (*prensa.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, prensa.ErrPostNotFound
	}
	return clonePost(post), nil
}

func (r *repository) UpdatePost(ctx context.Context, post *prensa.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return prensa.ErrPostNotFound
	}
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *repository) ListVisiblePosts(ctx context.Context, siteID int64) ([]*prensa.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock.Now()
	posts := make([]*prensa.Post, 0)
	for _, post := range r.posts {
		if post.SiteID == siteID && post.Visible(now) {
			posts = append(posts, clonePost(post))
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

// Comment operations

func (r *repository) AddComment(ctx context.Context, comment *prensa.Comment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commentSeq++
	comment.ID = r.commentSeq

	stored := *comment
	r.comments[stored.ID] = &stored
	return stored.ID, nil
}

func (r *repository) ListPostComments(ctx context.Context, postID int64) ([]*prensa.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comments := make([]*prensa.Comment, 0)
	for _, comment := range r.comments {
		if comment.PostID == postID {
			result := *comment
			comments = append(comments, &result)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

// Media operations

func (r *repository) AddMedia(ctx context.Context, media *prensa.Media) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.mediaSeq++
	media.ID = r.mediaSeq

	stored := *media
	r.media[stored.ID] = &stored
	return stored.ID, nil
}

func (r *repository) GetMedia(ctx context.Context, id int64) (*prensa.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media, ok := r.media[id]
	if !ok {
		return nil, prensa.ErrMediaNotFound
	}
	result := *media
	return &result, nil
}

func (r *repository) ListSiteMedia(ctx context.Context, siteID int64) ([]*prensa.Media, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	media := make([]*prensa.Media, 0)
	for _, m := range r.media {
		if m.SiteID == siteID {
			result := *m
			media = append(media, &result)
		}
	}
	sort.Slice(media, func(i, j int) bool { return media[i].ID < media[j].ID })
	return media, nil
}

func (r *repository) RemoveMedia(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.media, id)
	return nil
}

// Analytics operations

func (r *repository) LogEntry(ctx context.Context, entry prensa.Entry) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entrySeq++
	meta := entry.Meta()
	meta.ID = r.entrySeq
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = r.clock.Now()
	}

	r.entries = append(r.entries, cloneEntry(entry))
	return meta.ID, nil
}

func (r *repository) RecentEntries(ctx context.Context, limit int) ([]prensa.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]prensa.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		entries = append(entries, cloneEntry(entry))
	}
	sort.Slice(entries, func(i, j int) bool {
		mi, mj := entries[i].Meta(), entries[j].Meta()
		if mi.CreatedAt.Equal(mj.CreatedAt) {
			return mi.ID < mj.ID
		}
		return mi.CreatedAt.Before(mj.CreatedAt)
	})

	if limit <= 0 || limit >= len(entries) {
		return entries, nil
	}
	return entries[len(entries)-limit:], nil
}

func (r *repository) CountSiteActions(ctx context.Context, siteID int64, action prensa.SiteAction) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.entries {
		if e, ok := entry.(*prensa.SiteEntry); ok && e.SiteID == siteID && e.Action == action {
			count++
		}
	}
	return count, nil
}

func (r *repository) CountPostActions(ctx context.Context, postID int64, action prensa.PostAction) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.entries {
		if e, ok := entry.(*prensa.PostEntry); ok && e.PostID == postID && e.Action == action {
			count++
		}
	}
	return count, nil
}

func (r *repository) CountSitePostActions(ctx context.Context, siteID int64, action prensa.PostAction) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, entry := range r.entries {
		if e, ok := entry.(*prensa.PostEntry); ok && e.SiteID == siteID && e.Action == action {
			count++
		}
	}
	return count, nil
}

// clonePost deep-copies a post so callers never alias stored contents.
func clonePost(post *prensa.Post) *prensa.Post {
	result := *post
	result.Contents = make(map[string]prensa.Content, len(post.Contents))
	for code, content := range post.Contents {
		copied := content
		copied.Blocks = cloneBlocks(content.Blocks)
		result.Contents[code] = copied
	}
	return &result
}

func cloneBlocks(blocks []prensa.Block) []prensa.Block {
	result := make([]prensa.Block, 0, len(blocks))
	for _, block := range blocks {
		switch b := block.(type) {
		case *prensa.TextBlock:
			copied := *b
			result = append(result, &copied)
		case *prensa.MediaBlock:
			copied := *b
			result = append(result, &copied)
		case *prensa.CarouselBlock:
			copied := *b
			copied.MediaIDs = append([]int64(nil), b.MediaIDs...)
			result = append(result, &copied)
		default:
			result = append(result, block)
		}
	}
	return result
}

func cloneEntry(entry prensa.Entry) prensa.Entry {
	switch e := entry.(type) {
	case *prensa.SiteEntry:
		copied := *e
		copied.Metadata = cloneMetadata(e.Metadata)
		return &copied
	case *prensa.PostEntry:
		copied := *e
		copied.Metadata = cloneMetadata(e.Metadata)
		return &copied
	default:
		return entry
	}
}

func cloneMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	result := make(map[string]string, len(metadata))
	for k, v := range metadata {
		result[k] = v
	}
	return result
}

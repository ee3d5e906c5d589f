package prensa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Demo uploads carry fixed dimensions and duration; no file probing is
// done.
const (
	defaultMediaWidth    = 1000
	defaultMediaHeight   = 1000
	defaultMediaDuration = 30 * time.Second
)

// service implements the Service interface
type service struct {
	repo      Repository
	languages *Directory
	clock     Clock
	logger    *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithLanguages sets the supported-language directory
func WithLanguages(dir *Directory) Option {
	return func(s *service) {
		s.languages = dir
	}
}

// WithClock sets the clock used for timestamps and scheduling
func WithClock(clock Clock) Option {
	return func(s *service) {
		s.clock = clock
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		languages: DefaultLanguages(),
		clock:     SystemClock(),
		logger:    slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// User operations

func (s *service) RegisterUser(ctx context.Context, req RegisterUserRequest) (*User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("username is required: %w", ErrInvalidInput)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password is required: %w", ErrInvalidInput)
	}

	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, fmt.Errorf("username %q already taken: %w", req.Username, ErrInvalidInput)
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if _, err := s.repo.AddUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListUsers(ctx)
}

// Site operations

func (s *service) CreateSite(ctx context.Context, req CreateSiteRequest) (*Site, error) {
	owner, err := s.repo.GetUser(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("site name is required: %w", ErrInvalidInput)
	}

	template := req.Template
	if template == "" {
		template = TemplateLatestPosts
	}
	if !template.IsValid() {
		return nil, fmt.Errorf("unknown site template %q: %w", template, ErrInvalidInput)
	}

	site := &Site{
		OwnerID:     owner.ID,
		Name:        req.Name,
		Description: req.Description,
		Template:    template,
		CreatedAt:   s.clock.Now(),
	}
	if _, err := s.repo.AddSite(ctx, site); err != nil {
		return nil, err
	}

	// The owner implicitly manages the new site.
	if err := s.repo.GrantPermission(ctx, owner.ID, site.ID); err != nil {
		return nil, &SiteError{SiteID: site.ID, Op: "grant_owner", Err: err}
	}

	s.logger.Info("site created", "site_id", site.ID, "owner_id", owner.ID)
	return site, nil
}

func (s *service) GetSite(ctx context.Context, id int64) (*Site, error) {
	return s.repo.GetSite(ctx, id)
}

func (s *service) ListSites(ctx context.Context) ([]*Site, error) {
	return s.repo.ListSites(ctx)
}

func (s *service) ListUserSites(ctx context.Context, ownerID int64) ([]*Site, error) {
	return s.repo.ListSitesByOwner(ctx, ownerID)
}

func (s *service) UpdateSiteTemplate(ctx context.Context, siteID int64, template SiteTemplate) error {
	if !template.IsValid() {
		return fmt.Errorf("unknown site template %q: %w", template, ErrInvalidInput)
	}
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return err
	}
	site.Template = template
	if err := s.repo.UpdateSite(ctx, site); err != nil {
		return &SiteError{SiteID: siteID, Op: "update_template", Err: err}
	}
	return nil
}

func (s *service) AccessSite(ctx context.Context, userID, siteID int64) (*Site, error) {
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	s.logSite(ctx, userID, siteID, SiteAccess, nil)
	return site, nil
}

// Permission operations

func (s *service) GrantManager(ctx context.Context, req GrantManagerRequest) error {
	site, err := s.repo.GetSite(ctx, req.SiteID)
	if err != nil {
		return err
	}
	if site.OwnerID != req.GrantedBy {
		return fmt.Errorf("only the site owner may grant management: %w", ErrPermissionDenied)
	}
	if _, err := s.repo.GetUser(ctx, req.UserID); err != nil {
		return err
	}
	return s.repo.GrantPermission(ctx, req.UserID, req.SiteID)
}

func (s *service) HasPermission(ctx context.Context, userID, siteID int64) (bool, error) {
	return s.repo.HasPermission(ctx, userID, siteID)
}

func (s *service) UsersWithoutPermission(ctx context.Context, siteID int64) ([]*User, error) {
	if _, err := s.repo.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	managerIDs, err := s.repo.SiteManagerIDs(ctx, siteID)
	if err != nil {
		return nil, err
	}
	managers := make(map[int64]bool, len(managerIDs))
	for _, id := range managerIDs {
		managers[id] = true
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	remaining := make([]*User, 0, len(users))
	for _, u := range users {
		if !managers[u.ID] {
			remaining = append(remaining, u)
		}
	}
	return remaining, nil
}

// Post operations

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	site, err := s.repo.GetSite(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, req.PosterID, site.ID); err != nil {
		return nil, err
	}

	lang, err := s.resolveOrAdHoc(req.LanguageCode)
	if err != nil {
		return nil, err
	}

	blocks, err := s.buildBlocks(ctx, site.ID, req.Blocks)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	scheduledTo := now
	if req.ScheduledTo != nil {
		scheduledTo = *req.ScheduledTo
	}

	post := &Post{
		PosterID: req.PosterID,
		SiteID:   site.ID,
		Contents: map[string]Content{
			lang.Code: {Title: req.Title, Blocks: blocks, Language: lang},
		},
		DefaultLanguage: lang,
		ScheduledTo:     scheduledTo,
		CreatedAt:       now,
	}
	if _, err := s.repo.AddPost(ctx, post); err != nil {
		return nil, &SiteError{SiteID: site.ID, Op: "create_post", Err: err}
	}

	s.logSite(ctx, req.PosterID, site.ID, SiteCreatePost, map[string]string{
		"post_id": strconv.FormatInt(post.ID, 10),
	})
	return post, nil
}

// buildBlocks assembles content blocks from authoring input, assigning
// sequential orders starting at 1. Media blocks must reference media
// from the post's own site.
func (s *service) buildBlocks(ctx context.Context, siteID int64, inputs []BlockInput) ([]Block, error) {
	blocks := make([]Block, 0, len(inputs))
	for i, in := range inputs {
		order := i + 1
		switch in.Kind {
		case BlockText:
			blocks = append(blocks, &TextBlock{Order: order, Text: in.Text})
		case BlockMedia:
			media, err := s.repo.GetMedia(ctx, in.MediaID)
			if err != nil {
				return nil, err
			}
			if media.SiteID != siteID {
				return nil, fmt.Errorf("media %d belongs to another site: %w", in.MediaID, ErrMediaNotFound)
			}
			blocks = append(blocks, &MediaBlock{
				Order:    order,
				MediaID:  media.ID,
				Filename: media.Filename,
				Kind:     media.Kind,
				Alt:      in.Alt,
			})
		default:
			return nil, fmt.Errorf("unknown block kind %q: %w", in.Kind, ErrInvalidInput)
		}
	}
	return blocks, nil
}

func (s *service) GetPost(ctx context.Context, id int64) (*Post, error) {
	return s.repo.GetPost(ctx, id)
}

func (s *service) ViewPost(ctx context.Context, userID, postID int64) (*Post, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	s.logPost(ctx, userID, post, PostView, nil)
	return post, nil
}

// PostContent resolves a post's content by free-form language code
// without recording a view. An empty code picks the default language.
func (s *service) PostContent(ctx context.Context, postID int64, languageCode string) (Content, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return Content{}, err
	}
	return s.contentByCode(post, languageCode)
}

func (s *service) ListSitePosts(ctx context.Context, siteID int64) ([]*Post, error) {
	if _, err := s.repo.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.repo.ListVisiblePosts(ctx, siteID)
}

// ArrangePosts orders a site's visible posts according to its template.
func (s *service) ArrangePosts(ctx context.Context, siteID int64) ([]*Post, error) {
	site, err := s.repo.GetSite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	posts, err := s.repo.ListVisiblePosts(ctx, siteID)
	if err != nil {
		return nil, err
	}

	switch site.Template {
	case TemplateTopViewed:
		return s.sortByAction(ctx, posts, PostView)
	case TemplateTopCommented:
		return s.sortByAction(ctx, posts, PostComment)
	case TemplateMediaGallery:
		sortByLatest(posts)
		sort.SliceStable(posts, func(i, j int) bool {
			return hasMediaBlock(posts[i]) && !hasMediaBlock(posts[j])
		})
		return posts, nil
	default:
		sortByLatest(posts)
		return posts, nil
	}
}

func (s *service) sortByAction(ctx context.Context, posts []*Post, action PostAction) ([]*Post, error) {
	counts := make(map[int64]int, len(posts))
	for _, p := range posts {
		n, err := s.repo.CountPostActions(ctx, p.ID, action)
		if err != nil {
			return nil, err
		}
		counts[p.ID] = n
	}
	sortByLatest(posts)
	sort.SliceStable(posts, func(i, j int) bool {
		return counts[posts[i].ID] > counts[posts[j].ID]
	})
	return posts, nil
}

func sortByLatest(posts []*Post) {
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func hasMediaBlock(post *Post) bool {
	content, ok := post.DefaultContent()
	if !ok {
		return false
	}
	_, ok = content.FirstMedia()
	return ok
}

func (s *service) TranslatePost(ctx context.Context, req TranslatePostRequest) (*TranslationResult, error) {
	post, err := s.repo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, req.RequesterID, post.SiteID); err != nil {
		return nil, err
	}

	lang, err := s.resolveOrAdHoc(req.TargetCode)
	if err != nil {
		return nil, err
	}
	if post.HasLanguage(lang.Code) && !req.Overwrite {
		return nil, fmt.Errorf("post %d already has %q content: %w", post.ID, lang.Code, ErrTranslationExists)
	}

	// Pairing runs against the current default language, which is not
	// necessarily the originally authored one.
	source, ok := post.DefaultContent()
	if !ok {
		return nil, &PostError{PostID: post.ID, Op: "translate", Err: ErrNoLanguage}
	}

	result := &TranslationResult{Language: lang}
	translated := make([]Block, 0, len(source.Blocks))
	for _, block := range source.Blocks {
		tr := req.Blocks[block.BlockOrder()]
		switch src := block.(type) {
		case *TextBlock:
			text := src.Text
			if tr.Text != "" {
				text = tr.Text
			}
			translated = append(translated, &TextBlock{Order: src.Order, Text: text})
		case *MediaBlock:
			alt := src.Alt
			if tr.Alt != "" {
				alt = tr.Alt
			}
			copied := *src
			copied.Alt = alt
			translated = append(translated, &copied)
		default:
			// No translatable form; reported, never fatal.
			result.Skipped = append(result.Skipped, block.BlockOrder())
		}
	}

	post.Contents[lang.Code] = Content{Title: req.Title, Blocks: translated, Language: lang}
	if err := s.repo.UpdatePost(ctx, post); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "translate", Err: err}
	}
	return result, nil
}

func (s *service) MissingLanguages(ctx context.Context, postID int64) ([]Language, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.languages.MissingFor(post), nil
}

// Comment operations

func (s *service) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error) {
	post, err := s.repo.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetUser(ctx, req.CommenterID); err != nil {
		return nil, err
	}

	comment := &Comment{
		PostID:      post.ID,
		CommenterID: req.CommenterID,
		Body:        req.Body,
		CreatedAt:   s.clock.Now(),
	}
	if _, err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, &PostError{PostID: post.ID, Op: "comment", Err: err}
	}

	s.logPost(ctx, req.CommenterID, post, PostComment, map[string]string{
		"comment_id": strconv.FormatInt(comment.ID, 10),
	})
	return comment, nil
}

func (s *service) ListPostComments(ctx context.Context, postID int64) ([]*Comment, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListPostComments(ctx, postID)
}

// Media operations

func (s *service) ImportMedia(ctx context.Context, req ImportMediaRequest) (*Media, error) {
	site, err := s.repo.GetSite(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, req.UploaderID, site.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Path) == "" {
		return nil, fmt.Errorf("media path is required: %w", ErrInvalidInput)
	}

	if _, err := os.Stat(req.Path); err != nil {
		return nil, fmt.Errorf("media file: %w", err)
	}

	ext := filepath.Ext(req.Path)
	kind, err := InferMediaType(ext)
	if err != nil {
		return nil, err
	}

	media := &Media{
		SiteID:     site.ID,
		UploaderID: req.UploaderID,
		Filename:   filepath.Base(req.Path),
		Path:       req.Path,
		StorageKey: uuid.NewString() + strings.ToLower(ext),
		Kind:       kind,
		Width:      defaultMediaWidth,
		Height:     defaultMediaHeight,
		CreatedAt:  s.clock.Now(),
	}
	if kind == MediaVideo {
		media.Duration = defaultMediaDuration
	}
	if _, err := s.repo.AddMedia(ctx, media); err != nil {
		return nil, &SiteError{SiteID: site.ID, Op: "import_media", Err: err}
	}

	s.logSite(ctx, req.UploaderID, site.ID, SiteUploadMedia, map[string]string{
		"media_id": strconv.FormatInt(media.ID, 10),
	})
	return media, nil
}

func (s *service) ListSiteMedia(ctx context.Context, siteID int64) ([]*Media, error) {
	if _, err := s.repo.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.repo.ListSiteMedia(ctx, siteID)
}

// DeleteMedia requires a management grant on the media's site, not
// uploader ownership. Deleting an already absent media is a no-op.
func (s *service) DeleteMedia(ctx context.Context, userID, mediaID int64) error {
	media, err := s.repo.GetMedia(ctx, mediaID)
	if err != nil {
		if errors.Is(err, ErrMediaNotFound) {
			return nil
		}
		return err
	}
	if err := s.requirePermission(ctx, userID, media.SiteID); err != nil {
		return err
	}
	return s.repo.RemoveMedia(ctx, mediaID)
}

// Sharing operations

func (s *service) SuggestShare(ctx context.Context, postID int64, languageCode string) (string, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return "", err
	}
	return s.formatShare(ctx, post, languageCode)
}

func (s *service) SharePost(ctx context.Context, req SharePostRequest) (string, error) {
	post, err := s.repo.GetPost(ctx, req.PostID)
	if err != nil {
		return "", err
	}
	message, err := s.formatShare(ctx, post, req.LanguageCode)
	if err != nil {
		return "", err
	}

	// Validate the full selection before logging anything; entries are
	// append-only, so a late failure must not leave partial shares.
	for _, network := range req.Networks {
		if !network.IsValid() {
			return "", fmt.Errorf("unknown social network %q: %w", network, ErrInvalidInput)
		}
	}
	for _, network := range req.Networks {
		s.logPost(ctx, req.UserID, post, PostShare, map[string]string{
			"shared_to": string(network),
		})
	}
	return message, nil
}

func (s *service) formatShare(ctx context.Context, post *Post, languageCode string) (string, error) {
	content, err := s.contentByCode(post, languageCode)
	if err != nil {
		return "", err
	}
	poster, err := s.repo.GetUser(ctx, post.PosterID)
	if err != nil {
		return "", err
	}
	site, err := s.repo.GetSite(ctx, post.SiteID)
	if err != nil {
		return "", err
	}
	return SocialMessage(post, content, poster, site), nil
}

// contentByCode picks a post's content by free-form code: empty means
// the default language, known codes resolve through the directory, and
// codes authored ad hoc match their raw form.
func (s *service) contentByCode(post *Post, code string) (Content, error) {
	if code == "" {
		content, ok := post.DefaultContent()
		if !ok {
			return Content{}, &PostError{PostID: post.ID, Op: "render", Err: ErrNoLanguage}
		}
		return content, nil
	}
	if lang, err := s.languages.Resolve(code); err == nil {
		if content, ok := post.ContentFor(lang); ok {
			return content, nil
		}
	}
	if content, ok := post.Contents[code]; ok {
		return content, nil
	}
	return Content{}, fmt.Errorf("post %d has no %q content: %w", post.ID, code, ErrLanguageNotFound)
}

// Analytics operations

func (s *service) SiteStats(ctx context.Context, siteID int64) (*SiteStats, error) {
	if _, err := s.repo.GetSite(ctx, siteID); err != nil {
		return nil, err
	}

	stats := &SiteStats{}
	var err error
	if stats.Accesses, err = s.repo.CountSiteActions(ctx, siteID, SiteAccess); err != nil {
		return nil, err
	}
	if stats.PostsCreated, err = s.repo.CountSiteActions(ctx, siteID, SiteCreatePost); err != nil {
		return nil, err
	}
	if stats.MediaUploads, err = s.repo.CountSiteActions(ctx, siteID, SiteUploadMedia); err != nil {
		return nil, err
	}
	if stats.PostViews, err = s.repo.CountSitePostActions(ctx, siteID, PostView); err != nil {
		return nil, err
	}
	if stats.PostComments, err = s.repo.CountSitePostActions(ctx, siteID, PostComment); err != nil {
		return nil, err
	}
	if stats.PostShares, err = s.repo.CountSitePostActions(ctx, siteID, PostShare); err != nil {
		return nil, err
	}
	return stats, nil
}

// PostStats is restricted to the site's managers; viewing a post does
// not expose its counters.
func (s *service) PostStats(ctx context.Context, userID, postID int64) (*PostStats, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if err := s.requirePermission(ctx, userID, post.SiteID); err != nil {
		return nil, err
	}

	stats := &PostStats{}
	if stats.Views, err = s.repo.CountPostActions(ctx, postID, PostView); err != nil {
		return nil, err
	}
	if stats.Comments, err = s.repo.CountPostActions(ctx, postID, PostComment); err != nil {
		return nil, err
	}
	if stats.Shares, err = s.repo.CountPostActions(ctx, postID, PostShare); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *service) RecentLogs(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.RecentEntries(ctx, limit)
}

func (s *service) Languages() []Language {
	return s.languages.All()
}

// helpers

func (s *service) requirePermission(ctx context.Context, userID, siteID int64) error {
	ok, err := s.repo.HasPermission(ctx, userID, siteID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %d on site %d: %w", userID, siteID, ErrPermissionDenied)
	}
	return nil
}

// resolveOrAdHoc resolves a code through the directory, falling back
// to an ad-hoc language for unknown codes so authoring never rejects a
// language the directory does not know yet.
func (s *service) resolveOrAdHoc(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, ErrNoLanguage
	}
	if lang, err := s.languages.Resolve(code); err == nil {
		return lang, nil
	}
	return Language{Name: code, Code: code}, nil
}

// Analytics logging never fails the surrounding operation.

func (s *service) logSite(ctx context.Context, actorID, siteID int64, action SiteAction, metadata map[string]string) {
	entry := &SiteEntry{
		EntryMeta: EntryMeta{ActorID: actorID, CreatedAt: s.clock.Now(), Metadata: metadata},
		SiteID:    siteID,
		Action:    action,
	}
	if _, err := s.repo.LogEntry(ctx, entry); err != nil {
		s.logger.Warn("analytics log failed", "action", action, "site_id", siteID, "error", err)
	}
}

func (s *service) logPost(ctx context.Context, actorID int64, post *Post, action PostAction, metadata map[string]string) {
	entry := &PostEntry{
		EntryMeta: EntryMeta{ActorID: actorID, CreatedAt: s.clock.Now(), Metadata: metadata},
		SiteID:    post.SiteID,
		PostID:    post.ID,
		Action:    action,
	}
	if _, err := s.repo.LogEntry(ctx, entry); err != nil {
		s.logger.Warn("analytics log failed", "action", action, "post_id", post.ID, "error", err)
	}
}

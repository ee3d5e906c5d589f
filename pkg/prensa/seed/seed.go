// Package seed populates a service with a small demo fixture for
// development and the interactive console.
package seed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// Fixture exposes the entities created by Load so callers can point
// menus and tests at known ids.
type Fixture struct {
	Admin *prensa.User
	User1 *prensa.User
	User2 *prensa.User

	Site *prensa.Site

	Photo *prensa.Media
	Clip  *prensa.Media

	WelcomePost *prensa.Post
	GalleryPost *prensa.Post
}

var demoFiles = map[string][]byte{
	"sunset.jpg": []byte("demo image payload"),
	"tour.mp4":   []byte("demo video payload"),
}

// Load registers demo users, a site, media, posts and comments. Media
// files are written under mediaDir so imports go through the regular
// path-checking flow.
func Load(ctx context.Context, svc prensa.Service, mediaDir string) (*Fixture, error) {
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	for name, payload := range demoFiles {
		path := filepath.Join(mediaDir, name)
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write demo file %s: %w", name, err)
		}
	}

	fix := &Fixture{}
	var err error

	fix.Admin, err = svc.RegisterUser(ctx, prensa.RegisterUserRequest{
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@prensa.dev",
		Username:  "admin",
		Password:  "admin",
		Role:      prensa.RoleAdmin,
	})
	if err != nil {
		return nil, err
	}

	fix.User1, err = svc.RegisterUser(ctx, prensa.RegisterUserRequest{
		FirstName: "Joana",
		LastName:  "Silva",
		Email:     "joana@prensa.dev",
		Username:  "user1",
		Password:  "user1",
	})
	if err != nil {
		return nil, err
	}

	fix.User2, err = svc.RegisterUser(ctx, prensa.RegisterUserRequest{
		FirstName: "Pedro",
		LastName:  "Souza",
		Email:     "pedro@prensa.dev",
		Username:  "user2",
		Password:  "user2",
	})
	if err != nil {
		return nil, err
	}

	fix.Site, err = svc.CreateSite(ctx, prensa.CreateSiteRequest{
		OwnerID:     fix.User1.ID,
		Name:        "Meu blog",
		Description: "Travel notes and photos",
		Template:    prensa.TemplateLatestPosts,
	})
	if err != nil {
		return nil, err
	}

	if err := svc.GrantManager(ctx, prensa.GrantManagerRequest{
		SiteID:    fix.Site.ID,
		GrantedBy: fix.User1.ID,
		UserID:    fix.User2.ID,
	}); err != nil {
		return nil, err
	}

	fix.Photo, err = svc.ImportMedia(ctx, prensa.ImportMediaRequest{
		SiteID:     fix.Site.ID,
		UploaderID: fix.User1.ID,
		Path:       filepath.Join(mediaDir, "sunset.jpg"),
	})
	if err != nil {
		return nil, err
	}

	fix.Clip, err = svc.ImportMedia(ctx, prensa.ImportMediaRequest{
		SiteID:     fix.Site.ID,
		UploaderID: fix.User2.ID,
		Path:       filepath.Join(mediaDir, "tour.mp4"),
	})
	if err != nil {
		return nil, err
	}

	fix.WelcomePost, err = svc.CreatePost(ctx, prensa.CreatePostRequest{
		SiteID:       fix.Site.ID,
		PosterID:     fix.User1.ID,
		LanguageCode: "pt-br",
		Title:        "Bem-vindo ao meu blog",
		Blocks: []prensa.BlockInput{
			{Kind: prensa.BlockText, Text: "Este é o primeiro post do site."},
			{Kind: prensa.BlockText, Text: "Volte sempre para novidades."},
		},
	})
	if err != nil {
		return nil, err
	}

	if _, err := svc.TranslatePost(ctx, prensa.TranslatePostRequest{
		PostID:      fix.WelcomePost.ID,
		RequesterID: fix.User1.ID,
		TargetCode:  "en-us",
		Title:       "Welcome to my blog",
		Blocks: map[int]prensa.BlockTranslation{
			1: {Text: "This is the site's first post."},
			2: {Text: "Come back soon for updates."},
		},
	}); err != nil {
		return nil, err
	}

	fix.GalleryPost, err = svc.CreatePost(ctx, prensa.CreatePostRequest{
		SiteID:       fix.Site.ID,
		PosterID:     fix.User2.ID,
		LanguageCode: "pt-br",
		Title:        "Fotos da viagem",
		Blocks: []prensa.BlockInput{
			{Kind: prensa.BlockText, Text: "Algumas fotos do passeio de ontem."},
			{Kind: prensa.BlockMedia, MediaID: fix.Photo.ID, Alt: "pôr do sol na praia"},
			{Kind: prensa.BlockMedia, MediaID: fix.Clip.ID, Alt: "passeio de barco"},
		},
	})
	if err != nil {
		return nil, err
	}

	comments := []prensa.AddCommentRequest{
		{PostID: fix.WelcomePost.ID, CommenterID: fix.User2.ID, Body: "Parabéns pelo site!"},
		{PostID: fix.GalleryPost.ID, CommenterID: fix.User1.ID, Body: "Que fotos lindas."},
		{PostID: fix.GalleryPost.ID, CommenterID: fix.Admin.ID, Body: "Ótimo conteúdo."},
	}
	for _, req := range comments {
		if _, err := svc.AddComment(ctx, req); err != nil {
			return nil, err
		}
	}

	// A few reads so the top_* templates have counters to rank by.
	if _, err := svc.AccessSite(ctx, fix.User2.ID, fix.Site.ID); err != nil {
		return nil, err
	}
	if _, err := svc.ViewPost(ctx, fix.User2.ID, fix.WelcomePost.ID); err != nil {
		return nil, err
	}
	if _, err := svc.ViewPost(ctx, fix.Admin.ID, fix.GalleryPost.ID); err != nil {
		return nil, err
	}
	if _, err := svc.ViewPost(ctx, fix.User1.ID, fix.GalleryPost.ID); err != nil {
		return nil, err
	}

	return fix, nil
}

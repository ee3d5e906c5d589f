// Package console implements the interactive numbered-menu interface.
// Every menu prints its options, reads a number from stdin and routes
// to the matching action; 0 always goes back, invalid input reprompts.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/prensa-cms/prensa/pkg/prensa"
)

// Console drives the text-menu interface over a service.
type Console struct {
	svc     prensa.Service
	reader  *bufio.Reader
	out     io.Writer
	current *prensa.User
}

// New creates a console bound to the given input and output streams.
func New(svc prensa.Service, in io.Reader, out io.Writer) *Console {
	return &Console{
		svc:    svc,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run starts the outer login loop. It returns when the user exits or
// input is exhausted.
func (c *Console) Run(ctx context.Context) error {
	c.println(titleStyle.Render("=== Prensa ==="))

	for {
		if c.current == nil {
			if done := c.entryMenu(ctx); done {
				return nil
			}
			continue
		}
		c.mainMenu(ctx)
	}
}

// entryMenu handles login and registration. Returns true to exit.
func (c *Console) entryMenu(ctx context.Context) bool {
	choice, ok := c.menu("Welcome", []string{"Login", "Register"}, "Exit")
	if !ok {
		return true
	}
	switch choice {
	case 0:
		return true
	case 1:
		c.login(ctx)
	case 2:
		c.register(ctx)
	}
	return false
}

func (c *Console) login(ctx context.Context) {
	username := c.prompt("Username")
	password := c.prompt("Password")

	user, err := c.svc.Login(ctx, username, password)
	if err != nil {
		c.fail(err)
		return
	}
	c.current = user
	c.success(fmt.Sprintf("Logged in as %s", user.FullName()))
}

func (c *Console) register(ctx context.Context) {
	req := prensa.RegisterUserRequest{
		FirstName: c.prompt("First name"),
		LastName:  c.prompt("Last name"),
		Email:     c.prompt("Email"),
		Username:  c.prompt("Username"),
		Password:  c.prompt("Password"),
	}

	user, err := c.svc.RegisterUser(ctx, req)
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Registered %s (id %d), you can log in now", user.Username, user.ID))
}

func (c *Console) mainMenu(ctx context.Context) {
	options := []string{
		"List all sites",
		"My sites",
		"Create site",
		"Open site",
		"Recent activity",
	}
	choice, ok := c.menu("Main menu", options, "Logout")
	if !ok {
		c.current = nil
		return
	}
	switch choice {
	case 0:
		c.current = nil
		c.println(mutedStyle.Render("Logged out"))
	case 1:
		c.listSites(ctx)
	case 2:
		c.mySites(ctx)
	case 3:
		c.createSite(ctx)
	case 4:
		c.openSite(ctx)
	case 5:
		c.recentActivity(ctx)
	}
}

func (c *Console) listSites(ctx context.Context) {
	sites, err := c.svc.ListSites(ctx)
	if err != nil {
		c.fail(err)
		return
	}
	c.printSites(sites)
}

func (c *Console) mySites(ctx context.Context) {
	sites, err := c.svc.ListUserSites(ctx, c.current.ID)
	if err != nil {
		c.fail(err)
		return
	}
	c.printSites(sites)
}

func (c *Console) printSites(sites []*prensa.Site) {
	if len(sites) == 0 {
		c.println(mutedStyle.Render("No sites yet"))
		return
	}
	for _, site := range sites {
		c.printf("  [%d] %s  %s\n", site.ID, site.Name, mutedStyle.Render(site.URL()))
	}
}

func (c *Console) createSite(ctx context.Context) {
	req := prensa.CreateSiteRequest{
		OwnerID:     c.current.ID,
		Name:        c.prompt("Site name"),
		Description: c.prompt("Description"),
		Template:    c.chooseTemplate(),
	}

	site, err := c.svc.CreateSite(ctx, req)
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Created site %d at %s", site.ID, site.URL()))
}

func (c *Console) chooseTemplate() prensa.SiteTemplate {
	templates := prensa.SiteTemplates()
	options := make([]string, len(templates))
	for i, t := range templates {
		options[i] = string(t)
	}
	choice, ok := c.menu("Template", options, "Default (latest_posts)")
	if !ok || choice == 0 {
		return prensa.TemplateLatestPosts
	}
	return templates[choice-1]
}

func (c *Console) recentActivity(ctx context.Context) {
	if c.current.Role != prensa.RoleAdmin {
		c.fail(errors.New("recent activity is restricted to admins"))
		return
	}
	entries, err := c.svc.RecentLogs(ctx, 20)
	if err != nil {
		c.fail(err)
		return
	}
	for _, entry := range entries {
		meta := entry.Meta()
		c.printf("  %s  %s\n",
			mutedStyle.Render(meta.CreatedAt.Format("2006-01-02 15:04:05")),
			prensa.EntrySummary(entry))
	}
}

// openSite records the visit and enters the site menu.
func (c *Console) openSite(ctx context.Context) {
	siteID, ok := c.promptID("Site id")
	if !ok {
		return
	}
	site, err := c.svc.AccessSite(ctx, c.current.ID, siteID)
	if err != nil {
		c.fail(err)
		return
	}

	for c.siteMenu(ctx, site) {
	}
}

// siteMenu returns false when the user goes back.
func (c *Console) siteMenu(ctx context.Context, site *prensa.Site) bool {
	options := []string{
		"List posts",
		"View post",
		"Create post",
		"Translate post",
		"Comment on post",
		"Share post",
		"Media library",
		"Import media",
		"Delete media",
		"Grant manager",
		"Change template",
		"Site stats",
	}
	choice, ok := c.menu(site.Name, options, "Back")
	if !ok || choice == 0 {
		return false
	}

	switch choice {
	case 1:
		c.listPosts(ctx, site)
	case 2:
		c.viewPost(ctx)
	case 3:
		c.createPost(ctx, site)
	case 4:
		c.translatePost(ctx)
	case 5:
		c.commentPost(ctx)
	case 6:
		c.sharePost(ctx)
	case 7:
		c.listMedia(ctx, site)
	case 8:
		c.importMedia(ctx, site)
	case 9:
		c.deleteMedia(ctx)
	case 10:
		c.grantManager(ctx, site)
	case 11:
		c.changeTemplate(ctx, site)
	case 12:
		c.siteStats(ctx, site)
	}
	return true
}

func (c *Console) listPosts(ctx context.Context, site *prensa.Site) {
	posts, err := c.svc.ArrangePosts(ctx, site.ID)
	if err != nil {
		c.fail(err)
		return
	}
	if len(posts) == 0 {
		c.println(mutedStyle.Render("No visible posts"))
		return
	}
	for _, post := range posts {
		codes := make([]string, 0, len(post.Contents))
		for _, lang := range post.Languages() {
			codes = append(codes, lang.Code)
		}
		c.printf("  [%d] %s  %s\n", post.ID, post.DefaultTitle(),
			mutedStyle.Render(strings.Join(codes, " ")))
	}
}

func (c *Console) viewPost(ctx context.Context) {
	postID, ok := c.promptID("Post id")
	if !ok {
		return
	}
	post, err := c.svc.ViewPost(ctx, c.current.ID, postID)
	if err != nil {
		c.fail(err)
		return
	}

	content, ok := post.DefaultContent()
	if !ok {
		c.println(mutedStyle.Render(post.DefaultTitle()))
		return
	}
	c.println(titleStyle.Render(content.Title))
	c.println(content.Render())

	comments, err := c.svc.ListPostComments(ctx, post.ID)
	if err != nil {
		c.fail(err)
		return
	}
	if len(comments) > 0 {
		c.println(mutedStyle.Render("Comments:"))
		for _, comment := range comments {
			c.printf("  #%d user %d: %s\n", comment.ID, comment.CommenterID, comment.Body)
		}
	}

	// Counters are manager-only; plain readers just see the post.
	stats, err := c.svc.PostStats(ctx, c.current.ID, post.ID)
	if err != nil {
		if !errors.Is(err, prensa.ErrPermissionDenied) {
			c.fail(err)
		}
		return
	}
	c.println(mutedStyle.Render(fmt.Sprintf(
		"views %d, comments %d, shares %d", stats.Views, stats.Comments, stats.Shares)))
}

func (c *Console) createPost(ctx context.Context, site *prensa.Site) {
	lang := c.chooseLanguage("Post language")
	title := c.prompt("Title")

	var blocks []prensa.BlockInput
	for {
		choice, ok := c.menu("Add block", []string{"Text block", "Media block"}, "Done")
		if !ok || choice == 0 {
			break
		}
		switch choice {
		case 1:
			blocks = append(blocks, prensa.BlockInput{
				Kind: prensa.BlockText,
				Text: c.prompt("Text"),
			})
		case 2:
			mediaID, ok := c.promptID("Media id")
			if !ok {
				continue
			}
			blocks = append(blocks, prensa.BlockInput{
				Kind:    prensa.BlockMedia,
				MediaID: mediaID,
				Alt:     c.prompt("Alt text"),
			})
		}
	}

	post, err := c.svc.CreatePost(ctx, prensa.CreatePostRequest{
		SiteID:       site.ID,
		PosterID:     c.current.ID,
		LanguageCode: lang,
		Title:        title,
		Blocks:       blocks,
		ScheduledTo:  c.promptSchedule(),
	})
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Created post %d", post.ID))
}

// promptSchedule optionally asks for a future publication time. Nil
// means publish immediately.
func (c *Console) promptSchedule() *time.Time {
	if !c.confirm("Schedule for later?") {
		return nil
	}
	for {
		line := c.prompt("Publish at (YYYY-MM-DD HH:MM, empty cancels)")
		if line == "" {
			return nil
		}
		when, err := time.ParseInLocation("2006-01-02 15:04", line, time.Local)
		if err != nil {
			c.println(errorStyle.Render("Use the YYYY-MM-DD HH:MM format"))
			continue
		}
		return &when
	}
}

func (c *Console) translatePost(ctx context.Context) {
	postID, ok := c.promptID("Post id")
	if !ok {
		return
	}
	post, err := c.svc.GetPost(ctx, postID)
	if err != nil {
		c.fail(err)
		return
	}

	missing, err := c.svc.MissingLanguages(ctx, post.ID)
	if err != nil {
		c.fail(err)
		return
	}
	if len(missing) > 0 {
		codes := make([]string, len(missing))
		for i, lang := range missing {
			codes[i] = lang.Code
		}
		c.println(mutedStyle.Render("Missing: " + strings.Join(codes, " ")))
	}

	target := c.chooseLanguage("Target language")
	title := c.prompt("Translated title")

	translations := make(map[int]prensa.BlockTranslation)
	if content, ok := post.DefaultContent(); ok {
		for _, block := range content.Blocks {
			switch b := block.(type) {
			case *prensa.TextBlock:
				c.println(mutedStyle.Render(fmt.Sprintf("Block %d: %s", b.Order, b.Text)))
				if text := c.prompt("Translation (empty keeps original)"); text != "" {
					translations[b.Order] = prensa.BlockTranslation{Text: text}
				}
			case *prensa.MediaBlock:
				c.println(mutedStyle.Render(fmt.Sprintf("Block %d alt: %s", b.Order, b.Alt)))
				if alt := c.prompt("Translated alt (empty keeps original)"); alt != "" {
					translations[b.Order] = prensa.BlockTranslation{Alt: alt}
				}
			}
		}
	}

	req := prensa.TranslatePostRequest{
		PostID:      post.ID,
		RequesterID: c.current.ID,
		TargetCode:  target,
		Title:       title,
		Blocks:      translations,
	}
	result, err := c.svc.TranslatePost(ctx, req)
	if errors.Is(err, prensa.ErrTranslationExists) {
		if !c.confirm("Translation exists, overwrite?") {
			c.println(mutedStyle.Render("Kept the existing translation"))
			return
		}
		req.Overwrite = true
		result, err = c.svc.TranslatePost(ctx, req)
	}
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Stored %s translation", result.Language.Code))
	if len(result.Skipped) > 0 {
		c.println(mutedStyle.Render(fmt.Sprintf("Skipped blocks: %v", result.Skipped)))
	}
}

func (c *Console) commentPost(ctx context.Context) {
	postID, ok := c.promptID("Post id")
	if !ok {
		return
	}
	comment, err := c.svc.AddComment(ctx, prensa.AddCommentRequest{
		PostID:      postID,
		CommenterID: c.current.ID,
		Body:        c.prompt("Comment"),
	})
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Comment %d added", comment.ID))
}

func (c *Console) sharePost(ctx context.Context) {
	postID, ok := c.promptID("Post id")
	if !ok {
		return
	}

	message, err := c.svc.SuggestShare(ctx, postID, "")
	if err != nil {
		c.fail(err)
		return
	}
	c.println(mutedStyle.Render("Suggested message:"))
	c.println(message)

	networks := c.chooseNetworks()
	if len(networks) == 0 {
		c.println(mutedStyle.Render("Nothing shared"))
		return
	}

	if _, err := c.svc.SharePost(ctx, prensa.SharePostRequest{
		PostID:   postID,
		UserID:   c.current.ID,
		Networks: networks,
	}); err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Shared to %d network(s)", len(networks)))
}

func (c *Console) chooseNetworks() []prensa.SocialNetwork {
	all := prensa.SocialNetworks()
	var selected []prensa.SocialNetwork
	for {
		options := make([]string, len(all))
		for i, n := range all {
			marker := " "
			for _, s := range selected {
				if s == n {
					marker = "*"
				}
			}
			options[i] = fmt.Sprintf("[%s] %s", marker, n)
		}
		choice, ok := c.menu("Toggle networks", options, "Done")
		if !ok || choice == 0 {
			return selected
		}
		network := all[choice-1]
		toggled := selected[:0]
		found := false
		for _, s := range selected {
			if s == network {
				found = true
				continue
			}
			toggled = append(toggled, s)
		}
		selected = toggled
		if !found {
			selected = append(selected, network)
		}
	}
}

func (c *Console) listMedia(ctx context.Context, site *prensa.Site) {
	media, err := c.svc.ListSiteMedia(ctx, site.ID)
	if err != nil {
		c.fail(err)
		return
	}
	if len(media) == 0 {
		c.println(mutedStyle.Render("Media library is empty"))
		return
	}
	for _, m := range media {
		c.printf("  [%d] %s (%s)\n", m.ID, m.Filename, m.Kind)
	}
}

func (c *Console) importMedia(ctx context.Context, site *prensa.Site) {
	media, err := c.svc.ImportMedia(ctx, prensa.ImportMediaRequest{
		SiteID:     site.ID,
		UploaderID: c.current.ID,
		Path:       c.prompt("File path"),
	})
	if err != nil {
		c.fail(err)
		return
	}
	c.success(fmt.Sprintf("Imported %s as media %d", media.Filename, media.ID))
}

func (c *Console) deleteMedia(ctx context.Context) {
	mediaID, ok := c.promptID("Media id")
	if !ok {
		return
	}
	if err := c.svc.DeleteMedia(ctx, c.current.ID, mediaID); err != nil {
		c.fail(err)
		return
	}
	c.success("Media removed")
}

func (c *Console) grantManager(ctx context.Context, site *prensa.Site) {
	candidates, err := c.svc.UsersWithoutPermission(ctx, site.ID)
	if err != nil {
		c.fail(err)
		return
	}
	if len(candidates) == 0 {
		c.println(mutedStyle.Render("Everyone already manages this site"))
		return
	}
	for _, user := range candidates {
		c.printf("  [%d] %s (%s)\n", user.ID, user.FullName(), user.Username)
	}

	userID, ok := c.promptID("User id")
	if !ok {
		return
	}
	if err := c.svc.GrantManager(ctx, prensa.GrantManagerRequest{
		SiteID:    site.ID,
		GrantedBy: c.current.ID,
		UserID:    userID,
	}); err != nil {
		c.fail(err)
		return
	}
	c.success("Manager granted")
}

func (c *Console) changeTemplate(ctx context.Context, site *prensa.Site) {
	template := c.chooseTemplate()
	if err := c.svc.UpdateSiteTemplate(ctx, site.ID, template); err != nil {
		c.fail(err)
		return
	}
	site.Template = template
	c.success(fmt.Sprintf("Template set to %s", template))
}

func (c *Console) siteStats(ctx context.Context, site *prensa.Site) {
	stats, err := c.svc.SiteStats(ctx, site.ID)
	if err != nil {
		c.fail(err)
		return
	}
	c.printf("  accesses:      %d\n", stats.Accesses)
	c.printf("  posts created: %d\n", stats.PostsCreated)
	c.printf("  media uploads: %d\n", stats.MediaUploads)
	c.printf("  post views:    %d\n", stats.PostViews)
	c.printf("  comments:      %d\n", stats.PostComments)
	c.printf("  shares:        %d\n", stats.PostShares)
}

// chooseLanguage offers the directory languages by number plus a
// free-form code entry.
func (c *Console) chooseLanguage(title string) string {
	languages := c.svc.Languages()
	options := make([]string, 0, len(languages)+1)
	for _, lang := range languages {
		options = append(options, fmt.Sprintf("%s (%s)", lang.Name, lang.Code))
	}
	options = append(options, "Other code")

	choice, ok := c.menu(title, options, "Default (pt-br)")
	switch {
	case !ok || choice == 0:
		return "pt-br"
	case choice == len(options):
		return c.prompt("Language code")
	default:
		return languages[choice-1].Code
	}
}

// menu prints a numbered menu and reads a choice. The second return is
// false when input is exhausted.
func (c *Console) menu(title string, options []string, zeroLabel string) (int, bool) {
	c.println("")
	c.println(titleStyle.Render(title))
	for i, option := range options {
		c.println(optionStyle.Render(fmt.Sprintf("%d. %s", i+1, option)))
	}
	c.println(optionStyle.Render("0. " + zeroLabel))

	for {
		line, ok := c.readLine(promptStyle.Render("> "))
		if !ok {
			return 0, false
		}
		choice, err := strconv.Atoi(line)
		if err != nil || choice < 0 || choice > len(options) {
			c.println(errorStyle.Render("Pick a number from the menu"))
			continue
		}
		return choice, true
	}
}

func (c *Console) prompt(label string) string {
	line, _ := c.readLine(promptStyle.Render(label + ": "))
	return line
}

func (c *Console) confirm(label string) bool {
	line, ok := c.readLine(promptStyle.Render(label + " (y/n): "))
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes", "s", "sim":
		return true
	}
	return false
}

func (c *Console) promptID(label string) (int64, bool) {
	for {
		line, ok := c.readLine(promptStyle.Render(label + ": "))
		if !ok {
			return 0, false
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil || id <= 0 {
			c.println(errorStyle.Render("Enter a positive number"))
			continue
		}
		return id, true
	}
}

func (c *Console) readLine(promptText string) (string, bool) {
	fmt.Fprint(c.out, promptText)
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) success(message string) {
	c.println(successStyle.Render("✓ " + message))
}

func (c *Console) fail(err error) {
	c.println(errorStyle.Render("✗ " + err.Error()))
}

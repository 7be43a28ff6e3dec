package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/job"
	"comment-gateway/internal/metrics"
	"comment-gateway/internal/render"
	"comment-gateway/internal/response"
	"comment-gateway/internal/service"
	"comment-gateway/internal/session"
)

var errUsage = errors.New("usage")

func usageErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func isUsageError(err error) bool {
	return errors.Is(err, errUsage)
}

// errorText prefers the service or local message over the wrapped error chain
func errorText(err error) string {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return strings.TrimPrefix(err.Error(), errUsage.Error()+": ")
}

// console runs one command against a post's comment section
type console struct {
	client    client.CommentClient
	sessions  session.Provider
	metrics   *metrics.Metrics
	logger    *zap.Logger
	mode      domain.ViewMode
	schedule  string
	timeout   time.Duration
	assumeYes bool

	in  *bufio.Reader
	out io.Writer
}

func (c *console) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usageErrorf("a command and a post id are required")
	}
	cmd := args[0]
	postID, err := parsePositiveID(args[1], "post id")
	if err != nil {
		return err
	}
	rest := args[2:]

	mode := c.mode
	switch cmd {
	case "tree":
		mode = domain.ViewModeTree
	case "flat":
		mode = domain.ViewModeFlat
	}
	engine := c.newEngine(postID, mode)

	switch cmd {
	case "tree", "flat", "show":
		return c.show(ctx, engine)
	case "post":
		return c.post(ctx, engine, rest)
	case "reply":
		return c.reply(ctx, engine, rest)
	case "edit":
		return c.edit(ctx, engine, rest)
	case "delete":
		return c.delete(ctx, engine, rest)
	case "restore":
		return c.restore(ctx, engine, rest)
	case "watch":
		return c.watch(ctx, engine)
	default:
		return usageErrorf("unknown command %q", cmd)
	}
}

func (c *console) newEngine(postID int64, mode domain.ViewMode) *service.CommentEngine {
	return service.NewCommentEngine(service.EngineConfig{
		Client:   c.client,
		Sessions: c.sessions,
		PostID:   postID,
		ViewMode: mode,
		Metrics:  c.metrics,
		Logger:   c.logger,
	})
}

func (c *console) show(ctx context.Context, engine *service.CommentEngine) error {
	if err := engine.Refresh(ctx); err != nil {
		return err
	}
	return c.print(engine.Snapshot(), engine.Session())
}

func (c *console) post(ctx context.Context, engine *service.CommentEngine, args []string) error {
	if len(args) == 0 {
		return usageErrorf("post needs the comment text")
	}
	form := service.NewCreateForm(engine)
	form.SetDraft(strings.Join(args, " "))
	if err := form.Submit(ctx); err != nil {
		return err
	}
	return c.print(engine.Snapshot(), engine.Session())
}

func (c *console) reply(ctx context.Context, engine *service.CommentEngine, args []string) error {
	if len(args) < 2 {
		return usageErrorf("reply needs a comment id and the reply text")
	}
	node, err := c.loadNode(ctx, engine, args[0])
	if err != nil {
		return err
	}
	if !node.StartReply() {
		return fmt.Errorf("comment #%d does not accept replies", node.Comment().ID)
	}
	form := node.ReplyForm(engine)
	form.SetDraft(strings.Join(args[1:], " "))
	if err := form.Submit(ctx); err != nil {
		return err
	}
	return c.print(engine.Snapshot(), engine.Session())
}

func (c *console) edit(ctx context.Context, engine *service.CommentEngine, args []string) error {
	if len(args) < 2 {
		return usageErrorf("edit needs a comment id and the new text")
	}
	node, err := c.loadNode(ctx, engine, args[0])
	if err != nil {
		return err
	}
	if _, ok := node.StartEdit(); !ok {
		return fmt.Errorf("comment #%d cannot be edited by you", node.Comment().ID)
	}
	form := node.EditForm(engine)
	form.SetDraft(strings.Join(args[1:], " "))
	if err := form.Submit(ctx); err != nil {
		return err
	}
	return c.print(engine.Snapshot(), engine.Session())
}

func (c *console) delete(ctx context.Context, engine *service.CommentEngine, args []string) error {
	if len(args) != 1 {
		return usageErrorf("delete needs a comment id")
	}
	node, err := c.loadNode(ctx, engine, args[0])
	if err != nil {
		return err
	}
	if !engine.Session().IsAuthenticated() {
		// the engine reports the missing login; NodeState would silently refuse
		_, err := engine.Delete(ctx, node.Comment().ID, service.Confirmed)
		return err
	}
	if !node.CanDelete() {
		return fmt.Errorf("comment #%d cannot be deleted by you", node.Comment().ID)
	}

	deleted, err := node.Delete(ctx, engine, c.confirmer())
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(c.out, "Delete cancelled.")
		return nil
	}
	return c.print(engine.Snapshot(), engine.Session())
}

func (c *console) restore(ctx context.Context, engine *service.CommentEngine, args []string) error {
	if len(args) != 1 {
		return usageErrorf("restore needs a comment id")
	}
	commentID, err := parsePositiveID(args[0], "comment id")
	if err != nil {
		return err
	}
	restored, err := engine.Restore(ctx, commentID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Comment #%d restored.\n\n", restored.ID)
	return c.print(engine.Snapshot(), engine.Session())
}

// watch prints the list now and again on every scheduled refresh until ctx ends
func (c *console) watch(ctx context.Context, engine *service.CommentEngine) error {
	refresh := job.NewRefreshJob(ctx, engine, c.timeout, func(state service.ListState) {
		if err := c.print(state, engine.Session()); err != nil {
			c.logger.Warn("Failed to print comments", zap.Error(err))
		}
	}, c.logger)

	scheduler := job.NewScheduler(c.logger)
	if err := scheduler.Add(c.schedule, refresh); err != nil {
		return usageErrorf("%v", err)
	}

	refresh.Run()
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

// loadNode fetches the list and binds the named comment to the current viewer
func (c *console) loadNode(ctx context.Context, engine *service.CommentEngine, rawID string) (*service.NodeState, error) {
	commentID, err := parsePositiveID(rawID, "comment id")
	if err != nil {
		return nil, err
	}
	if err := engine.Refresh(ctx); err != nil {
		return nil, err
	}
	comment := domain.Find(engine.Snapshot().Comments, commentID)
	if comment == nil {
		return nil, fmt.Errorf("comment #%d not found on post #%d", commentID, engine.PostID())
	}
	return service.NewNodeState(comment, engine.Viewer()), nil
}

func (c *console) confirmer() service.Confirmer {
	if c.assumeYes {
		return service.Confirmed
	}
	return service.ConfirmFunc(func(ctx context.Context, comment *domain.Comment) (bool, error) {
		fmt.Fprintf(c.out, "Delete comment #%d by %s? [y/N] ", comment.ID, comment.AuthorLabel())
		line, err := c.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return false, err
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	})
}

func (c *console) print(state service.ListState, s *session.Session) error {
	return render.WriteText(c.out, render.BuildList(state, s, render.UIState{}, ""))
}

func parsePositiveID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid %s %q", name, raw)
	}
	return id, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/news-reader/internal/models"
	"github.com/pribylovaa/news-reader/internal/remote/reachability"
)

// errNotCached — закладку из CLI можно поставить только на статью из кэша.
var errNotCached = errors.New("article is not cached: run fetch first")

// withApp загружает конфиг, собирает app и гарантирует его закрытие после fn.
func withApp(cmd *cobra.Command, flags *globalFlags, fn func(ctx context.Context, a *app) error) error {
	cfg, logger, ctx, err := loadConfig(cmd.Context(), flags, os.Stderr, !flags.verbose)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func newFetchCmd(flags *globalFlags) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a page of headlines; falls back to the cache when offline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				res := a.svc.FetchArticlesResult(ctx, page, pageSize)
				return renderFetch(cmd.OutOrStdout(), flags.output, res)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, 1-based")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "page size; 0 uses limits.default_page_size")

	return cmd
}

func newCachedCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "cached",
		Short: "List cached articles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				return renderArticles(cmd.OutOrStdout(), flags.output, a.svc.CachedArticles(ctx))
			})
		},
	}
}

func newBookmarksCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				return renderArticles(cmd.OutOrStdout(), flags.output, a.svc.BookmarkedArticles(ctx))
			})
		},
	}
}

func newBookmarkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark <url>",
		Short: "Bookmark a cached article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				article, ok := findCached(a.svc.CachedArticles(ctx), args[0])
				if !ok {
					return fmt.Errorf("%s: %w", args[0], errNotCached)
				}

				if err := a.svc.BookmarkArticle(ctx, article); err != nil {
					return err
				}

				return renderBookmarked(cmd.OutOrStdout(), flags.output, article.URL, true)
			})
		},
	}
}

func newUnbookmarkCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "unbookmark <url>",
		Short: "Remove a bookmark; the article stays cached",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				if err := a.svc.RemoveBookmark(ctx, models.Article{URL: args[0]}); err != nil {
					return err
				}

				return renderBookmarked(cmd.OutOrStdout(), flags.output, args[0], false)
			})
		},
	}
}

func newToggleCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <url>",
		Short: "Flip the bookmark of a cached article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				article, ok := findCached(a.svc.CachedArticles(ctx), args[0])
				if !ok {
					return fmt.Errorf("%s: %w", args[0], errNotCached)
				}

				on, err := a.svc.ToggleBookmark(ctx, article)
				if err != nil {
					return err
				}

				return renderBookmarked(cmd.OutOrStdout(), flags.output, article.URL, on)
			})
		},
	}
}

func newSearchCmd(flags *globalFlags) *cobra.Command {
	var bookmarksOnly bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached articles by title, author and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				pool := a.svc.CachedArticles(ctx)
				if bookmarksOnly {
					pool = a.svc.BookmarkedArticles(ctx)
				}

				return renderArticles(cmd.OutOrStdout(), flags.output, a.svc.SearchArticles(args[0], pool))
			})
		},
	}

	cmd.Flags().BoolVar(&bookmarksOnly, "bookmarks", false, "search bookmarked articles only")

	return cmd
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				st, err := a.svc.Stats(ctx)
				if err != nil {
					return err
				}

				return renderStats(cmd.OutOrStdout(), flags.output, st)
			})
		},
	}
}

// statusView — ответ команды status.
type statusView struct {
	Remote     string `json:"remote"     yaml:"remote"`
	Store      string `json:"store"      yaml:"store"`
	Online     bool   `json:"online"     yaml:"online"`
	Connection string `json:"connection" yaml:"connection"`
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe connectivity to the remote source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, a *app) error {
				view := statusView{
					Remote:     a.cfg.Remote.Kind,
					Store:      a.cfg.Store.Driver,
					Online:     true,
					Connection: string(reachability.ConnectionUnknown),
				}

				if a.checker != nil {
					view.Online = a.checker.IsAvailable(ctx)
					view.Connection = string(a.checker.ConnectionType())
				}

				return renderStatus(cmd.OutOrStdout(), flags.output, view)
			})
		},
	}
}

// findCached ищет статью по url в списке кэша.
func findCached(items []models.Article, url string) (models.Article, bool) {
	for _, a := range items {
		if a.URL == url {
			return a, true
		}
	}

	return models.Article{}, false
}

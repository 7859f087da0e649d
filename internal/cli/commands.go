package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/user/streamcat/internal/metrics"
	"github.com/user/streamcat/internal/model"
	"github.com/user/streamcat/internal/seed"
	"github.com/user/streamcat/internal/store"
)

// RootCommand builds the command tree
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "streamcat",
		Short:         "Manage the streaming catalog database",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errors.New("no command given")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		a.importCmd(),
		a.resetCmd(),
		a.pingCmd(),
		a.insertViewerCmd(),
		a.addGenreCmd(),
		a.deleteViewerCmd(),
		a.insertMovieCmd(),
		a.insertSessionCmd(),
		a.updateReleaseCmd(),
		a.listReleasesCmd(),
		a.popularReleaseCmd(),
		a.releaseTitleCmd(),
		a.activeViewerCmd(),
		a.videosViewedCmd(),
	)
	// arguments are data: titles, genres and negative numbers may start with '-'
	for _, cmd := range root.Commands() {
		cmd.DisableFlagParsing = true
	}
	return root
}

func (a *App) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <folder>",
		Short: "Recreate the schema and load every <table>.csv found in folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := seed.ReadDir(args[0], a.seed)
			if err != nil {
				return a.fail(cmd, "import", err)
			}
			for _, src := range sources {
				metrics.RecordSeedRows(src.Table.Name, len(src.Rows))
			}
			return a.mutate(cmd, "import", func(ctx context.Context, s store.Store) error {
				return s.Load(ctx, sources)
			})
		},
	}
}

func (a *App) resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Drop and recreate every managed table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "reset", func(ctx context.Context, s store.Store) error {
				return s.ResetSchema(ctx)
			})
		},
	}
}

func (a *App) pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check database connectivity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.mutate(cmd, "ping", func(ctx context.Context, s store.Store) error {
				return s.Ping(ctx)
			})
		},
	}
}

func (a *App) insertViewerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insertViewer <uid> <email> <nickname> <street> <city> <state> <zip> <genres> <joined_date> <first> <last> <subscription>",
		Short: "Create a user together with its viewer row",
		Args:  cobra.ExactArgs(12),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseInt("uid", args[0])
			if err != nil {
				return a.fail(cmd, "insertViewer", err)
			}
			joined, err := optionalDate("joined_date", args[8])
			if err != nil {
				return a.fail(cmd, "insertViewer", err)
			}

			user := model.User{
				UID:        uid,
				Email:      args[1],
				Nickname:   optional(args[2]),
				Street:     optional(args[3]),
				City:       optional(args[4]),
				State:      optional(args[5]),
				Zip:        optional(args[6]),
				Genres:     optional(args[7]),
				JoinedDate: joined,
			}
			viewer := model.Viewer{
				First:        optional(args[9]),
				Last:         optional(args[10]),
				Subscription: optional(args[11]),
			}
			return a.mutate(cmd, "insertViewer", func(ctx context.Context, s store.Store) error {
				return s.CreateViewer(ctx, user, viewer)
			})
		},
	}
}

func (a *App) addGenreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addGenre <uid> <genre>",
		Short: "Append a genre to a user's genre list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseInt("uid", args[0])
			if err != nil {
				return a.fail(cmd, "addGenre", err)
			}
			return a.mutate(cmd, "addGenre", func(ctx context.Context, s store.Store) error {
				return s.AddGenre(ctx, uid, args[1])
			})
		},
	}
}

func (a *App) deleteViewerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deleteViewer <uid>",
		Short: "Delete a viewer with its sessions and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseInt("uid", args[0])
			if err != nil {
				return a.fail(cmd, "deleteViewer", err)
			}
			return a.mutate(cmd, "deleteViewer", func(ctx context.Context, s store.Store) error {
				return s.DeleteViewer(ctx, uid)
			})
		},
	}
}

func (a *App) insertMovieCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insertMovie <rid> <website_url>",
		Short: "Mark an existing release as a movie",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseInt("rid", args[0])
			if err != nil {
				return a.fail(cmd, "insertMovie", err)
			}
			url := optional(args[1])
			return a.mutate(cmd, "insertMovie", func(ctx context.Context, s store.Store) error {
				return s.CreateMovie(ctx, rid, url)
			})
		},
	}
}

func (a *App) insertSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insertSession <sid> <uid> <rid> <ep_num> <initiate_at> <leave_at> <quality> <device>",
		Short: "Record a viewing session",
		Args:  cobra.ExactArgs(8),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ids [4]int
			for i, name := range []string{"sid", "uid", "rid", "ep_num"} {
				v, err := parseInt(name, args[i])
				if err != nil {
					return a.fail(cmd, "insertSession", err)
				}
				ids[i] = v
			}
			initiate, err := parseTime("initiate_at", args[4])
			if err != nil {
				return a.fail(cmd, "insertSession", err)
			}
			leave, err := parseTime("leave_at", args[5])
			if err != nil {
				return a.fail(cmd, "insertSession", err)
			}

			session := model.Session{
				SID:        ids[0],
				UID:        ids[1],
				RID:        ids[2],
				EpNum:      ids[3],
				InitiateAt: initiate,
				LeaveAt:    leave,
				Quality:    optional(args[6]),
				Device:     optional(args[7]),
			}
			return a.mutate(cmd, "insertSession", func(ctx context.Context, s store.Store) error {
				return s.CreateSession(ctx, session)
			})
		},
	}
}

func (a *App) updateReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updateRelease <rid> <title>",
		Short: "Rename a release",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseInt("rid", args[0])
			if err != nil {
				return a.fail(cmd, "updateRelease", err)
			}
			return a.mutate(cmd, "updateRelease", func(ctx context.Context, s store.Store) error {
				return s.RenameRelease(ctx, rid, args[1])
			})
		},
	}
}

func (a *App) listReleasesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listReleases <uid>",
		Short: "List the releases a viewer has reviewed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uid, err := parseInt("uid", args[0])
			if err != nil {
				return a.fail(cmd, "listReleases", err)
			}
			return query(a, cmd, "listReleases", func(ctx context.Context, s store.Store) ([]model.ReviewedRelease, error) {
				return s.ReviewedReleases(ctx, uid)
			})
		},
	}
}

func (a *App) popularReleaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "popularRelease <n>",
		Short: "Rank releases by number of reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("n", args[0])
			if err != nil {
				return a.fail(cmd, "popularRelease", err)
			}
			return query(a, cmd, "popularRelease", func(ctx context.Context, s store.Store) ([]model.PopularRelease, error) {
				return s.PopularReleases(ctx, n)
			})
		},
	}
}

func (a *App) releaseTitleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "releaseTitle <sid>",
		Short: "Show the release and video a session watched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sid, err := parseInt("sid", args[0])
			if err != nil {
				return a.fail(cmd, "releaseTitle", err)
			}
			return query(a, cmd, "releaseTitle", func(ctx context.Context, s store.Store) ([]model.SessionRelease, error) {
				return s.SessionRelease(ctx, sid)
			})
		},
	}
}

func (a *App) activeViewerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activeViewer <n> <start> <end>",
		Short: "List viewers with at least n sessions started in [start, end]",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseInt("n", args[0])
			if err != nil {
				return a.fail(cmd, "activeViewer", err)
			}
			start, err := parseTime("start", args[1])
			if err != nil {
				return a.fail(cmd, "activeViewer", err)
			}
			end, err := parseTime("end", args[2])
			if err != nil {
				return a.fail(cmd, "activeViewer", err)
			}
			return query(a, cmd, "activeViewer", func(ctx context.Context, s store.Store) ([]model.ActiveViewer, error) {
				return s.ActiveViewers(ctx, n, start, end)
			})
		},
	}
}

func (a *App) videosViewedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "videosViewed <rid>",
		Short: "Count distinct viewers for each video of a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rid, err := parseInt("rid", args[0])
			if err != nil {
				return a.fail(cmd, "videosViewed", err)
			}
			return query(a, cmd, "videosViewed", func(ctx context.Context, s store.Store) ([]model.VideoViewership, error) {
				return s.VideoViewership(ctx, rid)
			})
		},
	}
}

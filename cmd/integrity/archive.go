package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Vishai/nba-integrity/internal/archive"
	"github.com/Vishai/nba-integrity/internal/store"
	"github.com/Vishai/nba-integrity/pkg/season"
)

type archiveOpts struct {
	configPath string
	caseID     string
	backend    string
	dir        string
	bucket     string
	region     string
	endpoint   string
}

func (o *archiveOpts) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "Path to config file")
	cmd.Flags().StringVar(&o.caseID, "case", "", "Case id (required)")
	cmd.Flags().StringVar(&o.backend, "backend", "local", "Archive backend: local, s3, or gcs")
	cmd.Flags().StringVar(&o.dir, "dir", "", "Base directory for the local backend")
	cmd.Flags().StringVar(&o.bucket, "bucket", "", "Bucket for the s3/gcs backends")
	cmd.Flags().StringVar(&o.region, "region", "", "AWS region for the s3 backend")
	cmd.Flags().StringVar(&o.endpoint, "endpoint", "", "Custom S3 endpoint (MinIO etc.)")
	_ = cmd.MarkFlagRequired("case")
}

func (o *archiveOpts) client(ctx context.Context) (archive.Client, error) {
	switch o.backend {
	case "local":
		if o.dir == "" {
			return nil, fmt.Errorf("--dir is required for the local backend")
		}
		return archive.NewLocalArchive(o.dir), nil
	case "s3":
		if o.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the s3 backend")
		}
		return archive.NewS3Archive(ctx, archive.S3Config{
			Bucket:    o.bucket,
			Region:    o.region,
			Endpoint:  o.endpoint,
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		})
	case "gcs":
		if o.bucket == "" {
			return nil, fmt.Errorf("--bucket is required for the gcs backend")
		}
		return archive.NewGCSArchive(ctx, o.bucket)
	default:
		return nil, fmt.Errorf("unknown backend %q (local, s3, gcs)", o.backend)
	}
}

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Push or pull season datasets and results",
	}
	cmd.AddCommand(newArchivePushCmd(), newArchivePullCmd())
	return cmd
}

var datasetKinds = []string{
	season.DatasetGames,
	season.DatasetPlayerGames,
	season.DatasetPlayerBox,
	season.DatasetStandings,
}

// datasetTeamID maps a kind to its store key: standings tables are
// league-wide and live under team id 0.
func datasetTeamID(c season.Case, kind string) int64 {
	if kind == season.DatasetStandings {
		return 0
	}
	return c.TeamID
}

func newArchivePushCmd() *cobra.Command {
	opts := &archiveOpts{}

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload a case's cached datasets and result to the archive",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadEnv(opts.configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.resolveCase(opts.caseID)
			if err != nil {
				return err
			}
			client, err := opts.client(ctx)
			if err != nil {
				return err
			}

			pushed := 0
			for _, kind := range datasetKinds {
				data, err := e.store.GetDataset(ctx, datasetTeamID(c, kind), c.Season, kind)
				if errors.Is(err, store.ErrNotFound) {
					continue
				}
				if err != nil {
					return err
				}
				if err := client.PutDataset(ctx, c.TeamAbbr, c.Season, kind, data); err != nil {
					return err
				}
				pushed++
			}

			if rec, err := e.store.GetComputed(ctx, c.ID, store.ComponentComposite); err == nil {
				if err := client.PutResult(ctx, c.ID, rec.Data); err != nil {
					return err
				}
				pushed++
			}

			fmt.Fprintf(os.Stderr, "Pushed %d objects for case %s\n", pushed, c.ID)
			return nil
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

func newArchivePullCmd() *cobra.Command {
	opts := &archiveOpts{}

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Download a case's datasets from the archive into the cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadEnv(opts.configPath)
			if err != nil {
				return err
			}
			defer e.Close()

			c, err := e.resolveCase(opts.caseID)
			if err != nil {
				return err
			}
			client, err := opts.client(ctx)
			if err != nil {
				return err
			}

			pulled := 0
			for _, kind := range datasetKinds {
				data, err := client.GetDataset(ctx, c.TeamAbbr, c.Season, kind)
				if err != nil {
					// Absent objects are skipped; components degrade
					// individually.
					continue
				}
				if err := e.store.PutDataset(ctx, datasetTeamID(c, kind), c.Season, kind, data); err != nil {
					return err
				}
				pulled++
			}
			if pulled == 0 {
				return fmt.Errorf("archive holds no datasets for %s %s", c.TeamAbbr, c.Season)
			}

			fmt.Fprintf(os.Stderr, "Pulled %d datasets for case %s\n", pulled, c.ID)
			return nil
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

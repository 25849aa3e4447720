// Package syncer mirrors the docs directory to remote object storage
// by shelling out to the aws CLI. The sync is one-way push with
// deletion, so the remote converges on the local build output.
package syncer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/docpack/docpack/internal/utils"
)

// S3Sync pushes a local directory to an S3-compatible remote
type S3Sync struct {
	command string
	logger  *utils.Logger
}

// NewS3Sync creates a syncer using the aws CLI found on PATH
func NewS3Sync(logger *utils.Logger) *S3Sync {
	if logger == nil {
		logger = utils.NewDefaultLogger()
	}
	return &S3Sync{
		command: "aws",
		logger:  logger.WithComponent("syncer"),
	}
}

// Sync mirrors localDir to the remote URL. With dryRun set the CLI
// reports planned transfers without performing them.
func (s *S3Sync) Sync(ctx context.Context, localDir, remote string, dryRun bool) error {
	if remote == "" {
		return fmt.Errorf("sync remote is not configured")
	}
	if !strings.HasPrefix(remote, "s3://") {
		return fmt.Errorf("sync remote must be an s3:// URL, got %q", remote)
	}

	args := []string{"s3", "sync", "--delete", localDir, remote}
	if dryRun {
		args = append(args, "--dryrun")
	}

	s.logger.Info().
		Str("local", localDir).
		Str("remote", remote).
		Bool("dry_run", dryRun).
		Msg("Syncing docs to remote")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.command, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("aws s3 sync failed: %s: %w", msg, err)
		}
		return fmt.Errorf("aws s3 sync failed: %w", err)
	}
	return nil
}

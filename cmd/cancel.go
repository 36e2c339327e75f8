package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/lobster/batch"
)

// cancelAll cancels or deletes ids after confirmation. A single id renders the
// deletion marker, several are processed concurrently.
func cancelAll(cmd *cobra.Command, noun string, ids []string, cancel batch.CancelFunc) error {
	question := fmt.Sprintf("Cancel %s %s?", noun, ids[0])
	if len(ids) > 1 {
		question = fmt.Sprintf("Cancel %d %s resources?", len(ids), noun)
	}
	ok, err := confirm(cmd, question)
	if err != nil {
		return err
	}
	if !ok {
		logger.Info().Msg("Cancelled by user")
		return nil
	}

	if len(ids) == 1 {
		deletion, err := cancel(cmd.Context(), ids[0])
		if err != nil {
			return fmt.Errorf("cancel %s %s: %w", noun, ids[0], err)
		}
		return renderer.Render(deletion)
	}

	result := batch.NewProcessor(cfg.Batch.Concurrency, logger).Cancel(cmd.Context(), cancel, ids)
	if err := renderer.Render(result); err != nil {
		return err
	}
	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d %s cancellations failed", len(result.Failed), result.Requested, noun)
	}
	return nil
}

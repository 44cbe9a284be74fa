package system

import (
	"encoding/json"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/logger"
)

type DebugCmd struct {
	DBPath      DebugDBPathCmd      `cmd:"" name:"db-path" help:"Show database and log file paths."`
	DumpBooking DebugDumpBookingCmd `cmd:"" help:"Dump a booking history record as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path": ctx.Store.GetConfigPath(),
		"log":  logger.File(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	ctx.Printf("%s\n", jsonBytes)
	return nil
}

type DebugDumpBookingCmd struct {
	ID string `arg:"" help:"ID of the booking record to dump."`
}

func (cmd *DebugDumpBookingCmd) Run(ctx *cli.Context) error {
	b, err := ctx.Store.GetBooking(cmd.ID)
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	ctx.Printf("%s\n", jsonBytes)
	return nil
}

package system

import "github.com/codemon-ai/make-meeting-room/internal/cli"

// SetupCmd runs the first-time setup wizard
type SetupCmd struct{}

func (cmd *SetupCmd) Run(ctx *cli.Context) error {
	return cli.RunSetup(ctx)
}

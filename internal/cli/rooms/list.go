package rooms

import (
	"context"
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/constants"
	"github.com/codemon-ai/make-meeting-room/internal/display"
	"github.com/codemon-ai/make-meeting-room/internal/registry"
)

// RoomsCmd lists the bookable rooms.
type RoomsCmd struct {
	Refresh bool `help:"Log in and resolve room ids from the groupware resource tree."`
}

func (c *RoomsCmd) Run(ctx *cli.Context) error {
	reg := registry.New(constants.DefaultRooms)
	if c.Refresh {
		svc, _, err := ctx.Service(context.Background())
		if err != nil {
			return err
		}
		defer ctx.Close()
		reg = svc.Rooms()
	}
	fmt.Fprint(ctx.Writer(), display.Rooms(reg.Rooms(), reg.Source() == registry.SourceDynamic))
	return nil
}

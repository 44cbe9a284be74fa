package settings

import (
	"fmt"

	"github.com/codemon-ai/make-meeting-room/internal/cli"
	"github.com/codemon-ai/make-meeting-room/internal/validation"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	WorkStart       *string `help:"Start of working hours (HH:MM)."`
	WorkEnd         *string `help:"End of working hours (HH:MM)."`
	SlotIntervalMin *int    `name:"slot-interval" help:"Slot length in minutes for time selection."`
	Timezone        *string `help:"IANA timezone used for today and calendar events."`
	UserID          *string `name:"gw-user" help:"Groupware login id."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		ctx.Printf("Current Settings:\n")
		ctx.Printf("  Work Start:      %s\n", settings.WorkStart)
		ctx.Printf("  Work End:        %s\n", settings.WorkEnd)
		ctx.Printf("  Slot Interval:   %d min\n", settings.SlotIntervalMin)
		ctx.Printf("  Timezone:        %s\n", settings.Timezone)
		ctx.Printf("  Groupware User:  %s\n", settings.GroupwareUserID)
		return nil
	}

	updated := false
	if c.WorkStart != nil {
		settings.WorkStart = *c.WorkStart
		updated = true
	}
	if c.WorkEnd != nil {
		settings.WorkEnd = *c.WorkEnd
		updated = true
	}
	if c.SlotIntervalMin != nil {
		settings.SlotIntervalMin = *c.SlotIntervalMin
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.UserID != nil {
		settings.GroupwareUserID = *c.UserID
		updated = true
	}

	if !updated {
		ctx.Printf("No changes specified. Use --list to view settings or flags to update them.\n")
		return nil
	}

	result := validation.New().ValidateSettings(settings)
	if result.HasConflicts() {
		ctx.Printf("%s", result.FormatReport())
		return result.Err()
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Printf("Settings updated successfully.\n")
	return nil
}

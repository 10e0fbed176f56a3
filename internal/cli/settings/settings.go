package settings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/pomohabit/internal/cli"
	"github.com/julianstephens/pomohabit/internal/constants"
	apperr "github.com/julianstephens/pomohabit/internal/errors"
	"github.com/julianstephens/pomohabit/internal/logger"
	"github.com/julianstephens/pomohabit/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone *string `help:"IANA timezone that decides the calendar day (e.g. Europe/Paris), or 'Local'."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.Timezone != nil {
		tz := strings.TrimSpace(*c.Timezone)
		if tz == "" {
			tz = constants.DefaultTimezone
		}
		if _, err := utils.LoadLocation(tz); err != nil {
			return apperr.NewValidation("timezone", fmt.Sprintf("unknown timezone %q", tz))
		}
		if tz != settings.Timezone {
			logger.Info("Timezone changed", "from", settings.Timezone, "to", tz)
		}
		settings.Timezone = tz
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.Println("Settings updated successfully.")
	}

	if c.List {
		now, err := utils.NowInTimezone(settings.Timezone)
		if err != nil {
			return err
		}
		ctx.Println("Current Settings:")
		ctx.Printf("  Timezone:   %s\n", settings.Timezone)
		ctx.Printf("  Local time: %s %s\n", utils.FormatDay(now), now.Format(constants.TimeFormat))
		return nil
	}

	if !updated {
		ctx.Println("No changes specified. Use --list to view settings or flags to update them.")
	}
	return nil
}

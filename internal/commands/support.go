package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

type locationFlags struct {
	latitude  float64
	longitude float64
}

func (flags *locationFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&flags.latitude, "lat", 0, "Latitude in degrees.")
	cmd.Flags().Float64Var(&flags.longitude, "lon", 0, "Longitude in degrees.")
}

// point returns nil unless a coordinate flag was given.
func (flags *locationFlags) point(cmd *cobra.Command) *services.GeoPoint {
	if !cmd.Flags().Changed("lat") && !cmd.Flags().Changed("lon") {
		return nil
	}
	return &services.GeoPoint{Latitude: flags.latitude, Longitude: flags.longitude}
}

func addSupport(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "support",
		Short: "Peer support requests.",
	}
	cmd.AddCommand(newSupportOpenCommand(opts), newSupportListCommand(opts), newSupportStatusCommand(opts))
	topLevel.AddCommand(cmd)
}

func newSupportOpenCommand(opts *GlobalOptions) *cobra.Command {
	var supportType, description string
	var anonymous bool
	location := &locationFlags{}

	cmd := &cobra.Command{
		Use:   "open <title>",
		Short: "Ask nearby users for help.",
		Example: `
femcare support open "Need a ride to the clinic" --type transport --lat 55.75 --lon 37.62
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}

			input := services.SupportRequestInput{
				UserID:      userID,
				Title:       strings.Join(args, " "),
				Description: description,
				SupportType: supportType,
				Anonymous:   anonymous,
			}
			if point := location.point(cmd); point != nil {
				input.Location = *point
			}

			return withBackend(cmd.Context(), env, func(b *backend) error {
				request, err := services.NewSupportService(b.support).Open(cmd.Context(), input)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(request)
				}
				printSupportMatches(env, []services.SupportMatch{{Request: request}}, false)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&supportType, "type", "", "Kind of help, for example transport or food.")
	cmd.Flags().StringVar(&description, "description", "", "Details for helpers.")
	cmd.Flags().BoolVar(&anonymous, "anonymous", false, "Hide your user id from other users.")
	location.register(cmd)
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newSupportListCommand(opts *GlobalOptions) *cobra.Command {
	var supportType string
	var radius float64
	location := &locationFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open requests of other users, nearest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}

			near := location.point(cmd)
			return withBackend(cmd.Context(), env, func(b *backend) error {
				matches, err := services.NewSupportService(b.support).ListOpen(cmd.Context(), userID, supportType, near, radius)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(matches)
				}
				printSupportMatches(env, matches, near != nil)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&supportType, "type", "", "Only this kind of help.")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Maximum distance in km, 0 for no limit.")
	location.register(cmd)
	return cmd
}

func newSupportStatusCommand(opts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "status <requestId> <in-progress|closed>",
		Short:     "Move one of your requests forward.",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{models.SupportStatusInProgress, models.SupportStatusClosed},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.load()
			if err != nil {
				return err
			}
			userID, err := env.requireUser()
			if err != nil {
				return err
			}
			status := strings.ToLower(strings.TrimSpace(args[1]))
			return withBackend(cmd.Context(), env, func(b *backend) error {
				if err := services.NewSupportService(b.support).UpdateStatus(cmd.Context(), userID, args[0], status); err != nil {
					return err
				}
				printLine("%s %s", args[0], mutedStyle.Sprint(env.t("support.status."+status)))
				return nil
			})
		},
	}
}

func printSupportMatches(env *environment, matches []services.SupportMatch, withDistance bool) {
	tbl := newTable("ID", "Type", "Title", "From", "Distance", "Status", "Opened")
	for _, match := range matches {
		request := match.Request
		author := request.UserID
		if author == "" {
			author = mutedStyle.Sprint(env.t("support.anonymous"))
		}
		distance := mutedStyle.Sprint("-")
		if withDistance {
			distance = fmt.Sprintf("%.1f km", match.DistanceKm)
		}
		tbl.AddRow(request.ID, request.SupportType, request.Title, author, distance, env.t("support.status."+request.Status), shortTime(request.CreatedAt.In(env.location)))
	}
	printTable(tbl)
}

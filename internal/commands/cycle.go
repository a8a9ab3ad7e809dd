package commands

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/femcare/internal/models"
	"github.com/terraincognita07/femcare/internal/services"
)

func cycleStatusCacheKey(userID string) string {
	return userID + "/cycle-status"
}

func addCycle(topLevel *cobra.Command, opts *GlobalOptions) {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Period state, cycle day and next period prediction.",
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Show the current cycle state.",
		Long:  "Show the current cycle state. When the store is unreachable the last status seen on this machine is shown instead.",
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

			return withBackend(cmd.Context(), env, func(b *backend) error {
				service := services.NewCycleService(b.cycles, env.location)
				viewCache := openViewCache(env.cfg)

				current, err := service.Status(cmd.Context(), userID, env.now())
				stale := false
				if err != nil {
					if viewCache == nil || viewCache.LoadJSON(cycleStatusCacheKey(userID), &current) != nil {
						return err
					}
					log.Printf("cycle: showing cached status: %v", err)
					stale = true
				} else if viewCache != nil {
					if err := viewCache.SaveJSON(cycleStatusCacheKey(userID), current); err != nil {
						log.Printf("cycle: cache status failed: %v", err)
					}
				}

				if opts.JSON {
					return printJSON(current)
				}
				printCycleStatus(env, current, stale)
				return nil
			})
		},
	}

	start := &cobra.Command{
		Use:   "start [YYYY-MM-DD]",
		Short: "Record the first day of a period (today by default).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateCycle(cmd, opts, func(service *services.CycleService, userID string, env *environment) (models.CycleRecord, error) {
				day, err := parseDay(firstArg(args), env.location, env.now())
				if err != nil {
					return models.CycleRecord{}, err
				}
				return service.StartPeriod(cmd.Context(), userID, day)
			})
		},
	}

	end := &cobra.Command{
		Use:   "end [YYYY-MM-DD]",
		Short: "Record the last day of the current period (today by default).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateCycle(cmd, opts, func(service *services.CycleService, userID string, env *environment) (models.CycleRecord, error) {
				day, err := parseDay(firstArg(args), env.location, env.now())
				if err != nil {
					return models.CycleRecord{}, err
				}
				return service.EndPeriod(cmd.Context(), userID, day)
			})
		},
	}

	cmd.AddCommand(status, start, end)
	topLevel.AddCommand(cmd)
}

type cycleChange func(service *services.CycleService, userID string, env *environment) (models.CycleRecord, error)

func updateCycle(cmd *cobra.Command, opts *GlobalOptions, change cycleChange) error {
	env, err := opts.load()
	if err != nil {
		return err
	}
	userID, err := env.requireUser()
	if err != nil {
		return err
	}

	return withBackend(cmd.Context(), env, func(b *backend) error {
		service := services.NewCycleService(b.cycles, env.location)
		record, err := change(service, userID, env)
		if err != nil {
			return err
		}

		current := services.BuildCycleStatus(record, env.now(), env.location)
		if opts.JSON {
			return printJSON(current)
		}
		printCycleStatus(env, current, false)
		return nil
	})
}

func printCycleStatus(env *environment, status services.CycleStatus, stale bool) {
	printTitle(env.t("cycle.state." + string(status.State)))
	if stale {
		printLine("%s", mutedStyle.Sprint(env.t("cycle.offline")))
	}
	if status.State == services.CycleStateNoData {
		return
	}

	tbl := newTable("", "")
	tbl.AddRow(env.t("cycle.day"), status.CycleDay)
	tbl.AddRow(env.t("cycle.next_start"), status.NextCycleStart.Format("2006-01-02"))
	tbl.AddRow(env.t("cycle.days_until"), status.DaysUntilNextCycle)
	if status.AverageCycleLength > 0 {
		tbl.AddRow(env.t("cycle.average_length"), fmt.Sprintf("%.1f", status.AverageCycleLength))
	}
	printTable(tbl)

	if status.RangeOutOfOrder {
		printLine("%s", alertStyle.Sprint(env.t("cycle.range_out_of_order")))
	}
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

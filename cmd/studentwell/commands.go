package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/studentwell/internal/checkin"
	"github.com/kalambet/studentwell/internal/config"
	"github.com/kalambet/studentwell/internal/dashboard"
	"github.com/kalambet/studentwell/internal/mood"
	"github.com/kalambet/studentwell/internal/tui"
	"github.com/kalambet/studentwell/internal/view"
)

func styles() view.Styles {
	return view.NewStyles(!noColor)
}

// --- checkin ---

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record today's mood",
	Long: `Record today's mood. Only one check-in per calendar day is kept.

Examples:
  studentwell checkin --mood 4
  studentwell checkin --mood good --notes "Finished the lab report"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		moodStr, _ := cmd.Flags().GetString("mood")
		notes, _ := cmd.Flags().GetString("notes")

		if strings.TrimSpace(moodStr) == "" {
			return fmt.Errorf("%w: pass --mood 1..5 or a label (poor, low, neutral, good, excellent)", checkin.ErrNoMoodSelected)
		}
		level, err := mood.ParseLevel(moodStr)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := openService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		res, err := svc.CheckIn(cmd.Context(), level.Value, notes)
		if errors.Is(err, dashboard.ErrAlreadyCheckedIn) {
			printWarning("You've already checked in today. Come back tomorrow to continue tracking your wellness journey.")
			return err
		}
		if err != nil {
			return err
		}

		printSuccess("%s: %s %s", res.Notification.Title, res.Entry.Emoji, res.Entry.Label)
		fmt.Fprintln(cmd.OutOrStdout(), res.Notification.Description)
		return nil
	},
}

func init() {
	checkinCmd.Flags().StringP("mood", "m", "", "mood value 1-5 or label")
	checkinCmd.Flags().StringP("notes", "n", "", "optional notes")
}

// --- history ---

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded check-ins, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := openService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		h, err := svc.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), styles().History(h))
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "show only the most recent N check-ins (0 = all)")
}

// --- trends ---

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show mood averages, the weekly trend and the distribution",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		svc, err := openService(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer svc.Close()

		report, err := svc.Trends(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles().Trends(report))
		return nil
	},
}

// --- wellness ---

var wellnessCmd = &cobra.Command{
	Use:   "wellness",
	Short: "Show wellness suggestions for your current mood",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("mood")
		width, _ := cmd.Flags().GetInt("width")

		if label == "" {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := openService(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			snap, err := svc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			label = snap.CurrentMood
		}

		s := styles()
		out, err := s.Recommendations(label, width)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		fmt.Fprintln(cmd.OutOrStdout(), s.Resources())
		return nil
	},
}

func init() {
	wellnessCmd.Flags().String("mood", "", "show suggestions for this mood label instead of the current one")
	wellnessCmd.Flags().Int("width", 80, "word-wrap width")
}

// --- dashboard ---

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Open the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if newAPIClient(cfg.Server.Port).healthy(cmd.Context()) {
			printWarning("studentwell server is running; it will not see check-ins made here until restarted")
		}

		app, err := openLocal(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		return tui.Run(app.dash, styles())
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		s := styles()
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  %s\n", s.Title.Render(k.Key), k.Value, s.Muted.Render("("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

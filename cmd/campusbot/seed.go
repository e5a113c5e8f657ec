package main

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/storage/sqlite"
	"github.com/campushq/campusbot/pkg/log"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the events table with sample campus events",
	Long:  `Replaces the events table with a sample schedule. Run offline; meant for demos and local development.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)

		if err := initEnv(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to init env")
		}
		appCfg := config.NewAppConfig(ctx)

		db, err := initStorage(ctx, appCfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize storage")
		}
		defer db.Close()

		events := sqlite.NewEvents(db)
		if err := events.Replace(ctx, sampleEvents()); err != nil {
			return err
		}

		count, err := events.CountEvents(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int64("events", count).Msg("events table seeded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func sampleEvents() []core.Event {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	}

	return []core.Event{
		{
			ID:          "EVT001",
			Name:        "Tech Fest 2025",
			Description: "Annual technology festival with project exhibitions, robotics demos and coding contests.",
			Location:    "Main Auditorium",
			Start:       day(2025, time.October, 10),
			End:         time.Date(2025, time.October, 12, 18, 0, 0, 0, time.UTC),
		},
		{
			ID:          "EVT002",
			Name:        "Guest Lecture on AI",
			Description: "Invited talk on modern machine learning and its applications, open to all departments.",
			Location:    "Seminar Hall B",
			Start:       time.Date(2025, time.September, 25, 15, 0, 0, 0, time.UTC),
			End:         time.Date(2025, time.September, 25, 17, 0, 0, 0, time.UTC),
		},
		{
			ID:          "EVT003",
			Name:        "CodeClash",
			Description: "Inter-college competitive programming contest, teams of three.",
			Location:    "Computer Lab 2",
			Start:       day(2025, time.October, 10),
			End:         time.Date(2025, time.October, 10, 17, 0, 0, 0, time.UTC),
		},
		{
			ID:          "EVT004",
			Name:        "Cultural Night",
			Description: "Music, dance and drama performances by student clubs.",
			Location:    "Open Air Theatre",
			Start:       time.Date(2025, time.November, 14, 18, 0, 0, 0, time.UTC),
			End:         time.Date(2025, time.November, 14, 22, 0, 0, 0, time.UTC),
		},
		{
			ID:          "EVT005",
			Name:        "Placement Orientation",
			Description: "Briefing for final-year students on the placement season, resume reviews and mock interviews.",
			Location:    "Seminar Hall A",
			Start:       time.Date(2025, time.September, 5, 10, 0, 0, 0, time.UTC),
			End:         time.Date(2025, time.September, 5, 13, 0, 0, 0, time.UTC),
		},
	}
}

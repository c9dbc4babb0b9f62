package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fieldrover/routeman/config"
	"github.com/fieldrover/routeman/core/sampler"
	"github.com/fieldrover/routeman/infra/logger"
	"github.com/fieldrover/routeman/infra/mqtt"
)

var sampleCount int

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample valid goals from the map and print them",
	Long: `Reads the occupancy grid from the map provider and prints sampled
collision-free goal poses as JSON, one per line. Useful for recording a pose
list for the inorder and random route modes.`,
	RunE: samplePoses,
}

func init() {
	sampleCmd.Flags().IntVarP(&sampleCount, "count", "n", 5, "number of goals to sample")
	rootCmd.AddCommand(sampleCmd)
}

func samplePoses(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logg := logger.New("sample-command")
	bridge, err := mqtt.NewBridge(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("mqtt bridge: %w", err)
	}
	defer bridge.Close()

	s, err := sampler.New(ctx, bridge, logg)
	if err != nil {
		return fmt.Errorf("goal sampler: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for i := 0; i < sampleCount; i++ {
		pose, err := s.NextGoal()
		if err != nil {
			return err
		}
		if err := enc.Encode(pose); err != nil {
			return err
		}
	}
	return nil
}

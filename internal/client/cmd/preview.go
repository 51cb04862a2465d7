package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"biokeeper/internal/client/zone"
)

// newPreviewCmd scores a reading against a material's ideal conditions
// without recording it.
func newPreviewCmd(e *env) *cobra.Command {
	var (
		material int64
		got      zone.Reading
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the storage zone a reading would fall into",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if material <= 0 {
				return fmt.Errorf("--material is required")
			}
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}
			m, err := a.API.Materials().Get(cmd.Context(), sess.ActorID, material)
			if err != nil {
				return fmt.Errorf("Failed to fetch biological material: %w", err)
			}
			score := zone.Score(got, zone.Ideal(m))
			badge := zone.Classify(zone.Determine(score))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Material: %s (ID: %d)\n", m.MaterialName, m.MaterialID)
			fmt.Fprintf(out, "Zone: %s\n", badge.Label)
			fmt.Fprintf(out, "Description: %s\n", badge.Description)
			fmt.Fprintf(out, "Score: %.2f\n", score)
			return nil
		},
	}
	fs := cmd.Flags()
	fs.Int64Var(&material, "material", 0, "material id")
	fs.Float64Var(&got.Temperature, "temperature", 0, "temperature, °C")
	fs.Float64Var(&got.Oxygen, "oxygen", 0, "oxygen level, %")
	fs.Float64Var(&got.Humidity, "humidity", 0, "humidity, %")
	return cmd
}

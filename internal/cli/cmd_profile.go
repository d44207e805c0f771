package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
)

// PrintProfileCmd prints the effective profile (defaults merged with any
// .density.json found) as formatted JSON.
func PrintProfileCmd(profile Profile) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-profile", flag.ContinueOnError),
		Usage: "print-profile",
		Short: "Print the effective profile as JSON",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			data, err := json.MarshalIndent(profile, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting profile: %w", err)
			}

			o.Println(string(data))

			return nil
		},
	}
}

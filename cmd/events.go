package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [target]",
	Short: "Display the audit trail for a target",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvents,
}

var eventsJSON bool

func init() {
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Output events as JSON lines")
	rootCmd.AddCommand(eventsCmd)
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := cfg.Target.Name
	if len(args) > 0 {
		name = args[0]
	}

	events, err := auditLogger().Events(name)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	if len(events) == 0 {
		logInfo("No events found for target %s", name)
		return nil
	}

	for _, e := range events {
		if eventsJSON {
			data, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("failed to marshal event: %w", err)
			}
			fmt.Println(string(data))
		} else {
			ts := e.Timestamp.Local().Format("2006-01-02 15:04:05")
			if e.Details != "" {
				fmt.Printf("[%s] %-8s %s (%s)\n", ts, e.Type, e.Target, e.Details)
			} else {
				fmt.Printf("[%s] %-8s %s\n", ts, e.Type, e.Target)
			}
		}
	}

	return nil
}

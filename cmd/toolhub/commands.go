package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/loykin/toolhub/internal/license"
	"github.com/spf13/cobra"
)

func client(flags *GlobalFlags) (*APIClient, error) {
	c := NewAPIClient(flags.APIUrl, flags.APITimeout)
	if !c.IsReachable() {
		return nil, fmt.Errorf("daemon not reachable at %s, start it first with 'toolhub serve'", c.baseURL)
	}
	return c, nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func newStartCommand(flags *GlobalFlags) *cobra.Command {
	var chord string
	cmd := &cobra.Command{
		Use:   "start <tool>",
		Short: "Start a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			if err := c.StartTool(args[0], chord); err != nil {
				return err
			}
			st, err := c.GetStatus(args[0])
			if err != nil {
				return err
			}
			printJSON(st)
			return nil
		},
	}
	cmd.Flags().StringVar(&chord, "hotkey", "", "hotkey chord to pass to the tool (e.g. ctrl+alt+F13 or code:124)")
	return cmd
}

func newStopCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <tool>",
		Short: "Stop a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			return c.StopTool(args[0])
		},
	}
}

func newStopAllCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stop-all",
		Short: "Stop every tool the hub started (externally launched copies are left alone)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			return c.StopAll()
		},
	}
}

func newStatusCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "status [tool]",
		Short: "Show tool status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			tool := ""
			if len(args) == 1 {
				tool = args[0]
			}
			st, err := c.GetStatus(tool)
			if err != nil {
				return err
			}
			printJSON(st)
			return nil
		},
	}
}

func newScanCommand(flags *GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the process table for externally launched tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			st, err := c.Scan()
			if err != nil {
				return err
			}
			printJSON(st)
			return nil
		},
	}
}

func newHotkeysCommand(flags *GlobalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hotkeys",
		Short: "List registered hotkeys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			regs, err := c.ListHotkeys("")
			if err != nil {
				return err
			}
			printJSON(regs)
			return nil
		},
	}

	var action string
	register := &cobra.Command{
		Use:   "register <tool> <chord>",
		Short: "Register a hotkey for a tool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			return c.RegisterHotkey(args[0], action, args[1])
		},
	}
	register.Flags().StringVar(&action, "action", "activate", "action name bound to the hotkey")

	unregister := &cobra.Command{
		Use:   "unregister <tool> [chord]",
		Short: "Remove one hotkey, or all of a tool's hotkeys",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client(flags)
			if err != nil {
				return err
			}
			chord := ""
			if len(args) == 2 {
				chord = args[1]
			}
			return c.UnregisterHotkey(args[0], chord)
		},
	}

	cmd.AddCommand(register, unregister)
	return cmd
}

func newLicenseCommand(flags *GlobalFlags) *cobra.Command {
	var stateFile string
	cmd := &cobra.Command{
		Use:   "license",
		Short: "Manage the license and trial",
	}
	cmd.PersistentFlags().StringVar(&stateFile, "state-file", defaultLicensePath(), "license state file")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show license and trial status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := license.LoadState(stateFile)
			if err != nil {
				return err
			}
			trial, err := st.TrialStatus()
			if err != nil {
				return err
			}
			printJSON(map[string]any{
				"licensed":   st.LicenseKey != "" && st.LicenseStatus == "active",
				"trial":      trial,
				"authorized": st.Authorized(),
			})
			return nil
		},
	}

	trial := &cobra.Command{
		Use:   "trial",
		Short: "Start the one-time free trial",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := license.LoadState(stateFile)
			if err != nil {
				return err
			}
			tr, err := st.StartTrial()
			if err != nil {
				return err
			}
			printJSON(tr)
			return nil
		},
	}

	activate := &cobra.Command{
		Use:   "activate <key>",
		Short: "Activate a license key on this machine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := license.LoadState(stateFile)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			host, _ := os.Hostname()
			res, err := license.NewClient().Activate(ctx, args[0], host)
			if err != nil {
				return err
			}
			if !res.Activated {
				return fmt.Errorf("activation failed: %s", res.Err)
			}
			st.LicenseKey = args[0]
			st.InstanceID = res.InstanceID
			st.LastValidated = time.Now().Format(time.RFC3339)
			if res.License != nil {
				st.LicenseStatus = res.License.Status
			}
			if res.Meta != nil {
				st.CustomerEmail = res.Meta.CustomerEmail
			}
			if err := st.Save(); err != nil {
				return err
			}
			fmt.Println("license activated")
			return nil
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate",
		Short: "Release this machine's license instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := license.LoadState(stateFile)
			if err != nil {
				return err
			}
			if st.LicenseKey == "" {
				return fmt.Errorf("no license activated")
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			ok, err := license.NewClient().Deactivate(ctx, st.LicenseKey, st.InstanceID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("deactivation rejected by license server")
			}
			if err := st.ClearLicense(); err != nil {
				return err
			}
			fmt.Println("license deactivated")
			return nil
		},
	}

	cmd.AddCommand(status, trial, activate, deactivate)
	return cmd
}

func defaultLicensePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "license.json"
	}
	return filepath.Join(dir, "toolhub", "license.json")
}

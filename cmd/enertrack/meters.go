package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/energy-tracker/constants"
)

var (
	meterKind string
	meterDesc string
)

var metersCmd = &cobra.Command{
	Use:   "meters",
	Short: "List and manage meters",
	RunE:  runMetersList,
}

var metersAddCmd = &cobra.Command{
	Use:   "add <ref>",
	Short: "Register a meter by its POD or PDR code",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetersAdd,
}

var metersRemoveCmd = &cobra.Command{
	Use:   "rm <ref>",
	Short: "Remove a meter and all its records",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetersRemove,
}

func init() {
	metersAddCmd.Flags().StringVar(&meterKind, "kind", string(constants.Electricity), "meter kind: electricity or gas")
	metersAddCmd.Flags().StringVar(&meterDesc, "description", "", "free-form description")
	metersCmd.AddCommand(metersAddCmd)
	metersCmd.AddCommand(metersRemoveCmd)
	rootCmd.AddCommand(metersCmd)
}

func runMetersList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	meters := st.Meters()
	if len(meters) == 0 {
		fmt.Println("No meters registered.")
		return nil
	}
	fmt.Printf("%-18s %-12s %s\n", "reference", "kind", "description")
	for _, m := range meters {
		fmt.Printf("%-18s %-12s %s\n", m.Ref(), m.Kind, m.Description)
	}
	return nil
}

func runMetersAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	m, err := st.RegisterMeter(constants.MeterKind(meterKind), args[0], meterDesc)
	if err != nil {
		return err
	}
	if err := saveStore(st, cfg); err != nil {
		return err
	}
	fmt.Printf("Registered %s meter %s\n", m.Kind, m.Ref())
	return nil
}

func runMetersRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := openStore(cfg)
	m, ok := st.MeterByRef(args[0])
	if !ok {
		return fmt.Errorf("no meter with reference %q", args[0])
	}
	if !confirm(fmt.Sprintf("Remove meter %s and all its records?", m.Ref())) {
		fmt.Println("Aborted.")
		return nil
	}
	st.RemoveMeter(m.ID)
	if err := saveStore(st, cfg); err != nil {
		return err
	}
	fmt.Printf("Removed meter %s\n", args[0])
	return nil
}

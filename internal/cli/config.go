package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubikscube/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved defaults",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current settings",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: fmt.Sprintf(`Change a setting and save the config file.

Keys: %s`, strings.Join(config.Keys(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	s := cfgFile.Settings()

	fmt.Fprintln(out, titleStyle.Render("Config "+cfgFile.Path()))
	fmt.Fprintf(out, "db_path:         %s\n", orDefault(s.DBPath))
	fmt.Fprintf(out, "metric:          %s\n", orDefault(s.Metric))
	if s.ScrambleMoves > 0 {
		fmt.Fprintf(out, "scramble_moves:  %d\n", s.ScrambleMoves)
	} else {
		fmt.Fprintf(out, "scramble_moves:  %s\n", orDefault(""))
	}
	if s.Seed != nil {
		fmt.Fprintf(out, "seed:            %d\n", *s.Seed)
	} else {
		fmt.Fprintf(out, "seed:            %s\n", orDefault(""))
	}
	fmt.Fprintf(out, "serve_addr:      %s\n", orDefault(s.ServeAddr))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := cfgFile.Set(args[0], args[1]); err != nil {
		return err
	}
	settings = cfgFile.Settings()
	logger.Debug("config saved", "path", cfgFile.Path(), "key", args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], cfgFile.Path())
	return nil
}

func orDefault(v string) string {
	if v == "" {
		return statusStyle.Render("(default)")
	}
	return v
}

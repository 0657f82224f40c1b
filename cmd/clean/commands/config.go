package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/spreadclean/internal/cleanconfig"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "클리닝 규칙 확인",
	Long: `클리닝 규칙(YAML)을 검증하거나 실제 적용될 값을 출력합니다.

Example:
  go run ./cmd/clean config validate --config config/cleaning.yaml
  go run ./cmd/clean config show`,
}

var (
	configValidateCmd = &cobra.Command{
		Use:   "validate",
		Short: "규칙 검증 및 경고 출력",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "적용될 규칙을 YAML로 출력",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Cleaning rules")
	printKeyValue(out, "Config ID", rt.snap.ConfigID, 12)
	printKeyValue(out, "Version", rt.snap.Version, 12)
	printKeyValue(out, "Hash", shortHash(rt.snap.ConfigHash), 12)
	printKeyValue(out, "Overrides", len(rt.rules.Securities.CouponOverrides), 12)
	fmt.Fprintln(out, singleLine)

	warnings := cleanconfig.Warn(rt.rules)
	for _, w := range warnings {
		printWarning(out, fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}
	if len(warnings) == 0 {
		printSuccess(out, "Rules are valid")
	} else {
		printSuccess(out, fmt.Sprintf("Rules are valid (%d warnings)", len(warnings)))
	}
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(rt.rules); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return enc.Close()
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "spread 결측 현황 확인 (파일 저장 없음)",
	Long: `SecurityData를 S4까지 처리한 뒤 종목별 spread 결측 현황과
보간 window, 데이터 부족으로 제외될 종목을 출력합니다.

Example:
  go run ./cmd/clean inspect --input Data/SecurityData.csv
  go run ./cmd/clean inspect --input Data/SecurityData.csv --all`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var (
	inspectInput string
	inspectAll   bool
)

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectInput, "input", "", "SecurityData 파일")
	inspectCmd.Flags().BoolVar(&inspectAll, "all", false, "결측이 없는 종목도 출력")
}

func runInspect(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	o, err := rt.orchestrator("")
	if err != nil {
		return err
	}

	path := orDefault(inspectInput, rt.cfg.DataPath(rt.rules.Securities.InputFile))
	ins, err := o.Inspect(path)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	out := cmd.OutOrStdout()
	printHeader(out, "Spread coverage")
	printKeyValue(out, "Input", path, 14)
	printKeyValue(out, "Records", ins.Records, 14)
	printKeyValue(out, "Duplicates", ins.Duplicates, 14)
	printKeyValue(out, "Treasury rows", ins.Treasuries, 14)
	printKeyValue(out, "Orphans", ins.Orphans, 14)
	fmt.Fprintln(out, singleLine)

	widths := []int{16, 8, 8, 8, 8, 6}
	printTableHeader(out, []string{"Instrument", "Rows", "NonNull", "Null", "Window", "Keep"}, widths)
	for _, s := range ins.Instruments {
		if !inspectAll && s.Null == 0 && s.Sufficient {
			continue
		}
		keep := "yes"
		if !s.Sufficient {
			keep = "no"
		}
		printTableRow(out, []string{
			s.InstrumentID,
			fmt.Sprint(s.Records),
			fmt.Sprint(s.NonNull),
			fmt.Sprint(s.Null),
			fmt.Sprint(s.Window),
			keep,
		}, widths)
	}
	fmt.Fprintln(out, singleLine)

	if n := len(ins.Insufficient()); n > 0 {
		printWarning(out, fmt.Sprintf("%d instruments would be dropped (< %d spreads)", n, rt.rules.Impute.MinObservations))
	} else {
		printSuccess(out, "All instruments have enough spread observations")
	}
	return nil
}

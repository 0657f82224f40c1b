package commands

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wonny/spreadclean/internal/audit"
	"github.com/wonny/spreadclean/internal/pipeline"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "클리닝 파이프라인 실행",
	Long: `데이터셋 변형별로 전체 파이프라인을 실행합니다.

변형:
- securities: 채권 종목 데이터 (S0~S7 전체)
- cds: CDS 지수 price/spread 시트 (S3~S5 생략)

Example:
  go run ./cmd/clean run securities --input Data/SecurityData.csv --format csv
  go run ./cmd/clean run cds --prices Data/CDSPrices.csv --spreads Data/CDSSpreads.csv`,
}

var (
	runSecuritiesCmd = &cobra.Command{
		Use:   "securities",
		Short: "채권 종목 데이터 클리닝",
		Long: `SecurityData 원본을 정규화, 중복 제거, 구간 분할, spread 보간 후
CleanData / TradingData / Treasuries / TradingTreasuries 및 CUSIP 목록을 저장합니다.

Flags:
  --input       원본 파일 (CSV 또는 XLSX, 기본: $DATA_DIR/SecurityData.csv)
  --output-dir  출력 디렉토리 (기본: $OUTPUT_DIR)
  --format      xlsx | csv (기본: $OUTPUT_FORMAT)`,
		Args: cobra.NoArgs,
		RunE: runSecurities,
	}

	runCDSCmd = &cobra.Command{
		Use:   "cds",
		Short: "CDS 지수 데이터 클리닝",
		Long: `CDS price / spread wide 시트를 (Date, Type, Tenor) long 테이블로 변환하고
spread duration을 계산하여 CDSData / TradingCDSData를 저장합니다.

Flags:
  --prices      price 시트 (기본: $DATA_DIR/CDSPrices.csv)
  --spreads     spread 시트 (기본: $DATA_DIR/CDSSpreads.csv)
  --output-dir  출력 디렉토리 (기본: $OUTPUT_DIR)
  --format      xlsx | csv (기본: $OUTPUT_FORMAT)`,
		Args: cobra.NoArgs,
		RunE: runCDS,
	}

	// Flags
	runInput     string
	runPrices    string
	runSpreads   string
	runOutputDir string
	runFormat    string
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.AddCommand(runSecuritiesCmd)
	runCmd.AddCommand(runCDSCmd)

	for _, c := range []*cobra.Command{runSecuritiesCmd, runCDSCmd} {
		c.Flags().StringVar(&runOutputDir, "output-dir", "", "출력 디렉토리")
		c.Flags().StringVar(&runFormat, "format", "", "출력 포맷 (xlsx|csv)")
	}
	runSecuritiesCmd.Flags().StringVar(&runInput, "input", "", "SecurityData 파일")
	runCDSCmd.Flags().StringVar(&runPrices, "prices", "", "CDS price 시트")
	runCDSCmd.Flags().StringVar(&runSpreads, "spreads", "", "CDS spread 시트")
}

func runSecurities(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	o, err := rt.orchestrator(runFormat)
	if err != nil {
		return err
	}

	in := pipeline.SecurityInput{
		Path:      orDefault(runInput, rt.cfg.DataPath(rt.rules.Securities.InputFile)),
		OutputDir: orDefault(runOutputDir, rt.cfg.OutputDir),
	}

	res, err := o.RunSecurities(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("securities run: %w", err)
	}

	out := cmd.OutOrStdout()
	printReport(out, "Securities cleaning", res.Report)
	printKeyValue(out, "Clean rows", len(res.Clean), 18)
	printKeyValue(out, "Trading rows", len(res.TradingData), 18)
	printKeyValue(out, "Treasury rows", len(res.Treasuries), 18)
	printKeyValue(out, "Trading ids", len(res.TradingIDs), 18)
	printKeyValue(out, "Treasury ids", len(res.TreasuryIDs), 18)
	printOutputs(out, res.Report)
	return nil
}

func runCDS(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	o, err := rt.orchestrator(runFormat)
	if err != nil {
		return err
	}

	in := pipeline.CDSInput{
		PricePath:  orDefault(runPrices, rt.cfg.DataPath(rt.rules.CDS.PriceFile)),
		SpreadPath: orDefault(runSpreads, rt.cfg.DataPath(rt.rules.CDS.SpreadFile)),
		OutputDir:  orDefault(runOutputDir, rt.cfg.OutputDir),
	}

	res, err := o.RunCDS(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("cds run: %w", err)
	}

	out := cmd.OutOrStdout()
	printReport(out, "CDS cleaning", res.Report)
	printKeyValue(out, "Quotes", len(res.Quotes), 18)
	printKeyValue(out, "Trading quotes", len(res.Trading), 18)
	printOutputs(out, res.Report)
	return nil
}

func printReport(w io.Writer, title string, r *audit.Report) {
	printHeader(w, title)
	printKeyValue(w, "Run ID", r.RunID, 18)
	printKeyValue(w, "Config hash", shortHash(r.Config.ConfigHash), 18)
	if r.Window != nil {
		printKeyValue(w, "Trade window", fmt.Sprintf("%s ~ %s",
			r.Window.Start.Format("2006-01-02"), r.Window.End.Format("2006-01-02")), 18)
	}
	fmt.Fprintln(w, singleLine)

	widths := []int{14, 8, 8, 8}
	printTableHeader(w, []string{"Stage", "In", "Out", "ms"}, widths)
	for _, s := range r.Stages {
		printTableRow(w, []string{
			string(s.Stage),
			fmt.Sprint(s.InputCount),
			fmt.Sprint(s.OutputCount),
			fmt.Sprint(s.Duration),
		}, widths)
	}
	fmt.Fprintln(w, singleLine)

	q := r.Quality
	printKeyValue(w, "Duplicates", q.DuplicatesDiscarded, 18)
	printKeyValue(w, "Treasury orphans", q.TreasuryOrphans, 18)
	printKeyValue(w, "Insufficient", len(q.Insufficient), 18)
	printKeyValue(w, "Spreads imputed", q.SpreadsImputed, 18)
	if len(q.UnresolvedCoupons) > 0 {
		printWarning(w, fmt.Sprintf("%d instruments have no coupon and no override", len(q.UnresolvedCoupons)))
		printList(w, q.UnresolvedCoupons)
	}
}

func printOutputs(w io.Writer, r *audit.Report) {
	fmt.Fprintln(w, singleLine)
	for _, p := range r.Outputs {
		printSuccess(w, filepath.Base(p))
	}
	fmt.Fprintln(w, doubleLine)
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
